package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a wisp error code.
type ErrorCode string

const (
	// Provider failure kinds. A round that hits one of these ends without
	// executing anything; interactive loops report and continue.
	ErrAuth              ErrorCode = "AUTH_ERROR"
	ErrNetwork           ErrorCode = "NETWORK_ERROR"
	ErrRateLimited       ErrorCode = "RATE_LIMITED"
	ErrMalformedResponse ErrorCode = "MALFORMED_RESPONSE"

	ErrNoAPIKey     ErrorCode = "NO_API_KEY"    // fatal at startup
	ErrInvalidInput ErrorCode = "INVALID_INPUT" // bad flag/argument/config value
	ErrNotFound     ErrorCode = "NOT_FOUND"     // history record lookup miss
	ErrInternal     ErrorCode = "INTERNAL"
)

// WispError represents a structured error with code and details.
type WispError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *WispError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAuth creates an error for a rejected provider credential.
func NewAuth(msg string) *WispError {
	if msg == "" {
		msg = "provider rejected the API credential"
	}
	return &WispError{
		Code:    ErrAuth,
		Message: msg,
	}
}

// NewNetwork creates an error for transport-level provider failures,
// including timeouts and non-2xx statuses with no better classification.
func NewNetwork(err error) *WispError {
	msg := "network error contacting provider"
	if err != nil {
		msg = err.Error()
	}
	return &WispError{
		Code:    ErrNetwork,
		Message: msg,
	}
}

// NewRateLimited creates an error for provider throttling.
func NewRateLimited() *WispError {
	return &WispError{
		Code:    ErrRateLimited,
		Message: "provider rate limit exceeded; try again shortly",
	}
}

// NewMalformedResponse creates an error for responses missing usable content.
func NewMalformedResponse(msg string) *WispError {
	if msg == "" {
		msg = "provider returned an unusable response"
	}
	return &WispError{
		Code:    ErrMalformedResponse,
		Message: msg,
	}
}

// NewNoAPIKey creates the fatal startup error for a missing credential.
func NewNoAPIKey(envVar string) *WispError {
	return &WispError{
		Code:    ErrNoAPIKey,
		Message: fmt.Sprintf("%s environment variable not set", envVar),
		Details: map[string]any{"env": envVar},
	}
}

// NewInvalidInput creates an error for invalid arguments or config values.
func NewInvalidInput(msg string) *WispError {
	return &WispError{
		Code:    ErrInvalidInput,
		Message: msg,
	}
}

// NewNotFound creates an error for a missing history record.
func NewNotFound(identifier string) *WispError {
	return &WispError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("record not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewInternal creates an error for unexpected internal failures. The message
// stays generic; the original error is kept in Details for logging.
func NewInternal(err error) *WispError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &WispError{
		Code:    ErrInternal,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is a WispError with the given code, unwrapping as needed.
func Is(err error, code ErrorCode) bool {
	var wErr *WispError
	if stderrors.As(err, &wErr) {
		return wErr.Code == code
	}
	return false
}

// IsProvider reports whether the error is one of the provider failure kinds.
func IsProvider(err error) bool {
	var wErr *WispError
	if !stderrors.As(err, &wErr) {
		return false
	}
	switch wErr.Code {
	case ErrAuth, ErrNetwork, ErrRateLimited, ErrMalformedResponse:
		return true
	}
	return false
}
