package errors

import (
	"fmt"
	"testing"
)

func TestWispError_Error(t *testing.T) {
	err := &WispError{
		Code:    ErrNotFound,
		Message: "record not found",
	}

	expected := "NOT_FOUND: record not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewAuth(t *testing.T) {
	t.Run("with message", func(t *testing.T) {
		err := NewAuth("401 unauthorized")
		if err.Code != ErrAuth {
			t.Errorf("Code = %q, want %q", err.Code, ErrAuth)
		}
		if err.Message != "401 unauthorized" {
			t.Errorf("Message = %q, want %q", err.Message, "401 unauthorized")
		}
	})

	t.Run("default message", func(t *testing.T) {
		err := NewAuth("")
		if err.Message == "" {
			t.Error("Message should not be empty")
		}
	})
}

func TestNewNetwork(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		err := NewNetwork(fmt.Errorf("dial tcp: connection refused"))
		if err.Code != ErrNetwork {
			t.Errorf("Code = %q, want %q", err.Code, ErrNetwork)
		}
		if err.Message != "dial tcp: connection refused" {
			t.Errorf("Message = %q, want cause text", err.Message)
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewNetwork(nil)
		if err.Message != "network error contacting provider" {
			t.Errorf("Message = %q, want default", err.Message)
		}
	})
}

func TestNewRateLimited(t *testing.T) {
	err := NewRateLimited()
	if err.Code != ErrRateLimited {
		t.Errorf("Code = %q, want %q", err.Code, ErrRateLimited)
	}
}

func TestNewMalformedResponse(t *testing.T) {
	err := NewMalformedResponse("response contained no choices")
	if err.Code != ErrMalformedResponse {
		t.Errorf("Code = %q, want %q", err.Code, ErrMalformedResponse)
	}
	if err.Message != "response contained no choices" {
		t.Errorf("Message = %q, want %q", err.Message, "response contained no choices")
	}
}

func TestNewNoAPIKey(t *testing.T) {
	err := NewNoAPIKey("OPENAI_API_KEY")
	if err.Code != ErrNoAPIKey {
		t.Errorf("Code = %q, want %q", err.Code, ErrNoAPIKey)
	}
	if err.Message != "OPENAI_API_KEY environment variable not set" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Details["env"] != "OPENAI_API_KEY" {
		t.Errorf("Details[env] = %v, want %q", err.Details["env"], "OPENAI_API_KEY")
	}
}

func TestNewInvalidInput(t *testing.T) {
	err := NewInvalidInput("max_turns must be at least 2")
	if err.Code != ErrInvalidInput {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidInput)
	}
	if err.Message != "max_turns must be at least 2" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01J9ZT")
	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Details["identifier"] != "01J9ZT" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "01J9ZT")
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		originalErr := fmt.Errorf("database connection failed")
		err := NewInternal(originalErr)

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		// Message should be generic (not leak internal details)
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		// Original error should be stored in Details for logging
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		// Details should be empty but not nil
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if Is(err, ErrAuth) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-WispError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-WispError")
		}
	})

	t.Run("wrapped WispError", func(t *testing.T) {
		inner := NewRateLimited()
		wrapped := fmt.Errorf("round 3: %w", inner)
		if !Is(wrapped, ErrRateLimited) {
			t.Error("Is() = false, want true for wrapped WispError")
		}
		if Is(wrapped, ErrAuth) {
			t.Error("Is() = true, want false for wrong code on wrapped WispError")
		}
	})
}

func TestIsProvider(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"auth", NewAuth(""), true},
		{"network", NewNetwork(nil), true},
		{"rate limited", NewRateLimited(), true},
		{"malformed", NewMalformedResponse(""), true},
		{"wrapped network", fmt.Errorf("call: %w", NewNetwork(nil)), true},
		{"no api key", NewNoAPIKey("OPENAI_API_KEY"), false},
		{"not found", NewNotFound("x"), false},
		{"internal", NewInternal(nil), false},
		{"plain error", fmt.Errorf("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsProvider(tt.err); got != tt.want {
				t.Errorf("IsProvider() = %v, want %v", got, tt.want)
			}
		})
	}
}
