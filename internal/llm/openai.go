package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/wisp/internal/conversation"
	wisperrors "github.com/hpungsan/wisp/internal/errors"
	"github.com/hpungsan/wisp/internal/logging"
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewOpenAI builds a client for baseURL. The URL is normalized so that both
// "https://host" and "https://host/v1/" work; empty means the OpenAI API.
func NewOpenAI(baseURL, apiKey, model string) *OpenAIClient {
	normalized := normalizeBaseURL(baseURL)
	if normalized == "" {
		normalized = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		baseURL: normalized,
		apiKey:  apiKey,
		model:   model,
		// No client-level timeout: the caller's context bounds each call.
		http: &http.Client{},
	}
}

// Chat sends the snapshot as-is; roles already use the wire names.
func (c *OpenAIClient) Chat(ctx context.Context, turns []conversation.Turn) (string, error) {
	msgs := make([]message, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, message{Role: string(t.Role), Content: t.Content})
	}
	payload, err := json.Marshal(chatRequest{Model: c.model, Messages: msgs})
	if err != nil {
		return "", wisperrors.NewInternal(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", wisperrors.NewInternal(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logging.L().Debug("completion request failed",
			zap.String("model", c.model),
			zap.Error(err))
		return "", wisperrors.NewNetwork(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", wisperrors.NewNetwork(err)
	}
	logging.L().Debug("completion response",
		zap.String("model", c.model),
		zap.Int("status", resp.StatusCode),
		zap.Int("turns", len(turns)),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError(resp.StatusCode, body)
	}

	var decoded chatCompletionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", wisperrors.NewMalformedResponse("response is not valid JSON")
	}
	if len(decoded.Choices) == 0 {
		return "", wisperrors.NewMalformedResponse("response contains no choices")
	}
	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "", wisperrors.NewMalformedResponse("response contains no content")
	}
	return content, nil
}

// statusError maps a non-2xx completion response to a provider error.
func statusError(status int, body []byte) error {
	detail := fmt.Sprintf("status %d", status)
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		detail = fmt.Sprintf("status %d: %s", status, parsed.Error.Message)
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return wisperrors.NewAuth(detail)
	case http.StatusTooManyRequests:
		return wisperrors.NewRateLimited()
	default:
		return wisperrors.NewNetwork(fmt.Errorf("provider returned %s", detail))
	}
}

func normalizeBaseURL(baseURL string) string {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return trimmed
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if strings.HasSuffix(trimmed, "/v1") {
		return trimmed
	}
	return trimmed + "/v1"
}
