// Package llm provides the completion provider clients.
//
// A Client turns a conversation snapshot into the assistant's reply text.
// Failures come back as provider errors from internal/errors so callers can
// distinguish auth problems, network trouble, rate limiting, and responses
// the provider sent but we could not use.
package llm

import (
	"context"
	"os"

	"github.com/hpungsan/wisp/internal/config"
	"github.com/hpungsan/wisp/internal/conversation"
	wisperrors "github.com/hpungsan/wisp/internal/errors"
)

const (
	openaiKeyEnv = "OPENAI_API_KEY"
	geminiKeyEnv = "GEMINI_API_KEY"

	defaultOpenAIModel = "gpt-4"
	defaultGeminiModel = "gemini-2.0-flash"
)

// Client is the provider boundary. Chat blocks until the provider answers,
// the context is done, or the call fails.
type Client interface {
	Chat(ctx context.Context, turns []conversation.Turn) (string, error)
}

// New constructs the client for the configured provider. The API key comes
// from the environment; a missing key is reported as a NO_API_KEY error so
// startup can fail before any session work begins.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	model := ModelName(cfg)
	switch cfg.Provider {
	case config.ProviderGemini:
		key := os.Getenv(geminiKeyEnv)
		if key == "" {
			return nil, wisperrors.NewNoAPIKey(geminiKeyEnv)
		}
		return NewGemini(ctx, key, model)
	default:
		key := os.Getenv(openaiKeyEnv)
		if key == "" {
			return nil, wisperrors.NewNoAPIKey(openaiKeyEnv)
		}
		return NewOpenAI(cfg.BaseURL, key, model), nil
	}
}

// ModelName resolves the model requests will carry: the configured model,
// or the provider's default when the config leaves it empty.
func ModelName(cfg *config.Config) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	if cfg.Provider == config.ProviderGemini {
		return defaultGeminiModel
	}
	return defaultOpenAIModel
}

// KeyEnv names the environment variable the configured provider's key is
// read from, for error messages.
func KeyEnv(cfg *config.Config) string {
	if cfg.Provider == config.ProviderGemini {
		return geminiKeyEnv
	}
	return openaiKeyEnv
}
