package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	wisperrors "github.com/hpungsan/wisp/internal/errors"
)

// Provider names accepted in config.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds application configuration.
type Config struct {
	// Provider selects the completion backend: "openai" or "gemini".
	Provider string `json:"provider,omitempty"`

	// Model is the model name sent with every request. Empty means the
	// provider's default (gpt-4 for openai, gemini-2.0-flash for gemini).
	Model string `json:"model,omitempty"`

	// BaseURL is the OpenAI-compatible API root. Normalized by the client
	// to end in /v1. Ignored by the gemini provider.
	BaseURL string `json:"base_url,omitempty"`

	// Context seeds the pinned system turn for the translate modes.
	// Empty means the built-in translation instruction is used.
	Context string `json:"context,omitempty"`

	// MaxTurns caps the conversation history length, pinned turn included.
	MaxTurns int `json:"max_turns,omitempty"`

	// ConfirmDefaultNo makes an empty confirmation line mean Skip instead
	// of Execute.
	ConfirmDefaultNo bool `json:"confirm_default_no,omitempty"`

	// ConfirmRetries is how many unrecognized confirmation inputs are
	// re-prompted before the gate gives up and skips. 0 uses the default.
	ConfirmRetries int `json:"confirm_retries,omitempty"`

	// RequestTimeoutSecs bounds each completion request.
	RequestTimeoutSecs int `json:"request_timeout_secs,omitempty"`

	// HistoryDisabled turns off the round audit log entirely.
	HistoryDisabled bool `json:"history_disabled,omitempty"`

	// Debug enables file logging under the state directory.
	Debug bool `json:"debug,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:           ProviderOpenAI,
		BaseURL:            "https://api.openai.com/v1",
		MaxTurns:           20,
		ConfirmRetries:     3,
		RequestTimeoutSecs: 30,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.wisp.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// LoadWithRepo loads configuration from both the global state directory and
// a repo-local .wisp.json found by walking upward from startDir. Repo values
// take precedence. Either or both files may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	merged := Merge(Merge(DefaultConfig(), global), repo)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// FindRepoConfig walks upward from startDir to find the nearest .wisp.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".wisp.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate rejects field values the session cannot run with.
func (c *Config) Validate() error {
	if c.Provider != ProviderOpenAI && c.Provider != ProviderGemini {
		return wisperrors.NewInvalidInput(fmt.Sprintf("unknown provider %q (want %q or %q)", c.Provider, ProviderOpenAI, ProviderGemini))
	}
	if c.MaxTurns < 2 {
		return wisperrors.NewInvalidInput("max_turns must be at least 2")
	}
	if c.RequestTimeoutSecs <= 0 {
		return wisperrors.NewInvalidInput("request_timeout_secs must be positive")
	}
	if c.ConfirmRetries < 0 {
		return wisperrors.NewInvalidInput("confirm_retries cannot be negative")
	}
	return nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; booleans are OR-ed.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Provider = overlay.Provider
	if result.Provider == "" {
		result.Provider = base.Provider
	}

	result.Model = overlay.Model
	if result.Model == "" {
		result.Model = base.Model
	}

	result.BaseURL = overlay.BaseURL
	if result.BaseURL == "" {
		result.BaseURL = base.BaseURL
	}

	result.Context = overlay.Context
	if result.Context == "" {
		result.Context = base.Context
	}

	result.MaxTurns = overlay.MaxTurns
	if result.MaxTurns == 0 {
		result.MaxTurns = base.MaxTurns
	}

	result.ConfirmRetries = overlay.ConfirmRetries
	if result.ConfirmRetries == 0 {
		result.ConfirmRetries = base.ConfirmRetries
	}

	result.RequestTimeoutSecs = overlay.RequestTimeoutSecs
	if result.RequestTimeoutSecs == 0 {
		result.RequestTimeoutSecs = base.RequestTimeoutSecs
	}

	result.ConfirmDefaultNo = base.ConfirmDefaultNo || overlay.ConfirmDefaultNo
	result.HistoryDisabled = base.HistoryDisabled || overlay.HistoryDisabled
	result.Debug = base.Debug || overlay.Debug

	return result
}
