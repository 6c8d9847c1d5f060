package llm

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"github.com/hpungsan/wisp/internal/conversation"
	wisperrors "github.com/hpungsan/wisp/internal/errors"
)

// GeminiClient talks to the Gemini API through the official SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGemini builds a Gemini client. Construction does not hit the network.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, wisperrors.NewNetwork(err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Chat(ctx context.Context, turns []conversation.Turn) (string, error) {
	contents, cfg := geminiContents(turns)
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", mapGeminiError(err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", wisperrors.NewMalformedResponse("response contains no text")
	}
	return text, nil
}

// geminiContents maps conversation turns onto the Gemini request shape.
// The pinned system turn at index 0 becomes the system instruction; Gemini
// has no mid-history system role, so later system turns travel as user
// content. Assistant turns use the model role.
func geminiContents(turns []conversation.Turn) ([]*genai.Content, *genai.GenerateContentConfig) {
	var cfg *genai.GenerateContentConfig
	contents := make([]*genai.Content, 0, len(turns))
	for i, t := range turns {
		switch {
		case t.Role == conversation.RoleSystem && i == 0:
			cfg = &genai.GenerateContentConfig{
				SystemInstruction: genai.NewContentFromText(t.Content, genai.RoleUser),
			}
		case t.Role == conversation.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(t.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(t.Content, genai.RoleUser))
		}
	}
	return contents, cfg
}

func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return wisperrors.NewAuth(apiErr.Message)
		case 429:
			return wisperrors.NewRateLimited()
		}
	}
	return wisperrors.NewNetwork(err)
}
