package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/wisp/internal/config"
	"github.com/hpungsan/wisp/internal/errors"
	"github.com/hpungsan/wisp/internal/history"
	"github.com/hpungsan/wisp/internal/llm"
	"github.com/hpungsan/wisp/internal/session"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db     *sql.DB
	cfg    *config.Config
	client llm.Client
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, client llm.Client) *Handlers {
	return &Handlers{db: db, cfg: cfg, client: client}
}

// Tool definitions

var translateToolDef = mcp.NewTool("translate",
	mcp.WithDescription("Translate a natural-language prompt into a shell command. "+
		"Returns the command without executing it."),
	mcp.WithString("prompt", mcp.Required(),
		mcp.Description("Natural-language description of what the command should do")),
	mcp.WithString("context",
		mcp.Description("Optional system context overriding the configured one")),
)

var historyListToolDef = mcp.NewTool("history_list",
	mcp.WithDescription("List recent translation rounds from the audit log, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum records to return (default 20, max 200)")),
	mcp.WithBoolean("failed_only",
		mcp.Description("Only return rounds whose command failed")),
)

var historySearchToolDef = mcp.NewTool("history_search",
	mcp.WithDescription("Search the audit log by prompt or command text."),
	mcp.WithString("query", mcp.Required(),
		mcp.Description("Substring to match against prompts and commands")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum records to return (default 20, max 200)")),
)

// Request types for each tool

// TranslateRequest represents the arguments for translate.
type TranslateRequest struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context,omitempty"`
}

// TranslateResult is the translate tool's payload.
type TranslateResult struct {
	Command string `json:"command,omitempty"`
	Found   bool   `json:"found"`
}

// HistoryListRequest represents the arguments for history_list.
type HistoryListRequest struct {
	Limit      int  `json:"limit,omitempty"`
	FailedOnly bool `json:"failed_only,omitempty"`
}

// HistorySearchRequest represents the arguments for history_search.
type HistorySearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// historyResult wraps records so the payload stays an object.
type historyResult struct {
	Records []history.Record `json:"records"`
}

// HandleTranslate handles the translate tool call. It never executes the
// command and never writes history.
func (h *Handlers) HandleTranslate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TranslateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}
	if strings.TrimSpace(input.Prompt) == "" {
		return errorResult(errors.NewInvalidInput("prompt is required")), nil
	}
	if h.client == nil {
		return errorResult(errors.NewNoAPIKey(llm.KeyEnv(h.cfg))), nil
	}

	command, found, err := session.Translate(ctx, h.client, h.cfg, input.Prompt, input.Context)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(TranslateResult{Command: command, Found: found})
}

// HandleHistoryList handles the history_list tool call.
func (h *Handlers) HandleHistoryList(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	records, err := history.List(h.db, input.Limit, input.FailedOnly)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(historyResult{Records: records})
}

// HandleHistorySearch handles the history_search tool call.
func (h *Handlers) HandleHistorySearch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistorySearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	records, err := history.Search(h.db, input.Query, input.Limit)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(historyResult{Records: records})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if wispErr, ok := err.(*errors.WispError); ok {
		errorObj := map[string]any{
			"code":    wispErr.Code,
			"message": wispErr.Message,
		}
		if wispErr.Code != errors.ErrInternal && wispErr.Details != nil {
			errorObj["details"] = wispErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
