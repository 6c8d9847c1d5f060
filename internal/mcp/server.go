// Package mcp serves wisp's tools over the Model Context Protocol on
// stdio. Every tool is side-effect-free with respect to execution: translate
// never runs what it produces, and the history tools only read.
package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/wisp/internal/config"
	"github.com/hpungsan/wisp/internal/llm"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"translate": {
		def:     translateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTranslate },
	},
	"history_list": {
		def:     historyListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryList },
	},
	"history_search": {
		def:     historySearchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistorySearch },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates the MCP server with wisp's tools registered. client may
// be nil when no API credential is available; the history tools still work
// and translate reports the missing key per call.
func NewServer(db *sql.DB, cfg *config.Config, client llm.Client, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"wisp",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, client)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, client llm.Client, version string) error {
	s := NewServer(db, cfg, client, version)
	return server.ServeStdio(s)
}
