package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// NewDockcheckMCPServer creates an MCP server with all dockcheck tools and
// resources registered. workDir holds .dockcheck.yaml and anchors relative
// paths in tool arguments.
func NewDockcheckMCPServer(workDir string, logger *slog.Logger) *server.MCPServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := server.NewMCPServer(
		"dockcheck",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	h := newHandlers(workDir, logger)
	registerTools(s, h)
	registerResources(s, h)

	return s
}
