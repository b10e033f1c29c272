package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const configURI = "dockcheck://config"

// registerResources registers all dockcheck MCP resources on the given server.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResource(
		mcplib.NewResource(
			configURI,
			"Effective Config",
			mcplib.WithResourceDescription("Validation thresholds and UniProt settings after .dockcheck.yaml and environment overrides"),
			mcplib.WithMIMEType("application/json"),
		),
		h.configResource,
	)
}

func (h *handlers) configResource(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	settings, err := h.settings()
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}

	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      configURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
