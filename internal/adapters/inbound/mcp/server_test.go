package mcp_test

import (
	"testing"

	mcpadapter "github.com/dockcheck/dockcheck/internal/adapters/inbound/mcp"
	"github.com/dockcheck/dockcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDockcheckMCPServer(t *testing.T) {
	s := mcpadapter.NewDockcheckMCPServer(t.TempDir(), nil)
	require.NotNil(t, s)
}

func TestMCPServerHasTools(t *testing.T) {
	s := mcpadapter.NewDockcheckMCPServer(t.TempDir(), nil)
	require.NotNil(t, s)

	tools := s.ListTools()
	require.NotNil(t, tools)

	expectedTools := []string{
		"dockcheck_validate",
		"dockcheck_topology",
		"dockcheck_classify",
		"dockcheck_history",
	}

	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}

	assert.Len(t, tools, len(expectedTools), "should have exactly %d tools", len(expectedTools))
}

func TestMCPServerAlignmentRegionNames(t *testing.T) {
	tools := mcpadapter.NewDockcheckMCPServer(t.TempDir(), nil).ListTools()

	for _, name := range []string{"dockcheck_validate", "dockcheck_topology", "dockcheck_classify"} {
		tool, ok := tools[name]
		require.True(t, ok, name)
		prop, ok := tool.Tool.InputSchema.Properties["alignment_region"].(map[string]any)
		require.True(t, ok, "%s should accept alignment_region", name)
		desc, _ := prop["description"].(string)
		for _, segment := range []string{domain.AlignmentFirst, domain.AlignmentNTerm, domain.AlignmentECL1} {
			assert.Contains(t, desc, segment, name)
		}
	}
}
