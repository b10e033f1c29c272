package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dockcheck/dockcheck/internal/adapters/outbound/config"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/gitinfo"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/history"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/pdb"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/report"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/scanner"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/topology"
	"github.com/dockcheck/dockcheck/internal/application"
	"github.com/dockcheck/dockcheck/internal/domain"
)

// registerTools registers all dockcheck MCP tools on the given server.
func registerTools(s *server.MCPServer, h *handlers) {
	topologyArgs := []mcplib.ToolOption{
		mcplib.WithString("topology", mcplib.Description("Topology JSON file (exclusive with uniprot)")),
		mcplib.WithString("uniprot", mcplib.Description("UniProt accession (exclusive with topology)")),
		mcplib.WithString("alignment_region", mcplib.Description("Extracellular segment to align on: first, N_term, ECL1, ECL2, ...")),
	}

	// 1. dockcheck_validate
	s.AddTool(
		mcplib.NewTool("dockcheck_validate", append([]mcplib.ToolOption{
			mcplib.WithDescription("Validate docked peptide poses against receptor topology. Returns the ranked run report as JSON."),
			mcplib.WithString("receptor", mcplib.Required(), mcplib.Description("Full receptor PDB file")),
			mcplib.WithString("results_dir", mcplib.Required(), mcplib.Description("Docking results directory, one subdirectory per target")),
			mcplib.WithString("output_dir", mcplib.Description("Directory for the CSV report and run history")),
			mcplib.WithBoolean("all_models", mcplib.Description("Report every model instead of the minimum-clash one per target")),
			mcplib.WithNumber("contact_threshold", mcplib.Description("Contact distance in Å")),
			mcplib.WithNumber("clash_threshold", mcplib.Description("Clash distance in Å")),
		}, topologyArgs...)...),
		h.validate,
	)

	// 2. dockcheck_topology
	s.AddTool(
		mcplib.NewTool("dockcheck_topology", append([]mcplib.ToolOption{
			mcplib.WithDescription("Load a receptor topology: extracellular, transmembrane and intracellular ranges plus the alignment range"),
		}, topologyArgs...)...),
		h.topology,
	)

	// 3. dockcheck_classify
	s.AddTool(
		mcplib.NewTool("dockcheck_classify", append([]mcplib.ToolOption{
			mcplib.WithDescription("Report the membrane region of one or more receptor residues"),
			mcplib.WithString("residue", mcplib.Required(), mcplib.Description("Residue number, or a comma-separated list")),
		}, topologyArgs...)...),
		h.classify,
	)

	// 4. dockcheck_history
	s.AddTool(
		mcplib.NewTool("dockcheck_history",
			mcplib.WithDescription("Returns recent validation runs recorded in an output directory"),
			mcplib.WithString("output_dir", mcplib.Description("Output directory the runs were written to (defaults to the server's working directory)")),
			mcplib.WithNumber("limit", mcplib.Description("Most recent runs to return, 0 for all (default 10)")),
		),
		h.history,
	)
}

type handlers struct {
	workDir string
	logger  *slog.Logger
	// source lives as long as the server so UniProt entries stay memoized
	// across tool calls.
	source *topology.Source
}

// newHandlers reads the UniProt settings once from workDir. Invalid config
// falls back to defaults here; tool calls still report it.
func newHandlers(workDir string, logger *slog.Logger) *handlers {
	h := &handlers{workDir: workDir, logger: logger}
	settings, err := h.settings()
	if err != nil {
		logger.Warn("using default UniProt settings", "error", err)
		settings = domain.DefaultSettings()
	}
	h.source = topology.NewConfiguredSource(settings.UniProt, logger)
	return h
}

func (h *handlers) settings() (domain.Settings, error) {
	s, err := config.New().Load(h.workDir)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("loading config: %w", err)
	}
	return s, nil
}

func (h *handlers) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(h.workDir, path)
}

func (h *handlers) topologyRequest(request mcplib.CallToolRequest, cfg domain.ValidationConfig) (domain.TopologyRequest, error) {
	file := request.GetString("topology", "")
	accession := request.GetString("uniprot", "")
	if (file == "") == (accession == "") {
		return domain.TopologyRequest{}, errors.New("exactly one of topology or uniprot is required")
	}
	region := request.GetString("alignment_region", cfg.AlignmentRegion)
	return domain.TopologyRequest{
		File:            h.resolve(file),
		Accession:       accession,
		AlignmentRegion: region,
		NTerminalCutoff: cfg.NTerminalCutoff,
	}, nil
}

func (h *handlers) validate(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	receptor, err := request.RequireString("receptor")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	resultsDir, err := request.RequireString("results_dir")
	if err != nil {
		return errorResult(err.Error()), nil
	}

	settings, err := h.settings()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	cfg := settings.Validation
	cfg.ContactThreshold = request.GetFloat("contact_threshold", cfg.ContactThreshold)
	cfg.ClashThreshold = request.GetFloat("clash_threshold", cfg.ClashThreshold)
	if request.GetBool("all_models", false) {
		cfg.FindMinClash = false
	}

	treq, err := h.topologyRequest(request, cfg)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	svc := application.NewValidateService(
		pdb.New(),
		h.source,
		scanner.New(),
		report.NewCSVWriter(),
		history.New(),
		gitinfo.New(),
		h.logger,
	)
	rep, err := svc.Run(ctx, application.ValidateRequest{
		Receptor:   h.resolve(receptor),
		ResultsDir: h.resolve(resultsDir),
		OutputDir:  h.resolve(request.GetString("output_dir", "")),
		Topology:   treq,
		Config:     cfg,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
	}
	return jsonResult(rep)
}

func (h *handlers) topology(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	settings, err := h.settings()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	treq, err := h.topologyRequest(request, settings.Validation)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	svc := application.NewTopologyService(h.source)
	t, err := svc.Load(ctx, treq)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(t)
}

func (h *handlers) classify(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	raw, err := request.RequireString("residue")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	residues, err := parseResidues(raw)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	settings, err := h.settings()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	treq, err := h.topologyRequest(request, settings.Validation)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	svc := application.NewTopologyService(h.source)
	_, classes, err := svc.Classify(ctx, treq, residues)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(classes)
}

func (h *handlers) history(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	dir := h.resolve(request.GetString("output_dir", ""))
	if dir == "" {
		dir = h.workDir
	}
	entries, err := application.NewHistoryService(history.New()).Recent(dir, request.GetInt("limit", 10))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if len(entries) == 0 {
		return textResult("No validation runs recorded."), nil
	}
	return jsonResult(entries)
}

func parseResidues(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid residue number %q", part)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.New("at least one residue number is required")
	}
	return out, nil
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns an error content result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
