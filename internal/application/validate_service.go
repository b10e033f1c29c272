package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dockcheck/dockcheck/internal/domain"
	"github.com/dockcheck/dockcheck/internal/domain/validation"
)

// ValidateRequest describes one validation run.
type ValidateRequest struct {
	Receptor   string
	ResultsDir string
	// OutputDir receives the CSV report and run history. Empty skips both.
	OutputDir string
	Topology  domain.TopologyRequest
	Config    domain.ValidationConfig
}

// ValidateService orchestrates a batch run:
// topology → receptor index → per-target pose validation → select → rank → emit.
type ValidateService struct {
	parser   domain.StructureParser
	topology domain.TopologySource
	results  domain.ResultsStore
	writer   domain.ReportWriter
	history  domain.RunHistory
	git      domain.GitInfo
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewValidateService wires the service. writer, history and git may be nil.
func NewValidateService(
	parser domain.StructureParser,
	topology domain.TopologySource,
	results domain.ResultsStore,
	writer domain.ReportWriter,
	history domain.RunHistory,
	git domain.GitInfo,
	logger *slog.Logger,
) *ValidateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidateService{
		parser:   parser,
		topology: topology,
		results:  results,
		writer:   writer,
		history:  history,
		git:      git,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Run validates every target under req.ResultsDir. Topology and receptor
// failures abort the run; pose and target failures are recorded in the
// report instead.
func (s *ValidateService) Run(ctx context.Context, req ValidateRequest) (*domain.RunReport, error) {
	cfg := req.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 1. Topology
	treq := req.Topology
	treq.NTerminalCutoff = cfg.NTerminalCutoff
	if treq.AlignmentRegion == "" {
		treq.AlignmentRegion = cfg.AlignmentRegion
	}
	topo, err := s.topology.Load(ctx, treq)
	if err != nil {
		return nil, fmt.Errorf("loading topology: %w", err)
	}
	if topo.IsEmpty() {
		s.logger.Warn("topology defines no regions; all contacts will be unclassified")
	}

	// 2. Receptor index, built once for the run
	receptor, err := s.parser.ParseFile(req.Receptor)
	if err != nil {
		return nil, fmt.Errorf("parsing receptor: %w", err)
	}
	v, err := validation.NewValidator(receptor, topo, cfg, s.parser)
	if err != nil {
		return nil, fmt.Errorf("indexing receptor: %w", err)
	}
	s.logger.Info("receptor indexed", "atoms", v.ReceptorAtoms(), "topology", topo.Summary())

	// 3. Targets
	targets, err := s.results.Targets(req.ResultsDir)
	if err != nil {
		return nil, err
	}

	outcomes := make([]targetOutcome, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, dir := range targets {
		g.Go(func() error {
			s.logger.Debug("processing target", "index", i+1, "of", len(targets), "target", filepath.Base(dir))
			out, err := s.validateTarget(gctx, v, cfg, dir)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 4. Collect in target order and rank
	report := &domain.RunReport{
		RunID:      s.newID(),
		Timestamp:  s.now(),
		Receptor:   req.Receptor,
		ResultsDir: req.ResultsDir,
		Config:     cfg,
		Topology:   topo,
		Targets:    len(targets),
	}
	for _, out := range outcomes {
		report.Results = append(report.Results, out.results...)
		report.Warnings = append(report.Warnings, out.warnings...)
	}
	domain.RankResults(report.Results)

	if s.git != nil {
		if hash, err := s.git.CommitHash(req.ResultsDir); err == nil {
			report.CommitHash = hash
		} else {
			s.logger.Debug("results tree has no git provenance", "error", err)
		}
	}

	// 5. Emit
	if req.OutputDir != "" {
		if err := s.emit(req.OutputDir, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

type targetOutcome struct {
	results  []domain.ValidationResult
	warnings []domain.TargetWarning
}

func (s *ValidateService) validateTarget(ctx context.Context, v *validation.Validator, cfg domain.ValidationConfig, dir string) (targetOutcome, error) {
	var out targetOutcome
	name := filepath.Base(dir)
	warn := func(err error) {
		s.logger.Warn("target degraded", "target", name, "error", err)
		out.warnings = append(out.warnings, domain.TargetWarning{Target: name, Message: err.Error()})
	}

	table, err := s.results.ScoreTable(dir)
	if err != nil {
		warn(err)
	}
	coefficient := table.Coefficient
	if coefficient == "" {
		coefficient = cfg.DefaultCoefficient
	}

	poses, err := s.results.PoseFiles(dir, coefficient)
	if err != nil {
		warn(err)
		return out, nil
	}
	s.logger.Info("validating target", "target", name, "models", len(poses), "coefficient", coefficient)

	results := make([]domain.ValidationResult, 0, len(poses))
	for _, p := range poses {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		results = append(results, v.ValidatePose(p))
	}

	if cfg.FindMinClash {
		best, ok := domain.SelectMinClash(results)
		if !ok {
			return out, nil
		}
		results = []domain.ValidationResult{best}
		if best.Failed() {
			s.logger.Warn("no model of target could be validated", "target", name, "error", best.Error)
		} else {
			s.logger.Info("selected model", "target", name, "model", best.Model, "clashes", best.Clashes, "ec_pct", best.ECPct)
		}
	}

	for i := range results {
		attachCenterScore(&results[i], table.CenterScores)
	}
	out.results = results
	return out, nil
}

func attachCenterScore(r *domain.ValidationResult, scores map[int]float64) {
	if r.Cluster == nil {
		return
	}
	if score, ok := scores[*r.Cluster]; ok {
		r.CenterScore = &score
	}
}

func (s *ValidateService) emit(outputDir string, report *domain.RunReport) error {
	if s.writer != nil {
		path, err := s.writer.Write(outputDir, report)
		if err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		report.OutputFile = path
		s.logger.Info("results written", "path", path)
	}
	if s.history != nil {
		if err := s.history.Save(outputDir, report.Entry()); err != nil {
			s.logger.Warn("saving run history", "error", err)
		}
	}
	return nil
}
