package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dockcheck/dockcheck/internal/adapters/outbound/gitinfo"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/history"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/pdb"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/report"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/scanner"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/topology"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/tui"
	"github.com/dockcheck/dockcheck/internal/application"
	"github.com/dockcheck/dockcheck/internal/domain"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var (
		receptor   string
		resultsDir string
		outputDir  string
		jsonOutput bool
		noCache    bool
		allModels  bool
		topo       topologyFlags

		contactThreshold float64
		clashThreshold   float64
		nTermCutoff      int
		workers          int
		top              int
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate every docked pose under a results directory",
		Long: "Realign each pose onto the receptor, count clashes and region contacts, keep the " +
			"minimum-clash model per target and rank the targets.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.settings()
			if err != nil {
				return err
			}
			cfg := settings.Validation

			flags := cmd.Flags()
			if flags.Changed("contact-threshold") {
				cfg.ContactThreshold = contactThreshold
			}
			if flags.Changed("clash-threshold") {
				cfg.ClashThreshold = clashThreshold
			}
			if flags.Changed("n-terminal-cutoff") {
				cfg.NTerminalCutoff = nTermCutoff
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("top") {
				cfg.Top = top
			}
			if allModels {
				cfg.FindMinClash = false
			}
			if noCache {
				settings.UniProt.NoCache = true
			}

			logger := opts.logger(cmd)
			svc := application.NewValidateService(
				pdb.New(),
				topology.NewConfiguredSource(settings.UniProt, logger),
				scanner.New(),
				report.NewCSVWriter(),
				history.New(),
				gitinfo.New(),
				logger,
			)

			if outputDir != "" {
				if outputDir, err = filepath.Abs(outputDir); err != nil {
					return fmt.Errorf("resolving output path: %w", err)
				}
			}
			rep, err := svc.Run(cmd.Context(), application.ValidateRequest{
				Receptor:   receptor,
				ResultsDir: resultsDir,
				OutputDir:  outputDir,
				Topology:   topo.request(cfg),
				Config:     cfg,
			})
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, rep)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(rep, cfg.Top))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&receptor, "receptor", "r", "", "Full receptor PDB file")
	f.StringVarP(&resultsDir, "results", "d", "", "Docking results directory, one subdirectory per target")
	f.StringVarP(&outputDir, "output", "o", "", "Directory for the CSV report and run history")
	topo.register(cmd)
	f.Float64Var(&contactThreshold, "contact-threshold", domain.DefaultContactThreshold, "Contact distance in Å")
	f.Float64Var(&clashThreshold, "clash-threshold", domain.DefaultClashThreshold, "Clash distance in Å")
	f.IntVar(&nTermCutoff, "n-terminal-cutoff", domain.DefaultNTerminalCutoff, "Residue number below which extracellular ranges are not receptor fragment")
	f.IntVar(&workers, "workers", 1, "Targets validated in parallel")
	f.IntVar(&top, "top", domain.DefaultTopRows, "Rows shown in the terminal table (0 for all)")
	f.BoolVar(&allModels, "all-models", false, "Report every model instead of the minimum-clash one per target")
	f.BoolVar(&jsonOutput, "json", false, "Output the run report as JSON")
	f.BoolVar(&noCache, "no-cache", false, "Bypass the UniProt disk cache")
	_ = cmd.MarkFlagRequired("receptor")
	_ = cmd.MarkFlagRequired("results")

	return cmd
}
