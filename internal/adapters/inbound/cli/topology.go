package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dockcheck/dockcheck/internal/adapters/outbound/topology"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/tui"
	"github.com/dockcheck/dockcheck/internal/application"
)

func newTopologyCmd(opts *rootOptions) *cobra.Command {
	var (
		topo       topologyFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "topology",
		Short: "Show the region map and alignment range of a receptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.settings()
			if err != nil {
				return err
			}
			cfg := settings.Validation
			svc := application.NewTopologyService(topology.NewConfiguredSource(settings.UniProt, opts.logger(cmd)))

			t, err := svc.Load(cmd.Context(), topo.request(cfg))
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, t)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderTopology(t, cfg.NTerminalCutoff))
			return nil
		},
	}

	topo.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the topology as JSON")
	return cmd
}

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	var (
		topo       topologyFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "classify RESIDUE...",
		Short: "Report the membrane region of receptor residues",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			residues := make([]int, len(args))
			for i, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("invalid residue number %q", a)
				}
				residues[i] = n
			}

			settings, err := opts.settings()
			if err != nil {
				return err
			}
			svc := application.NewTopologyService(topology.NewConfiguredSource(settings.UniProt, opts.logger(cmd)))

			t, classes, err := svc.Classify(cmd.Context(), topo.request(settings.Validation), residues)
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, classes)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderClassification(t, residues))
			return nil
		},
	}

	topo.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output classifications as JSON")
	return cmd
}
