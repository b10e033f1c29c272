package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dockcheck/dockcheck/internal/adapters/outbound/history"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/tui"
	"github.com/dockcheck/dockcheck/internal/application"
	"github.com/dockcheck/dockcheck/internal/domain"
)

func newHistoryCmd(_ *rootOptions) *cobra.Command {
	var (
		outputDir  string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past validation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := application.NewHistoryService(history.New()).Recent(outputDir, limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				if entries == nil {
					entries = []domain.RunEntry{}
				}
				return renderJSON(cmd, entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory the runs were written to")
	cmd.Flags().IntVar(&limit, "limit", 10, "Most recent runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")
	return cmd
}
