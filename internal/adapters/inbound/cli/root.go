package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	verbose    bool
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "dockcheck",
		Short: "Validate peptide docking poses against receptor topology",
		Long: "dockcheck realigns docked peptide poses onto the full receptor, counts clashes and " +
			"contacts per membrane region, and ranks poses by how extracellular their binding is.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (defaults to ./.dockcheck.yaml)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newTopologyCmd(opts))
	cmd.AddCommand(newClassifyCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
