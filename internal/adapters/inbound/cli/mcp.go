package cli

import (
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/dockcheck/dockcheck/internal/adapters/inbound/mcp"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the dockcheck MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *rootOptions) *cobra.Command {
	var workDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start dockcheck MCP server (stdio)",
		Long: "Start the dockcheck MCP server using stdio transport. Assistants can run validations, " +
			"inspect receptor topologies and read run history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if workDir == "" {
				workDir = "."
			}
			abs, err := filepath.Abs(workDir)
			if err != nil {
				return err
			}
			// stdout carries the protocol; logs go to stderr.
			s := mcpadapter.NewDockcheckMCPServer(abs, opts.logger(cmd))
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&workDir, "path", "", "Working directory for config, relative paths and history (defaults to current directory)")

	return cmd
}
