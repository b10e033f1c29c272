package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dockcheck/dockcheck/internal/adapters/outbound/config"
	"github.com/dockcheck/dockcheck/internal/domain"
)

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// settings loads --config when given, else .dockcheck.yaml from the
// working directory.
func (o *rootOptions) settings() (domain.Settings, error) {
	loader := config.New()
	var (
		s   domain.Settings
		err error
	)
	if o.configPath != "" {
		s, err = loader.LoadFile(o.configPath)
	} else {
		s, err = loader.Load(".")
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("loading config: %w", err)
	}
	return s, nil
}

// topologyFlags selects a topology: exactly one of --topology and --uniprot.
type topologyFlags struct {
	file      string
	accession string
	region    string
}

func (f *topologyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "topology", "t", "", "Topology JSON file")
	cmd.Flags().StringVarP(&f.accession, "uniprot", "u", "", "UniProt accession to fetch topology for")
	cmd.Flags().StringVar(&f.region, "alignment-region", "", "Extracellular segment to align on (first, N_term, ECL1, ...)")
	cmd.MarkFlagsOneRequired("topology", "uniprot")
	cmd.MarkFlagsMutuallyExclusive("topology", "uniprot")
}

func (f *topologyFlags) request(cfg domain.ValidationConfig) domain.TopologyRequest {
	region := f.region
	if region == "" {
		region = cfg.AlignmentRegion
	}
	return domain.TopologyRequest{
		File:            f.file,
		Accession:       f.accession,
		AlignmentRegion: region,
		NTerminalCutoff: cfg.NTerminalCutoff,
	}
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
