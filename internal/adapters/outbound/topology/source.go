package topology

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dockcheck/dockcheck/internal/adapters/outbound/cache"
	"github.com/dockcheck/dockcheck/internal/domain"
)

// Source implements domain.TopologySource over local files and UniProt.
type Source struct {
	remote *UniProt
}

func NewSource(remote *UniProt) *Source {
	return &Source{remote: remote}
}

// NewConfiguredSource builds a Source whose UniProt client follows s: its
// base URL and, unless disabled, a disk cache under s.CacheDir.
func NewConfiguredSource(s domain.UniProtSettings, logger *slog.Logger) *Source {
	opts := []Option{WithLogger(logger)}
	if !s.NoCache {
		dir := s.CacheDir
		if dir == "" {
			dir = cache.DefaultDir()
		}
		opts = append(opts, WithDiskCache(cache.New(dir, cache.DefaultTTL)))
	}
	return NewSource(NewUniProt(s.BaseURL, opts...))
}

func (s *Source) Load(ctx context.Context, req domain.TopologyRequest) (domain.Topology, error) {
	switch {
	case req.File != "" && req.Accession != "":
		return domain.Topology{}, fmt.Errorf("%w: specify either a topology file or a UniProt accession, not both", domain.ErrTopologySource)
	case req.File != "":
		return LoadFile(req.File, req.AlignmentRegion, req.NTerminalCutoff)
	case req.Accession != "":
		if s.remote == nil {
			return domain.Topology{}, fmt.Errorf("%w: no UniProt client configured", domain.ErrTopologySource)
		}
		return s.remote.Topology(ctx, req.Accession, req.AlignmentRegion, req.NTerminalCutoff)
	default:
		return domain.Topology{}, fmt.Errorf("%w: a topology file or UniProt accession is required", domain.ErrTopologySource)
	}
}
