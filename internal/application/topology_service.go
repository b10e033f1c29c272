package application

import (
	"context"
	"fmt"

	"github.com/dockcheck/dockcheck/internal/domain"
)

// Classification is the region of one residue.
type Classification struct {
	Residue int           `json:"residue"`
	Region  domain.Region `json:"region"`
}

// TopologyService loads topologies for inspection outside a validation run.
type TopologyService struct {
	source domain.TopologySource
}

func NewTopologyService(source domain.TopologySource) *TopologyService {
	return &TopologyService{source: source}
}

func (s *TopologyService) Load(ctx context.Context, req domain.TopologyRequest) (domain.Topology, error) {
	t, err := s.source.Load(ctx, req)
	if err != nil {
		return domain.Topology{}, fmt.Errorf("loading topology: %w", err)
	}
	return t, nil
}

// Classify loads the topology and reports the region of each residue in
// the order given.
func (s *TopologyService) Classify(ctx context.Context, req domain.TopologyRequest, residues []int) (domain.Topology, []Classification, error) {
	t, err := s.Load(ctx, req)
	if err != nil {
		return domain.Topology{}, nil, err
	}
	out := make([]Classification, len(residues))
	for i, r := range residues {
		out[i] = Classification{Residue: r, Region: t.Classify(r)}
	}
	return t, out, nil
}
