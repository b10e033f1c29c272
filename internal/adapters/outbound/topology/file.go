package topology

import (
	"fmt"
	"os"

	"github.com/dockcheck/dockcheck/internal/domain"
)

// LoadFile reads a topology document from disk. Feature documents default to
// the first extracellular range for alignment and must yield at least one
// region.
func LoadFile(path, alignmentRegion string, cutoff int) (domain.Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Topology{}, fmt.Errorf("%w: reading %s: %v", domain.ErrTopologySource, path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return domain.Topology{}, fmt.Errorf("%s: %w", path, err)
	}
	if alignmentRegion == "" {
		alignmentRegion = domain.AlignmentFirst
	}
	t := doc.Topology(alignmentRegion, cutoff)
	if doc.Kind == KindFeatures && t.IsEmpty() {
		return domain.Topology{}, fmt.Errorf("%w: no usable topology regions in %s", domain.ErrTopologySource, path)
	}
	t.Source = path
	return t, nil
}
