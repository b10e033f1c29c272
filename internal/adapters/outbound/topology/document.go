// Package topology loads receptor topologies from local files and from the
// UniProt REST API.
package topology

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dockcheck/dockcheck/internal/domain"
)

// Kind tags which document shape was decoded.
type Kind string

const (
	KindSimple   Kind = "simple"
	KindFeatures Kind = "features"
)

// UniProt feature types that carry membrane topology.
const (
	featureTopologicalDomain = "Topological domain"
	featureTransmembrane     = "Transmembrane"
)

// Document is a decoded topology file in exactly one of its two shapes.
type Document struct {
	Kind     Kind
	simple   simpleDocument
	features featuresDocument
}

type simpleDocument struct {
	Extracellular []domain.ResidueRange `json:"extracellular"`
	Transmembrane []domain.ResidueRange `json:"transmembrane"`
	Intracellular []domain.ResidueRange `json:"intracellular"`
	Alignment     []*int                `json:"alignment_residues"`
}

type featuresDocument struct {
	PrimaryAccession   string             `json:"primaryAccession"`
	ProteinDescription proteinDescription `json:"proteinDescription"`
	Features           []feature          `json:"features"`
}

type proteinDescription struct {
	RecommendedName struct {
		FullName struct {
			Value string `json:"value"`
		} `json:"fullName"`
	} `json:"recommendedName"`
}

type feature struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Location    location `json:"location"`
}

type location struct {
	Start *positionValue `json:"start"`
	End   *positionValue `json:"end"`
}

type positionValue struct {
	Value *int `json:"value"`
}

// Decode detects the document shape: an object with a "features" key is a
// UniProt-style feature list, anything else the simple range lists.
func Decode(data []byte) (Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Document{}, fmt.Errorf("%w: decoding topology: %v", domain.ErrTopologySource, err)
	}

	if _, ok := probe["features"]; ok {
		var doc featuresDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("%w: decoding features: %v", domain.ErrTopologySource, err)
		}
		return Document{Kind: KindFeatures, features: doc}, nil
	}

	var doc simpleDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: decoding topology: %v", domain.ErrTopologySource, err)
	}
	return Document{Kind: KindSimple, simple: doc}, nil
}

// HasTopologyFeatures reports whether a features document carries any
// topological domain or transmembrane feature.
func (d Document) HasTopologyFeatures() bool {
	for _, f := range d.features.Features {
		if f.Type == featureTopologicalDomain || f.Type == featureTransmembrane {
			return true
		}
	}
	return false
}

// ProteinName is the recommended full name of a features document.
func (d Document) ProteinName() string {
	return d.features.ProteinDescription.RecommendedName.FullName.Value
}

// Topology translates the document into the canonical model. A simple
// document keeps its own alignment range. A features document selects one by
// segment name, see domain.Topology.SelectAlignment.
func (d Document) Topology(alignmentRegion string, cutoff int) domain.Topology {
	if d.Kind == KindSimple {
		return d.simple.topology()
	}

	t := d.features.topology()
	t.ProteinName = d.ProteinName()
	if r, ok := t.SelectAlignment(alignmentRegion, cutoff); ok {
		t = t.WithAlignment(r)
	}
	return t
}

func (d simpleDocument) topology() domain.Topology {
	t := domain.Topology{
		Extracellular: d.Extracellular,
		Transmembrane: d.Transmembrane,
		Intracellular: d.Intracellular,
	}
	if len(d.Alignment) == 2 && d.Alignment[0] != nil && d.Alignment[1] != nil {
		t = t.WithAlignment(domain.ResidueRange{Start: *d.Alignment[0], End: *d.Alignment[1]})
	}
	return t
}

func (d featuresDocument) topology() domain.Topology {
	var t domain.Topology
	for _, f := range d.Features {
		r, ok := f.Location.residueRange()
		if !ok {
			continue
		}
		desc := strings.ToLower(f.Description)
		switch f.Type {
		case featureTopologicalDomain:
			switch {
			case strings.Contains(desc, "extracellular"):
				t.Extracellular = append(t.Extracellular, r)
			case strings.Contains(desc, "cytoplasmic"), strings.Contains(desc, "intracellular"):
				t.Intracellular = append(t.Intracellular, r)
			}
		case featureTransmembrane:
			t.Transmembrane = append(t.Transmembrane, r)
		}
	}
	return t
}

func (l location) residueRange() (domain.ResidueRange, bool) {
	if l.Start == nil || l.End == nil || l.Start.Value == nil || l.End.Value == nil {
		return domain.ResidueRange{}, false
	}
	return domain.ResidueRange{Start: *l.Start.Value, End: *l.End.Value}, true
}
