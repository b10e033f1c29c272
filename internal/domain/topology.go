package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Region is the membrane topology class of a receptor residue.
type Region string

const (
	RegionExtracellular Region = "extracellular"
	RegionTransmembrane Region = "transmembrane"
	RegionIntracellular Region = "intracellular"
	RegionUnknown       Region = "unknown"
)

// Alignment segment names accepted by Topology.SelectAlignment.
const (
	AlignmentFirst = "first"
	AlignmentNTerm = "N_term"
	AlignmentECL1  = "ECL1"
)

// DefaultNTerminalCutoff marks the residue number below which an
// extracellular range is treated as the N-terminal tag region.
const DefaultNTerminalCutoff = 50

// ResidueRange is an inclusive range of residue numbers.
type ResidueRange struct {
	Start int
	End   int
}

func (r ResidueRange) Contains(residue int) bool {
	return r.Start <= residue && residue <= r.End
}

func (r ResidueRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// MarshalJSON encodes the range as a two element array, the same shape
// topology files use.
func (r ResidueRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Start, r.End})
}

func (r *ResidueRange) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("residue range must have 2 values, got %d", len(pair))
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// NamedRange is an extracellular segment with its conventional loop name.
type NamedRange struct {
	Name  string       `json:"name"`
	Range ResidueRange `json:"range"`
}

// Topology describes the region boundaries of a receptor. It is built once
// per run and never modified afterwards.
type Topology struct {
	Extracellular []ResidueRange `json:"extracellular"`
	Transmembrane []ResidueRange `json:"transmembrane"`
	Intracellular []ResidueRange `json:"intracellular"`
	Alignment     *ResidueRange  `json:"alignment_residues,omitempty"`
	Source        string         `json:"source,omitempty"`
	ProteinName   string         `json:"protein_name,omitempty"`
}

// Classify returns the region of a residue. Lists are checked in the order
// extracellular, transmembrane, intracellular; the first match wins.
func (t Topology) Classify(residue int) Region {
	if inAny(t.Extracellular, residue) {
		return RegionExtracellular
	}
	if inAny(t.Transmembrane, residue) {
		return RegionTransmembrane
	}
	if inAny(t.Intracellular, residue) {
		return RegionIntracellular
	}
	return RegionUnknown
}

// HasAlignment reports whether an alignment range is defined.
func (t Topology) HasAlignment() bool {
	return t.Alignment != nil && t.Alignment.End >= t.Alignment.Start
}

// IsEmpty reports whether no region of any kind is defined.
func (t Topology) IsEmpty() bool {
	return len(t.Extracellular) == 0 && len(t.Transmembrane) == 0 && len(t.Intracellular) == 0
}

// FragmentRanges returns the extracellular ranges a docked receptor fragment
// is made of. Ranges that reach below cutoff overlap the N-terminal tag and
// are left out, so peptide residues numbered there are not mistaken for
// receptor.
func (t Topology) FragmentRanges(cutoff int) []ResidueRange {
	var out []ResidueRange
	for _, r := range t.Extracellular {
		if r.Start >= cutoff {
			out = append(out, r)
		}
	}
	return out
}

// ExtracellularSegments names the extracellular ranges in order. The first
// range is the N-terminus when it starts below cutoff; every other range is
// ECL<i> where i is its position among the extracellular ranges.
func (t Topology) ExtracellularSegments(cutoff int) []NamedRange {
	out := make([]NamedRange, 0, len(t.Extracellular))
	for i, r := range t.Extracellular {
		name := fmt.Sprintf("ECL%d", i)
		if i == 0 && r.Start < cutoff {
			name = AlignmentNTerm
		}
		out = append(out, NamedRange{Name: name, Range: r})
	}
	return out
}

// SelectAlignment picks the alignment range by segment name. "first" (or an
// empty name) selects the first extracellular range. Unknown names fall back
// to ECL1, then to the first extracellular range.
func (t Topology) SelectAlignment(name string, cutoff int) (ResidueRange, bool) {
	if len(t.Extracellular) == 0 {
		return ResidueRange{}, false
	}
	if name == "" || strings.EqualFold(name, AlignmentFirst) {
		return t.Extracellular[0], true
	}

	segments := t.ExtracellularSegments(cutoff)
	for _, s := range segments {
		if s.Name == name {
			return s.Range, true
		}
	}
	for _, s := range segments {
		if s.Name == AlignmentECL1 {
			return s.Range, true
		}
	}
	return t.Extracellular[0], true
}

// WithAlignment returns a copy of t using r as its alignment range.
func (t Topology) WithAlignment(r ResidueRange) Topology {
	t.Alignment = &r
	return t
}

// Summary is a one-line count of the defined regions.
func (t Topology) Summary() string {
	return fmt.Sprintf("%d EC, %d TM, %d IC regions",
		len(t.Extracellular), len(t.Transmembrane), len(t.Intracellular))
}

// FormatRanges renders ranges as "1-45, 97-107", or "none".
func FormatRanges(ranges []ResidueRange) string {
	if len(ranges) == 0 {
		return "none"
	}
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

func inAny(ranges []ResidueRange, residue int) bool {
	for _, r := range ranges {
		if r.Contains(residue) {
			return true
		}
	}
	return false
}
