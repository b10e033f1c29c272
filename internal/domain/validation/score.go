// Package validation scores docked poses by the receptor regions their
// peptide touches.
package validation

import "github.com/dockcheck/dockcheck/internal/domain"

// ContactTally counts receptor contacts per region.
type ContactTally struct {
	Extracellular int
	Transmembrane int
	Intracellular int
	Unknown       int
}

func (t *ContactTally) Add(r domain.Region) {
	switch r {
	case domain.RegionExtracellular:
		t.Extracellular++
	case domain.RegionTransmembrane:
		t.Transmembrane++
	case domain.RegionIntracellular:
		t.Intracellular++
	default:
		t.Unknown++
	}
}

// Classified is the number of contacts in a known region.
func (t ContactTally) Classified() int {
	return t.Extracellular + t.Transmembrane + t.Intracellular
}

// ECPercent is the share of classified contacts that are extracellular,
// 0 when there are none. Unrounded.
func (t ContactTally) ECPercent() float64 {
	total := t.Classified()
	if total == 0 {
		return 0
	}
	return float64(t.Extracellular) / float64(total) * 100
}

// ValidityScore combines extracellular share and clashes into 0-100:
// ec_pct - clashes, rounded to one decimal and clamped. TM and IC contacts
// already lower ec_pct and carry no separate penalty.
func ValidityScore(ecPct float64, clashes int) float64 {
	score := domain.Round(ecPct-float64(clashes), 1)
	return max(0, min(100, score))
}
