package domain

import "github.com/dockcheck/dockcheck/internal/domain/geometry"

// Structure is a parsed macromolecular structure: models of chains of
// residues of atoms. Parsers build it once; analysis code only reads it.
type Structure struct {
	Name   string
	Models []Model
}

type Model struct {
	Number int
	Chains []Chain
}

type Chain struct {
	ID       string
	Residues []Residue
}

type Residue struct {
	Name          string
	Number        int
	InsertionCode string
	Atoms         []Atom
}

type Atom struct {
	Serial  int
	Name    string
	Element string
	Het     bool
	Coord   geometry.Vec3
}

// AtomSite is an atom together with the residue and chain that hold it.
type AtomSite struct {
	Chain         string
	Residue       int
	InsertionCode string
	ResName       string
	Atom
}

// Sites flattens the first model into atom sites, in file order. Only the
// first model takes part in contact analysis.
func (s *Structure) Sites() []AtomSite {
	if s == nil || len(s.Models) == 0 {
		return nil
	}
	var out []AtomSite
	for _, ch := range s.Models[0].Chains {
		for _, res := range ch.Residues {
			for _, a := range res.Atoms {
				out = append(out, AtomSite{
					Chain:         ch.ID,
					Residue:       res.Number,
					InsertionCode: res.InsertionCode,
					ResName:       res.Name,
					Atom:          a,
				})
			}
		}
	}
	return out
}

// AtomCount returns the number of atoms in the first model.
func (s *Structure) AtomCount() int {
	if s == nil || len(s.Models) == 0 {
		return 0
	}
	n := 0
	for _, ch := range s.Models[0].Chains {
		for _, res := range ch.Residues {
			n += len(res.Atoms)
		}
	}
	return n
}

// CA returns the residue's alpha-carbon.
func (r Residue) CA() (Atom, bool) {
	for _, a := range r.Atoms {
		if a.Name == "CA" && !a.Het {
			return a, true
		}
	}
	return Atom{}, false
}

// Coords returns the coordinates of sites in order.
func Coords(sites []AtomSite) []geometry.Vec3 {
	out := make([]geometry.Vec3, len(sites))
	for i, s := range sites {
		out[i] = s.Coord
	}
	return out
}
