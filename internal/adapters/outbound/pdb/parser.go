// Package pdb reads fixed-column PDB coordinate files.
package pdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dockcheck/dockcheck/internal/domain"
	"github.com/dockcheck/dockcheck/internal/domain/geometry"
)

// minAtomLine is the shortest ATOM/HETATM record that still carries z.
const minAtomLine = 54

// Parser implements domain.StructureParser for PDB files.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) ParseFile(path string) (*domain.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return s, nil
}

// Parse reads ATOM and HETATM records grouped by MODEL/ENDMDL. Records before
// any MODEL line belong to model 1. Alternate locations other than blank or
// A are dropped.
func Parse(r io.Reader) (*domain.Structure, error) {
	b := &builder{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		switch record(line) {
		case "MODEL":
			b.startModel(modelNumber(line, len(b.models)+1))
		case "ENDMDL":
			b.endModel()
		case "ATOM", "HETATM":
			rec, err := parseAtom(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if rec.altLoc != ' ' && rec.altLoc != 'A' {
				continue
			}
			b.add(rec)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	s := b.structure()
	if s.AtomCount() == 0 {
		return nil, errors.New("no atoms found")
	}
	return s, nil
}

func record(line string) string {
	if len(line) > 6 {
		return strings.TrimSpace(line[:6])
	}
	return strings.TrimSpace(line)
}

func modelNumber(line string, fallback int) int {
	if len(line) <= 6 {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(line[6:]))
	if err != nil {
		return fallback
	}
	return n
}

type atomRecord struct {
	atom      domain.Atom
	altLoc    byte
	resName   string
	chain     string
	resSeq    int
	insertion string
}

func parseAtom(line string) (atomRecord, error) {
	if len(line) < minAtomLine {
		return atomRecord{}, fmt.Errorf("atom record too short (%d columns)", len(line))
	}

	resSeq, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return atomRecord{}, fmt.Errorf("invalid residue number %q", line[22:26])
	}

	var coord geometry.Vec3
	for i, col := range [3][2]int{{30, 38}, {38, 46}, {46, 54}} {
		v, err := strconv.ParseFloat(strings.TrimSpace(line[col[0]:col[1]]), 64)
		if err != nil {
			return atomRecord{}, fmt.Errorf("invalid %c coordinate %q", "xyz"[i], line[col[0]:col[1]])
		}
		coord[i] = v
	}

	// Serial numbers past 99999 are often hybrid-36 encoded; they are not
	// needed for analysis so a bad one is left at zero.
	serial, _ := strconv.Atoi(strings.TrimSpace(line[6:11]))
	name := strings.TrimSpace(line[12:16])

	return atomRecord{
		atom: domain.Atom{
			Serial:  serial,
			Name:    name,
			Element: element(line, name),
			Het:     strings.HasPrefix(line, "HETATM"),
			Coord:   coord,
		},
		altLoc:    line[16],
		resName:   strings.TrimSpace(line[17:20]),
		chain:     strings.TrimSpace(line[21:22]),
		resSeq:    resSeq,
		insertion: strings.TrimSpace(line[26:27]),
	}, nil
}

// element reads columns 77-78, falling back to the first letter of the atom
// name for files that leave them blank.
func element(line, name string) string {
	if len(line) >= 78 {
		if e := strings.TrimSpace(line[76:78]); e != "" {
			return strings.ToUpper(e)
		}
	}
	for _, c := range name {
		if c >= 'A' && c <= 'Z' {
			return string(c)
		}
	}
	return ""
}

type builder struct {
	models  []domain.Model
	current *domain.Model
}

func (b *builder) startModel(number int) {
	b.endModel()
	b.current = &domain.Model{Number: number}
}

func (b *builder) endModel() {
	if b.current != nil && len(b.current.Chains) > 0 {
		b.models = append(b.models, *b.current)
	}
	b.current = nil
}

func (b *builder) add(rec atomRecord) {
	if b.current == nil {
		b.current = &domain.Model{Number: len(b.models) + 1}
	}
	m := b.current

	if n := len(m.Chains); n == 0 || m.Chains[n-1].ID != rec.chain {
		m.Chains = append(m.Chains, domain.Chain{ID: rec.chain})
	}
	ch := &m.Chains[len(m.Chains)-1]

	if n := len(ch.Residues); n == 0 ||
		ch.Residues[n-1].Number != rec.resSeq ||
		ch.Residues[n-1].InsertionCode != rec.insertion ||
		ch.Residues[n-1].Name != rec.resName {
		ch.Residues = append(ch.Residues, domain.Residue{
			Name:          rec.resName,
			Number:        rec.resSeq,
			InsertionCode: rec.insertion,
		})
	}
	res := &ch.Residues[len(ch.Residues)-1]
	res.Atoms = append(res.Atoms, rec.atom)
}

func (b *builder) structure() *domain.Structure {
	b.endModel()
	return &domain.Structure{Models: b.models}
}
