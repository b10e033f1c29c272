package validation

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dockcheck/dockcheck/internal/domain"
	"github.com/dockcheck/dockcheck/internal/domain/geometry"
)

// Validator checks docked poses against one receptor. The receptor, its
// spatial index and the topology are shared read-only by every pose, so a
// Validator may be used from several goroutines.
type Validator struct {
	parser   domain.StructureParser
	topology domain.Topology
	cfg      domain.ValidationConfig

	receptor    []domain.AtomSite
	index       *geometry.Index
	fragment    []domain.ResidueRange
	receptorCAs map[residueKey]geometry.Vec3
	caOrder     []residueKey
}

type residueKey struct {
	number    int
	insertion string
}

// NewValidator indexes the receptor once for all later pose checks.
func NewValidator(receptor *domain.Structure, topology domain.Topology, cfg domain.ValidationConfig, parser domain.StructureParser) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sites := receptor.Sites()
	if len(sites) == 0 {
		return nil, errors.New("receptor has no atoms")
	}

	v := &Validator{
		parser:   parser,
		topology: topology,
		cfg:      cfg,
		receptor: sites,
		index:    geometry.NewIndex(domain.Coords(sites)),
		fragment: topology.FragmentRanges(cfg.NTerminalCutoff),
	}
	if topology.HasAlignment() {
		v.receptorCAs, v.caOrder = alignmentCAs(sites, *topology.Alignment)
	}
	return v, nil
}

// ReceptorAtoms is the number of indexed receptor atoms.
func (v *Validator) ReceptorAtoms() int { return len(v.receptor) }

// ValidatePose runs the full pipeline on one pose file. It never fails: any
// problem, including a panic, is reported in the result's Error field.
func (v *Validator) ValidatePose(path string) (result domain.ValidationResult) {
	result = domain.ValidationResult{
		Target: TargetName(path),
		Model:  filepath.Base(path),
	}
	if c, ok := ParseCluster(path); ok {
		result.Cluster = &c
	}

	defer func() {
		if r := recover(); r != nil {
			result = failed(result, fmt.Errorf("validating %s: %v", result.Model, r))
		}
	}()

	docked, err := v.parser.ParseFile(path)
	if err != nil {
		return failed(result, fmt.Errorf("%w: %v", domain.ErrPoseParse, err))
	}

	a, err := v.Analyze(docked)
	if err != nil {
		return failed(result, err)
	}

	result.Clashes = a.Clashes
	result.ECContacts = a.Contacts.Extracellular
	result.TMContacts = a.Contacts.Transmembrane
	result.ICContacts = a.Contacts.Intracellular
	ecPct := a.Contacts.ECPercent()
	result.ECPct = domain.Round(ecPct, 1)
	result.ValidityScore = ValidityScore(ecPct, a.Clashes)
	if a.Aligned {
		rmsd := domain.Round(a.RMSD, 2)
		result.AlignmentRMSD = &rmsd
	}
	return result
}

// Analysis is the raw geometry outcome for one docked complex.
type Analysis struct {
	PeptideAtoms  int
	FragmentAtoms int
	Aligned       bool
	RMSD          float64
	Clashes       int
	Contacts      ContactTally
}

// Analyze partitions the docked complex, superposes it onto the receptor
// when possible and counts clashes and contacts. The docked structure is not
// modified.
func (v *Validator) Analyze(docked *domain.Structure) (Analysis, error) {
	var a Analysis
	fragment, peptide := v.partition(docked.Sites())
	a.FragmentAtoms, a.PeptideAtoms = len(fragment), len(peptide)
	if len(peptide) == 0 {
		return a, domain.ErrNoPeptideAtoms
	}

	coords := domain.Coords(peptide)
	if tr, rmsd, err := v.align(fragment); err == nil {
		coords = tr.ApplyAll(coords)
		a.Aligned, a.RMSD = true, rmsd
	}

	a.Clashes, a.Contacts = v.contacts(coords)
	return a, nil
}

// partition splits docked atoms into receptor fragment and peptide by
// residue number.
func (v *Validator) partition(sites []domain.AtomSite) (fragment, peptide []domain.AtomSite) {
	for _, s := range sites {
		if inRanges(v.fragment, s.Residue) {
			fragment = append(fragment, s)
		} else {
			peptide = append(peptide, s)
		}
	}
	return fragment, peptide
}

// align pairs fragment and receptor alpha-carbons in the alignment range by
// residue and returns the transform taking the docked frame onto the
// receptor frame.
func (v *Validator) align(fragment []domain.AtomSite) (geometry.Transform, float64, error) {
	if !v.topology.HasAlignment() {
		return geometry.Transform{}, 0, fmt.Errorf("%w: no alignment range", domain.ErrAlignmentUnavailable)
	}
	docked, _ := alignmentCAs(fragment, *v.topology.Alignment)

	var fixed, mobile []geometry.Vec3
	for _, key := range v.caOrder {
		if p, ok := docked[key]; ok {
			fixed = append(fixed, v.receptorCAs[key])
			mobile = append(mobile, p)
		}
	}
	tr, rmsd, err := geometry.Superpose(fixed, mobile)
	if err != nil {
		return geometry.Transform{}, 0, fmt.Errorf("%w: %v", domain.ErrAlignmentUnavailable, err)
	}
	return tr, rmsd, nil
}

// contacts counts clash pairs and region-attributed contacts between the
// peptide coordinates and the full receptor.
func (v *Validator) contacts(peptide []geometry.Vec3) (int, ContactTally) {
	clash2 := v.cfg.ClashThreshold * v.cfg.ClashThreshold
	contact2 := v.cfg.ContactThreshold * v.cfg.ContactThreshold
	radius := v.cfg.SearchRadius()

	var clashes int
	var tally ContactTally
	for _, p := range peptide {
		for _, idx := range v.index.Within(p, radius) {
			d2 := p.SqDist(v.receptor[idx].Coord)
			if d2 <= clash2 {
				clashes++
			}
			if d2 <= contact2 {
				tally.Add(v.topology.Classify(v.receptor[idx].Residue))
			}
		}
	}
	return clashes, tally
}

// alignmentCAs collects the first alpha-carbon of each residue inside r,
// keyed by residue, together with the order they were found in.
func alignmentCAs(sites []domain.AtomSite, r domain.ResidueRange) (map[residueKey]geometry.Vec3, []residueKey) {
	cas := make(map[residueKey]geometry.Vec3)
	var order []residueKey
	for _, s := range sites {
		if s.Name != "CA" || s.Het || !r.Contains(s.Residue) {
			continue
		}
		key := residueKey{number: s.Residue, insertion: s.InsertionCode}
		if _, seen := cas[key]; seen {
			continue
		}
		cas[key] = s.Coord
		order = append(order, key)
	}
	return cas, order
}

func inRanges(ranges []domain.ResidueRange, residue int) bool {
	for _, r := range ranges {
		if r.Contains(residue) {
			return true
		}
	}
	return false
}

func failed(r domain.ValidationResult, err error) domain.ValidationResult {
	return domain.ValidationResult{
		Target:  r.Target,
		Model:   r.Model,
		Cluster: r.Cluster,
		Error:   err.Error(),
	}
}
