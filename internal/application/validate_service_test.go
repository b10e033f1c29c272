package application_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dockcheck/dockcheck/internal/adapters/outbound/history"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/pdb"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/report"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/scanner"
	"github.com/dockcheck/dockcheck/internal/adapters/outbound/topology"
	"github.com/dockcheck/dockcheck/internal/application"
	"github.com/dockcheck/dockcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type atom struct {
	chain   string
	residue int
	x, y, z float64
}

var (
	loop = []atom{
		{"A", 97, 0, 0, 0},
		{"A", 98, 3.8, 0, 0},
		{"A", 99, 3.8, 3.8, 0},
		{"A", 100, 0, 3.8, 3.8},
	}
	receptorAtoms = append(append([]atom{}, loop...), atom{"A", 50, 20, 0, 0}, atom{"A", 70, 40, 0, 0})
	// One peptide atom touching two loop residues; the second clashes with TM.
	clashingPeptide = []atom{{"B", 1, 0, 0, 3.0}, {"B", 2, 20, 0, 1.5}}
	cleanPeptide    = []atom{{"B", 1, 0, 0, 3.0}}
)

const topologyJSON = `{
  "extracellular": [[1, 45], [97, 107]],
  "transmembrane": [[46, 66], [76, 96]],
  "intracellular": [[67, 75]],
  "alignment_residues": [97, 107]
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writePDB(t *testing.T, path string, atoms ...[]atom) {
	t.Helper()
	var b strings.Builder
	serial := 1
	for _, group := range atoms {
		for _, a := range group {
			fmt.Fprintf(&b, "ATOM  %5d  CA  ALA %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f           C\n",
				serial, a.chain, a.residue, a.x, a.y, a.z, 1.0, 0.0)
			serial++
		}
	}
	b.WriteString("END\n")
	writeFile(t, path, b.String())
}

// moved rotates 90 degrees about z and translates, as a docking server
// would leave the complex in its own frame.
func moved(atoms []atom) []atom {
	out := make([]atom, len(atoms))
	for i, a := range atoms {
		out[i] = atom{a.chain, a.residue, -a.y + 10, a.x - 4, a.z + 2.5}
	}
	return out
}

type fixture struct {
	root     string
	receptor string
	topology string
	results  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		root:     root,
		receptor: filepath.Join(root, "receptor.pdb"),
		topology: filepath.Join(root, "topology.json"),
		results:  filepath.Join(root, "results"),
	}
	writePDB(t, f.receptor, receptorAtoms)
	writeFile(t, f.topology, topologyJSON)

	// pepA: two models, the second has no clashes.
	writeFile(t, filepath.Join(f.results, "pepA", "cluspro_scores.991.000.balanced.csv"),
		"Cluster,Representative,Weighted Score\n1,Center,-800.5\n2,Center,-750.0\n2,Lowest Energy,-900\n")
	writePDB(t, filepath.Join(f.results, "pepA", "model.000.01.pdb"), loop, clashingPeptide)
	writePDB(t, filepath.Join(f.results, "pepA", "model.000.02.pdb"), moved(loop), moved(cleanPeptide))

	// pepB: no score file, falls back to coefficient 000.
	writePDB(t, filepath.Join(f.results, "pepB", "model.000.05.pdb"), loop, clashingPeptide)

	// pepC: score file names coefficient 002 but only 000 models exist.
	writeFile(t, filepath.Join(f.results, "pepC", "cluspro_scores.993.002.Electrostatic_favored.csv"),
		"Cluster,Representative,Weighted Score\n")
	writePDB(t, filepath.Join(f.results, "pepC", "model.000.01.pdb"), loop, cleanPeptide)

	// pepD: receptor fragment only.
	writePDB(t, filepath.Join(f.results, "pepD", "model.000.03.pdb"), loop)

	require.NoError(t, os.MkdirAll(filepath.Join(f.results, ".hidden"), 0755))
	return f
}

type stubGit struct{ hash string }

func (g stubGit) CommitHash(string) (string, error) {
	if g.hash == "" {
		return "", errors.New("not a git repository")
	}
	return g.hash, nil
}

func newService(git domain.GitInfo) *application.ValidateService {
	return application.NewValidateService(
		pdb.New(),
		topology.NewSource(nil),
		scanner.New(),
		report.NewCSVWriter(),
		history.New(),
		git,
		nil,
	)
}

func (f fixture) request(outputDir string) application.ValidateRequest {
	return application.ValidateRequest{
		Receptor:   f.receptor,
		ResultsDir: f.results,
		OutputDir:  outputDir,
		Topology:   domain.TopologyRequest{File: f.topology},
		Config:     domain.DefaultConfig(),
	}
}

func TestValidateService_Run(t *testing.T) {
	f := newFixture(t)

	rep, err := newService(stubGit{hash: "0123456789abcdef"}).Run(context.Background(), f.request(""))
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 4, rep.Targets)
	assert.Equal(t, "0123456789abcdef", rep.CommitHash)
	require.Len(t, rep.Results, 3)

	best := rep.Results[0]
	assert.Equal(t, "pepA", best.Target)
	assert.Equal(t, "model.000.02.pdb", best.Model)
	assert.Equal(t, 0, best.Clashes)
	assert.Equal(t, 2, best.ECContacts)
	assert.Equal(t, 100.0, best.ECPct)
	assert.Equal(t, 100.0, best.ValidityScore)
	require.NotNil(t, best.CenterScore)
	assert.Equal(t, -750.0, *best.CenterScore)
	require.NotNil(t, best.AlignmentRMSD)
	assert.InDelta(t, 0, *best.AlignmentRMSD, 0.01)

	second := rep.Results[1]
	assert.Equal(t, "pepB", second.Target)
	assert.Equal(t, 1, second.Clashes)
	assert.Equal(t, 66.7, second.ECPct)
	assert.Equal(t, 65.7, second.ValidityScore)
	assert.Nil(t, second.CenterScore)

	last := rep.Results[2]
	assert.Equal(t, "pepD", last.Target)
	assert.Equal(t, "no peptide atoms found", last.Error)

	require.Len(t, rep.Warnings, 2)
	assert.Equal(t, "pepB", rep.Warnings[0].Target)
	assert.Contains(t, rep.Warnings[0].Message, "missing score file")
	assert.Equal(t, "pepC", rep.Warnings[1].Target)
	assert.Contains(t, rep.Warnings[1].Message, "no pose files found")
}

func TestValidateService_AllModels(t *testing.T) {
	f := newFixture(t)
	req := f.request("")
	req.Config.FindMinClash = false

	rep, err := newService(nil).Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, rep.Results, 4)

	var models []string
	for _, r := range rep.Results {
		models = append(models, r.Target+"/"+r.Model)
	}
	assert.Equal(t, []string{
		"pepA/model.000.02.pdb",
		"pepA/model.000.01.pdb",
		"pepB/model.000.05.pdb",
		"pepD/model.000.03.pdb",
	}, models)

	require.NotNil(t, rep.Results[1].CenterScore)
	assert.Equal(t, -800.5, *rep.Results[1].CenterScore)
}

func TestValidateService_WorkersDoNotChangeResults(t *testing.T) {
	f := newFixture(t)

	serial, err := newService(nil).Run(context.Background(), f.request(""))
	require.NoError(t, err)

	req := f.request("")
	req.Config.Workers = 4
	parallel, err := newService(nil).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, serial.Results, parallel.Results)
	assert.Equal(t, serial.Warnings, parallel.Warnings)
}

func TestValidateService_WritesReportAndHistory(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.root, "out")

	rep, err := newService(nil).Run(context.Background(), f.request(out))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, report.FileName), rep.OutputFile)

	data, err := os.ReadFile(rep.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Formula: ec_pct - clashes")
	assert.Contains(t, string(data), "1,pepA,model.000.02.pdb,2,-750,0,2,0,0,100,100,")
	assert.Contains(t, string(data), "no peptide atoms found")

	entries, err := history.New().Load(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, rep.RunID, entries[0].RunID)
	assert.Equal(t, 2, entries[0].Valid)
	assert.Equal(t, 1, entries[0].Failed)
	assert.Equal(t, "pepA", entries[0].BestTarget)
}

func TestValidateService_TopologyFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.root, "out")
	req := f.request(out)
	req.Topology = domain.TopologyRequest{File: filepath.Join(f.root, "missing.json")}

	_, err := newService(nil).Run(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrTopologySource)
	assert.NoDirExists(t, out)
}

func TestValidateService_FeatureFileWithoutRegionsIsFatal(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.root, "out")
	entry := filepath.Join(f.root, "entry.json")
	writeFile(t, entry, `{"features": [{"type": "Chain", "location": {"start": {"value": 1}, "end": {"value": 300}}}]}`)
	req := f.request(out)
	req.Topology = domain.TopologyRequest{File: entry}

	_, err := newService(nil).Run(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrTopologySource)
	assert.NoDirExists(t, out)
}

func TestValidateService_InvalidConfig(t *testing.T) {
	f := newFixture(t)
	req := f.request("")
	req.Config.ContactThreshold = 0

	_, err := newService(nil).Run(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestValidateService_ReceptorParseFailure(t *testing.T) {
	f := newFixture(t)
	req := f.request("")
	req.Receptor = filepath.Join(f.root, "nope.pdb")

	_, err := newService(nil).Run(context.Background(), req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing receptor")
}

func TestValidateService_Cancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newService(nil).Run(ctx, f.request(""))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateService_EmptyResultsDir(t *testing.T) {
	f := newFixture(t)
	req := f.request("")
	req.ResultsDir = t.TempDir()

	rep, err := newService(nil).Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Targets)
	assert.Empty(t, rep.Results)
}

func TestValidateService_EmptyTargetDirectory(t *testing.T) {
	f := newFixture(t)
	results := filepath.Join(f.root, "batch")
	writePDB(t, filepath.Join(results, "pepA", "model.000.00.pdb"), loop, clashingPeptide)
	writePDB(t, filepath.Join(results, "pepA", "model.000.01.pdb"), moved(loop), moved(cleanPeptide))
	require.NoError(t, os.MkdirAll(filepath.Join(results, "pepEmpty"), 0755))

	req := f.request("")
	req.ResultsDir = results
	rep, err := newService(nil).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Targets)
	require.Len(t, rep.Results, 1)
	assert.Equal(t, "pepA", rep.Results[0].Target)
	assert.Equal(t, "model.000.01.pdb", rep.Results[0].Model)

	var emptyWarnings []string
	for _, w := range rep.Warnings {
		if w.Target == "pepEmpty" {
			emptyWarnings = append(emptyWarnings, w.Message)
		}
	}
	require.NotEmpty(t, emptyWarnings)
	assert.Contains(t, emptyWarnings[len(emptyWarnings)-1], "no pose files found")
}
