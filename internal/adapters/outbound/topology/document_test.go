package topology_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dockcheck/dockcheck/internal/adapters/outbound/topology"
	"github.com/dockcheck/dockcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestDecode_SimpleShape(t *testing.T) {
	doc, err := topology.Decode(readFixture(t, "simple.json"))
	require.NoError(t, err)
	assert.Equal(t, topology.KindSimple, doc.Kind)

	topo := doc.Topology("", domain.DefaultNTerminalCutoff)
	assert.Len(t, topo.Extracellular, 3)
	assert.Len(t, topo.Transmembrane, 3)
	assert.Len(t, topo.Intracellular, 2)
	require.True(t, topo.HasAlignment())
	assert.Equal(t, domain.ResidueRange{Start: 97, End: 107}, *topo.Alignment)
}

func TestDecode_SimpleShapeMissingFields(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"no alignment", `{"extracellular": [[1, 10]]}`},
		{"null alignment", `{"extracellular": [[1, 10]], "alignment_residues": null}`},
		{"null bounds", `{"extracellular": [[1, 10]], "alignment_residues": [null, null]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := topology.Decode([]byte(tt.json))
			require.NoError(t, err)
			topo := doc.Topology("", domain.DefaultNTerminalCutoff)
			assert.False(t, topo.HasAlignment())
			assert.Empty(t, topo.Transmembrane)
			assert.Empty(t, topo.Intracellular)
		})
	}
}

func TestDecode_FeaturesShape(t *testing.T) {
	doc, err := topology.Decode(readFixture(t, "uniprot_entry.json"))
	require.NoError(t, err)
	assert.Equal(t, topology.KindFeatures, doc.Kind)
	assert.True(t, doc.HasTopologyFeatures())
	assert.Equal(t, "C-X-C chemokine receptor type 2", doc.ProteinName())

	topo := doc.Topology("first", domain.DefaultNTerminalCutoff)
	assert.Equal(t, []domain.ResidueRange{{Start: 1, End: 45}, {Start: 97, End: 107}, {Start: 170, End: 190}}, topo.Extracellular)
	assert.Equal(t, []domain.ResidueRange{{Start: 46, End: 66}, {Start: 76, End: 96}, {Start: 108, End: 128}}, topo.Transmembrane)
	assert.Equal(t, []domain.ResidueRange{{Start: 67, End: 75}, {Start: 129, End: 155}}, topo.Intracellular)
	require.True(t, topo.HasAlignment())
	assert.Equal(t, domain.ResidueRange{Start: 1, End: 45}, *topo.Alignment)
}

func TestDecode_FeaturesNamedAlignment(t *testing.T) {
	doc, err := topology.Decode(readFixture(t, "uniprot_entry.json"))
	require.NoError(t, err)

	assert.Equal(t, domain.ResidueRange{Start: 97, End: 107}, *doc.Topology("ECL1", 50).Alignment)
	assert.Equal(t, domain.ResidueRange{Start: 170, End: 190}, *doc.Topology("ECL2", 50).Alignment)
	assert.Equal(t, domain.ResidueRange{Start: 1, End: 45}, *doc.Topology("N_term", 50).Alignment)
	assert.Equal(t, domain.ResidueRange{Start: 97, End: 107}, *doc.Topology("ECL7", 50).Alignment)
}

func TestDecode_FeaturesWithoutExtracellular(t *testing.T) {
	doc, err := topology.Decode([]byte(`{"features": [
		{"type": "Transmembrane", "location": {"start": {"value": 5}, "end": {"value": 25}}}
	]}`))
	require.NoError(t, err)
	topo := doc.Topology("first", 50)
	assert.Len(t, topo.Transmembrane, 1)
	assert.False(t, topo.HasAlignment())
}

func TestDecode_Invalid(t *testing.T) {
	for _, in := range []string{`not json`, `[1, 2]`, `{"extracellular": [[1]]}`, `{"features": 3}`} {
		_, err := topology.Decode([]byte(in))
		assert.ErrorIs(t, err, domain.ErrTopologySource, in)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join("testdata", "uniprot_entry.json")
	topo, err := topology.LoadFile(path, "", domain.DefaultNTerminalCutoff)
	require.NoError(t, err)
	assert.Equal(t, path, topo.Source)
	assert.Equal(t, domain.ResidueRange{Start: 1, End: 45}, *topo.Alignment, "files default to the first region")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := topology.LoadFile(filepath.Join(t.TempDir(), "nope.json"), "", 50)
	assert.ErrorIs(t, err, domain.ErrTopologySource)
}

func TestLoadFile_GPCRLoop(t *testing.T) {
	topo, err := topology.LoadFile(filepath.Join("testdata", "gpcr_loop.json"), "", domain.DefaultNTerminalCutoff)
	require.NoError(t, err)
	assert.Len(t, topo.Extracellular, 2)
	assert.Len(t, topo.Transmembrane, 2)
	assert.Len(t, topo.Intracellular, 1)
	require.True(t, topo.HasAlignment())
	assert.Equal(t, domain.ResidueRange{Start: 97, End: 107}, *topo.Alignment)

	assert.Equal(t, domain.RegionExtracellular, topo.Classify(100))
	assert.Equal(t, domain.RegionTransmembrane, topo.Classify(50))
	assert.Equal(t, domain.RegionIntracellular, topo.Classify(70))
	assert.Equal(t, domain.RegionUnknown, topo.Classify(200))
}

func TestLoadFile_FeaturesWithoutUsableRegions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"features": [
		{"type": "Topological domain", "description": "Extracellular", "location": {"start": {}, "end": {"value": 45}}},
		{"type": "Chain", "description": "Receptor", "location": {"start": {"value": 1}, "end": {"value": 300}}}
	]}`), 0644))

	_, err := topology.LoadFile(path, "", domain.DefaultNTerminalCutoff)
	assert.ErrorIs(t, err, domain.ErrTopologySource)
	assert.ErrorContains(t, err, "no usable topology regions")
}

func TestLoadFile_SimpleShapeMayBeEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"extracellular": []}`), 0644))

	topo, err := topology.LoadFile(path, "", domain.DefaultNTerminalCutoff)
	require.NoError(t, err)
	assert.True(t, topo.IsEmpty())
}
