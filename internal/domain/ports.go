package domain

import "context"

// StructureParser reads a structure file into a Structure.
type StructureParser interface {
	ParseFile(path string) (*Structure, error)
}

// TopologyRequest names where a topology comes from: a local file or a
// remote accession. Exactly one of File and Accession is set.
type TopologyRequest struct {
	File            string
	Accession       string
	AlignmentRegion string
	NTerminalCutoff int
}

// TopologySource resolves a TopologyRequest. Failures wrap ErrTopologySource.
type TopologySource interface {
	Load(ctx context.Context, req TopologyRequest) (Topology, error)
}

// ScoreTable is the parsed score summary of one target.
type ScoreTable struct {
	File         string
	Coefficient  string
	CenterScores map[int]float64
}

// ResultsStore reads a docking results tree: one directory per target.
type ResultsStore interface {
	Targets(root string) ([]string, error)
	ScoreTable(targetDir string) (ScoreTable, error)
	PoseFiles(targetDir, coefficient string) ([]string, error)
}

// ReportWriter persists a run report and returns the written path.
type ReportWriter interface {
	Write(outputDir string, report *RunReport) (string, error)
}

// RunHistory stores and retrieves past runs.
type RunHistory interface {
	Save(outputDir string, entry RunEntry) error
	Load(outputDir string) ([]RunEntry, error)
}

// GitInfo reports version-control provenance of a path.
type GitInfo interface {
	CommitHash(path string) (string, error)
}

// ConfigLoader reads the effective settings for a working directory.
type ConfigLoader interface {
	Load(dir string) (Settings, error)
}
