package scanner

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dockcheck/dockcheck/internal/domain"
)

const (
	scoreFilePattern = "cluspro_scores.*.csv"

	columnCluster        = "Cluster"
	columnRepresentative = "Representative"
	columnWeightedScore  = "Weighted Score"
	representativeCenter = "Center"
)

// ResultsScanner implements domain.ResultsStore over a docking results tree
// laid out as <root>/<target>/{cluspro_scores.*.csv, model.<coef>.*.pdb}.
type ResultsScanner struct{}

func New() *ResultsScanner {
	return &ResultsScanner{}
}

// Targets lists the non-hidden subdirectories of root, sorted.
func (s *ResultsScanner) Targets(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading results directory: %w", err)
	}

	var targets []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		targets = append(targets, filepath.Join(root, e.Name()))
	}
	sort.Strings(targets)
	return targets, nil
}

// ScoreTable reads the first score file of a target. The coefficient is the
// third dot-separated token of its name:
// cluspro_scores.<job>.<coefficient>.<scheme>.csv. Only rows whose
// representative is the cluster center are kept; malformed rows are skipped.
func (s *ResultsScanner) ScoreTable(targetDir string) (domain.ScoreTable, error) {
	matches, err := filepath.Glob(filepath.Join(targetDir, scoreFilePattern))
	if err != nil {
		return domain.ScoreTable{}, err
	}
	if len(matches) == 0 {
		return domain.ScoreTable{}, fmt.Errorf("%w in %s", domain.ErrMissingScoreFile, filepath.Base(targetDir))
	}
	sort.Strings(matches)
	path := matches[0]

	table := domain.ScoreTable{
		File:         path,
		Coefficient:  coefficientFromName(filepath.Base(path)),
		CenterScores: make(map[int]float64),
	}

	f, err := os.Open(path)
	if err != nil {
		return table, fmt.Errorf("opening score file: %w", err)
	}
	defer f.Close()

	if err := readCenters(f, table.CenterScores); err != nil {
		return table, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return table, nil
}

// PoseFiles lists model.<coefficient>.*.pdb in targetDir, sorted.
func (s *ResultsScanner) PoseFiles(targetDir, coefficient string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(targetDir, fmt.Sprintf("model.%s.*.pdb", coefficient)))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w for coefficient %s in %s", domain.ErrMissingPoseFiles, coefficient, filepath.Base(targetDir))
	}
	sort.Strings(matches)
	return matches, nil
}

func coefficientFromName(name string) string {
	parts := strings.Split(strings.TrimSuffix(name, ".csv"), ".")
	if len(parts) >= 3 {
		return parts[2]
	}
	return ""
}

func readCenters(r io.Reader, scores map[int]float64) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	clusterCol, ok1 := cols[columnCluster]
	repCol, ok2 := cols[columnRepresentative]
	scoreCol, ok3 := cols[columnWeightedScore]
	if !ok1 || !ok2 || !ok3 {
		return fmt.Errorf("missing columns, want %q, %q and %q", columnCluster, columnRepresentative, columnWeightedScore)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return err
		}
		need := max(clusterCol, repCol, scoreCol)
		if len(row) <= need || strings.TrimSpace(row[repCol]) != representativeCenter {
			continue
		}
		cluster, err := strconv.Atoi(strings.TrimSpace(row[clusterCol]))
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(row[scoreCol]), 64)
		if err != nil {
			continue
		}
		scores[cluster] = score
	}
}
