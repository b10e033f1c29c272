package domain

import (
	"math"
	"sort"
	"time"
)

// ValidationResult is the outcome of validating one docked pose. A result
// with a non-empty Error carries no meaningful counts.
type ValidationResult struct {
	Target        string   `json:"target"`
	Model         string   `json:"model"`
	Cluster       *int     `json:"cluster,omitempty"`
	CenterScore   *float64 `json:"center_score,omitempty"`
	Clashes       int      `json:"clashes"`
	ECContacts    int      `json:"ec_contacts"`
	TMContacts    int      `json:"tm_contacts"`
	ICContacts    int      `json:"ic_contacts"`
	ECPct         float64  `json:"ec_pct"`
	ValidityScore float64  `json:"validity_score"`
	AlignmentRMSD *float64 `json:"alignment_rmsd,omitempty"`
	Error         string   `json:"error,omitempty"`
}

func (r ValidationResult) Failed() bool { return r.Error != "" }

// TotalContacts counts contacts that fall in a classified region.
func (r ValidationResult) TotalContacts() int {
	return r.ECContacts + r.TMContacts + r.ICContacts
}

// RankResults orders results error-free first, then by ascending clash count.
// The sort is stable, so equal results keep their encounter order.
func RankResults(results []ValidationResult) {
	sort.SliceStable(results, func(i, j int) bool {
		fi, fj := results[i].Failed(), results[j].Failed()
		if fi != fj {
			return !fi
		}
		return results[i].Clashes < results[j].Clashes
	})
}

// SelectMinClash picks the error-free result with the fewest clashes; the
// first minimum wins. When every result failed, the first one is returned so
// the failure stays visible. ok is false only for an empty input.
func SelectMinClash(results []ValidationResult) (ValidationResult, bool) {
	if len(results) == 0 {
		return ValidationResult{}, false
	}
	best := -1
	for i, r := range results {
		if r.Failed() {
			continue
		}
		if best < 0 || r.Clashes < results[best].Clashes {
			best = i
		}
	}
	if best < 0 {
		return results[0], true
	}
	return results[best], true
}

// TargetWarning records a target that was skipped or degraded.
type TargetWarning struct {
	Target  string `json:"target"`
	Message string `json:"message"`
}

// RunReport is everything a validation run produced.
type RunReport struct {
	RunID      string             `json:"run_id"`
	Timestamp  time.Time          `json:"timestamp"`
	Receptor   string             `json:"receptor"`
	ResultsDir string             `json:"results_dir"`
	CommitHash string             `json:"commit_hash,omitempty"`
	Config     ValidationConfig   `json:"config"`
	Topology   Topology           `json:"topology"`
	Targets    int                `json:"targets"`
	Results    []ValidationResult `json:"results"`
	Warnings   []TargetWarning    `json:"warnings,omitempty"`
	OutputFile string             `json:"output_file,omitempty"`
}

// RunSummary aggregates the error-free results of a run.
type RunSummary struct {
	Valid      int     `json:"valid"`
	Failed     int     `json:"failed"`
	AverageEC  float64 `json:"average_ec_pct"`
	ZeroClash  int     `json:"zero_clash"`
	HighEC     int     `json:"high_ec"`
	BestTarget string  `json:"best_target,omitempty"`
}

// HighECThreshold is the ec_pct at which a pose counts as mostly extracellular.
const HighECThreshold = 90.0

func (r RunReport) Summary() RunSummary {
	var s RunSummary
	var ecSum float64
	for _, res := range r.Results {
		if res.Failed() {
			s.Failed++
			continue
		}
		if s.Valid == 0 {
			s.BestTarget = res.Target
		}
		s.Valid++
		ecSum += res.ECPct
		if res.Clashes == 0 {
			s.ZeroClash++
		}
		if res.ECPct >= HighECThreshold {
			s.HighEC++
		}
	}
	if s.Valid > 0 {
		s.AverageEC = Round(ecSum/float64(s.Valid), 1)
	}
	return s
}

// RunEntry is one line of validation history.
type RunEntry struct {
	RunID      string  `json:"run_id"`
	Timestamp  string  `json:"timestamp"`
	ResultsDir string  `json:"results_dir"`
	CommitHash string  `json:"commit_hash,omitempty"`
	Targets    int     `json:"targets"`
	Valid      int     `json:"valid"`
	Failed     int     `json:"failed"`
	AverageEC  float64 `json:"average_ec_pct"`
	BestTarget string  `json:"best_target,omitempty"`
}

// Entry condenses the report into a history line.
func (r RunReport) Entry() RunEntry {
	s := r.Summary()
	return RunEntry{
		RunID:      r.RunID,
		Timestamp:  r.Timestamp.Format(time.RFC3339),
		ResultsDir: r.ResultsDir,
		CommitHash: r.CommitHash,
		Targets:    r.Targets,
		Valid:      s.Valid,
		Failed:     s.Failed,
		AverageEC:  s.AverageEC,
		BestTarget: s.BestTarget,
	}
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
