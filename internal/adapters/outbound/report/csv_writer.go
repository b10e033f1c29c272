// Package report writes validation runs to disk.
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dockcheck/dockcheck/internal/domain"
)

// FileName is the report written into the output directory.
const FileName = "docking_validation.csv"

const notAvailable = "N/A"

var header = []string{
	"rank", "target", "model", "cluster", "center_score",
	"clashes", "ec_contacts", "tm_contacts", "ic_contacts",
	"ec_pct", "validity_score", "alignment_rmsd", "error",
}

// CSVWriter implements domain.ReportWriter as a CSV table preceded by a
// commented methodology block.
type CSVWriter struct{}

func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

func (w *CSVWriter) Write(outputDir string, report *domain.RunReport) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(outputDir, FileName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report: %w", err)
	}
	defer f.Close()

	if err := Encode(f, report); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, f.Close()
}

// Encode writes the methodology block and the ranked rows. Errored results
// are written with their rank and message so failures stay visible.
func Encode(out io.Writer, report *domain.RunReport) error {
	bw := bufio.NewWriter(out)
	writeMethodology(bw, report)

	cw := csv.NewWriter(bw)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, r := range report.Results {
		if err := cw.Write(row(i+1, r)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

func row(rank int, r domain.ValidationResult) []string {
	cluster := notAvailable
	if r.Cluster != nil {
		cluster = strconv.Itoa(*r.Cluster)
	}
	return []string{
		strconv.Itoa(rank),
		r.Target,
		r.Model,
		cluster,
		optionalFloat(r.CenterScore),
		strconv.Itoa(r.Clashes),
		strconv.Itoa(r.ECContacts),
		strconv.Itoa(r.TMContacts),
		strconv.Itoa(r.ICContacts),
		formatFloat(r.ECPct),
		formatFloat(r.ValidityScore),
		optionalFloat(r.AlignmentRMSD),
		r.Error,
	}
}

func optionalFloat(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

const rule = "# ============================================================================="

func writeMethodology(w io.Writer, report *domain.RunReport) {
	cfg := report.Config
	topo := report.Topology

	alignment := "none"
	if topo.HasAlignment() {
		alignment = topo.Alignment.String()
	}
	selection := "for each target, the model with minimum clashes is selected"
	if !cfg.FindMinClash {
		selection = "all models of every target are reported"
	}

	lines := []string{
		rule,
		"# Docking Validation Results",
		rule,
		"#",
		"# RUN:",
		"#   Run ID: " + report.RunID,
		"#   Timestamp: " + report.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		"#   Receptor: " + report.Receptor,
		"#   Results: " + report.ResultsDir,
	}
	if report.CommitHash != "" {
		lines = append(lines, "#   Results commit: "+report.CommitHash)
	}
	lines = append(lines,
		"#",
		"# METHODOLOGY:",
		"# Validates peptide-receptor docking poses by analyzing contacts with receptor regions.",
		"#",
		"# TOPOLOGY:",
	)
	if topo.Source != "" {
		lines = append(lines, "#   Source: "+topo.Source)
	}
	if topo.ProteinName != "" {
		lines = append(lines, "#   Protein: "+topo.ProteinName)
	}
	lines = append(lines,
		"#   Extracellular: "+domain.FormatRanges(topo.Extracellular),
		"#   Transmembrane: "+domain.FormatRanges(topo.Transmembrane),
		"#   Intracellular: "+domain.FormatRanges(topo.Intracellular),
		"#   Alignment residues: "+alignment,
		fmt.Sprintf("#   N-terminal cutoff: residue %d", cfg.NTerminalCutoff),
		"#",
		"# CALCULATION:",
		fmt.Sprintf("#   Contact threshold: %g Angstroms", cfg.ContactThreshold),
		fmt.Sprintf("#   Clash threshold: %g Angstroms (atom pairs closer than this)", cfg.ClashThreshold),
		"#   Selection: "+selection,
		"#",
		"# COLUMNS:",
		"#   rank: ranking by errors last, then minimum clashes",
		"#   target: peptide/ligand identifier",
		"#   model: docking model filename",
		"#   cluster: cluster number",
		"#   center_score: weighted score of the cluster center (kcal/mol)",
		fmt.Sprintf("#   clashes: atom pairs within %g Angstroms", cfg.ClashThreshold),
		"#   ec_contacts: extracellular contacts",
		"#   tm_contacts: transmembrane contacts",
		"#   ic_contacts: intracellular contacts",
		"#   ec_pct: percentage extracellular contacts",
		"#   validity_score: composite score (0-100), higher = more valid",
		"#                   Formula: ec_pct - clashes",
		"#   alignment_rmsd: CA RMSD of the receptor fragment after superposition (Angstroms)",
		"#   error: why the model could not be validated",
		"#",
		rule,
	)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
