package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dockcheck/dockcheck/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	lime    = lipgloss.Color("#A3E635")
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

var resultColumns = []string{"#", "target", "model", "cluster", "clashes", "EC", "TM", "IC", "EC%", "score", "rmsd"}

// RenderReport formats a validation run: a summary box, the top rows of the
// ranked table and any warnings. top <= 0 shows every row.
func RenderReport(report *domain.RunReport, top int) string {
	var b strings.Builder
	s := report.Summary()

	title := headerStyle.Render("dockcheck")
	subtitle := dimStyle.Render("Docking Validation")
	counts := fmt.Sprintf("%d targets  %d valid  %d errors", report.Targets, s.Valid, s.Failed)
	avg := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(s.AverageEC)).
		Render(fmt.Sprintf("avg EC %.1f%%", s.AverageEC))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + avg + "\n" + dimStyle.Render(counts)))
	b.WriteString("\n\n")

	if len(report.Results) == 0 {
		b.WriteString("  " + dimStyle.Render("No poses were validated.") + "\n")
	} else {
		rows := report.Results
		if top > 0 && len(rows) > top {
			rows = rows[:top]
		}
		b.WriteString(resultsTable(rows))
		b.WriteString("\n")
		if len(rows) < len(report.Results) {
			b.WriteString("  " + dimStyle.Render(fmt.Sprintf("showing top %d of %d", len(rows), len(report.Results))) + "\n")
		}
	}

	b.WriteString("\n  " + separatorLine + "\n\n")
	renderSummary(&b, s)
	renderWarnings(&b, report.Warnings)

	if report.OutputFile != "" {
		b.WriteString("\n  " + dimStyle.Render("Results written to "+report.OutputFile) + "\n")
	}
	return b.String()
}

func resultsTable(results []domain.ValidationResult) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(faintStyle).
		Headers(resultColumns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true).Foreground(accent)
			}
			return cellStyle
		})

	for i, r := range results {
		if r.Failed() {
			t.Row(strconv.Itoa(i+1), r.Target, r.Model, clusterText(r.Cluster),
				errorTagStyle.Render("error"), "", "", "", "", "", truncate(r.Error, 24))
			continue
		}
		t.Row(
			strconv.Itoa(i+1),
			r.Target,
			r.Model,
			clusterText(r.Cluster),
			clashText(r.Clashes),
			strconv.Itoa(r.ECContacts),
			strconv.Itoa(r.TMContacts),
			strconv.Itoa(r.ICContacts),
			lipgloss.NewStyle().Foreground(scoreColor(r.ECPct)).Render(fmt.Sprintf("%.1f", r.ECPct)),
			lipgloss.NewStyle().Bold(true).Foreground(scoreColor(r.ValidityScore)).Render(fmt.Sprintf("%.1f", r.ValidityScore)),
			rmsdText(r.AlignmentRMSD),
		)
	}
	return t.Render()
}

func renderSummary(b *strings.Builder, s domain.RunSummary) {
	b.WriteString("  " + titleStyle.Render("Summary") + "\n")
	fmt.Fprintf(b, "    %s %s\n", padRight("Average EC%", 22), lipgloss.NewStyle().Foreground(scoreColor(s.AverageEC)).Render(fmt.Sprintf("%.1f", s.AverageEC)))
	fmt.Fprintf(b, "    %s %d\n", padRight("Zero-clash poses", 22), s.ZeroClash)
	fmt.Fprintf(b, "    %s %d\n", padRight(fmt.Sprintf("EC%% >= %g", domain.HighECThreshold), 22), s.HighEC)
	if s.Failed > 0 {
		fmt.Fprintf(b, "    %s %s\n", padRight("Errors", 22), failStyle.Render(strconv.Itoa(s.Failed)))
	} else {
		fmt.Fprintf(b, "    %s %s\n", padRight("Errors", 22), passStyle.Render("0"))
	}
	if s.BestTarget != "" {
		fmt.Fprintf(b, "    %s %s\n", padRight("Best target", 22), titleStyle.Render(s.BestTarget))
	}
}

func renderWarnings(b *strings.Builder, warnings []domain.TargetWarning) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("\n  " + titleStyle.Render("Warnings") + "  " + warnTagStyle.Render(fmt.Sprintf("%d", len(warnings))) + "\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "    %s %s  %s\n", warnTagStyle.Render("warn "), w.Target, dimStyle.Render(w.Message))
	}
}

func clusterText(c *int) string {
	if c == nil {
		return "N/A"
	}
	return strconv.Itoa(*c)
}

func clashText(n int) string {
	s := strconv.Itoa(n)
	switch {
	case n == 0:
		return passStyle.Render(s)
	case n <= 5:
		return warnStyle.Render(s)
	default:
		return failStyle.Render(s)
	}
}

func rmsdText(v *float64) string {
	if v == nil {
		return dimStyle.Render("N/A")
	}
	return fmt.Sprintf("%.2f", *v)
}

func scoreColor(score float64) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return lime
	case score >= 40:
		return warning
	default:
		return danger
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats run history for terminal output.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No validation history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Validation History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		date := e.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}
		runID := e.RunID
		if len(runID) > 8 {
			runID = runID[:8]
		}

		ecStyled := lipgloss.NewStyle().
			Foreground(scoreColor(e.AverageEC)).
			Render(fmt.Sprintf("%5.1f%% EC", e.AverageEC))

		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(date),
			faintStyle.Render(hash),
			infoTagStyle.Render(runID),
			ecStyled,
			dimStyle.Render(fmt.Sprintf("%d/%d valid", e.Valid, e.Valid+e.Failed)),
		)
		if e.BestTarget != "" {
			line += "  " + e.BestTarget
		}

		if i > 0 {
			diff := e.AverageEC - entries[i-1].AverageEC
			if diff > 0.05 {
				line += "  " + passStyle.Render(fmt.Sprintf("↑%.1f", diff))
			} else if diff < -0.05 {
				line += "  " + failStyle.Render(fmt.Sprintf("↓%.1f", -diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
