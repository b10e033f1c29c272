package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dockcheck/dockcheck/internal/domain"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)

	regionColors = map[domain.Region]lipgloss.Color{
		domain.RegionExtracellular: success,
		domain.RegionTransmembrane: warning,
		domain.RegionIntracellular: danger,
		domain.RegionUnknown:       dim,
	}
)

// RenderTopology shows the region ranges, the named extracellular segments
// and the alignment range of a topology.
func RenderTopology(t domain.Topology, cutoff int) string {
	var b strings.Builder

	name := t.ProteinName
	if name == "" {
		name = "Receptor topology"
	}
	head := titleStyle.Render(name)
	if t.Source != "" {
		head += "\n" + dimStyle.Render(t.Source)
	}
	b.WriteString(boxStyle.Render(head + "\n" + dimStyle.Render(t.Summary())))
	b.WriteString("\n")

	renderRangeSection(&b, "Extracellular", domain.RegionExtracellular, t.Extracellular)
	renderRangeSection(&b, "Transmembrane", domain.RegionTransmembrane, t.Transmembrane)
	renderRangeSection(&b, "Intracellular", domain.RegionIntracellular, t.Intracellular)

	if segs := t.ExtracellularSegments(cutoff); len(segs) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s\n", sectionHeaderStyle.Render("Extracellular segments"))
		for _, s := range segs {
			marker := " "
			if t.HasAlignment() && *t.Alignment == s.Range {
				marker = passStyle.Render("▸")
			}
			fmt.Fprintf(&b, "   %s %s %s\n", marker, padRight(s.Name, 8), s.Range)
		}
	}

	b.WriteString("\n")
	if t.HasAlignment() {
		fmt.Fprintf(&b, "  %s %s\n", titleStyle.Render("Alignment residues"), t.Alignment)
	} else {
		fmt.Fprintf(&b, "  %s %s\n", warnTagStyle.Render("warn "), dimStyle.Render("no alignment range; poses are scored in their docked frame"))
	}

	if t.IsEmpty() {
		b.WriteString("\n  " + hintStyle.Render("No regions defined. Every contact will be unclassified.") + "\n")
	}
	return b.String()
}

func renderRangeSection(b *strings.Builder, title string, region domain.Region, ranges []domain.ResidueRange) {
	b.WriteString("\n")
	fmt.Fprintf(b, "  %s %s\n",
		sectionHeaderStyle.Render(title),
		dimStyle.Render(fmt.Sprintf("(%d)", len(ranges))),
	)
	dot := lipgloss.NewStyle().Foreground(regionColors[region]).Render("●")
	for _, r := range ranges {
		fmt.Fprintf(b, "    %s %s  %s\n", dot, padRight(r.String(), 10), faintStyle.Render(fmt.Sprintf("%d residues", r.End-r.Start+1)))
	}
}

// RenderClassification lists the region of each residue.
func RenderClassification(t domain.Topology, residues []int) string {
	var b strings.Builder
	for _, r := range residues {
		region := t.Classify(r)
		styled := lipgloss.NewStyle().Foreground(regionColors[region]).Render(string(region))
		fmt.Fprintf(&b, "  %s %s\n", padRight(fmt.Sprintf("%d", r), 8), styled)
	}
	return b.String()
}
