// Package report writes a human-readable summary of one aggregation run as
// Markdown and as a standalone HTML page.
package report

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"inkartidy/domain/chart"
	"inkartidy/internal"
	"inkartidy/ports"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const (
	MarkdownFile = "report.md"
	HTMLFile     = "report.html"
)

// Summary is everything the report mentions
type Summary struct {
	RunID    string
	TidyPath string
	Records  int
	Bundle   chart.Bundle
	Exports  []ports.Export
}

// Writer renders summaries into a directory
type Writer struct {
	dir string
	log *internal.Logger
}

func NewWriter(dir string, log *internal.Logger) *Writer {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Writer{dir: dir, log: log}
}

// Write renders report.md and report.html
func (w *Writer) Write(ctx context.Context, s Summary) ([]ports.Export, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	s.Exports = linkedFrom(w.dir, s.Exports)
	md := Markdown(s)
	mdPath := filepath.Join(w.dir, MarkdownFile)
	if err := os.WriteFile(mdPath, md, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", mdPath, err)
	}

	htmlPath := filepath.Join(w.dir, HTMLFile)
	if err := os.WriteFile(htmlPath, HTML(md), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", htmlPath, err)
	}

	w.log.Info("[Report] Wrote %s and %s", mdPath, htmlPath)
	return []ports.Export{
		{Name: MarkdownFile, Path: mdPath},
		{Name: HTMLFile, Path: htmlPath},
	}, nil
}

// linkedFrom rewrites export paths so they resolve from dir, where the report
// lives. Paths that cannot be related are kept as given.
func linkedFrom(dir string, exports []ports.Export) []ports.Export {
	out := make([]ports.Export, len(exports))
	for i, e := range exports {
		out[i] = e
		if e.Path != "" {
			out[i].Path = relativePath(dir, e.Path)
		}
	}
	return out
}

func relativePath(dir, target string) string {
	base, err := filepath.Abs(dir)
	if err != nil {
		return target
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return target
	}
	return rel
}

// HTML converts report Markdown into a complete HTML page
func HTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Arbeitslosigkeit: Auswertung",
	})
	return markdown.ToHTML(md, p, r)
}

// Markdown renders the summary. Export paths are written as given.
func Markdown(s Summary) []byte {
	b := s.Bundle
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Arbeitslosigkeit: Auswertung %d → %d\n\n", b.StartYear, b.EndYear)
	fmt.Fprintf(&sb, "- Lauf: `%s`\n", s.RunID)
	fmt.Fprintf(&sb, "- Quelle: `%s` (%d Datensätze)\n", s.TidyPath, s.Records)
	fmt.Fprintf(&sb, "- Variablen: %s, %s\n\n", b.TotalVariable, b.YouthVariable)

	sb.WriteString("## Mittel über Regionen\n\n")
	sb.WriteString("| Jahr | Variable | Mittel |\n|---:|---|---:|\n")
	for _, p := range b.Series {
		fmt.Fprintf(&sb, "| %d | %s | %s |\n", p.Year, p.Variable, formatValue(p.Mean))
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## Hotspots %d → %d\n\n", b.StartYear, b.EndYear)
	if len(b.Deltas) == 0 {
		sb.WriteString("Keine Region hat Werte für beide Jahre.\n\n")
	} else {
		fmt.Fprintf(&sb, "| Region | %d | %d | Δ pp | Richtung |\n|---|---:|---:|---:|---|\n", b.StartYear, b.EndYear)
		for _, d := range b.Deltas {
			fmt.Fprintf(&sb, "| %s | %s | %s | %+.2f | %s |\n",
				d.Region, formatValue(d.Start), formatValue(d.End), d.Delta, d.Direction())
		}
		sb.WriteString("\n")
	}

	if !b.Heatmap.Empty() {
		rows, cols := b.Heatmap.Dims()
		fmt.Fprintf(&sb, "Heatmap: %d Regionen × %d Jahre.\n\n", rows, cols)
	}

	sb.WriteString("## Exporte\n\n")
	for _, e := range s.Exports {
		switch {
		case e.Skipped != nil:
			fmt.Fprintf(&sb, "- %s: übersprungen (%v)\n", e.Name, e.Skipped)
		case strings.HasSuffix(e.Name, ".png"):
			fmt.Fprintf(&sb, "- ![%s](%s)\n", e.Name, filepath.ToSlash(e.Path))
		default:
			fmt.Fprintf(&sb, "- [%s](%s)\n", e.Name, filepath.ToSlash(e.Path))
		}
	}
	return []byte(sb.String())
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
