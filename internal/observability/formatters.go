// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/emission-renderer/internal/classify"
	"github.com/jonathan/emission-renderer/internal/pipeline"
	"github.com/jonathan/emission-renderer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-fills s with spaces to the inner box width, counting runes.
func pad(s string) string {
	if n := boxWidth - 4 - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// PrintFields outputs the classified data-entry fields grouped by category.
func (p *Printer) PrintFields(result *classify.Result) {
	if result == nil || len(result.Fields) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Fields: %d\n", len(result.Fields)))

	groups := classify.Group(result.Fields)
	for _, category := range types.Categories() {
		fields := groups[category]
		if len(fields) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s:\n", category))
		for _, f := range fields {
			marker := " "
			if f.Required {
				marker = "*"
			}
			sb.WriteString(fmt.Sprintf(" %s %s.%s", marker, f.TargetSection, f.TargetField))
			if len(f.Aliases) > 0 {
				sb.WriteString(fmt.Sprintf(" (+%d)", len(f.Aliases)))
			}
			sb.WriteString("\n")
		}
	}

	p.printBox("EMISSION FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs the classification warnings, if any.
func (p *Printer) PrintWarnings(warnings []*classify.ClassificationWarning) {
	if len(warnings) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d warnings:\n\n", len(warnings)))

	count := min(len(warnings), maxItemsToShow)
	for i := 0; i < count; i++ {
		w := warnings[i]
		sb.WriteString(fmt.Sprintf("⚠ %s (%s)\n", w.Name, w.Region))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(w.Message, 50)))
	}
	if len(warnings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more warnings", len(warnings)-maxItemsToShow))
	}

	p.printBox("CLASSIFICATION WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUnresolved outputs the placeholders that were left in the document.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintUnresolved(names []string) {
	if len(names) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("✅ ALL PLACEHOLDERS RESOLVED"))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d placeholders left unfilled:\n\n", len(names)))
	count := min(len(names), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • {{%s}}\n", names[i]))
	}
	if len(names) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(names)-maxItemsToShow))
	}

	p.printBox("UNRESOLVED PLACEHOLDERS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPages outputs the page windows of a paginated document.
func (p *Printer) PrintPages(pages []types.Page) {
	if len(pages) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pages: %d\n\n", len(pages)))

	count := min(len(pages), maxItemsToShow)
	for i := 0; i < count; i++ {
		page := pages[i]
		sb.WriteString(fmt.Sprintf("%-8s offset %7.1fmm  %.1fx%.1fmm\n", page.Label, page.OffsetY, page.Width, page.Height))
	}
	if len(pages) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more pages", len(pages)-maxItemsToShow))
	}

	p.printBox("PAGINATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintArtifact outputs a summary of a rendered emission.
func (p *Printer) PrintArtifact(artifact *pipeline.Artifact) {
	if artifact == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:     %s\n", artifact.Filename))
	sb.WriteString(fmt.Sprintf("Size:     %s\n", humanBytes(len(artifact.PDF))))
	sb.WriteString(fmt.Sprintf("Pages:    %d\n", len(artifact.Pages)))
	if artifact.Engine != "" {
		sb.WriteString(fmt.Sprintf("Engine:   %s\n", artifact.Engine))
	}
	sb.WriteString(fmt.Sprintf("Rendered: %s", artifact.RenderedAt.Format("2006-01-02 15:04:05")))

	p.printBox("RENDERED EMISSION", sb.String())
}

func humanBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
