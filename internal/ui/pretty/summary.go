package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/doxyrst/pkg/convert"
	"github.com/yaklabco/doxyrst/pkg/runner"
)

const summaryDividerWidth = 40

//nolint:gochecknoglobals // Read-only display order.
var sourceOrder = []convert.WarningSource{
	convert.SourceDoxygen,
	convert.SourceCode,
	convert.SourceGenerator,
}

func plural(count int, one, many string) string {
	if count == 1 {
		return one
	}
	return many
}

// sourceBreakdown renders "1 doxygen, 2 code" for the non-zero sources.
func (s *Styles) sourceBreakdown(stats runner.Stats) string {
	var parts []string
	for _, source := range sourceOrder {
		if count := stats.WarningsBySource[source]; count > 0 {
			parts = append(parts, s.SourceStyle(source).Render(fmt.Sprintf("%d %s", count, source)))
		}
	}
	return strings.Join(parts, ", ")
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "Generated 12 pages for 8 entities (3 written, 9 kept), 4 warnings (1 doxygen, 3 code)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	parts := []string{
		s.Success.Render(fmt.Sprintf("Generated %d %s for %d %s",
			stats.PagesGenerated, plural(stats.PagesGenerated, "page", "pages"),
			stats.EntitiesConverted, plural(stats.EntitiesConverted, "entity", "entities"),
		)) + s.Dim.Render(fmt.Sprintf(" (%d written, %d kept)", stats.PagesWritten, stats.PagesKept)),
	}

	if stats.EntitiesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.EntitiesSkipped)))
	}

	if stats.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d %s (%s)",
			stats.Warnings, plural(stats.Warnings, "warning", "warnings"), s.sourceBreakdown(stats)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block whose divider
// fits in width columns.
func (s *Styles) FormatSummary(stats runner.Stats, width int) string {
	var builder strings.Builder

	divider := min(summaryDividerWidth, max(width, 1))

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", divider))
	builder.WriteString("\n")

	// Entities
	builder.WriteString("  Entities in index:  " +
		s.SummaryValue.Render(strconv.Itoa(stats.EntitiesDiscovered)) + "\n")
	builder.WriteString("  Entities converted: " +
		s.SummaryValue.Render(strconv.Itoa(stats.EntitiesConverted)) + "\n")
	if stats.EntitiesSkipped > 0 {
		builder.WriteString("  Entities skipped:   " +
			s.Warning.Render(strconv.Itoa(stats.EntitiesSkipped)) + "\n")
	}

	builder.WriteString("\n")

	// Pages
	builder.WriteString("  Pages generated:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.PagesGenerated)) + "\n")
	builder.WriteString("    Written:          " +
		s.Success.Render(strconv.Itoa(stats.PagesWritten)) + "\n")
	builder.WriteString("    Kept:             " +
		s.Dim.Render(strconv.Itoa(stats.PagesKept)) + "\n")

	if stats.Warnings > 0 {
		builder.WriteString("\n")
		builder.WriteString("  Warnings:           " +
			s.SummaryValue.Render(strconv.Itoa(stats.Warnings)) + "\n")
		for _, source := range sourceOrder {
			if count := stats.WarningsBySource[source]; count > 0 {
				label := fmt.Sprintf("    %-18s", string(source)+":")
				builder.WriteString(label + s.SourceStyle(source).Render(strconv.Itoa(count)) + "\n")
			}
		}
	}

	builder.WriteString("\n")

	if stats.Warnings > 0 {
		builder.WriteString(s.Warning.Render("Generation completed with warnings"))
	} else {
		builder.WriteString(s.Success.Render("Generation completed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
