package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/doxyrst/pkg/convert"
	"github.com/yaklabco/doxyrst/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minEntityWidth   = 12
	minMessageWidth  = 30
	maxEntityWidth   = 40
	heavySeparator   = "="
	lightSeparator   = "-"
	headerSource     = "SOURCE"
	headerEntity     = "ENTITY"
	headerMessage    = "MESSAGE"
	ellipsis         = "…"
	entitySeparator  = "::"
	sourceColumnText = "generator"
)

// TableRow represents a single row in the warning table.
type TableRow struct {
	Source  convert.WarningSource
	Entity  string
	Message string
}

// WarningToTableRow converts a warning into a table row. The member, when
// present, is appended to the entity.
func WarningToTableRow(warning convert.Warning) TableRow {
	entity := warning.Entity
	if warning.Member != "" {
		entity += entitySeparator + warning.Member
	}
	return TableRow{Source: warning.Source, Entity: entity, Message: warning.Message}
}

// TableFormatter formats warnings as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = DefaultWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

type columnWidths struct {
	source  int
	entity  int
	message int
}

// FormatTable formats the warnings of a run as a table. It returns an
// empty string when the run raised no warning.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	warnings := result.Warnings()
	if len(warnings) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(warnings))
	for _, warning := range warnings {
		rows = append(rows, WarningToTableRow(warning))
	}

	widths := t.calculateColumnWidths(rows)
	total := widths.source + widths.entity + widths.message + 2*tablePadding

	var builder strings.Builder

	builder.WriteString(t.formatCells(widths, headerSource, headerEntity, headerMessage, t.styles.TableHeader))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(lightSeparator, total)))
	builder.WriteString("\n")

	return builder.String()
}

func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		source: len(sourceColumnText),
		entity: max(len(headerEntity), minEntityWidth),
	}

	for _, row := range rows {
		widths.entity = max(widths.entity, lipgloss.Width(row.Entity))
	}
	widths.entity = min(widths.entity, maxEntityWidth)

	widths.message = max(t.termWidth-widths.source-widths.entity-2*tablePadding, minMessageWidth)

	return widths
}

func (t *TableFormatter) formatCells(widths columnWidths, source, entity, message string, style lipgloss.Style) string {
	return style.Render(padRight(source, widths.source)) +
		strings.Repeat(" ", tablePadding) +
		style.Render(padRight(entity, widths.entity)) +
		strings.Repeat(" ", tablePadding) +
		style.Render(message)
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	// Pad first, then style, so ANSI sequences do not count as width.
	source := t.styles.SourceStyle(row.Source).Render(padRight(string(row.Source), widths.source))
	entity := t.styles.Entity.Render(padRight(truncateString(row.Entity, widths.entity), widths.entity))
	message := t.styles.Message.Render(truncateString(row.Message, widths.message))

	return source + strings.Repeat(" ", tablePadding) + entity + strings.Repeat(" ", tablePadding) + message
}

// padRight pads s with spaces to width display columns.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// truncateString shortens str to maxLen runes, ending with an ellipsis.
func truncateString(str string, maxLen int) string {
	runes := []rune(str)
	if len(runes) <= maxLen {
		return str
	}
	if maxLen <= 1 {
		return ellipsis
	}
	return string(runes[:maxLen-1]) + ellipsis
}
