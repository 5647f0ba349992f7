package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/doxyrst/pkg/convert"
)

// SourceStyle returns the style of a warning source.
func (s *Styles) SourceStyle(source convert.WarningSource) lipgloss.Style {
	switch source {
	case convert.SourceDoxygen:
		return s.Doxygen
	case convert.SourceCode:
		return s.Code
	default:
		return s.Generator
	}
}

// FormatSource renders a warning source as a bracketed tag.
func (s *Styles) FormatSource(source convert.WarningSource) string {
	return s.SourceStyle(source).Render("[" + string(source) + "]")
}

// FormatWarning renders one warning as an indented line.
// Example: "  [doxygen] get_nb_elem: missing definition".
func (s *Styles) FormatWarning(warning convert.Warning) string {
	var builder strings.Builder

	builder.WriteString("  ")
	builder.WriteString(s.FormatSource(warning.Source))
	builder.WriteString(" ")
	if warning.Member != "" {
		builder.WriteString(s.Member.Render(warning.Member))
		builder.WriteString(": ")
	}
	builder.WriteString(s.Message.Render(warning.Message))
	builder.WriteString("\n")

	return builder.String()
}

// FormatEntityHeader renders the header printed above an entity's warnings.
func (s *Styles) FormatEntityHeader(name, refid string, warningCount int) string {
	word := "warnings"
	if warningCount == 1 {
		word = "warning"
	}
	return s.Entity.Render(name) + " " +
		s.Path.Render("("+refid+")") + " " +
		s.Dim.Render(fmt.Sprintf("%d %s", warningCount, word))
}
