package rst

import (
	"strings"
)

// proseEscaper backslash-escapes characters that reStructuredText would
// otherwise read as inline markup.
//
//nolint:gochecknoglobals // Read-only lookup table.
var proseEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
)

// EscapeProse formats code-like text with FormatCode and escapes markup
// characters so it can be used outside literals, e.g. in titles and links.
// Surrounding spaces are trimmed.
func EscapeProse(text string) string {
	return proseEscaper.Replace(strings.TrimSpace(FormatCode(text)))
}

// FormatCode applies light C++ formatting: it strips the '@' markers of
// anonymous entities, tightens template brackets, spaces out runs of '=',
// '+' and '-' (leaving "->" and exponents such as 1e-5 alone) and collapses
// repeated spaces.
func FormatCode(code string) string {
	code = strings.ReplaceAll(code, "@", "")
	code = strings.ReplaceAll(code, "< ", "<")
	code = strings.ReplaceAll(code, " >", ">")

	runes := []rune(code)
	var out strings.Builder
	out.Grow(len(code) + len(code)/4)
	for i := 0; i < len(runes); {
		if !isSpacedOperator(runes[i]) {
			out.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && isSpacedOperator(runes[j]) {
			j++
		}
		run := string(runes[i:j])
		switch {
		case run == "-" && j < len(runes) && runes[j] == '>':
			out.WriteString(run)
		case isExponent(runes, i, run):
			out.WriteString(run)
		default:
			out.WriteString(" " + run + " ")
		}
		i = j
	}
	return collapseSpaces(out.String())
}

// CollapseWhitespace turns newlines and tabs into spaces and collapses runs
// of spaces, producing single-line prose.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Literal wraps text in inline-literal markup.
func Literal(text string) string {
	return "``" + text + "``"
}

// Ref returns an inline cross-reference to target labelled display.
// The label is used as given; escape it with EscapeProse when needed.
func Ref(display, target string) string {
	return ":ref:`" + display + " <" + target + ">`"
}

// MarkdownRef returns the MyST/Markdown form of Ref.
func MarkdownRef(display, target string) string {
	return "[" + display + "](#" + target + ")"
}

// WriteCitation emits a tab set showing how other pages can cite target,
// in both reStructuredText and Markdown.
func WriteCitation(b *Builder, display, target string) error {
	tabs := []struct {
		title, language, snippet string
	}{
		{"RST", "rst", Ref(display, target)},
		{"Markdown", "md", MarkdownRef(display, target)},
	}

	b.StartBlock(DirectiveTabSet, "")
	for _, tab := range tabs {
		b.StartBlock(DirectiveTabItem, tab.title)
		b.StartBlock(DirectiveCodeBlock, tab.language)
		b.Append(tab.snippet)
		if err := b.EndBlock(DirectiveCodeBlock); err != nil {
			return err
		}
		if err := b.EndBlock(DirectiveTabItem); err != nil {
			return err
		}
	}
	return b.EndBlock(DirectiveTabSet)
}

func isSpacedOperator(r rune) bool {
	return r == '=' || r == '+' || r == '-'
}

// isExponent reports whether the sign run at i belongs to a floating point
// literal such as 1.5e-3.
func isExponent(runes []rune, i int, run string) bool {
	if run != "-" && run != "+" {
		return false
	}
	if i < 2 || i+1 >= len(runes) {
		return false
	}
	if runes[i-1] != 'e' && runes[i-1] != 'E' {
		return false
	}
	prev, next := runes[i-2], runes[i+1]
	return (isDigit(prev) || prev == '.') && isDigit(next)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
