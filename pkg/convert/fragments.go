package convert

import (
	"strings"

	"github.com/yaklabco/doxyrst/pkg/doxygen"
	"github.com/yaklabco/doxyrst/pkg/rst"
)

// RenderFragments appends desc to b as one line of escaped prose and
// terminates the line. Cross-references become :ref: links to the Doxygen
// ID; verbatim spans and any other markup are kept as plain text. A nil
// description writes nothing.
func RenderFragments(b *rst.Builder, desc *doxygen.Description) {
	if desc == nil {
		return
	}

	var line strings.Builder
	add := func(piece string) {
		if piece == "" {
			return
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(piece)
	}

	for frag := range desc.Fragments() {
		text := rst.CollapseWhitespace(frag.Text)
		switch frag.Kind {
		case doxygen.FragmentRef:
			if text != "" && frag.RefID != "" {
				add(rst.Ref(rst.EscapeProse(text), frag.RefID))
			} else {
				add(rst.EscapeProse(text))
			}
		default:
			add(rst.EscapeProse(text))
		}
		add(rst.EscapeProse(rst.CollapseWhitespace(frag.Tail)))
	}

	b.Append(line.String())
	b.Newline()
}
