package doxygen

import (
	"encoding/xml"
	"iter"
	"strings"
)

// FragmentKind classifies an inline node of a description.
type FragmentKind int

// Fragment kinds.
const (
	// FragmentText is plain paragraph text.
	FragmentText FragmentKind = iota

	// FragmentRef is a cross-reference to another entity.
	FragmentRef

	// FragmentVerbatim is a verbatim or code span.
	FragmentVerbatim

	// FragmentOther is any other markup. Its content, including nested
	// markup, is flattened into Text.
	FragmentOther
)

// String returns the lower-case name of the kind.
func (k FragmentKind) String() string {
	switch k {
	case FragmentText:
		return "text"
	case FragmentRef:
		return "ref"
	case FragmentVerbatim:
		return "verbatim"
	default:
		return "other"
	}
}

// Fragment is one inline node of a description paragraph.
type Fragment struct {
	Kind FragmentKind

	// Tag is the XML element name of inline nodes ("ref", "bold", ...).
	Tag string

	// RefID is the target of a FragmentRef.
	RefID string

	// Text is the node content with nested markup removed.
	Text string

	// Tail is the free text between this node and the next one.
	Tail string
}

// Paragraph is a top-level child of a description, usually a <para>.
type Paragraph struct {
	// Text is the character data before the first inline node.
	Text string

	Inlines []Fragment
}

// Description is a briefdescription, detaileddescription or
// inbodydescription element.
//
// Only two levels are modelled: paragraphs and their inline children.
// Anything nested deeper is kept as the flattened text of its inline
// ancestor, so unknown markup degrades to prose instead of failing.
type Description struct {
	Paragraphs []Paragraph
}

// UnmarshalXML implements xml.Unmarshaler.
func (d *Description) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			para, err := readParagraph(dec)
			if err != nil {
				return err
			}
			d.Paragraphs = append(d.Paragraphs, para)
		case xml.EndElement:
			return nil
		}
	}
}

// Fragments yields the paragraph texts and inline nodes in document order.
// It is safe to call on a nil Description.
func (d *Description) Fragments() iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		if d == nil {
			return
		}
		for _, para := range d.Paragraphs {
			if para.Text != "" && !yield(Fragment{Kind: FragmentText, Text: para.Text}) {
				return
			}
			for _, inline := range para.Inlines {
				if !yield(inline) {
					return
				}
			}
		}
	}
}

func readParagraph(dec *xml.Decoder) (Paragraph, error) {
	var para Paragraph
	appendText := func(text string) {
		if n := len(para.Inlines); n > 0 {
			para.Inlines[n-1].Tail += text
			return
		}
		para.Text += text
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return para, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			appendText(string(t))
		case xml.StartElement:
			var sb strings.Builder
			if err := collectText(dec, &sb); err != nil {
				return para, err
			}
			if t.Name.Local == "sp" {
				appendText(" ")
				continue
			}
			para.Inlines = append(para.Inlines, Fragment{
				Kind:  fragmentKind(t.Name.Local),
				Tag:   t.Name.Local,
				RefID: attr(t, "refid"),
				Text:  sb.String(),
			})
		case xml.EndElement:
			return para, nil
		}
	}
}

func fragmentKind(tag string) FragmentKind {
	switch tag {
	case "ref":
		return FragmentRef
	case "verbatim", "computeroutput":
		return FragmentVerbatim
	default:
		return FragmentOther
	}
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
