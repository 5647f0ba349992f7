// Package doxygen reads the XML tree that Doxygen writes with
// GENERATE_XML=YES: the index.xml listing and one compound file per
// documented entity.
//
// The types mirror the parts of the Doxygen schema that documentation pages
// need. Optional scalar children are pointers so that a missing element can
// be told apart from an empty one.
package doxygen

import (
	"encoding/xml"
	"strings"
)

// Kind is the kind attribute of indexed compounds and members.
type Kind string

// Compound kinds handled by the converters.
const (
	KindClass     Kind = "class"
	KindStruct    Kind = "struct"
	KindNamespace Kind = "namespace"
	KindFile      Kind = "file"
)

// Member kinds.
const (
	KindFunction Kind = "function"
	KindVariable Kind = "variable"
	KindEnum     Kind = "enum"
	KindTypedef  Kind = "typedef"
	KindFriend   Kind = "friend"
)

// Index is the content of index.xml.
type Index struct {
	XMLName   xml.Name     `xml:"doxygenindex"`
	Version   string       `xml:"version,attr"`
	Compounds []IndexEntry `xml:"compound"`
}

// IndexEntry is one compound listed in the index.
type IndexEntry struct {
	RefID string `xml:"refid,attr"`
	Kind  Kind   `xml:"kind,attr"`
	Name  string `xml:"name"`
}

// Compound is a compounddef: a class, struct, namespace or file.
type Compound struct {
	ID       string `xml:"id,attr"`
	Kind     Kind   `xml:"kind,attr"`
	Language string `xml:"language,attr"`
	Prot     string `xml:"prot,attr"`

	Name            string             `xml:"compoundname"`
	Includes        []Include          `xml:"includes"`
	TemplateParams  *TemplateParamList `xml:"templateparamlist"`
	Bases           []CompoundRef      `xml:"basecompoundref"`
	Derived         []CompoundRef      `xml:"derivedcompoundref"`
	InnerClasses    []CompoundRef      `xml:"innerclass"`
	InnerNamespaces []CompoundRef      `xml:"innernamespace"`
	Sections        []Section          `xml:"sectiondef"`
	Brief           *Description       `xml:"briefdescription"`
	Detailed        *Description       `xml:"detaileddescription"`
	Locations       []Location         `xml:"location"`
}

// IsTemplate reports whether the compound declares template parameters.
func (c *Compound) IsTemplate() bool {
	return c.TemplateParams != nil
}

// Location returns the first declared location, if any.
func (c *Compound) Location() *Location {
	if len(c.Locations) == 0 {
		return nil
	}
	return &c.Locations[0]
}

// Include is an include directive needed to use a compound.
type Include struct {
	RefID string `xml:"refid,attr"`
	Local Flag   `xml:"local,attr"`
	Name  string `xml:",chardata"`
}

// CompoundRef links to another compound: a base, a derived class or an
// inner class or namespace.
type CompoundRef struct {
	RefID   string `xml:"refid,attr"`
	Prot    string `xml:"prot,attr"`
	Virtual string `xml:"virt,attr"`
	Name    string `xml:",chardata"`
}

// Split separates template arguments from the referenced name:
// "TRUSTArray<int>" gives ("TRUSTArray", "<int>").
func (r CompoundRef) Split() (name, targs string) {
	if i := strings.IndexByte(r.Name, '<'); i >= 0 {
		return r.Name[:i], r.Name[i:]
	}
	return r.Name, ""
}

// Section is a sectiondef grouping members of one category,
// e.g. "public-func" or "private-static-attrib".
type Section struct {
	Kind    string   `xml:"kind,attr"`
	Header  *string  `xml:"header"`
	Members []Member `xml:"memberdef"`
}

// Member is a memberdef.
type Member struct {
	ID        string `xml:"id,attr"`
	Kind      Kind   `xml:"kind,attr"`
	Prot      string `xml:"prot,attr"`
	Static    Flag   `xml:"static,attr"`
	Const     Flag   `xml:"const,attr"`
	Constexpr Flag   `xml:"constexpr,attr"`
	Inline    Flag   `xml:"inline,attr"`
	Mutable   Flag   `xml:"mutable,attr"`
	Virtual   string `xml:"virt,attr"`

	TemplateParams *TemplateParamList `xml:"templateparamlist"`
	Type           *Flat              `xml:"type"`
	Definition     *string            `xml:"definition"`
	ArgsString     *string            `xml:"argsstring"`
	Name           string             `xml:"name"`
	QualifiedName  *string            `xml:"qualifiedname"`
	Initializer    *Flat              `xml:"initializer"`
	Reimplements   []MemberRef        `xml:"reimplements"`
	References     []MemberRef        `xml:"references"`
	ReferencedBy   []MemberRef        `xml:"referencedby"`
	EnumValues     []EnumValue        `xml:"enumvalue"`
	Brief          *Description       `xml:"briefdescription"`
	Detailed       *Description       `xml:"detaileddescription"`
	InBody         *Description       `xml:"inbodydescription"`
	Location       *Location          `xml:"location"`
}

// IsTemplateSpecialization reports whether the member carries an empty
// template parameter list, which is how Doxygen marks explicit
// specialisations.
func (m *Member) IsTemplateSpecialization() bool {
	return m.TemplateParams != nil && len(m.TemplateParams.Params) == 0
}

// Qualified returns the qualified name, falling back to the plain name.
func (m *Member) Qualified() string {
	if m.QualifiedName != nil && *m.QualifiedName != "" {
		return *m.QualifiedName
	}
	return m.Name
}

// TypeText returns the flattened type, or "" when absent.
func (m *Member) TypeText() string {
	if m.Type == nil {
		return ""
	}
	return m.Type.String()
}

// MemberRef is a reimplements/references/referencedby link.
type MemberRef struct {
	RefID string `xml:"refid,attr"`
	Name  string `xml:",chardata"`
}

// EnumValue is one enumerator.
type EnumValue struct {
	ID          string       `xml:"id,attr"`
	Prot        string       `xml:"prot,attr"`
	Name        string       `xml:"name"`
	Initializer *Flat        `xml:"initializer"`
	Brief       *Description `xml:"briefdescription"`
	Detailed    *Description `xml:"detaileddescription"`
}

// TemplateParamList is a templateparamlist.
type TemplateParamList struct {
	Params []TemplateParam `xml:"param"`
}

// TemplateParam is one template parameter. Older Doxygen versions only
// emit a type such as "typename T"; newer ones add declname.
type TemplateParam struct {
	Type     *Flat   `xml:"type"`
	DeclName *string `xml:"declname"`
	DefName  *string `xml:"defname"`
	DefVal   *Flat   `xml:"defval"`
}

// Location is a source position.
type Location struct {
	File     string `xml:"file,attr"`
	Line     string `xml:"line,attr"`
	Column   string `xml:"column,attr"`
	BodyFile string `xml:"bodyfile,attr"`
}

// Flag is a "yes"/"no" attribute.
type Flag bool

// UnmarshalXMLAttr implements xml.UnmarshalerAttr.
func (f *Flag) UnmarshalXMLAttr(attr xml.Attr) error {
	*f = Flag(attr.Value == "yes")
	return nil
}

// Flat is element content with all markup removed: the character data of
// the element and its descendants, in document order. Doxygen wraps type
// names in <ref> inside <type> and <initializer>; Flat keeps their text.
type Flat struct {
	text string
}

// NewFlat returns a Flat holding text.
func NewFlat(text string) *Flat {
	return &Flat{text: text}
}

// String returns the text content.
func (f *Flat) String() string {
	if f == nil {
		return ""
	}
	return f.text
}

// UnmarshalXML implements xml.Unmarshaler.
func (f *Flat) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	if err := collectText(dec, &sb); err != nil {
		return err
	}
	f.text = sb.String()
	return nil
}

// collectText appends all character data up to the end of the current
// element. <sp/> counts as a space.
func collectText(dec *xml.Decoder, sb *strings.Builder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "sp" {
				sb.WriteByte(' ')
			}
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}
	return nil
}
