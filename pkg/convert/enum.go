package convert

import (
	"strings"

	"github.com/yaklabco/doxyrst/pkg/doxygen"
	"github.com/yaklabco/doxyrst/pkg/rst"
)

// EnumAnchor returns the slug anchor of an enum. Anonymous markers are
// expected to be stripped from qname already.
func EnumAnchor(typ, qname string) string {
	return rst.Slugify("enum-" + typ + "-" + qname)
}

// writeEnum emits the enum sub-document: both anchors, a topic title, the
// location, citation snippets and one anchored item per value.
func (c *Converter) writeEnum(b *rst.Builder, enum *doxygen.Member, entity string, res *Result) error {
	qname := enum.Qualified()
	if strings.Contains(qname, "@") {
		qname = strings.ReplaceAll(qname, "@", "")
		res.warn(SourceCode, entity, enum.Name,
			"anonymous enum %s: consider naming it, anchors for anonymous entities are not stable", qname)
	}
	title := rst.EscapeProse(qname)
	slug := EnumAnchor(enum.TypeText(), qname)

	if enum.ID != "" {
		b.AddTarget(enum.ID)
	} else {
		res.warn(SourceDoxygen, entity, enum.Name, "enum has no id")
	}
	b.AddTarget(slug)
	b.StartSection(title, rst.MarkerTopic)

	if loc, ok := c.formatLocation(enum.Location); ok {
		b.Line("**Location:** " + rst.Literal(loc))
	} else {
		res.warn(SourceDoxygen, entity, enum.Name, "enum has no location")
	}

	b.Newline()
	b.Line("**How to cite in this doc:**")
	if err := rst.WriteCitation(b, title, slug); err != nil {
		return err
	}

	b.StartList("-")
	for _, value := range enum.EnumValues {
		b.Newline()
		if value.ID != "" {
			b.AddTarget(value.ID)
		} else {
			res.warn(SourceDoxygen, entity, enum.Name, "enum value %s has no id", value.Name)
		}
		if err := b.AddListItem(rst.EscapeProse(value.Name)); err != nil {
			return err
		}
	}
	if err := b.EndList("-"); err != nil {
		return err
	}
	b.Newline()
	return nil
}
