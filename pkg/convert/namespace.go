package convert

import (
	"strings"

	"github.com/yaklabco/doxyrst/pkg/doxygen"
	"github.com/yaklabco/doxyrst/pkg/rst"
)

// NamespaceAnchor returns the slug anchor and the display title of a
// namespace. Anonymous namespaces, which Doxygen names with '@', get a
// best-effort title; their anchors are not stable across Doxygen runs.
func NamespaceAnchor(name string) (slug, title string, anonymous bool) {
	if strings.Contains(name, "@") {
		title = "Anonymous Namespace " + strings.ReplaceAll(name, "@", "")
		return rst.Slugify(title), title, true
	}
	return rst.Slugify("Namespace-" + name), name, false
}

func (c *Converter) convertNamespace(compound *doxygen.Compound, res *Result) error {
	b := rst.New()
	slug, title, anonymous := NamespaceAnchor(compound.Name)
	if anonymous {
		res.warn(SourceCode, compound.Name, "", "anonymous namespace rendered as %q", title)
	}

	if compound.ID != "" {
		b.AddTarget(compound.ID)
	} else {
		res.warn(SourceDoxygen, compound.Name, "", "compound has no id")
	}
	b.AddTarget(slug)
	b.StartSection(rst.EscapeProse(title), rst.MarkerTitle)

	RenderFragments(b, compound.Brief)
	if compound.Detailed != nil {
		b.StartSection("Detailed Description", rst.MarkerSection)
		RenderFragments(b, compound.Detailed)
	}

	if len(compound.InnerClasses) > 0 {
		b.StartSection("Inner Classes", rst.MarkerSection)
		for _, inner := range compound.InnerClasses {
			b.Line("- " + inner.Prot + " : " + rst.Ref(rst.EscapeProse(inner.Name), inner.RefID))
		}
	}
	if len(compound.InnerNamespaces) > 0 {
		b.StartSection("Inner Namespaces", rst.MarkerSection)
		for _, inner := range compound.InnerNamespaces {
			b.Line("- " + rst.Ref(rst.EscapeProse(inner.Name), inner.RefID))
		}
	}

	enums := rst.New()
	nEnums := 0
	for i := range compound.Sections {
		section := &compound.Sections[i]
		if section.Kind != "enum" {
			continue
		}
		for j := range section.Members {
			if err := c.writeEnum(enums, &section.Members[j], compound.Name, res); err != nil {
				return err
			}
			nEnums++
		}
	}
	if nEnums > 0 {
		b.StartSection("Enums", rst.MarkerSection)
		if err := b.Merge(enums); err != nil {
			return err
		}
		b.Newline()
	}

	if len(compound.Locations) > 0 {
		b.StartSection("Namespace Locations", rst.MarkerSection)
		for i := range compound.Locations {
			if loc, ok := c.formatLocation(&compound.Locations[i]); ok {
				b.Line("- " + rst.Literal(loc))
			}
		}
	}

	res.addPage(c.opts.Subdirs.Namespaces, strings.ReplaceAll(title, " ", "_"), b)
	return nil
}
