package convert

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yaklabco/doxyrst/pkg/doxygen"
	"github.com/yaklabco/doxyrst/pkg/rst"
)

// category is the member category encoded in a sectiondef kind.
type category string

const (
	categoryFunction  category = "func"
	categoryAttribute category = "attrib"
	categoryType      category = "type"
)

//nolint:gochecknoglobals // Read-only lookup table.
var categoryNouns = map[category]string{
	categoryFunction:  "Methods",
	categoryAttribute: "Attributes",
	categoryType:      "Types",
}

// memberGroup splits a sectiondef kind such as "protected-static-func" into
// its category and the listing title "List of Protected Static Methods".
// Kinds other than <protection>[-static]-<func|attrib|type> are not groups.
func memberGroup(kind string) (category, string, bool) {
	parts := strings.Split(kind, "-")
	if len(parts) < 2 || len(parts) > 3 {
		return "", "", false
	}
	switch parts[0] {
	case "public", "protected", "private":
	default:
		return "", "", false
	}
	if len(parts) == 3 && parts[1] != "static" {
		return "", "", false
	}

	cat := category(parts[len(parts)-1])
	noun, ok := categoryNouns[cat]
	if !ok {
		return "", "", false
	}

	// Casers carry state, so each call gets its own.
	qualifiers := cases.Title(language.English).String(strings.Join(parts[:len(parts)-1], " "))
	return cat, "List of " + qualifiers + " " + noun, true
}

// codeLiteral formats text as C++ and wraps it in inline-literal markup.
func codeLiteral(text string) string {
	return rst.Literal(strings.TrimSpace(rst.FormatCode(text)))
}

//nolint:gochecknoglobals // Read-only lookup table.
var templateTightener = strings.NewReplacer("< ", "<", " >", ">")

// writeFunctions emits one function listing and the matching detail cards.
func (w *classWriter) writeFunctions(section *doxygen.Section, title string) error {
	w.page.StartSection(title, rst.MarkerSection)
	w.page.StartList("-")
	for i := range section.Members {
		member := &section.Members[i]
		if !w.requireFields(member, true) {
			continue
		}
		if err := w.page.AddListItem(rst.Ref(rst.EscapeProse(member.Name), member.ID)); err != nil {
			return err
		}
		if err := w.writeFunctionCard(member); err != nil {
			return err
		}
	}
	return w.page.EndList("-")
}

// requireFields reports whether member has what a card needs, warning
// about the first missing field.
func (w *classWriter) requireFields(member *doxygen.Member, needArgs bool) bool {
	switch {
	case member.ID == "":
		w.warn(SourceDoxygen, member.Name, "member has no id, skipped")
	case member.Definition == nil:
		w.warn(SourceDoxygen, member.Name, "member has no definition, skipped")
	case needArgs && member.ArgsString == nil:
		w.warn(SourceDoxygen, member.Name, "member has no argsstring, skipped")
	default:
		return true
	}
	return false
}

// claimAnchor records slug as used on this page. A repeated slug would make
// references ambiguous, so it is reported and not emitted again.
func (w *classWriter) claimAnchor(slug, member string) bool {
	if w.anchors[slug] {
		w.warn(SourceGenerator, member, "anchor %s already used on this page, only the Doxygen id is emitted", slug)
		return false
	}
	w.anchors[slug] = true
	return true
}

func (w *classWriter) writeFunctionCard(member *doxygen.Member) error {
	b := w.functions
	definition := templateTightener.Replace(*member.Definition)
	args := *member.ArgsString
	full := definition + args
	specialization := member.IsTemplateSpecialization()

	slug := rst.MemberAnchor(rst.MemberKey{
		Protection: member.Prot,
		Static:     bool(member.Static),
		Name:       member.Name,
		Definition: definition,
		Args:       args,
	})

	// Specialisations share one Doxygen id and have no slug of their own.
	citeTarget := member.ID
	if !specialization && w.claimAnchor(slug, member.Name) {
		b.AddTarget(slug)
		citeTarget = slug
	}
	if !specialization || !w.specializations[member.ID] {
		b.AddTarget(member.ID)
		w.specializations[member.ID] = true
	}

	b.StartBlock(rst.DirectiveCard, rst.EscapeProse(member.Name))
	b.StartBlock(rst.DirectiveCodeBlock, w.c.opts.CodeLanguage)
	b.Append(full)
	if err := b.EndBlock(rst.DirectiveCodeBlock); err != nil {
		return err
	}
	b.Newline()
	RenderFragments(b, member.Brief)
	b.Newline()
	b.Newline()
	RenderFragments(b, member.Detailed)
	b.Newline()
	b.Newline()

	if len(member.Reimplements) > 0 {
		b.Append("**Reimplements**:")
		if err := writeRefList(b, member.Reimplements); err != nil {
			return err
		}
	}
	for _, group := range []struct {
		title string
		refs  []doxygen.MemberRef
	}{
		{"References", member.References},
		{"Referenced By", member.ReferencedBy},
	} {
		if len(group.refs) == 0 {
			continue
		}
		b.StartBlock(rst.DirectiveDropdown, group.title)
		if err := writeRefList(b, group.refs); err != nil {
			return err
		}
		if err := b.EndBlock(rst.DirectiveDropdown); err != nil {
			return err
		}
	}

	b.StartBlock(rst.DirectiveDropdown, "How to cite in this doc:")
	if err := rst.WriteCitation(b, rst.EscapeProse(full), citeTarget); err != nil {
		return err
	}
	if err := b.EndBlock(rst.DirectiveDropdown); err != nil {
		return err
	}

	w.nFunctions++
	return b.EndBlock(rst.DirectiveCard)
}

func writeRefList(b *rst.Builder, refs []doxygen.MemberRef) error {
	b.StartList("-")
	for _, ref := range refs {
		item := rst.EscapeProse(ref.Name)
		if ref.RefID != "" {
			item = rst.Ref(item, ref.RefID)
		}
		if err := b.AddListItem(item); err != nil {
			return err
		}
	}
	return b.EndList("-")
}

// writeAttributes emits one attribute listing and the matching cards.
func (w *classWriter) writeAttributes(section *doxygen.Section, title string) error {
	w.page.StartSection(title, rst.MarkerSection)
	w.page.StartList("-")
	for i := range section.Members {
		member := &section.Members[i]
		if !w.requireFields(member, false) {
			continue
		}
		if err := w.page.AddListItem(rst.Ref(rst.EscapeProse(member.Name), member.ID)); err != nil {
			return err
		}
		if err := w.writeAttributeCard(member); err != nil {
			return err
		}
	}
	return w.page.EndList("-")
}

func (w *classWriter) writeAttributeCard(member *doxygen.Member) error {
	b := w.attributes
	definition := *member.Definition
	args := ""
	if member.ArgsString != nil {
		args = *member.ArgsString
	}

	b.AddTarget(member.ID)
	slug := rst.MemberAnchor(rst.MemberKey{
		Protection: member.Prot,
		Static:     bool(member.Static),
		Name:       member.Name,
		Definition: definition,
		Args:       args,
	})
	if w.claimAnchor(slug, member.Name) {
		b.AddTarget(slug)
	}

	b.StartBlock(rst.DirectiveCard, rst.EscapeProse(member.Name)+" ("+member.Prot+")")
	b.StartBlock(rst.DirectiveCodeBlock, w.c.opts.CodeLanguage)
	b.Append(rst.FormatCode(definition + args))
	if member.Initializer != nil {
		for i, line := range strings.Split(member.Initializer.String(), "\n") {
			if i > 0 {
				b.Newline()
			}
			b.Append(rst.FormatCode(line))
		}
	}
	if err := b.EndBlock(rst.DirectiveCodeBlock); err != nil {
		return err
	}
	b.Newline()
	RenderFragments(b, member.Brief)
	b.Newline()
	b.Newline()
	RenderFragments(b, member.Detailed)

	w.nAttributes++
	return b.EndBlock(rst.DirectiveCard)
}

// writeTypes lists member types. Enums link to their sub-document, which is
// collected for the Enums section; other types are shown as code.
func (w *classWriter) writeTypes(section *doxygen.Section, title string) error {
	w.page.StartSection(title, rst.MarkerSection)
	w.page.StartList("-")
	for i := range section.Members {
		member := &section.Members[i]
		item := ""
		switch {
		case member.Kind == doxygen.KindEnum:
			if err := w.c.writeEnum(w.enums, member, w.compound.Name, w.res); err != nil {
				return err
			}
			w.nEnums++
			item = rst.EscapeProse(strings.ReplaceAll(member.Name, "@", ""))
			if member.ID != "" {
				item = rst.Ref(item, member.ID)
			}
		case member.Definition != nil:
			item = codeLiteral(*member.Definition)
		default:
			item = codeLiteral(member.Name)
		}
		if err := w.page.AddListItem(item); err != nil {
			return err
		}
	}
	return w.page.EndList("-")
}
