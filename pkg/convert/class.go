package convert

import (
	"slices"
	"strings"

	"github.com/yaklabco/doxyrst/pkg/doxygen"
	"github.com/yaklabco/doxyrst/pkg/langdetect"
	"github.com/yaklabco/doxyrst/pkg/rst"
)

// Class page section titles.
const (
	titleCite         = "How to cite this class in this doc"
	titleDetailed     = "Detailed description"
	titleBases        = "Inherits from"
	titleDerived      = "Inherited by"
	titleAllFunctions = "Complete Member Function Documentation"
	titleAllAttribs   = "Attributes Documentation"
	titleFriends      = "Friends"
	titleEnums        = "Enums"
)

// ClassAnchor returns the slug anchor of a class page.
func ClassAnchor(name string, template bool) string {
	if template {
		return rst.Slugify("Class Template " + name)
	}
	return rst.Slugify("Class " + name)
}

// classWriter holds the builders of one class page. Member cards, friends
// and enums are assembled separately and merged once their section is
// reached.
type classWriter struct {
	c        *Converter
	compound *doxygen.Compound
	res      *Result

	page       *rst.Builder
	functions  *rst.Builder
	attributes *rst.Builder
	friends    *rst.Builder
	enums      *rst.Builder

	nFunctions  int
	nAttributes int
	nFriends    int
	nEnums      int

	tparams         []string
	anchors         map[string]bool
	specializations map[string]bool
}

func (c *Converter) convertClass(compound *doxygen.Compound, res *Result) error {
	w := &classWriter{
		c:               c,
		compound:        compound,
		res:             res,
		page:            rst.New(),
		functions:       rst.New(),
		attributes:      rst.New(),
		friends:         rst.New(),
		enums:           rst.New(),
		anchors:         make(map[string]bool),
		specializations: make(map[string]bool),
	}
	if err := w.write(); err != nil {
		return err
	}

	subdir := c.opts.Subdirs.Classes
	if compound.IsTemplate() {
		subdir = c.opts.Subdirs.Templates
	}
	res.addPage(subdir, compound.Name, w.page)
	return nil
}

func (w *classWriter) warn(source WarningSource, member, format string, args ...any) {
	w.res.warn(source, w.compound.Name, member, format, args...)
}

func (w *classWriter) write() error {
	compound := w.compound
	title := rst.EscapeProse(compound.Name)

	names, malformed := compound.TemplateParams.Names()
	w.tparams = names
	for _, param := range malformed {
		w.warn(SourceDoxygen, "", "malformed template parameter %q", param)
	}

	slug := ClassAnchor(compound.Name, compound.IsTemplate())
	if compound.ID != "" {
		w.page.AddTarget(compound.ID)
	} else {
		w.warn(SourceDoxygen, "", "compound has no id")
	}
	w.page.AddTarget(slug)
	w.anchors[slug] = true
	w.page.StartSection(title, rst.MarkerTitle)

	if err := w.writeInclude(); err != nil {
		return err
	}
	RenderFragments(w.page, compound.Brief)

	w.page.StartSection(titleCite, rst.MarkerSection)
	if err := rst.WriteCitation(w.page, title, slug); err != nil {
		return err
	}

	w.page.StartSection(titleDetailed, rst.MarkerSection)
	RenderFragments(w.page, compound.Detailed)

	w.writeRelations(titleBases, compound.Bases, true)
	w.writeRelations(titleDerived, compound.Derived, false)

	for _, cat := range []category{categoryFunction, categoryAttribute, categoryType} {
		if err := w.writeGroups(cat); err != nil {
			return err
		}
	}
	if err := w.collectFriends(); err != nil {
		return err
	}

	for _, part := range []struct {
		title string
		count int
		doc   *rst.Builder
	}{
		{titleAllFunctions, w.nFunctions, w.functions},
		{titleAllAttribs, w.nAttributes, w.attributes},
		{titleFriends, w.nFriends, w.friends},
		{titleEnums, w.nEnums, w.enums},
	} {
		if part.count == 0 {
			continue
		}
		w.page.StartSection(part.title, rst.MarkerSection)
		if err := w.page.Merge(part.doc); err != nil {
			return err
		}
		w.page.Newline()
	}
	return nil
}

func (w *classWriter) writeInclude() error {
	if len(w.compound.Includes) == 0 {
		return nil
	}
	include := w.compound.Includes[0]
	directive := "#include <" + include.Name + ">"
	if include.Local {
		directive = `#include "` + include.Name + `"`
	}

	w.page.StartBlock(rst.DirectiveCodeBlock, langdetect.ForFile(include.Name, w.c.opts.CodeLanguage))
	w.page.Append(directive)
	return w.page.EndBlock(rst.DirectiveCodeBlock)
}

// writeRelations lists bases or derived classes. Each entry links to the
// related compound by its Doxygen id, except for bases without a stable
// target: standard library types, template parameters and configured
// opaque bases are shown as code.
func (w *classWriter) writeRelations(title string, refs []doxygen.CompoundRef, bases bool) {
	if len(refs) == 0 {
		return
	}
	w.page.StartSection(title, rst.MarkerSection)
	for _, ref := range refs {
		name, targs := ref.Split()

		linked := ref.RefID != ""
		if bases && w.opaqueBase(name) {
			linked = false
		} else if !linked {
			w.warn(SourceDoxygen, "", "%s %s has no refid, shown without link", strings.ToLower(title), ref.Name)
		}

		line := "- " + ref.Prot + " : "
		if linked {
			line += rst.Ref(rst.EscapeProse(name), ref.RefID)
		} else {
			line += codeLiteral(name)
		}
		if targs != "" {
			line += " " + codeLiteral(targs)
		}
		w.page.Append(line)
		w.page.Newline()
		w.page.Newline()
	}
}

func (w *classWriter) opaqueBase(name string) bool {
	return strings.Contains(name, "std::") ||
		slices.Contains(w.tparams, name) ||
		slices.Contains(w.c.opts.OpaqueBases, name)
}

// writeGroups emits every member listing of one category in document order.
func (w *classWriter) writeGroups(want category) error {
	for i := range w.compound.Sections {
		section := &w.compound.Sections[i]
		cat, title, ok := memberGroup(section.Kind)
		if !ok || cat != want {
			continue
		}

		var err error
		switch cat {
		case categoryFunction:
			err = w.writeFunctions(section, title)
		case categoryAttribute:
			err = w.writeAttributes(section, title)
		case categoryType:
			err = w.writeTypes(section, title)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// collectFriends gives every friend declaration its own anchored list.
func (w *classWriter) collectFriends() error {
	for i := range w.compound.Sections {
		section := &w.compound.Sections[i]
		if section.Kind != "friend" {
			continue
		}
		for j := range section.Members {
			member := &section.Members[j]
			if member.Definition == nil {
				w.warn(SourceDoxygen, member.Name, "friend has no definition, skipped")
				continue
			}
			w.friends.StartList("-")
			if member.ID != "" {
				w.friends.AddTarget(member.ID)
			}
			if err := w.friends.AddListItem(rst.EscapeProse(*member.Definition)); err != nil {
				return err
			}
			if err := w.friends.EndList("-"); err != nil {
				return err
			}
			w.nFriends++
		}
	}
	return nil
}
