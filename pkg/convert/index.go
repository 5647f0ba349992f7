package convert

import (
	"slices"
	"strconv"

	"github.com/yaklabco/doxyrst/pkg/rst"
)

// RootIndex is the name of the page that includes every listing page.
const RootIndex = "index.rst"

// IndexOptions control the listing pages.
type IndexOptions struct {
	// Glob lists each subdirectory with a "./<subdir>/*" pattern. When
	// false the documents are listed one by one.
	Glob bool

	// MaxDepth is the toctree depth of every listing.
	MaxDepth int
}

// Listing is one category listing page.
type Listing struct {
	Title  string
	Subdir string
	File   string
}

// Listings returns the category listing pages in display order.
func (c *Converter) Listings() []Listing {
	return []Listing{
		{Title: "Classes", Subdir: c.opts.Subdirs.Classes, File: "doxy_classes.rst"},
		{Title: "Templates", Subdir: c.opts.Subdirs.Templates, File: "doxy_templates.rst"},
		{Title: "Namespaces", Subdir: c.opts.Subdirs.Namespaces, File: "doxy_namespaces.rst"},
		{Title: "Enums", Subdir: c.opts.Subdirs.Enums, File: "doxy_enums.rst"},
	}
}

// IndexPages builds the listing pages and the root index. docs maps a
// subdirectory to the document names found in it, without extension; it
// is only consulted when opts.Glob is false.
func (c *Converter) IndexPages(opts IndexOptions, docs map[string][]string) ([]Page, error) {
	toctree := []rst.Option{{Key: "maxdepth", Value: strconv.Itoa(opts.MaxDepth)}}
	if opts.Glob {
		toctree = append(toctree, rst.Option{Key: "glob"})
	}

	listings := c.Listings()
	pages := make([]Page, 0, len(listings)+1)
	root := rst.New()
	root.StartSection("Doxygen Documentation", rst.MarkerSection)
	root.StartBlock(rst.DirectiveToctree, "", toctree...)

	for _, listing := range listings {
		b := rst.New()
		b.StartSection(listing.Title, rst.MarkerSection)
		b.StartBlock(rst.DirectiveToctree, "", toctree...)
		if opts.Glob {
			b.Line("./" + listing.Subdir + "/*")
		} else {
			names := slices.Clone(docs[listing.Subdir])
			slices.Sort(names)
			for _, name := range slices.Compact(names) {
				b.Line("./" + listing.Subdir + "/" + name)
			}
		}
		if err := b.EndBlock(rst.DirectiveToctree); err != nil {
			return nil, err
		}
		pages = append(pages, Page{Path: listing.File, Doc: b, Overwrite: true})

		root.Line("./" + listing.File)
	}

	if err := root.EndBlock(rst.DirectiveToctree); err != nil {
		return nil, err
	}
	pages = append(pages, Page{Path: RootIndex, Doc: root, Overwrite: true})
	return pages, nil
}
