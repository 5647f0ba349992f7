// Package convert maps Doxygen compounds to reStructuredText pages.
//
// Each supported compound kind has one procedure that walks the compound
// and drives an rst.Builder. Procedures never touch the file system: they
// return Pages that the caller writes, plus the InputWarnings raised on the
// way. Structural errors from the builder are returned as errors and abort
// the compound.
package convert

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/yaklabco/doxyrst/pkg/doxygen"
	"github.com/yaklabco/doxyrst/pkg/fsutil"
	"github.com/yaklabco/doxyrst/pkg/rst"
)

// ErrUnsupportedKind is returned by Convert for kinds without a procedure.
var ErrUnsupportedKind = errors.New("unsupported compound kind")

// Subdirs names the output subdirectory of each page category.
type Subdirs struct {
	Classes    string
	Templates  string
	Enums      string
	Namespaces string
}

// Options control page generation.
type Options struct {
	Subdirs Subdirs

	// OpaqueBases are base class names that never get a cross-reference.
	OpaqueBases []string

	// LocationRoots are path components at which source locations are cut,
	// e.g. "trust-code" turns "/home/u/trust-code/src/A.h" into
	// "trust-code/src/A.h".
	LocationRoots []string

	// CodeLanguage is the lexer for declaration code blocks, and the
	// fallback for include blocks whose extension is ambiguous.
	CodeLanguage string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Subdirs: Subdirs{
			Classes:    "classes",
			Templates:  "templates",
			Enums:      "enums",
			Namespaces: "namespaces",
		},
		OpaqueBases:   []string{"Problem"},
		LocationRoots: []string{"triocfd-code", "trust-code"},
		CodeLanguage:  "cpp",
	}
}

// Page is one generated document.
type Page struct {
	// Path is the slash-separated path relative to the output root.
	Path string

	// Doc holds the complete, closed document.
	Doc *rst.Builder

	// Overwrite replaces an existing file whose content differs. Entity
	// pages leave existing files alone; index pages are refreshed.
	Overwrite bool
}

// Target returns the file the page is written to below root, with the
// base name sanitised.
func (p Page) Target(root string) string {
	dir, base := path.Split(p.Path)
	return filepath.Join(root, filepath.FromSlash(dir), fsutil.SanitizeFilename(base))
}

// Write renders the page to Target(root).
func (p Page) Write(ctx context.Context, root string) (rst.WriteResult, error) {
	return p.Doc.WriteToPath(ctx, p.Target(root), p.Overwrite)
}

// Result is the outcome of converting one compound.
type Result struct {
	Pages    []Page
	Warnings []Warning
}

func (r *Result) warn(source WarningSource, entity, member, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Source:  source,
		Entity:  entity,
		Member:  member,
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *Result) addPage(subdir, name string, doc *rst.Builder) {
	r.Pages = append(r.Pages, Page{Path: path.Join(subdir, name+".rst"), Doc: doc})
}

// procedure converts one compound of a given kind.
type procedure func(c *Converter, compound *doxygen.Compound, res *Result) error

//nolint:gochecknoglobals // Read-only dispatch table.
var procedures = map[doxygen.Kind]procedure{
	doxygen.KindClass:     (*Converter).convertClass,
	doxygen.KindStruct:    (*Converter).convertClass,
	doxygen.KindNamespace: (*Converter).convertNamespace,
	doxygen.KindFile:      (*Converter).convertFile,
}

// Supports reports whether compounds of kind can be converted.
func Supports(kind doxygen.Kind) bool {
	_, ok := procedures[kind]
	return ok
}

// Converter turns compounds into pages. It holds no per-compound state and
// is safe for concurrent use.
type Converter struct {
	opts Options
}

// New returns a Converter. Empty subdirectory names and code language are
// replaced by their defaults.
func New(opts Options) *Converter {
	defaults := DefaultOptions()
	if opts.Subdirs.Classes == "" {
		opts.Subdirs.Classes = defaults.Subdirs.Classes
	}
	if opts.Subdirs.Templates == "" {
		opts.Subdirs.Templates = defaults.Subdirs.Templates
	}
	if opts.Subdirs.Enums == "" {
		opts.Subdirs.Enums = defaults.Subdirs.Enums
	}
	if opts.Subdirs.Namespaces == "" {
		opts.Subdirs.Namespaces = defaults.Subdirs.Namespaces
	}
	if opts.CodeLanguage == "" {
		opts.CodeLanguage = defaults.CodeLanguage
	}
	return &Converter{opts: opts}
}

// Options returns the effective options.
func (c *Converter) Options() Options {
	return c.opts
}

// Convert builds the pages of compound.
//
// The returned Result is non-nil even on error and carries the warnings
// raised before the failure.
func (c *Converter) Convert(compound *doxygen.Compound) (*Result, error) {
	res := &Result{}
	proc, ok := procedures[compound.Kind]
	if !ok {
		return res, fmt.Errorf("%w: %s", ErrUnsupportedKind, compound.Kind)
	}
	if err := proc(c, compound, res); err != nil {
		return res, fmt.Errorf("%s %s: %w", compound.Kind, compound.Name, err)
	}
	return res, nil
}
