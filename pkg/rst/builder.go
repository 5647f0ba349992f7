// Package rst provides an append-only reStructuredText document builder.
//
// A Builder tracks the stack of open directive blocks and the stack of open
// lists. Indentation is derived from the block stack depth at the time each
// line is started, so visual nesting can never drift from markup nesting.
// Mismatched or unclosed blocks and lists are reported as *StructuralError.
//
// The package also holds the anchor conventions shared by every page: Slugify,
// MemberAnchor, the prose escaping helpers, and the citation snippets.
package rst

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/text/width"

	"github.com/yaklabco/doxyrst/pkg/fsutil"
)

// indentUnit is the prefix emitted once per open block.
const indentUnit = "    "

// Section underline markers, outermost first.
const (
	MarkerTitle   = '='
	MarkerSection = '-'
	MarkerTopic   = '^'
)

// Directive kinds used by the generated pages.
const (
	DirectiveCard      = "card"
	DirectiveCodeBlock = "code-block"
	DirectiveTabSet    = "tab-set"
	DirectiveTabItem   = "tab-item"
	DirectiveDropdown  = "dropdown"
	DirectiveToctree   = "toctree"
)

// Option is a single ":key: value" directive parameter.
// Options are emitted in the order given.
type Option struct {
	Key   string
	Value string
}

// Builder accumulates one document.
// It is not safe for concurrent use; build each page with its own Builder.
type Builder struct {
	buf    []byte
	blocks []string
	lists  []string
}

// New returns an empty Builder at depth zero.
func New() *Builder {
	return &Builder{}
}

// Depth returns the number of open blocks.
func (b *Builder) Depth() int {
	return len(b.blocks)
}

// Append adds raw text to the current line.
func (b *Builder) Append(text string) {
	b.buf = append(b.buf, text...)
}

// Line appends text and terminates the line.
func (b *Builder) Line(text string) {
	b.Append(text)
	b.Newline()
}

// Newline terminates the current line and starts the next one at the
// current indentation. Repeated calls produce blank lines, which Render
// collapses to a single separator.
func (b *Builder) Newline() {
	b.buf = append(b.buf, '\n')
	b.buf = append(b.buf, b.prefix()...)
}

// AddTarget declares an anchor for the content that follows.
// Several targets may precede the same content.
func (b *Builder) AddTarget(name string) {
	b.Append(".. _" + name + ":")
	b.Newline()
	b.Newline()
}

// StartSection emits title underlined with marker, preceded by a blank line.
// The underline covers the display width of title.
func (b *Builder) StartSection(title string, marker rune) {
	b.Newline()
	b.Append(title)
	b.Newline()
	b.Append(strings.Repeat(string(marker), displayWidth(title)))
	b.Newline()
	b.Newline()
}

// StartBlock opens a directive of the given kind. Content written until the
// matching EndBlock is indented one level deeper.
func (b *Builder) StartBlock(kind, title string, opts ...Option) {
	b.Newline()
	b.Newline()
	b.Append(".. " + kind + ":: " + title)
	b.blocks = append(b.blocks, kind)
	for _, opt := range opts {
		b.Newline()
		b.Append(":" + opt.Key + ": " + opt.Value)
	}
	b.Newline()
	b.Newline()
}

// EndBlock closes the innermost directive, which must be of the given kind.
// On mismatch nothing is written and the stack is left untouched.
func (b *Builder) EndBlock(kind string) error {
	if len(b.blocks) == 0 {
		return &StructuralError{Op: "end block", Want: kind}
	}
	if top := b.blocks[len(b.blocks)-1]; top != kind {
		return &StructuralError{Op: "end block", Want: kind, Got: top}
	}
	b.blocks = b.blocks[:len(b.blocks)-1]
	b.Newline()
	b.Newline()
	return nil
}

// StartList opens a list whose items use marker (e.g. "-").
func (b *Builder) StartList(marker string) {
	b.Newline()
	b.Newline()
	b.lists = append(b.lists, marker)
}

// AddListItem writes one item of the innermost list.
func (b *Builder) AddListItem(text string) error {
	if len(b.lists) == 0 {
		return &StructuralError{Op: "add list item", Want: text}
	}
	b.Append(b.lists[len(b.lists)-1] + " " + text)
	b.Newline()
	return nil
}

// EndList closes the innermost list, which must use marker.
func (b *Builder) EndList(marker string) error {
	if len(b.lists) == 0 {
		return &StructuralError{Op: "end list", Want: marker}
	}
	if top := b.lists[len(b.lists)-1]; top != marker {
		return &StructuralError{Op: "end list", Want: marker, Got: top}
	}
	b.lists = b.lists[:len(b.lists)-1]
	return nil
}

// Merge renders other and splices its lines in at the current indentation.
// The stacks of the two builders stay independent: other must be complete
// and b's open blocks and lists are unaffected.
func (b *Builder) Merge(other *Builder) error {
	text, err := other.Render()
	if err != nil {
		return err
	}

	// Drop the indentation prefix of a pending empty line, or finish a
	// line that already carries content.
	start := bytes.LastIndexByte(b.buf, '\n') + 1
	if len(bytes.TrimSpace(b.buf[start:])) == 0 {
		b.buf = b.buf[:start]
	} else {
		b.buf = append(b.buf, '\n')
	}

	prefix := b.prefix()
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		if line != "" {
			b.buf = append(b.buf, prefix...)
			b.buf = append(b.buf, line...)
		}
		b.buf = append(b.buf, '\n')
	}
	b.buf = append(b.buf, prefix...)
	return nil
}

// Render checks that every block and list was closed and returns the
// normalised document text.
func (b *Builder) Render() (string, error) {
	if len(b.blocks) > 0 {
		return "", &StructuralError{Op: "render", Open: append([]string(nil), b.blocks...)}
	}
	if len(b.lists) > 0 {
		open := make([]string, len(b.lists))
		for i, marker := range b.lists {
			open[i] = "list " + marker
		}
		return "", &StructuralError{Op: "render", Open: open}
	}
	return Normalize(string(b.buf)), nil
}

// WriteResult describes the outcome of WriteToPath.
type WriteResult struct {
	// Path is the final path after file-name sanitisation.
	Path string

	// Written is false when the file was left untouched.
	Written bool
}

// WriteToPath renders the document and writes it to path, creating missing
// parent directories. The base name is sanitised first.
//
// Without overwrite an existing file is kept as is. With overwrite the file
// is only replaced when its content differs.
func (b *Builder) WriteToPath(ctx context.Context, path string, overwrite bool) (WriteResult, error) {
	text, err := b.Render()
	if err != nil {
		return WriteResult{}, err
	}

	dir, base := filepath.Split(path)
	result := WriteResult{Path: filepath.Join(dir, fsutil.SanitizeFilename(base))}

	if err := fsutil.EnsureDir(filepath.Dir(result.Path)); err != nil {
		return result, err
	}

	if !overwrite {
		exists, err := fsutil.Exists(result.Path)
		if err != nil {
			return result, err
		}
		if exists {
			return result, nil
		}
		if err := fsutil.WriteAtomic(ctx, result.Path, []byte(text), 0); err != nil {
			return result, err
		}
		result.Written = true
		return result, nil
	}

	result.Written, err = fsutil.WriteAtomicIfChanged(ctx, result.Path, []byte(text), 0)
	return result, err
}

// Normalize strips trailing whitespace, drops leading and trailing blank
// lines and collapses every run of blank lines to one. The result ends with
// a single newline unless it is empty. Normalize is idempotent.
func Normalize(text string) string {
	var out strings.Builder
	out.Grow(len(text))

	pendingBlank := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			pendingBlank = out.Len() > 0
			continue
		}
		if pendingBlank {
			out.WriteByte('\n')
			pendingBlank = false
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.String()
}

func (b *Builder) prefix() string {
	return strings.Repeat(indentUnit, len(b.blocks))
}

// displayWidth counts terminal columns, with wide East Asian runes taking two.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
