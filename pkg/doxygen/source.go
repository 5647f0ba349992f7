package doxygen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/doxyrst/pkg/fsutil"
)

// IndexFile is the name of the index inside a Doxygen XML directory.
const IndexFile = "index.xml"

// ErrInvalidRefID is returned for refids that cannot name a compound file.
var ErrInvalidRefID = errors.New("invalid refid")

// Source provides the index and the compounds it lists.
// Implementations must be safe for concurrent use.
type Source interface {
	Index(ctx context.Context) (*Index, error)
	Compound(ctx context.Context, refid string) (*Compound, error)
}

// DirSource reads a directory written by Doxygen.
type DirSource struct {
	dir string
}

// NewDirSource returns a Source reading from dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Dir returns the directory the source reads from.
func (s *DirSource) Dir() string {
	return s.dir
}

// Index reads and decodes dir/index.xml.
func (s *DirSource) Index(ctx context.Context) (*Index, error) {
	content, _, err := fsutil.ReadFile(ctx, filepath.Join(s.dir, IndexFile))
	if err != nil {
		return nil, err
	}
	return ParseIndex(bytes.NewReader(content))
}

// Compound reads and decodes dir/<refid>.xml.
func (s *DirSource) Compound(ctx context.Context, refid string) (*Compound, error) {
	if refid == "" || strings.ContainsAny(refid, `/\`) || refid == "." || refid == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRefID, refid)
	}

	content, _, err := fsutil.ReadFile(ctx, filepath.Join(s.dir, refid+".xml"))
	if err != nil {
		return nil, err
	}

	compound, err := ParseCompound(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", refid, err)
	}
	return compound, nil
}
