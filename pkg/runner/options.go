// Package runner converts every selected Doxygen compound of an index
// concurrently and writes the resulting pages.
package runner

import "github.com/yaklabco/doxyrst/pkg/convert"

// Options controls a generation run.
type Options struct {
	// Output is the root directory of the generated pages.
	Output string

	// KeepExisting leaves the output directory in place. Existing entity
	// pages are kept byte for byte.
	KeepExisting bool

	// Test restricts the run to the entities matched by TestEntities.
	Test bool

	// TestEntities are the names used in test mode.
	TestEntities []string

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Index controls the listing pages written after the entities.
	Index IndexOptions

	// RunID identifies the run in logs and reports. A random one is
	// generated when empty.
	RunID string
}

// IndexOptions controls the listing pages.
type IndexOptions struct {
	// Enabled writes the listing pages and the root index.
	Enabled bool

	convert.IndexOptions
}
