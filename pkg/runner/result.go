package runner

import (
	"fmt"

	"github.com/yaklabco/doxyrst/pkg/convert"
	"github.com/yaklabco/doxyrst/pkg/doxygen"
)

// PageOutcome records what happened to one generated page.
type PageOutcome struct {
	// Path is the file path after sanitisation.
	Path string `json:"path"`

	// Written is false when an existing file was kept.
	Written bool `json:"written"`
}

// EntityOutcome is the result of converting one index entry.
type EntityOutcome struct {
	Entry doxygen.IndexEntry

	// Pages lists the pages of the entity in generation order.
	Pages []PageOutcome

	// Warnings are the InputWarnings raised for the entity, including the
	// one recorded when the entity was skipped.
	Warnings []convert.Warning

	// Skipped is set when the compound could not be loaded or has no
	// procedure. No page was generated.
	Skipped bool
}

// Stats captures aggregate information about a run.
type Stats struct {
	// EntitiesDiscovered is the number of compounds listed in the index.
	EntitiesDiscovered int

	// EntitiesSelected is the number of compounds the run tried to convert.
	EntitiesSelected int

	// EntitiesConverted is the number of compounds whose pages were written.
	EntitiesConverted int

	// EntitiesSkipped is the number of compounds skipped on InputWarnings.
	EntitiesSkipped int

	// PagesGenerated counts entity and index pages produced.
	PagesGenerated int

	// PagesWritten counts pages actually written to disk.
	PagesWritten int

	// PagesKept counts pages left untouched because they existed or were
	// unchanged.
	PagesKept int

	// Warnings is the total number of InputWarnings.
	Warnings int

	// WarningsBySource maps a warning source to its count.
	WarningsBySource map[convert.WarningSource]int
}

// Result is the overall runner result.
type Result struct {
	// RunID identifies the run.
	RunID string

	// Entities holds one outcome per selected entry, in index order.
	Entities []EntityOutcome

	// IndexPages lists the listing pages and the root index.
	IndexPages []PageOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasWarnings reports whether any InputWarning was raised.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.Warnings > 0
}

// Warnings returns every warning of the run in entity order.
func (r *Result) Warnings() []convert.Warning {
	if r == nil {
		return nil
	}
	var out []convert.Warning
	for _, entity := range r.Entities {
		out = append(out, entity.Warnings...)
	}
	return out
}

func newStats() Stats {
	return Stats{
		WarningsBySource: make(map[convert.WarningSource]int),
	}
}

func (r *Result) accumulate(outcome EntityOutcome) {
	r.Entities = append(r.Entities, outcome)

	if outcome.Skipped {
		r.Stats.EntitiesSkipped++
	} else {
		r.Stats.EntitiesConverted++
	}

	for _, page := range outcome.Pages {
		r.countPage(page)
	}

	r.Stats.Warnings += len(outcome.Warnings)
	for _, warning := range outcome.Warnings {
		r.Stats.WarningsBySource[warning.Source]++
	}
}

func (r *Result) countPage(page PageOutcome) {
	r.Stats.PagesGenerated++
	if page.Written {
		r.Stats.PagesWritten++
	} else {
		r.Stats.PagesKept++
	}
}

// EntityError reports the entity whose conversion aborted the run.
type EntityError struct {
	RefID string
	Name  string
	Err   error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("entity %s (%s): %v", e.RefID, e.Name, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}
