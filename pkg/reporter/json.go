package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/doxyrst/pkg/convert"
	"github.com/yaklabco/doxyrst/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version    string       `json:"version"`
	RunID      string       `json:"runId"`
	Entities   []JSONEntity `json:"entities"`
	IndexPages []JSONPage   `json:"indexPages"`
	Summary    JSONSummary  `json:"summary"`
}

// JSONEntity represents a single entity's results.
type JSONEntity struct {
	RefID    string            `json:"refid"`
	Kind     string            `json:"kind"`
	Name     string            `json:"name"`
	Skipped  bool              `json:"skipped,omitempty"`
	Pages    []JSONPage        `json:"pages"`
	Warnings []convert.Warning `json:"warnings"`
}

// JSONPage represents one generated page.
type JSONPage struct {
	Path    string `json:"path"`
	Written bool   `json:"written"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	EntitiesDiscovered int            `json:"entitiesDiscovered"`
	EntitiesConverted  int            `json:"entitiesConverted"`
	EntitiesSkipped    int            `json:"entitiesSkipped"`
	PagesGenerated     int            `json:"pagesGenerated"`
	PagesWritten       int            `json:"pagesWritten"`
	PagesKept          int            `json:"pagesKept"`
	TotalWarnings      int            `json:"totalWarnings"`
	BySource           map[string]int `json:"bySource"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalWarnings, nil
}

func (r *JSONReporter) pages(outcomes []runner.PageOutcome) []JSONPage {
	pages := make([]JSONPage, 0, len(outcomes))
	for _, page := range outcomes {
		pages = append(pages, JSONPage{Path: relativePath(r.opts.Output, page.Path), Written: page.Written})
	}
	return pages
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version:    "1.0.0",
		Entities:   make([]JSONEntity, 0),
		IndexPages: make([]JSONPage, 0),
		Summary: JSONSummary{
			BySource: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	output.RunID = result.RunID
	output.IndexPages = r.pages(result.IndexPages)

	for _, entity := range result.Entities {
		warnings := entity.Warnings
		if warnings == nil {
			warnings = make([]convert.Warning, 0)
		}
		output.Entities = append(output.Entities, JSONEntity{
			RefID:    entity.Entry.RefID,
			Kind:     string(entity.Entry.Kind),
			Name:     entity.Entry.Name,
			Skipped:  entity.Skipped,
			Pages:    r.pages(entity.Pages),
			Warnings: warnings,
		})
	}

	stats := result.Stats
	output.Summary.EntitiesDiscovered = stats.EntitiesDiscovered
	output.Summary.EntitiesConverted = stats.EntitiesConverted
	output.Summary.EntitiesSkipped = stats.EntitiesSkipped
	output.Summary.PagesGenerated = stats.PagesGenerated
	output.Summary.PagesWritten = stats.PagesWritten
	output.Summary.PagesKept = stats.PagesKept
	output.Summary.TotalWarnings = stats.Warnings
	for source, count := range stats.WarningsBySource {
		output.Summary.BySource[string(source)] = count
	}

	return output
}
