package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/yaklabco/doxyrst/internal/logging"
	"github.com/yaklabco/doxyrst/pkg/convert"
	"github.com/yaklabco/doxyrst/pkg/doxygen"
	"github.com/yaklabco/doxyrst/pkg/fsutil"
	"github.com/yaklabco/doxyrst/pkg/rst"
)

// ErrNoOutput is returned when Options.Output is empty.
var ErrNoOutput = errors.New("no output directory")

// Runner converts the compounds of a Source with a Converter.
type Runner struct {
	// Source provides the index and the compounds.
	Source doxygen.Source

	// Converter builds the pages of one compound.
	Converter *convert.Converter
}

// New creates a new Runner.
func New(source doxygen.Source, converter *convert.Converter) *Runner {
	return &Runner{Source: source, Converter: converter}
}

// Run converts every selected entry of the index and writes its pages
// below opts.Output, then writes the index pages.
//
// The runner:
//   - Removes the output directory first unless KeepExisting is set
//   - Converts entities concurrently using a worker pool
//   - Writes pages in index order; a path already written by an earlier
//     entity is skipped with a warning
//   - Skips entities whose compound cannot be read, with a warning
//   - Stops at the first structural or write error and returns an EntityError
//   - Aggregates outcomes in index order
//
// An unreadable index is fatal. The returned Result is non-nil whenever
// the index was read.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Output == "" {
		return nil, ErrNoOutput
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx, logger := logging.WithFields(ctx, logging.FieldRunID, runID)

	index, err := r.Source.Index(ctx)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	entries := Select(index, opts)
	result := &Result{
		RunID:    runID,
		Entities: make([]EntityOutcome, 0, len(entries)),
		Stats:    newStats(),
	}
	result.Stats.EntitiesDiscovered = len(index.Compounds)
	result.Stats.EntitiesSelected = len(entries)

	if err := prepareOutput(opts); err != nil {
		return result, err
	}

	if opts.Test {
		for _, entry := range entries {
			logger.Info("test mode: including", logging.FieldRefID, entry.RefID)
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than entities.
	if jobs > len(entries) {
		jobs = len(entries)
	}
	logger.Debug("converting", logging.FieldEntitiesSelected, len(entries), logging.FieldJobs, jobs)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		fatalOnce sync.Once
		fatal     error
	)
	fail := func(err error) {
		fatalOnce.Do(func() {
			fatal = err
			cancel()
		})
	}

	workCh := make(chan job)
	outCh := make(chan converted)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(runCtx, workCh, outCh, fail)
		}()
	}

	go func() {
		defer close(workCh)
		for pos, entry := range entries {
			select {
			case <-runCtx.Done():
				return
			case workCh <- job{pos: pos, entry: entry}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers may complete out of order; pages are committed in index
	// order so that the first entity claiming a path keeps it.
	pending := make(map[int]converted)
	claims := make(map[string]string)
	next := 0
	for item := range outCh {
		pending[item.pos] = item
		for {
			ready, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if runCtx.Err() != nil {
				continue
			}

			outcome, err := r.commit(runCtx, opts.Output, ready, claims)
			if err != nil {
				if runCtx.Err() == nil {
					fail(&EntityError{RefID: outcome.Entry.RefID, Name: outcome.Entry.Name, Err: err})
				}
				continue
			}
			logWarnings(logger, outcome.Warnings)
			result.accumulate(outcome)
		}
	}

	if fatal != nil {
		return result, fatal
	}
	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	if opts.Index.Enabled {
		if err := r.writeIndex(ctx, opts, result); err != nil {
			return result, err
		}
	}

	logger.Debug("run finished",
		logging.FieldEntitiesConverted, result.Stats.EntitiesConverted,
		logging.FieldPagesWritten, result.Stats.PagesWritten,
		logging.FieldWarnings, result.Stats.Warnings,
	)

	return result, nil
}

// job is one index entry and its position in the selection.
type job struct {
	pos   int
	entry doxygen.IndexEntry
}

// converted holds the pages of one entity, not yet written.
type converted struct {
	pos     int
	outcome EntityOutcome
	pages   []convert.Page
}

// worker converts entries from workCh and sends them to outCh.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan job,
	outCh chan<- converted,
	fail func(error),
) {
	for work := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, err := r.convertEntry(ctx, work.entry)
		if err != nil {
			if ctx.Err() == nil {
				fail(&EntityError{RefID: work.entry.RefID, Name: work.entry.Name, Err: err})
			}
			return
		}
		item.pos = work.pos

		select {
		case <-ctx.Done():
			return
		case outCh <- item:
		}
	}
}

// convertEntry loads and converts one entity. A returned error aborts the
// run; everything recoverable is reported as a warning on the outcome.
func (r *Runner) convertEntry(ctx context.Context, entry doxygen.IndexEntry) (converted, error) {
	item := converted{outcome: EntityOutcome{Entry: entry}}

	compound, err := r.Source.Compound(ctx, entry.RefID)
	if err != nil {
		if ctx.Err() != nil {
			return item, ctx.Err()
		}
		item.outcome.Skipped = true
		item.outcome.Warnings = append(item.outcome.Warnings, convert.Warning{
			Source:  convert.SourceDoxygen,
			Entity:  entry.Name,
			Message: "cannot load compound: " + err.Error(),
		})
		return item, nil
	}

	res, err := r.Converter.Convert(compound)
	item.outcome.Warnings = append(item.outcome.Warnings, res.Warnings...)
	if errors.Is(err, convert.ErrUnsupportedKind) {
		item.outcome.Skipped = true
		item.outcome.Warnings = append(item.outcome.Warnings, convert.Warning{
			Source:  convert.SourceDoxygen,
			Entity:  entry.Name,
			Message: fmt.Sprintf("index lists %s as %s: %v", entry.RefID, entry.Kind, err),
		})
		return item, nil
	}
	if err != nil {
		return item, err
	}

	item.pages = res.Pages
	return item, nil
}

// commit writes the pages of one entity. A page whose path was already
// claimed by an earlier entity of the run is dropped with a warning.
// claims maps a target path to the entity that owns it.
func (r *Runner) commit(ctx context.Context, output string, item converted, claims map[string]string) (EntityOutcome, error) {
	outcome := item.outcome

	for _, page := range item.pages {
		target := page.Target(output)
		if owner, taken := claims[target]; taken {
			outcome.Warnings = append(outcome.Warnings, convert.Warning{
				Source:  convert.SourceGenerator,
				Entity:  outcome.Entry.Name,
				Message: fmt.Sprintf("page %s already generated for %s, skipped", page.Path, owner),
			})
			continue
		}
		claims[target] = outcome.Entry.Name

		written, err := page.Write(ctx, output)
		if err != nil {
			return outcome, err
		}
		outcome.Pages = append(outcome.Pages, PageOutcome{Path: written.Path, Written: written.Written})
	}

	return outcome, nil
}

func (r *Runner) writeIndex(ctx context.Context, opts Options, result *Result) error {
	var docs map[string][]string
	if !opts.Index.Glob {
		var err error
		docs, err = listDocuments(opts.Output, r.Converter.Listings())
		if err != nil {
			return err
		}
	}

	pages, err := r.Converter.IndexPages(opts.Index.IndexOptions, docs)
	if err != nil {
		return fmt.Errorf("index pages: %w", err)
	}

	for _, page := range pages {
		written, err := page.Write(ctx, opts.Output)
		if err != nil {
			return fmt.Errorf("index page %s: %w", page.Path, err)
		}
		outcome := PageOutcome{Path: written.Path, Written: written.Written}
		result.IndexPages = append(result.IndexPages, outcome)
		result.countPage(outcome)
	}
	return nil
}

// prepareOutput removes the previous output unless it is kept, then makes
// sure the output directory exists.
func prepareOutput(opts Options) error {
	if !opts.KeepExisting {
		if err := fsutil.RemoveAll(opts.Output); err != nil {
			return fmt.Errorf("clean output: %w", err)
		}
	}
	if err := fsutil.EnsureDir(opts.Output); err != nil {
		return fmt.Errorf("prepare output: %w", err)
	}
	return nil
}

// listDocuments returns the page names, without extension, present in
// each listing subdirectory. A missing subdirectory lists nothing.
func listDocuments(output string, listings []convert.Listing) (map[string][]string, error) {
	docs := make(map[string][]string, len(listings))
	for _, listing := range listings {
		entries, err := os.ReadDir(filepath.Join(output, listing.Subdir))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", listing.Subdir, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || filepath.Ext(name) != ".rst" {
				continue
			}
			docs[listing.Subdir] = append(docs[listing.Subdir], strings.TrimSuffix(name, ".rst"))
		}
	}
	return docs, nil
}

func logWarnings(logger *log.Logger, warnings []convert.Warning) {
	for _, warning := range warnings {
		keyvals := []any{logging.FieldSource, string(warning.Source), logging.FieldEntity, warning.Entity}
		if warning.Member != "" {
			keyvals = append(keyvals, logging.FieldMember, warning.Member)
		}
		logger.Warn(warning.Message, keyvals...)
	}
}

// IsStructural reports whether err was caused by a document nesting bug.
func IsStructural(err error) bool {
	return errors.Is(err, rst.ErrStructural)
}
