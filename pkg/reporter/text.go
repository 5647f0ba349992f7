package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/doxyrst/internal/ui/pretty"
	"github.com/yaklabco/doxyrst/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Entities) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No entities to convert."))
		}
		return 0, nil
	}

	var total int

	for _, entity := range result.Entities {
		if r.opts.ShowPages {
			for _, page := range entity.Pages {
				r.writePage(page)
			}
		}

		if len(entity.Warnings) == 0 {
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatEntityHeader(entity.Entry.Name, entity.Entry.RefID, len(entity.Warnings)))
		for _, warning := range entity.Warnings {
			fmt.Fprint(r.bw, r.styles.FormatWarning(warning))
			total++
		}

		// Blank line between entities
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowPages {
		for _, page := range result.IndexPages {
			r.writePage(page)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

func (r *TextReporter) writePage(page runner.PageOutcome) {
	status := r.styles.Success.Render("wrote")
	if !page.Written {
		status = r.styles.Dim.Render("kept ")
	}
	fmt.Fprintf(r.bw, "%s %s\n", status, r.styles.Path.Render(relativePath(r.opts.Output, page.Path)))
}
