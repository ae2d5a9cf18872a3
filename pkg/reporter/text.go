package reporter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"

	"github.com/yaklabco/prhdesc/internal/ui/pretty"
	"github.com/yaklabco/prhdesc/pkg/check"
	"github.com/yaklabco/prhdesc/pkg/runner"
)

// TextReporter formats results as styled terminal output grouped by file.
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

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := r.opts.displayPath(file.Path)

	switch {
	case file.Error != nil:
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	case file.Disabled:
		if r.opts.Verbose {
			fmt.Fprintf(r.bw, "%s: %s\n", r.styles.FilePath.Render(path),
				r.styles.Dim.Render(fmt.Sprintf("skipped (%s disabled)", languageLabel(file.Language))))
		}
		return 0
	}

	switch file.Check.Outcome {
	case check.OutcomeFailed:
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("engine failed: %v", file.Check.Err)),
		)
		return 0
	case check.OutcomeSkipped:
		if r.opts.Verbose {
			fmt.Fprintf(r.bw, "%s: %s\n", r.styles.FilePath.Render(path),
				r.styles.Dim.Render(fmt.Sprintf("skipped: %v", file.Check.Err)))
		}
		return 0
	case check.OutcomeChecked:
	}

	diagnostics := file.Check.Diagnostics
	if len(diagnostics) == 0 {
		return 0
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(diagnostics)))

	var lines [][]byte
	if r.opts.ShowContext && len(file.Content) > 0 {
		lines = bytes.Split(file.Content, []byte("\n"))
	}

	for _, diag := range diagnostics {
		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(path, diag, sourceLine(lines, diag.Line)))
	}
	fmt.Fprintln(r.bw)

	return len(diagnostics)
}

// sourceLine returns the 1-based line from lines without a trailing CR.
func sourceLine(lines [][]byte, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return string(bytes.TrimRight(lines[line-1], "\r"))
}

func languageLabel(id string) string {
	if id == "" {
		return "binary"
	}
	return id
}
