package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/term"

	"github.com/yaklabco/prhdesc/internal/ui/pretty"
	"github.com/yaklabco/prhdesc/pkg/check"
	"github.com/yaklabco/prhdesc/pkg/runner"
)

// TableReporter formats diagnostics as one table across all files.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, terminalWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	table := pretty.Table{Headers: []string{"FILE", "LINE", "COL", "SUGGESTION"}}
	for _, file := range result.Files {
		if file.Error != nil || file.Disabled || file.Check.Outcome != check.OutcomeChecked {
			continue
		}
		path := r.opts.displayPath(file.Path)
		for _, diag := range file.Check.Diagnostics {
			table.Rows = append(table.Rows, []string{
				path,
				strconv.Itoa(diag.Line),
				strconv.Itoa(diag.Column),
				diag.Message,
			})
		}
	}

	if len(table.Rows) > 0 {
		fmt.Fprint(r.bw, r.formatter.Format(table))
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return len(table.Rows), nil
}

// terminalWidth returns the writer's terminal width, or 0 when it is not a
// terminal.
func terminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return 0
}
