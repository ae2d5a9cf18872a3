package reporter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/prhdesc/internal/ui/pretty"
	"github.com/yaklabco/prhdesc/pkg/analysis"
)

// WriteAnalysis renders which keys produced suggestions and how often.
// Text and table formats share the table layout.
func WriteAnalysis(w io.Writer, report *analysis.Report, opts Options) (err error) {
	bw := bufio.NewWriterSize(w, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if opts.Format == FormatJSON {
		return encodeJSON(bw, report, opts.Compact)
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, w))
	formatter := pretty.NewTableFormatter(styles, terminalWidth(w))

	if len(report.ByKey) > 0 {
		table := pretty.Table{Headers: []string{"KEY", "COUNT", "FILES"}}
		for _, ka := range report.ByKey {
			table.Rows = append(table.Rows, []string{ka.Key, strconv.Itoa(ka.Count), strings.Join(ka.Files, ", ")})
		}
		fmt.Fprint(bw, formatter.Format(table))
	}

	if len(report.Unexplained) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, styles.Bold.Render("Without description:"))
		for _, ka := range report.Unexplained {
			fmt.Fprintf(bw, "  %s  %s\n", ka.Key, styles.Dim.Render(strconv.Itoa(ka.Count)+"x"))
		}
	}

	if opts.ShowSummary {
		t := report.Totals
		fmt.Fprintln(bw, styles.Dim.Render(fmt.Sprintf(
			"%d suggestions in %d of %d files: %d exact, %d by pattern, %d without description",
			t.Suggestions, t.FilesWithIssues, t.Files, t.Exact, t.Pattern, t.Unexplained,
		)))
	}
	return nil
}
