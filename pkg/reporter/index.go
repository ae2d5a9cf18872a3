package reporter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/prhdesc/internal/ui/pretty"
	"github.com/yaklabco/prhdesc/pkg/index"
	"github.com/yaklabco/prhdesc/pkg/rulefile"
)

// IndexJSON is the JSON form of the merged index.
type IndexJSON struct {
	Version string             `json:"version"`
	Keys    []index.KeyEntries `json:"keys"`
	Report  index.Report       `json:"report"`
}

// WriteIndex renders the index. When key is non-empty only that key is
// written and an unknown key is reported as an error.
func WriteIndex(w io.Writer, ix *index.Index, key string, opts Options) (err error) {
	bw := bufio.NewWriterSize(w, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	walk := ix.Entries()
	if key != "" {
		entries := ix.Lookup(key)
		if len(entries) == 0 {
			return fmt.Errorf("key %q is not in the index", key)
		}
		walk = []index.KeyEntries{{Key: key, Entries: entries}}
	}

	colorEnabled := pretty.IsColorEnabled(opts.Color, w)
	styles := pretty.NewStyles(colorEnabled)

	switch opts.Format {
	case FormatJSON:
		return encodeJSON(bw, IndexJSON{Version: JSONVersion, Keys: walk, Report: ix.Report()}, opts.Compact)
	case FormatTable:
		table := pretty.Table{Headers: []string{"KEY", "EXPECTED", "SOURCE", "DESCRIPTION"}}
		for _, ke := range walk {
			for _, e := range ke.Entries {
				table.Rows = append(table.Rows, []string{ke.Key, e.Expected, e.Source, e.Description})
			}
		}
		fmt.Fprint(bw, pretty.NewTableFormatter(styles, terminalWidth(w)).Format(table))
	default:
		for _, ke := range walk {
			fmt.Fprintln(bw, styles.Bold.Render(ke.Key))
			for _, e := range ke.Entries {
				fmt.Fprintf(bw, "  => %s %s  %s\n", expectedOrDash(e), styles.FormatSourceLabel(e.Source), styles.Dim.Render(e.Description))
			}
		}
	}

	if opts.ShowSummary && opts.Format != FormatJSON {
		fmt.Fprintln(bw, styles.Dim.Render(indexSummary(ix.Report())))
	}
	return nil
}

func expectedOrDash(e rulefile.Entry) string {
	if e.Expected == "" {
		return "-"
	}
	return e.Expected
}

func indexSummary(report index.Report) string {
	parts := []string{
		strconv.Itoa(report.Keys) + " keys",
		strconv.Itoa(report.Entries) + " entries",
		fmt.Sprintf("%d rule files from %d folders", report.Files, report.Folders),
	}
	if n := len(report.MissingFolders); n > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", n))
	}
	if report.FailedFiles > 0 {
		parts = append(parts, fmt.Sprintf("%d unreadable", report.FailedFiles))
	}
	return strings.Join(parts, ", ")
}
