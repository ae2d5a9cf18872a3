package reporter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/yaklabco/prhdesc/internal/ui/pretty"
	"github.com/yaklabco/prhdesc/pkg/sources"
)

// SourceStatus describes one resolved rule source.
type SourceStatus struct {
	Identity  sources.Identity `json:"identity"`
	Location  string           `json:"location"`
	Label     string           `json:"label"`
	Exists    bool             `json:"exists"`
	RuleFiles int              `json:"ruleFiles"`
}

// StatusFor builds the status of src from the rule files found in it.
func StatusFor(src sources.Source, files []sources.RuleFile) SourceStatus {
	count := 0
	for _, f := range files {
		if f.Source.Identity == src.Identity && f.Source.Dir == src.Dir {
			count++
		}
	}
	return SourceStatus{
		Identity:  src.Identity,
		Location:  src.Location(),
		Label:     src.Label,
		Exists:    src.Exists(),
		RuleFiles: count,
	}
}

// WriteSources renders the resolved sources in scan order.
func WriteSources(w io.Writer, statuses []SourceStatus, opts Options) (err error) {
	bw := bufio.NewWriterSize(w, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if opts.Format == FormatJSON {
		if statuses == nil {
			statuses = []SourceStatus{}
		}
		return encodeJSON(bw, statuses, opts.Compact)
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, w))
	table := pretty.Table{Headers: []string{"SOURCE", "LOCATION", "STATUS", "FILES"}}
	for _, st := range statuses {
		status := styles.Success.Render("ok")
		if !st.Exists {
			status = styles.Failure.Render("missing")
		}
		table.Rows = append(table.Rows, []string{string(st.Identity), st.Location, status, strconv.Itoa(st.RuleFiles)})
	}
	fmt.Fprint(bw, pretty.NewTableFormatter(styles, terminalWidth(w)).Format(table))
	return nil
}
