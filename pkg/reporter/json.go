package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/prhdesc/pkg/check"
	"github.com/yaklabco/prhdesc/pkg/runner"
)

// JSONVersion is the schema version of JSON reports.
const JSONVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string             `json:"path"`
	Language    string             `json:"language,omitempty"`
	Outcome     string             `json:"outcome"`
	Diagnostics []check.Diagnostic `json:"diagnostics"`
	Error       string             `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int `json:"filesDiscovered"`
	FilesChecked    int `json:"filesChecked"`
	FilesSkipped    int `json:"filesSkipped"`
	FilesFailed     int `json:"filesFailed"`
	FilesErrored    int `json:"filesErrored"`
	FilesWithIssues int `json:"filesWithIssues"`
	TotalIssues     int `json:"totalIssues"`
}

// Outcome strings used in JSON output beyond check.Outcome values.
const (
	outcomeDisabled = "disabled"
	outcomeError    = "error"
)

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
	if err := encodeJSON(r.bw, output, r.opts.Compact); err != nil {
		return 0, err
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: JSONVersion,
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		entry := JSONFileResult{
			Path:        r.opts.displayPath(file.Path),
			Language:    file.Language,
			Diagnostics: make([]check.Diagnostic, 0),
		}

		switch {
		case file.Error != nil:
			entry.Outcome = outcomeError
			entry.Error = file.Error.Error()
		case file.Disabled:
			entry.Outcome = outcomeDisabled
		default:
			entry.Outcome = string(file.Check.Outcome)
			if file.Check.Err != nil {
				entry.Error = file.Check.Err.Error()
			}
			entry.Diagnostics = append(entry.Diagnostics, file.Check.Diagnostics...)
		}

		output.Files = append(output.Files, entry)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered: stats.FilesDiscovered,
		FilesChecked:    stats.FilesChecked,
		FilesSkipped:    stats.FilesSkipped,
		FilesFailed:     stats.FilesFailed,
		FilesErrored:    stats.FilesErrored,
		FilesWithIssues: stats.FilesWithIssues,
		TotalIssues:     stats.DiagnosticsTotal,
	}

	return output
}

func encodeJSON(w *bufio.Writer, v any, compact bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
