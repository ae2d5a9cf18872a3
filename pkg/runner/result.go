package runner

import "github.com/yaklabco/prhdesc/pkg/check"

// FileOutcome is the outcome of one document.
type FileOutcome struct {
	// Path is the absolute document path.
	Path string

	// Content is the document text as read before checking.
	Content []byte

	// Language is the detected language identifier.
	Language string

	// Disabled is set when the language is turned off in enabled_file_types.
	Disabled bool

	// Check is the checker's result. Zero when Disabled or Error is set.
	Check check.Result

	// Error is set if the document could not be read or checking was cancelled.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesChecked is the number of documents with published diagnostics.
	FilesChecked int

	// FilesSkipped counts disabled languages and documents without rules.
	FilesSkipped int

	// FilesFailed is the number of documents the engine failed on.
	FilesFailed int

	// FilesErrored is the number of documents that could not be read.
	FilesErrored int

	// FilesWithIssues is the number of documents with at least one diagnostic.
	FilesWithIssues int

	// DiagnosticsTotal is the total number of diagnostics.
	DiagnosticsTotal int
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per document, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics.
	Stats Stats
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

// HasFailures reports whether any document could not be checked.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0 || r.Stats.FilesErrored > 0
}

// NewResult aggregates outcomes that were produced outside Run.
func NewResult(outcomes ...FileOutcome) *Result {
	result := &Result{Files: make([]FileOutcome, 0, len(outcomes))}
	result.Stats.FilesDiscovered = len(outcomes)
	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}
	return result
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
	case outcome.Disabled:
		r.Stats.FilesSkipped++
	default:
		switch outcome.Check.Outcome {
		case check.OutcomeChecked:
			r.Stats.FilesChecked++
			n := len(outcome.Check.Diagnostics)
			r.Stats.DiagnosticsTotal += n
			if n > 0 {
				r.Stats.FilesWithIssues++
			}
		case check.OutcomeSkipped:
			r.Stats.FilesSkipped++
		case check.OutcomeFailed:
			r.Stats.FilesFailed++
		}
	}
}
