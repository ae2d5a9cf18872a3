package engine

import (
	"encoding/json"
	"fmt"
	"io"
)

// Finding is one message reported by the lint engine.
type Finding struct {
	// RuleID names the engine rule that produced the finding, e.g. "prh".
	RuleID string `json:"ruleId"`

	// Message is the raw message, usually "A => B" for prh.
	Message string `json:"message"`

	// Line is 1-based.
	Line int `json:"line"`

	// Column is 1-based.
	Column int `json:"column"`

	// Range is the optional [start, end) character offset pair.
	Range []int `json:"range,omitempty"`

	// Severity is the engine's own severity (1 warning, 2 error).
	Severity int `json:"severity,omitempty"`
}

// Length returns the highlighted span length: the width of Range, or 1 when
// Range is absent or empty.
func (f Finding) Length() int {
	if len(f.Range) < 2 || f.Range[1] == 0 {
		return 1
	}
	if n := f.Range[1] - f.Range[0]; n > 0 {
		return n
	}
	return 1
}

// FileResult is the engine output for one document.
type FileResult struct {
	FilePath string    `json:"filePath"`
	Messages []Finding `json:"messages"`
}

// ParseResults decodes textlint's JSON formatter output.
func ParseResults(r io.Reader) ([]FileResult, error) {
	var results []FileResult
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode engine output: %w", err)
	}
	return results, nil
}
