package analysis

// Report breaks a check run down by index key and by document.
type Report struct {
	Version string         `json:"version"`
	Totals  Totals         `json:"summary"`
	ByKey   []KeyAnalysis  `json:"byKey"`
	ByFile  []FileAnalysis `json:"byFile"`

	// Unexplained counts engine messages per text that no index entry covered.
	Unexplained []KeyAnalysis `json:"unexplained,omitempty"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	Suggestions     int `json:"suggestions"`
	Exact           int `json:"exact"`
	Pattern         int `json:"pattern"`
	Unexplained     int `json:"unexplained"`
}

// KeyAnalysis aggregates the suggestions attributed to one index key.
type KeyAnalysis struct {
	Key   string   `json:"key"`
	Count int      `json:"count"`
	Files []string `json:"files"`
}

// FileAnalysis aggregates the suggestions of one document.
type FileAnalysis struct {
	Path  string   `json:"path"`
	Count int      `json:"count"`
	Keys  []string `json:"keys,omitempty"`
}
