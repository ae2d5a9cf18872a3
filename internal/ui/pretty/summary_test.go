package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/prhdesc/internal/ui/pretty"
	"github.com/yaklabco/prhdesc/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "no problems",
			stats: runner.Stats{FilesChecked: 3},
			want:  "No problems found (3 files checked)\n",
		},
		{
			name:  "single file",
			stats: runner.Stats{FilesChecked: 1},
			want:  "No problems found (1 file checked)\n",
		},
		{
			name:  "issues",
			stats: runner.Stats{FilesChecked: 2, FilesWithIssues: 1, DiagnosticsTotal: 4},
			want:  "4 issues in 1 file\n",
		},
		{
			name:  "skipped and failed",
			stats: runner.Stats{FilesChecked: 1, FilesSkipped: 2, FilesFailed: 1, FilesErrored: 1},
			want:  "No problems found (1 file checked), 2 skipped, 2 failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	styles := pretty.NewStyles(false)

	out := styles.FormatSummary(runner.Stats{FilesDiscovered: 3, FilesChecked: 3})
	assert.Contains(t, out, "Files checked:     3")
	assert.Contains(t, out, "Check passed")
	assert.NotContains(t, out, "Files failed")

	out = styles.FormatSummary(runner.Stats{FilesChecked: 1, FilesWithIssues: 1, DiagnosticsTotal: 2})
	assert.Contains(t, out, "Total issues:      2")
	assert.Contains(t, out, "Check completed with suggestions")

	out = styles.FormatSummary(runner.Stats{FilesFailed: 1})
	assert.Contains(t, out, "Files failed:      1")
	assert.Contains(t, out, "Some documents could not be checked")
}
