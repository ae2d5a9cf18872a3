package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prhdesc/pkg/check"
	"github.com/yaklabco/prhdesc/pkg/config"
	"github.com/yaklabco/prhdesc/pkg/runner"
)

// stubChecker returns one diagnostic per document unless told otherwise.
type stubChecker struct {
	mu       sync.Mutex
	calls    atomic.Int32
	outcomes map[string]check.Outcome
	checked  []string
}

func (s *stubChecker) Check(_ context.Context, path string) (check.Result, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.checked = append(s.checked, path)
	outcome, ok := s.outcomes[filepath.Base(path)]
	s.mu.Unlock()

	if !ok {
		outcome = check.OutcomeChecked
	}
	result := check.Result{Path: path, Outcome: outcome}
	switch outcome {
	case check.OutcomeChecked:
		result.Diagnostics = []check.Diagnostic{{Line: 1, Column: 1, Length: 1, Message: "サーバ => サーバー"}}
	case check.OutcomeFailed:
		result.Err = errors.New("engine failed")
	case check.OutcomeSkipped:
		result.Err = check.ErrNoValidRuleFiles
	}
	return result, nil
}

func TestRun_AggregatesOutcomes(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "a.txt", "b.txt", "c.txt", "d.md")
	stub := &stubChecker{outcomes: map[string]check.Outcome{
		"b.txt": check.OutcomeFailed,
		"c.txt": check.OutcomeSkipped,
	}}

	result, err := runner.New(stub).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 2})
	require.NoError(t, err)

	require.Len(t, result.Files, 4)
	assert.Equal(t, abs(dir, "a.txt", "b.txt", "c.txt", "d.md"), []string{
		result.Files[0].Path, result.Files[1].Path, result.Files[2].Path, result.Files[3].Path,
	})

	stats := result.Stats
	assert.Equal(t, 4, stats.FilesDiscovered)
	assert.Equal(t, 2, stats.FilesChecked)
	assert.Equal(t, 1, stats.FilesFailed)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Equal(t, 2, stats.FilesWithIssues)
	assert.Equal(t, 2, stats.DiagnosticsTotal)
	assert.True(t, result.HasIssues())
	assert.True(t, result.HasFailures())
}

func TestRun_DisabledFileTypes(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "a.txt", "b.md")
	cfg := config.NewConfig()
	cfg.EnabledFileTypes = map[string]bool{"markdown": false}

	stub := &stubChecker{}
	result, err := runner.New(stub).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, "plaintext", result.Files[0].Language)
	assert.False(t, result.Files[0].Disabled)
	assert.Equal(t, "markdown", result.Files[1].Language)
	assert.True(t, result.Files[1].Disabled)
	assert.Equal(t, int32(1), stub.calls.Load())
	assert.Equal(t, 1, result.Stats.FilesSkipped)
}

func TestRun_NoFiles(t *testing.T) {
	t.Parallel()

	stub := &stubChecker{}
	result, err := runner.New(stub).Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasIssues())
	assert.Zero(t, stub.calls.Load())
}

func TestCheckFile_ReadError(t *testing.T) {
	t.Parallel()

	stub := &stubChecker{}
	outcome := runner.New(stub).CheckFile(context.Background(), filepath.Join(t.TempDir(), "gone.txt"), nil)
	require.Error(t, outcome.Error)
	assert.Zero(t, stub.calls.Load())
}

func TestCheckFile_Binary(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "blob.txt")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x00}, 0o644))

	stub := &stubChecker{}
	outcome := runner.New(stub).CheckFile(context.Background(), path, nil)
	assert.True(t, outcome.Disabled)
	assert.Zero(t, stub.calls.Load())
}

func TestResult_NilSafe(t *testing.T) {
	t.Parallel()

	var r *runner.Result
	assert.False(t, r.HasIssues())
	assert.False(t, r.HasFailures())
}

func TestNewResult(t *testing.T) {
	t.Parallel()

	result := runner.NewResult(
		runner.FileOutcome{Path: "/a.txt", Check: check.Result{
			Outcome:     check.OutcomeChecked,
			Diagnostics: []check.Diagnostic{{Line: 1, Column: 1, Length: 3}},
		}},
		runner.FileOutcome{Path: "/b.txt", Disabled: true},
		runner.FileOutcome{Path: "/c.txt", Error: errors.New("boom")},
	)

	require.Len(t, result.Files, 3)
	assert.Equal(t, runner.Stats{
		FilesDiscovered:  3,
		FilesChecked:     1,
		FilesSkipped:     1,
		FilesErrored:     1,
		FilesWithIssues:  1,
		DiagnosticsTotal: 1,
	}, result.Stats)
	assert.True(t, result.HasIssues())
	assert.True(t, result.HasFailures())
}
