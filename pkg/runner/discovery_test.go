package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prhdesc/pkg/runner"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("サーバ"), 0o644))
	}
	return dir
}

func abs(dir string, rel ...string) []string {
	out := make([]string, 0, len(rel))
	for _, r := range rel {
		out = append(out, filepath.Join(dir, filepath.FromSlash(r)))
	}
	return out
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := makeTree(t,
		"notes.txt",
		"docs/guide.md",
		"docs/api.markdown",
		"src/main.go",
		".hidden/secret.txt",
		"docs/.draft.txt",
	)

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "docs/api.markdown", "docs/guide.md", "notes.txt"), files)
}

func TestDiscover_SingleFileAndDedup(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "a.txt", "b.txt")

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{"a.txt", ".", filepath.Join(dir, "a.txt")},
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "a.txt", "b.txt"), files)
}

func TestDiscover_CustomExtensions(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "a.txt", "b.rst", "c.md")

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Extensions: []string{".RST"},
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "b.rst"), files)
}

func TestDiscover_Globs(t *testing.T) {
	t.Parallel()

	dir := makeTree(t,
		"keep.txt",
		"vendor/lib.txt",
		"docs/deep/skip.txt",
		"docs/keep.md",
		"CHANGELOG.md",
	)

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name:    "exclude directory",
			exclude: []string{"vendor/**"},
			want:    []string{"CHANGELOG.md", "docs/deep/skip.txt", "docs/keep.md", "keep.txt"},
		},
		{
			name:    "exclude anywhere",
			exclude: []string{"**/deep"},
			want:    []string{"CHANGELOG.md", "docs/keep.md", "keep.txt", "vendor/lib.txt"},
		},
		{
			name:    "exclude by base name",
			exclude: []string{"CHANGELOG.md", "*.txt"},
			want:    []string{"docs/keep.md"},
		},
		{
			name:    "include only docs",
			include: []string{"docs/**"},
			want:    []string{"docs/deep/skip.txt", "docs/keep.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			files, err := runner.Discover(context.Background(), runner.Options{
				WorkingDir:   dir,
				IncludeGlobs: tt.include,
				ExcludeGlobs: tt.exclude,
			})
			require.NoError(t, err)
			assert.Equal(t, abs(dir, tt.want...), files)
		})
	}
}

func TestDiscover_InvalidGlob(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "a.txt")
	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"[unclosed"},
	})
	require.Error(t, err)
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"missing.txt"},
	})
	require.Error(t, err)
}

func TestDiscover_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: makeTree(t, "a.txt")})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "real/a.txt")
	if err := os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "real/a.txt"), files)

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "real/a.txt"), files, "followed targets resolve to the same path")
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{".txt", ".md", ".markdown"}, runner.DefaultExtensions())
}

func TestNewMatcher(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	match, err := runner.NewMatcher(runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"vendor/**"},
	})
	require.NoError(t, err)

	assert.True(t, match(filepath.Join(dir, "README.md")))
	assert.True(t, match(filepath.Join(dir, "docs", "guide.txt")))
	assert.False(t, match(filepath.Join(dir, "main.go")))
	assert.False(t, match(filepath.Join(dir, "vendor", "lib.txt")))
}

func TestNewMatcher_InvalidGlob(t *testing.T) {
	t.Parallel()

	_, err := runner.NewMatcher(runner.Options{
		WorkingDir:   t.TempDir(),
		IncludeGlobs: []string{"[unclosed"},
	})
	require.Error(t, err)
}
