package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prhdesc/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("サーバの設定"), 0o644))

	content, info, err := fsutil.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "サーバの設定", string(content))
	require.NotNil(t, info)
	assert.Equal(t, path, info.Path)
	assert.Equal(t, int64(len(content)), info.Size)
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(dir, "missing.txt"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadFile(context.Background(), dir)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = fsutil.ReadFile(ctx, filepath.Join(dir, "any.txt"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestSameContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	ctx := context.Background()

	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))
	_, first, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)

	_, again, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.True(t, fsutil.SameContent(first, again))

	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))
	_, changed, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.False(t, fsutil.SameContent(first, changed))

	assert.False(t, fsutil.SameContent(nil, first))
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	ctx := context.Background()

	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
	require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("new"), 0))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nope", "file.txt")
	require.Error(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0))
	assert.NoFileExists(t, path)
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "file.txt")
	ctx := context.Background()

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0)
	require.NoError(t, err)
	assert.False(t, written)

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("b"), 0)
	require.NoError(t, err)
	assert.True(t, written)
}

func FuzzWriteAtomic(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("サーバ => サーバー\n"))
	f.Add([]byte("\x00\x01\x02"))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "fuzz.txt")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, content, 0))

		got, _, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, len(content), len(got))
	})
}
