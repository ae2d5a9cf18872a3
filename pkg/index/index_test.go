package index_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prhdesc/internal/logging"
	"github.com/yaklabco/prhdesc/pkg/index"
	"github.com/yaklabco/prhdesc/pkg/rulefile"
	"github.com/yaklabco/prhdesc/pkg/sources"
)

func writeRule(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func quietBuilder() *index.Builder {
	return index.NewBuilder(logging.NewWithWriter(&bytes.Buffer{}, "debug"))
}

const specRule = `
rules:
  - specs:
      - from: テスト1
        description: 説明1
        to: 修正1
`

func TestBuild_ExplicitSpec(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "rules.yml", specRule)

	ix, err := quietBuilder().Build(context.Background(), []sources.Source{
		sources.NewSource(sources.IdentityCustom, dir, "custom"),
	})
	require.NoError(t, err)

	entries := ix.Lookup("テスト1")
	require.Len(t, entries, 1)
	assert.Equal(t, rulefile.Entry{
		From:        "テスト1",
		Description: "説明1",
		Expected:    "修正1",
		Source:      "rules.yml",
	}, entries[0])
}

func TestBuild_PatternShape(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "editors.yml", "rules:\n  - expected: VS Code\n    pattern: /VScode|VSCode|vscode/\n")

	ix, err := quietBuilder().Build(context.Background(), []sources.Source{
		sources.NewSource(sources.IdentityCustom, dir, "custom"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"VScode", "VSCode", "vscode"}, ix.Keys())
	for _, key := range ix.Keys() {
		entries := ix.Lookup(key)
		require.Len(t, entries, 1)
		assert.Equal(t, "VS Code", entries[0].Expected)
	}
}

func TestBuild_MultiSourceProvenance(t *testing.T) {
	user := t.TempDir()
	custom := t.TempDir()
	writeRule(t, user, "user.yml", "rules:\n  - specs:\n      - from: てすと\n        to: テスト\n        description: ユーザー\n")
	writeRule(t, custom, "team.yml", "rules:\n  - specs:\n      - from: てすと\n        to: テスト\n        description: チーム\n")

	ix, err := quietBuilder().Build(context.Background(), []sources.Source{
		sources.NewSource(sources.IdentityUserDefault, user, "user"),
		sources.NewSource(sources.IdentityCustom, custom, "custom"),
	})
	require.NoError(t, err)

	entries := ix.Lookup("てすと")
	require.Len(t, entries, 2)
	assert.Equal(t, "user.yml", entries[0].Source)
	assert.Equal(t, "ユーザー", entries[0].Description)
	assert.Equal(t, "team.yml", entries[1].Source)
	assert.Equal(t, "チーム", entries[1].Description)
	assert.Equal(t, 1, ix.Len())
	assert.Equal(t, 2, ix.Report().Entries)
}

func TestBuild_BundledLabel(t *testing.T) {
	bundled := sources.NewFSSource(sources.IdentityDefault, sources.BundledLabel, fstest.MapFS{
		"prh.yml": {Data: []byte(specRule)},
	})

	ix, err := quietBuilder().Build(context.Background(), []sources.Source{bundled})
	require.NoError(t, err)

	entries := ix.Lookup("テスト1")
	require.Len(t, entries, 1)
	assert.Equal(t, sources.BundledLabel, entries[0].Source)
}

func TestBuild_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "a.yml", specRule)
	writeRule(t, dir, "b.yml", "rules:\n  - expected: VS Code\n    pattern: /VScode|vscode/\n")
	srcs := []sources.Source{sources.NewSource(sources.IdentityCustom, dir, "custom")}

	first, err := quietBuilder().Build(context.Background(), srcs)
	require.NoError(t, err)
	second, err := quietBuilder().Build(context.Background(), srcs)
	require.NoError(t, err)

	assert.Equal(t, first.Entries(), second.Entries())
	assert.Equal(t, first.Report(), second.Report())
}

func TestBuild_MalformedFileIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "a-broken.yml", "rules: [unclosed")
	writeRule(t, dir, "b-good.yml", specRule)
	writeRule(t, dir, "c-norules.yml", "name: nothing\n")

	var buf bytes.Buffer
	builder := index.NewBuilder(logging.NewWithWriter(&buf, "warn"))

	ix, err := builder.Build(context.Background(), []sources.Source{
		sources.NewSource(sources.IdentityCustom, dir, "custom"),
	})
	require.NoError(t, err)

	assert.Len(t, ix.Lookup("テスト1"), 1)
	report := ix.Report()
	assert.Equal(t, 3, report.Files)
	assert.Equal(t, 2, report.FailedFiles)
	assert.Contains(t, buf.String(), "a-broken.yml")
}

func TestBuild_MissingFolders(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "a.yml", specRule)
	missing := filepath.Join(t.TempDir(), "gone")

	ix, err := quietBuilder().Build(context.Background(), []sources.Source{
		sources.NewSource(sources.IdentityUserDefault, missing, "user"),
		sources.NewSource(sources.IdentityCustom, dir, "custom"),
	})
	require.NoError(t, err)

	report := ix.Report()
	assert.Equal(t, 1, report.Folders)
	assert.Equal(t, []string{missing}, report.MissingFolders)
	assert.Equal(t, 1, ix.Len())
}

func TestBuild_NoSources(t *testing.T) {
	ix, err := quietBuilder().Build(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, ix.Len())
	assert.Empty(t, ix.Keys())
	assert.Nil(t, ix.Lookup("anything"))
}

func TestBuild_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "a.yml", specRule)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quietBuilder().Build(ctx, []sources.Source{
		sources.NewSource(sources.IdentityCustom, dir, "custom"),
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuild_RemovedFileDropsUniqueKeys(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "a.yml", "rules:\n  - specs:\n      - from: shared\n        to: S\n      - from: only-a\n        to: A\n")
	writeRule(t, dir, "b.yml", "rules:\n  - specs:\n      - from: shared\n        to: S\n")
	srcs := []sources.Source{sources.NewSource(sources.IdentityCustom, dir, "custom")}

	before, err := quietBuilder().Build(context.Background(), srcs)
	require.NoError(t, err)
	require.Len(t, before.Lookup("shared"), 2)
	require.Len(t, before.Lookup("only-a"), 1)

	require.NoError(t, os.Remove(filepath.Join(dir, "a.yml")))

	after, err := quietBuilder().Build(context.Background(), srcs)
	require.NoError(t, err)
	assert.Nil(t, after.Lookup("only-a"))
	shared := after.Lookup("shared")
	require.Len(t, shared, 1)
	assert.Equal(t, "b.yml", shared[0].Source)
}

func TestPatternKeys(t *testing.T) {
	ix := index.FromEntries([]rulefile.Entry{
		{From: "plain", Expected: "x"},
		{From: "colou?r", Expected: "color"},
		{From: "[Ww]eb", Expected: "Web"},
		{From: "a+", Expected: "a"},
		{From: "do*", Expected: "do"},
	})

	assert.Equal(t, []string{"colou?r", "[Ww]eb", "a+", "do*"}, ix.PatternKeys())
	assert.True(t, index.IsPatternKey("x*"))
	assert.False(t, index.IsPatternKey("x.y"))
}

func TestFromEntries_DropsInvalid(t *testing.T) {
	ix := index.FromEntries([]rulefile.Entry{
		{From: "", Expected: "x"},
		{From: "same", Expected: "same"},
		{From: "ok", Expected: "OK"},
	})
	assert.Equal(t, []string{"ok"}, ix.Keys())
	assert.Equal(t, 1, ix.Report().Entries)
}

func TestHolder(t *testing.T) {
	var zero index.Holder
	require.NotNil(t, zero.Load())
	assert.Zero(t, zero.Load().Len())

	h := index.NewHolder(nil)
	assert.Zero(t, h.Load().Len())

	next := index.FromEntries([]rulefile.Entry{{From: "a", Expected: "b"}})
	old := h.Swap(next)
	assert.Zero(t, old.Len())
	assert.Same(t, next, h.Load())

	h.Store(nil)
	require.NotNil(t, h.Load())
	assert.Zero(t, h.Load().Len())
}

func TestBuild_FallbackWhenSourcesEmpty(t *testing.T) {
	bundled := sources.NewFSSource(sources.IdentityDefault, sources.BundledLabel, fstest.MapFS{
		"prh.yml": {Data: []byte(specRule)},
	})
	missing := sources.NewSource(sources.IdentityDefault, filepath.Join(t.TempDir(), "absent"), "default")
	empty := sources.NewSource(sources.IdentityCustom, t.TempDir(), "custom")

	ix, err := quietBuilder().WithFallback(&bundled).Build(context.Background(), []sources.Source{missing, empty})
	require.NoError(t, err)

	entries := ix.Lookup("テスト1")
	require.Len(t, entries, 1)
	assert.Equal(t, sources.BundledLabel, entries[0].Source)
	assert.Len(t, ix.Report().MissingFolders, 1)
	assert.Equal(t, 1, ix.Report().Files)
}

func TestBuild_FallbackUnusedWhenSourcesHaveFiles(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "team.yml", "rules:\n  - specs:\n      - from: ユーザ\n        to: ユーザー\n")
	bundled := sources.NewFSSource(sources.IdentityDefault, sources.BundledLabel, fstest.MapFS{
		"prh.yml": {Data: []byte(specRule)},
	})

	ix, err := quietBuilder().WithFallback(&bundled).Build(context.Background(), []sources.Source{
		sources.NewSource(sources.IdentityCustom, dir, "custom"),
	})
	require.NoError(t, err)

	assert.Nil(t, ix.Lookup("テスト1"))
	assert.Len(t, ix.Lookup("ユーザ"), 1)
}

func TestIndex_ReturnsCopies(t *testing.T) {
	ix := index.FromEntries([]rulefile.Entry{
		{From: "colou?r", Expected: "color", Description: "original"},
	})

	ix.Lookup("colou?r")[0].Description = "changed"
	ix.PatternKeys()[0] = "changed"
	ix.Entries()[0].Entries[0].Description = "changed"

	assert.Equal(t, "original", ix.Lookup("colou?r")[0].Description)
	assert.Equal(t, []string{"colou?r"}, ix.PatternKeys())
}
