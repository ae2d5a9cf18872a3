package reporter_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prhdesc/pkg/index"
	"github.com/yaklabco/prhdesc/pkg/reporter"
	"github.com/yaklabco/prhdesc/pkg/rulefile"
	"github.com/yaklabco/prhdesc/pkg/sources"
)

func sampleIndex() *index.Index {
	return index.FromEntries([]rulefile.Entry{
		{From: "jquery", Expected: "jQuery", Description: "Library name", Source: "default"},
		{From: "jquery", Expected: "jQuery", Description: "Team style", Source: "team.yml"},
		{From: "ベンダ", Expected: "ベンダー", Description: "no description", Source: "team.yml"},
	})
}

func TestWriteIndex_Text(t *testing.T) {
	var buf bytes.Buffer
	err := reporter.WriteIndex(&buf, sampleIndex(), "", reporter.Options{Color: "never"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "jquery\n")
	assert.Contains(t, out, "  => jQuery [default]  Library name\n")
	assert.Contains(t, out, "  => jQuery [team.yml]  Team style\n")
	assert.Contains(t, out, "  => ベンダー [team.yml]  no description\n")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("[default]")), bytes.Index(buf.Bytes(), []byte("Team style")))
}

func TestWriteIndex_Key(t *testing.T) {
	var buf bytes.Buffer
	err := reporter.WriteIndex(&buf, sampleIndex(), "ベンダ", reporter.Options{Format: reporter.FormatJSON})
	require.NoError(t, err)

	var out reporter.IndexJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Keys, 1)
	assert.Equal(t, "ベンダ", out.Keys[0].Key)
	assert.Equal(t, "ベンダー", out.Keys[0].Entries[0].Expected)
}

func TestWriteIndex_UnknownKey(t *testing.T) {
	var buf bytes.Buffer
	err := reporter.WriteIndex(&buf, sampleIndex(), "missing", reporter.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestWriteIndex_Table(t *testing.T) {
	var buf bytes.Buffer
	err := reporter.WriteIndex(&buf, sampleIndex(), "", reporter.Options{Format: reporter.FormatTable, Color: "never"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "KEY")
	assert.Contains(t, buf.String(), "team.yml")
}

func TestWriteIndex_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := reporter.WriteIndex(&buf, index.Empty(), "", reporter.Options{Format: reporter.FormatJSON, Compact: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"keys":[]`)
}

func TestWriteSources(t *testing.T) {
	dir := t.TempDir()
	present := sources.NewSource(sources.IdentityCustom, dir, "custom")
	missing := sources.NewSource(sources.IdentityUserDefault, dir+"/nope", "user")
	files := []sources.RuleFile{
		{Source: present, Name: "a.yml"},
		{Source: present, Name: "b.yml"},
	}

	statuses := []reporter.SourceStatus{
		reporter.StatusFor(present, files),
		reporter.StatusFor(missing, files),
	}
	assert.Equal(t, 2, statuses[0].RuleFiles)
	assert.True(t, statuses[0].Exists)
	assert.False(t, statuses[1].Exists)
	assert.Zero(t, statuses[1].RuleFiles)

	var buf bytes.Buffer
	require.NoError(t, reporter.WriteSources(&buf, statuses, reporter.Options{Color: "never"}))
	assert.Contains(t, buf.String(), "missing")
	assert.Contains(t, buf.String(), string(sources.IdentityCustom))

	buf.Reset()
	require.NoError(t, reporter.WriteSources(&buf, statuses, reporter.Options{Format: reporter.FormatJSON}))
	var decoded []reporter.SourceStatus
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 2)
}
