package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/prhdesc/internal/ui/pretty"
)

func TestTableFormatter_Format(t *testing.T) {
	f := pretty.NewTableFormatter(pretty.NewStyles(false), 80)

	out := f.Format(pretty.Table{
		Headers: []string{"KEY", "EXPECTED"},
		Rows: [][]string{
			{"jquery", "jQuery"},
			{"ウィンドウ", "ウインドウ"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Len(t, lines, 5)
	assert.Equal(t, "KEY         EXPECTED", lines[0])
	assert.Equal(t, "jquery      jQuery", lines[2])
	assert.Equal(t, "ウィンドウ  ウインドウ", lines[3])
	assert.Equal(t, lines[1], lines[4])
}

func TestTableFormatter_TruncatesLastColumn(t *testing.T) {
	f := pretty.NewTableFormatter(pretty.NewStyles(false), 20)

	out := f.Format(pretty.Table{
		Headers: []string{"KEY", "DESCRIPTION"},
		Rows:    [][]string{{"k", strings.Repeat("x", 40)}},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, "k     xxxxxxxxxxx...", lines[2])
}

func TestTableFormatter_Empty(t *testing.T) {
	f := pretty.NewTableFormatter(pretty.NewStyles(false), 0)
	assert.Empty(t, f.Format(pretty.Table{}))
}
