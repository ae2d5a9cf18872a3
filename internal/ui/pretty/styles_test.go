package pretty_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/prhdesc/internal/ui/pretty"
)

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name string
		mode string
		want bool
	}{
		{"always", "always", true},
		{"never", "never", false},
		{"auto with buffer", "auto", false},
		{"empty with buffer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pretty.IsColorEnabled(tt.mode, &buf))
		})
	}
}

func TestIsColorEnabled_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("auto", &buf))
	assert.True(t, pretty.IsColorEnabled("always", &buf))
}

func TestNewStyles_NoColorIsPlain(t *testing.T) {
	styles := pretty.NewStyles(false)
	assert.Equal(t, "hello", styles.Error.Render("hello"))
	assert.Equal(t, "file.txt", styles.FilePath.Render("file.txt"))
}
