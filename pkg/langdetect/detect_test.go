package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/prhdesc/pkg/langdetect"
)

func TestLanguageID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		content  string
		expected string
	}{
		{name: "text file", path: "notes.txt", content: "サーバの設定", expected: "plaintext"},
		{name: "markdown", path: "README.md", content: "# Title\n\nBody\n", expected: "markdown"},
		{name: "shell", path: "build.sh", content: "echo hi\n", expected: "shellscript"},
		{name: "dockerfile", path: "Dockerfile", content: "FROM alpine\n", expected: "dockerfile"},
		{name: "no extension", path: "journal", content: "just words", expected: "plaintext"},
		{name: "empty", path: "empty.txt", content: "", expected: "plaintext"},
		{name: "binary", path: "blob.bin", content: "\x00\x01\x02\x00", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, langdetect.LanguageID(tt.path, []byte(tt.content)))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang     string
		expected string
	}{
		{lang: "Text", expected: "plaintext"},
		{lang: "Markdown", expected: "markdown"},
		{lang: "Shell", expected: "shellscript"},
		{lang: "reStructuredText", expected: "restructuredtext"},
		{lang: "C++", expected: "cpp"},
		{lang: "Vim Help File", expected: "vim-help-file"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, langdetect.Normalize(tt.lang))
		})
	}
}

func BenchmarkLanguageID(b *testing.B) {
	content := []byte("サーバの設定を確認してください。\n")
	for range b.N {
		langdetect.LanguageID("notes.txt", content)
	}
}

func TestKnown(t *testing.T) {
	t.Parallel()

	assert.True(t, langdetect.Known("plaintext"))
	assert.True(t, langdetect.Known("markdown"))
	assert.True(t, langdetect.Known("shellscript"))
	assert.False(t, langdetect.Known("not-a-language"))
	assert.False(t, langdetect.Known("Markdown"), "identifiers are lowercase")
}
