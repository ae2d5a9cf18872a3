package rulefile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/prhdesc/pkg/rulefile"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantBody string
		wantOK   bool
	}{
		{name: "simple", raw: "/VScode|vscode/", wantBody: "VScode|vscode", wantOK: true},
		{name: "trailing flags ignored", raw: "/github/i", wantBody: "github", wantOK: true},
		{name: "escaped delimiter", raw: `/a\/b|c/`, wantBody: `a\/b|c`, wantOK: true},
		{name: "leading text", raw: "x/abc/", wantBody: "abc", wantOK: true},
		{name: "no delimiters", raw: "VScode", wantOK: false},
		{name: "single delimiter", raw: "/VScode", wantOK: false},
		{name: "empty body", raw: "//", wantBody: "", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rulefile.ParsePattern(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantBody, got.Body)
		})
	}
}

func TestPattern_Alternatives(t *testing.T) {
	p := rulefile.Pattern{Body: "a|b|c"}
	assert.Equal(t, []string{"a", "b", "c"}, p.Alternatives())

	single := rulefile.Pattern{Body: "abc"}
	assert.Equal(t, []string{"abc"}, single.Alternatives())
}

func TestStripGroups(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "(?:Java)Script", want: "JavaScript"},
		{in: "((nested)group)", want: "nestedgroup"},
		{in: "(?:a(?:b)c)", want: "abc"},
		{in: `and\/or`, want: "and/or"},
		{in: "plain", want: "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, rulefile.StripGroups(tt.in))
		})
	}
}

func TestVariants(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		want     []string
	}{
		{
			name:     "alternation",
			raw:      "/VScode|VSCode|vscode/",
			expected: "VS Code",
			want:     []string{"VScode", "VSCode", "vscode"},
		},
		{
			name:     "drops expected",
			raw:      "/Github|GitHub|github/",
			expected: "GitHub",
			want:     []string{"Github", "github"},
		},
		{
			name:     "no alternation",
			raw:      "/javascript/",
			expected: "JavaScript",
			want:     []string{"javascript"},
		},
		{
			name:     "groups stripped",
			raw:      "/(?:java)script|Java(script)/i",
			expected: "JavaScript",
			want:     []string{"javascript", "Javascript"},
		},
		{
			name:     "empty alternatives dropped",
			raw:      "/a||b|/",
			expected: "c",
			want:     []string{"a", "b"},
		},
		{
			name:     "no delimiters",
			raw:      "vscode",
			expected: "VS Code",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rulefile.Variants(tt.raw, tt.expected))
		})
	}
}

func TestVariants_IgnoresFlags(t *testing.T) {
	assert.Equal(t, []string{"github", "Github"}, rulefile.Variants("/github|Github/i", "GitHub"))
}
