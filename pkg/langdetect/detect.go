// Package langdetect maps documents to editor-style language identifiers
// ("plaintext", "markdown", ...) so file types can be enabled or disabled by
// name in configuration.
package langdetect

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// PlainText is the identifier for plain prose documents.
const PlainText = "plaintext"

// preferred breaks extension ties in favour of prose formats.
var preferred = []string{
	"Text",
	"Markdown",
	"reStructuredText",
	"AsciiDoc",
	"Org",
	"TeX",
	"HTML",
}

// ids holds identifiers that do not follow the lowercase rule.
var ids = map[string]string{
	"Text":             PlainText,
	"Shell":            "shellscript",
	"C++":              "cpp",
	"C#":               "csharp",
	"Objective-C":      "objective-c",
	"TeX":              "latex",
	"reStructuredText": "restructuredtext",
}

// LanguageID returns the identifier of the document at path. Binary content
// yields "". Unknown text formats are treated as plain text.
func LanguageID(path string, content []byte) string {
	if len(content) > 0 && enry.IsBinary(content) {
		return ""
	}

	if lang, safe := enry.GetLanguageByFilename(filepath.Base(path)); safe {
		return Normalize(lang)
	}

	candidates := enry.GetLanguagesByExtension(path, content, nil)
	switch len(candidates) {
	case 0:
		return PlainText
	case 1:
		return Normalize(candidates[0])
	}

	for _, lang := range preferred {
		if slices.Contains(candidates, lang) {
			return Normalize(lang)
		}
	}

	if lang, _ := enry.GetLanguageByClassifier(content, candidates); lang != "" {
		return Normalize(lang)
	}
	return Normalize(candidates[0])
}

// Normalize converts a linguist language name to an identifier.
func Normalize(lang string) string {
	if id, ok := ids[lang]; ok {
		return id
	}
	return strings.ReplaceAll(strings.ToLower(lang), " ", "-")
}

// Known reports whether id is an identifier LanguageID can return.
func Known(id string) bool {
	for _, known := range ids {
		if known == id {
			return true
		}
	}
	lang, ok := enry.GetLanguageByAlias(id)
	return ok && Normalize(lang) == id
}
