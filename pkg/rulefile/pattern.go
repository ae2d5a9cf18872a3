package rulefile

import "strings"

// Pattern is a delimited pattern such as "/VScode|vscode/". Anything after
// the closing delimiter is ignored: index keys are literal variants, and the
// enrichment fallback compiles keys without flags.
type Pattern struct {
	// Body is the text between the delimiters.
	Body string
}

// ParsePattern extracts the body between the first pair of unescaped "/"
// delimiters. It returns false when raw has no such pair.
func ParsePattern(raw string) (Pattern, bool) {
	open := indexUnescaped(raw, 0)
	if open < 0 {
		return Pattern{}, false
	}
	closing := indexUnescaped(raw, open+1)
	if closing < 0 {
		return Pattern{}, false
	}
	return Pattern{Body: raw[open+1 : closing]}, true
}

// indexUnescaped returns the index of the first "/" at or after start that is
// not preceded by a backslash, or -1.
func indexUnescaped(s string, start int) int {
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '/':
			return i
		}
	}
	return -1
}

// Alternatives splits the body on "|". A body without alternation yields
// itself as the single alternative.
func (p Pattern) Alternatives() []string {
	return strings.Split(p.Body, "|")
}

// StripGroups removes grouping syntax from s: "(?:" markers and every "(" or
// ")" character, nested groups included. An escaped "/" becomes "/".
func StripGroups(s string) string {
	s = strings.ReplaceAll(s, "(?:", "")
	s = strings.NewReplacer("(", "", ")", "", `\/`, "/").Replace(s)
	return s
}

// Variants derives the literal undesired variants of a pattern-shape rule.
// Empty variants and variants equal to expected are dropped.
func Variants(raw, expected string) []string {
	pattern, ok := ParsePattern(raw)
	if !ok {
		return nil
	}

	var variants []string
	for _, alt := range pattern.Alternatives() {
		variant := StripGroups(alt)
		if variant == "" || variant == expected {
			continue
		}
		variants = append(variants, variant)
	}
	return variants
}
