// Package rulefile parses prh-style YAML rule files into normalized entries.
//
// Two rule shapes are understood. The explicit-spec shape lists the undesired
// text directly:
//
//	rules:
//	  - expected: サーバー
//	    specs:
//	      - from: サーバ
//	        description: 長音符を省略しない
//
// The pattern shape gives a delimited pattern whose alternatives are the
// undesired variants:
//
//	rules:
//	  - expected: VS Code
//	    pattern: /VScode|VSCode|vscode/
package rulefile

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultDescription stands in for rules that carry no description.
const DefaultDescription = "no description"

// ErrMalformedRuleFile is returned when a file is not YAML or has no rules list.
var ErrMalformedRuleFile = errors.New("malformed rule file")

// Entry is one normalized, indexable rule description.
type Entry struct {
	// From is the undesired text variant; the index key.
	From string `json:"from"`

	// Description explains the rule.
	Description string `json:"description"`

	// Expected is the suggested replacement.
	Expected string `json:"expected"`

	// Source is the provenance label of the file that contributed the entry.
	Source string `json:"source"`
}

// Result is the outcome of parsing one file.
type Result struct {
	// Entries are the emitted entries in encounter order.
	Entries []Entry

	// Rules is the number of rule nodes seen.
	Rules int

	// Skipped is the number of rules that matched neither shape.
	Skipped int
}

type document struct {
	Rules yaml.Node `yaml:"rules"`
}

type rawSpec struct {
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	Description string `yaml:"description"`
}

// Specs stay undecoded so that one badly typed spec does not cost the rule
// its other specs.
type rawRule struct {
	Expected    string      `yaml:"expected"`
	Pattern     yaml.Node   `yaml:"pattern"`
	Description string      `yaml:"description"`
	Specs       []yaml.Node `yaml:"specs"`
}

// Parse decodes content and emits entries labelled with source.
// A file that fails to decode or lacks a rules sequence yields no entries and
// an error wrapping ErrMalformedRuleFile. Individual rules that match neither
// shape are skipped without error, as are specs that fail to decode.
func Parse(content []byte, source string) (Result, error) {
	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedRuleFile, err)
	}
	if doc.Rules.Kind != yaml.SequenceNode {
		return Result{}, fmt.Errorf("%w: no rules list", ErrMalformedRuleFile)
	}

	var result Result
	for _, node := range doc.Rules.Content {
		result.Rules++

		var rule rawRule
		if err := node.Decode(&rule); err != nil {
			result.Skipped++
			continue
		}

		entries, ok := rule.entries(source)
		if !ok {
			result.Skipped++
			continue
		}
		result.Entries = append(result.Entries, entries...)
	}

	return result, nil
}

// entries normalizes one rule. It returns false when the rule matches neither shape.
func (r rawRule) entries(source string) ([]Entry, bool) {
	switch {
	case len(r.Specs) > 0:
		return r.specEntries(source), true
	case r.Expected != "" && len(r.patterns()) > 0:
		return r.patternEntries(source), true
	default:
		return nil, false
	}
}

func (r rawRule) specEntries(source string) []Entry {
	var out []Entry
	for i := range r.Specs {
		var spec rawSpec
		if err := r.Specs[i].Decode(&spec); err != nil || spec.From == "" {
			continue
		}
		expected := firstNonEmpty(spec.To, r.Expected)
		if spec.From == expected {
			continue
		}
		out = append(out, Entry{
			From:        spec.From,
			Description: firstNonEmpty(spec.Description, r.Description, DefaultDescription),
			Expected:    expected,
			Source:      source,
		})
	}
	return out
}

func (r rawRule) patternEntries(source string) []Entry {
	var out []Entry
	for _, raw := range r.patterns() {
		for _, variant := range Variants(raw, r.Expected) {
			out = append(out, Entry{
				From:        variant,
				Description: firstNonEmpty(r.Description, DefaultDescription),
				Expected:    r.Expected,
				Source:      source,
			})
		}
	}
	return out
}

// patterns returns the rule's pattern strings; prh accepts a scalar or a list.
func (r rawRule) patterns() []string {
	switch r.Pattern.Kind {
	case yaml.ScalarNode:
		if r.Pattern.Value == "" {
			return nil
		}
		return []string{r.Pattern.Value}
	case yaml.SequenceNode:
		var out []string
		for _, item := range r.Pattern.Content {
			if item.Kind == yaml.ScalarNode && item.Value != "" {
				out = append(out, item.Value)
			}
		}
		return out
	default:
		return nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
