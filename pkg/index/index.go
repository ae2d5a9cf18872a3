// Package index builds and holds the merged rule description index.
//
// An Index is an immutable snapshot: once built it is never modified, and a
// rebuild produces a new Index that replaces the old one in a Holder.
package index

import (
	"slices"
	"strings"

	"github.com/yaklabco/prhdesc/pkg/rulefile"
)

// patternChars mark keys that are tried as regular expressions during
// fallback enrichment.
const patternChars = "[+*?"

// Report summarises one build.
type Report struct {
	// Folders is the number of folders scanned.
	Folders int `json:"folders"`

	// MissingFolders lists folders that could not be read.
	MissingFolders []string `json:"missingFolders,omitempty"`

	// Files is the number of rule files found.
	Files int `json:"files"`

	// FailedFiles is the number of files that could not be read or parsed.
	FailedFiles int `json:"failedFiles"`

	// Entries is the total number of entries in the index.
	Entries int `json:"entries"`

	// Keys is the number of distinct keys in the index.
	Keys int `json:"keys"`
}

// Index maps undesired text variants to their rule entries.
type Index struct {
	keys        []string
	entries     map[string][]rulefile.Entry
	patternKeys []string
	report      Report
}

// Empty returns an index with no keys.
func Empty() *Index {
	return &Index{entries: map[string][]rulefile.Entry{}}
}

// Lookup returns a copy of the entries for key in arrival order, or nil.
func (ix *Index) Lookup(key string) []rulefile.Entry {
	if ix == nil {
		return nil
	}
	return slices.Clone(ix.entries[key])
}

// Keys returns the keys in first-arrival order.
func (ix *Index) Keys() []string {
	if ix == nil {
		return nil
	}
	return slices.Clone(ix.keys)
}

// PatternKeys returns the keys that look like regular expressions, in key order.
func (ix *Index) PatternKeys() []string {
	if ix == nil {
		return nil
	}
	return slices.Clone(ix.patternKeys)
}

// Len returns the number of keys.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.keys)
}

// Report returns the summary of the build that produced the index.
func (ix *Index) Report() Report {
	if ix == nil {
		return Report{}
	}
	return ix.report
}

// KeyEntries pairs a key with its entries.
type KeyEntries struct {
	Key     string           `json:"key"`
	Entries []rulefile.Entry `json:"entries"`
}

// Entries walks the index in key order.
func (ix *Index) Entries() []KeyEntries {
	if ix == nil {
		return nil
	}
	out := make([]KeyEntries, 0, len(ix.keys))
	for _, key := range ix.keys {
		out = append(out, KeyEntries{Key: key, Entries: slices.Clone(ix.entries[key])})
	}
	return out
}

// IsPatternKey reports whether key contains a regular-expression metacharacter
// used to select fallback candidates.
func IsPatternKey(key string) bool {
	return strings.ContainsAny(key, patternChars)
}

// accumulator folds entries into a new Index.
type accumulator struct {
	keys    []string
	entries map[string][]rulefile.Entry
	count   int
}

func newAccumulator() *accumulator {
	return &accumulator{entries: map[string][]rulefile.Entry{}}
}

func (a *accumulator) add(entries []rulefile.Entry) {
	for _, e := range entries {
		if e.From == "" || e.From == e.Expected {
			continue
		}
		if _, seen := a.entries[e.From]; !seen {
			a.keys = append(a.keys, e.From)
		}
		a.entries[e.From] = append(a.entries[e.From], e)
		a.count++
	}
}

func (a *accumulator) finish(report Report) *Index {
	var patternKeys []string
	for _, key := range a.keys {
		if IsPatternKey(key) {
			patternKeys = append(patternKeys, key)
		}
	}

	report.Entries = a.count
	report.Keys = len(a.keys)

	return &Index{
		keys:        a.keys,
		entries:     a.entries,
		patternKeys: patternKeys,
		report:      report,
	}
}
