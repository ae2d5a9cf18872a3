package check

import (
	"slices"
	"sync"

	"github.com/yaklabco/prhdesc/pkg/enrich"
)

// Diagnostic is one enriched finding positioned in a document.
type Diagnostic struct {
	// Line is 1-based.
	Line int `json:"line"`

	// Column is 1-based.
	Column int `json:"column"`

	// Length is the highlighted span, at least 1.
	Length int `json:"length"`

	// Message is the enriched text.
	Message string `json:"message"`

	// Raw is the engine's original message.
	Raw string `json:"raw"`

	// RuleID names the engine rule.
	RuleID string `json:"ruleId,omitempty"`

	// Severity is always info for enriched findings.
	Severity enrich.Severity `json:"severity"`

	// Match tells how the message was attributed.
	Match enrich.Match `json:"match"`

	// Key is the index key used, if any.
	Key string `json:"key,omitempty"`
}

// Store keeps the last published diagnostics per document.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	byPath map[string][]Diagnostic
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byPath: make(map[string][]Diagnostic)}
}

// Set publishes diags for path, replacing any earlier set.
func (s *Store) Set(path string, diags []Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPath[path] = slices.Clone(diags)
}

// Get returns the diagnostics published for path.
func (s *Store) Get(path string) ([]Diagnostic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	diags, ok := s.byPath[path]
	return slices.Clone(diags), ok
}

// Delete forgets path.
func (s *Store) Delete(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byPath, path)
}

// Paths returns the documents with published diagnostics, sorted.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}
