// Package enrich rewrites raw "A => B" linter messages with the descriptions
// and provenance held in the rule index.
package enrich

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yaklabco/prhdesc/internal/logging"
	"github.com/yaklabco/prhdesc/pkg/index"
	"github.com/yaklabco/prhdesc/pkg/metrics"
	"github.com/yaklabco/prhdesc/pkg/rulefile"
)

// Separator divides the original text from the suggestion in a raw message.
const Separator = " => "

// DefaultCacheSize bounds the number of compiled fallback patterns kept.
const DefaultCacheSize = 512

// Severity classifies an enriched message. Enrichment only ever produces Info.
type Severity string

// SeverityInfo marks a style suggestion.
const SeverityInfo Severity = "info"

// Match tells how a message was attributed to index entries.
type Match string

const (
	// MatchNone means the message passed through unchanged.
	MatchNone Match = "none"

	// MatchExact means the original text was an index key.
	MatchExact Match = "exact"

	// MatchPattern means a pattern-like key matched the original text.
	MatchPattern Match = "pattern"
)

// Result is the outcome of enriching one message.
type Result struct {
	// Message is the text to display.
	Message string `json:"message"`

	// Severity is always SeverityInfo.
	Severity Severity `json:"severity"`

	// Match tells how the entries were found.
	Match Match `json:"match"`

	// Key is the index key that supplied the entries, if any.
	Key string `json:"key,omitempty"`

	// Entries are the entries used to render Message.
	Entries []rulefile.Entry `json:"entries,omitempty"`
}

// Snapshotter hands out the current index. *index.Holder satisfies it.
type Snapshotter interface {
	Load() *index.Index
}

// Options configures an Enricher.
type Options struct {
	// CacheSize bounds the compiled-pattern cache. Zero uses DefaultCacheSize.
	CacheSize int

	// Logger receives debug output. Nil uses the package default.
	Logger *log.Logger

	// Metrics counts results by match kind. May be nil.
	Metrics *metrics.Metrics
}

// Enricher renders enriched messages against the current snapshot.
// It is safe for concurrent use.
type Enricher struct {
	snapshots Snapshotter
	patterns  *lru.Cache[string, *regexp.Regexp]
	logger    *log.Logger
	metrics   *metrics.Metrics
}

// New creates an Enricher reading from snapshots.
func New(snapshots Snapshotter, opts Options) *Enricher {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, *regexp.Regexp](size)

	return &Enricher{
		snapshots: snapshots,
		patterns:  cache,
		logger:    logging.OrDefault(opts.Logger),
		metrics:   opts.Metrics,
	}
}

// Split divides raw at the first Separator. It returns false when raw has none.
func Split(raw string) (original, suggested string, ok bool) {
	return strings.Cut(raw, Separator)
}

// Enrich renders raw against the current index. Messages that are not of the
// "A => B" shape, or whose original text matches nothing, pass through.
func (e *Enricher) Enrich(raw string) Result {
	result := e.enrich(raw)
	e.metrics.ObserveEnrich(string(result.Match))
	return result
}

func (e *Enricher) enrich(raw string) Result {
	passthrough := Result{Message: raw, Severity: SeverityInfo, Match: MatchNone}

	original, _, ok := Split(raw)
	if !ok {
		return passthrough
	}

	var ix *index.Index
	if e.snapshots != nil {
		ix = e.snapshots.Load()
	}
	if ix == nil {
		return passthrough
	}

	if entries := ix.Lookup(original); len(entries) > 0 {
		return Result{
			Message:  Render(original, entries),
			Severity: SeverityInfo,
			Match:    MatchExact,
			Key:      original,
			Entries:  entries,
		}
	}

	key, entries := e.fallback(ix, original)
	if len(entries) == 0 {
		return passthrough
	}
	return Result{
		Message:  Render(original, entries),
		Severity: SeverityInfo,
		Match:    MatchPattern,
		Key:      key,
		Entries:  entries,
	}
}

// fallback tries every pattern-like key, in key order, as a regular
// expression against original. The first match wins.
func (e *Enricher) fallback(ix *index.Index, original string) (string, []rulefile.Entry) {
	for _, key := range ix.PatternKeys() {
		re := e.compile(key)
		if re == nil || !re.MatchString(original) {
			continue
		}
		if entries := ix.Lookup(key); len(entries) > 0 {
			return key, entries
		}
	}
	return "", nil
}

// compile returns the cached expression for key. Keys that fail to compile
// are cached as nil so they are not retried.
func (e *Enricher) compile(key string) *regexp.Regexp {
	if re, ok := e.patterns.Get(key); ok {
		return re
	}
	re, err := regexp.Compile(key)
	if err != nil {
		e.logger.Debug("index key is not a valid pattern", logging.FieldKey, key, logging.FieldError, err)
		re = nil
	}
	e.patterns.Add(key, re)
	return re
}

// Render formats original with the expected values and descriptions of
// entries, each tagged with its source.
//
//	A => E [S] (D [S])
//	A => E1 [S1], E2 [S2] (D1 [S1], D2 [S2])
func Render(original string, entries []rulefile.Entry) string {
	expected := make([]string, 0, len(entries))
	descriptions := make([]string, 0, len(entries))
	for _, entry := range entries {
		expected = append(expected, entry.Expected+" ["+entry.Source+"]")
		descriptions = append(descriptions, entry.Description+" ["+entry.Source+"]")
	}

	var b strings.Builder
	b.WriteString(original)
	b.WriteString(Separator)
	b.WriteString(strings.Join(expected, ", "))
	b.WriteString(" (")
	b.WriteString(strings.Join(descriptions, ", "))
	b.WriteString(")")
	return b.String()
}
