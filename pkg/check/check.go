// Package check lints single documents and publishes enriched diagnostics.
package check

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/prhdesc/internal/logging"
	"github.com/yaklabco/prhdesc/pkg/engine"
	"github.com/yaklabco/prhdesc/pkg/enrich"
	"github.com/yaklabco/prhdesc/pkg/metrics"
	"github.com/yaklabco/prhdesc/pkg/sources"
)

// ErrNoValidRuleFiles means no configured folder, nor the bundled fallback,
// yielded a rule file. Documents are skipped rather than failed.
var ErrNoValidRuleFiles = errors.New("no valid rule files")

// Outcome classifies one check.
type Outcome string

const (
	// OutcomeChecked means diagnostics were published.
	OutcomeChecked Outcome = "checked"

	// OutcomeSkipped means the document was not linted.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFailed means the engine failed; earlier diagnostics were kept.
	OutcomeFailed Outcome = "failed"
)

// Result is the outcome of checking one document.
type Result struct {
	// Path is the absolute document path.
	Path string

	// Outcome classifies the check.
	Outcome Outcome

	// Diagnostics are the published diagnostics when Outcome is OutcomeChecked.
	Diagnostics []Diagnostic

	// Err explains a skipped or failed check.
	Err error
}

// Options configures a Checker.
type Options struct {
	// Engine lints documents. Required.
	Engine engine.Engine

	// Enricher rewrites engine messages. Required.
	Enricher *enrich.Enricher

	// Sources returns the rule sources to hand to the engine.
	Sources func() []sources.Source

	// Fallback is scanned when Sources yields no rule file. Usually the
	// bundled rules; nil disables the fallback.
	Fallback *sources.Source

	// Store receives published diagnostics. Nil creates a private store.
	Store *Store

	// Logger receives check messages. Nil uses the package default.
	Logger *log.Logger

	// Metrics counts outcomes. May be nil.
	Metrics *metrics.Metrics
}

// Checker runs the engine on one document at a time and enriches the result.
// It is safe for concurrent use.
type Checker struct {
	opts   Options
	store  *Store
	logger *log.Logger
}

// New creates a Checker.
func New(opts Options) *Checker {
	store := opts.Store
	if store == nil {
		store = NewStore()
	}
	return &Checker{opts: opts, store: store, logger: logging.OrDefault(opts.Logger)}
}

// Store returns the diagnostics store the checker publishes to.
func (c *Checker) Store() *Store {
	return c.store
}

// Check lints path. Skips and engine failures are reported in the Result and
// never returned as errors; only ctx cancellation is.
func (c *Checker) Check(ctx context.Context, path string) (Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	result := Result{Path: abs}
	logger := logging.FromContext(ctx, c.logger)

	rules, err := c.ruleFiles(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("check %s: %w", path, ctx.Err())
		}
		logger.Info("skipping document", logging.FieldPath, abs, logging.FieldError, err)
		result.Outcome = OutcomeSkipped
		result.Err = err
		c.opts.Metrics.ObserveCheck(string(result.Outcome))
		return result, nil
	}

	findings, err := c.opts.Engine.Lint(ctx, abs, rules)
	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("check %s: %w", path, ctx.Err())
		}
		logger.Warn("lint engine failed", logging.FieldPath, abs, logging.FieldError, err)
		result.Outcome = OutcomeFailed
		result.Err = err
		c.opts.Metrics.ObserveCheck(string(result.Outcome))
		return result, nil
	}

	diags := make([]Diagnostic, 0, len(findings))
	for _, f := range findings {
		enriched := c.opts.Enricher.Enrich(f.Message)
		diags = append(diags, Diagnostic{
			Line:     f.Line,
			Column:   f.Column,
			Length:   f.Length(),
			Message:  enriched.Message,
			Raw:      f.Message,
			RuleID:   f.RuleID,
			Severity: enriched.Severity,
			Match:    enriched.Match,
			Key:      enriched.Key,
		})
	}

	c.store.Set(abs, diags)
	result.Outcome = OutcomeChecked
	result.Diagnostics = diags
	c.opts.Metrics.ObserveCheck(string(result.Outcome))
	return result, nil
}

// ruleFiles lists the rule files to lint with, falling back to the
// bundled rules when the configured sources have none.
func (c *Checker) ruleFiles(ctx context.Context) ([]sources.RuleFile, error) {
	var srcs []sources.Source
	if c.opts.Sources != nil {
		srcs = c.opts.Sources()
	}

	files, _, err := sources.Scan(ctx, srcs)
	if err != nil {
		return nil, err
	}
	if len(files) > 0 {
		return files, nil
	}

	if c.opts.Fallback != nil {
		files, _, err = sources.Scan(ctx, []sources.Source{*c.opts.Fallback})
		if err != nil {
			return nil, err
		}
		if len(files) > 0 {
			c.logger.Debug("using fallback rules", logging.FieldSource, c.opts.Fallback.Location())
			return files, nil
		}
	}

	return nil, ErrNoValidRuleFiles
}
