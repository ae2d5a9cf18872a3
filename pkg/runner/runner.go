package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/prhdesc/pkg/check"
	"github.com/yaklabco/prhdesc/pkg/config"
	"github.com/yaklabco/prhdesc/pkg/fsutil"
	"github.com/yaklabco/prhdesc/pkg/langdetect"
)

// Checker checks one document. *check.Checker satisfies it.
type Checker interface {
	Check(ctx context.Context, path string) (check.Result, error)
}

// Runner checks documents concurrently with a Checker.
type Runner struct {
	Checker Checker
}

// New creates a Runner.
func New(checker Checker) *Runner {
	return &Runner{Checker: checker}
}

// Run discovers documents under opts.Paths and checks them with a worker
// pool. Outcomes are ordered by path regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts.Config)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

// CheckFile gates path by language and checks it.
func (r *Runner) CheckFile(ctx context.Context, path string, cfg *config.Config) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	outcome.Content = content
	outcome.Language = langdetect.LanguageID(path, content)
	if outcome.Language == "" || (cfg != nil && !cfg.IsFileTypeEnabled(outcome.Language)) {
		outcome.Disabled = true
		return outcome
	}

	res, err := r.Checker.Check(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Check = res
	return outcome
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome, cfg *config.Config) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.CheckFile(ctx, path, cfg)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
