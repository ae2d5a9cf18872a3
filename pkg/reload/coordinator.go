// Package reload keeps the rule index current while rule folders change.
//
// A Coordinator holds one filesystem watch per existing rule folder. Any event
// that names a rule file schedules a full rebuild; rebuilds run one at a time
// on a single goroutine and bursts of events collapse into one pending
// rebuild.
package reload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/prhdesc/internal/logging"
	"github.com/yaklabco/prhdesc/pkg/index"
	"github.com/yaklabco/prhdesc/pkg/metrics"
	"github.com/yaklabco/prhdesc/pkg/sources"
)

// ErrClosed is returned by Setup after Close.
var ErrClosed = errors.New("coordinator closed")

// Builder produces a fresh index from a list of sources.
type Builder interface {
	Build(ctx context.Context, srcs []sources.Source) (*index.Index, error)
}

// Options configures a Coordinator.
type Options struct {
	// Debounce delays a scheduled rebuild so that a burst of events settles
	// first. Zero rebuilds as soon as the rebuild goroutine is free.
	Debounce time.Duration

	// Logger receives watch and rebuild messages. Nil uses the package default.
	Logger *log.Logger

	// Metrics records rebuilds and watch state. May be nil.
	Metrics *metrics.Metrics

	// OnRebuild is called with every index swapped into the holder.
	OnRebuild func(*index.Index)
}

// Coordinator owns the watch handles and the rebuild loop.
type Coordinator struct {
	builder Builder
	holder  *index.Holder
	opts    Options
	logger  *log.Logger

	mu      sync.Mutex
	handles []*handle
	srcs    []sources.Source
	closed  bool

	// buildMu serializes rebuilds from the loop and from explicit calls.
	buildMu sync.Mutex

	pending   chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	loopDone  chan struct{}
	closeOnce sync.Once
}

// handle is one held folder watch.
type handle struct {
	folder  string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New creates a Coordinator and starts its rebuild goroutine.
// Call Setup to start watching and Close to stop.
func New(builder Builder, holder *index.Holder, opts Options) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		builder:  builder,
		holder:   holder,
		opts:     opts,
		logger:   logging.OrDefault(opts.Logger),
		pending:  make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		loopDone: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Setup replaces the watched set with the folders of srcs and rebuilds.
//
// Every held handle is released before any new one is acquired. Folders that
// do not exist, and embedded sources, are scanned but not watched.
func (c *Coordinator) Setup(ctx context.Context, srcs []sources.Source) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	c.releaseLocked()
	c.acquireLocked(srcs)
	c.srcs = append([]sources.Source(nil), srcs...)
	watched := len(c.handles)
	c.mu.Unlock()

	c.opts.Metrics.SetWatchHandles(watched)
	c.logger.Debug("rule folders watched", logging.FieldWatches, watched)

	return c.Rebuild(ctx)
}

// Rebuild builds a new index from the current sources and swaps it in.
// On failure the previous snapshot stays in place.
func (c *Coordinator) Rebuild(ctx context.Context) error {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	c.mu.Lock()
	srcs := c.srcs
	c.mu.Unlock()

	start := time.Now()
	ix, err := c.builder.Build(ctx, srcs)
	elapsed := time.Since(start)

	if err != nil {
		c.opts.Metrics.ObserveRebuild(elapsed, err, metrics.IndexStats{})
		c.logger.Warn("rule index rebuild failed", logging.FieldError, err)
		return fmt.Errorf("rebuild index: %w", err)
	}

	report := ix.Report()
	c.opts.Metrics.ObserveRebuild(elapsed, nil, metrics.IndexStats{
		Keys:           report.Keys,
		Entries:        report.Entries,
		MissingFolders: len(report.MissingFolders),
		FailedFiles:    report.FailedFiles,
	})

	c.holder.Store(ix)
	c.logger.Debug("rule index swapped",
		logging.FieldKeys, report.Keys,
		logging.FieldEntries, report.Entries,
		logging.FieldDuration, elapsed,
	)

	if c.opts.OnRebuild != nil {
		c.opts.OnRebuild(ix)
	}
	return nil
}

// Sources returns the sources of the last Setup.
func (c *Coordinator) Sources() []sources.Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sources.Source(nil), c.srcs...)
}

// Watched returns the folders currently watched, in source order.
func (c *Coordinator) Watched() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	folders := make([]string, 0, len(c.handles))
	for _, h := range c.handles {
		folders = append(folders, h.folder)
	}
	return folders
}

// Close releases every watch handle and stops the rebuild goroutine.
// It is safe to call more than once.
func (c *Coordinator) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.releaseLocked()
		c.mu.Unlock()

		c.cancel()
		<-c.loopDone
		c.opts.Metrics.SetWatchHandles(0)
	})
	return nil
}

// schedule requests a rebuild. A request made while one is already pending
// is absorbed by it.
func (c *Coordinator) schedule() {
	select {
	case c.pending <- struct{}{}:
	default:
	}
}

func (c *Coordinator) loop() {
	defer close(c.loopDone)

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.pending:
		}

		if c.opts.Debounce > 0 {
			timer := time.NewTimer(c.opts.Debounce)
			select {
			case <-c.ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			// Requests that arrived during the delay are covered by this rebuild.
			select {
			case <-c.pending:
			default:
			}
		}

		if err := c.Rebuild(c.ctx); err != nil && c.ctx.Err() != nil {
			return
		}
	}
}

// releaseLocked closes every handle and waits for its event goroutine.
// c.mu must be held.
func (c *Coordinator) releaseLocked() {
	for _, h := range c.handles {
		if err := h.watcher.Close(); err != nil {
			c.logger.Warn("closing folder watch", logging.FieldFolder, h.folder, logging.FieldError, err)
		}
		<-h.done
	}
	c.handles = nil
}

// acquireLocked opens one handle per existing on-disk folder in srcs.
// c.mu must be held.
func (c *Coordinator) acquireLocked(srcs []sources.Source) {
	for _, src := range srcs {
		if src.Embedded() {
			continue
		}
		if !src.Exists() {
			c.logger.Debug("not watching missing rule folder",
				logging.FieldSource, string(src.Identity),
				logging.FieldFolder, src.Dir,
			)
			continue
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			c.logger.Warn("cannot create folder watch", logging.FieldFolder, src.Dir, logging.FieldError, err)
			continue
		}
		if err := watcher.Add(src.Dir); err != nil {
			_ = watcher.Close()
			c.logger.Warn("cannot watch rule folder", logging.FieldFolder, src.Dir, logging.FieldError, err)
			continue
		}

		h := &handle{folder: src.Dir, watcher: watcher, done: make(chan struct{})}
		go c.watch(h)
		c.handles = append(c.handles, h)
	}
}

// watch forwards rule-file events from one handle until it is closed.
func (c *Coordinator) watch(h *handle) {
	defer close(h.done)

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if !sources.IsRuleFile(filepath.Base(event.Name)) {
				continue
			}
			c.opts.Metrics.ObserveWatchEvent(event.Op.String())
			c.logger.Debug("rule file changed",
				logging.FieldPath, event.Name,
				logging.FieldEvent, event.Op.String(),
			)
			c.schedule()

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("folder watch error", logging.FieldFolder, h.folder, logging.FieldError, err)
		}
	}
}
