package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/yaklabco/prhdesc/internal/configloader"
	"github.com/yaklabco/prhdesc/internal/logging"
	"github.com/yaklabco/prhdesc/pkg/fsutil"
	"github.com/yaklabco/prhdesc/pkg/index"
	"github.com/yaklabco/prhdesc/pkg/metrics"
	"github.com/yaklabco/prhdesc/pkg/reload"
	"github.com/yaklabco/prhdesc/pkg/reporter"
	"github.com/yaklabco/prhdesc/pkg/runner"
	"github.com/yaklabco/prhdesc/pkg/sources"
)

const metricsShutdownTimeout = 5 * time.Second

type watchFlags struct {
	rulesFolder string
	ignore      []string
	extensions  []string
	checkOnSave bool
	debounce    time.Duration
	resync      string
	metricsAddr string
	noContext   bool
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Keep the rule index live and re-check documents on save",
		Long:  watchLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.rulesFolder, "rules-folder", "", "custom rule folder")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "document extensions to check (default .txt,.md,.markdown)")
	cmd.Flags().BoolVar(&flags.checkOnSave, "check-on-save", false, "re-check documents when they are written")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", 100*time.Millisecond, "delay before rebuilding after a rule file changes")
	cmd.Flags().StringVar(&flags.resync, "resync", "", "cron schedule for re-resolving rule folders (e.g. \"@every 10m\")")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")

	return cmd
}

const watchLongDescription = `Check documents once, then keep running: rule folders are watched and the
description index is rebuilt whenever a rule file changes. With check_on_save
enabled, documents are re-checked each time they are written. Edits to the
configuration file reload it and re-resolve the rule folders.

Examples:
  prhdesc watch --check-on-save docs/
  prhdesc watch --resync "@every 10m"        # pick up newly created folders
  prhdesc watch --metrics-addr :9090         # expose /metrics`

func (f *watchFlags) overrides(cmd *cobra.Command) *configloader.Overrides {
	o := &configloader.Overrides{}
	if cmd.Flags().Changed("rules-folder") {
		o.RulesFolder = &f.rulesFolder
	}
	if cmd.Flags().Changed("ignore") {
		o.Ignore = f.ignore
	}
	if cmd.Flags().Changed("check-on-save") {
		o.CheckOnSave = &f.checkOnSave
	}
	return o
}

// watchHost serializes document, configuration and resync events. Rule-file
// events are handled by the Coordinator on its own goroutine.
type watchHost struct {
	cmd       *cobra.Command
	args      []string
	flags     *watchFlags
	overrides *configloader.Overrides
	metrics   *metrics.Metrics

	mu       sync.Mutex
	sess     *session
	coord    *reload.Coordinator
	pipeline *pipeline
	runner   *runner.Runner
	match    func(string) bool
	seen     map[string]*fsutil.FileInfo
}

func runWatch(cmd *cobra.Command, args []string, flags *watchFlags) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	overrides := flags.overrides(cmd)
	sess, err := newSession(cmd, overrides)
	if err != nil {
		return err
	}

	host := &watchHost{
		cmd:       cmd,
		args:      args,
		flags:     flags,
		overrides: overrides,
		sess:      sess,
		seen:      make(map[string]*fsutil.FileInfo),
	}

	if flags.metricsAddr != "" {
		registry := prometheus.NewRegistry()
		host.metrics = metrics.New(registry)
		srv := serveMetrics(flags.metricsAddr, registry, sess)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				sess.logger.Warn("metrics server shutdown failed", logging.FieldError, err)
			}
		}()
	}

	var coord *reload.Coordinator
	host.pipeline = sess.newPipeline(func() []sources.Source { return coord.Sources() }, host.metrics)
	coord = reload.New(index.NewBuilder(sess.logger).WithFallback(sess.fallback()), host.pipeline.holder, reload.Options{
		Debounce: flags.debounce,
		Logger:   sess.logger,
		Metrics:  host.metrics,
		OnRebuild: func(ix *index.Index) {
			report := ix.Report()
			sess.logger.Info("rule index rebuilt",
				logging.FieldKeys, report.Keys,
				logging.FieldEntries, report.Entries,
				logging.FieldFailedFiles, report.FailedFiles,
			)
		},
	})
	defer coord.Close()
	host.coord = coord
	host.runner = runner.New(host.pipeline.checker)

	if err := coord.Setup(ctx, sess.sources()); err != nil {
		return fmt.Errorf("initial index build: %w", err)
	}
	for _, folder := range coord.Watched() {
		sess.logger.Debug("watching rule folder", logging.FieldFolder, folder)
	}

	match, err := runner.NewMatcher(host.runOptions())
	if err != nil {
		return err
	}
	host.match = match

	result, err := host.runner.Run(ctx, host.runOptions())
	if err != nil {
		return errors.Join(errors.New("check run failed"), err)
	}
	if err := host.report(ctx, result, true); err != nil {
		return err
	}

	docs, err := reload.WatchDocuments(reload.DocumentOptions{
		Dirs:        host.documentDirs(result),
		IsDocument:  host.isDocument,
		ConfigFiles: sess.loaded.Paths.All(),
		Logger:      sess.logger,
	})
	if err != nil {
		return fmt.Errorf("watch documents: %w", err)
	}
	defer docs.Close()

	if flags.resync != "" {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(flags.resync, func() { host.resync(ctx) }); err != nil {
			return fmt.Errorf("invalid resync schedule %q: %w", flags.resync, err)
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		sess.logger.Debug("resync scheduled", logging.FieldSchedule, flags.resync)
	}

	sess.logger.Info("watching for changes",
		logging.FieldWatches, len(docs.Watched()),
		logging.FieldCheckOnSave, sess.cfg.CheckOnSave,
	)

	for {
		select {
		case <-ctx.Done():
			sess.logger.Debug("watch stopped")
			return nil
		case ev, ok := <-docs.Events():
			if !ok {
				return nil
			}
			host.handle(ctx, ev)
		}
	}
}

func serveMetrics(addr string, registry *prometheus.Registry, sess *session) *http.Server {
	mux := http.NewServeMux()
	metrics.RegisterEndpoint(mux, registry)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sess.logger.Error("metrics server failed", logging.FieldAddr, addr, logging.FieldError, err)
		}
	}()
	sess.logger.Info("serving metrics", logging.FieldAddr, addr)
	return srv
}

func (h *watchHost) runOptions() runner.Options {
	return runner.Options{
		Paths:        h.args,
		WorkingDir:   h.sess.workDir,
		Extensions:   h.flags.extensions,
		ExcludeGlobs: h.sess.cfg.Ignore,
		Jobs:         h.sess.cfg.Jobs,
		Config:       h.sess.cfg,
	}
}

// isDocument is consulted from the document watcher goroutine.
func (h *watchHost) isDocument(path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.match(path)
}

// documentDirs returns the folders holding the checked documents plus every
// folder named on the command line.
func (h *watchHost) documentDirs(result *runner.Result) []string {
	var dirs []string
	for _, file := range result.Files {
		dirs = append(dirs, filepath.Dir(file.Path))
	}

	paths := h.args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(h.sess.workDir, path)
		}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			dirs = append(dirs, filepath.Clean(path))
		}
	}

	slices.Sort(dirs)
	return slices.Compact(dirs)
}

func (h *watchHost) handle(ctx context.Context, ev reload.DocumentEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.metrics.ObserveWatchEvent(string(ev.Kind))
	ctx = logging.WithFields(ctx, h.sess.logger, logging.FieldEvent, ev.Kind)
	logging.FromContext(ctx, nil).Debug("watch event", logging.FieldPath, ev.Path)

	switch ev.Kind {
	case reload.EventConfig:
		h.reloadConfig(ctx)
	case reload.EventDocument:
		h.recheck(ctx, ev.Path)
	}
}

// recheck checks path again if its content changed since the last check.
// Must be called with h.mu held.
func (h *watchHost) recheck(ctx context.Context, path string) {
	if !h.sess.cfg.CheckOnSave {
		return
	}

	_, info, err := fsutil.ReadFile(ctx, path)
	if errors.Is(err, fsutil.ErrNotFound) {
		if abs, absErr := filepath.Abs(path); absErr == nil {
			h.pipeline.checker.Store().Delete(abs)
		}
		delete(h.seen, path)
		return
	}
	if err != nil {
		h.sess.logger.Debug("document not readable", logging.FieldPath, path, logging.FieldError, err)
		return
	}
	if fsutil.SameContent(h.seen[path], info) {
		return
	}
	h.seen[path] = info

	outcome := h.runner.CheckFile(ctx, path, h.sess.cfg)
	if err := h.report(ctx, runner.NewResult(outcome), false); err != nil {
		h.sess.logger.Warn("report failed", logging.FieldPath, path, logging.FieldError, err)
	}
}

// reloadConfig re-reads configuration and re-resolves the rule folders.
// A configuration that fails to load leaves the running one in place.
// Must be called with h.mu held.
func (h *watchHost) reloadConfig(ctx context.Context) {
	if err := h.sess.reload(ctx, h.overrides); err != nil {
		h.sess.logger.Warn("configuration reload failed, keeping previous", logging.FieldError, err)
		return
	}

	match, err := runner.NewMatcher(h.runOptions())
	if err != nil {
		h.sess.logger.Warn("invalid ignore patterns", logging.FieldError, err)
	} else {
		h.match = match
	}

	checker := h.sess.newChecker(h.pipeline.enricher, h.coord.Sources, h.metrics)
	h.pipeline.checker = checker
	h.runner = runner.New(checker)
	clear(h.seen)

	if err := h.coord.Setup(ctx, h.sess.sources()); err != nil && !errors.Is(err, reload.ErrClosed) {
		h.sess.logger.Warn("rule folder setup failed", logging.FieldError, err)
		return
	}
	h.sess.logger.Info("configuration reloaded",
		logging.FieldRulesFolder, h.sess.cfg.RulesFolder,
		logging.FieldCheckOnSave, h.sess.cfg.CheckOnSave,
	)
}

// resync re-resolves rule folders so that folders created since the last
// Setup start being watched.
func (h *watchHost) resync(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	if err := h.coord.Setup(ctx, h.sess.sources()); err != nil && !errors.Is(err, reload.ErrClosed) {
		h.sess.logger.Warn("scheduled resync failed", logging.FieldError, err)
		return
	}
	h.sess.logger.Debug("rule folders resynced", logging.FieldWatches, len(h.coord.Watched()))
}

func (h *watchHost) report(ctx context.Context, result *runner.Result, summary bool) error {
	format, err := reporter.ParseFormat(string(h.sess.cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	format = reporter.Streaming(format)

	rep, err := reporter.New(reporter.Options{
		Writer:      h.cmd.OutOrStdout(),
		Format:      format,
		Color:       h.sess.color,
		ShowContext: !h.flags.noContext,
		ShowSummary: summary,
		Compact:     format == reporter.FormatJSON,
		WorkingDir:  h.sess.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}
