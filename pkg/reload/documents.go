package reload

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/prhdesc/internal/logging"
)

// EventKind classifies a DocumentEvent.
type EventKind string

const (
	// EventDocument is a write to a document.
	EventDocument EventKind = "document"

	// EventConfig is a write to a configuration file.
	EventConfig EventKind = "config"
)

// DocumentEvent reports that a watched file was written or created.
type DocumentEvent struct {
	Path string
	Kind EventKind
}

// DocumentOptions configures a DocumentWatcher.
type DocumentOptions struct {
	// Dirs are the folders holding documents. They are watched non-recursively.
	Dirs []string

	// IsDocument filters document events. Nil accepts every file.
	IsDocument func(path string) bool

	// ConfigFiles are configuration files to report as EventConfig. Their
	// folders are watched so that editors replacing the file are seen.
	ConfigFiles []string

	// Logger receives watch errors. Nil uses the package default.
	Logger *log.Logger
}

// DocumentWatcher turns filesystem notifications for documents and
// configuration files into DocumentEvents.
type DocumentWatcher struct {
	watcher    *fsnotify.Watcher
	isDocument func(string) bool
	configs    map[string]struct{}
	logger     *log.Logger
	events     chan DocumentEvent
	stop       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

// WatchDocuments starts watching. Folders that cannot be watched are logged
// and skipped; an error is returned only when nothing can be watched.
func WatchDocuments(opts DocumentOptions) (*DocumentWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create document watch: %w", err)
	}

	w := &DocumentWatcher{
		watcher:    watcher,
		isDocument: opts.IsDocument,
		configs:    make(map[string]struct{}, len(opts.ConfigFiles)),
		logger:     logging.OrDefault(opts.Logger),
		events:     make(chan DocumentEvent, 16),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	dirs := slices.Clone(opts.Dirs)
	for _, path := range opts.ConfigFiles {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		w.configs[filepath.Clean(abs)] = struct{}{}
		dirs = append(dirs, filepath.Dir(abs))
	}

	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	var errs []error
	watched := 0
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			w.logger.Warn("cannot watch folder", logging.FieldFolder, dir, logging.FieldError, err)
			errs = append(errs, err)
			continue
		}
		watched++
	}
	if watched == 0 && len(errs) > 0 {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch documents: %w", errors.Join(errs...))
	}

	go w.run()
	return w, nil
}

// Events delivers events until the watcher is closed.
func (w *DocumentWatcher) Events() <-chan DocumentEvent {
	return w.events
}

// Watched returns the folders being watched.
func (w *DocumentWatcher) Watched() []string {
	list := w.watcher.WatchList()
	slices.Sort(list)
	return list
}

// Close stops watching and closes the Events channel. It is idempotent.
func (w *DocumentWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stop)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *DocumentWatcher) run() {
	defer close(w.done)
	defer close(w.events)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			ev, ok := w.classify(event.Name)
			if !ok {
				continue
			}
			select {
			case w.events <- ev:
			case <-w.stop:
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("document watch error", logging.FieldError, err)
		}
	}
}

func (w *DocumentWatcher) classify(name string) (DocumentEvent, bool) {
	path := filepath.Clean(name)
	if _, ok := w.configs[path]; ok {
		return DocumentEvent{Path: path, Kind: EventConfig}, true
	}
	if w.isDocument != nil && !w.isDocument(path) {
		return DocumentEvent{}, false
	}
	return DocumentEvent{Path: path, Kind: EventDocument}, true
}
