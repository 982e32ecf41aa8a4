// Package watch re-runs directory analysis when watched source files
// change.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"vibescan/internal/ignore"
	"vibescan/internal/language"
	"vibescan/internal/logging"
)

// Event represents a file system event on a watched source file.
type Event struct {
	Path      string
	Op        string
	Timestamp time.Time
}

// Handler is called with the batched events after a quiet period.
type Handler func(events []Event)

// Options contains watcher configuration.
type Options struct {
	Debounce time.Duration
	Rules    ignore.Rules
	Logger   *logging.Logger
}

// Watcher watches a directory tree and debounces change notifications.
type Watcher struct {
	root      string
	fsw       *fsnotify.Watcher
	rules     ignore.Rules
	logger    *logging.Logger
	debouncer *Debouncer

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a watcher rooted at root. Start must be called before
// events are delivered.
func New(root string, handler Handler, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("watching %s: not a directory", root)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.Rules == nil {
		opts.Rules = ignore.AllowAll{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		root:      abs,
		fsw:       fsw,
		rules:     opts.Rules,
		logger:    opts.Logger,
		debouncer: NewDebouncer(opts.Debounce, handler),
		done:      make(chan struct{}),
	}

	if err := w.addTree(abs); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree registers every non-ignored directory under dir. fsnotify
// watches are per-directory and not recursive.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("Skipping unreadable path", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr == nil && rel != "." && w.rules.IsIgnoredDir(rel) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Start begins delivering debounced change batches to the handler.
func (w *Watcher) Start() {
	w.logger.Info("Watching for changes", map[string]interface{}{
		"root": w.root,
	})

	w.wg.Add(1)
	go w.loop()
}

// Stop shuts the watcher down and drops any pending batch.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	w.debouncer.Cancel()
	w.logger.Info("Watcher stopped", nil)
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", map[string]interface{}{
				"error": err.Error(),
			})
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return
	}

	// Newly created directories need their own watches.
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if !w.rules.IsIgnoredDir(rel) {
				if err := w.addTree(ev.Name); err != nil {
					w.logger.Warn("Failed to watch new directory", map[string]interface{}{
						"path":  ev.Name,
						"error": err.Error(),
					})
				}
			}
			return
		}
	}

	if _, ok := language.Detect(ev.Name); !ok {
		return
	}
	if w.rules.IsIgnored(rel) {
		return
	}

	w.logger.Debug("Change detected", map[string]interface{}{
		"path": rel,
		"op":   ev.Op.String(),
	})
	w.debouncer.Add(Event{
		Path:      ev.Name,
		Op:        ev.Op.String(),
		Timestamp: time.Now(),
	})
}
