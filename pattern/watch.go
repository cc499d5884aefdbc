package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher re-lowers fixture files whenever they change on disk.
type Watcher struct {
	checker Checker
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	report  func([]Result)

	// running is read by the event loop goroutine and written by Stop.
	running atomic.Bool
}

// NewWatcher creates a watcher that passes fresh results to report.
func NewWatcher(checker Checker, logger *zap.Logger, report func([]Result)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &Watcher{
		checker: checker,
		logger:  logger,
		watcher: fsw,
		report:  report,
	}, nil
}

// Start begins watching the given paths. Directories are watched
// recursively.
func (w *Watcher) Start(paths []string) error {
	if w.running.Load() {
		return fmt.Errorf("already watching")
	}

	for _, path := range paths {
		err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.watcher.Add(p)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding path to watcher: %w", err)
		}
	}

	w.running.Store(true)
	go w.loop()
	return nil
}

// Stop ends the watch and releases the underlying notifier.
func (w *Watcher) Stop() error {
	w.running.Store(false)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for w.running.Load() {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write {
		return
	}
	if !hasFixtureExtension(event.Name) {
		return
	}
	// wait for a while after file change to consider multiple changes as one
	time.Sleep(100 * time.Millisecond)

	results, err := w.checker.Run(event.Name)
	if err != nil {
		w.logger.Error("watch run failed", zap.String("file", event.Name), zap.Error(err))
		return
	}
	w.logger.Info("fixture changed",
		zap.String("file", event.Name),
		zap.Int("cases", len(results)))
	w.report(results)
}
