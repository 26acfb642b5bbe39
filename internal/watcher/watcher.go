// Package watcher reports debounced changes of drawing files, so a page can
// be re-rendered when the file is rewritten.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce collapses the bursts of writes a PDF export produces
const DefaultDebounce = 300 * time.Millisecond

// FileWatcher watches files and calls back once per burst of changes
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string)
	debounce  time.Duration
	timers    map[string]*time.Timer
	log       *logrus.Entry
}

// New creates a file watcher. A debounce of zero uses DefaultDebounce.
func New(debounce time.Duration, log *logrus.Entry) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create watcher")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logrus.WithField("component", "watcher")
	}
	return &FileWatcher{
		watcher:   w,
		callbacks: make(map[string]func(string)),
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
		log:       log,
	}, nil
}

// Watch registers callback for file. The directory is watched rather than
// the file itself so files replaced by rename are still seen.
func (fw *FileWatcher) Watch(file string, callback func(string)) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to resolve path %s", file)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if err := fw.watcher.Add(filepath.Dir(abs)); err != nil {
		return pkgerrors.Wrapf(err, "failed to watch %s", abs)
	}
	fw.callbacks[abs] = callback
	return nil
}

// Watched returns the number of files with a callback
func (fw *FileWatcher) Watched() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return len(fw.callbacks)
}

// Run dispatches changes until ctx is cancelled or the watcher is closed
func (fw *FileWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.handleFileChange(event.Name)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.WithError(err).Warn("watcher error")
		}
	}
}

func (fw *FileWatcher) handleFileChange(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, exists := fw.callbacks[abs]
	if !exists {
		return
	}
	if timer, exists := fw.timers[abs]; exists {
		timer.Stop()
	}
	fw.timers[abs] = time.AfterFunc(fw.debounce, func() {
		fw.log.WithField("path", abs).Debug("file changed")
		callback(abs)
	})
}

// Close stops the watcher and pending callbacks
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, t := range fw.timers {
		t.Stop()
	}
	fw.timers = make(map[string]*time.Timer)
	fw.mu.Unlock()
	return fw.watcher.Close()
}
