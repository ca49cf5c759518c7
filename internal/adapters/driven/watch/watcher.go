// Package watch reports changes to the files backing durable storage so
// a long-running UI can reload what another process wrote.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/carelist/internal/logger"
)

// DefaultDebounce collapses bursts of writes (WAL checkpoints, temp file
// renames) into one notification.
const DefaultDebounce = 250 * time.Millisecond

// Config holds watcher options.
type Config struct {
	// Dir is the directory to watch.
	Dir string

	// Files are the base names inside Dir that count as a change.
	Files []string

	// Debounce is the quiet period before a change is reported.
	Debounce time.Duration
}

// Watcher signals when any watched file is written or replaced.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	files     map[string]struct{}
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

// New creates a watcher. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	files := make(map[string]struct{}, len(cfg.Files))
	for _, f := range cfg.Files {
		files[f] = struct{}{}
	}

	return &Watcher{
		fsWatcher: fsw,
		dir:       cfg.Dir,
		files:     files,
		debounce:  debounce,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching. The returned channel receives one value per
// debounced burst and is never closed; a pending signal is dropped if the
// reader has not consumed the previous one.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", w.dir, err)
	}
	logger.Debug("Watching %s for storage changes", w.dir)

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Warn("storage watcher: %v", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevant keeps writes and creates of watched files. A rename into
// place shows up as a create of the target name.
func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	_, ok := w.files[filepath.Base(event.Name)]
	return ok
}
