package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config when the file is saved, debouncing the burst
// of filesystem events a single editor save produces.
type Watcher struct {
	manager  Watched
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(*Config)
	done     chan struct{}
}

// Watched is the subset of Manager the watcher needs.
type Watched interface {
	Path() string
	Load() (*Config, error)
}

// NewWatcher watches the manager's config file and calls onReload with the
// freshly loaded config after each save.
func NewWatcher(manager Watched, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: atomic saves replace the inode.
	if err := fw.Add(filepath.Dir(manager.Path())); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		manager:  manager,
		watcher:  fw,
		debounce: 200 * time.Millisecond,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	var timer *time.Timer
	var timerC <-chan time.Time

	target := w.manager.Path()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			cfg, err := w.manager.Load()
			if err != nil {
				continue
			}
			w.onReload(cfg)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
