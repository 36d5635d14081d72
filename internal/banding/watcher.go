package banding

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watcher keeps a band table in sync with its file on disk.
// Reads are concurrent-safe; a failed reload keeps the previous table.
type Watcher struct {
	path    string
	fw      *fsnotify.Watcher
	current *Table
	mu      sync.RWMutex
	reloads atomic.Uint32
}

// NewWatcher loads the table at path and starts watching it for writes.
// The fsnotify watch is registered before NewWatcher returns, so writes
// landing right after construction are not missed. When path is empty or
// the initial load fails, the built-in defaults are used and no watch is
// started.
func NewWatcher(path string) *Watcher {
	w := &Watcher{path: path, current: DefaultTable()}

	if path == "" {
		return w
	}

	t, err := LoadTable(path)
	if err != nil {
		log.WithFields(log.Fields{"path": path, "error": err}).
			Warn("bands file unavailable, using built-in defaults")
		return w
	}
	w.current = t

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithField("error", err).Error("failed to create bands file watcher")
		return w
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		log.WithFields(log.Fields{"path": path, "error": err}).
			Error("failed to watch bands file")
		return w
	}
	w.fw = fw

	go w.watch()
	return w
}

// Close stops the file watch. The loaded table stays readable.
func (w *Watcher) Close() error {
	if w.fw == nil {
		return nil
	}
	return w.fw.Close()
}

func (w *Watcher) watch() {
	var timer *time.Timer
	const debounce = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, w.reload)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.WithField("error", err).Error("bands file watcher error")
		}
	}
}

func (w *Watcher) reload() {
	count := w.reloads.Add(1)

	t, err := LoadTable(w.path)
	if err != nil {
		log.WithFields(log.Fields{"path": w.path, "error": err, "count": count}).
			Error("failed to reload bands file, keeping previous table")
		return
	}

	w.mu.Lock()
	w.current = t
	w.mu.Unlock()

	log.WithFields(log.Fields{"path": w.path, "count": count}).
		Info("bands file reloaded")
}

// Snapshot returns the current band table.
func (w *Watcher) Snapshot() *Table {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// ReloadCount returns how many reloads have been attempted.
func (w *Watcher) ReloadCount() uint32 {
	return w.reloads.Load()
}
