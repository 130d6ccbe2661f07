// Package watch notifies on changes to a recordings directory so cached
// recorded state can be re-derived when files appear or disappear outside
// the capture engine.
package watch

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/voxbook/voxbook/internal/logger"
)

const (
	// debounce coalesces bursts of filesystem events (a capture stop
	// touches both the .wav and its .txt copy) into one notification.
	debounce = 150 * time.Millisecond

	pollInterval = 1 * time.Second
)

// Watcher fires a callback when the contents of one directory change.
// It prefers fsnotify and falls back to polling when the platform
// watcher cannot be set up.
type Watcher struct {
	dir      string
	onChange func()
	log      *logger.Logger

	mu       sync.Mutex
	running  bool
	stop     chan struct{}
	wg       sync.WaitGroup
}

// New creates a watcher for dir. onChange runs on the watcher's own
// goroutine; keep it short or hand off.
func New(dir string, onChange func(), log *logger.Logger) *Watcher {
	return &Watcher{dir: dir, onChange: onChange, log: log}
}

// Start begins watching. The directory is created if missing so a fresh
// voice can be watched before its first take.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("watch: failed to create directory: %w", err)
	}

	w.stop = make(chan struct{})
	w.running = true

	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		err = fsw.Add(w.dir)
	}
	if err != nil {
		w.log.Warn("fsnotify unavailable for %s, falling back to polling: %v", w.dir, err)
		w.wg.Add(1)
		go w.pollLoop()
		return nil
	}

	w.wg.Add(1)
	go w.eventLoop(fsw)
	return nil
}

// Stop halts the watcher and waits for its goroutine. Idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stop)
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Watcher) eventLoop(fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fsw.Close()

	// The timer starts stopped; each relevant event re-arms it so the
	// callback fires once per burst.
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				w.log.Warn("watcher event channel closed: %s", w.dir)
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			w.onChange()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error on %s: %v", w.dir, err)

		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) pollLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	last := fingerprint(w.dir)
	for {
		select {
		case <-ticker.C:
			cur := fingerprint(w.dir)
			if cur != last {
				last = cur
				w.onChange()
			}
		case <-w.stop:
			return
		}
	}
}

// fingerprint summarizes directory contents by name and size; any
// difference between polls counts as a change.
func fingerprint(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d", entry.Name(), info.Size()))
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
