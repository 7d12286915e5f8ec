package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"careerdesk/internal/logging"
)

// Watcher reloads the config file when it changes on disk and
// publishes the fresh configuration to subscribers. Theme changes made
// in config.json apply to a running dashboard this way.
type Watcher struct {
	mu       sync.Mutex
	dir      string
	watcher  *fsnotify.Watcher
	updates  chan *Config
	lastSeen time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for the config file under dir.
func NewWatcher(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		dir:     dir,
		watcher: fw,
		updates: make(chan *Config, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Updates delivers each successfully reloaded configuration. The
// channel holds one pending update; rapid saves coalesce.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Start begins watching. Non-blocking; events are handled in a
// goroutine until Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory, not the file: editors replace config.json
	// by rename, which drops a file-level watch.
	if err := w.watcher.Add(w.dir); err != nil {
		logging.Config("Config watch failed (dir may not exist yet): %v", err)
	}

	go w.run(ctx)
	return nil
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Config("Config watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != "config.json" {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	// Debounce rapid saves.
	w.mu.Lock()
	if time.Since(w.lastSeen) < 200*time.Millisecond {
		w.mu.Unlock()
		return
	}
	w.lastSeen = time.Now()
	w.mu.Unlock()

	cfg, err := Load(w.dir)
	if err != nil {
		logging.Config("Config reload failed: %v", err)
		return
	}
	if err := logging.ReloadConfig(); err != nil {
		logging.Config("Logging reload failed: %v", err)
	}
	logging.Config("Config reloaded from %s", event.Name)

	// Keep only the newest update if nobody is draining.
	select {
	case w.updates <- cfg:
	default:
		select {
		case <-w.updates:
		default:
		}
		w.updates <- cfg
	}
}
