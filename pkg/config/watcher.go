package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ha1tch/sqlview/pkg/log"
)

// Watcher monitors a settings file for changes and reloads it, so a
// long-lived host can re-render with fresh options without restarting.
type Watcher struct {
	mu sync.Mutex

	// Configuration
	path   string
	logger *log.Logger

	// fsnotify watcher
	fsWatcher *fsnotify.Watcher

	// State
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// Debouncing: editors fire several events per save
	debounceDelay time.Duration
	eventTimer    *time.Timer

	// Callbacks
	onChange func(*ViperProvider) // Called with the reloaded provider
	onError  func(err error)      // Called on reload/watch errors
}

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay for batching file events.
// Default is 100ms.
func WithDebounceDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = d
	}
}

// WithOnError sets a callback for error events.
func WithOnError(fn func(err error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewWatcher creates a watcher for the settings file at path. onChange
// receives the freshly loaded provider after every change.
func NewWatcher(path string, logger *log.Logger, onChange func(*ViperProvider), opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          filepath.Clean(path),
		logger:        logger,
		fsWatcher:     fsw,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
		debounceDelay: 100 * time.Millisecond,
		onChange:      onChange,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory rather than the file itself: editors that
	// replace the file on save would otherwise drop the watch.
	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.logger.Application().Info("settings watcher started",
		"path", w.path,
	)

	go w.processEvents()

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh // Wait for event processor to finish

	w.logger.Application().Info("settings watcher stopped")

	return w.fsWatcher.Close()
}

// processEvents handles fsnotify events.
func (w *Watcher) processEvents() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			w.mu.Lock()
			if w.eventTimer != nil {
				w.eventTimer.Stop()
			}
			w.mu.Unlock()
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Application().Error("settings watcher error", err)
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// handleEvent processes a single fsnotify event with debouncing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Only the settings file matters; the watch covers its whole directory.
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.eventTimer != nil {
		w.eventTimer.Stop()
	}
	w.eventTimer = time.AfterFunc(w.debounceDelay, w.reload)
}

// reload re-reads the settings file and notifies the host.
func (w *Watcher) reload() {
	provider, err := NewViperProvider(w.path)
	if err != nil {
		w.logger.Application().Error("settings reload failed", err,
			"path", w.path,
		)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.logger.Application().Info("settings reloaded",
		"path", w.path,
	)

	if w.onChange != nil {
		w.onChange(provider)
	}
}
