package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Pe4enIks/OpenNN/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// ReloadFunc is called with the freshly validated config after the watched
// file changes. A returned error is logged but does not stop the watcher.
type ReloadFunc func(cfg *TrainingConfig) error

// WatcherOptions holds configuration for the Watcher.
type WatcherOptions struct {
	// Path is the training config file to watch
	Path string

	// Debounce is the quiet period before a change triggers a reload.
	// Editor save sequences produce several events in quick succession;
	// they are coalesced into a single reload. Default: 500ms.
	Debounce time.Duration
}

// Watcher revalidates a training config file whenever it changes on disk.
// Invalid intermediate states are logged and skipped; the last valid config
// stays in effect. Load itself remains single-shot, the watcher just calls
// it again on each settled change.
type Watcher struct {
	opts    WatcherOptions
	reload  ReloadFunc
	logger  *logging.Logger
	cancel  context.CancelFunc
	stopped chan struct{}
	ready   chan struct{} // closed once the fsnotify watch is established
	mu      sync.Mutex

	// debounceTimer coalesces bursts of file change events
	debounceTimer *time.Timer
}

// NewWatcher creates a watcher for the given config file.
func NewWatcher(opts WatcherOptions, reload ReloadFunc) (*Watcher, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("watcher path cannot be empty")
	}
	if reload == nil {
		return nil, fmt.Errorf("reload callback cannot be nil")
	}
	if opts.Debounce == 0 {
		opts.Debounce = 500 * time.Millisecond
	}

	return &Watcher{
		opts:    opts,
		reload:  reload,
		logger:  logging.GetLogger("config.watcher"),
		stopped: make(chan struct{}),
		ready:   make(chan struct{}),
	}, nil
}

// Start loads the config once, invokes the callback, and begins watching.
// It returns after the watch is established; a failed initial load or
// callback fails fast. Watching continues until Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	initial, err := Load(w.opts.Path)
	if err != nil {
		return fmt.Errorf("failed to load initial config: %w", err)
	}
	if err := w.reload(initial); err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}

	w.logger.Info("loaded initial config from %s", w.opts.Path)

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go w.watchLoop(watchCtx)

	// Do not return before the fsnotify watch exists, otherwise an edit
	// made right after Start could be missed.
	select {
	case <-w.ready:
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return fmt.Errorf("timeout waiting for file watcher to initialize")
	}

	return nil
}

// signalReady closes the ready channel exactly once.
func (w *Watcher) signalReady() {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.ready:
	default:
		close(w.ready)
	}
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.stopped)
	defer w.signalReady()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error("failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(w.opts.Path); err != nil {
		w.logger.Error("failed to watch %s: %v", w.opts.Path, err)
		return
	}

	w.logger.Info("watching %s for changes (debounce: %s)", w.opts.Path, w.opts.Debounce)
	w.signalReady()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("context cancelled, stopping watch loop")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			// Atomic saves unlink or rename the file, which drops the
			// watch with the old inode. Re-add after a short settle.
			if event.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
				time.Sleep(50 * time.Millisecond)
				if err := watcher.Add(w.opts.Path); err != nil {
					w.logger.Warn("failed to re-add watch after %s: %v", event.Op, err)
				}
			}
			w.handleFileChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error: %v", err)
		}
	}
}

// handleFileChange resets the debounce timer; the reload fires only after the
// file has been quiet for the debounce period.
func (w *Watcher) handleFileChange() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.opts.Debounce, w.reloadConfig)
}

func (w *Watcher) reloadConfig() {
	cfg, err := Load(w.opts.Path)
	if err != nil {
		w.logger.Error("failed to reload config, keeping previous: %v", err)
		return
	}

	if err := w.reload(cfg); err != nil {
		w.logger.Error("reload callback failed, continuing to watch: %v", err)
		return
	}

	w.logger.Info("config reloaded from %s", w.opts.Path)
}

// Stop cancels the watch loop and waits for it to exit.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}

	select {
	case <-w.stopped:
		w.logger.Debug("watcher stopped")
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("timeout waiting for watcher to stop")
	}
}
