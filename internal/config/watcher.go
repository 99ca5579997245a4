package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/copyedit/internal/logging"
)

// DefaultReloadDelay coalesces the burst of events editors produce when
// saving a file.
const DefaultReloadDelay = 100 * time.Millisecond

// Handler receives a reloaded config.
type Handler func(cfg Config)

// ErrorHandler receives reload failures. The previous config stays active.
type ErrorHandler func(err error)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithReloadDelay sets the debounce delay. Negative values are ignored.
func WithReloadDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.delay = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watcher reloads a config file when it changes on disk. It watches the
// file's directory so that editors replacing the file by rename are seen.
type Watcher struct {
	path  string
	fs    FileSystem
	delay time.Duration
	log   *logging.Logger

	fsw *fsnotify.Watcher

	mu          sync.Mutex
	current     Config
	handlers    []Handler
	errHandlers []ErrorHandler
	timer       *time.Timer
	closed      bool

	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// NewWatcher loads path and starts watching it.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:    absPath,
		fs:      DefaultFS(),
		delay:   DefaultReloadDelay,
		log:     logging.Null(),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.WithComponent("config").WithField("path", absPath)

	cfg, err := LoadFS(w.fs, absPath)
	if err != nil {
		return nil, err
	}
	w.current = cfg

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
	}
	w.fsw = fsw

	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Current returns the last successfully loaded config.
func (w *Watcher) Current() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// OnChange registers a handler for reloaded configs.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// OnError registers a handler for reload failures.
func (w *Watcher) OnError(h ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errHandlers = append(w.errHandlers, h)
}

// Reload loads the file now. Handlers run only when the settings changed.
func (w *Watcher) Reload() (Config, bool, error) {
	cfg, err := LoadFS(w.fs, w.path)
	if err != nil {
		w.log.Warn("reload failed, keeping previous config: %v", err)
		w.emitError(err)
		return w.Current(), false, err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return cfg, false, ErrWatcherClosed
	}
	if cfg.Equal(w.current) {
		w.mu.Unlock()
		return cfg, false, nil
	}
	w.current = cfg
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	w.log.Info("config reloaded")
	for _, h := range handlers {
		w.safeCall(func() { h(cfg) })
	}
	return cfg, true, nil
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				w.log.Debug("file event %s", ev.Op)
				w.scheduleReload()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
			w.emitError(err)
		}
	}
}

// scheduleReload restarts the debounce timer.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		_, _, _ = w.Reload()
	})
}

func (w *Watcher) emitError(err error) {
	w.mu.Lock()
	handlers := make([]ErrorHandler, len(w.errHandlers))
	copy(handlers, w.errHandlers)
	w.mu.Unlock()

	for _, h := range handlers {
		w.safeCall(func() { h(err) })
	}
}

// safeCall keeps a panicking handler from killing the reload goroutine.
func (w *Watcher) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("config handler panic: %v", r)
		}
	}()
	fn()
}
