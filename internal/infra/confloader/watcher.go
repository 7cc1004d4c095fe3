package confloader

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to a configuration file so the server can re-read
// it without a restart. strand-server uses one to pick up log-level changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	mu       sync.RWMutex
	handlers []func(string)
	stop     chan struct{}
	logger   *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher creates a Watcher. It owns an fsnotify instance until Stop.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:     fs,
		stop:   make(chan struct{}),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch registers a file to watch. The parent directory is watched rather
// than the file itself: editors that write-and-rename (vim, sed -i) replace
// the inode, and a watch on the old inode would go silent.
func (w *Watcher) Watch(path string) error {
	dir := filepath.Dir(path)
	if err := w.fs.Add(dir); err != nil {
		w.logger.Error("config watch failed", "dir", dir, "error", err)
		return err
	}
	w.logger.Debug("watching config directory", "dir", dir, "file", filepath.Base(path))
	return nil
}

// OnChange registers a handler invoked with the path of a changed file.
func (w *Watcher) OnChange(handler func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start runs the event loop until Stop is called. Write and create events
// fire the handlers; everything else (chmod, remove) is ignored.
func (w *Watcher) Start() {
	w.logger.Info("config watcher started")

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.logger.Debug("config file changed", "file", event.Name, "op", event.Op.String())
				w.notify(event.Name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", "error", err)
		case <-w.stop:
			return
		}
	}
}

// StartAsync runs Start in its own goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop ends the event loop and releases the fsnotify instance.
func (w *Watcher) Stop() error {
	close(w.stop)
	if err := w.fs.Close(); err != nil {
		w.logger.Error("config watcher close failed", "error", err)
		return err
	}
	w.logger.Info("config watcher stopped")
	return nil
}

func (w *Watcher) notify(path string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, h := range w.handlers {
		h(path)
	}
}
