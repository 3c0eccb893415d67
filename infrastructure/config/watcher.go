package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDelay = 500 * time.Millisecond

// Watcher reloads the YAML config file when it changes and hands the new
// config to registered callbacks. Only used in development.
type Watcher struct {
	path      string
	envFile   string
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	mu        sync.RWMutex
	callbacks []func(*Config)
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewWatcher starts watching cfg.ConfigFile. The directory is watched
// rather than the file so editors that replace the file are picked up.
func NewWatcher(cfg *Config, envFile string, logger *zap.Logger) (*Watcher, error) {
	if cfg.ConfigFile == "" {
		return nil, fmt.Errorf("no config file to watch")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	path, err := filepath.Abs(cfg.ConfigFile)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	w := &Watcher{
		path:    path,
		envFile: envFile,
		logger:  logger,
		watcher: fsWatcher,
		stopCh:  make(chan struct{}),
	}
	go w.watchLoop()

	logger.Info("Configuration hot reloading enabled", zap.String("file", path))
	return w, nil
}

// OnChange registers a callback invoked with every successfully reloaded config
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Stop ends the watch loop
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Watcher) watchLoop() {
	defer w.watcher.Close()

	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			w.logger.Info("Configuration file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path, w.envFile)
	if err != nil {
		w.logger.Error("Failed to reload configuration, keeping previous", zap.Error(err))
		return
	}

	w.mu.RLock()
	callbacks := append([]func(*Config){}, w.callbacks...)
	w.mu.RUnlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
	w.logger.Info("Configuration reloaded", zap.String("log_level", cfg.LogLevel))
}
