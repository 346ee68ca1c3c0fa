package intent

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 400 * time.Millisecond

// Watch reloads the classifier's keyword lists whenever the yaml file at
// path changes. It watches the parent directory so editor rename-on-save
// is picked up, debouncing bursts of events. Runs until ctx is cancelled.
func Watch(ctx context.Context, path string, c *Classifier, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		var (
			mu    sync.Mutex
			timer *time.Timer
		)
		reload := func() {
			kw, err := LoadKeywords(path)
			if err != nil {
				logger.Warn("keyword reload failed", zap.String("path", path), zap.Error(err))
				return
			}
			c.SetKeywords(kw)
			logger.Info("intent keywords reloaded", zap.String("path", path))
		}
		for {
			select {
			case <-ctx.Done():
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				mu.Unlock()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, reload)
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("keyword watch error", zap.Error(err))
			}
		}
	}()
	return nil
}
