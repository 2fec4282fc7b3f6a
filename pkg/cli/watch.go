package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ghostmind-dev/run/pkg/config"
	"github.com/ghostmind-dev/run/pkg/process"
	"github.com/ghostmind-dev/run/pkg/task"
	"github.com/ghostmind-dev/run/pkg/types"
)

const defaultSettlingDelay = 500 * time.Millisecond

// runScriptWatch invokes the module once, then re-invokes it whenever a
// file under one of the watched paths changes. Events are debounced
// with a settling delay so a burst of writes triggers a single re-run.
func runScriptWatch(moduleName string, tokens []string, watchPaths []string) error {
	cfgManager := config.NewManager()
	cfg, err := cfgManager.LoadConfigOrDefault(getConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := createRunLogger(cfg)

	// Fail before the first run if the module is unknown.
	if _, err := task.DefaultRegistry().Lookup(moduleName); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	paths := watchPaths
	if len(paths) == 0 && cfg.Watch != nil {
		paths = cfg.Watch.Paths
	}
	for _, p := range paths {
		if err := addWatchTree(watcher, p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := process.NewManager(log)
	manager.RegisterShutdownHandler(cancel)
	manager.Start(ctx)
	// Stop waits for the signal goroutine, which only exits once the
	// context is cancelled, so cancel must run first.
	defer func() {
		cancel()
		manager.Stop()
	}()

	printInfo(fmt.Sprintf("Watching %d path(s); press Ctrl+C to stop", len(paths)))

	// Run failures do not stop watch mode; the next change re-runs.
	if err := runScript(moduleName, tokens); err != nil {
		log.Error(fmt.Sprintf("Run failed: %v", err))
	}

	settling := settlingDelay(cfg)
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			printInfo("Watch mode stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug(fmt.Sprintf("Change detected: %s", event.Name))
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchTree(watcher, event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(settling)
				timerC = timer.C
			} else {
				timer.Reset(settling)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(fmt.Sprintf("Watcher error: %v", err))

		case <-timerC:
			timer = nil
			timerC = nil
			if err := runScript(moduleName, tokens); err != nil {
				log.Error(fmt.Sprintf("Run failed: %v", err))
			}
		}
	}
}

// addWatchTree registers path and, when it is a directory, every
// subdirectory beneath it. fsnotify watches are not recursive.
func addWatchTree(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(root)
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func settlingDelay(cfg *types.RunConfig) time.Duration {
	if cfg.Watch != nil && cfg.Watch.SettlingDelay != nil && *cfg.Watch.SettlingDelay >= 0 {
		return time.Duration(*cfg.Watch.SettlingDelay) * time.Millisecond
	}
	return defaultSettlingDelay
}
