package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"webpackalias/internal/core/watcher"
)

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.Config.Extensions,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.activeWatcher = w
	a.mu.Unlock()
	return w.Watch(a.Config.Paths)
}

// HandleChanges re-processes a debounced batch of changed files. Removed
// sources take their mirrored output with them.
func (a *App) HandleChanges(paths []string) {
	slog.Info("detected changes", "count", len(paths))
	start := time.Now()
	ctx := context.Background()

	processed := 0
	for _, path := range paths {
		if !a.hasSourceExtension(path) || a.inOutDir(path) {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			a.removeOutput(path)
			continue
		}

		if _, err := a.ProcessFile(ctx, path); err != nil {
			slog.Warn("failed to re-process file", "path", path, "error", err)
			continue
		}
		processed++
	}

	slog.Info("changes processed", "files", processed, "duration", time.Since(start))
}

func (a *App) removeOutput(path string) {
	if a.Config.OutDir == "" || a.DryRun {
		return
	}
	out, err := a.OutputPath(path)
	if err != nil {
		return
	}
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove stale output", "path", out, "error", err)
		return
	}
	slog.Debug("removed stale output", "path", out)
}
