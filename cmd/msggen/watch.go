package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/i2y/msggen/internal/adapter/outbound/schemadir"
	"github.com/i2y/msggen/internal/usecase"
)

// rebundleDelay coalesces the burst of events an editor or checkout produces.
const rebundleDelay = 250 * time.Millisecond

// watch bundles once, then rebundles whenever a schema file changes until
// ctx is cancelled. A failed rebundle is logged and leaves the previous
// artifact in place.
func watch(ctx context.Context, uc *usecase.CombineSchemasUseCase, schemaDir, dest string, logger *slog.Logger) error {
	log := logger.With("component", "watcher")

	if _, err := uc.Execute(ctx, schemaDir, dest); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Close()

	for _, dir := range []string{schemaDir, filepath.Join(schemaDir, schemadir.NotificationDir)} {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	log.Info("Watching schema directory", slog.String("dir", schemaDir))

	destAbs, _ := filepath.Abs(dest)
	timer := time.NewTimer(rebundleDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Watcher stopped")
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(event, destAbs) {
				continue
			}
			log.Debug("Schema change detected", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			timer.Reset(rebundleDelay)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("File watcher error", slog.Any("error", err))

		case <-timer.C:
			if _, err := uc.Execute(ctx, schemaDir, dest); err != nil {
				log.Error("Rebundle failed; keeping previous artifact", slog.Any("error", err))
			}
		}
	}
}

func relevant(event fsnotify.Event, destAbs string) bool {
	if !strings.HasSuffix(event.Name, schemadir.SchemaExt) {
		return false
	}
	if abs, err := filepath.Abs(event.Name); err == nil && abs == destAbs {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
