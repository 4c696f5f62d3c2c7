package main

import (
	"path/filepath"
	"time"
)

// SyncResult holds the outcome of a single sync verification run.
type SyncResult struct {
	Rebuilt      bool // structural document was rebuilt
	AddedFiles   int  // files newly content-indexed
	RemovedFiles int  // stale files dropped from the content index
	Duration     time.Duration
}

// runPeriodicSync verifies at the given interval that the served index
// still matches the tree, catching anything the watcher missed (editors
// that bypass inotify, network filesystems). It runs until stop closes.
func (a *app) runPeriodicSync(intervalSeconds int, stop <-chan struct{}) {
	interval := time.Duration(intervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.Info("periodic sync started", "intervalSeconds", intervalSeconds)

	for {
		select {
		case <-stop:
			a.logger.Info("periodic sync stopped")
			return
		case <-ticker.C:
			result := a.performSyncVerification()
			if result.Rebuilt {
				a.logger.Info("sync verification complete",
					"added", result.AddedFiles,
					"removed", result.RemovedFiles,
					"duration", result.Duration,
				)
			} else {
				a.logger.Debug("sync verification complete, index is in sync", "duration", result.Duration)
			}
		}
	}
}

// performSyncVerification refreshes the structural document through the
// service (a stat-only freshness pass when nothing changed) and, after a
// rebuild, reconciles the content index against the new file set.
func (a *app) performSyncVerification() SyncResult {
	start := time.Now()
	var result SyncResult

	previous := a.snapshot()
	current, err := a.buildIndex(false)
	if err != nil {
		a.logger.Warn("sync verification failed", "error", err)
		result.Duration = time.Since(start)
		return result
	}
	if current.GeneratedAt.Equal(previous.GeneratedAt) {
		result.Duration = time.Since(start)
		return result
	}
	result.Rebuilt = true

	// Reconcile the content index with the rebuilt file set. Modified
	// files are the watcher's job; here we only heal additions and
	// removals that slipped past it.
	currentFiles := make(map[string]bool, current.FileCount)
	for _, rec := range current.Files() {
		currentFiles[rec.Path] = true
	}
	previousFiles := make(map[string]bool, previous.FileCount)
	for _, rec := range previous.Files() {
		previousFiles[rec.Path] = true
	}

	for path := range currentFiles {
		if previousFiles[path] {
			continue
		}
		absPath := filepath.Join(a.rootDir, filepath.FromSlash(path))
		if err := a.indexFileContent(absPath, path); err != nil {
			a.logger.Debug("sync: skipped new file", "path", path, "error", err)
			continue
		}
		a.logger.Info("sync: indexed new file", "path", path)
		result.AddedFiles++
	}

	for path := range previousFiles {
		if currentFiles[path] {
			continue
		}
		if err := a.content.Remove(path); err != nil {
			a.logger.Debug("sync: removal failed", "path", path, "error", err)
			continue
		}
		a.logger.Info("sync: removed stale file", "path", path)
		result.RemovedFiles++
	}

	result.Duration = time.Since(start)
	return result
}
