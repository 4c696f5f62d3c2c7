package main

import (
	"os"
	"path/filepath"

	"github.com/onboardhq/onboard-mcp/language"
	"github.com/onboardhq/onboard-mcp/watcher"
)

// handleWatcherEvents consumes debounced filesystem events and keeps the
// content index, the cached structural index and the document snapshot
// in step with the tree.
func (a *app) handleWatcherEvents(fileWatcher *watcher.Watcher) {
	for events := range fileWatcher.Events() {
		structuralChange := false

		for _, event := range events {
			relPath, err := filepath.Rel(a.rootDir, event.Path)
			if err != nil {
				continue
			}
			relPath = filepath.ToSlash(relPath)

			switch event.Op {
			case watcher.OpRemove, watcher.OpRename:
				if err := a.content.Remove(relPath); err != nil {
					a.logger.Debug("content removal failed", "path", relPath, "error", err)
				}
				structuralChange = true
				a.logger.Debug("removed from index", "path", relPath)

			case watcher.OpCreate, watcher.OpWrite:
				baseName := filepath.Base(event.Path)
				if baseName == ".gitignore" || baseName == ".onboardignore" {
					a.fltr.Reload()
					structuralChange = true
					a.logger.Info("reloaded ignore rules", "trigger", baseName)
					continue
				}

				if !a.fltr.Include(relPath, false) {
					continue
				}
				info, err := os.Stat(event.Path)
				if err != nil || info.IsDir() {
					continue
				}
				if a.fltr.FileTooLarge(info.Size()) {
					continue
				}

				if err := a.indexFileContent(event.Path, relPath); err != nil {
					a.logger.Debug("skipped file update", "path", relPath, "error", err)
					continue
				}
				structuralChange = true
				a.logger.Debug("updated index", "path", relPath)
			}
		}

		if !structuralChange {
			continue
		}

		// The cached document no longer matches the tree; evict it and
		// refresh the snapshot so onboard_files and onboard_status see
		// the new shape.
		if err := a.svc.Invalidate(a.rootDir, a.fltr); err != nil {
			a.logger.Warn("cache eviction failed", "error", err)
		}
		if _, err := a.buildIndex(false); err != nil {
			a.logger.Warn("index refresh failed after file events", "error", err)
		}
	}
}

// indexFileContent reads one file and updates the content index.
func (a *app) indexFileContent(absolutePath string, relPath string) error {
	data, err := os.ReadFile(absolutePath)
	if err != nil {
		return err
	}
	if language.IsBinaryContent(data) {
		return nil // binary files carry no searchable content
	}
	return a.content.IndexFile(relPath, string(data), language.Detect(relPath))
}
