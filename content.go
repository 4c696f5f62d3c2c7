package main

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/onboardhq/onboard-mcp/filter"
	"github.com/onboardhq/onboard-mcp/index"
	"github.com/onboardhq/onboard-mcp/search"
	"github.com/onboardhq/onboard-mcp/service"
)

// app bundles the long-lived state shared by the tool handlers, the
// watcher loop and the periodic sync: the current structural document
// (swapped atomically on rebuild) plus the collaborators that produce it.
type app struct {
	rootDir string
	fltr    *filter.Filter
	svc     *service.IndexService
	content *search.Index
	logger  *slog.Logger

	mu  sync.RWMutex
	doc *index.Document
}

// snapshot returns the current structural document.
func (a *app) snapshot() *index.Document {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.doc
}

func (a *app) setDocument(doc *index.Document) {
	a.mu.Lock()
	a.doc = doc
	a.mu.Unlock()
}

// buildIndex obtains the structural document through the service (cache
// hit or rebuild) and swaps it in as the current snapshot.
func (a *app) buildIndex(forceRebuild bool) (*index.Document, error) {
	doc, err := a.svc.GetIndex(a.rootDir, a.fltr, forceRebuild)
	if err != nil {
		return nil, err
	}
	a.setDocument(doc)
	return doc, nil
}

// loadContent populates the content index from the given structural
// document. Returns the number of files content-indexed.
func (a *app) loadContent(doc *index.Document) int {
	start := time.Now()
	loaded, totalBytes := a.content.LoadDocument(a.rootDir, doc, a.logger)
	a.logger.Info("content index loaded",
		"files", loaded,
		"bytes", totalBytes,
		"duration", time.Since(start),
	)
	return loaded
}

// reindex evicts the cache, rescans the tree and reloads the content
// index from scratch. Backs the onboard_reindex tool.
func (a *app) reindex() (int, int, string, error) {
	start := time.Now()

	// .gitignore or .onboardignore may have changed since startup
	a.fltr.Reload()

	if err := a.svc.Invalidate(a.rootDir, a.fltr); err != nil {
		a.logger.Warn("cache eviction failed during reindex", "error", err)
	}
	doc, err := a.buildIndex(true)
	if err != nil {
		return 0, 0, "", err
	}

	if err := a.content.Clear(); err != nil {
		return 0, 0, "", fmt.Errorf("clearing content index: %w", err)
	}
	loaded := a.loadContent(doc)

	elapsed := time.Since(start).Round(time.Millisecond).String()
	return doc.FileCount, loaded, elapsed, nil
}
