// Package service exposes the single entry point external callers use
// to obtain a codebase index. It hides cache hit/miss branching: a
// fresh cached document is returned without any scan, anything else
// triggers a rebuild and a best-effort store.
package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/onboardhq/onboard-mcp/cache"
	"github.com/onboardhq/onboard-mcp/filter"
	"github.com/onboardhq/onboard-mcp/index"
	"github.com/onboardhq/onboard-mcp/scan"
)

// Scanner abstracts the filesystem walk so callers (and tests) can
// observe or replace it. The production implementation is the scan
// package.
type Scanner interface {
	Scan(rootDir string, f *filter.Filter) (*scan.Result, error)
}

// fsScanner is the default Scanner backed by the real filesystem.
type fsScanner struct{}

func (fsScanner) Scan(rootDir string, f *filter.Filter) (*scan.Result, error) {
	return scan.Scan(rootDir, f)
}

// IndexService is the facade over scanner, builder and cache. The cache
// store is injected explicitly; there are no hidden singletons.
type IndexService struct {
	cache   *cache.Store
	scanner Scanner
	logger  *slog.Logger
}

// New creates an IndexService using the real filesystem scanner.
func New(cacheStore *cache.Store, logger *slog.Logger) *IndexService {
	return &IndexService{
		cache:   cacheStore,
		scanner: fsScanner{},
		logger:  logger,
	}
}

// NewWithScanner creates an IndexService with a custom scanner.
func NewWithScanner(cacheStore *cache.Store, scanner Scanner, logger *slog.Logger) *IndexService {
	return &IndexService{
		cache:   cacheStore,
		scanner: scanner,
		logger:  logger,
	}
}

// GetIndex returns the index document for rootDir under the given
// filter. A fresh cached document is served as-is; otherwise the tree
// is rescanned, the new document is stored and returned. A failed cache
// write is logged and swallowed: the returned document never depends on
// persistence succeeding.
func (s *IndexService) GetIndex(rootDir string, f *filter.Filter, forceRebuild bool) (*index.Document, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("invalid root %s: %w", rootDir, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid root %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid root %s: not a directory", absRoot)
	}

	fingerprint := index.Fingerprint(absRoot, f.Config())

	if !forceRebuild && s.cache.IsFresh(fingerprint, absRoot, f) {
		if doc, ok := s.cache.Lookup(fingerprint); ok {
			s.logger.Debug("index cache hit", "root", absRoot, "fingerprint", fingerprint)
			return doc, nil
		}
	}

	res, err := s.scanner.Scan(absRoot, f)
	if err != nil {
		return nil, err
	}
	doc := index.FromScan(absRoot, f.Config(), res)

	if err := s.cache.Put(fingerprint, doc); err != nil {
		s.logger.Warn("cache write failed, serving unpersisted index",
			"root", absRoot,
			"fingerprint", fingerprint,
			"error", err,
		)
	} else {
		s.logger.Info("index rebuilt",
			"root", absRoot,
			"fingerprint", fingerprint,
			"files", doc.FileCount,
			"dirs", doc.DirCount,
			"truncated", doc.Truncated,
		)
	}

	return doc, nil
}

// Invalidate drops the cached entry for (rootDir, filter). The next
// GetIndex call rebuilds. Used by the filesystem watcher.
func (s *IndexService) Invalidate(rootDir string, f *filter.Filter) error {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return err
	}
	return s.cache.Evict(index.Fingerprint(absRoot, f.Config()))
}
