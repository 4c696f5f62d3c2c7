// Package search implements the pattern-search and file-content-reader
// collaborators over an in-memory Bleve full-text index. The index is
// populated from a structural index document: content is read here, on
// demand, never during the structural build.
package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/onboardhq/onboard-mcp/index"
	"github.com/onboardhq/onboard-mcp/language"
	"github.com/onboardhq/onboard-mcp/scan"
)

// Index provides full-text search over file contents.
type Index struct {
	mu  sync.RWMutex
	idx bleve.Index
	// contents holds raw file content for line-level match extraction
	// and the read tool.
	contents map[string]string
}

type contentDoc struct {
	Content  string `json:"content"`
	Path     string `json:"path"`
	Language string `json:"language"`
}

// NewIndex creates an empty in-memory content index.
func NewIndex() (*Index, error) {
	bleveIndex, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("creating content index: %w", err)
	}
	return &Index{
		idx:      bleveIndex,
		contents: make(map[string]string),
	}, nil
}

func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false // raw content lives in the contents map
	contentField.IncludeInAll = true
	docMapping.AddFieldMappingsAt("content", contentField)

	pathField := bleve.NewTextFieldMapping()
	pathField.Store = true
	pathField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("path", pathField)

	langField := bleve.NewKeywordFieldMapping()
	langField.Store = true
	langField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("language", langField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// LoadDocument reads every file listed in the structural document and
// indexes its content, using a bounded worker pool. Binary and
// unreadable files are skipped. Returns the number of files indexed and
// the total bytes read.
func (ix *Index) LoadDocument(rootDir string, doc *index.Document, logger *slog.Logger) (int, int64) {
	const workerCount = 8

	var loaded int
	var totalBytes int64
	var mu sync.Mutex

	jobs := make(chan scan.Record, 100)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				absPath := filepath.Join(rootDir, filepath.FromSlash(rec.Path))
				data, err := os.ReadFile(absPath)
				if err != nil {
					logger.Debug("content load skipped", "path", rec.Path, "error", err)
					continue
				}
				if language.IsBinaryContent(data) {
					logger.Debug("content load skipped binary file", "path", rec.Path)
					continue
				}
				if err := ix.IndexFile(rec.Path, string(data), rec.Language); err != nil {
					logger.Debug("content load failed", "path", rec.Path, "error", err)
					continue
				}
				mu.Lock()
				loaded++
				totalBytes += int64(len(data))
				mu.Unlock()
			}
		}()
	}

	for _, rec := range doc.Files() {
		jobs <- rec
	}
	close(jobs)
	wg.Wait()

	return loaded, totalBytes
}

// IndexFile adds or updates one file's content.
func (ix *Index) IndexFile(relPath string, content string, lang string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.contents[relPath] = content
	doc := contentDoc{Content: content, Path: relPath, Language: lang}
	if err := ix.idx.Index(relPath, doc); err != nil {
		return fmt.Errorf("indexing %s: %w", relPath, err)
	}
	return nil
}

// Remove drops a file from the content index.
func (ix *Index) Remove(relPath string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	delete(ix.contents, relPath)
	if err := ix.idx.Delete(relPath); err != nil {
		return fmt.Errorf("removing %s: %w", relPath, err)
	}
	return nil
}

// GetFileContent returns the raw content of an indexed file.
func (ix *Index) GetFileContent(relPath string) (string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	content, ok := ix.contents[relPath]
	return content, ok
}

// DocumentCount returns the number of content-indexed files.
func (ix *Index) DocumentCount() uint64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	count, err := ix.idx.DocCount()
	if err != nil {
		return 0
	}
	return count
}

// Clear drops all content, replacing the underlying Bleve index.
func (ix *Index) Clear() error {
	newIndex, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return fmt.Errorf("recreating content index: %w", err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.idx.Close()
	ix.idx = newIndex
	ix.contents = make(map[string]string)
	return nil
}

// Close releases the underlying index.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.idx.Close()
}
