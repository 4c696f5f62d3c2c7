package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/bmatcuk/doublestar/v4"
)

// Options configures one content search.
type Options struct {
	Query        string
	FilePath     string // exact relative path, overrides FileGlob
	FileGlob     string // doublestar glob over relative paths
	MaxResults   int
	ContextLines int
}

// Result groups the line matches found in one file.
type Result struct {
	Path    string
	Matches []LineMatch
}

// LineMatch is a single matching line with optional context.
type LineMatch struct {
	LineNumber    int // 1-based
	LineText      string
	ContextBefore []string
	ContextAfter  []string
}

// Search runs a full-text query over the indexed contents.
// Query formats:
//   - plain text: word-level match
//   - "quoted text": exact phrase
//   - /pattern/: regular expression
func (ix *Index) Search(opts Options) ([]Result, int, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if opts.MaxResults <= 0 {
		opts.MaxResults = 50
	}
	if opts.ContextLines < 0 {
		opts.ContextLines = 0
	}

	req := bleve.NewSearchRequest(buildQuery(opts.Query))
	// Oversample: hits get filtered by path/glob and grouped per file.
	req.Size = opts.MaxResults * 5
	req.Fields = []string{"path", "language"}

	hits, err := ix.idx.Search(req)
	if err != nil {
		return nil, 0, fmt.Errorf("searching content index: %w", err)
	}

	filePath := strings.ReplaceAll(opts.FilePath, "\\", "/")
	fileGlob := strings.ReplaceAll(opts.FileGlob, "\\", "/")

	var results []Result
	totalMatches := 0
	for _, hit := range hits.Hits {
		relPath := hit.ID
		content, ok := ix.contents[relPath]
		if !ok {
			continue
		}
		if filePath != "" {
			if relPath != filePath {
				continue
			}
		} else if fileGlob != "" {
			matched, matchErr := doublestar.Match(fileGlob, relPath)
			if matchErr != nil || !matched {
				continue
			}
		}

		matches := findMatchingLines(content, opts.Query, opts.ContextLines)
		if len(matches) == 0 {
			continue
		}
		totalMatches += len(matches)
		results = append(results, Result{Path: relPath, Matches: matches})
		if len(results) >= opts.MaxResults {
			break
		}
	}

	return results, totalMatches, nil
}

// buildQuery parses the query string into a Bleve query.
func buildQuery(queryString string) query.Query {
	queryString = strings.TrimSpace(queryString)

	if strings.HasPrefix(queryString, "/") && strings.HasSuffix(queryString, "/") && len(queryString) > 2 {
		return bleve.NewRegexpQuery(queryString[1 : len(queryString)-1])
	}
	if strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"") && len(queryString) > 2 {
		return bleve.NewMatchPhraseQuery(queryString[1 : len(queryString)-1])
	}
	return bleve.NewMatchQuery(queryString)
}

// findMatchingLines scans content line by line for the raw search term
// and attaches context lines.
func findMatchingLines(content string, queryString string, contextLines int) []LineMatch {
	lines := strings.Split(content, "\n")
	term := strings.ToLower(extractSearchTerm(queryString))

	var matches []LineMatch
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), term) {
			continue
		}
		match := LineMatch{LineNumber: i + 1, LineText: line}
		for j := max(0, i-contextLines); j < i; j++ {
			match.ContextBefore = append(match.ContextBefore, lines[j])
		}
		for j := i + 1; j < min(len(lines), i+contextLines+1); j++ {
			match.ContextAfter = append(match.ContextAfter, lines[j])
		}
		matches = append(matches, match)
	}
	return matches
}

// extractSearchTerm strips query syntax for the line-level pass.
func extractSearchTerm(queryString string) string {
	queryString = strings.TrimSpace(queryString)
	if len(queryString) > 2 {
		if strings.HasPrefix(queryString, "/") && strings.HasSuffix(queryString, "/") {
			return queryString[1 : len(queryString)-1]
		}
		if strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"") {
			return queryString[1 : len(queryString)-1]
		}
	}
	return queryString
}
