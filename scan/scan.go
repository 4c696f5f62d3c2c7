// Package scan walks a project tree into an ordered sequence of
// structural file records. The traversal is deterministic: pre-order,
// directories before their contents, siblings in lexicographic order.
// Two scans of an unchanged tree always produce identical records.
package scan

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/onboardhq/onboard-mcp/filter"
	"github.com/onboardhq/onboard-mcp/language"
)

// Kind distinguishes file and directory records.
type Kind string

const (
	KindFile Kind = "file"
	KindDir  Kind = "dir"
)

// Record is the structural metadata for one filesystem entry. Records
// are immutable once created; rebuilding a tree produces new records.
type Record struct {
	Path     string `json:"path"` // relative to root, forward slashes
	Kind     Kind   `json:"kind"`
	Size     int64  `json:"size"`
	Lines    int    `json:"lines,omitempty"` // files only, best-effort
	Ext      string `json:"ext,omitempty"`   // lowercase, with dot
	Language string `json:"language,omitempty"`
}

// Result holds the outcome of one scan.
type Result struct {
	Records   []Record
	Skipped   []string // entries that could not be read
	Truncated bool     // file-count cap reached, walk stopped early
	FileCount int
	DirCount  int
}

// Scan walks rootDir applying the filter and returns the ordered
// records. Unreadable entries land in Skipped instead of failing the
// scan; only a missing or non-directory root is an error.
func Scan(rootDir string, f *filter.Filter) (*Result, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("invalid root %s: %w", rootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid root %s: not a directory", rootDir)
	}

	res := &Result{
		Records: make([]Record, 0, 64),
		Skipped: make([]string, 0),
	}
	walkDir(rootDir, "", f, res)
	return res, nil
}

// walkDir scans one directory level. relDir is "" for the root itself.
// Returns false once the file cap is hit, which stops the whole walk.
func walkDir(rootDir string, relDir string, f *filter.Filter, res *Result) bool {
	absDir := rootDir
	if relDir != "" {
		absDir = filepath.Join(rootDir, filepath.FromSlash(relDir))
	}

	// os.ReadDir sorts by filename, which gives the lexicographic
	// sibling order the deterministic output depends on.
	entries, err := os.ReadDir(absDir)
	if err != nil {
		res.Skipped = append(res.Skipped, relDir)
		return true
	}

	for _, entry := range entries {
		relPath := entry.Name()
		if relDir != "" {
			relPath = path.Join(relDir, entry.Name())
		}

		// A symlink is a leaf with its own lstat metadata: never
		// traversed as a directory (no cycle risk) and never read
		// through, so the target's content can't slip past the size cap.
		if entry.Type()&os.ModeSymlink != 0 {
			if !f.Include(relPath, false) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				res.Skipped = append(res.Skipped, relPath)
				continue
			}
			if f.FileTooLarge(info.Size()) {
				continue
			}
			if res.FileCount >= f.MaxTotalFiles() {
				res.Truncated = true
				return false
			}
			res.Records = append(res.Records, Record{
				Path:     relPath,
				Kind:     KindFile,
				Size:     info.Size(),
				Ext:      strings.ToLower(filepath.Ext(relPath)),
				Language: language.Detect(relPath),
			})
			res.FileCount++
			continue
		}

		if entry.IsDir() {
			if !f.Include(relPath, true) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				res.Skipped = append(res.Skipped, relPath)
				continue
			}
			res.Records = append(res.Records, Record{
				Path: relPath,
				Kind: KindDir,
				Size: info.Size(),
			})
			res.DirCount++
			if !walkDir(rootDir, relPath, f, res) {
				return false
			}
			continue
		}

		if !f.Include(relPath, false) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			res.Skipped = append(res.Skipped, relPath)
			continue
		}
		if f.FileTooLarge(info.Size()) {
			continue
		}
		if res.FileCount >= f.MaxTotalFiles() {
			res.Truncated = true
			return false
		}

		lines, err := countLines(filepath.Join(rootDir, filepath.FromSlash(relPath)))
		if err != nil {
			// Stat worked but the content is unreadable: record and move on.
			res.Skipped = append(res.Skipped, relPath)
			continue
		}

		res.Records = append(res.Records, Record{
			Path:     relPath,
			Kind:     KindFile,
			Size:     info.Size(),
			Lines:    lines,
			Ext:      strings.ToLower(filepath.Ext(relPath)),
			Language: language.Detect(relPath),
		})
		res.FileCount++
	}
	return true
}

// LatestMtime walks the same filtered tree stat-only and returns the
// maximum modification time observed, including the root directory
// itself. Used for staleness checks, much cheaper than a full scan.
func LatestMtime(rootDir string, f *filter.Filter) (time.Time, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid root %s: %w", rootDir, err)
	}
	if !info.IsDir() {
		return time.Time{}, fmt.Errorf("invalid root %s: not a directory", rootDir)
	}

	latest := info.ModTime()
	statDir(rootDir, "", f, &latest)
	return latest, nil
}

func statDir(rootDir string, relDir string, f *filter.Filter, latest *time.Time) {
	absDir := rootDir
	if relDir != "" {
		absDir = filepath.Join(rootDir, filepath.FromSlash(relDir))
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		relPath := entry.Name()
		if relDir != "" {
			relPath = path.Join(relDir, entry.Name())
		}
		if !f.Include(relPath, entry.IsDir()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if mtime := info.ModTime(); mtime.After(*latest) {
			*latest = mtime
		}
		if entry.IsDir() {
			statDir(rootDir, relPath, f, latest)
		}
	}
}

// countLines counts newline-terminated lines, best-effort. File size is
// already bounded by the filter's byte cap before this runs.
func countLines(absPath string) (int, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}
	lines := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		lines++
	}
	return lines, nil
}
