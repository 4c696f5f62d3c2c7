// Package index builds the serializable structural index of a project
// tree. A Document is created once per build, is immutable afterwards,
// and is superseded (never patched) by the next build.
package index

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"time"

	"github.com/onboardhq/onboard-mcp/filter"
	"github.com/onboardhq/onboard-mcp/scan"
)

// Document is the on-disk and over-the-wire index format. Field order
// is fixed by the struct, so serialization of the same filesystem state
// is byte-identical apart from GeneratedAt.
type Document struct {
	Root        string        `json:"root"`
	Fingerprint string        `json:"fingerprint"`
	GeneratedAt time.Time     `json:"generated_at"`
	FileCount   int           `json:"file_count"`
	DirCount    int           `json:"dir_count"`
	Truncated   bool          `json:"truncated"`
	Skipped     []string      `json:"skipped"`
	Entries     []scan.Record `json:"entries"`
}

// Entry returns the record for a relative path, or nil.
func (d *Document) Entry(relPath string) *scan.Record {
	for i := range d.Entries {
		if d.Entries[i].Path == relPath {
			return &d.Entries[i]
		}
	}
	return nil
}

// Files returns only the file records, in document order.
func (d *Document) Files() []scan.Record {
	files := make([]scan.Record, 0, d.FileCount)
	for _, rec := range d.Entries {
		if rec.Kind == scan.KindFile {
			files = append(files, rec)
		}
	}
	return files
}

// Fingerprint computes the stable cache key for a (root, config) pair.
// It is a pure function of the absolute root path and the canonical
// config: file contents never participate, so a cache lookup needs no
// scan.
func Fingerprint(rootDir string, cfg filter.Config) string {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		abs = rootDir
	}
	h := sha256.New()
	h.Write([]byte(abs))
	h.Write([]byte{'\n'})
	h.Write([]byte(cfg.Canonical()))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
