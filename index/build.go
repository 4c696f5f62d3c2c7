package index

import (
	"path/filepath"
	"time"

	"github.com/onboardhq/onboard-mcp/filter"
	"github.com/onboardhq/onboard-mcp/scan"
)

// Build scans rootDir through the filter and assembles a Document.
// The builder reads no file contents; the index is structural metadata
// only, so the cost is proportional to the number of filesystem
// entries.
func Build(rootDir string, f *filter.Filter) (*Document, error) {
	res, err := scan.Scan(rootDir, f)
	if err != nil {
		return nil, err
	}
	return FromScan(rootDir, f.Config(), res), nil
}

// FromScan assembles a Document from an already-completed scan. Split
// out from Build so callers can supply the scan themselves (the service
// facade injects its own scanner).
func FromScan(rootDir string, cfg filter.Config, res *scan.Result) *Document {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		abs = rootDir
	}

	doc := &Document{
		Root:        abs,
		Fingerprint: Fingerprint(abs, cfg),
		GeneratedAt: time.Now().UTC(),
		FileCount:   res.FileCount,
		DirCount:    res.DirCount,
		Truncated:   res.Truncated,
		Skipped:     res.Skipped,
		Entries:     res.Records,
	}
	// Keep serialization stable: empty slices, never null.
	if doc.Skipped == nil {
		doc.Skipped = []string{}
	}
	if doc.Entries == nil {
		doc.Entries = []scan.Record{}
	}
	return doc
}
