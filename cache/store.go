// Package cache persists index documents keyed by fingerprint: one
// JSON file per fingerprint under a single cache directory. Writes are
// atomic per key (write-temp-then-rename), so concurrent rebuilds of
// the same fingerprint can race without ever exposing a torn document.
// A cache entry that cannot be read or parsed is simply a miss.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/onboardhq/onboard-mcp/filter"
	"github.com/onboardhq/onboard-mcp/index"
	"github.com/onboardhq/onboard-mcp/scan"
)

// Entry is the stored envelope: the document plus the moment it was
// persisted, which freshness checks compare against the tree's latest
// modification time.
type Entry struct {
	StoredAt time.Time       `json:"stored_at"`
	Document *index.Document `json:"document"`
}

// Store is a keyed document store on durable storage. Keys are
// independent; corruption of one entry never affects another.
type Store struct {
	dir string
}

// DefaultDir returns the user-scoped default cache directory.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache dir: %w", err)
	}
	return filepath.Join(base, "onboard-mcp"), nil
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) entryPath(fingerprint string) string {
	return filepath.Join(s.dir, "index_"+fingerprint+".json")
}

// Lookup returns the cached document for a fingerprint. Any read or
// parse failure is reported as a miss, never as an error.
func (s *Store) Lookup(fingerprint string) (*index.Document, bool) {
	entry, ok := s.lookupEntry(fingerprint)
	if !ok || entry.Document == nil {
		return nil, false
	}
	return entry.Document, true
}

func (s *Store) lookupEntry(fingerprint string) (*Entry, bool) {
	data, err := os.ReadFile(s.entryPath(fingerprint))
	if err != nil {
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

// Put persists a document under its fingerprint, replacing any previous
// entry. The write goes to a temp file in the same directory and is
// renamed into place, so readers only ever see complete entries.
func (s *Store) Put(fingerprint string, doc *index.Document) error {
	entry := Entry{
		StoredAt: time.Now().UTC(),
		Document: doc,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "index_*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing cache entry: %w", err)
	}
	if err := os.Rename(tmpPath, s.entryPath(fingerprint)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing cache entry: %w", err)
	}
	return nil
}

// IsFresh reports whether a cached entry exists for the fingerprint and
// is not older than the latest modification time of any included entry
// under root. Once stale, an entry stays stale until rebuilt.
func (s *Store) IsFresh(fingerprint string, rootDir string, f *filter.Filter) bool {
	entry, ok := s.lookupEntry(fingerprint)
	if !ok {
		return false
	}
	latest, err := scan.LatestMtime(rootDir, f)
	if err != nil {
		return false
	}
	return !entry.StoredAt.Before(latest)
}

// Evict removes the entry for a fingerprint. Removing a missing entry
// is not an error.
func (s *Store) Evict(fingerprint string) error {
	err := os.Remove(s.entryPath(fingerprint))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("evicting cache entry: %w", err)
	}
	return nil
}
