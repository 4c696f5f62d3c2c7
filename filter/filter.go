package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Config enumerates the filtering knobs for an index build. The zero value
// is usable: empty pattern list, allow-all extensions, default caps.
type Config struct {
	// IgnorePatterns is an ordered list of doublestar globs. The first
	// pattern that matches a path decides; a "!" prefix re-includes.
	IgnorePatterns []string
	// AllowedExtensions restricts indexing to the listed extensions
	// (without dot, case-insensitive). Empty means allow all.
	AllowedExtensions []string
	// MaxFileBytes caps the size of an indexable file.
	MaxFileBytes int64
	// MaxTotalFiles caps the number of file entries in one index.
	MaxTotalFiles int
}

const (
	DefaultMaxFileBytes  = 1024 * 1024 // 1MB
	DefaultMaxTotalFiles = 10000
)

// Validate checks the config once, at construction time.
func (c Config) Validate() error {
	if c.MaxFileBytes < 0 {
		return fmt.Errorf("maxFileBytes must not be negative: %d", c.MaxFileBytes)
	}
	if c.MaxTotalFiles < 0 {
		return fmt.Errorf("maxTotalFiles must not be negative: %d", c.MaxTotalFiles)
	}
	for _, pattern := range c.IgnorePatterns {
		trimmed := strings.TrimPrefix(pattern, "!")
		if trimmed == "" || !doublestar.ValidatePattern(trimmed) {
			return fmt.Errorf("invalid ignore pattern: %q", pattern)
		}
	}
	return nil
}

// WithDefaults returns a copy with zero caps replaced by the defaults.
func (c Config) WithDefaults() Config {
	if c.MaxFileBytes == 0 {
		c.MaxFileBytes = DefaultMaxFileBytes
	}
	if c.MaxTotalFiles == 0 {
		c.MaxTotalFiles = DefaultMaxTotalFiles
	}
	return c
}

// Canonical returns a stable textual form of the config. It feeds the
// index fingerprint, so the same config must always serialize the same:
// patterns keep their order (order is significant), extensions are a set
// and get sorted.
func (c Config) Canonical() string {
	c = c.WithDefaults()
	exts := make([]string, 0, len(c.AllowedExtensions))
	for _, ext := range c.AllowedExtensions {
		exts = append(exts, strings.ToLower(strings.TrimPrefix(ext, ".")))
	}
	sort.Strings(exts)
	return fmt.Sprintf("ignore=%s;ext=%s;maxBytes=%d;maxFiles=%d",
		strings.Join(c.IgnorePatterns, ","),
		strings.Join(exts, ","),
		c.MaxFileBytes,
		c.MaxTotalFiles,
	)
}

// Filter decides whether a filesystem entry belongs in the index.
// It combines the configured patterns, the built-in defaults, and the
// root's .gitignore / .onboardignore files. It is a pure predicate over
// paths and metadata; running counters (file cap) are owned by the
// caller so the filter stays reusable across scans.
// Thread-safe: Reload() takes the write lock, Include() the read lock.
type Filter struct {
	mu            sync.RWMutex
	rootDir       string
	cfg           Config
	allowedExts   map[string]bool
	gitIgnore     gitignore.GitIgnore
	onboardIgnore gitignore.GitIgnore
}

// New creates a filter for the given root directory, validating the
// config once.
func New(rootDir string, cfg Config) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	f := &Filter{
		rootDir:     rootDir,
		cfg:         cfg,
		allowedExts: make(map[string]bool, len(cfg.AllowedExtensions)),
	}
	for _, ext := range cfg.AllowedExtensions {
		f.allowedExts[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	f.gitIgnore = loadIgnoreFile(filepath.Join(rootDir, ".gitignore"), rootDir)
	f.onboardIgnore = loadIgnoreFile(filepath.Join(rootDir, ".onboardignore"), rootDir)

	return f, nil
}

// Config returns the validated configuration the filter was built with.
func (f *Filter) Config() Config {
	return f.cfg
}

// Include reports whether the entry at relPath (forward slashes,
// relative to root) belongs in the index. Directories that return false
// are pruned from the traversal entirely.
func (f *Filter) Include(relPath string, isDir bool) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	// Ordered config patterns, first match wins.
	if matched, include := f.matchConfigPatterns(relPath); matched {
		return include
	}

	if matchesDefaultPatterns(relPath) {
		return false
	}

	if f.matchesIgnoreFiles(relPath, isDir) {
		return false
	}

	if !isDir && len(f.allowedExts) > 0 {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(relPath), "."))
		if !f.allowedExts[ext] {
			return false
		}
	}

	return true
}

// FileTooLarge reports whether a file exceeds the configured size cap.
func (f *Filter) FileTooLarge(size int64) bool {
	return size > f.cfg.MaxFileBytes
}

// MaxTotalFiles returns the configured file-count cap.
func (f *Filter) MaxTotalFiles() int {
	return f.cfg.MaxTotalFiles
}

// matchConfigPatterns checks the ordered user patterns against the
// relative path and its basename. Returns (matched, include).
func (f *Filter) matchConfigPatterns(relPath string) (bool, bool) {
	base := filepath.Base(relPath)
	for _, pattern := range f.cfg.IgnorePatterns {
		include := false
		if strings.HasPrefix(pattern, "!") {
			include = true
			pattern = pattern[1:]
		}
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true, include
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true, include
		}
	}
	return false, false
}

// matchesIgnoreFiles checks relPath against .gitignore and
// .onboardignore rules. The matchers evaluate one path at a time, so a
// directory rule like "private/" has to be applied to every ancestor as
// well: the scanner prunes ignored directories before descending, but
// the watcher hands in bare file paths from anywhere in the tree. Git
// semantics apply — an ignored directory excludes everything beneath it.
func (f *Filter) matchesIgnoreFiles(relPath string, isDir bool) bool {
	if f.gitIgnore == nil && f.onboardIgnore == nil {
		return false
	}

	parts := strings.Split(relPath, "/")
	for i := range parts {
		prefix := strings.Join(parts[:i+1], "/")
		prefixIsDir := i < len(parts)-1 || isDir
		if f.gitIgnore != nil {
			if match := f.gitIgnore.Relative(prefix, prefixIsDir); match != nil && match.Ignore() {
				return true
			}
		}
		if f.onboardIgnore != nil {
			if match := f.onboardIgnore.Relative(prefix, prefixIsDir); match != nil && match.Ignore() {
				return true
			}
		}
	}
	return false
}

// Reload re-reads .gitignore and .onboardignore from disk. Called when
// the watcher sees either file change.
func (f *Filter) Reload() {
	newGitIgnore := loadIgnoreFile(filepath.Join(f.rootDir, ".gitignore"), f.rootDir)
	newOnboardIgnore := loadIgnoreFile(filepath.Join(f.rootDir, ".onboardignore"), f.rootDir)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.gitIgnore = newGitIgnore
	f.onboardIgnore = newOnboardIgnore
}

// matchesDefaultPatterns checks the built-in ignore set. Plain names
// match any path component; glob patterns match the basename and the
// full relative path. Matching is case-insensitive.
func matchesDefaultPatterns(relPath string) bool {
	baseLower := strings.ToLower(filepath.Base(relPath))
	relLower := strings.ToLower(relPath)

	for _, pattern := range DefaultIgnorePatterns {
		if !strings.ContainsAny(pattern, "*?[") {
			if baseLower == pattern {
				return true
			}
			for _, part := range strings.Split(relLower, "/") {
				if part == pattern {
					return true
				}
			}
			continue
		}
		if matched, err := filepath.Match(pattern, baseLower); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(pattern, relLower); err == nil && matched {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads an ignore file into a GitIgnore matcher.
// A missing file is not an error; it just yields a nil matcher.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
