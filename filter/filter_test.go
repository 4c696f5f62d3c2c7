package filter

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestFilter(t *testing.T, rootDir string, cfg Config) *Filter {
	t.Helper()
	f, err := New(rootDir, cfg)
	if err != nil {
		t.Fatalf("unexpected error creating filter: %v", err)
	}
	return f
}

func Test_Config_Validate_RejectsNegativeCaps(t *testing.T) {
	if err := (Config{MaxFileBytes: -1}).Validate(); err == nil {
		t.Error("expected error for negative MaxFileBytes")
	}
	if err := (Config{MaxTotalFiles: -5}).Validate(); err == nil {
		t.Error("expected error for negative MaxTotalFiles")
	}
}

func Test_Config_Validate_RejectsInvalidPattern(t *testing.T) {
	cfg := Config{IgnorePatterns: []string{"[invalid"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid glob pattern")
	}
}

func Test_Config_Canonical_IsStable(t *testing.T) {
	a := Config{
		IgnorePatterns:    []string{"*.log", "tmp"},
		AllowedExtensions: []string{"py", "go"},
	}
	b := Config{
		IgnorePatterns:    []string{"*.log", "tmp"},
		AllowedExtensions: []string{"go", "py"}, // extension order must not matter
	}
	if a.Canonical() != b.Canonical() {
		t.Errorf("canonical forms differ: %q vs %q", a.Canonical(), b.Canonical())
	}

	c := Config{IgnorePatterns: []string{"tmp", "*.log"}} // pattern order must matter
	if a.Canonical() == c.Canonical() {
		t.Error("expected different canonical forms for reordered patterns")
	}
}

func Test_Filter_Include_DefaultPatterns(t *testing.T) {
	f := newTestFilter(t, t.TempDir(), Config{})

	if f.Include("node_modules", true) {
		t.Error("expected node_modules to be excluded")
	}
	if f.Include(".git/config", false) {
		t.Error("expected .git contents to be excluded")
	}
	if f.Include("src/app.min.js", false) {
		t.Error("expected minified file to be excluded")
	}
	if !f.Include("src/main.go", false) {
		t.Error("expected src/main.go to be included")
	}
}

func Test_Filter_Include_ConfigPatterns_FirstMatchWins(t *testing.T) {
	f := newTestFilter(t, t.TempDir(), Config{
		IgnorePatterns: []string{"!keep.log", "*.log"},
	})

	if !f.Include("logs/keep.log", false) {
		t.Error("expected keep.log to be re-included by negation")
	}
	if f.Include("logs/debug.log", false) {
		t.Error("expected debug.log to be excluded")
	}
}

func Test_Filter_Include_ExtensionAllowList(t *testing.T) {
	f := newTestFilter(t, t.TempDir(), Config{
		AllowedExtensions: []string{"go", ".py"},
	})

	if !f.Include("cmd/main.go", false) {
		t.Error("expected .go file to pass the allow-list")
	}
	if !f.Include("scripts/run.py", false) {
		t.Error("expected .py file to pass the allow-list")
	}
	if f.Include("README.md", false) {
		t.Error("expected .md file to be rejected by the allow-list")
	}
	// Directories are never subject to the extension allow-list.
	if !f.Include("scripts", true) {
		t.Error("expected directory to be included regardless of allow-list")
	}
}

func Test_Filter_Include_GitignoreRules(t *testing.T) {
	rootDir := t.TempDir()
	gitignorePath := filepath.Join(rootDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("secrets/\n*.generated.go\n"), 0644); err != nil {
		t.Fatal(err)
	}

	f := newTestFilter(t, rootDir, Config{})

	if f.Include("secrets", true) {
		t.Error("expected gitignored directory to be excluded")
	}
	if f.Include("api/types.generated.go", false) {
		t.Error("expected gitignored file to be excluded")
	}
	if !f.Include("api/types.go", false) {
		t.Error("expected regular file to be included")
	}
}

func Test_Filter_Include_FileInsideIgnoredDirectory(t *testing.T) {
	rootDir := t.TempDir()
	gitignorePath := filepath.Join(rootDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("secrets/\n"), 0644); err != nil {
		t.Fatal(err)
	}

	f := newTestFilter(t, rootDir, Config{})

	// The watcher hands in bare file paths, so a directory rule must
	// also cover everything nested beneath it.
	if f.Include("secrets/key.pem", false) {
		t.Error("expected file directly under ignored directory to be excluded")
	}
	if f.Include("secrets/deep/nested/key.pem", false) {
		t.Error("expected deeply nested file under ignored directory to be excluded")
	}
	if !f.Include("secretsfile.go", false) {
		t.Error("expected sibling with matching name prefix to be included")
	}
	if !f.Include("api/secrets.go", false) {
		t.Error("expected file merely named like the directory to be included")
	}
}

func Test_Filter_Reload_PicksUpIgnoreChanges(t *testing.T) {
	rootDir := t.TempDir()
	f := newTestFilter(t, rootDir, Config{})

	if !f.Include("private/key.pem", false) {
		t.Fatal("expected file to be included before ignore rule exists")
	}

	if err := os.WriteFile(filepath.Join(rootDir, ".onboardignore"), []byte("private/\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f.Reload()

	if f.Include("private/key.pem", false) {
		t.Error("expected file to be excluded after reload")
	}
}

func Test_Filter_FileTooLarge(t *testing.T) {
	f := newTestFilter(t, t.TempDir(), Config{MaxFileBytes: 100})

	if f.FileTooLarge(100) {
		t.Error("expected file at the limit to pass")
	}
	if !f.FileTooLarge(101) {
		t.Error("expected file over the limit to be rejected")
	}
}
