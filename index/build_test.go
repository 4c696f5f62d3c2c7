package index

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/onboardhq/onboard-mcp/filter"
)

func newTestFilter(t *testing.T, rootDir string, cfg filter.Config) *filter.Filter {
	t.Helper()
	f, err := filter.New(rootDir, cfg)
	if err != nil {
		t.Fatalf("unexpected error creating filter: %v", err)
	}
	return f
}

func writeFile(t *testing.T, rootDir string, relPath string, content string) {
	t.Helper()
	absPath := filepath.Join(rootDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func Test_Fingerprint_PureFunctionOfRootAndConfig(t *testing.T) {
	cfg := filter.Config{IgnorePatterns: []string{"*.log"}}

	a := Fingerprint("/some/project", cfg)
	b := Fingerprint("/some/project", cfg)
	if a != b {
		t.Error("expected identical fingerprints for identical inputs")
	}

	if Fingerprint("/other/project", cfg) == a {
		t.Error("expected different roots to produce different fingerprints")
	}
	if Fingerprint("/some/project", filter.Config{IgnorePatterns: []string{"*.tmp"}}) == a {
		t.Error("expected different configs to produce different fingerprints")
	}
}

func Test_Build_Deterministic(t *testing.T) {
	rootDir := t.TempDir()
	writeFile(t, rootDir, "a.py", "x\ny\n")
	writeFile(t, rootDir, "b/c.py", "x\n")
	f := newTestFilter(t, rootDir, filter.Config{})

	first, err := Build(rootDir, f)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Build(rootDir, f)
	if err != nil {
		t.Fatal(err)
	}

	if first.Fingerprint != second.Fingerprint {
		t.Error("expected identical fingerprints across builds")
	}

	// Byte-identical serialization apart from the timestamp.
	second.GeneratedAt = first.GeneratedAt
	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	secondJSON, err := json.Marshal(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Errorf("expected byte-identical documents, got:\n%s\n%s", firstJSON, secondJSON)
	}
}

func Test_Build_DocumentShape(t *testing.T) {
	rootDir := t.TempDir()
	writeFile(t, rootDir, "a.py", "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n")
	writeFile(t, rootDir, "b/ignored.log", "log\n")
	writeFile(t, rootDir, "b/c.py", "1\n2\n3\n4\n5\n")
	f := newTestFilter(t, rootDir, filter.Config{IgnorePatterns: []string{"*.log"}})

	doc, err := Build(rootDir, f)
	if err != nil {
		t.Fatal(err)
	}

	if doc.FileCount != 2 {
		t.Errorf("expected file_count=2, got %d", doc.FileCount)
	}
	if doc.DirCount != 1 {
		t.Errorf("expected dir_count=1, got %d", doc.DirCount)
	}
	if doc.Truncated {
		t.Error("expected truncated=false")
	}
	if len(doc.Skipped) != 0 {
		t.Errorf("expected no skipped entries, got %v", doc.Skipped)
	}

	files := doc.Files()
	if len(files) != 2 || files[0].Path != "a.py" || files[1].Path != "b/c.py" {
		t.Errorf("unexpected file entries: %+v", files)
	}
	if rec := doc.Entry("b/c.py"); rec == nil || rec.Lines != 5 {
		t.Errorf("expected b/c.py with 5 lines, got %+v", rec)
	}
	if !filepath.IsAbs(doc.Root) {
		t.Errorf("expected absolute root, got %s", doc.Root)
	}
}

func Test_Build_EmptySlicesNeverNull(t *testing.T) {
	rootDir := t.TempDir()
	f := newTestFilter(t, rootDir, filter.Config{})

	doc, err := Build(rootDir, f)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte(`"skipped":null`)) || bytes.Contains(data, []byte(`"entries":null`)) {
		t.Errorf("expected empty arrays in serialized form, got %s", data)
	}
}
