package tools

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/onboardhq/onboard-mcp/index"
	"github.com/onboardhq/onboard-mcp/scan"
)

func newTestFilesHandler(t *testing.T, records []scan.Record) *FilesHandler {
	t.Helper()
	fileCount := 0
	for _, rec := range records {
		if rec.Kind == scan.KindFile {
			fileCount++
		}
	}
	doc := &index.Document{
		Root:      "/project",
		FileCount: fileCount,
		Entries:   records,
	}
	return &FilesHandler{
		Snapshot: func() *index.Document { return doc },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func Test_FilesHandler_EmptyPattern(t *testing.T) {
	h := newTestFilesHandler(t, nil)

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty pattern")
	}
}

func Test_FilesHandler_InvalidGlob(t *testing.T) {
	h := newTestFilesHandler(t, nil)

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: "[unclosed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for invalid glob")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Invalid glob pattern") {
		t.Errorf("expected invalid-glob message, got: %s", text)
	}
}

func Test_FilesHandler_MatchesByGlob(t *testing.T) {
	h := newTestFilesHandler(t, []scan.Record{
		{Path: "src", Kind: scan.KindDir},
		{Path: "src/main.go", Kind: scan.KindFile, Size: 100, Lines: 10, Language: "Go"},
		{Path: "src/util.go", Kind: scan.KindFile, Size: 50, Lines: 5, Language: "Go"},
		{Path: "README.md", Kind: scan.KindFile, Size: 20, Lines: 3, Language: "Markdown"},
	})

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: "**/*.go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", result.Content[0].(*mcp.TextContent).Text)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Found 2 files") {
		t.Errorf("expected 2 matches, got:\n%s", text)
	}
	if !strings.Contains(text, "src/main.go") || !strings.Contains(text, "src/util.go") {
		t.Errorf("expected both Go files, got:\n%s", text)
	}
	if strings.Contains(text, "README.md") {
		t.Errorf("did not expect README.md, got:\n%s", text)
	}
}

func Test_FilesHandler_MaxResults(t *testing.T) {
	h := newTestFilesHandler(t, []scan.Record{
		{Path: "a.go", Kind: scan.KindFile},
		{Path: "b.go", Kind: scan.KindFile},
		{Path: "c.go", Kind: scan.KindFile},
	})

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: "*.go", MaxResults: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Found 2 files") {
		t.Errorf("expected results capped at 2, got:\n%s", text)
	}
}

func Test_FilesHandler_NoMatches(t *testing.T) {
	h := newTestFilesHandler(t, []scan.Record{
		{Path: "main.go", Kind: scan.KindFile},
	})

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: "**/*.py"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if text != "No files matched." {
		t.Errorf("expected 'No files matched.', got: %s", text)
	}
}
