package tools

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/onboardhq/onboard-mcp/search"
)

func newTestReadHandler(t *testing.T) *ReadHandler {
	t.Helper()
	ix, err := search.NewIndex()
	if err != nil {
		t.Fatalf("failed to create content index: %v", err)
	}
	t.Cleanup(func() { ix.Close() })

	return &ReadHandler{
		Content: ix,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func Test_ReadHandler_EmptyFilePath(t *testing.T) {
	h := newTestReadHandler(t)

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty filePath")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "filePath parameter is required") {
		t.Errorf("expected error message about empty filePath, got: %s", text)
	}
}

func Test_ReadHandler_FileNotFound(t *testing.T) {
	h := newTestReadHandler(t)

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: "nonexistent.go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for missing file")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "File not found") {
		t.Errorf("expected 'File not found' message, got: %s", text)
	}
}

func Test_ReadHandler_ReturnsNumberedContent(t *testing.T) {
	h := newTestReadHandler(t)

	if err := h.Content.IndexFile("main.go", "package main\nfunc main() {}", "Go"); err != nil {
		t.Fatalf("failed to index file: %v", err)
	}

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: "main.go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", result.Content[0].(*mcp.TextContent).Text)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "1│ package main") {
		t.Errorf("expected numbered content, got:\n%s", text)
	}
}
