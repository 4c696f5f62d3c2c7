package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/onboardhq/onboard-mcp/index"
	"github.com/onboardhq/onboard-mcp/scan"
)

// DocumentProvider returns the current index document. Handlers take a
// provider rather than a document because reindexing swaps the document
// for a new one.
type DocumentProvider func() *index.Document

// FilesArgs defines the input parameters for the onboard_files tool.
type FilesArgs struct {
	Pattern    string `json:"pattern" jsonschema:"Glob pattern to match files (e.g. **/*.ts or src/**/*.go)"`
	NameOnly   bool   `json:"nameOnly,omitempty" jsonschema:"If true return only file paths without metadata"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// FilesHandler holds the dependencies for the files tool.
type FilesHandler struct {
	Snapshot DocumentProvider
	Logger   *slog.Logger
}

// Handle processes an onboard_files request.
func (h *FilesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FilesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern == "" {
		h.Logger.Warn("onboard_files called with empty pattern")
		return errorResult("Error: pattern parameter is required"), nil, nil
	}

	pattern := strings.ReplaceAll(args.Pattern, "\\", "/")
	if !doublestar.ValidatePattern(pattern) {
		return errorResult(fmt.Sprintf("Invalid glob pattern: %s", args.Pattern)), nil, nil
	}

	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	doc := h.Snapshot()
	var matched []scan.Record
	for _, rec := range doc.Files() {
		if len(matched) >= maxResults {
			break
		}
		if ok, err := doublestar.Match(pattern, rec.Path); err == nil && ok {
			matched = append(matched, rec)
		}
	}

	h.Logger.Info("onboard_files",
		"pattern", args.Pattern,
		"results", len(matched),
		"elapsed", time.Since(start),
	)

	return textResult(FormatFileRecords(matched, args.NameOnly)), nil, nil
}
