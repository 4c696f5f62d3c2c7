package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/onboardhq/onboard-mcp/search"
)

// ReadArgs defines the input parameters for the onboard_read tool.
type ReadArgs struct {
	FilePath string `json:"filePath" jsonschema:"Relative file path to read from the index (e.g. src/main.go)"`
}

// ReadHandler holds the dependencies for the read tool.
type ReadHandler struct {
	Content *search.Index
	Logger  *slog.Logger
}

// Handle processes an onboard_read request.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.FilePath == "" {
		h.Logger.Warn("onboard_read called with empty filePath")
		return errorResult("Error: filePath parameter is required"), nil, nil
	}

	content, ok := h.Content.GetFileContent(args.FilePath)
	if !ok {
		h.Logger.Info("onboard_read file not found", "filePath", args.FilePath)
		return errorResult(fmt.Sprintf("File not found in index: %s", args.FilePath)), nil, nil
	}

	h.Logger.Info("onboard_read", "filePath", args.FilePath, "elapsed", time.Since(start))

	return textResult(FormatFileContent(args.FilePath, content)), nil, nil
}
