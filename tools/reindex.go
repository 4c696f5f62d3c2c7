package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReindexArgs defines the input parameters for the onboard_reindex tool.
type ReindexArgs struct{}

// ReindexFunc is the function signature for the reindex operation.
// It is provided by main.go to avoid circular dependencies.
type ReindexFunc func() (fileCount int, contentCount int, elapsed string, err error)

// ReindexHandler holds the dependencies for the reindex tool.
type ReindexHandler struct {
	DoReindex ReindexFunc
	Logger    *slog.Logger
}

// Handle processes an onboard_reindex request.
func (h *ReindexHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReindexArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("onboard_reindex started")

	fileCount, contentCount, elapsed, err := h.DoReindex()
	if err != nil {
		h.Logger.Error("onboard_reindex failed", "error", err)
		return errorResult(fmt.Sprintf("Reindex error: %v", err)), nil, nil
	}

	h.Logger.Info("onboard_reindex complete",
		"files", fileCount,
		"contentDocs", contentCount,
		"elapsed", elapsed,
	)

	output := fmt.Sprintf("reindexed: %d files (%d content-indexed) in %s",
		fileCount, contentCount, elapsed)

	return textResult(output), nil, nil
}
