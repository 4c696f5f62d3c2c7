package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/onboardhq/onboard-mcp/filter"
	"github.com/onboardhq/onboard-mcp/service"
)

// IndexArgs defines the input parameters for the onboard_index tool.
type IndexArgs struct {
	Format       string `json:"format,omitempty" jsonschema:"Output format: text (tree plus file list, default) or json (raw index document)"`
	MaxFiles     int    `json:"maxFiles,omitempty" jsonschema:"Cap on files shown in text format (default 500)"`
	ForceRebuild bool   `json:"forceRebuild,omitempty" jsonschema:"If true bypass the cache and rescan the tree"`
}

// IndexHandler holds the dependencies for the index tool. It goes
// through the service facade, so a fresh cached document is served
// without a scan.
type IndexHandler struct {
	Service *service.IndexService
	Filter  *filter.Filter
	RootDir string
	Logger  *slog.Logger
}

// Handle processes an onboard_index request.
func (h *IndexHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args IndexArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	doc, err := h.Service.GetIndex(h.RootDir, h.Filter, args.ForceRebuild)
	if err != nil {
		h.Logger.Error("onboard_index failed", "root", h.RootDir, "error", err)
		return errorResult(fmt.Sprintf("Index error: %v", err)), nil, nil
	}

	h.Logger.Info("onboard_index",
		"root", h.RootDir,
		"files", doc.FileCount,
		"dirs", doc.DirCount,
		"truncated", doc.Truncated,
		"forceRebuild", args.ForceRebuild,
		"elapsed", time.Since(start),
	)

	if args.Format == "json" {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("Encoding error: %v", err)), nil, nil
		}
		return textResult(string(data)), nil, nil
	}

	return textResult(doc.FormatForContext(args.MaxFiles)), nil, nil
}
