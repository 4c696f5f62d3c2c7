package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/onboardhq/onboard-mcp/search"
	"github.com/onboardhq/onboard-mcp/tasks"
)

// StatusArgs defines the input parameters for the onboard_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Snapshot  DocumentProvider
	Content   *search.Index
	Tasks     *tasks.Store
	CacheDir  string
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes an onboard_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	doc := h.Snapshot()
	docCount := h.Content.DocumentCount()
	uptime := time.Since(h.StartTime)

	taskCount := 0
	if h.Tasks != nil {
		if n, err := h.Tasks.Count(); err == nil {
			taskCount = n
		}
	}

	var totalSize int64
	langCounts := make(map[string]int)
	for _, rec := range doc.Files() {
		totalSize += rec.Size
		if rec.Language != "" {
			langCounts[rec.Language]++
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("onboard_status",
		"files", doc.FileCount,
		"totalSize", totalSize,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	var builder strings.Builder
	builder.WriteString("=== onboard-mcp Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", doc.Root))
	builder.WriteString(fmt.Sprintf("Index fingerprint: %s\n", doc.Fingerprint))
	builder.WriteString(fmt.Sprintf("Index generated: %s\n", doc.GeneratedAt.Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf("Cache directory: %s\n", h.CacheDir))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Indexed files: %d (%d directories)\n", doc.FileCount, doc.DirCount))
	if doc.Truncated {
		builder.WriteString("Index truncated: file cap reached during scan\n")
	}
	if len(doc.Skipped) > 0 {
		builder.WriteString(fmt.Sprintf("Skipped entries: %d\n", len(doc.Skipped)))
	}
	builder.WriteString(fmt.Sprintf("Content-indexed documents: %d\n", docCount))
	builder.WriteString(fmt.Sprintf("Tasks loaded: %d\n", taskCount))
	builder.WriteString(fmt.Sprintf("Total indexed size: %s\n", formatFileSize(totalSize)))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	if len(langCounts) > 0 {
		builder.WriteString("\nLanguages:\n")

		type langEntry struct {
			lang  string
			count int
		}
		entries := make([]langEntry, 0, len(langCounts))
		for lang, count := range langCounts {
			entries = append(entries, langEntry{lang, count})
		}
		// Sort by count descending, name ascending for ties.
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].lang < entries[j].lang
		})

		for _, entry := range entries {
			builder.WriteString(fmt.Sprintf("  %-20s %d files\n", entry.lang, entry.count))
		}
	}

	return textResult(builder.String()), nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
