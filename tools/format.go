package tools

import (
	"fmt"
	"strings"

	"github.com/onboardhq/onboard-mcp/scan"
	"github.com/onboardhq/onboard-mcp/search"
	"github.com/onboardhq/onboard-mcp/tasks"
)

// FormatSearchResults renders content search results grouped by file
// with line numbers and optional context.
func FormatSearchResults(results []search.Result, totalMatches int) string {
	if len(results) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d matches in %d files:\n\n", totalMatches, len(results)))

	for i, result := range results {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("── %s ──\n", result.Path))
		for _, match := range result.Matches {
			for _, ctxLine := range match.ContextBefore {
				builder.WriteString(fmt.Sprintf("  %s\n", ctxLine))
			}
			builder.WriteString(fmt.Sprintf("  %d: %s\n", match.LineNumber, match.LineText))
			for _, ctxLine := range match.ContextAfter {
				builder.WriteString(fmt.Sprintf("  %s\n", ctxLine))
			}
		}
	}

	return builder.String()
}

// FormatFileRecords renders file records from the structural index.
func FormatFileRecords(records []scan.Record, nameOnly bool) string {
	if len(records) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(records)))
	for _, rec := range records {
		if nameOnly {
			builder.WriteString(rec.Path)
			builder.WriteString("\n")
			continue
		}
		label := rec.Language
		if label == "" {
			label = "unknown"
		}
		builder.WriteString(fmt.Sprintf("  %s  (%s, %s, %d lines)\n",
			rec.Path, label, formatFileSize(rec.Size), rec.Lines))
	}
	return builder.String()
}

// FormatFileContent renders a file with numbered lines, similar to the
// built-in Read tool.
func FormatFileContent(filePath string, content string) string {
	lines := strings.Split(content, "\n")
	lineCount := len(lines)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%d lines) ──\n", filePath, lineCount))

	width := len(fmt.Sprintf("%d", lineCount))
	for i, line := range lines {
		builder.WriteString(fmt.Sprintf("%*d│ %s\n", width, i+1, line))
	}
	return builder.String()
}

// FormatTask renders a single task for tool output.
func FormatTask(task *tasks.Task) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── Task %s ──\n", task.ID))
	builder.WriteString(fmt.Sprintf("Title:    %s\n", task.Title))
	if task.Assignee != "" {
		builder.WriteString(fmt.Sprintf("Assignee: %s\n", task.Assignee))
	}
	if task.Status != "" {
		builder.WriteString(fmt.Sprintf("Status:   %s\n", task.Status))
	}
	if task.Description != "" {
		builder.WriteString("\n" + task.Description + "\n")
	}
	return builder.String()
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
