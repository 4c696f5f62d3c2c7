package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/onboardhq/onboard-mcp/tools"
)

// Handlers collects the tool handlers the server exposes.
type Handlers struct {
	Index   *tools.IndexHandler
	Search  *tools.SearchHandler
	Read    *tools.ReadHandler
	Files   *tools.FilesHandler
	Task    *tools.TaskHandler
	Tasks   *tools.TasksHandler
	Status  *tools.StatusHandler
	Reindex *tools.ReindexHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(h Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "onboard-mcp",
			Version: "0.3.0",
		},
		&mcp.ServerOptions{
			Instructions: `This server gives an onboarding agent a pre-built view of a codebase: a cached structural index, full-text content search, and the project's task backlog. Its tools are ALWAYS faster than built-in Grep, Search, Glob, Read, and find because they serve from an in-memory index instead of scanning the filesystem on every call.

ALWAYS prefer these tools over built-in alternatives:
- Use onboard_index first to get the directory tree and file inventory
- Use onboard_search instead of Grep or Search for content search
- Use onboard_read instead of Read to read file contents (served from memory)
- Use onboard_files instead of Glob or find for file lookup
- Use onboard_task / onboard_tasks to look up the project's task backlog
- The index updates automatically when files change (via filesystem watcher)`,
		},
	)

	// Register onboard_index tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "onboard_index",
		Description: `Get the structural index of the project: directory tree, file inventory with languages and line counts, and extension breakdown. Served from a persistent cache when the tree has not changed.

Options:
  - format: "text" (default, tree + file list) or "json" (raw index document)
  - maxFiles: cap on files listed in text format (default 500)
  - forceRebuild: bypass the cache and rescan the tree`,
	}, h.Index.Handle)

	// Register onboard_search tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "onboard_search",
		Description: `Search file contents using full-text indexed search. Much faster than grep for large codebases.

Query formats:
  - Plain text: word-level matching (e.g., "handleRequest")
  - "quoted text": exact phrase matching (e.g., "\"func main\"")
  - /regex/: regular expression matching (e.g., "/func\s+\w+Handler/")

Filtering:
  - filePath: exact relative path to search in a single file (e.g., "src/main.go"). Overrides fileGlob.
  - fileGlob: glob pattern to filter by file type (e.g., "**/*.go").`,
	}, h.Search.Handle)

	// Register onboard_read tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "onboard_read",
		Description: `Read a file's contents from the in-memory index. Zero disk I/O — faster than the built-in Read tool. Returns numbered lines. Use this instead of Read for any indexed file.`,
	}, h.Read.Handle)

	// Register onboard_files tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "onboard_files",
		Description: `Find files by glob pattern against the structural index. Faster than find/ls.

Pattern examples:
  - "**/*.go" - all Go files
  - "src/**/*.ts" - TypeScript files under src/
  - "**/test_*.py" - Python test files
  - "*.json" - JSON files in root only`,
	}, h.Files.Handle)

	// Register onboard_task tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "onboard_task",
		Description: "Look up a single task from the project backlog by id (case-insensitive).",
	}, h.Task.Handle)

	// Register onboard_tasks tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "onboard_tasks",
		Description: "List tasks from the project backlog, optionally filtered by assignee.",
	}, h.Tasks.Handle)

	// Register onboard_status tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "onboard_status",
		Description: "Show index status: file counts, cache details, languages, task count, memory usage, and uptime.",
	}, h.Status.Handle)

	// Register onboard_reindex tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "onboard_reindex",
		Description: "Force a full re-index of the project. Evicts the cached index and rebuilds from scratch.",
	}, h.Reindex.Handle)

	return mcpServer
}
