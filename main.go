package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/onboardhq/onboard-mcp/cache"
	"github.com/onboardhq/onboard-mcp/filter"
	"github.com/onboardhq/onboard-mcp/register"
	"github.com/onboardhq/onboard-mcp/search"
	"github.com/onboardhq/onboard-mcp/server"
	"github.com/onboardhq/onboard-mcp/service"
	"github.com/onboardhq/onboard-mcp/tasks"
	"github.com/onboardhq/onboard-mcp/tools"
	"github.com/onboardhq/onboard-mcp/watcher"
)

// stringList is a repeatable CLI flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }
func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	// Subcommand dispatch before flag parsing
	if len(os.Args) > 1 && os.Args[1] == "register" {
		register.Run("onboard", os.Args[2:])
		return
	}

	// Parse CLI flags
	var rootDir string
	var maxFileSizeBytes int64
	var maxFiles int
	var cacheDir string
	var tasksDB string
	var importTasks string
	var syncIntervalSeconds int
	var logLevel string
	var logFile string
	var excludes stringList
	var extensions stringList

	flag.StringVar(&rootDir, "root", "", "Project root directory (default: current working directory)")
	flag.Var(&excludes, "exclude", "Extra ignore pattern (repeatable, prefix with ! to re-include)")
	flag.Var(&extensions, "ext", "Restrict indexing to this extension (repeatable, empty allows all)")
	flag.Int64Var(&maxFileSizeBytes, "max-file-size", filter.DefaultMaxFileBytes, "Maximum file size in bytes")
	flag.IntVar(&maxFiles, "max-files", filter.DefaultMaxTotalFiles, "Maximum number of files in one index")
	flag.StringVar(&cacheDir, "cache-dir", "", "Index cache directory (default: user cache dir)")
	flag.StringVar(&tasksDB, "tasks-db", "", "Task database path (default: <cache-dir>/tasks.db)")
	flag.StringVar(&importTasks, "import-tasks", "", "CSV file of tasks to import at startup")
	flag.IntVar(&syncIntervalSeconds, "sync-interval", 300, "Periodic sync interval in seconds (0 disables)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	flag.Parse()

	// Resolve root directory
	if rootDir == "" {
		var err error
		rootDir, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
			os.Exit(1)
		}
	}
	rootDir, _ = filepath.Abs(rootDir)

	// Setup logger (always to file or stderr, never to stdout - stdout is for MCP stdio)
	logger := setupLogger(logLevel, logFile)

	logger.Info("starting onboard-mcp",
		"root", rootDir,
		"maxFileSize", maxFileSizeBytes,
		"maxFiles", maxFiles,
	)

	startTime := time.Now()

	// Path filter
	fltr, err := filter.New(rootDir, filter.Config{
		IgnorePatterns:    excludes,
		AllowedExtensions: extensions,
		MaxFileBytes:      maxFileSizeBytes,
		MaxTotalFiles:     maxFiles,
	})
	if err != nil {
		logger.Error("invalid filter configuration", "error", err)
		os.Exit(1)
	}

	// Index cache
	if cacheDir == "" {
		cacheDir, err = cache.DefaultDir()
		if err != nil {
			logger.Error("cannot determine cache directory", "error", err)
			os.Exit(1)
		}
	}
	cacheStore, err := cache.New(cacheDir)
	if err != nil {
		logger.Error("failed to create cache store", "dir", cacheDir, "error", err)
		os.Exit(1)
	}

	// Content index
	contentIndex, err := search.NewIndex()
	if err != nil {
		logger.Error("failed to create content index", "error", err)
		os.Exit(1)
	}
	defer contentIndex.Close()

	// Task store
	if tasksDB == "" {
		tasksDB = filepath.Join(cacheDir, "tasks.db")
	}
	taskStore, err := tasks.Open(tasksDB)
	if err != nil {
		logger.Error("failed to open task store", "path", tasksDB, "error", err)
		os.Exit(1)
	}
	defer taskStore.Close()

	if importTasks != "" {
		imported, err := taskStore.ImportCSV(importTasks)
		if err != nil {
			logger.Error("task import failed", "path", importTasks, "error", err)
			os.Exit(1)
		}
		logger.Info("tasks imported", "path", importTasks, "count", imported)
	}

	a := &app{
		rootDir: rootDir,
		fltr:    fltr,
		svc:     service.New(cacheStore, logger),
		content: contentIndex,
		logger:  logger,
	}

	// Initial index: structural document (cached when fresh), then content
	doc, err := a.buildIndex(false)
	if err != nil {
		logger.Error("initial indexing failed", "root", rootDir, "error", err)
		os.Exit(1)
	}
	loaded := a.loadContent(doc)
	logger.Info("initial indexing complete",
		"files", doc.FileCount,
		"dirs", doc.DirCount,
		"contentDocs", loaded,
		"truncated", doc.Truncated,
		"duration", time.Since(startTime),
	)

	// File watcher for live updates
	fileWatcher, err := watcher.New(rootDir, fltr, logger)
	if err != nil {
		logger.Warn("failed to start file watcher, continuing without live updates", "error", err)
	} else {
		go fileWatcher.Start()
		go a.handleWatcherEvents(fileWatcher)
		defer fileWatcher.Close()
	}

	// Periodic sync as a safety net behind the watcher
	if syncIntervalSeconds > 0 {
		stopSync := make(chan struct{})
		go a.runPeriodicSync(syncIntervalSeconds, stopSync)
		defer close(stopSync)
	}

	// Tool handlers
	handlers := server.Handlers{
		Index: &tools.IndexHandler{
			Service: a.svc,
			Filter:  fltr,
			RootDir: rootDir,
			Logger:  logger,
		},
		Search: &tools.SearchHandler{Content: contentIndex, Logger: logger},
		Read:   &tools.ReadHandler{Content: contentIndex, Logger: logger},
		Files:  &tools.FilesHandler{Snapshot: a.snapshot, Logger: logger},
		Task:   &tools.TaskHandler{Tasks: taskStore, Logger: logger},
		Tasks:  &tools.TasksHandler{Tasks: taskStore, Logger: logger},
		Status: &tools.StatusHandler{
			Snapshot:  a.snapshot,
			Content:   contentIndex,
			Tasks:     taskStore,
			CacheDir:  cacheDir,
			StartTime: startTime,
			Logger:    logger,
		},
		Reindex: &tools.ReindexHandler{DoReindex: a.reindex, Logger: logger},
	}

	// Setup and run MCP server on stdio
	mcpServer := server.Setup(handlers)

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
