package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/onboardhq/onboard-mcp/tasks"
)

// TaskArgs defines the input parameters for the onboard_task tool.
type TaskArgs struct {
	TaskID string `json:"taskId" jsonschema:"Task id to look up (case-insensitive, e.g. TASK-42)"`
}

// TaskHandler holds the dependencies for the task lookup tool.
type TaskHandler struct {
	Tasks  *tasks.Store
	Logger *slog.Logger
}

// Handle processes an onboard_task request.
func (h *TaskHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TaskArgs) (*mcp.CallToolResult, any, error) {
	if args.TaskID == "" {
		h.Logger.Warn("onboard_task called with empty taskId")
		return errorResult("Error: taskId parameter is required"), nil, nil
	}

	task, err := h.Tasks.Get(args.TaskID)
	if errors.Is(err, tasks.ErrNotFound) {
		h.Logger.Info("onboard_task not found", "taskId", args.TaskID)
		return errorResult(fmt.Sprintf("Task not found: %s", args.TaskID)), nil, nil
	}
	if err != nil {
		h.Logger.Error("onboard_task failed", "taskId", args.TaskID, "error", err)
		return errorResult(fmt.Sprintf("Task lookup error: %v", err)), nil, nil
	}

	h.Logger.Info("onboard_task", "taskId", task.ID)
	return textResult(FormatTask(task)), nil, nil
}

// TasksArgs defines the input parameters for the onboard_tasks tool.
type TasksArgs struct {
	Assignee string `json:"assignee,omitempty" jsonschema:"Optional assignee filter (case-insensitive)"`
}

// TasksHandler holds the dependencies for the task listing tool.
type TasksHandler struct {
	Tasks  *tasks.Store
	Logger *slog.Logger
}

// Handle processes an onboard_tasks request.
func (h *TasksHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TasksArgs) (*mcp.CallToolResult, any, error) {
	all, err := h.Tasks.List()
	if err != nil {
		h.Logger.Error("onboard_tasks failed", "error", err)
		return errorResult(fmt.Sprintf("Task listing error: %v", err)), nil, nil
	}

	assignee := strings.ToLower(strings.TrimSpace(args.Assignee))
	var builder strings.Builder
	listed := 0
	for _, task := range all {
		if assignee != "" && strings.ToLower(task.Assignee) != assignee {
			continue
		}
		line := fmt.Sprintf("- %s: %s", task.ID, task.Title)
		if task.Status != "" {
			line += fmt.Sprintf(" [%s]", task.Status)
		}
		if task.Assignee != "" {
			line += fmt.Sprintf(" (%s)", task.Assignee)
		}
		builder.WriteString(line + "\n")
		listed++
	}

	h.Logger.Info("onboard_tasks", "total", len(all), "listed", listed)

	if listed == 0 {
		return textResult("No tasks found."), nil, nil
	}
	return textResult(fmt.Sprintf("%d tasks:\n\n%s", listed, builder.String())), nil, nil
}
