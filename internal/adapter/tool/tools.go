package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"task-agent/internal/application/port/input"
	"task-agent/internal/application/port/output"
	"task-agent/internal/domain/entity"
)

// Register adds the four task tools to registry.
func Register(registry output.ToolRegistry, tasks input.TaskService, logger output.LoggerPort) {
	registry.Register(NewListTasksTool(tasks, logger))
	registry.Register(NewAddTaskTool(tasks, logger))
	registry.Register(NewUpdateTaskStatusTool(tasks, logger))
	registry.Register(NewDeleteTaskTool(tasks, logger))
}

func statusEnum() []string {
	values := make([]string, 0, len(entity.TaskStatuses))
	for _, s := range entity.TaskStatuses {
		values = append(values, string(s))
	}
	return values
}

func decodeArgs(raw string, v any) error {
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

type ListTasksTool struct {
	tasks  input.TaskService
	logger output.LoggerPort
}

func NewListTasksTool(tasks input.TaskService, logger output.LoggerPort) *ListTasksTool {
	return &ListTasksTool{tasks: tasks, logger: logger}
}

func (t *ListTasksTool) Name() entity.ToolName { return entity.ToolListTasks }
func (t *ListTasksTool) Description() string {
	return "List all tasks in the task list."
}
func (t *ListTasksTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *ListTasksTool) Execute(ctx context.Context, args string) (string, error) {
	out := t.tasks.ListTasks(ctx)
	t.logger.Debug("list_tasks", "kind", out.Kind, "count", len(out.Tasks))
	return out.String(), nil
}

type AddTaskTool struct {
	tasks  input.TaskService
	logger output.LoggerPort
}

func NewAddTaskTool(tasks input.TaskService, logger output.LoggerPort) *AddTaskTool {
	return &AddTaskTool{tasks: tasks, logger: logger}
}

func (t *AddTaskTool) Name() entity.ToolName { return entity.ToolAddTask }
func (t *AddTaskTool) Description() string {
	return "Add a new task with a name, due date (YYYY-MM-DD) and optional status (pending, completed, in_progress)."
}
func (t *AddTaskTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Short name of the task",
			},
			"due_date": map[string]interface{}{
				"type":        "string",
				"description": "Due date in YYYY-MM-DD format",
			},
			"status": map[string]interface{}{
				"type":        "string",
				"enum":        statusEnum(),
				"description": "Initial status, pending if omitted",
			},
		},
		"required": []string{"name", "due_date"},
	}
}

func (t *AddTaskTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		Name    string `json:"name"`
		DueDate string `json:"due_date"`
		Status  string `json:"status"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	out := t.tasks.AddTask(ctx, in.Name, in.DueDate, in.Status)
	t.logger.Debug("add_task", "kind", out.Kind, "name", in.Name)
	return out.String(), nil
}

type UpdateTaskStatusTool struct {
	tasks  input.TaskService
	logger output.LoggerPort
}

func NewUpdateTaskStatusTool(tasks input.TaskService, logger output.LoggerPort) *UpdateTaskStatusTool {
	return &UpdateTaskStatusTool{tasks: tasks, logger: logger}
}

func (t *UpdateTaskStatusTool) Name() entity.ToolName { return entity.ToolUpdateTaskStatus }
func (t *UpdateTaskStatusTool) Description() string {
	return "Update the status of an existing task, found by its name."
}
func (t *UpdateTaskStatusTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"task_name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the task to update; a unique part of the name also works",
			},
			"new_status": map[string]interface{}{
				"type":        "string",
				"enum":        statusEnum(),
				"description": "Status to set",
			},
		},
		"required": []string{"task_name", "new_status"},
	}
}

func (t *UpdateTaskStatusTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		TaskName  string `json:"task_name"`
		NewStatus string `json:"new_status"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	out := t.tasks.UpdateTaskStatus(ctx, in.TaskName, in.NewStatus)
	t.logger.Debug("update_task_status", "kind", out.Kind, "name", in.TaskName)
	return out.String(), nil
}

type DeleteTaskTool struct {
	tasks  input.TaskService
	logger output.LoggerPort
}

func NewDeleteTaskTool(tasks input.TaskService, logger output.LoggerPort) *DeleteTaskTool {
	return &DeleteTaskTool{tasks: tasks, logger: logger}
}

func (t *DeleteTaskTool) Name() entity.ToolName { return entity.ToolDeleteTask }
func (t *DeleteTaskTool) Description() string {
	return "Delete a task, found by its name."
}
func (t *DeleteTaskTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"task_name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the task to delete; a unique part of the name also works",
			},
		},
		"required": []string{"task_name"},
	}
}

func (t *DeleteTaskTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		TaskName string `json:"task_name"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	out := t.tasks.DeleteTask(ctx, in.TaskName)
	t.logger.Debug("delete_task", "kind", out.Kind, "name", in.TaskName)
	return out.String(), nil
}
