// Package userinteraction renders agent progress on a terminal.
package userinteraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"task-agent/internal/application/port/output"
	"task-agent/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.ProgressReporter = (*Console)(nil)

type Console struct {
	out io.Writer
}

func NewConsole() *Console {
	return &Console{out: color.Output}
}

// NewConsoleWriter writes to w. Colors still follow color.NoColor.
func NewConsoleWriter(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{out: w}
}

func (c *Console) ShowIteration(ctx context.Context, iteration, maxIterations int) {
	if iteration == 1 {
		return
	}
	color.New(color.Faint).Fprintf(c.out, "--- step %d/%d ---\n", iteration, maxIterations)
}

func (c *Console) ShowThinking(ctx context.Context, content string) {
	if content == "" {
		return
	}
	color.New(color.FgBlue).Fprint(c.out, "thinking: ")
	color.New(color.Faint).Fprintln(c.out, truncate(content, 300))
}

func (c *Console) ShowToolStart(ctx context.Context, toolName, arguments string) {
	color.New(color.FgYellow, color.Bold).Fprintf(c.out, "%s\n", toolLabel(toolName))
	if summary := formatToolArguments(toolName, arguments); summary != "" {
		color.New(color.Faint).Fprintf(c.out, "   %s\n", summary)
	}
}

func (c *Console) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	if isError {
		color.New(color.FgRed).Fprint(c.out, "x ")
		color.New(color.Faint).Fprintln(c.out, truncate(result, 300))
		return
	}
	color.New(color.FgGreen).Fprintf(c.out, "ok %s\n", formatToolResult(toolName, result))
}

// ShowAnswer prints the agent's final reply.
func (c *Console) ShowAnswer(answer string) {
	color.New(color.FgCyan, color.Bold).Fprintln(c.out, answer)
}

// ShowError prints a rejected or failed request.
func (c *Console) ShowError(status int, text string) {
	color.New(color.FgRed, color.Bold).Fprintf(c.out, "[%d] %s\n", status, text)
}

func toolLabel(toolName string) string {
	labels := map[entity.ToolName]string{
		entity.ToolListTasks:        "Listing tasks",
		entity.ToolAddTask:          "Adding task",
		entity.ToolUpdateTaskStatus: "Updating status",
		entity.ToolDeleteTask:       "Deleting task",
	}
	if label, ok := labels[entity.ToolName(toolName)]; ok {
		return label
	}
	return toolName
}

func formatToolArguments(toolName, arguments string) string {
	var args map[string]string
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ""
	}

	switch entity.ToolName(toolName) {
	case entity.ToolAddTask:
		s := fmt.Sprintf("%s, due %s", args["name"], args["due_date"])
		if args["status"] != "" {
			s += ", " + args["status"]
		}
		return s
	case entity.ToolUpdateTaskStatus:
		return fmt.Sprintf("%s -> %s", args["task_name"], args["new_status"])
	case entity.ToolDeleteTask:
		return args["task_name"]
	}
	return ""
}

func formatToolResult(toolName, result string) string {
	if entity.ToolName(toolName) == entity.ToolListTasks {
		var tasks []entity.Task
		if err := json.Unmarshal([]byte(result), &tasks); err == nil {
			return fmt.Sprintf("%d task(s)", len(tasks))
		}
	}
	return truncate(result, 120)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
