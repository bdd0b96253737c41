package userinteraction

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func newTestConsole(t *testing.T) (*Console, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	buf := &bytes.Buffer{}
	return NewConsoleWriter(buf), buf
}

func TestConsole_ToolEvents(t *testing.T) {
	c, buf := newTestConsole(t)
	ctx := context.Background()

	c.ShowToolStart(ctx, "add_task", `{"name":"Buy milk","due_date":"2025-03-15"}`)
	c.ShowToolResult(ctx, "add_task", "Task 'Buy milk' added with ID 42.", false)
	c.ShowToolStart(ctx, "update_task_status", `{"task_name":"milk","new_status":"completed"}`)
	c.ShowToolResult(ctx, "update_task_status", "Error: invalid arguments", true)

	out := buf.String()
	assert.Contains(t, out, "Adding task\n   Buy milk, due 2025-03-15\n")
	assert.Contains(t, out, "ok Task 'Buy milk' added with ID 42.\n")
	assert.Contains(t, out, "milk -> completed")
	assert.Contains(t, out, "x Error: invalid arguments\n")
}

func TestConsole_ListResultSummarized(t *testing.T) {
	c, buf := newTestConsole(t)

	c.ShowToolResult(context.Background(), "list_tasks", `[{"id":"a","name":"x"},{"id":"b","name":"y"}]`, false)
	c.ShowToolResult(context.Background(), "list_tasks", "No tasks found.", false)

	assert.Equal(t, "ok 2 task(s)\nok No tasks found.\n", buf.String())
}

func TestConsole_IterationAndTruncate(t *testing.T) {
	c, buf := newTestConsole(t)

	c.ShowIteration(context.Background(), 1, 10)
	c.ShowIteration(context.Background(), 2, 10)
	c.ShowThinking(context.Background(), "")

	assert.Equal(t, "--- step 2/10 ---\n", buf.String())
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "héllo", truncate("héllo", 5))
}
