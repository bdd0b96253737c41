package prompts

import (
	"context"
	"strings"
	"testing"
	"time"

	"task-agent/internal/application/service"
	"task-agent/internal/domain/entity"
)

type mockTool struct {
	name        entity.ToolName
	description string
}

func (m *mockTool) Name() entity.ToolName              { return m.name }
func (m *mockTool) Description() string                { return m.description }
func (m *mockTool) Parameters() map[string]interface{} { return nil }
func (m *mockTool) Execute(ctx context.Context, arguments string) (string, error) {
	return "", nil
}

func TestGenerateSystemPrompt(t *testing.T) {
	registry := service.NewToolRegistry()
	registry.Register(&mockTool{name: entity.ToolListTasks, description: "List all tasks"})
	registry.Register(&mockTool{name: entity.ToolAddTask, description: "Add a task"})

	template := `Today {{.Today}} {{.Weekday}}
{{range .Tools -}}
- {{.Name}}: {{.Description}}
{{end}}statuses: {{.Statuses}}`

	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	result, err := GenerateSystemPrompt(template, registry, now)
	if err != nil {
		t.Fatalf("GenerateSystemPrompt failed: %v", err)
	}

	if !strings.Contains(result, "Today 2025-03-14 Friday") {
		t.Errorf("Result should contain the date, got %q", result)
	}

	if !strings.Contains(result, "- add_task: Add a task\n- list_tasks: List all tasks") {
		t.Errorf("Result should list tools sorted by name, got %q", result)
	}

	if !strings.Contains(result, "statuses: pending, completed, in_progress") {
		t.Errorf("Result should contain statuses, got %q", result)
	}
}

func TestGenerateSystemPromptDefaultTemplate(t *testing.T) {
	registry := service.NewToolRegistry()
	registry.Register(&mockTool{name: entity.ToolDeleteTask, description: "Delete a task"})

	result, err := GenerateSystemPrompt(DefaultSystemPrompt, registry, time.Now())
	if err != nil {
		t.Fatalf("GenerateSystemPrompt failed: %v", err)
	}

	if !strings.Contains(result, "- delete_task: Delete a task") {
		t.Error("Default prompt should list registered tools")
	}
}

func TestGenerateSystemPromptInvalidTemplate(t *testing.T) {
	registry := service.NewToolRegistry()

	_, err := GenerateSystemPrompt(`Test {{.InvalidField}}`, registry, time.Now())
	if err == nil {
		t.Error("Expected error for invalid template, got nil")
	}
}

func TestSystemPromptFuncUsesClock(t *testing.T) {
	registry := service.NewToolRegistry()
	day := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	render := SystemPromptFunc(`{{.Today}}`, registry, func() time.Time { return day })
	result, err := render()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if result != "2024-12-31" {
		t.Errorf("Expected 2024-12-31, got %q", result)
	}
}
