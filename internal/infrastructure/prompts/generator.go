package prompts

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"task-agent/internal/application/port/output"
	"task-agent/internal/domain/entity"
)

type ToolInfo struct {
	Name        string
	Description string
}

type SystemPromptData struct {
	Today    string
	Weekday  string
	Statuses string
	Tools    []ToolInfo
}

// GenerateSystemPrompt renders baseTemplate with the current date and the
// registry's tools, in the registry's order.
func GenerateSystemPrompt(baseTemplate string, registry output.ToolRegistry, now time.Time) (string, error) {
	defs := registry.Definitions()
	tools := make([]ToolInfo, 0, len(defs))
	for _, d := range defs {
		tools = append(tools, ToolInfo{
			Name:        string(d.Name),
			Description: d.Description,
		})
	}

	data := SystemPromptData{
		Today:    now.Format("2006-01-02"),
		Weekday:  now.Weekday().String(),
		Statuses: entity.StatusList(),
		Tools:    tools,
	}

	tmpl, err := template.New("system").Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", fmt.Errorf("parse prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt template: %w", err)
	}

	return buf.String(), nil
}

// SystemPromptFunc binds GenerateSystemPrompt to a registry and clock so the
// date is taken per request.
func SystemPromptFunc(baseTemplate string, registry output.ToolRegistry, now func() time.Time) func() (string, error) {
	return func() (string, error) {
		return GenerateSystemPrompt(baseTemplate, registry, now())
	}
}
