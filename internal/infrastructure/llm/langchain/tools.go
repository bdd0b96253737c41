package langchain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"task-agent/internal/application/port/output"

	"github.com/tmc/langchaingo/tools"
)

var _ tools.Tool = (*toolAdapter)(nil)

// toolAdapter exposes an output.ToolPort to a text-only ReAct agent. The
// agent passes a raw string, so the JSON schema is spelled out in the
// description and code fences around the input are stripped.
type toolAdapter struct {
	tool     output.ToolPort
	progress output.ProgressReporter
}

func newToolAdapters(registry output.ToolRegistry, progress output.ProgressReporter) []tools.Tool {
	all := registry.All()
	result := make([]tools.Tool, 0, len(all))
	for _, t := range all {
		result = append(result, &toolAdapter{tool: t, progress: progress})
	}
	return result
}

func (a *toolAdapter) Name() string {
	return string(a.tool.Name())
}

func (a *toolAdapter) Description() string {
	schema, err := json.Marshal(a.tool.Parameters())
	if err != nil {
		return a.tool.Description()
	}
	return fmt.Sprintf("%s Action Input must be a JSON object matching this schema: %s", a.tool.Description(), schema)
}

func (a *toolAdapter) Call(ctx context.Context, input string) (string, error) {
	args := cleanInput(input)
	a.progress.ShowToolStart(ctx, a.Name(), args)

	result, err := a.tool.Execute(ctx, args)
	if err != nil {
		result = "Error: " + err.Error()
		a.progress.ShowToolResult(ctx, a.Name(), result, true)
		return result, nil
	}
	a.progress.ShowToolResult(ctx, a.Name(), result, false)
	return result, nil
}

func cleanInput(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return "{}"
	}
	return s
}
