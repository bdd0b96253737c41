package output

import "context"

// ProgressReporter receives agent loop events for interactive front ends.
type ProgressReporter interface {
	ShowIteration(ctx context.Context, iteration, maxIterations int)
	ShowThinking(ctx context.Context, content string)
	ShowToolStart(ctx context.Context, toolName, arguments string)
	ShowToolResult(ctx context.Context, toolName, result string, isError bool)
}

// NopProgress discards every event.
type NopProgress struct{}

func (NopProgress) ShowIteration(context.Context, int, int) {}
func (NopProgress) ShowThinking(context.Context, string) {}
func (NopProgress) ShowToolStart(context.Context, string, string) {}
func (NopProgress) ShowToolResult(context.Context, string, string, bool) {}
