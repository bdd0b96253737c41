package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"task-agent/internal/application/port/input"
	"task-agent/internal/application/port/output"
	"task-agent/internal/domain/entity"
)

var _ input.TaskExecutor = (*UseCase)(nil)

const (
	DefaultMaxIterations = 10
	maxObservationLen    = 20000
)

var ErrMaxIterations = errors.New("max iterations exceeded")

// PromptFunc renders the system prompt for one request.
type PromptFunc func() (string, error)

// UseCase drives the tool-calling loop: send the conversation, run every
// requested tool, append the observations and repeat until the model answers
// without tool calls.
type UseCase struct {
	llm           output.LLMPort
	tools         output.ToolRegistry
	logger        output.LoggerPort
	systemPrompt  PromptFunc
	maxIterations int
	progress      output.ProgressReporter
}

type Option func(*UseCase)

// WithProgress reports iterations and tool calls to p.
func WithProgress(p output.ProgressReporter) Option {
	return func(uc *UseCase) {
		if p != nil {
			uc.progress = p
		}
	}
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	systemPrompt PromptFunc,
	maxIterations int,
	opts ...Option,
) *UseCase {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	uc := &UseCase{
		llm:           llm,
		tools:         tools,
		logger:        logger,
		systemPrompt:  systemPrompt,
		maxIterations: maxIterations,
		progress:      output.NopProgress{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *UseCase) Execute(ctx context.Context, message string) (*input.ExecuteResult, error) {
	prompt, err := uc.systemPrompt()
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: prompt},
		{Role: entity.RoleUser, Content: message},
	}

	toolDefs := uc.tools.Definitions()

	for iteration := 1; iteration <= uc.maxIterations; iteration++ {
		uc.logger.Debug("Starting iteration", "iteration", iteration)
		uc.progress.ShowIteration(ctx, iteration, uc.maxIterations)

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: 0.0,
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		messages = append(messages, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			return &input.ExecuteResult{
				FinalAnswer: resp.Message.Content,
				Iterations:  iteration,
			}, nil
		}

		uc.progress.ShowThinking(ctx, resp.Message.Content)

		for _, tc := range resp.Message.ToolCalls {
			uc.progress.ShowToolStart(ctx, string(tc.Name), tc.Arguments)
			observation := uc.executeTool(ctx, tc)
			uc.progress.ShowToolResult(ctx, string(tc.Name), observation, strings.HasPrefix(observation, "Error:"))

			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       string(tc.Name),
				Content:    observation,
			})
		}
	}

	return nil, fmt.Errorf("%w (%d)", ErrMaxIterations, uc.maxIterations)
}

func (uc *UseCase) executeTool(ctx context.Context, tc entity.ToolCall) string {
	tool, ok := uc.tools.Get(tc.Name)
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", tc.Name)
		return fmt.Sprintf("Error: unknown tool '%s'", tc.Name)
	}

	uc.logger.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)

	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		uc.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		return "Error: " + err.Error()
	}

	if len(result) > maxObservationLen {
		result = result[:maxObservationLen] + "\n... (truncated)"
	}

	uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	return result
}
