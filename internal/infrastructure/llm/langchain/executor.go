// Package langchain runs the planner as a langchaingo one-shot ReAct agent,
// for models that do not support native tool calling.
package langchain

import (
	"context"
	"fmt"

	"task-agent/internal/application/port/input"
	"task-agent/internal/application/port/output"

	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

var _ input.TaskExecutor = (*Executor)(nil)

// toolSchemaSection is filled in by the agent's own prompt template.
const toolSchemaSection = "\n\nTool input formats:\n{{.tool_descriptions}}\n"

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Executor struct {
	llm           llms.Model
	tools         output.ToolRegistry
	logger        output.LoggerPort
	systemPrompt  func() (string, error)
	maxIterations int
	progress      output.ProgressReporter
}

type Option func(*Executor)

// WithProgress reports tool calls to p. The ReAct loop has no per-iteration
// hook, so ShowIteration is never called.
func WithProgress(p output.ProgressReporter) Option {
	return func(e *Executor) {
		if p != nil {
			e.progress = p
		}
	}
}

// NewOpenAICompatibleModel builds a langchaingo model for any
// OpenAI-compatible endpoint such as OpenRouter.
func NewOpenAICompatibleModel(cfg Config) (llms.Model, error) {
	opts := []lcopenai.Option{
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain model: %w", err)
	}
	return llm, nil
}

func NewExecutor(
	llm llms.Model,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	systemPrompt func() (string, error),
	maxIterations int,
	opts ...Option,
) *Executor {
	e := &Executor{
		llm:           llm,
		tools:         tools,
		logger:        logger,
		systemPrompt:  systemPrompt,
		maxIterations: maxIterations,
		progress:      output.NopProgress{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute builds a fresh agent per message so the prompt carries the
// current date.
func (e *Executor) Execute(ctx context.Context, message string) (*input.ExecuteResult, error) {
	prompt, err := e.systemPrompt()
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	opts := []agents.Option{agents.WithPromptPrefix(prompt + toolSchemaSection)}
	if e.maxIterations > 0 {
		opts = append(opts, agents.WithMaxIterations(e.maxIterations))
	}

	agent := agents.NewOneShotAgent(e.llm, newToolAdapters(e.tools, e.progress), opts...)
	executor := agents.NewExecutor(agent, opts...)

	e.logger.Debug("Running langchain agent", "tools", len(e.tools.All()))

	answer, err := chains.Run(ctx, executor, message)
	if err != nil {
		return nil, fmt.Errorf("langchain agent failed: %w", err)
	}

	return &input.ExecuteResult{FinalAnswer: answer}, nil
}
