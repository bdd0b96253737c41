package di

import (
	"context"
	"fmt"
	"time"

	"task-agent/internal/adapter/handler"
	"task-agent/internal/adapter/tool"
	"task-agent/internal/application/port/input"
	"task-agent/internal/application/port/output"
	"task-agent/internal/application/service"
	"task-agent/internal/infrastructure/llm/bedrock"
	"task-agent/internal/infrastructure/llm/langchain"
	"task-agent/internal/infrastructure/llm/openrouter"
	"task-agent/internal/infrastructure/logger"
	"task-agent/internal/infrastructure/prompts"
	"task-agent/internal/infrastructure/storage/dynamo"
	"task-agent/internal/infrastructure/storage/memory"
	"task-agent/internal/infrastructure/storage/natskv"
	"task-agent/internal/infrastructure/storage/postgres"
	"task-agent/internal/usecase/executor"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type Container struct {
	Logger       output.LoggerPort
	Table        output.TaskTable
	Tasks        *service.TaskStore
	Tools        output.ToolRegistry
	TaskExecutor input.TaskExecutor
	Handler      *handler.Handler

	closers []func()
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	c := &Container{Logger: log}

	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		awsCfg = &loaded
		return loaded, nil
	}

	table, err := c.newTable(ctx, cfg, loadAWS)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Table = table

	c.Tasks = service.NewTaskStore(table, log.WithField("component", "store"))

	tools := service.NewToolRegistry()
	tool.Register(tools, c.Tasks, log.WithField("component", "tools"))
	c.Tools = tools

	template := cfg.SystemPrompt
	if template == "" {
		template = prompts.DefaultSystemPrompt
	}
	systemPrompt := prompts.SystemPromptFunc(template, tools, time.Now)

	taskExecutor, err := newExecutor(cfg, tools, log, systemPrompt, loadAWS)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.TaskExecutor = taskExecutor

	c.Handler = handler.New(taskExecutor, c.Tasks, log.WithField("component", "handler"))

	log.Info("Container ready",
		"provider", cfg.LLMProvider,
		"backend", cfg.StoreBackend,
		"table", cfg.TableName,
		"tools", len(tools.All()),
	)
	return c, nil
}

func (c *Container) newTable(ctx context.Context, cfg Config, loadAWS func() (aws.Config, error)) (output.TaskTable, error) {
	switch cfg.StoreBackend {
	case BackendDynamoDB:
		awsCfg, err := loadAWS()
		if err != nil {
			return nil, err
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDBEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
			}
		})
		return dynamo.NewTable(client, cfg.TableName), nil

	case BackendNATS:
		table, closeFn, err := natskv.Open(ctx, cfg.NATSURL, cfg.TableName)
		if err != nil {
			return nil, fmt.Errorf("failed to open NATS bucket: %w", err)
		}
		c.closers = append(c.closers, closeFn)
		return table, nil

	case BackendPostgres:
		table, closeFn, err := postgres.Open(ctx, cfg.PostgresURL, cfg.TableName)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres table: %w", err)
		}
		c.closers = append(c.closers, closeFn)
		return table, nil

	case BackendMemory:
		return memory.NewTable(), nil
	}

	return nil, fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalidConfig, cfg.StoreBackend)
}

func newExecutor(
	cfg Config,
	tools output.ToolRegistry,
	log output.LoggerPort,
	systemPrompt func() (string, error),
	loadAWS func() (aws.Config, error),
) (input.TaskExecutor, error) {
	execLog := log.WithField("component", "executor")

	switch cfg.LLMProvider {
	case ProviderBedrock:
		awsCfg, err := loadAWS()
		if err != nil {
			return nil, err
		}
		llm := bedrock.NewBedrockAdapter(bedrockruntime.NewFromConfig(awsCfg), bedrock.Config{
			ModelID:   cfg.BedrockModelID,
			MaxTokens: cfg.MaxTokens,
			Logger:    log.WithField("component", "bedrock"),
		})
		return executor.New(llm, tools, execLog, systemPrompt, cfg.MaxIterations, executor.WithProgress(cfg.Progress)), nil

	case ProviderOpenRouter:
		llmCfg := openrouter.DefaultConfig(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
		llmCfg.BaseURL = cfg.OpenRouterBaseURL
		llmCfg.Logger = log.WithField("component", "openrouter")
		llm := openrouter.NewOpenRouterAdapter(llmCfg)
		return executor.New(llm, tools, execLog, systemPrompt, cfg.MaxIterations, executor.WithProgress(cfg.Progress)), nil

	case ProviderLangChain:
		model, err := langchain.NewOpenAICompatibleModel(langchain.Config{
			APIKey:  cfg.OpenRouterAPIKey,
			Model:   cfg.OpenRouterModel,
			BaseURL: cfg.OpenRouterBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return langchain.NewExecutor(model, tools, execLog, systemPrompt, cfg.MaxIterations, langchain.WithProgress(cfg.Progress)), nil
	}

	return nil, fmt.Errorf("%w: unknown LLM_PROVIDER %q", ErrInvalidConfig, cfg.LLMProvider)
}

// Close releases store connections and flushes the logger.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
