package di

import (
	"errors"
	"fmt"
	"strings"

	"task-agent/internal/application/port/output"
	"task-agent/internal/infrastructure/llm/openrouter"
	"task-agent/internal/infrastructure/logger"
	"task-agent/internal/infrastructure/storage/dynamo"
	"task-agent/internal/usecase/executor"
)

const (
	ProviderBedrock    = "bedrock"
	ProviderOpenRouter = "openrouter"
	ProviderLangChain  = "langchain"

	BackendDynamoDB = "dynamodb"
	BackendNATS     = "nats"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LLMProvider   string
	MaxIterations int
	MaxTokens     int

	BedrockModelID string
	AWSRegion      string

	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string

	StoreBackend     string
	TableName        string
	DynamoDBEndpoint string
	NATSURL          string
	PostgresURL      string

	HTTPAddr string
	Log      logger.Config

	// SystemPrompt overrides the embedded prompt template.
	SystemPrompt string
	// Progress receives agent loop events; nil discards them.
	Progress output.ProgressReporter
}

// LoadConfig reads and validates the configuration keys.
func LoadConfig(env output.ConfigPort) (Config, error) {
	cfg := Config{
		LLMProvider:   strings.ToLower(env.GetWithDefault("LLM_PROVIDER", ProviderBedrock)),
		MaxIterations: env.GetInt("AGENT_MAX_ITERATIONS", executor.DefaultMaxIterations),
		MaxTokens:     env.GetInt("LLM_MAX_TOKENS", 1024),

		BedrockModelID: env.Get("BEDROCK_MODEL_ID"),
		AWSRegion:      env.GetWithDefault("AWS_REGION", "us-east-1"),

		OpenRouterAPIKey:  env.Get("OPENROUTER_API_KEY"),
		OpenRouterModel:   env.Get("OPENROUTER_MODEL_NAME"),
		OpenRouterBaseURL: env.GetWithDefault("OPENROUTER_BASE_URL", openrouter.DefaultBaseURL),

		StoreBackend:     strings.ToLower(env.GetWithDefault("STORE_BACKEND", BackendDynamoDB)),
		TableName:        env.GetWithDefault("TASKS_TABLE", dynamo.DefaultTableName),
		DynamoDBEndpoint: env.Get("DYNAMODB_ENDPOINT"),
		NATSURL:          env.GetWithDefault("NATS_URL", "nats://127.0.0.1:4222"),
		PostgresURL:      env.Get("PG_DATABASE_URL"),

		HTTPAddr: env.GetWithDefault("HTTP_ADDR", ":8080"),
		Log: logger.Config{
			Level:  env.GetWithDefault("LOG_LEVEL", "info"),
			Format: env.GetWithDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.LLMProvider {
	case ProviderBedrock:
		if c.BedrockModelID == "" {
			errs = append(errs, missing("BEDROCK_MODEL_ID"))
		}
	case ProviderOpenRouter, ProviderLangChain:
		if c.OpenRouterAPIKey == "" {
			errs = append(errs, missing("OPENROUTER_API_KEY"))
		}
		if c.OpenRouterModel == "" {
			errs = append(errs, missing("OPENROUTER_MODEL_NAME"))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown LLM_PROVIDER %q", ErrInvalidConfig, c.LLMProvider))
	}

	switch c.StoreBackend {
	case BackendDynamoDB, BackendNATS, BackendMemory:
	case BackendPostgres:
		if c.PostgresURL == "" {
			errs = append(errs, missing("PG_DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalidConfig, c.StoreBackend))
	}

	if c.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("%w: AGENT_MAX_ITERATIONS must be positive", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

func missing(key string) error {
	return fmt.Errorf("%w: %s is required", ErrInvalidConfig, key)
}
