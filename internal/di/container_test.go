package di

import (
	"context"
	"testing"

	"task-agent/internal/infrastructure/env"
	"task-agent/internal/infrastructure/llm/langchain"
	"task-agent/internal/usecase/executor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(env.FromMap(map[string]string{
		"BEDROCK_MODEL_ID": "anthropic.claude-3-haiku-20240307-v1:0",
	}))

	require.NoError(t, err)
	assert.Equal(t, ProviderBedrock, cfg.LLMProvider)
	assert.Equal(t, BackendDynamoDB, cfg.StoreBackend)
	assert.Equal(t, "Tasks", cfg.TableName)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, 10, cfg.MaxIterations)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bedrock without model":   {},
		"openrouter without key":  {"LLM_PROVIDER": "openrouter", "OPENROUTER_MODEL_NAME": "m"},
		"unknown provider":        {"LLM_PROVIDER": "palm", "BEDROCK_MODEL_ID": "m"},
		"postgres without url":    {"BEDROCK_MODEL_ID": "m", "STORE_BACKEND": "postgres"},
		"unknown backend":         {"BEDROCK_MODEL_ID": "m", "STORE_BACKEND": "redis"},
		"non-positive iterations": {"BEDROCK_MODEL_ID": "m", "AGENT_MAX_ITERATIONS": "0"},
	}

	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(env.FromMap(values))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func memoryConfig(provider string) Config {
	return Config{
		LLMProvider:       provider,
		MaxIterations:     3,
		OpenRouterAPIKey:  "sk-test",
		OpenRouterModel:   "openai/gpt-4o-mini",
		OpenRouterBaseURL: "http://127.0.0.1:1",
		StoreBackend:      BackendMemory,
		TableName:         "Tasks",
	}
}

func TestNewContainer_OpenRouterMemory(t *testing.T) {
	cfg := memoryConfig(ProviderOpenRouter)
	cfg.Log.Level = "error"

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &executor.UseCase{}, c.TaskExecutor)
	assert.Len(t, c.Tools.All(), 4)
	require.NotNil(t, c.Handler)

	outcome := c.Tasks.AddTask(context.Background(), "Buy milk", "2025-03-15", "")
	assert.False(t, outcome.Failed())
	assert.Contains(t, c.Handler.ListTasks(context.Background()).Body, "Buy milk")
}

func TestNewContainer_LangChain(t *testing.T) {
	cfg := memoryConfig(ProviderLangChain)
	cfg.Log.Level = "error"

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &langchain.Executor{}, c.TaskExecutor)
}

func TestNewContainer_BadLogLevel(t *testing.T) {
	cfg := memoryConfig(ProviderOpenRouter)
	cfg.Log.Level = "chatty"

	_, err := NewContainer(context.Background(), cfg)
	assert.Error(t, err)
}
