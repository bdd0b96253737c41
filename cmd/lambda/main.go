package main

import (
	"context"
	"log"

	"task-agent/internal/adapter/handler"
	"task-agent/internal/di"
	"task-agent/internal/infrastructure/env"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := di.LoadConfig(env.NewEnvService())
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Built once per cold start and reused across invocations.
	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer container.Close()

	lambda.Start(handler.Lambda(container.Handler))
}
