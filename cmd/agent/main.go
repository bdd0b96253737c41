package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"task-agent/internal/di"
	"task-agent/internal/infrastructure/env"
	"task-agent/internal/infrastructure/userinteraction"
)

func main() {
	cfg, err := di.LoadConfig(env.NewEnvService())
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	console := userinteraction.NewConsole()
	cfg.Progress = console

	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer container.Close()

	fmt.Println("Task planner ready. Type a request, or 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		body, _ := json.Marshal(map[string]string{"message": line})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		reply := container.Handler.Handle(ctx, string(body))
		cancel()

		var text string
		if err := json.Unmarshal([]byte(reply.Body), &text); err != nil {
			text = reply.Body
		}
		if reply.StatusCode != http.StatusOK {
			console.ShowError(reply.StatusCode, text)
			continue
		}
		console.ShowAnswer(text)
	}

	if err := scanner.Err(); err != nil {
		container.Logger.Error("Input failed", "error", err)
	}
}
