// Package handler is the request surface of the agent: it validates the
// inbound message, runs the TaskExecutor and maps the result to a status
// code and a JSON-encoded body. Lambda and HTTP adapters share it.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"task-agent/internal/application/port/input"
	"task-agent/internal/application/port/output"
)

const (
	msgInvalidBody    = "Invalid request body"
	msgMissingMessage = "Missing 'message' in request body"
)

// Reply is a transport-neutral response. Body is always a JSON document.
type Reply struct {
	StatusCode int
	Body       string
}

// Headers returns the headers every reply carries.
func Headers() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
	}
}

type request struct {
	Message *string `json:"message"`
}

type Handler struct {
	executor input.TaskExecutor
	tasks    input.TaskService
	logger   output.LoggerPort
}

func New(executor input.TaskExecutor, tasks input.TaskService, logger output.LoggerPort) *Handler {
	return &Handler{
		executor: executor,
		tasks:    tasks,
		logger:   logger,
	}
}

// Handle processes one agent request. body is the raw request body; an
// empty body counts as an empty JSON object.
func (h *Handler) Handle(ctx context.Context, body string) Reply {
	if strings.TrimSpace(body) == "" {
		body = "{}"
	}

	var req request
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		h.logger.Warn("Rejected request", "reason", "malformed body", "error", err)
		return reply(http.StatusBadRequest, msgInvalidBody)
	}
	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		h.logger.Warn("Rejected request", "reason", "missing message")
		return reply(http.StatusBadRequest, msgMissingMessage)
	}

	answer, err := h.invoke(ctx, *req.Message)
	if err != nil {
		h.logger.Error("Agent failed", "error", err)
		return reply(http.StatusInternalServerError, err.Error())
	}

	return reply(http.StatusOK, answer)
}

// ListTasks returns the stored tasks without involving the agent.
func (h *Handler) ListTasks(ctx context.Context) Reply {
	outcome := h.tasks.ListTasks(ctx)
	if outcome.Failed() {
		h.logger.Error("Listing failed", "kind", outcome.Kind, "message", outcome.Message)
		return reply(http.StatusInternalServerError, outcome.Message)
	}
	return reply(http.StatusOK, outcome.Message)
}

func (h *Handler) invoke(ctx context.Context, message string) (answer string, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Agent panicked", "panic", r)
			err = fmt.Errorf("agent panic: %v", r)
		}
	}()

	h.logger.Info("Agent invoked", "message_len", len(message))
	result, err := h.executor.Execute(ctx, message)
	if err != nil {
		return "", err
	}
	h.logger.Info("Agent answered", "iterations", result.Iterations)
	return result.FinalAnswer, nil
}

func reply(status int, text string) Reply {
	data, _ := json.Marshal(text)
	return Reply{StatusCode: status, Body: string(data)}
}
