package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"task-agent/internal/application/port/input"
	"task-agent/internal/application/port/output"
	"task-agent/internal/domain/entity"

	"github.com/google/uuid"
)

const noTasksMessage = "No tasks found."

var _ input.TaskService = (*TaskStore)(nil)

// TaskStore turns task operations into TaskTable calls. Every method reports
// its result as an entity.Outcome; storage errors are folded into the
// outcome instead of being returned.
type TaskStore struct {
	table  output.TaskTable
	logger output.LoggerPort
	newID  func() string
	now    func() time.Time
}

type TaskStoreOption func(*TaskStore)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) TaskStoreOption {
	return func(s *TaskStore) {
		s.newID = fn
	}
}

// WithClock replaces time.Now for created_at stamps.
func WithClock(fn func() time.Time) TaskStoreOption {
	return func(s *TaskStore) {
		s.now = fn
	}
}

func NewTaskStore(table output.TaskTable, logger output.LoggerPort, opts ...TaskStoreOption) *TaskStore {
	s := &TaskStore{
		table:  table,
		logger: logger,
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskStore) ListTasks(ctx context.Context) entity.Outcome {
	tasks, err := s.table.ScanAll(ctx)
	if err != nil {
		s.logger.Error("Scan failed", "op", "list", "error", err)
		return storeError("Error listing tasks", err)
	}

	if len(tasks) == 0 {
		return entity.Outcome{Kind: entity.OutcomeEmpty, Message: noTasksMessage}
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		return storeError("Error listing tasks", err)
	}

	return entity.Outcome{
		Kind:    entity.OutcomeOK,
		Message: string(data),
		Tasks:   tasks,
	}
}

// AddTask stores a new task. An empty status means pending. Duplicate names
// are allowed; blank names are not, since they could never be resolved.
func (s *TaskStore) AddTask(ctx context.Context, name, dueDate, status string) entity.Outcome {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Outcome{
			Kind:    entity.OutcomeInvalid,
			Message: "Task name must not be empty.",
		}
	}

	st := entity.TaskStatusPending
	if status != "" {
		parsed, err := entity.ParseTaskStatus(status)
		if err != nil {
			return invalidStatus(status)
		}
		st = parsed
	}

	task := entity.Task{
		ID:        s.newID(),
		Name:      name,
		DueDate:   dueDate,
		Status:    st,
		CreatedAt: s.now().UTC(),
	}

	if err := s.table.Put(ctx, task); err != nil {
		s.logger.Error("Put failed", "op", "add", "name", name, "error", err)
		return storeError("Error adding task", err)
	}

	s.logger.Info("Task added", "id", task.ID, "name", task.Name, "status", task.Status)
	return entity.Outcome{
		Kind:    entity.OutcomeOK,
		Message: fmt.Sprintf("Task '%s' added with ID %s.", task.Name, task.ID),
		Task:    &task,
	}
}

// UpdateTaskStatus validates status before touching the table, then resolves
// name and rewrites only the status attribute.
func (s *TaskStore) UpdateTaskStatus(ctx context.Context, name, status string) entity.Outcome {
	st, err := entity.ParseTaskStatus(status)
	if err != nil {
		return invalidStatus(status)
	}

	task, outcome, ok := s.resolve(ctx, name, "Error updating task")
	if !ok {
		return outcome
	}

	if err := s.table.UpdateStatus(ctx, task.ID, st); err != nil {
		s.logger.Error("Update failed", "op", "update", "id", task.ID, "error", err)
		return storeError("Error updating task", err)
	}

	task.Status = st
	s.logger.Info("Task status updated", "id", task.ID, "status", st)
	return entity.Outcome{
		Kind:    entity.OutcomeOK,
		Message: fmt.Sprintf("Task '%s' status updated to %s.", task.Name, st),
		Task:    &task,
	}
}

func (s *TaskStore) DeleteTask(ctx context.Context, name string) entity.Outcome {
	task, outcome, ok := s.resolve(ctx, name, "Error deleting task")
	if !ok {
		return outcome
	}

	if err := s.table.Delete(ctx, task.ID); err != nil {
		s.logger.Error("Delete failed", "op", "delete", "id", task.ID, "error", err)
		return storeError("Error deleting task", err)
	}

	s.logger.Info("Task deleted", "id", task.ID, "name", task.Name)
	return entity.Outcome{
		Kind:    entity.OutcomeOK,
		Message: fmt.Sprintf("Task '%s' deleted.", task.Name),
		Task:    &task,
	}
}

// ResolveTask scans the table and applies ResolveTaskID.
func (s *TaskStore) ResolveTask(ctx context.Context, name string) entity.Outcome {
	task, outcome, ok := s.resolve(ctx, name, "Error resolving task")
	if !ok {
		return outcome
	}
	return entity.Outcome{
		Kind:    entity.OutcomeOK,
		Message: task.ID,
		Task:    &task,
	}
}

func (s *TaskStore) resolve(ctx context.Context, name, errPrefix string) (entity.Task, entity.Outcome, bool) {
	tasks, err := s.table.ScanAll(ctx)
	if err != nil {
		s.logger.Error("Scan failed", "op", "resolve", "name", name, "error", err)
		return entity.Task{}, storeError(errPrefix, err), false
	}

	task, ok := resolveTask(tasks, name)
	if !ok {
		s.logger.Debug("Task name did not resolve", "name", name, "scanned", len(tasks))
		return entity.Task{}, entity.Outcome{
			Kind:    entity.OutcomeNotFound,
			Message: fmt.Sprintf("Task '%s' not found.", name),
		}, false
	}
	return task, entity.Outcome{}, true
}

func invalidStatus(status string) entity.Outcome {
	return entity.Outcome{
		Kind:    entity.OutcomeInvalid,
		Message: fmt.Sprintf("Invalid status '%s'. Must be one of: %s.", status, entity.StatusList()),
	}
}

func storeError(prefix string, err error) entity.Outcome {
	return entity.Outcome{
		Kind:    entity.OutcomeStoreError,
		Message: fmt.Sprintf("%s: %v", prefix, err),
	}
}
