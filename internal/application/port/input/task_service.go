package input

import (
	"context"

	"task-agent/internal/domain/entity"
)

// TaskService is the task-management surface the tools and HTTP handlers
// call into. Failures are reported through the returned Outcome.
type TaskService interface {
	ListTasks(ctx context.Context) entity.Outcome
	AddTask(ctx context.Context, name, dueDate, status string) entity.Outcome
	UpdateTaskStatus(ctx context.Context, name, status string) entity.Outcome
	DeleteTask(ctx context.Context, name string) entity.Outcome
}
