package output

import (
	"context"

	"task-agent/internal/domain/entity"
)

// TaskTable is the remote item store holding task records keyed by ID.
// Every call is a single synchronous round trip.
type TaskTable interface {
	// ScanAll returns every stored task in backend order, paging through
	// the whole table.
	ScanAll(ctx context.Context) ([]entity.Task, error)
	Put(ctx context.Context, task entity.Task) error
	// UpdateStatus overwrites only the status attribute of the task with id.
	UpdateStatus(ctx context.Context, id string, status entity.TaskStatus) error
	Delete(ctx context.Context, id string) error
}
