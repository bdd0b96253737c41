// Package memory is an in-process TaskTable used by the local server, the
// REPL and tests. Scan order is insertion order.
package memory

import (
	"context"
	"fmt"
	"sync"

	"task-agent/internal/application/port/output"
	"task-agent/internal/domain/entity"
)

var _ output.TaskTable = (*Table)(nil)

type Table struct {
	mu    sync.RWMutex
	order []string
	items map[string]entity.Task
}

func NewTable(seed ...entity.Task) *Table {
	t := &Table{items: make(map[string]entity.Task)}
	for _, task := range seed {
		t.put(task)
	}
	return t
}

func (t *Table) ScanAll(ctx context.Context) ([]entity.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]entity.Task, 0, len(t.order))
	for _, id := range t.order {
		result = append(result, t.items[id])
	}
	return result, nil
}

func (t *Table) Put(ctx context.Context, task entity.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.put(task)
	return nil
}

func (t *Table) UpdateStatus(ctx context.Context, id string, status entity.TaskStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.items[id]
	if !ok {
		return fmt.Errorf("update %s: %w", id, entity.ErrTaskNotFound)
	}
	task.Status = status
	t.items[id] = task
	return nil
}

func (t *Table) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.items[id]; !ok {
		return nil
	}
	delete(t.items, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports the number of stored tasks.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

func (t *Table) put(task entity.Task) {
	if _, exists := t.items[task.ID]; !exists {
		t.order = append(t.order, task.ID)
	}
	t.items[task.ID] = task
}
