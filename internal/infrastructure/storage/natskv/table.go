// Package natskv stores tasks as JSON values in a NATS JetStream key-value
// bucket, one key per task ID.
package natskv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"task-agent/internal/application/port/output"
	"task-agent/internal/domain/entity"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

var _ output.TaskTable = (*Table)(nil)

const DefaultBucket = "tasks"

type Table struct {
	kv jetstream.KeyValue
}

// Open connects to url and creates the bucket if it does not exist.
func Open(ctx context.Context, url, bucket string) (*Table, func(), error) {
	if bucket == "" {
		bucket = DefaultBucket
	}

	conn, err := nats.Connect(url)
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("jetstream: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  bucket,
		History: 1,
	})
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("create kv bucket: %w", err)
	}

	return NewTable(kv), conn.Close, nil
}

func NewTable(kv jetstream.KeyValue) *Table {
	return &Table{kv: kv}
}

func (t *Table) ScanAll(ctx context.Context) ([]entity.Task, error) {
	lister, err := t.kv.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}
	defer lister.Stop()

	var tasks []entity.Task
	for key := range lister.Keys() {
		task, err := t.get(ctx, key)
		if errors.Is(err, entity.ErrTaskNotFound) {
			// deleted between listing and reading
			continue
		}
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (t *Table) Put(ctx context.Context, task entity.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode task %s: %w", task.ID, err)
	}
	if _, err := t.kv.Put(ctx, task.ID, data); err != nil {
		return fmt.Errorf("kv put: %w", err)
	}
	return nil
}

// UpdateStatus is a read-modify-write: KV values cannot be patched in place.
// Concurrent writers to the same task are last-write-wins.
func (t *Table) UpdateStatus(ctx context.Context, id string, status entity.TaskStatus) error {
	task, err := t.get(ctx, id)
	if err != nil {
		return err
	}
	task.Status = status
	return t.Put(ctx, task)
}

func (t *Table) Delete(ctx context.Context, id string) error {
	if err := t.kv.Delete(ctx, id); err != nil {
		return fmt.Errorf("kv delete: %w", err)
	}
	return nil
}

func (t *Table) get(ctx context.Context, key string) (entity.Task, error) {
	entry, err := t.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return entity.Task{}, fmt.Errorf("kv get %s: %w", key, entity.ErrTaskNotFound)
	}
	if err != nil {
		return entity.Task{}, fmt.Errorf("kv get %s: %w", key, err)
	}

	var task entity.Task
	if err := json.Unmarshal(entry.Value(), &task); err != nil {
		return entity.Task{}, fmt.Errorf("decode task %s: %w", key, err)
	}
	return task, nil
}
