// Package postgres stores tasks in a single PostgreSQL table through pgx.
package postgres

import (
	"context"
	"fmt"

	"task-agent/internal/application/port/output"
	"task-agent/internal/domain/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ output.TaskTable = (*Table)(nil)

const DefaultTableName = "tasks"

// DB is satisfied by *pgxpool.Pool and *pgx.Conn.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Table struct {
	db    DB
	ident string
}

// Open creates a pool for databaseURL and makes sure the table exists.
func Open(ctx context.Context, databaseURL, tableName string) (*Table, func(), error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	table := NewTable(pool, tableName)
	if err := table.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return table, pool.Close, nil
}

func NewTable(db DB, tableName string) *Table {
	if tableName == "" {
		tableName = DefaultTableName
	}
	return &Table{
		db:    db,
		ident: pgx.Identifier{tableName}.Sanitize(),
	}
}

func (t *Table) EnsureSchema(ctx context.Context) error {
	_, err := t.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+t.ident+` (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		due_date   TEXT NOT NULL,
		status     TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create table %s: %w", t.ident, err)
	}
	return nil
}

func (t *Table) ScanAll(ctx context.Context) ([]entity.Task, error) {
	rows, err := t.db.Query(ctx, `SELECT id, name, due_date, status, created_at FROM `+t.ident)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.ident, err)
	}
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		var (
			task   entity.Task
			status string
		)
		if err := rows.Scan(&task.ID, &task.Name, &task.DueDate, &status, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		task.Status = entity.TaskStatus(status)
		task.CreatedAt = task.CreatedAt.UTC()
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", t.ident, err)
	}

	return tasks, nil
}

func (t *Table) Put(ctx context.Context, task entity.Task) error {
	_, err := t.db.Exec(ctx,
		`INSERT INTO `+t.ident+` (id, name, due_date, status, created_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, due_date = EXCLUDED.due_date,
			status = EXCLUDED.status, created_at = EXCLUDED.created_at`,
		task.ID, task.Name, task.DueDate, string(task.Status), task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task %s: %w", task.ID, err)
	}
	return nil
}

func (t *Table) UpdateStatus(ctx context.Context, id string, status entity.TaskStatus) error {
	tag, err := t.db.Exec(ctx, `UPDATE `+t.ident+` SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update task %s: %w", id, entity.ErrTaskNotFound)
	}
	return nil
}

func (t *Table) Delete(ctx context.Context, id string) error {
	if _, err := t.db.Exec(ctx, `DELETE FROM `+t.ident+` WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}
