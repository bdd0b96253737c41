package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"task-agent/internal/domain/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

// fakeDB records statements and serves canned rows.
type fakeDB struct {
	execs    []execCall
	rows     [][]any
	affected int64
	queryErr error
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("UPDATE " + strconv.FormatInt(f.affected, 10)), nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{rows: f.rows, idx: -1}, nil
}

type fakeRows struct {
	pgx.Rows
	rows [][]any
	idx  int
}

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx]
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *time.Time:
			*p = row[i].(time.Time)
		default:
			return errors.New("unexpected scan target")
		}
	}
	return nil
}

func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}

func TestNewTable_QuotesIdentifier(t *testing.T) {
	table := NewTable(&fakeDB{}, "my tasks")
	assert.Equal(t, `"my tasks"`, table.ident)
}

func TestScanAll(t *testing.T) {
	created := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	db := &fakeDB{rows: [][]any{
		{"a", "Buy milk", "2025-01-02", "pending", created},
		{"b", "Call mom", "2025-01-03", "in_progress", created},
	}}

	tasks, err := NewTable(db, "").ScanAll(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, entity.Task{ID: "b", Name: "Call mom", DueDate: "2025-01-03", Status: entity.TaskStatusInProgress, CreatedAt: created}, tasks[1])
}

func TestScanAll_QueryError(t *testing.T) {
	_, err := NewTable(&fakeDB{queryErr: errors.New("relation does not exist")}, "").ScanAll(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "relation does not exist")
}

func TestUpdateStatus(t *testing.T) {
	db := &fakeDB{affected: 1}

	require.NoError(t, NewTable(db, "").UpdateStatus(context.Background(), "a", entity.TaskStatusCompleted))

	require.Len(t, db.execs, 1)
	assert.True(t, strings.HasPrefix(db.execs[0].sql, `UPDATE "tasks" SET status = $1`))
	assert.Equal(t, []any{"completed", "a"}, db.execs[0].args)
}

func TestUpdateStatus_Missing(t *testing.T) {
	err := NewTable(&fakeDB{affected: 0}, "").UpdateStatus(context.Background(), "a", entity.TaskStatusCompleted)

	assert.ErrorIs(t, err, entity.ErrTaskNotFound)
}

func TestPutAndDelete(t *testing.T) {
	db := &fakeDB{}
	table := NewTable(db, "")
	task := entity.Task{ID: "a", Name: "Buy milk", DueDate: "2025-01-02", Status: entity.TaskStatusPending, CreatedAt: time.Now()}

	require.NoError(t, table.Put(context.Background(), task))
	require.NoError(t, table.Delete(context.Background(), "a"))

	require.Len(t, db.execs, 2)
	assert.Contains(t, db.execs[0].sql, "INSERT INTO")
	assert.Equal(t, "a", db.execs[0].args[0])
	assert.Equal(t, `DELETE FROM "tasks" WHERE id = $1`, db.execs[1].sql)
}
