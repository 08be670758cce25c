package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/taskdeck/service-task-go/internal/task"
	"github.com/taskdeck/service-task-go/internal/task/entity"
)

// TaskRepo provides data access for the tasks table using sqlx.
type TaskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo { return &TaskRepo{db: db} }

// EnsureTable creates the tasks table if not exists (idempotent).
func (r *TaskRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'TODO',
  priority TEXT NOT NULL DEFAULT 'MEDIUM',
  due_date TIMESTAMPTZ,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner_id);
CREATE INDEX IF NOT EXISTS idx_tasks_owner_status ON tasks(owner_id, status);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a new task row.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) error {
	const q = `INSERT INTO tasks (id, owner_id, title, description, status, priority, due_date, created_at, updated_at)
		VALUES (:id, :owner_id, :title, :description, :status, :priority, :due_date, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, q, t)
	return err
}

// GetByID returns the task matched by id, or task.ErrTaskNotFound.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	const q = `SELECT id, owner_id, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks WHERE id = $1`
	var row entity.Task
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, task.ErrTaskNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Update writes the mutable columns of the row. The service has already
// applied the partial update to the entity; owner_id is never touched.
func (r *TaskRepo) Update(ctx context.Context, t *entity.Task) error {
	const q = `UPDATE tasks SET title=:title, description=:description, status=:status,
		priority=:priority, due_date=:due_date, updated_at=:updated_at WHERE id=:id`
	res, err := r.db.NamedExecContext(ctx, q, t)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// Delete removes the row by id.
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// List returns one page of tasks matching the filter plus the total match
// count. The owner predicate is always part of the WHERE clause.
func (r *TaskRepo) List(ctx context.Context, f task.Filter) ([]entity.Task, int, error) {
	where := []string{"owner_id = $1"}
	args := []any{f.OwnerID}

	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Priority != nil {
		args = append(args, *f.Priority)
		where = append(where, fmt.Sprintf("priority = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	countQuery := "SELECT COUNT(*) FROM tasks WHERE " + cond
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	listArgs := append(args, f.Limit, f.Offset)
	listQuery := fmt.Sprintf(
		`SELECT id, owner_id, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		cond, len(args)+1, len(args)+2)

	var rows []entity.Task
	if err := r.db.SelectContext(ctx, &rows, listQuery, listArgs...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
