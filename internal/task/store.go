package task

import (
	"context"
	"errors"

	"github.com/taskdeck/service-task-go/internal/task/entity"
)

// ErrTaskNotFound is returned by Store implementations when no task matches
// the id.
var ErrTaskNotFound = errors.New("task not found")

// Filter narrows and pages a list query. Nil filter fields are not applied.
// OwnerID is always set by the service before the query runs, never after.
type Filter struct {
	OwnerID  string
	Status   *entity.Status
	Priority *entity.Priority
	Offset   int
	Limit    int
}

// Store is the persistence boundary for tasks.
type Store interface {
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	Create(ctx context.Context, t *entity.Task) error
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id string) error
	// List returns the page of matching tasks plus the total match count.
	List(ctx context.Context, f Filter) ([]entity.Task, int, error)
}
