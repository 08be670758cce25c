package account

import (
	"context"
	"errors"

	"github.com/taskdeck/service-task-go/internal/account/entity"
	"github.com/taskdeck/service-task-go/internal/auth"
)

var (
	// ErrAccountNotFound is returned by Store implementations when no
	// account matches the lookup key.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateEmail is returned by Create when the email column's
	// unique constraint rejects the row.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store is the persistence boundary for accounts. The sqlx repository
// implements it in production; tests substitute mocks or in-memory fakes.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	Create(ctx context.Context, a *entity.Account) error
}

// GateLookup adapts the store to the auth gate's subject liveness check.
func GateLookup(store Store) auth.Lookup {
	return func(ctx context.Context, id string) error {
		_, err := store.GetByID(ctx, id)
		if errors.Is(err, ErrAccountNotFound) {
			return auth.ErrSubjectNotFound
		}
		return err
	}
}
