package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrDuplicate is returned when a unique constraint (email) is violated.
var ErrDuplicate = errors.New("user already exists")

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByRoles(ctx context.Context, roles []string, limit, offset int) ([]*User, int, error)
}
