package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no patient matches the lookup.
var ErrNotFound = errors.New("patient not found")

// ErrDuplicate is returned when the email unique constraint is violated.
var ErrDuplicate = errors.New("patient already exists")

// ListOptions narrows and pages a patient listing.
type ListOptions struct {
	// Search matches name or email, case-insensitive substring.
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts ListOptions) ([]*Patient, int, error)
}
