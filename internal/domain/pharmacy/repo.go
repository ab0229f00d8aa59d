package pharmacy

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no prescription matches the lookup.
var ErrNotFound = errors.New("prescription not found")

// ListOptions narrows and pages a prescription listing.
type ListOptions struct {
	// PatientEmail restricts to prescriptions of the patient record owned by
	// this email.
	PatientEmail string
	// Statuses restricts to a work-queue status set.
	Statuses []string
	Limit    int
	Offset   int
}

// StatusUpdate carries a status transition and, for dispensed/delivered, the
// pharmacist stamp.
type StatusUpdate struct {
	Status        string
	DispensedByID *uuid.UUID
	DispensedAt   *time.Time
}

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) (*Prescription, error)
	List(ctx context.Context, opts ListOptions) ([]*Prescription, int, error)
}
