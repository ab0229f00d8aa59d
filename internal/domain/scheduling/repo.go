package scheduling

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no appointment matches the lookup.
var ErrNotFound = errors.New("appointment not found")

// ListOptions narrows and pages an appointment listing. The zero value means
// no narrowing at all.
type ListOptions struct {
	// PatientEmail restricts to appointments of the patient record owned by
	// this email.
	PatientEmail string
	// DoctorID restricts to appointments assigned to this doctor.
	DoctorID uuid.UUID
	// FromToday drops appointments dated before the start of the current day.
	FromToday bool
	// Status filters on a single appointment status.
	Status string
	// NewestFirst orders by date descending; otherwise date then time
	// ascending.
	NewestFirst bool
	Limit       int
	Offset      int
}

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error)
	List(ctx context.Context, opts ListOptions) ([]*Appointment, int, error)
}
