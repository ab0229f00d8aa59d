package records

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no medical record matches the lookup.
var ErrNotFound = errors.New("medical record not found")

// ListOptions narrows and pages a medical record listing.
type ListOptions struct {
	// PatientEmail restricts to records of the patient record owned by this
	// email.
	PatientEmail string
	// PatientID restricts to records of a specific patient (staff filter).
	PatientID uuid.UUID
	Limit     int
	Offset    int
}

type Repository interface {
	Create(ctx context.Context, rec *MedicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)
	List(ctx context.Context, opts ListOptions) ([]*MedicalRecord, int, error)
}
