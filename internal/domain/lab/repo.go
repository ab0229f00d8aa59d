package lab

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no lab test matches the lookup.
var ErrNotFound = errors.New("lab test not found")

// ListOptions narrows and pages a lab test listing.
type ListOptions struct {
	// PatientEmail restricts to tests of the patient record owned by this
	// email.
	PatientEmail string
	// Statuses restricts to a work-queue status set.
	Statuses []string
	Limit    int
	Offset   int
}

// StatusUpdate carries a status transition, the result upload and, for
// completed tests, the technician stamp.
type StatusUpdate struct {
	Status        string
	Results       string
	Notes         string
	UploadedByID  *uuid.UUID
	CompletedDate *time.Time
}

type Repository interface {
	Create(ctx context.Context, t *LabTest) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) (*LabTest, error)
	List(ctx context.Context, opts ListOptions) ([]*LabTest, int, error)
}
