package lab

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
	"github.com/hms/hms/internal/platform/validate"
)

// PatientDirectory answers whether a patient record exists.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	now      func() time.Time
}

func NewService(repo Repository, patients PatientDirectory) *Service {
	return &Service{repo: repo, patients: patients, now: time.Now}
}

// Create orders a lab test. The ordering doctor is always the caller.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, body map[string]interface{}) (*LabTest, error) {
	if err := validate.Required(body, []string{"patient", "testName", "testType"}); err != nil {
		return nil, httperr.Validation(err.Error())
	}

	patientID, err := uuid.Parse(validate.Sanitize(body["patient"]))
	if err != nil {
		return nil, httperr.Validation("Invalid ID")
	}
	exists, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, httperr.NotFound("Patient not found")
	}

	t := &LabTest{
		PatientID:   patientID,
		DoctorID:    principal.ID,
		TestName:    validate.Sanitize(body["testName"]),
		TestType:    validate.Sanitize(body["testType"]),
		Status:      StatusOrdered,
		OrderedDate: s.now(),
		Notes:       validate.Sanitize(body["notes"]),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateStatus moves a test through the lab workflow and uploads results.
// Completion stamps the acting technician and the time.
func (s *Service) UpdateStatus(ctx context.Context, principal *auth.Principal, rawID string, body map[string]interface{}) (*LabTest, error) {
	status := validate.Sanitize(body["status"])
	if !ValidStatus(status) {
		return nil, httperr.Validation("Invalid status")
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, httperr.Validation("Invalid ID")
	}

	upd := StatusUpdate{
		Status:  status,
		Results: validate.Sanitize(body["results"]),
		Notes:   validate.Sanitize(body["notes"]),
	}
	if status == StatusCompleted {
		now := s.now()
		upd.UploadedByID = &principal.ID
		upd.CompletedDate = &now
	}

	t, err := s.repo.UpdateStatus(ctx, id, upd)
	if errors.Is(err, ErrNotFound) {
		return nil, httperr.NotFound("Lab test not found")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the lab tests visible to the caller. Patients see their own,
// technicians the open work queue, admins and doctors everything.
func (s *Service) List(ctx context.Context, principal *auth.Principal, limit, offset int) ([]*LabTest, int, error) {
	scope := auth.ScopeFor(auth.ResourceLabTests, principal)
	return s.repo.List(ctx, ListOptions{
		PatientEmail: scope.PatientEmail,
		Statuses:     scope.Statuses,
		Limit:        limit,
		Offset:       offset,
	})
}
