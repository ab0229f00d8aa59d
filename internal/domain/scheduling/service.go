package scheduling

import (
	"context"
	"errors"

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
}

func NewService(repo Repository, patients PatientDirectory) *Service {
	return &Service{repo: repo, patients: patients}
}

// Create books an appointment. The doctor defaults to the caller; when an
// admin books on a doctor's behalf the assignment is recorded.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, body map[string]interface{}) (*Appointment, error) {
	if err := validate.Required(body, []string{"patient", "date", "time", "reason"}); err != nil {
		return nil, httperr.Validation(err.Error())
	}

	date, err := validate.Date(validate.Sanitize(body["date"]))
	if err != nil {
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

	doctorID := principal.ID
	if raw := validate.Sanitize(body["doctor"]); raw != "" {
		doctorID, err = uuid.Parse(raw)
		if err != nil {
			return nil, httperr.Validation("Invalid ID")
		}
	}

	// An unrecognized status silently falls back to scheduled.
	status := StatusScheduled
	if v := validate.Sanitize(body["status"]); ValidStatus(v) {
		status = v
	}

	a := &Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      validate.Sanitize(body["time"]),
		Reason:    validate.Sanitize(body["reason"]),
		Status:    status,
		Notes:     "",
	}
	if principal.Role == auth.RoleAdmin {
		a.AssignedByID = &principal.ID
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateStatus moves an appointment through its lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, rawID string, body map[string]interface{}) (*Appointment, error) {
	status := validate.Sanitize(body["status"])
	if !ValidStatus(status) {
		return nil, httperr.Validation("Invalid status")
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, httperr.Validation("Invalid ID")
	}

	a, err := s.repo.UpdateStatus(ctx, id, status)
	if errors.Is(err, ErrNotFound) {
		return nil, httperr.NotFound("Appointment not found")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List returns the appointments visible to the caller. Patients see their
// own, doctors their upcoming schedule, admins everything newest-first.
func (s *Service) List(ctx context.Context, principal *auth.Principal, status string, limit, offset int) ([]*Appointment, int, error) {
	scope := auth.ScopeFor(auth.ResourceAppointments, principal)

	opts := ListOptions{
		PatientEmail: scope.PatientEmail,
		FromToday:    scope.FromToday,
		NewestFirst:  scope.All,
		Limit:        limit,
		Offset:       offset,
	}
	if scope.DoctorID != "" {
		id, err := uuid.Parse(scope.DoctorID)
		if err != nil {
			return nil, 0, err
		}
		opts.DoctorID = id
	}
	if ValidStatus(status) {
		opts.Status = status
	}

	return s.repo.List(ctx, opts)
}
