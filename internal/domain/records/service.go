package records

import (
	"context"
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

// Create documents a visit. The attending doctor is always the caller; the
// visit date defaults to now.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, body map[string]interface{}) (*MedicalRecord, error) {
	if err := validate.Required(body, []string{"patient", "diagnosis"}); err != nil {
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

	visitDate := s.now()
	if raw := validate.Sanitize(body["visitDate"]); raw != "" {
		visitDate, err = validate.Date(raw)
		if err != nil {
			return nil, httperr.Validation(err.Error())
		}
	}

	rec := &MedicalRecord{
		PatientID:    patientID,
		DoctorID:     principal.ID,
		Diagnosis:    validate.Sanitize(body["diagnosis"]),
		Symptoms:     symptomList(body["symptoms"]),
		Prescription: validate.Sanitize(body["prescription"]),
		Notes:        validate.Sanitize(body["notes"]),
		VisitDate:    visitDate,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns the records visible to the caller, most recent visit first.
// Patients see their own; staff may filter by patient id.
func (s *Service) List(ctx context.Context, principal *auth.Principal, patientFilter string, limit, offset int) ([]*MedicalRecord, int, error) {
	scope := auth.ScopeFor(auth.ResourceMedicalRecords, principal)

	opts := ListOptions{
		PatientEmail: scope.PatientEmail,
		Limit:        limit,
		Offset:       offset,
	}
	if scope.All && patientFilter != "" {
		id, err := uuid.Parse(patientFilter)
		if err != nil {
			return nil, 0, httperr.Validation("Invalid ID")
		}
		opts.PatientID = id
	}

	return s.repo.List(ctx, opts)
}

// symptomList accepts either a list or a single string, trims every entry
// and drops the blanks.
func symptomList(v interface{}) []string {
	switch items := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s := validate.Sanitize(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := validate.Sanitize(items); s != "" {
			return []string{s}
		}
		return []string{}
	default:
		return []string{}
	}
}
