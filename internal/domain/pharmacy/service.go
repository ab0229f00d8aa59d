package pharmacy

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

// Create writes a prescription. The prescribing doctor is always the caller.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, body map[string]interface{}) (*Prescription, error) {
	if err := validate.Required(body, []string{"patient", "medicines"}); err != nil {
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

	medicines, err := parseMedicines(body["medicines"])
	if err != nil {
		return nil, err
	}

	p := &Prescription{
		PatientID: patientID,
		DoctorID:  principal.ID,
		Medicines: medicines,
		Notes:     validate.Sanitize(body["notes"]),
		Status:    StatusPending,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateStatus moves a prescription through the pharmacy workflow. Dispensed
// and delivered transitions stamp the acting pharmacist and the time.
func (s *Service) UpdateStatus(ctx context.Context, principal *auth.Principal, rawID string, body map[string]interface{}) (*Prescription, error) {
	status := validate.Sanitize(body["status"])
	if !ValidStatus(status) {
		return nil, httperr.Validation("Invalid status")
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, httperr.Validation("Invalid ID")
	}

	upd := StatusUpdate{Status: status}
	if status == StatusDispensed || status == StatusDelivered {
		now := s.now()
		upd.DispensedByID = &principal.ID
		upd.DispensedAt = &now
	}

	p, err := s.repo.UpdateStatus(ctx, id, upd)
	if errors.Is(err, ErrNotFound) {
		return nil, httperr.NotFound("Prescription not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns the prescriptions visible to the caller. Patients see their
// own, pharmacists the open work queue, admins and doctors everything.
func (s *Service) List(ctx context.Context, principal *auth.Principal, limit, offset int) ([]*Prescription, int, error) {
	scope := auth.ScopeFor(auth.ResourcePrescriptions, principal)
	return s.repo.List(ctx, ListOptions{
		PatientEmail: scope.PatientEmail,
		Statuses:     scope.Statuses,
		Limit:        limit,
		Offset:       offset,
	})
}

func parseMedicines(v interface{}) ([]Medicine, error) {
	items, ok := v.([]interface{})
	if !ok || len(items) == 0 {
		return nil, httperr.Validation("At least one medicine is required")
	}

	medicines := make([]Medicine, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, httperr.Validation("Invalid medicine entry")
		}
		m := Medicine{
			Name:      validate.Sanitize(entry["name"]),
			Dosage:    validate.Sanitize(entry["dosage"]),
			Frequency: validate.Sanitize(entry["frequency"]),
			Duration:  validate.Sanitize(entry["duration"]),
		}
		if q, ok := entry["quantity"].(float64); ok {
			m.Quantity = int(q)
		}
		if m.Name == "" || m.Dosage == "" || m.Frequency == "" || m.Duration == "" || m.Quantity <= 0 {
			return nil, httperr.Validation("Each medicine requires name, dosage, frequency, duration and a positive quantity")
		}
		medicines = append(medicines, m)
	}
	return medicines, nil
}
