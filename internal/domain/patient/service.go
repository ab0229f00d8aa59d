package patient

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
	"github.com/hms/hms/internal/platform/validate"
)

// AccountProvisioner creates the optional login account for a patient record.
type AccountProvisioner interface {
	CreatePatientAccount(ctx context.Context, name, email, password string) error
}

type Service struct {
	repo     Repository
	accounts AccountProvisioner
}

func NewService(repo Repository, accounts AccountProvisioner) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// Create registers a patient record. When the caller is an admin and supplies
// a password, a patient login account is provisioned alongside the record.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, body map[string]interface{}) (*Patient, error) {
	if err := validate.Required(body, []string{"name", "email", "age", "gender"}); err != nil {
		return nil, httperr.Validation(err.Error())
	}

	email := strings.ToLower(validate.Sanitize(body["email"]))
	if err := validate.Email(email); err != nil {
		return nil, httperr.Validation(err.Error())
	}

	gender := validate.Sanitize(body["gender"])
	if !validGender(gender) {
		return nil, httperr.Validation("Invalid gender. Must be male, female, or other")
	}

	age, ok := parseAge(body["age"])
	if !ok {
		return nil, httperr.Validation("Invalid age")
	}

	taken, err := s.repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.Conflict("Patient with this email already exists")
	}

	name := validate.Sanitize(body["name"])

	// An admin may hand the patient portal access in the same call.
	if password, _ := body["password"].(string); strings.TrimSpace(password) != "" &&
		principal.Role == auth.RoleAdmin {
		if err := s.accounts.CreatePatientAccount(ctx, name, email, password); err != nil {
			return nil, err
		}
	}

	p := &Patient{
		Name:           name,
		Email:          email,
		Age:            age,
		Gender:         gender,
		MedicalHistory: historyList(body["medicalHistory"]),
		CreatedByID:    &principal.ID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, httperr.Conflict("Patient with this email already exists")
		}
		return nil, err
	}
	return p, nil
}

// Get returns a single patient record.
func (s *Service) Get(ctx context.Context, rawID string) (*Patient, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, httperr.Validation("Invalid ID")
	}

	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, httperr.NotFound("Patient not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies the provided fields to an existing record.
func (s *Service) Update(ctx context.Context, rawID string, body map[string]interface{}) (*Patient, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, httperr.Validation("Invalid ID")
	}

	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, httperr.NotFound("Patient not found")
	}
	if err != nil {
		return nil, err
	}

	if _, ok := body["name"]; ok {
		p.Name = validate.Sanitize(body["name"])
	}
	if _, ok := body["email"]; ok {
		email := strings.ToLower(validate.Sanitize(body["email"]))
		if err := validate.Email(email); err != nil {
			return nil, httperr.Validation(err.Error())
		}
		p.Email = email
	}
	if raw, ok := body["age"]; ok {
		age, ok := parseAge(raw)
		if !ok {
			return nil, httperr.Validation("Invalid age")
		}
		p.Age = age
	}
	if _, ok := body["gender"]; ok {
		gender := validate.Sanitize(body["gender"])
		if !validGender(gender) {
			return nil, httperr.Validation("Invalid gender. Must be male, female, or other")
		}
		p.Gender = gender
	}
	if raw, ok := body["medicalHistory"]; ok {
		p.MedicalHistory = historyList(raw)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, httperr.Conflict("Patient with this email already exists")
		}
		if errors.Is(err, ErrNotFound) {
			return nil, httperr.NotFound("Patient not found")
		}
		return nil, err
	}
	return p, nil
}

// Delete removes a patient record.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return httperr.Validation("Invalid ID")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound("Patient not found")
		}
		return err
	}
	return nil
}

// List returns patients newest-first, optionally filtered by a name/email
// search.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*Patient, int, error) {
	return s.repo.List(ctx, opts)
}

func validGender(g string) bool {
	for _, v := range Genders {
		if v == g {
			return true
		}
	}
	return false
}

func parseAge(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		age, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return age, true
	default:
		return 0, false
	}
}

func historyList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	history := make([]string, 0, len(items))
	for _, item := range items {
		if s := validate.Sanitize(item); s != "" {
			history = append(history, s)
		}
	}
	return history
}
