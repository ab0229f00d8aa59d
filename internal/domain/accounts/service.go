package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
	"github.com/hms/hms/internal/platform/validate"
)

type Service struct {
	repo       Repository
	tokens     auth.Config
	bcryptCost int
}

func NewService(repo Repository, tokens auth.Config, bcryptCost int) *Service {
	return &Service{repo: repo, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a self-service account. The role is always patient; staff
// accounts are provisioned by an administrator through CreateStaff.
func (s *Service) Register(ctx context.Context, body map[string]interface{}) (*User, error) {
	if err := validate.Required(body, []string{"name", "email", "password"}); err != nil {
		return nil, httperr.Validation(err.Error())
	}

	email := strings.ToLower(validate.Sanitize(body["email"]))
	password, _ := body["password"].(string)

	if err := validate.Email(email); err != nil {
		return nil, httperr.Validation(err.Error())
	}
	if err := validate.Password(password, 6); err != nil {
		return nil, httperr.Validation(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:     validate.Sanitize(body["name"]),
		Email:    email,
		Password: string(hash),
		Role:     auth.RolePatient,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, httperr.Conflict("User already exists")
		}
		return nil, err
	}
	return u, nil
}

// Login checks credentials and returns the account with a signed session
// token. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, body map[string]interface{}) (*User, string, error) {
	if err := validate.Required(body, []string{"email", "password"}); err != nil {
		return nil, "", httperr.Validation(err.Error())
	}

	email := strings.ToLower(validate.Sanitize(body["email"]))
	password, _ := body["password"].(string)

	if err := validate.Email(email); err != nil {
		return nil, "", httperr.Validation(err.Error())
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, "", httperr.Unauthenticated("Invalid email or password")
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", httperr.Unauthenticated("Invalid email or password")
	}

	token, err := s.tokens.Issue(u.ID, u.Role, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Me returns the account behind a session.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, httperr.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateStaff provisions a doctor, pharmacist or lab technician account.
func (s *Service) CreateStaff(ctx context.Context, body map[string]interface{}) (*User, error) {
	name := validate.Sanitize(body["name"])
	email := strings.ToLower(validate.Sanitize(body["email"]))
	password, _ := body["password"].(string)
	role := validate.Sanitize(body["role"])

	if name == "" || email == "" || password == "" || role == "" {
		return nil, httperr.Validation("All fields are required")
	}
	if role != auth.RoleDoctor && role != auth.RolePharmacist && role != auth.RoleLabTechnician {
		return nil, httperr.Validation("Invalid role. Must be doctor, pharmacist, or lab_technician")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &User{Name: name, Email: email, Password: string(hash), Role: role}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, httperr.Conflict("User with this email already exists")
		}
		return nil, err
	}
	return u, nil
}

// CreatePatientAccount provisions a patient login alongside an
// administratively created patient record.
func (s *Service) CreatePatientAccount(ctx context.Context, name, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}

	u := &User{
		Name:     name,
		Email:    strings.ToLower(email),
		Password: string(hash),
		Role:     auth.RolePatient,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return httperr.Conflict("User with this email already exists")
		}
		return err
	}
	return nil
}

// ListStaff returns staff accounts, newest first.
func (s *Service) ListStaff(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.ListByRoles(ctx, auth.StaffRoles, limit, offset)
}
