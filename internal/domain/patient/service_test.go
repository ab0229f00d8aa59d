package patient

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
	seq      int
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	for _, existing := range m.patients {
		if existing.Email == p.Email {
			return ErrDuplicate
		}
	}
	p.ID = uuid.New()
	m.seq++
	p.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Second)
	p.UpdatedAt = p.CreatedAt
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	if p, ok := m.patients[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.patients[id]
	return ok, nil
}

func (m *mockRepo) EmailTaken(_ context.Context, email string) (bool, error) {
	for _, p := range m.patients {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return ErrNotFound
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, opts ListOptions) ([]*Patient, int, error) {
	var matched []*Patient
	for _, p := range m.patients {
		if opts.Search != "" {
			needle := strings.ToLower(opts.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Email), needle) {
				continue
			}
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	if opts.Offset > len(matched) {
		opts.Offset = len(matched)
	}
	end := opts.Offset + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[opts.Offset:end], total, nil
}

type mockAccounts struct {
	created   []string
	duplicate bool
}

func (m *mockAccounts) CreatePatientAccount(_ context.Context, name, email, password string) error {
	if m.duplicate {
		return httperr.Conflict("User with this email already exists")
	}
	m.created = append(m.created, email)
	return nil
}

func adminPrincipal() *auth.Principal {
	return &auth.Principal{ID: uuid.New(), Role: auth.RoleAdmin, Email: "admin@x.test"}
}

func doctorPrincipal() *auth.Principal {
	return &auth.Principal{ID: uuid.New(), Role: auth.RoleDoctor, Email: "doc@x.test"}
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"name":   "Jane Roe",
		"email":  "Jane.Roe@Example.com",
		"age":    float64(34),
		"gender": "female",
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var typed *httperr.Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Status != status {
		t.Errorf("expected status %d, got %d (%s)", status, typed.Status, typed.Message)
	}
}

func TestCreate_Success(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockAccounts{})
	caller := doctorPrincipal()

	p, err := svc.Create(context.Background(), caller, validBody())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Email != "jane.roe@example.com" {
		t.Errorf("expected lowercased email, got %q", p.Email)
	}
	if p.Age != 34 {
		t.Errorf("expected age 34, got %d", p.Age)
	}
	if p.CreatedByID == nil || *p.CreatedByID != caller.ID {
		t.Error("record must track the creating account")
	}
	if p.MedicalHistory == nil {
		t.Error("medical history must default to an empty list")
	}
}

func TestCreate_MissingFields(t *testing.T) {
	svc := NewService(newMockRepo(), &mockAccounts{})

	_, err := svc.Create(context.Background(), doctorPrincipal(), map[string]interface{}{"name": "x"})
	if err == nil || err.Error() != "Missing required fields: email, age, gender" {
		t.Errorf("unexpected error: %v", err)
	}
	assertStatus(t, err, 400)
}

func TestCreate_InvalidGender(t *testing.T) {
	svc := NewService(newMockRepo(), &mockAccounts{})

	body := validBody()
	body["gender"] = "unknown"
	_, err := svc.Create(context.Background(), doctorPrincipal(), body)
	if err == nil || err.Error() != "Invalid gender. Must be male, female, or other" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreate_StringAge(t *testing.T) {
	svc := NewService(newMockRepo(), &mockAccounts{})

	body := validBody()
	body["age"] = "42"
	p, err := svc.Create(context.Background(), doctorPrincipal(), body)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Age != 42 {
		t.Errorf("expected age 42, got %d", p.Age)
	}

	body = validBody()
	body["email"] = "other@example.com"
	body["age"] = "not-a-number"
	if _, err := svc.Create(context.Background(), doctorPrincipal(), body); err == nil {
		t.Error("expected error for unparseable age")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc := NewService(newMockRepo(), &mockAccounts{})

	if _, err := svc.Create(context.Background(), doctorPrincipal(), validBody()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(context.Background(), doctorPrincipal(), validBody())
	if err == nil || err.Error() != "Patient with this email already exists" {
		t.Errorf("unexpected error: %v", err)
	}
	assertStatus(t, err, 400)
}

func TestCreate_AdminWithPasswordProvisionsAccount(t *testing.T) {
	accounts := &mockAccounts{}
	svc := NewService(newMockRepo(), accounts)

	body := validBody()
	body["password"] = "secret123"
	if _, err := svc.Create(context.Background(), adminPrincipal(), body); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(accounts.created) != 1 || accounts.created[0] != "jane.roe@example.com" {
		t.Errorf("expected a provisioned patient account, got %v", accounts.created)
	}
}

func TestCreate_DoctorWithPasswordDoesNotProvision(t *testing.T) {
	accounts := &mockAccounts{}
	svc := NewService(newMockRepo(), accounts)

	body := validBody()
	body["password"] = "secret123"
	if _, err := svc.Create(context.Background(), doctorPrincipal(), body); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(accounts.created) != 0 {
		t.Error("only admins may provision login accounts")
	}
}

func TestCreate_AccountClash(t *testing.T) {
	svc := NewService(newMockRepo(), &mockAccounts{duplicate: true})

	body := validBody()
	body["password"] = "secret123"
	_, err := svc.Create(context.Background(), adminPrincipal(), body)
	if err == nil || err.Error() != "User with this email already exists" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGet_InvalidID(t *testing.T) {
	svc := NewService(newMockRepo(), &mockAccounts{})

	_, err := svc.Get(context.Background(), "not-a-uuid")
	if err == nil || err.Error() != "Invalid ID" {
		t.Errorf("unexpected error: %v", err)
	}
	assertStatus(t, err, 400)
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newMockRepo(), &mockAccounts{})

	_, err := svc.Get(context.Background(), uuid.NewString())
	if err == nil || err.Error() != "Patient not found" {
		t.Errorf("unexpected error: %v", err)
	}
	assertStatus(t, err, 404)
}

func TestUpdate_AppliesFields(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockAccounts{})

	p, err := svc.Create(context.Background(), doctorPrincipal(), validBody())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), p.ID.String(), map[string]interface{}{
		"age":            float64(35),
		"medicalHistory": []interface{}{"asthma", " hypertension "},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Age != 35 {
		t.Errorf("expected age 35, got %d", updated.Age)
	}
	if len(updated.MedicalHistory) != 2 || updated.MedicalHistory[1] != "hypertension" {
		t.Errorf("unexpected history: %v", updated.MedicalHistory)
	}
	if updated.Name != "Jane Roe" {
		t.Errorf("untouched fields must survive, got name %q", updated.Name)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMockRepo(), &mockAccounts{})

	_, err := svc.Update(context.Background(), uuid.NewString(), map[string]interface{}{"age": float64(1)})
	if err == nil || err.Error() != "Patient not found" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockAccounts{})

	p, err := svc.Create(context.Background(), doctorPrincipal(), validBody())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID.String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), p.ID.String()); err == nil || err.Error() != "Patient not found" {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestList_SearchAndOrder(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockAccounts{})
	caller := doctorPrincipal()

	for _, name := range []string{"Alice Adams", "Bob Brown", "Alice Cooper"} {
		body := validBody()
		body["name"] = name
		body["email"] = strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@x.test"
		if _, err := svc.Create(context.Background(), caller, body); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	results, total, err := svc.List(context.Background(), ListOptions{Search: "alice", Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(results) != 2 {
		t.Fatalf("expected 2 matches, got total=%d len=%d", total, len(results))
	}
	if !results[0].CreatedAt.After(results[1].CreatedAt) {
		t.Error("expected newest-first ordering")
	}
}
