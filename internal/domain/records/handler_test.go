package records

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
)

func testTokens() auth.Config {
	return auth.Config{
		Secret:     []byte("test-secret"),
		CookieName: "hms_token",
		TTL:        24 * time.Hour,
	}
}

func newTestServer(repo *mockRepo) *echo.Echo {
	tokens := testTokens()
	e := echo.New()
	e.HTTPErrorHandler = httperr.Handler(zerolog.Nop())
	e.Use(auth.Middleware(tokens))

	h := NewHandler(newTestService(repo))
	h.RegisterRoutes(e.Group("/api/v1"))
	return e
}

func sessionFor(t *testing.T, p *auth.Principal) *http.Cookie {
	t.Helper()
	tokens := testTokens()
	token, err := tokens.Issue(p.ID, p.Role, p.Email)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tokens.Cookie(token)
}

func doJSON(e *echo.Echo, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateEndpoint_StaffOnly(t *testing.T) {
	repo := newMockRepo()
	e := newTestServer(repo)
	patientID := repo.addPatient("Jane", "jane@x.test")
	payload := `{"patient":"` + patientID.String() + `","diagnosis":"Flu","symptoms":["fever"]}`

	rec := doJSON(e, http.MethodPost, "/api/v1/medical-records", payload, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", rec.Code)
	}

	patient := &auth.Principal{ID: uuid.New(), Role: auth.RolePatient, Email: "p@x.test"}
	rec = doJSON(e, http.MethodPost, "/api/v1/medical-records", payload, sessionFor(t, patient))
	if rec.Code != http.StatusForbidden {
		t.Errorf("patient: expected 403, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/api/v1/medical-records", payload, sessionFor(t, doctorPrincipal()))
	if rec.Code != http.StatusCreated {
		t.Fatalf("doctor: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["diagnosis"] != "Flu" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
	if body["visitDate"] == nil {
		t.Error("visit date must be set")
	}
}

func TestCreateEndpoint_UnknownPatient(t *testing.T) {
	e := newTestServer(newMockRepo())

	payload := `{"patient":"` + uuid.NewString() + `","diagnosis":"Flu"}`
	rec := doJSON(e, http.MethodPost, "/api/v1/medical-records", payload, sessionFor(t, adminPrincipal()))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Patient not found" {
		t.Errorf("unexpected error: %q", body["error"])
	}
}

func TestListEndpoint_PatientFilter(t *testing.T) {
	repo := newMockRepo()
	e := newTestServer(repo)
	doctor := doctorPrincipal()
	jane := repo.addPatient("Jane", "jane@x.test")
	bob := repo.addPatient("Bob", "bob@x.test")

	for _, id := range []uuid.UUID{jane, bob} {
		payload := `{"patient":"` + id.String() + `","diagnosis":"Flu"}`
		if rec := doJSON(e, http.MethodPost, "/api/v1/medical-records", payload, sessionFor(t, doctor)); rec.Code != http.StatusCreated {
			t.Fatalf("seed: %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(e, http.MethodGet, "/api/v1/medical-records?patient="+bob.String(), "", sessionFor(t, doctor))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data       []map[string]interface{} `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Pagination.Total != 1 || len(body.Data) != 1 {
		t.Fatalf("expected only Bob's record: %s", rec.Body.String())
	}
	patient, _ := body.Data[0]["patient"].(map[string]interface{})
	if patient == nil || patient["email"] != "bob@x.test" {
		t.Errorf("unexpected patient: %v", patient)
	}

	jane2 := &auth.Principal{ID: uuid.New(), Role: auth.RolePatient, Email: "jane@x.test"}
	rec = doJSON(e, http.MethodGet, "/api/v1/medical-records", "", sessionFor(t, jane2))
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Pagination.Total != 1 {
		t.Errorf("patient must only see their own records, got %d", body.Pagination.Total)
	}
}
