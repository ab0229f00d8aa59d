package httperr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	Handler(zerolog.Nop())(err, c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return rec, body
}

func TestHandler_TypedError(t *testing.T) {
	rec, body := render(t, Forbidden(""))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if body["error"] != "Access Denied" {
		t.Errorf("unexpected message: %q", body["error"])
	}
}

func TestHandler_EchoHTTPError(t *testing.T) {
	rec, body := render(t, echo.NewHTTPError(http.StatusNotFound, "Patient not found"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if body["error"] != "Patient not found" {
		t.Errorf("unexpected message: %q", body["error"])
	}
}

func TestHandler_UnexpectedError(t *testing.T) {
	rec, body := render(t, fmt.Errorf("connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if body["error"] != "Server error" {
		t.Errorf("internal details must not leak, got %q", body["error"])
	}
}

func TestHandler_WrappedTypedError(t *testing.T) {
	rec, _ := render(t, fmt.Errorf("handler: %w", Validation("Invalid status")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Unauthenticated(""), http.StatusUnauthorized},
		{Forbidden(""), http.StatusForbidden},
		{Validation("x"), http.StatusBadRequest},
		{NotFound("x"), http.StatusNotFound},
		{Conflict("x"), http.StatusBadRequest},
		{Server(), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if tc.err.Status != tc.status {
			t.Errorf("%s: expected status %d, got %d", tc.err.Message, tc.status, tc.err.Status)
		}
	}
}
