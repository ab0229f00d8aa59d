package validate

import (
	"strings"
	"testing"
)

func TestRequired_AllPresent(t *testing.T) {
	body := map[string]interface{}{"name": "John", "email": "j@x.co", "age": float64(30)}
	if err := Required(body, []string{"name", "email", "age"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRequired_MissingAndBlank(t *testing.T) {
	body := map[string]interface{}{"name": "John", "email": ""}
	err := Required(body, []string{"name", "email", "password"})
	if err == nil {
		t.Fatal("expected error for missing fields")
	}
	if !strings.Contains(err.Error(), "email") {
		t.Errorf("error should name email: %v", err)
	}
	if !strings.Contains(err.Error(), "password") {
		t.Errorf("error should name password: %v", err)
	}
	if strings.Contains(err.Error(), "name") {
		t.Errorf("error should not name present field: %v", err)
	}
}

func TestRequired_BlankAfterTrim(t *testing.T) {
	body := map[string]interface{}{"reason": "   "}
	if err := Required(body, []string{"reason"}); err == nil {
		t.Error("expected whitespace-only value to count as missing")
	}
}

func TestRequired_OrderPreserved(t *testing.T) {
	err := Required(map[string]interface{}{}, []string{"b", "a", "c"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Missing required fields: b, a, c" {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name@example.com", "x+y@sub.domain.org"}
	for _, e := range valid {
		if err := Email(e); err != nil {
			t.Errorf("%s: unexpected error: %v", e, err)
		}
	}

	invalid := []string{"", "invalid-email", "no@dot", "two@@at.com", "space in@addr.com", "@missing.local"}
	for _, e := range invalid {
		if err := Email(e); err == nil {
			t.Errorf("%s: expected error", e)
		}
	}
}

func TestPassword(t *testing.T) {
	if err := Password("pass", 6); err == nil {
		t.Error("expected error for short password")
	} else if !strings.Contains(err.Error(), "at least 6 characters") {
		t.Errorf("unexpected message: %v", err)
	}

	if err := Password("password123", 6); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRole(t *testing.T) {
	allowed := []string{"doctor", "pharmacist", "lab_technician"}
	if err := Role("doctor", allowed); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := Role("patient", allowed)
	if err == nil {
		t.Fatal("expected error for disallowed role")
	}
	if !strings.Contains(err.Error(), "doctor, pharmacist, lab_technician") {
		t.Errorf("error should list allowed roles: %v", err)
	}
}

func TestDate(t *testing.T) {
	for _, v := range []string{"2025-03-01", "2025-03-01T10:30:00Z", "2025-03-01T10:30:00"} {
		d, err := Date(v)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", v, err)
		}
		if d.Year() != 2025 || d.Month() != 3 {
			t.Errorf("%s: wrong parse result %v", v, d)
		}
	}

	for _, v := range []string{"", "not-a-date", "2025-13-45"} {
		if _, err := Date(v); err == nil {
			t.Errorf("%s: expected error", v)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("  hello  "); got != "hello" {
		t.Errorf("expected trimmed string, got %q", got)
	}
	if got := Sanitize(nil); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}
	if got := Sanitize(42); got != "" {
		t.Errorf("expected empty string for non-string, got %q", got)
	}
}

func TestSanitizeList(t *testing.T) {
	got := SanitizeList([]string{" a ", "", "  ", "b"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected result: %v", got)
	}
}
