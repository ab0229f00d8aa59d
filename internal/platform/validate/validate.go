// Package validate holds the pure input validation predicates shared by all
// resource handlers. Every function is total: it never panics and reports
// failure through the returned error only.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required checks that every named field is present and non-blank after
// trimming. Non-string scalars (numbers, booleans) count as present. The
// error lists all missing fields in the order given.
func Required(body map[string]interface{}, fields []string) error {
	var missing []string
	for _, f := range fields {
		v, ok := body[f]
		if !ok || v == nil {
			missing = append(missing, f)
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Email checks basic email shape: one @, non-empty local part, a dot in the
// domain, no whitespace.
func Email(email string) error {
	if email == "" || !emailRe.MatchString(email) {
		return fmt.Errorf("Invalid email format")
	}
	return nil
}

// Password enforces a minimum length.
func Password(password string, minLength int) error {
	if len(password) < minLength {
		return fmt.Errorf("Password must be at least %d characters", minLength)
	}
	return nil
}

// Role checks membership in the allowed role set.
func Role(role string, allowed []string) error {
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}
	return fmt.Errorf("Invalid role. Must be one of: %s", strings.Join(allowed, ", "))
}

// dateLayouts are tried in order when parsing date inputs.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Date parses a calendar date, accepting RFC3339 timestamps and plain
// YYYY-MM-DD values.
func Date(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("Invalid date format")
}

// Sanitize returns the trimmed string form of v, or an empty string for any
// non-string input.
func Sanitize(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// SanitizeList trims every element and drops the blanks.
func SanitizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
