// Package auth implements cookie-based JWT authentication, role checks and
// the per-role query narrowing policy used by the resource handlers.
package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role names known to the system.
const (
	RoleAdmin         = "admin"
	RoleDoctor        = "doctor"
	RolePatient       = "patient"
	RolePharmacist    = "pharmacist"
	RoleLabTechnician = "lab_technician"
)

// StaffRoles are the roles an administrator may provision through the users
// endpoint.
var StaffRoles = []string{RoleDoctor, RolePharmacist, RoleLabTechnician}

// AllRoles lists every role a stored account may carry.
var AllRoles = []string{RoleAdmin, RoleDoctor, RolePatient, RolePharmacist, RoleLabTechnician}

// Principal is the authenticated identity decoded from a request token.
type Principal struct {
	ID    uuid.UUID
	Role  string
	Email string
}

// Claims is the JWT payload issued at login.
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
}

// Config holds the token signing and cookie settings.
type Config struct {
	Secret     []byte
	CookieName string
	TTL        time.Duration
	// Secure marks issued cookies Secure; enabled in production.
	Secure bool
}

// Issue signs a token for the given account. Token construction lives next
// to verification because the login flow is part of this API.
func (cfg Config) Issue(id uuid.UUID, role, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
		Role:  role,
		Email: email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
}

// Verify checks signature and expiry and returns the embedded principal.
// Absence, malformed tokens, bad signatures and expired tokens all yield nil;
// verification never fails loudly.
func (cfg Config) Verify(tokenStr string) *Principal {
	if tokenStr == "" {
		return nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return cfg.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil
	}

	return &Principal{ID: id, Role: claims.Role, Email: claims.Email}
}

// Cookie wraps a signed token in the http-only session cookie.
func (cfg Config) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ExpiredCookie returns a cookie that clears the session.
func (cfg Config) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
