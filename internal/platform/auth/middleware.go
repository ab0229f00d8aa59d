package auth

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/httperr"
)

type contextKey string

const principalKey contextKey = "principal"

// Middleware extracts the session cookie, verifies it and stores the
// principal on the request context. A missing or invalid token is not an
// error at this layer; route-level RequireRole decides whether the request
// may proceed.
func Middleware(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cfg.CookieName)
			if err != nil {
				return next(c)
			}

			principal := cfg.Verify(cookie.Value)
			if principal == nil {
				return next(c)
			}

			ctx := context.WithValue(c.Request().Context(), principalKey, principal)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// PrincipalFromContext returns the authenticated principal, or nil when the
// request carried no valid token.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

// RequireRole returns middleware enforcing that the request is authenticated
// and, when roles are given, that the principal holds one of them. An empty
// role list admits any authenticated principal.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := PrincipalFromContext(c.Request().Context())
			if principal == nil {
				return httperr.Unauthenticated("")
			}

			if len(roles) == 0 {
				return next(c)
			}
			for _, r := range roles {
				if principal.Role == r {
					return next(c)
				}
			}
			return httperr.Forbidden("")
		}
	}
}
