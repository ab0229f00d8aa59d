package accounts

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
	"github.com/hms/hms/pkg/pagination"
)

type Handler struct {
	svc    *Service
	tokens auth.Config
}

func NewHandler(svc *Service, tokens auth.Config) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

// RegisterRoutes mounts the auth and user management routes. Extra
// middleware, such as a tighter rate limit, applies to login only.
func (h *Handler) RegisterRoutes(api *echo.Group, loginLimits ...echo.MiddlewareFunc) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login, loginLimits...)
	api.POST("/auth/logout", h.Logout)

	authed := api.Group("", auth.RequireRole())
	authed.GET("/auth/me", h.Me)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.GET("/users", h.ListUsers)
	admin.POST("/users", h.CreateUser)
}

func (h *Handler) Register(c echo.Context) error {
	body := map[string]interface{}{}
	if err := c.Bind(&body); err != nil {
		return httperr.Validation("Invalid request body")
	}

	u, err := h.svc.Register(c.Request().Context(), body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    u.Summary(),
	})
}

func (h *Handler) Login(c echo.Context) error {
	body := map[string]interface{}{}
	if err := c.Bind(&body); err != nil {
		return httperr.Validation("Invalid request body")
	}

	u, token, err := h.svc.Login(c.Request().Context(), body)
	if err != nil {
		return err
	}

	c.SetCookie(h.tokens.Cookie(token))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"role":    u.Role,
		"user":    u.Summary(),
	})
}

func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(h.tokens.ExpiredCookie())
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logout successful",
	})
}

func (h *Handler) Me(c echo.Context) error {
	principal := auth.PrincipalFromContext(c.Request().Context())

	u, err := h.svc.Me(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) ListUsers(c echo.Context) error {
	pg := pagination.FromContext(c)

	users, total, err := h.svc.ListStaff(c.Request().Context(), pg.Limit, pg.Skip)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, total, pg.Page, pg.Limit))
}

func (h *Handler) CreateUser(c echo.Context) error {
	body := map[string]interface{}{}
	if err := c.Bind(&body); err != nil {
		return httperr.Validation("Invalid request body")
	}

	u, err := h.svc.CreateStaff(c.Request().Context(), body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    u.Summary(),
	})
}
