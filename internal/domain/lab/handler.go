package lab

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
	"github.com/hms/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	authed := api.Group("", auth.RequireRole())
	authed.GET("/lab-tests", h.List)

	doctors := api.Group("", auth.RequireRole(auth.RoleDoctor))
	doctors.POST("/lab-tests", h.Create)

	technicians := api.Group("", auth.RequireRole(auth.RoleLabTechnician))
	technicians.PUT("/lab-tests/:id", h.UpdateStatus)
}

func (h *Handler) Create(c echo.Context) error {
	body := map[string]interface{}{}
	if err := c.Bind(&body); err != nil {
		return httperr.Validation("Invalid request body")
	}

	principal := auth.PrincipalFromContext(c.Request().Context())
	t, err := h.svc.Create(c.Request().Context(), principal, body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	principal := auth.PrincipalFromContext(c.Request().Context())

	tests, total, err := h.svc.List(c.Request().Context(), principal, pg.Limit, pg.Skip)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(tests, total, pg.Page, pg.Limit))
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	body := map[string]interface{}{}
	if err := c.Bind(&body); err != nil {
		return httperr.Validation("Invalid request body")
	}

	principal := auth.PrincipalFromContext(c.Request().Context())
	t, err := h.svc.UpdateStatus(c.Request().Context(), principal, c.Param("id"), body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}
