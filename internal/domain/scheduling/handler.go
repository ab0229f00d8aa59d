package scheduling

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
	authed.GET("/appointments", h.List)

	staff := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	staff.POST("/appointments", h.Create)
	staff.PUT("/appointments/:id", h.UpdateStatus)
}

func (h *Handler) Create(c echo.Context) error {
	body := map[string]interface{}{}
	if err := c.Bind(&body); err != nil {
		return httperr.Validation("Invalid request body")
	}

	principal := auth.PrincipalFromContext(c.Request().Context())
	a, err := h.svc.Create(c.Request().Context(), principal, body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	principal := auth.PrincipalFromContext(c.Request().Context())

	appointments, total, err := h.svc.List(c.Request().Context(), principal,
		c.QueryParam("status"), pg.Limit, pg.Skip)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(appointments, total, pg.Page, pg.Limit))
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	body := map[string]interface{}{}
	if err := c.Bind(&body); err != nil {
		return httperr.Validation("Invalid request body")
	}

	a, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}
