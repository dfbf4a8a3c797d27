package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jordanlanch/landing/pkg/api/errors"
	"github.com/jordanlanch/landing/pkg/domain"
	"github.com/jordanlanch/landing/pkg/models"
	"github.com/jordanlanch/landing/pkg/widgets"
	"github.com/labstack/echo/v4"
)

const sessionCookiePath = "/api/v1/widgets"

// WidgetHandler exposes the live widget sequencers. Every caller drives the
// widgets of its own session.
type WidgetHandler struct {
	sessions  *widgets.Sessions
	validator *validator.Validate
}

// NewWidgetHandler creates a new widget handler
func NewWidgetHandler(sessions *widgets.Sessions) *WidgetHandler {
	return &WidgetHandler{
		sessions:  sessions,
		validator: validator.New(),
	}
}

func sessionID(c echo.Context) string {
	if id := c.Request().Header.Get(widgets.SessionHeader); id != "" {
		return id
	}
	if cookie, err := c.Cookie(widgets.SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// registry resolves the caller's session, opening one when the request
// carries no id, and echoes the id back in the header and cookie.
func (h *WidgetHandler) registry(c echo.Context) (*widgets.Registry, error) {
	id, reg, err := h.sessions.Open(sessionID(c))
	if err != nil {
		return nil, err
	}

	c.Response().Header().Set(widgets.SessionHeader, id)
	c.SetCookie(&http.Cookie{
		Name:     widgets.SessionCookie,
		Value:    id,
		Path:     sessionCookiePath,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return reg, nil
}

func (h *WidgetHandler) respond(c echo.Context, snap widgets.Snapshot, err error) error {
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *WidgetHandler) fail(c echo.Context, err error) error {
	if domain.IsNotFound(err) {
		return errors.NotFoundError(c, "widget")
	}
	return errors.FromDomain(c, err)
}

// List returns every widget mounted in the caller's session
// @Summary List widgets
// @Tags Widgets
// @Produce json
// @Param X-Widget-Session header string false "Widget session id"
// @Success 200 {array} widgets.Snapshot
// @Router /widgets [get]
func (h *WidgetHandler) List(c echo.Context) error {
	reg, err := h.registry(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, reg.List())
}

// Get returns one widget
func (h *WidgetHandler) Get(c echo.Context) error {
	reg, err := h.registry(c)
	if err != nil {
		return h.fail(c, err)
	}
	snap, err := reg.Get(c.Param("id"))
	return h.respond(c, snap, err)
}

// SetVisibility updates the viewport and tab visibility of a widget
// @Summary Report widget visibility
// @Tags Widgets
// @Accept json
// @Produce json
// @Param id path string true "Widget ID"
// @Param X-Widget-Session header string false "Widget session id"
// @Param request body models.VisibilityRequest true "Visibility signals"
// @Success 200 {object} widgets.Snapshot
// @Failure 404 {object} models.ErrorResponse "Unknown widget"
// @Router /widgets/{id}/visibility [put]
func (h *WidgetHandler) SetVisibility(c echo.Context) error {
	var req models.VisibilityRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}
	if req.InView == nil && req.TabVisible == nil {
		return errors.BadRequestError(c, "in_view or tab_visible is required")
	}

	reg, err := h.registry(c)
	if err != nil {
		return h.fail(c, err)
	}
	snap, err := reg.SetVisibility(c.Param("id"), req.InView, req.TabVisible)
	return h.respond(c, snap, err)
}

// Measure reports the insights panel size
func (h *WidgetHandler) Measure(c echo.Context) error {
	var req models.MeasureRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	reg, err := h.registry(c)
	if err != nil {
		return h.fail(c, err)
	}
	snap, err := reg.Measure(c.Param("id"), req.ContentHeight, req.ViewportHeight)
	return h.respond(c, snap, err)
}

// Dispose unmounts a widget from the caller's session
func (h *WidgetHandler) Dispose(c echo.Context) error {
	reg, err := h.registry(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := reg.Dispose(c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// EndSession closes the caller's session. The next request starts a new one
// with every widget mounted again.
// @Summary End the widget session
// @Tags Widgets
// @Param X-Widget-Session header string true "Widget session id"
// @Success 204
// @Failure 404 {object} models.ErrorResponse "Unknown session"
// @Router /widgets [delete]
func (h *WidgetHandler) EndSession(c echo.Context) error {
	id := sessionID(c)
	if id == "" {
		return errors.BadRequestError(c, widgets.SessionHeader+" is required")
	}
	if !h.sessions.End(id) {
		return errors.NotFoundError(c, "widget session")
	}

	c.SetCookie(&http.Cookie{
		Name:   widgets.SessionCookie,
		Path:   sessionCookiePath,
		MaxAge: -1,
	})
	return c.NoContent(http.StatusNoContent)
}
