package handlers

import (
	"net/http"
	"testing"

	"github.com/jordanlanch/landing/pkg/models"
	"github.com/jordanlanch/landing/pkg/widgets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshotBody struct {
	ID            string         `json:"id"`
	Kind          string         `json:"kind"`
	InView        bool           `json:"in_view"`
	TabVisible    bool           `json:"tab_visible"`
	Active        bool           `json:"active"`
	PendingTimers int            `json:"pending_timers"`
	State         map[string]any `json:"state"`
}

func TestWidgetHandler_List(t *testing.T) {
	h, sessions := newTestWidgetHandler(t)

	c, rec := newContext(http.MethodGet, "/api/v1/widgets", "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]snapshotBody](t, rec)
	require.Len(t, list, 3)
	assert.Equal(t, widgets.WorkflowID, list[0].ID)
	assert.Equal(t, "linear", list[0].Kind)

	id := rec.Header().Get(widgets.SessionHeader)
	assert.NotEmpty(t, id, "a request without a session opens one")
	assert.Contains(t, rec.Header().Get("Set-Cookie"), widgets.SessionCookie+"="+id)
	assert.Equal(t, 1, sessions.Len())

	c, rec = newContext(http.MethodGet, "/api/v1/widgets", "")
	require.NoError(t, h.List(inSession(c, id)))
	assert.Equal(t, id, rec.Header().Get(widgets.SessionHeader))
	assert.Equal(t, 1, sessions.Len(), "a known id reuses its session")
}

func TestWidgetHandler_Get(t *testing.T) {
	h, _ := newTestWidgetHandler(t)

	c, rec := newContext(http.MethodGet, "/api/v1/widgets/notifications", "", "id", widgets.NotificationsID)
	require.NoError(t, h.Get(inSession(c, "viewer-a")))
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[snapshotBody](t, rec)
	assert.Equal(t, float64(-1), snap.State["index"])

	c, rec = newContext(http.MethodGet, "/api/v1/widgets/nope", "", "id", "nope")
	require.NoError(t, h.Get(inSession(c, "viewer-a")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[models.ErrorResponse](t, rec).Error)
}

func TestWidgetHandler_SetVisibility(t *testing.T) {
	h, sessions := newTestWidgetHandler(t)

	c, rec := newContext(http.MethodPut, "/api/v1/widgets/workflow/visibility", `{"in_view":true}`, "id", widgets.WorkflowID)
	require.NoError(t, h.SetVisibility(inSession(c, "viewer-a")))
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decode[snapshotBody](t, rec)
	assert.True(t, snap.Active)
	assert.True(t, snap.InView)
	assert.Equal(t, 1, snap.PendingTimers)
	assert.Equal(t, "step", snap.State["phase"])

	c, rec = newContext(http.MethodPut, "/api/v1/widgets/workflow/visibility", `{"tab_visible":false}`, "id", widgets.WorkflowID)
	require.NoError(t, h.SetVisibility(inSession(c, "viewer-a")))
	snap = decode[snapshotBody](t, rec)
	assert.False(t, snap.Active)
	assert.Equal(t, 0, snap.PendingTimers)
	assert.Equal(t, float64(-1), snap.State["current"])
	assert.Equal(t, 0, sessions.PendingTimers())
}

func TestWidgetHandler_SessionsAreIsolated(t *testing.T) {
	h, sessions := newTestWidgetHandler(t)

	get := func(session, id string) (int, snapshotBody) {
		c, rec := newContext(http.MethodGet, "/x", "", "id", id)
		require.NoError(t, h.Get(inSession(c, session)))
		if rec.Code != http.StatusOK {
			return rec.Code, snapshotBody{}
		}
		return rec.Code, decode[snapshotBody](t, rec)
	}

	c, rec := newContext(http.MethodPut, "/x", `{"in_view":true}`, "id", widgets.WorkflowID)
	require.NoError(t, h.SetVisibility(inSession(c, "viewer-a")))
	require.Equal(t, http.StatusOK, rec.Code)

	// Viewer B hides its tab and unmounts its own workflow widget.
	c, rec = newContext(http.MethodPut, "/x", `{"tab_visible":false}`, "id", widgets.WorkflowID)
	require.NoError(t, h.SetVisibility(inSession(c, "viewer-b")))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(http.MethodDelete, "/x", "", "id", widgets.WorkflowID)
	require.NoError(t, h.Dispose(inSession(c, "viewer-b")))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	code, snap := get("viewer-a", widgets.WorkflowID)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, snap.Active, "viewer A keeps animating")
	assert.True(t, snap.TabVisible)
	assert.Equal(t, 1, snap.PendingTimers)

	code, _ = get("viewer-b", widgets.WorkflowID)
	assert.Equal(t, http.StatusNotFound, code)

	// Ending B's session lets the same id start over with every widget.
	c, rec = newContext(http.MethodDelete, "/x", "")
	require.NoError(t, h.EndSession(inSession(c, "viewer-b")))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	code, snap = get("viewer-b", widgets.WorkflowID)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, snap.Active)
	assert.Equal(t, 2, sessions.Len())
	assert.Equal(t, 1, sessions.PendingTimers())
}

func TestWidgetHandler_SessionFromCookie(t *testing.T) {
	h, sessions := newTestWidgetHandler(t)

	c, _ := newContext(http.MethodPut, "/x", `{"in_view":true}`, "id", widgets.WorkflowID)
	c.Request().AddCookie(&http.Cookie{Name: widgets.SessionCookie, Value: "cookie-viewer"})
	require.NoError(t, h.SetVisibility(c))

	c, rec := newContext(http.MethodGet, "/x", "", "id", widgets.WorkflowID)
	require.NoError(t, h.Get(inSession(c, "cookie-viewer")))
	assert.True(t, decode[snapshotBody](t, rec).Active)
	assert.Equal(t, 1, sessions.Len())
}

func TestWidgetHandler_InvalidSession(t *testing.T) {
	h, sessions := newTestWidgetHandler(t)

	c, rec := newContext(http.MethodGet, "/x", "")
	require.NoError(t, h.List(inSession(c, "no spaces allowed")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, sessions.Len())

	c, rec = newContext(http.MethodDelete, "/x", "")
	require.NoError(t, h.EndSession(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodDelete, "/x", "")
	require.NoError(t, h.EndSession(inSession(c, "never-opened")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWidgetHandler_SessionLimit(t *testing.T) {
	h, _ := newTestWidgetHandlerWithLimit(t, 1)

	c, rec := newContext(http.MethodGet, "/x", "")
	require.NoError(t, h.List(inSession(c, "viewer-a")))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(http.MethodGet, "/x", "")
	require.NoError(t, h.List(inSession(c, "viewer-b")))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decode[models.ErrorResponse](t, rec).Error)
}

func TestWidgetHandler_SetVisibilityInvalid(t *testing.T) {
	h, _ := newTestWidgetHandler(t)

	c, rec := newContext(http.MethodPut, "/x", `{}`, "id", widgets.WorkflowID)
	require.NoError(t, h.SetVisibility(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodPut, "/x", `{"in_view":"yes"}`, "id", widgets.WorkflowID)
	require.NoError(t, h.SetVisibility(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodPut, "/x", `{"in_view":true}`, "id", "nope")
	require.NoError(t, h.SetVisibility(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWidgetHandler_Measure(t *testing.T) {
	h, _ := newTestWidgetHandler(t)

	c, _ := newContext(http.MethodPut, "/x", `{"in_view":true}`, "id", widgets.InsightsID)
	require.NoError(t, h.SetVisibility(inSession(c, "viewer-a")))

	c, rec := newContext(http.MethodPut, "/x", `{"content_height":900,"viewport_height":300}`, "id", widgets.InsightsID)
	require.NoError(t, h.Measure(inSession(c, "viewer-a")))
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[snapshotBody](t, rec)
	panel := snap.State["panel"].(map[string]any)
	assert.Equal(t, 600.0, panel["target"])

	c, rec = newContext(http.MethodPut, "/x", `{"content_height":-5,"viewport_height":300}`, "id", widgets.InsightsID)
	require.NoError(t, h.Measure(inSession(c, "viewer-a")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodPut, "/x", `{"content_height":900,"viewport_height":300}`, "id", widgets.WorkflowID)
	require.NoError(t, h.Measure(inSession(c, "viewer-a")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decode[models.ErrorResponse](t, rec).Error)
}

func TestWidgetHandler_Dispose(t *testing.T) {
	h, _ := newTestWidgetHandler(t)

	c, rec := newContext(http.MethodDelete, "/x", "", "id", widgets.NotificationsID)
	require.NoError(t, h.Dispose(inSession(c, "viewer-a")))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newContext(http.MethodGet, "/x", "")
	require.NoError(t, h.List(inSession(c, "viewer-a")))
	assert.Len(t, decode[[]snapshotBody](t, rec), 2)

	c, rec = newContext(http.MethodDelete, "/x", "", "id", widgets.NotificationsID)
	require.NoError(t, h.Dispose(inSession(c, "viewer-a")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
