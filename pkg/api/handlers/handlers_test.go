package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/jordanlanch/landing/pkg/pricing"
	"github.com/jordanlanch/landing/pkg/widgets"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// newContext builds an Echo context for method and target with an optional
// JSON body and path parameter values.
func newContext(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	return c, rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func newTestPricingHandler(recorder SheetRecorder) *PricingHandler {
	return NewPricingHandler(pricing.NewService(pricing.NewDefaultEngine()), recorder)
}

func newTestWidgetHandler(t *testing.T) (*WidgetHandler, *widgets.Sessions) {
	t.Helper()
	return newTestWidgetHandlerWithLimit(t, widgets.DefaultMaxSessions)
}

func newTestWidgetHandlerWithLimit(t *testing.T, maxSessions int) (*WidgetHandler, *widgets.Sessions) {
	t.Helper()
	cfg := widgets.DefaultConfig()
	cfg.Clock = clockwork.NewFakeClock()
	sessions, err := widgets.NewSessions(cfg, widgets.DefaultSessionTTL, maxSessions)
	require.NoError(t, err)
	t.Cleanup(sessions.Close)
	return NewWidgetHandler(sessions), sessions
}

// inSession tags the request with a widget session id.
func inSession(c echo.Context, id string) echo.Context {
	c.Request().Header.Set(widgets.SessionHeader, id)
	return c
}
