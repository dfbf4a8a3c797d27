package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4/middleware"
)

// CORSConfig returns the CORS configuration for the landing site origins.
// The API is read-only apart from widget signals, so credentials are never
// shared.
func CORSConfig(origins []string) middleware.CORSConfig {
	return middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Widget-Session",
		},
		ExposeHeaders: []string{
			"X-API-Version",
			"Content-Disposition",
			"X-Widget-Session",
		},
	}
}
