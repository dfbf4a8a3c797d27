package middleware

import (
	"github.com/labstack/echo/v4"
)

// APIVersion describes the API version advertised in response headers.
type APIVersion struct {
	Version           string
	LatestVersion     string
	DeprecationDate   string // empty if not deprecated
	SunsetDate        string
	DeprecationNotice string
}

// CurrentAPIVersion is the version served under /api/v1.
var CurrentAPIVersion = APIVersion{
	Version:       "1.0.0",
	LatestVersion: "1.0.0",
}

// Deprecated reports whether a deprecation date is set.
func (v APIVersion) Deprecated() bool {
	return v.DeprecationDate != ""
}

// APIVersionMiddleware adds API version headers to all responses
func APIVersionMiddleware(version APIVersion) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version.Version)
			h.Set("X-API-Latest-Version", version.LatestVersion)

			if version.Deprecated() {
				h.Set("Deprecation", "true")
				h.Set("X-API-Deprecation-Date", version.DeprecationDate)
				if version.SunsetDate != "" {
					h.Set("Sunset", version.SunsetDate)
				}
				if version.DeprecationNotice != "" {
					h.Set("X-API-Deprecation-Notice", version.DeprecationNotice)
				}
			}

			return next(c)
		}
	}
}

// VersionInfo returns version information for API responses
func VersionInfo(version APIVersion) map[string]interface{} {
	info := map[string]interface{}{
		"version":        version.Version,
		"latest_version": version.LatestVersion,
	}

	if version.Deprecated() {
		info["deprecated"] = true
		info["deprecation_date"] = version.DeprecationDate
		if version.SunsetDate != "" {
			info["sunset_date"] = version.SunsetDate
		}
		if version.DeprecationNotice != "" {
			info["deprecation_notice"] = version.DeprecationNotice
		}
	}

	return info
}
