// Package api assembles the Echo server for the landing site.
package api

import (
	"context"
	"log"
	"net/http"
	"time"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/jordanlanch/landing/config"
	"github.com/jordanlanch/landing/pkg/api/handlers"
	"github.com/jordanlanch/landing/pkg/metrics"
	custommiddleware "github.com/jordanlanch/landing/pkg/middleware"
	"github.com/jordanlanch/landing/pkg/models"
	"github.com/jordanlanch/landing/pkg/pricing"
	"github.com/jordanlanch/landing/pkg/widgets"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version is reported by / and /health.
const Version = "0.1.0"

// Pinger reports cache health. *cache.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the server routes to. Cache and Widgets may be nil.
// Widgets holds one set of sequencers per client session.
type Deps struct {
	Config      *config.Config
	Pricing     *pricing.Service
	Widgets     *widgets.Sessions
	Metrics     *metrics.Metrics
	Cache       Pinger
	RateLimiter *custommiddleware.RateLimiter
}

// NewServer builds the Echo instance with middleware and routes registered.
func NewServer(d Deps) *echo.Echo {
	cfg := d.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[%s] %s - Status: %d", c.Request().Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
	}

	e.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig(cfg.CORSAllowedOrigins)))
	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())
	e.Use(custommiddleware.SecurityHeaders(custommiddleware.SecurityHeadersConfig{}))

	if d.RateLimiter != nil {
		e.Use(d.RateLimiter.RateLimitMiddleware())
	}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"name":        "Landing API",
			"version":     Version,
			"status":      "running",
			"environment": cfg.APIEnvironment,
			"timestamp":   time.Now().Unix(),
		})
	})

	e.GET("/health", func(c echo.Context) error {
		resp := models.HealthResponse{
			Status:   "healthy",
			Version:  Version,
			Services: map[string]string{"cache": "disabled"},
		}

		if d.Cache != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()

			resp.Services["cache"] = "up"
			if err := d.Cache.Ping(ctx); err != nil {
				// Quotes are still computed without the memo.
				resp.Status = "degraded"
				resp.Services["cache"] = "down"
			}
		}

		return c.JSON(http.StatusOK, resp)
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.Use(custommiddleware.APIVersionMiddleware(custommiddleware.CurrentAPIVersion))

	v1.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, custommiddleware.VersionInfo(custommiddleware.CurrentAPIVersion))
	})
	v1.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "pong",
		})
	})

	var sheetRecorder handlers.SheetRecorder
	if d.Metrics != nil {
		sheetRecorder = d.Metrics
	}
	pricingHandler := handlers.NewPricingHandler(d.Pricing, sheetRecorder)

	v1.GET("/plans", pricingHandler.ListPlans)
	pricingGroup := v1.Group("/pricing")
	{
		pricingGroup.GET("/quote", pricingHandler.Quote)
		pricingGroup.POST("/quote", pricingHandler.Quote)
		pricingGroup.GET("/sheet", pricingHandler.Sheet)
	}

	if d.Widgets != nil && cfg.FeatureWidgetsAPI {
		widgetHandler := handlers.NewWidgetHandler(d.Widgets)

		widgetGroup := v1.Group("/widgets")
		{
			widgetGroup.GET("", widgetHandler.List)
			widgetGroup.DELETE("", widgetHandler.EndSession)
			widgetGroup.GET("/:id", widgetHandler.Get)
			widgetGroup.PUT("/:id/visibility", widgetHandler.SetVisibility)
			widgetGroup.PUT("/:id/measure", widgetHandler.Measure)
			widgetGroup.DELETE("/:id", widgetHandler.Dispose)
		}
	}

	return e
}
