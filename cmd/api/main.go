package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jordanlanch/landing/config"
	"github.com/jordanlanch/landing/pkg/api"
	"github.com/jordanlanch/landing/pkg/cache"
	"github.com/jordanlanch/landing/pkg/jobs"
	"github.com/jordanlanch/landing/pkg/logger"
	"github.com/jordanlanch/landing/pkg/metrics"
	custommiddleware "github.com/jordanlanch/landing/pkg/middleware"
	"github.com/jordanlanch/landing/pkg/pricing"
	"github.com/jordanlanch/landing/pkg/widgets"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.APIEnvironment)

	appLogger := logger.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			Release:          "landing@" + api.Version,
			TracesSampleRate: 0.2,
			AttachStacktrace: true,
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	// Initialize Prometheus metrics
	prometheusMetrics := metrics.New()
	log.Printf("✅ Prometheus metrics initialized")

	// Pricing engine and quote service
	engine, err := pricing.NewEngine(pricing.DefaultCatalog(), cfg.PricingMaxTeamCount)
	if err != nil {
		log.Fatalf("❌ Invalid pricing catalog: %v", err)
	}

	serviceOpts := []pricing.Option{
		pricing.WithRecorder(prometheusMetrics),
		pricing.WithLogger(appLogger.With("component", "pricing")),
	}

	// Redis quote memo (optional)
	var redisClient *cache.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewClient(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, quotes will not be memoized: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			serviceOpts = append(serviceOpts, pricing.WithCache(redisClient, cfg.QuoteCacheTTL))
		}
	} else {
		log.Printf("ℹ️  Quote cache disabled (no REDIS_URL configured)")
	}

	pricingService := pricing.NewService(engine, serviceOpts...)

	// Cron jobs
	var cronManager *jobs.CronManager
	if redisClient != nil {
		cronManager = jobs.NewCronManager(pricingService, cfg.CacheWarmSchedule, nil)
		if err := cronManager.SetupJobs(); err != nil {
			log.Fatalf("❌ Failed to set up cron jobs: %v", err)
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			cronManager.WarmQuotes(ctx)
		}()
		cronManager.Start()
		log.Printf("✅ Cron jobs started successfully")
	}

	// Widget sequencers, one set per visitor session
	widgetSessions, err := widgets.NewSessions(
		widgets.ConfigFrom(cfg),
		cfg.WidgetSessionTTL,
		cfg.WidgetMaxSessions,
		widgets.WithRecorder(prometheusMetrics),
		widgets.WithLogger(appLogger.With("component", "widgets")),
	)
	if err != nil {
		log.Fatalf("❌ Invalid widget configuration: %v", err)
	}

	rateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Close()

	deps := api.Deps{
		Config:      cfg,
		Pricing:     pricingService,
		Widgets:     widgetSessions,
		Metrics:     prometheusMetrics,
		RateLimiter: rateLimiter,
	}
	if redisClient != nil {
		deps.Cache = redisClient
	}
	e := api.NewServer(deps)

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("🚀 Landing API starting on %s", address)
	log.Printf("📝 Log level: %s, Log format: %s", cfg.LogLevel, cfg.LogFormat)
	log.Printf("🌍 CORS: %s", strings.Join(cfg.CORSAllowedOrigins, ", "))
	log.Printf("🛡️  Rate limiting: %d req/min (burst: %d)", cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	log.Printf("💲 Pricing: automatic quotes up to %d seats", cfg.PricingMaxTeamCount)
	log.Printf("🎞️  Widgets: up to %d sessions, idle after %s", cfg.WidgetMaxSessions, cfg.WidgetSessionTTL)

	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	if cronManager != nil {
		cronManager.Stop()
		log.Println("✅ Cron jobs stopped")
	}

	widgetSessions.Close()
	log.Println("✅ Widget sessions closed")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
		return
	}

	log.Println("✅ Server gracefully stopped")
}
