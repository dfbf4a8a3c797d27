package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort        string
	APIHost        string
	APIEnvironment string

	// Redis (empty URL disables the quote memo)
	RedisURL      string
	QuoteCacheTTL time.Duration

	// Jobs
	CacheWarmSchedule string

	// Pricing
	PricingMaxTeamCount int

	// Widgets
	WorkflowStepDwell       time.Duration
	WorkflowConnectorTick   time.Duration
	WorkflowCompletionDelay time.Duration
	WorkflowCompletionHold  time.Duration
	NotificationInterval    time.Duration
	InsightInterval         time.Duration
	WidgetFadeDuration      time.Duration
	InsightScrollDuration   time.Duration
	WidgetSessionTTL        time.Duration
	WidgetMaxSessions       int

	// CORS
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Sentry
	SentryDSN         string
	SentryEnvironment string

	// Logging
	LogLevel  string
	LogFormat string

	// Features
	FeatureWidgetsAPI bool
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// API
		APIPort:        getEnv("API_PORT", "7890"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", ""),
		QuoteCacheTTL: getEnvAsDuration("QUOTE_CACHE_TTL", 24*time.Hour),

		// Jobs
		CacheWarmSchedule: getEnv("CACHE_WARM_SCHEDULE", "0 3 * * *"),

		// Pricing
		PricingMaxTeamCount: getEnvAsInt("PRICING_MAX_TEAM_COUNT", 50),

		// Widgets
		WorkflowStepDwell:       getEnvAsDuration("WORKFLOW_STEP_DWELL", 2*time.Second),
		WorkflowConnectorTick:   getEnvAsDuration("WORKFLOW_CONNECTOR_TICK", 20*time.Millisecond),
		WorkflowCompletionDelay: getEnvAsDuration("WORKFLOW_COMPLETION_DELAY", time.Second),
		WorkflowCompletionHold:  getEnvAsDuration("WORKFLOW_COMPLETION_HOLD", 3*time.Second),
		NotificationInterval:    getEnvAsDuration("NOTIFICATION_INTERVAL", 4*time.Second),
		InsightInterval:         getEnvAsDuration("INSIGHT_INTERVAL", 3*time.Second),
		WidgetFadeDuration:      getEnvAsDuration("WIDGET_FADE_DURATION", 300*time.Millisecond),
		InsightScrollDuration:   getEnvAsDuration("INSIGHT_SCROLL_DURATION", 600*time.Millisecond),
		WidgetSessionTTL:        getEnvAsDuration("WIDGET_SESSION_TTL", 15*time.Minute),
		WidgetMaxSessions:       getEnvAsInt("WIDGET_MAX_SESSIONS", 1000),

		// CORS
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"https://landing.dev",
			"https://www.landing.dev",
		}),

		// Rate Limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 120),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 20),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "development"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Features
		FeatureWidgetsAPI: getEnvAsBool("FEATURE_WIDGETS_API", true),
	}
}

// Validate rejects configurations the services cannot run with.
func (c *Config) Validate() error {
	if c.PricingMaxTeamCount < 1 {
		return fmt.Errorf("PRICING_MAX_TEAM_COUNT must be at least 1, got %d", c.PricingMaxTeamCount)
	}
	if c.WidgetFadeDuration >= c.NotificationInterval || c.WidgetFadeDuration >= c.InsightInterval {
		return fmt.Errorf("WIDGET_FADE_DURATION (%s) must be shorter than the ring intervals", c.WidgetFadeDuration)
	}
	for name, d := range map[string]time.Duration{
		"WORKFLOW_STEP_DWELL":     c.WorkflowStepDwell,
		"WORKFLOW_CONNECTOR_TICK": c.WorkflowConnectorTick,
		"INSIGHT_SCROLL_DURATION": c.InsightScrollDuration,
		"WIDGET_SESSION_TTL":      c.WidgetSessionTTL,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.WidgetMaxSessions < 1 {
		return fmt.Errorf("WIDGET_MAX_SESSIONS must be at least 1")
	}
	if c.RateLimitRequestsPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS_PER_MINUTE must be at least 1")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
