package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Pricing metrics
	QuotesTotal       *prometheus.CounterVec
	ContactSalesTotal prometheus.Counter
	SheetsExported    *prometheus.CounterVec

	// Widget metrics
	WidgetTransitions *prometheus.CounterVec
	WidgetActive      *prometheus.GaugeVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// New creates a new Metrics instance registered on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers every metric on reg. Tests pass a fresh
// prometheus.NewRegistry() so instances do not collide.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000, 500000},
			},
			[]string{"method", "path"},
		),

		// Pricing metrics
		QuotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricing_quotes_total",
				Help: "Total number of price quotes computed",
			},
			[]string{"plan", "billing_cycle"},
		),
		ContactSalesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricing_contact_sales_total",
			Help: "Quotes above the self-serve team size, routed to sales",
		}),
		SheetsExported: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricing_sheets_exported_total",
				Help: "Price sheets exported",
			},
			[]string{"format"}, // csv, xlsx
		),

		// Widget metrics
		WidgetTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "widget_transitions_total",
				Help: "Phase transitions of live widgets",
			},
			[]string{"widget"},
		),
		WidgetActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "widget_active",
				Help: "Number of widget instances visible and animating across sessions",
			},
			[]string{"widget"},
		),

		// Cache metrics
		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache_type"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache_type"},
		),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := c.Path() // route pattern, e.g. /api/v1/widgets/:id

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			duration := time.Since(start).Seconds()

			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, status).Observe(duration)
			m.HTTPResponseSize.WithLabelValues(req.Method, path).Observe(float64(c.Response().Size))

			return err
		}
	}
}

// RecordQuote increments the quote counter for a plan and cycle
func (m *Metrics) RecordQuote(plan, billingCycle string) {
	m.QuotesTotal.WithLabelValues(plan, billingCycle).Inc()
}

// RecordContactSales increments the contact-sales counter
func (m *Metrics) RecordContactSales() {
	m.ContactSalesTotal.Inc()
}

// RecordSheetExported increments exported price sheets by format
func (m *Metrics) RecordSheetExported(format string) {
	m.SheetsExported.WithLabelValues(format).Inc()
}

// RecordWidgetTransition counts a phase change of a widget
func (m *Metrics) RecordWidgetTransition(widget string) {
	m.WidgetTransitions.WithLabelValues(widget).Inc()
}

// SetWidgetActive counts a widget instance in or out of the active gauge
func (m *Metrics) SetWidgetActive(widget string, active bool) {
	if active {
		m.WidgetActive.WithLabelValues(widget).Inc()
		return
	}
	m.WidgetActive.WithLabelValues(widget).Dec()
}

// RecordCacheHit increments cache hits counter
func (m *Metrics) RecordCacheHit(cacheType string) {
	m.CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss increments cache misses counter
func (m *Metrics) RecordCacheMiss(cacheType string) {
	m.CacheMisses.WithLabelValues(cacheType).Inc()
}
