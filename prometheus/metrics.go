package prometheus

import (
	"strconv"
	"time"

	"booking-service/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts all HTTP requests with labels
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	// EntityOperationCounter counts create/update/delete operations by table
	EntityOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_operations_total",
			Help: "Total number of entity mutations by table and operation",
		},
		[]string{"table", "operation"},
	)

	// AuditLogFailureCounter counts swallowed audit-log write failures
	AuditLogFailureCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_log_failures_total",
			Help: "Total number of audit log writes that failed and were swallowed",
		},
	)

	// ApprovalSubmissionCounter counts send-for-approval attempts by entity and outcome
	ApprovalSubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approval_submissions_total",
			Help: "Total number of send-for-approval submissions",
		},
		[]string{"entity", "outcome"}, // outcome is "accepted" or "incomplete"
	)

	// LoginCounter counts login attempts by audience
	LoginCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_total",
			Help: "Total number of login attempts",
		},
		[]string{"audience"},
	)

	// AuthErrorCounter counts authentication errors by type
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"},
	)
)

var serviceName string

// InitMetrics registers all metrics with the default registry
func InitMetrics(cfg *config.Config) {
	serviceName = cfg.Metrics.Prefix

	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDurationHistogram)
	prometheus.MustRegister(EntityOperationCounter)
	prometheus.MustRegister(AuditLogFailureCounter)
	prometheus.MustRegister(ApprovalSubmissionCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(AuthErrorCounter)
}

// RecordEntityOperation increments the entity mutation counter
func RecordEntityOperation(table, operation string) {
	EntityOperationCounter.WithLabelValues(table, operation).Inc()
}

// RecordAuthError increments the auth error counter
func RecordAuthError(errType string) {
	AuthErrorCounter.WithLabelValues(errType).Inc()
}

// MetricsMiddleware creates an Echo middleware function that records HTTP request metrics
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			RequestCounter.WithLabelValues(serviceName, method, path, statusStr).Inc()

			duration := time.Since(start).Seconds()
			RequestDurationHistogram.WithLabelValues(serviceName, method, path, statusStr).Observe(duration)

			return err
		}
	}
}

// Handler returns the HTTP handler exposing Prometheus metrics
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
