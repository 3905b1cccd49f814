package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for BookingOperationsTotal.
const (
	OutcomeSuccess           = "success"
	OutcomeConflict          = "conflict"
	OutcomeInvalidTransition = "invalid_transition"
	OutcomeInvalidRange      = "invalid_range"
	OutcomeNotFound          = "not_found"
	OutcomeLockFailed        = "lock_failed"
	OutcomeError             = "error"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	// HTTP requests (method, path, status_code)
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP latency (method, path)
	HTTPRequestDuration *prometheus.HistogramVec

	// booking lifecycle operations (action: create/confirm/reject/cancel, outcome)
	BookingOperationsTotal *prometheus.CounterVec

	// availability checks (result: available/unavailable/error)
	AvailabilityChecksTotal *prometheus.CounterVec

	// distributed lock timing (operation: acquire/release, status: success/failed)
	DistributedLockDuration *prometheus.HistogramVec

	// confirmation notifications (status: sent/failed/dropped)
	NotificationsTotal *prometheus.CounterVec
}

// New creates Metrics registered with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates Metrics registered with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_operations_total",
				Help: "Total number of booking lifecycle operations",
			},
			[]string{"action", "outcome"},
		),
		AvailabilityChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "availability_checks_total",
				Help: "Total number of availability checks",
			},
			[]string{"result"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_notifications_total",
				Help: "Total number of booking confirmation notifications",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingOperationsTotal,
		m.AvailabilityChecksTotal,
		m.DistributedLockDuration,
		m.NotificationsTotal,
	)

	return m
}

// The recorders below are safe on a nil *Metrics.

// RecordBookingOperation counts one lifecycle operation.
func (m *Metrics) RecordBookingOperation(action, outcome string) {
	if m == nil {
		return
	}
	m.BookingOperationsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordAvailabilityCheck counts one availability check.
func (m *Metrics) RecordAvailabilityCheck(result string) {
	if m == nil {
		return
	}
	m.AvailabilityChecksTotal.WithLabelValues(result).Inc()
}

// ObserveLock records how long a lock operation took.
func (m *Metrics) ObserveLock(operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}

// RecordNotification counts one notification attempt.
func (m *Metrics) RecordNotification(status string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(status).Inc()
}

var defaultMetrics *Metrics

// Init creates the default Metrics instance.
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get returns the default Metrics instance.
func Get() *Metrics {
	return defaultMetrics
}
