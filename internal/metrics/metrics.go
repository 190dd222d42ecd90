package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "barber_booking"

// Metrics holds the collectors exposed on /metrics.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	bookingCreated *prometheus.CounterVec
	bookingStatus  *prometheus.CounterVec
	auditDropped   prometheus.Counter
}

// New builds the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Count of HTTP requests by route, method and status.",
			},
			[]string{"route", "method", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and method.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		bookingCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_create_total",
				Help:      "Count of booking attempts by outcome.",
			},
			[]string{"outcome"},
		),
		bookingStatus: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_status_change_total",
				Help:      "Count of booking status changes by target status.",
			},
			[]string{"status"},
		),
		auditDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_events_dropped_total",
				Help:      "Count of audit events dropped because the queue was full.",
			},
		),
	}

	reg.MustRegister(m.requests, m.latency, m.bookingCreated, m.bookingStatus, m.auditDropped)
	return m
}

// Nil receivers are no-ops so callers can run with metrics disabled.

func (m *Metrics) IncBookingCreate(outcome string) {
	if m == nil {
		return
	}
	m.bookingCreated.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncBookingStatus(status string) {
	if m == nil {
		return
	}
	m.bookingStatus.WithLabelValues(status).Inc()
}

func (m *Metrics) IncAuditDropped() {
	if m == nil {
		return
	}
	m.auditDropped.Inc()
}

// Middleware records request count and latency keyed by the matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		m.requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
