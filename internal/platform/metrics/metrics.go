package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adoption_upstream_requests_total",
			Help: "Total de llamadas a la API REST por método y status",
		},
		[]string{"method", "status"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adoption_upstream_request_duration_seconds",
			Help:    "Duración de llamadas a la API REST",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	SliceOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adoption_slice_operations_total",
			Help: "Operaciones async de slices por resultado (fulfilled/rejected)",
		},
		[]string{"slice", "operation", "outcome"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "adoption_active_sessions",
			Help: "Sesiones de navegador con estado vivo en el BFF",
		},
	)
)

// InstrumentedTransport cuenta y mide cada request saliente.
type InstrumentedTransport struct {
	Next http.RoundTripper
}

func (t InstrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.Next
	if next == nil {
		next = http.DefaultTransport
	}

	start := time.Now()
	resp, err := next.RoundTrip(req)
	UpstreamDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	UpstreamRequests.WithLabelValues(req.Method, status).Inc()

	return resp, err
}
