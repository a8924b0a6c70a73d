package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http_api",
		Name:      "requests_total",
		Help:      "Count of API requests.",
	}, []string{"route", "method", "code"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http_api",
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// HTTPAPI tracks metrics for the query API.
type HTTPAPI struct{}

// NewHTTPAPI creates an HTTPAPI metrics collector.
func NewHTTPAPI() *HTTPAPI {
	return &HTTPAPI{}
}

// ObserveRequest records a served request.
func (m HTTPAPI) ObserveRequest(route, method string, code int, started time.Time) {
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(route, method).Observe(time.Since(started).Seconds())
}
