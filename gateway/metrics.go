package gateway

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcomes recorded by Metrics.
const (
	refreshSuccess     = "success"
	refreshFailure     = "failure"
	refreshNoToken     = "no_refresh_token"
	statusTransportErr = "error"
)

// Metrics holds the gateway's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics registers the gateway collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studysphere",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "HTTP requests issued by the gateway, including retries",
		}, []string{"method", "status"}),

		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studysphere",
			Subsystem: "gateway",
			Name:      "refresh_total",
			Help:      "Access token refresh attempts by outcome",
		}, []string{"outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "studysphere",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Duration of single HTTP attempts",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

func (m *Metrics) observeRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := statusTransportErr
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, label).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRefresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}
