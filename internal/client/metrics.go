package client

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remoteRequestsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "studyhub",
		Subsystem: "remote",
		Name:      "request_duration_seconds",
		Help:      "The latency of backend calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	remoteRequestsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studyhub",
		Subsystem: "remote",
		Name:      "requests_total",
		Help:      "Number of backend calls.",
	}, []string{"method", "code"})
)

// metricsTransport observes every backend round trip.
type metricsTransport struct {
	next http.RoundTripper
}

func (m *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	res, err := m.next.RoundTrip(req)

	remoteRequestsDuration.With(prometheus.Labels{"method": req.Method}).
		Observe(time.Since(start).Seconds())

	code := "error"
	if err == nil {
		code = strconv.Itoa(res.StatusCode)
	}

	remoteRequestsCount.With(prometheus.Labels{"method": req.Method, "code": code}).Inc()

	return res, err
}
