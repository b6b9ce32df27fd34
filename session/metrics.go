package session

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "browsekit",
			Subsystem: "session",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method and status code",
		},
		[]string{"method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "browsekit",
			Subsystem: "session",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	bytesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "browsekit",
			Subsystem: "session",
			Name:      "response_bytes_total",
			Help:      "Total decoded response bytes received",
		},
	)
)

// observe records one completed exchange. A zero status marks a transport
// level failure.
func observe(method string, status int, d time.Duration, size int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	requestsTotal.WithLabelValues(method, label).Inc()
	if status > 0 {
		requestDuration.WithLabelValues(method).Observe(d.Seconds())
		bytesReceived.Add(float64(size))
	}
}
