package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// authRequestsTotal counts token checks by mode (optional, required, path)
	// and result (success, anonymous, missing, invalid).
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total token checks by mode and result",
		},
		[]string{"mode", "result"},
	)

	authDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Token verification duration by mode",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
		[]string{"mode"},
	)
)

func recordAuth(mode, result string, start time.Time) {
	authRequestsTotal.WithLabelValues(mode, result).Inc()
	authDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}

// RecordPathToken records a check of a token passed in the URL path.
func RecordPathToken(result string, start time.Time) {
	recordAuth("path", result, start)
}
