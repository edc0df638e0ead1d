package pagination

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts paginated list requests.
	// Labels: endpoint, status (HTTP status code), page_range (1-10, 11-50, ...)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topicfeed_pagination_requests_total",
			Help: "Total number of pagination requests",
		},
		[]string{"endpoint", "status", "page_range"},
	)

	// ErrorsTotal counts pagination errors by type (validation, database, timeout).
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topicfeed_pagination_errors_total",
			Help: "Total number of pagination errors",
		},
		[]string{"type"},
	)
)

// RecordRequest records one paginated request.
func RecordRequest(endpoint string, statusCode int, page int) {
	RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode), pageRangeBucket(page)).Inc()
}

// RecordError records an error of the given type.
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

func pageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
