package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"topicfeed/internal/pkg/config"
)

// Run outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

// Metrics are the worker's Prometheus collectors.
type Metrics struct {
	Config *config.ConfigMetrics

	RunsTotal          *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	ArticlesIngested   *prometheus.CounterVec
	LastSuccessSeconds prometheus.Gauge
}

// NewMetrics registers the collectors on reg, or on the default registry
// when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Config: config.NewConfigMetrics(reg, "worker"),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_ingest_runs_total",
			Help: "Scheduled ingestion runs by status",
		}, []string{"status"}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_ingest_run_duration_seconds",
			Help:    "Duration of scheduled ingestion runs",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		ArticlesIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_ingest_articles_total",
			Help: "Articles handled by scheduled runs by outcome",
		}, []string{"outcome"}),

		LastSuccessSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_ingest_last_success_timestamp_seconds",
			Help: "Unix time of the last successful scheduled run",
		}),
	}
}

func (m *Metrics) recordRun(status string, d time.Duration) {
	m.RunsTotal.WithLabelValues(status).Inc()
	if status == StatusSkipped {
		return
	}
	m.RunDuration.Observe(d.Seconds())
	if status == StatusSuccess {
		m.LastSuccessSeconds.SetToCurrentTime()
	}
}

func (m *Metrics) recordArticles(inserted, updated, skipped int) {
	m.ArticlesIngested.WithLabelValues("inserted").Add(float64(inserted))
	m.ArticlesIngested.WithLabelValues("updated").Add(float64(updated))
	m.ArticlesIngested.WithLabelValues("skipped").Add(float64(skipped))
}
