package metrics

import (
	"database/sql"
	"time"
)

// RecordIngestRun records the per-article outcomes and duration of one run.
func RecordIngestRun(inserted, updated, skipped int, duration time.Duration) {
	IngestArticlesTotal.WithLabelValues("inserted").Add(float64(inserted))
	IngestArticlesTotal.WithLabelValues("updated").Add(float64(updated))
	IngestArticlesTotal.WithLabelValues("skipped").Add(float64(skipped))
	IngestRunDuration.Observe(duration.Seconds())
}

// RecordClassification records one classifier call. An empty suggestion list
// is tracked apart from success so that silent classifiers are visible.
func RecordClassification(err error, suggestions int, duration time.Duration) {
	status := "success"
	switch {
	case err != nil:
		status = "failure"
	case suggestions == 0:
		status = "empty"
	}
	ClassificationsTotal.WithLabelValues(status).Inc()
	ClassificationDuration.Observe(duration.Seconds())
}

// RecordGroupLink records the result of one LinkIfAbsent call.
func RecordGroupLink(created bool, err error) {
	switch {
	case err != nil:
		GroupLinksTotal.WithLabelValues("failure").Inc()
	case created:
		GroupLinksTotal.WithLabelValues("created").Inc()
	default:
		GroupLinksTotal.WithLabelValues("existing").Inc()
	}
}

func RecordFeedFetchError(source string) {
	FeedFetchErrors.WithLabelValues(source).Inc()
}

func RecordContentFetchSuccess(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped is called when the feed content is long enough.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// UpdateTotals sets the news and group gauges.
func UpdateTotals(news, groups int64) {
	NewsTotal.Set(float64(news))
	GroupsTotal.Set(float64(groups))
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats copies the pool statistics into the gauges.
func UpdateDBConnectionStats(stats sql.DBStats) {
	DBConnectionsInUse.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))
}
