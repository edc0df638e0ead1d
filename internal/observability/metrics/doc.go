// Package metrics provides the Prometheus collectors of the application.
//
// Collectors register on the default registry and are exposed via /metrics.
//
//	start := time.Now()
//	stats, err := svc.Run(ctx)
//	metrics.RecordIngestRun(stats.Inserted, stats.Updated, stats.Skipped, time.Since(start))
package metrics
