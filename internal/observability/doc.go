// Package observability groups the logging, metrics and tracing
// subpackages shared by the API server, the worker and the CLI.
//
// Subpackages:
//   - logging: slog JSON logger with request and trace ids
//   - metrics: Prometheus collectors for HTTP, ingestion and storage
//   - tracing: OpenTelemetry spans for HTTP handlers and ingestion runs
package observability
