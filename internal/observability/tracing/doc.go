// Package tracing wires OpenTelemetry spans into HTTP handlers and the
// ingestion pipeline. Spans go to the globally registered tracer provider;
// with none registered they are no-ops.
package tracing
