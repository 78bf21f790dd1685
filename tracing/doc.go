// Package tracing emits OpenTelemetry spans for definition operations.
// Spans are no-ops until Init or InitWithExporter installs a provider.
package tracing
