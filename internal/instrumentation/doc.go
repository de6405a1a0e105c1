// Package instrumentation provides OpenTelemetry-based observability for the
// agent: metrics, tracing, and audit logging.
//
// # Metrics
//
// Metrics cover the agent's main surfaces: task lifecycle (agent_tasks_total,
// agent_task_duration_seconds), language model calls, tool invocations,
// Google API operations, and HTTP traffic. The default exporter is
// Prometheus; metrics are served on a dedicated listener by the server
// package.
//
// # Tracing
//
// Tracing is disabled by default. Set TRACING_EXPORTER=otlp together with
// OTEL_EXPORTER_OTLP_ENDPOINT to export spans.
//
// # Audit logging
//
// Every tool invocation the agent makes on a user's behalf can be audit
// logged. By default PII is stripped (email domains only); deployments with
// compliance requirements can enable full identities via
// AUDIT_LOGGING_INCLUDE_PII.
package instrumentation
