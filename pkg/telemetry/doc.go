// Package telemetry wires OpenTelemetry tracing and metrics into storefront
// operations.
//
// Every public storefront operation is wrapped the same way: a span is opened,
// the operation runs, the outcome is recorded on the span and counted in the
// metrics. Domain packages never import this package.
//
// # Telemetry Interface
//
//	type Telemetry interface {
//	    StartOperation(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span)
//	    RecordOperation(ctx context.Context, operation string, duration time.Duration, err error)
//	    Shutdown(ctx context.Context) error
//	}
//
// Contract:
//   - StartOperation never fails; with telemetry off it returns a no-op span
//   - the caller ends the span, normally through EndSpan
//   - EndSpan marks the span as failed only when err is non-nil
//   - RecordOperation is called once per operation, after it finishes
//   - Shutdown flushes buffered spans and is only called by the owner
//
// Invariants:
//   - spans are named "storefront.<operation>"
//   - correlation, session and user IDs found in ctx become span attributes
//   - metric attributes never carry user or session IDs
//
// # Metrics
//
//	storefront_operations_total{operation, status}     status is "success" or "error"
//	storefront_operation_duration_seconds{operation}
//
// # Context Propagation
//
// Request-scoped IDs travel on the context:
//
//	ctx = telemetry.WithCorrelationID(ctx)          // fresh ID per operation
//	ctx = telemetry.WithSessionID(ctx, sessionID)   // one per Storefront
//	ctx = telemetry.WithUserID(ctx, email)          // while someone is signed in
//
// The same IDs, plus trace_id and span_id when a span is recording, are
// copied onto log fields:
//
//	fields := telemetry.EnrichLogFields(ctx, map[string]interface{}{"operation": op})
//	log.WithFields(fields).Warn("Operation failed", "error", err.Error())
//
// # Configuration
//
// Setup is driven by Config and the standard environment:
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP/gRPC collector; spans are dropped if unset
//   - OTEL_SERVICE_NAME: service.name resource attribute
//   - OTEL_SERVICE_VERSION: service.version resource attribute
//   - DEPLOYMENT_ENVIRONMENT: deployment.environment resource attribute
//   - OTEL_SDK_DISABLED=true: forces the no-op implementation
//
// A SampleRatio between 0 and 1 samples root spans by trace ID; anything
// else samples everything.
//
// # Testing
//
// NewWithProviders accepts any tracer and meter provider, so tests can attach
// a tracetest.SpanRecorder and assert on ended spans. NewNoOp is the cheapest
// implementation when telemetry is irrelevant to the test.
package telemetry
