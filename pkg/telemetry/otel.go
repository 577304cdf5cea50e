package telemetry

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/itsneelabh/storefront"

// OTELImpl is the OpenTelemetry-backed Telemetry.
type OTELImpl struct {
	TraceProvider *sdktrace.TracerProvider
	Tracer        trace.Tracer
	Meter         metric.Meter

	operations metric.Int64Counter
	durations  metric.Float64Histogram
	instanceID string
}

// NewAutoOTEL configures tracing from cfg and the standard OTEL_*
// environment. A disabled config, or OTEL_SDK_DISABLED=true, yields a no-op
// implementation. Spans are exported over OTLP/gRPC only when an endpoint is
// known; otherwise they are created and dropped.
func NewAutoOTEL(cfg Config, instanceID string) (Telemetry, error) {
	if !cfg.Enabled || os.Getenv("OTEL_SDK_DISABLED") == "true" {
		return NewNoOp(), nil
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "storefront"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(getServiceVersion()),
		semconv.DeploymentEnvironmentKey.String(getEnvironment()),
		attribute.String("storefront.instance.id", instanceID),
	)

	traceProvider, err := setupTraceProvider(cfg, res)
	if err != nil {
		return nil, fmt.Errorf("failed to setup trace provider: %w", err)
	}

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	impl, err := NewWithProviders(traceProvider, otel.GetMeterProvider(), instanceID)
	if err != nil {
		return nil, err
	}
	impl.TraceProvider = traceProvider
	return impl, nil
}

// NewWithProviders builds an OTELImpl on explicit providers without touching
// the globals.
func NewWithProviders(tp trace.TracerProvider, mp metric.MeterProvider, instanceID string) (*OTELImpl, error) {
	meter := mp.Meter(instrumentationName)

	operations, err := meter.Int64Counter(
		"storefront_operations_total",
		metric.WithDescription("Total storefront operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operations counter: %w", err)
	}

	durations, err := meter.Float64Histogram(
		"storefront_operation_duration_seconds",
		metric.WithDescription("Storefront operation duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	impl := &OTELImpl{
		Tracer:     tp.Tracer(instrumentationName),
		Meter:      meter,
		operations: operations,
		durations:  durations,
		instanceID: instanceID,
	}
	if sdk, ok := tp.(*sdktrace.TracerProvider); ok {
		impl.TraceProvider = sdk
	}
	return impl, nil
}

// NewNoOp returns a Telemetry that records nothing.
func NewNoOp() *OTELImpl {
	impl, _ := NewWithProviders(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider(), "")
	return impl
}

func setupTraceProvider(cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	sampler := sdktrace.ParentBased(sdktrace.AlwaysSample())
	if cfg.SampleRatio > 0 && cfg.SampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if endpoint == "" {
		return sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler),
		), nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	), nil
}

func getServiceVersion() string {
	if version := os.Getenv("OTEL_SERVICE_VERSION"); version != "" {
		return version
	}
	return "1.0.0"
}

func getEnvironment() string {
	if env := os.Getenv("DEPLOYMENT_ENVIRONMENT"); env != "" {
		return env
	}
	return "development"
}

// StartOperation opens a span named "storefront.<operation>" and tags it
// with the correlation, session and user IDs found in ctx.
func (o *OTELImpl) StartOperation(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := o.Tracer.Start(ctx, "storefront."+operation, trace.WithAttributes(attrs...))
	if id := GetCorrelationID(ctx); id != "" {
		span.SetAttributes(attribute.String("correlation.id", id))
	}
	if id := GetSessionID(ctx); id != "" {
		span.SetAttributes(attribute.String("session.id", id))
	}
	if id := GetUserID(ctx); id != "" {
		span.SetAttributes(attribute.String("user.id", id))
	}
	return ctx, span
}

// RecordOperation counts the operation and records its duration.
func (o *OTELImpl) RecordOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	o.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	o.durations.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// Shutdown flushes and stops the trace provider.
func (o *OTELImpl) Shutdown(ctx context.Context) error {
	if o.TraceProvider != nil {
		return o.TraceProvider.Shutdown(ctx)
	}
	return nil
}

// EndSpan marks span failed when err is non-nil, then ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
