package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry traces and counts storefront operations.
type Telemetry interface {
	StartOperation(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span)
	RecordOperation(ctx context.Context, operation string, duration time.Duration, err error)
	Shutdown(ctx context.Context) error
}

// Config controls telemetry setup.
type Config struct {
	Enabled     bool    `json:"enabled" yaml:"enabled" env:"STOREFRONT_TELEMETRY_ENABLED" default:"false"`
	ServiceName string  `json:"service_name" yaml:"service_name" env:"OTEL_SERVICE_NAME"`
	Endpoint    string  `json:"endpoint" yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure    bool    `json:"insecure" yaml:"insecure" env:"STOREFRONT_TELEMETRY_INSECURE" default:"true"`
	SampleRatio float64 `json:"sample_ratio" yaml:"sample_ratio" env:"STOREFRONT_TELEMETRY_SAMPLE_RATIO" default:"1.0"`
}
