// Package observability wires OpenTelemetry tracing for game sessions.
//
// Tracing is off unless enabled in the config; a disabled provider hands out
// no-op tracers so callers never branch on it.
package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config holds the tracing settings.
type Config struct {
	ServiceName    string            `yaml:"service_name"`
	ServiceVersion string            `yaml:"service_version"`
	Environment    string            `yaml:"environment"`
	Enabled        bool              `yaml:"enabled"`
	Endpoint       string            `yaml:"endpoint"` // full OTLP/HTTP traces URL
	Insecure       bool              `yaml:"insecure"`
	Headers        map[string]string `yaml:"headers"`
}

// DefaultConfig returns tracing disabled with service metadata filled in.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "fidoquest",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "http://localhost:4318/v1/traces",
	}
}

// TracerProvider wraps the SDK provider with cleanup.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	enabled  bool
}

// InitTracing builds a provider exporting over OTLP/HTTP. A disabled config
// yields a no-op provider.
func InitTracing(ctx context.Context, cfg Config) (*TracerProvider, error) {
	if !cfg.Enabled {
		return &TracerProvider{}, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	tp := NewTracerProvider(cfg, sdktrace.WithBatcher(exporter,
		sdktrace.WithBatchTimeout(5*time.Second),
		sdktrace.WithMaxExportBatchSize(100),
	))
	otel.SetTracerProvider(tp.provider)
	return tp, nil
}

// NewTracerProvider builds an enabled provider around the given span
// processors. Tests pass a syncer over an in-memory exporter.
func NewTracerProvider(cfg Config, opts ...sdktrace.TracerProviderOption) *TracerProvider {
	opts = append(opts,
		sdktrace.WithResource(newResource(cfg)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return &TracerProvider{provider: sdktrace.NewTracerProvider(opts...), enabled: true}
}

// Tracer returns a named tracer, no-op when tracing is disabled.
func (tp *TracerProvider) Tracer(name string, options ...trace.TracerOption) trace.Tracer {
	if tp == nil || !tp.enabled {
		return noop.NewTracerProvider().Tracer(name, options...)
	}
	return tp.provider.Tracer(name, options...)
}

// Shutdown flushes and stops the provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp == nil || !tp.enabled || tp.provider == nil {
		return nil
	}
	return tp.provider.Shutdown(ctx)
}

// IsEnabled reports whether spans are recorded.
func (tp *TracerProvider) IsEnabled() bool {
	return tp != nil && tp.enabled
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultConfig().Endpoint
	}
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(endpoint),
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
		otlptracehttp.WithTimeout(30 * time.Second),
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return otlptracehttp.New(ctx, opts...)
}

func newResource(cfg Config) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	)
}
