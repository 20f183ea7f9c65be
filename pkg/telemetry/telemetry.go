// Package telemetry configures OpenTelemetry tracing and the Prometheus metrics endpoint.
package telemetry

import (
	"context"
	"fmt"

	"github.com/abgdnv/catalog/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// ServiceInfo identifies the process in every exported span and metric.
type ServiceInfo struct {
	Name    string
	Version string
}

// Resource describes the service. An empty Version is left out.
func (s ServiceInfo) Resource() *resource.Resource {
	attrs := []attribute.KeyValue{semconv.ServiceName(s.Name)}
	if s.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(s.Version))
	}
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

// NewTracerProvider installs a global tracer provider exporting over OTLP/HTTP.
// Root spans are sampled by cfg.Traces.SampleRatio, child spans follow their parent.
// The caller owns Shutdown.
func NewTracerProvider(ctx context.Context, svc ServiceInfo, cfg config.TelemetryConfig) (*tracesdk.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx, exporterOptions(cfg.Traces.OtlpHttp)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter),
		tracesdk.WithSampler(sampler(cfg.Traces.SampleRatio)),
		tracesdk.WithResource(svc.Resource()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp, nil
}

func exporterOptions(cfg config.OtlpHttpConfig) []otlptracehttp.Option {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithTimeout(cfg.Timeout),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts
}

// sampler keeps every root span for a ratio of 1 or more.
func sampler(ratio float64) tracesdk.Sampler {
	if ratio >= 1 {
		return tracesdk.ParentBased(tracesdk.AlwaysSample())
	}
	return tracesdk.ParentBased(tracesdk.TraceIDRatioBased(ratio))
}
