// Package telemetry configures OpenTelemetry tracing for pipeline runs.
package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/vibin/research-agent/config"
)

const tracesPath = "/v1/traces"

// InstrumentationName identifies spans created by this module
const InstrumentationName = "github.com/vibin/research-agent"

// Tracer returns the tracer used by the pipeline. It resolves through the global
// provider on every call so that Start may run after packages are initialised.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// Start installs an OTLP/HTTP tracer provider when tracing is enabled.
// The returned function flushes and shuts it down.
func Start(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, exporterOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "research-agent"
	}
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// exporterOptions accepts either a collector base URL, as OTEL_EXPORTER_OTLP_ENDPOINT
// carries it, or a bare host:port.
func exporterOptions(cfg config.TelemetryConfig) []otlptracehttp.Option {
	if !strings.Contains(cfg.Endpoint, "://") {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return opts
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if !strings.HasSuffix(endpoint, tracesPath) {
		endpoint += tracesPath
	}
	return []otlptracehttp.Option{otlptracehttp.WithEndpointURL(endpoint)}
}
