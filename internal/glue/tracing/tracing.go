// Package tracing wraps the OpenTelemetry SDK for please/pleaseedit: one
// span per core policy.Evaluate call, exported to stdout. Grounded on
// mercator-hq-jupiter/pkg/telemetry/tracing/tracer.go's Tracer wrapper
// (New/Start/Shutdown, noop-tracer-when-disabled shape), trimmed to the
// single stdout exporter SPEC_FULL.md calls for: a one-shot CLI has no
// collector to export OTLP/Jaeger/Zipkin spans to, so those exporters
// and their config knobs are not carried over.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer. When disabled, Start returns a
// noop span so call sites never need to branch on whether tracing is on.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	enabled  bool
}

// New builds a Tracer. When enabled is false, it returns a Tracer backed
// by the global noop provider and Shutdown is a no-op.
func New(enabled bool) (*Tracer, error) {
	if !enabled {
		return &Tracer{tracer: otel.Tracer("please")}, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create stdout trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)

	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer("please"),
		enabled:  true,
	}, nil
}

// Start begins a span named name, returning the derived context and the
// span. The caller must End() the span.
func (t *Tracer) Start(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name)
}

// Shutdown flushes pending spans. Safe to call on a disabled Tracer.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.enabled || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
