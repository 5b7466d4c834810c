// Package telemetry wires OpenTelemetry tracing and Pyroscope
// profiling around long-running channel operations, grounded on
// marmos91-dittofs/internal/telemetry/tracer.go and profiling.go. Only
// the stdout trace exporter is used — no network exporter is wired,
// respecting spec.md's "no network transport" Non-goal.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Attribute key constants for spans around channel operations,
// following the semantic-convention-key style of
// dittofs/internal/telemetry/tracer.go.
const (
	AttrChannelID   = "kekbit.channel_id"
	AttrOperation   = "kekbit.operation"
	AttrRecordBytes = "kekbit.record_bytes"
	AttrRecordCount = "kekbit.record_count"
)

// InitTracing installs a stdout-exporting tracer provider as the
// global otel tracer and returns a shutdown func.
func InitTracing(serviceName string) (func(context.Context) error, error) {
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer returns the package-scoped tracer for engine operations.
func Tracer() trace.Tracer { return otel.Tracer("kekbit.dev/kekbit") }
