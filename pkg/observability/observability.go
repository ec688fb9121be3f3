// Package observability instruments Run and Rollback with OpenTelemetry
// spans and RED-style metrics. It deliberately stops at the SDK boundary —
// no OTLP exporter is wired, since the spec's Non-goals exclude a managed
// observability backend; a deployment that wants spans shipped somewhere
// attaches its own exporter to the TracerProvider/MeterProvider this
// package builds.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "enact"

// Config names the service for the resource attributes attached to every
// span and metric this package emits.
type Config struct {
	ServiceName    string
	ServiceVersion string
}

// Provider holds the tracer/meter and the run-level counters the
// orchestrator updates on every Run and Rollback call.
type Provider struct {
	tracer trace.Tracer
	meter  metric.Meter

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider

	decisionCounter metric.Int64Counter
	durationHist    metric.Float64Histogram
	partialCounter  metric.Int64Counter
}

// New builds a Provider with an SDK TracerProvider/MeterProvider that
// have no exporter attached — spans and metrics are created and can be
// read back via in-process readers in tests, but nothing leaves the
// process until a caller adds its own exporter.
func New(cfg Config) (*Provider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: building resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res))

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	p := &Provider{
		tracer:         tp.Tracer(instrumentationName),
		meter:          mp.Meter(instrumentationName),
		tracerProvider: tp,
		meterProvider:  mp,
	}

	if p.decisionCounter, err = p.meter.Int64Counter(
		"enact.runs.total",
		metric.WithDescription("Number of completed runs, by decision"),
		metric.WithUnit("{run}"),
	); err != nil {
		return nil, err
	}
	if p.durationHist, err = p.meter.Float64Histogram(
		"enact.run.duration",
		metric.WithDescription("Run/rollback duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if p.partialCounter, err = p.meter.Int64Counter(
		"enact.rollbacks.partial",
		metric.WithDescription("Number of rollbacks that stopped PARTIAL"),
		metric.WithUnit("{rollback}"),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// StartRun opens a span for one Run/Rollback call. The returned func must
// be called with the resulting decision when the call completes.
func (p *Provider) StartRun(ctx context.Context, operation, workflow string) (context.Context, func(decision string)) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "enact."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("enact.workflow", workflow)),
	)

	return ctx, func(decision string) {
		attrs := metric.WithAttributes(
			attribute.String("enact.workflow", workflow),
			attribute.String("enact.decision", decision),
		)
		p.decisionCounter.Add(ctx, 1, attrs)
		p.durationHist.Record(ctx, time.Since(start).Seconds(), attrs)
		if decision == "PARTIAL" {
			p.partialCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("enact.workflow", workflow)))
		}
		span.SetAttributes(attribute.String("enact.decision", decision))
		span.End()
	}
}

// Shutdown flushes and releases the underlying providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.tracerProvider.Shutdown(ctx); err != nil {
		return err
	}
	return p.meterProvider.Shutdown(ctx)
}
