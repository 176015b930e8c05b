package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// PendingFunc reports the number of in-flight correlations awaiting a reply.
type PendingFunc func() int64

// Bridge exports bridge telemetry in Prometheus format through the
// OpenTelemetry metrics SDK.
type Bridge struct {
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter

	eventsPublished metric.Int64Counter
	eventsResolved  metric.Int64Counter
	uploadBytes     metric.Int64Counter
	pendingGauge    metric.Int64ObservableGauge
}

// NewBridge creates the metrics exporter. pending feeds the in-flight
// correlations gauge and may be nil.
func NewBridge(pending PendingFunc) (*Bridge, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"webhook-bridge",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	b := &Bridge{
		meterProvider: meterProvider,
		meter:         meter,
	}

	if err := b.registerInstruments(pending); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return b, nil
}

// registerInstruments creates and registers all metric instruments
func (b *Bridge) registerInstruments(pending PendingFunc) error {
	var err error

	b.eventsPublished, err = b.meter.Int64Counter(
		"bridge.events.published",
		metric.WithDescription("Number of events published onto the bus"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return fmt.Errorf("creating published counter: %w", err)
	}

	b.eventsResolved, err = b.meter.Int64Counter(
		"bridge.events.resolved",
		metric.WithDescription("Number of correlated replies by outcome"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return fmt.Errorf("creating resolved counter: %w", err)
	}

	b.uploadBytes, err = b.meter.Int64Counter(
		"bridge.upload.bytes",
		metric.WithDescription("Bytes accepted on the upload routes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("creating upload bytes counter: %w", err)
	}

	b.pendingGauge, err = b.meter.Int64ObservableGauge(
		"bridge.correlations.pending",
		metric.WithDescription("Number of in-flight correlations awaiting a reply"),
		metric.WithUnit("{correlations}"),
		metric.WithInt64Callback(func(_ context.Context, observer metric.Int64Observer) error {
			if pending != nil {
				observer.Observe(pending())
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("creating pending gauge: %w", err)
	}

	return nil
}

// EventPublished counts one published event.
func (b *Bridge) EventPublished(ctx context.Context, eventName string) {
	b.eventsPublished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.name", eventName),
	))
}

// EventResolved counts one resolved correlation with its outcome label.
func (b *Bridge) EventResolved(ctx context.Context, eventName, outcome string) {
	b.eventsResolved.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.name", eventName),
		attribute.String("event.outcome", outcome),
	))
}

// UploadBytes counts bytes accepted for upload.
func (b *Bridge) UploadBytes(ctx context.Context, n int64) {
	b.uploadBytes.Add(ctx, n)
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (b *Bridge) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (b *Bridge) Shutdown(ctx context.Context) error {
	if b.meterProvider != nil {
		return b.meterProvider.Shutdown(ctx)
	}
	return nil
}
