package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/vterekhov/procurement-backend/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// AppMetrics bundles the instruments the API and worker record.
type AppMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestsErrors  metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	OrdersPlaced   metric.Int64Counter
	StatusChanges  metric.Int64Counter
	PriceImports   metric.Int64Counter
	OffersImported metric.Int64Counter
}

// Init builds an OTLP meter provider and the instrument set. With
// OTEL_ENABLED=false the instruments come from the global no-op
// provider and the returned provider is nil.
func Init(ctx context.Context, cfg *config.Config) (*AppMetrics, *sdkmetric.MeterProvider, error) {
	if !cfg.OTELEnabled {
		m, err := newInstruments(otel.Meter(cfg.OTELServiceName))
		return m, nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.OTELServiceName)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create resource: %w", err)
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.OTELEndpoint),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
	}
	if cfg.OTELInsecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(10*time.Second))),
	)
	otel.SetMeterProvider(provider)

	m, err := newInstruments(provider.Meter(cfg.OTELServiceName))
	if err != nil {
		return nil, nil, err
	}
	return m, provider, nil
}

func newInstruments(meter metric.Meter) (*AppMetrics, error) {
	var (
		m   AppMetrics
		err error
	)
	if m.HTTPRequestsTotal, err = meter.Int64Counter("http.requests.total",
		metric.WithDescription("Total HTTP requests")); err != nil {
		return nil, err
	}
	if m.HTTPRequestsErrors, err = meter.Int64Counter("http.requests.errors",
		metric.WithDescription("HTTP responses with status >= 500")); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram("http.request.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.OrdersPlaced, err = meter.Int64Counter("orders.placed",
		metric.WithDescription("Baskets checked out")); err != nil {
		return nil, err
	}
	if m.StatusChanges, err = meter.Int64Counter("orders.status_changes",
		metric.WithDescription("Order status transitions")); err != nil {
		return nil, err
	}
	if m.PriceImports, err = meter.Int64Counter("pricelist.imports",
		metric.WithDescription("Successful price imports")); err != nil {
		return nil, err
	}
	if m.OffersImported, err = meter.Int64Counter("pricelist.offers",
		metric.WithDescription("Offers written by price imports")); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordRequest is called from the HTTP middleware.
func (m *AppMetrics) RecordRequest(ctx context.Context, method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
	if status >= 500 {
		m.HTTPRequestsErrors.Add(ctx, 1, attrs)
	}
}
