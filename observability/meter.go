package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/gosh/logger"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider should be shut down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by the runner, the HTTP client and
// the retry engine.
type Metrics struct {
	commandTotal    metric.Int64Counter
	commandDuration metric.Float64Histogram
	httpTotal       metric.Int64Counter
	httpDuration    metric.Float64Histogram
	retryTotal      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	commandTotal, err := meter.Int64Counter("commands_total",
		metric.WithDescription("Total number of shell commands run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating commands_total counter: %w", err)
	}

	commandDuration, err := meter.Float64Histogram("command_duration_ms",
		metric.WithDescription("Duration of shell commands"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating command_duration_ms histogram: %w", err)
	}

	httpTotal, err := meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests sent"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_total counter: %w", err)
	}

	httpDuration, err := meter.Float64Histogram("http_request_duration_ms",
		metric.WithDescription("Duration of HTTP requests including redirects"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_request_duration_ms histogram: %w", err)
	}

	retryTotal, err := meter.Int64Counter("retry_attempts_total",
		metric.WithDescription("Total number of retried failures"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating retry_attempts_total counter: %w", err)
	}

	return &Metrics{
		commandTotal:    commandTotal,
		commandDuration: commandDuration,
		httpTotal:       httpTotal,
		httpDuration:    httpDuration,
		retryTotal:      retryTotal,
	}, nil
}

var (
	instrumentsOnce sync.Once
	instruments     *Metrics
)

// Instruments returns the process-wide Metrics bound to the global meter
// provider. Instruments created before InitMeter forward to the provider
// once it is installed.
func Instruments() *Metrics {
	instrumentsOnce.Do(func() {
		m, err := NewMetrics(Meter(instrumentationName))
		if err != nil {
			logger.Warn("falling back to noop metrics", logger.ErrorFields("metrics", err))
			m, _ = NewMetrics(noop.NewMeterProvider().Meter(instrumentationName))
		}
		instruments = m
	})
	return instruments
}

// RecordCommand records a finished command with its outcome.
func (m *Metrics) RecordCommand(ctx context.Context, status string, exitStatus int, duration time.Duration) {
	m.commandTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int(AttrExitStatus, exitStatus),
	))
	m.commandDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.String(AttrStatus, status),
	))
}

// RecordHTTPRequest records a finished HTTP request. statusCode is 0 on
// transport failure.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, status string, statusCode int, duration time.Duration) {
	m.httpTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrStatus, status),
		attribute.Int(AttrHTTPStatus, statusCode),
	))
	m.httpDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
	))
}

// RecordRetry records one failed attempt that is about to be retried.
func (m *Metrics) RecordRetry(ctx context.Context, errorCode string) {
	m.retryTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrErrorCode, errorCode),
	))
}
