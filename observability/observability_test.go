package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("test-service")

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "test-service", cfg.ServiceName)
	assert.Equal(t, "localhost:4318", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.Equal(t, 15*time.Second, cfg.Interval)
	assert.Equal(t, "development", cfg.Environment)
	assert.NotEmpty(t, cfg.ServiceVersion)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig("svc")
	assert.NoError(t, cfg.Validate())

	cfg.SampleRate = 1.5
	assert.Error(t, cfg.Validate())

	cfg = Config{Enabled: true, SampleRate: 1}
	assert.Error(t, cfg.Validate())
}

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.5).Description(), sampler(0.5).Description())
}

func TestNewResource(t *testing.T) {
	res, err := newResource(DefaultConfig("svc"))
	require.NoError(t, err)
	v, ok := attrValue(res.Attributes(), "service.name")
	require.True(t, ok)
	assert.Equal(t, "svc", v.AsString())
}

func TestNewMetrics(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordCommand(ctx, "ok", 0, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "GET", "error", 500, 50*time.Millisecond)
	metrics.RecordRetry(ctx, "TRANSPORT_FAILURE")
}

func TestInstrumentsIsShared(t *testing.T) {
	assert.Same(t, Instruments(), Instruments())
}

func TestStartOperationRecordsSpan(t *testing.T) {
	exporter := withRecorder(t)

	_, op := StartOperation(context.Background(), SpanCommandRun, attribute.String(AttrCommand, "echo hi"))
	assert.NotEmpty(t, op.ID)
	op.End("ok", nil, "")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanCommandRun, spans[0].Name)

	id, ok := attrValue(spans[0].Attributes, AttrInvocationID)
	require.True(t, ok)
	assert.Equal(t, op.ID, id.AsString())

	cmd, ok := attrValue(spans[0].Attributes, AttrCommand)
	require.True(t, ok)
	assert.Equal(t, "echo hi", cmd.AsString())
	assert.Equal(t, otelcodes.Unset, spans[0].Status.Code)
}

func TestOperationEndWithError(t *testing.T) {
	exporter := withRecorder(t)

	_, op := StartOperation(context.Background(), SpanHTTPRequest)
	op.End("error", errors.New("boom"), "TRANSPORT_FAILURE")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, otelcodes.Error, spans[0].Status.Code)
	assert.Equal(t, "boom", spans[0].Status.Description)
	code, ok := attrValue(spans[0].Attributes, AttrErrorCode)
	require.True(t, ok)
	assert.Equal(t, "TRANSPORT_FAILURE", code.AsString())
	require.Len(t, spans[0].Events, 1)
}

func TestSetSpanAttribute(t *testing.T) {
	exporter := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "test-attrs")
	SetSpanAttribute(ctx, "string-key", "value")
	SetSpanAttribute(ctx, "int-key", 42)
	SetSpanAttribute(ctx, "int64-key", int64(100))
	SetSpanAttribute(ctx, "float-key", 3.14)
	SetSpanAttribute(ctx, "bool-key", true)
	SetSpanAttribute(ctx, "string-slice-key", []string{"a", "b"})
	SetSpanAttribute(ctx, "unsupported-key", struct{}{})
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	_, ok := attrValue(spans[0].Attributes, "unsupported-key")
	assert.False(t, ok)
	v, ok := attrValue(spans[0].Attributes, "int-key")
	require.True(t, ok)
	assert.Equal(t, int64(42), v.AsInt64())
}

func TestSetSpanErrorNoSpan(t *testing.T) {
	SetSpanError(context.Background(), errors.New("no span error"))
	SetSpanAttribute(context.Background(), "key", "value")
}
