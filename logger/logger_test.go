package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json"}, buf, "test")
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	require.NotNil(t, l)
	assert.Equal(t, "test-svc", l.service)
}

func TestNewInvalidLevelFallsBackToWarn(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "invalid-level", Format: "json"}, &buf, "test")
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Warn("shown")
	assert.Equal(t, "shown", lastEntry(t, &buf)["message"])
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	require.NotNil(t, NewFromEnv("env-svc"))
}

func TestWithComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "debug").WithComponent("process")
	assert.Equal(t, "test", l.service)

	l.Debug("ran", Fields(FieldCommand, "ls", FieldStatus, 0))
	entry := lastEntry(t, &buf)
	assert.Equal(t, "process", entry[FieldComponent])
	assert.Equal(t, "ls", entry[FieldCommand])
	assert.Equal(t, float64(0), entry[FieldStatus])
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "debug").WithError(os.ErrNotExist).Error("failed")
	assert.Equal(t, os.ErrNotExist.Error(), lastEntry(t, &buf)["error"])
}

func TestWithContextAddsSpanIDs(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "debug")

	assert.Same(t, l, l.WithContext(context.Background()))

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	l.WithContext(ctx).Info("traced")
	entry := lastEntry(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), entry[FieldTraceID])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry[FieldSpanID])
}

func TestInitAndGlobal(t *testing.T) {
	Init(Config{Level: "info", Format: "console", Output: "stderr"})
	require.NotNil(t, GetGlobalLogger())

	custom := NewDefault("custom")
	SetGlobalLogger(custom)
	assert.Same(t, custom, GetGlobalLogger())

	globalLogger = nil
	assert.NotNil(t, GetGlobalLogger())

	// should not panic
	Debug("debug msg")
	Warn("warn msg")
}

func TestNop(t *testing.T) {
	Nop().Error("nothing")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.True(t, cfg.Timestamp)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"disabled", Config{Level: "disabled", Format: "json"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: "console", NoColor: true}, &buf, "gosh")
	l.WithComponent("process").Warn("command aborted", Fields(FieldStatus, 137))

	line := buf.String()
	assert.Contains(t, line, "WRN process command aborted")
	assert.Contains(t, line, "status:137")
	assert.NotContains(t, line, "component:")
	assert.NotContains(t, line, "service:")
}

func TestConsoleFormat_WithoutComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: "console", NoColor: true}, &buf, "gosh")
	l.Warn("no component")
	l.Debug("details")
	l.Error("broken")

	out := buf.String()
	assert.Contains(t, out, "WRN no component")
	assert.Contains(t, out, "DBG details")
	assert.Contains(t, out, "ERR broken")
	assert.NotContains(t, out, "%!")
	assert.NotContains(t, out, "<nil>")
}

func TestRegistry(t *testing.T) {
	l := NewDefault("reg")
	Register("http", l)
	assert.Same(t, l, Get("http"))
	assert.NotNil(t, Get("unregistered"))
}

func TestFieldsHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	assert.Equal(t, map[string]interface{}{"a": 1}, f)

	ef := ErrorFields("run", os.ErrClosed)
	assert.Equal(t, "run", ef[FieldOperation])

	m := MergeWithError(nil, os.ErrClosed)
	assert.Equal(t, os.ErrClosed.Error(), m[FieldError])
}
