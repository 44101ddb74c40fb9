package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kbukum/gosh/logger"
)

func TestConsole_PrintlnPlain(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, true)
	c.Println("hello")
	c.Printf("%d items", 3)
	assert.Equal(t, "hello\n3 items\n", buf.String())
}

func TestConsole_ColorsDisabled(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, true)
	c.Yellow("warn")
	c.Green("ok")
	c.Red("fail")
	assert.Equal(t, "warn\nok\nfail\n", buf.String())
}

func TestConsole_ColorsEnabled(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, false)
	c.colors[StyleRed].EnableColor()
	c.Red("fail")
	assert.Contains(t, buf.String(), "\x1b[31m")
	assert.Contains(t, buf.String(), "fail")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Println("a")
	r.Println("b")
	assert.Equal(t, []string{"a", "b"}, r.Lines())
}

func TestDiscardAndLogSink(t *testing.T) {
	Discard.Println("dropped")

	var buf bytes.Buffer
	l := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, &buf, "test")
	LogSink{Logger: l}.Println("forwarded")
	assert.Contains(t, buf.String(), `"message":"forwarded"`)
}
