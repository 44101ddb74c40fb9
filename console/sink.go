package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/kbukum/gosh/logger"
)

// Sink prints one line of text. It is the only output dependency of the
// command runner, the HTTP client and the retry engine.
type Sink interface {
	Println(msg string)
}

// Style selects an optional colour for a console line.
type Style int

const (
	StylePlain Style = iota
	StyleYellow
	StyleGreen
	StyleRed
)

// Console writes lines to an io.Writer, optionally coloured.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	colors map[Style]*color.Color
}

// compile-time assertion
var _ Sink = (*Console)(nil)

// New creates a console writing to out. Colour is disabled when noColor is
// set, or globally by fatih/color when out is not a terminal or NO_COLOR is
// present in the environment.
func New(out io.Writer, noColor bool) *Console {
	c := &Console{
		out: out,
		colors: map[Style]*color.Color{
			StyleYellow: color.New(color.FgYellow),
			StyleGreen:  color.New(color.FgGreen),
			StyleRed:    color.New(color.FgRed),
		},
	}
	if noColor {
		for _, col := range c.colors {
			col.DisableColor()
		}
	}
	return c
}

// Stdout returns a console bound to the process stdout.
func Stdout() *Console {
	return New(color.Output, false)
}

// Println prints msg followed by a newline.
func (c *Console) Println(msg string) {
	c.Print(StylePlain, msg)
}

// Printf formats according to format and prints the result as one line.
func (c *Console) Printf(format string, args ...any) {
	c.Print(StylePlain, fmt.Sprintf(format, args...))
}

// Yellow prints msg in yellow.
func (c *Console) Yellow(msg string) { c.Print(StyleYellow, msg) }

// Green prints msg in green.
func (c *Console) Green(msg string) { c.Print(StyleGreen, msg) }

// Red prints msg in red.
func (c *Console) Red(msg string) { c.Print(StyleRed, msg) }

// Print prints msg as one line using the given style.
func (c *Console) Print(style Style, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if col, ok := c.colors[style]; ok {
		_, _ = col.Fprintln(c.out, msg)
		return
	}
	_, _ = fmt.Fprintln(c.out, msg)
}

// Stderr prints msg as one line on the process stderr.
func Stderr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
}

type discard struct{}

func (discard) Println(string) {}

// Discard is a sink that drops every line.
var Discard Sink = discard{}

// LogSink forwards lines to a logger at info level.
type LogSink struct {
	Logger *logger.Logger
}

// Println implements Sink.
func (s LogSink) Println(msg string) {
	s.Logger.Info(msg)
}

// Recorder is a sink that keeps every line in memory.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// Println implements Sink.
func (r *Recorder) Println(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, msg)
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}
