package process

import (
	"io"
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// Stdout and Stderr, when set, receive the child's output directly and
	// nothing is captured. Both must be set together.
	Stdout io.Writer
	Stderr io.Writer
	// MaxOutputBytes caps each captured stream. Zero means DefaultMaxOutputBytes.
	MaxOutputBytes int64
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}

// Captures reports whether the command's output is buffered.
func (c Command) Captures() bool {
	return c.Stdout == nil && c.Stderr == nil
}
