package process

import (
	"syscall"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit status. A child terminated by a signal
	// reports 128+signal, and -1 when no status is available.
	ExitCode int
	// Signaled is set when the child was terminated by a signal.
	Signaled bool
	// Signal is the terminating signal when Signaled is set.
	Signal syscall.Signal
	// TimedOut is set when the child was killed because its deadline passed.
	TimedOut bool
	// Duration is how long the process ran.
	Duration time.Duration
}

// Success reports whether the child exited normally with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && !r.Signaled && !r.TimedOut
}
