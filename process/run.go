package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	goerrors "github.com/kbukum/gosh/errors"
)

// DefaultMaxOutputBytes is the default ceiling for each captured stream.
const DefaultMaxOutputBytes int64 = 256 * 1024 * 1024

// Run executes a subprocess and waits for it to complete.
// If the context is canceled, SIGTERM is sent first, then SIGKILL after GracePeriod.
//
// A non-zero exit is not an error: it is reported through Result. Run fails
// only when the process cannot be started or when a captured stream exceeds
// MaxOutputBytes, in which case the child is killed.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, goerrors.MissingField("binary")
	}

	gracePeriod := cmd.GracePeriod
	if gracePeriod == 0 {
		gracePeriod = 5 * time.Second
	}
	limit := cmd.MaxOutputBytes
	if limit <= 0 {
		limit = DefaultMaxOutputBytes
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := exec.CommandContext(runCtx, cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	c.Stdin = cmd.Stdin

	var stdout, stderr *cappedBuffer
	if cmd.Captures() {
		stdout = &cappedBuffer{limit: limit, onOverflow: cancel}
		stderr = &cappedBuffer{limit: limit, onOverflow: cancel}
		c.Stdout = stdout
		c.Stderr = stderr
	} else {
		c.Stdout = cmd.Stdout
		c.Stderr = cmd.Stderr
	}

	// Use process group so we can kill the entire tree
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Don't let exec.CommandContext kill with SIGKILL immediately
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = gracePeriod

	start := time.Now()
	err := c.Run()
	duration := time.Since(start)

	if c.ProcessState == nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return notFound(cmd.Binary, duration), nil
		}
		return nil, goerrors.Internal(err).WithDetail("binary", cmd.Binary)
	}

	result := &Result{
		ExitCode: c.ProcessState.ExitCode(),
		Duration: duration,
	}
	if ws, ok := c.ProcessState.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		result.Signaled = true
		result.Signal = ws.Signal()
		result.ExitCode = 128 + int(ws.Signal())
	}
	if stdout != nil {
		result.Stdout = stdout.Bytes()
		result.Stderr = stderr.Bytes()
		if stdout.Overflowed() || stderr.Overflowed() {
			return result, goerrors.BufferOverflow(commandLine(cmd), limit)
		}
	}
	if (result.Signaled || result.ExitCode != 0) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
	}

	return result, nil
}

// notFound mirrors the shell's report for a missing executable.
func notFound(binary string, duration time.Duration) *Result {
	return &Result{
		Stderr:   []byte(binary + ": command not found\n"),
		ExitCode: 127,
		Duration: duration,
	}
}

func commandLine(cmd Command) string {
	return strings.Join(append([]string{cmd.Binary}, cmd.Args...), " ")
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}

// cappedBuffer accumulates output up to limit bytes. Once the limit is
// crossed further writes are dropped and onOverflow is invoked once.
type cappedBuffer struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	limit      int64
	overflowed bool
	onOverflow func()
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.overflowed {
		return len(p), nil
	}
	if int64(b.buf.Len())+int64(len(p)) > b.limit {
		b.overflowed = true
		if b.onOverflow != nil {
			b.onOverflow()
		}
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

func (b *cappedBuffer) Overflowed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflowed
}
