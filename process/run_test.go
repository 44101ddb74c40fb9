package process_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goerrors "github.com/kbukum/gosh/errors"
	"github.com/kbukum/gosh/process"
)

func TestRunEcho(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "echo",
		Args:   []string{"hello", "world"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.True(t, result.Success())
	assert.Equal(t, "hello world\n", string(result.Stdout))
}

func TestRunStdin(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "cat",
		Stdin:  strings.NewReader("from stdin"),
	})
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(result.Stdout))
}

func TestRunExitCodeIsNotAnError(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "exit 42"},
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result.ExitCode)
	assert.False(t, result.Success())
}

func TestRunStderr(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo oops >&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "oops\n", string(result.Stderr))
	assert.Empty(t, result.Stdout)
}

func TestRunContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := process.Run(ctx, process.Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: 500 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, result.TimedOut)
	assert.True(t, result.Signaled)
	assert.Equal(t, 128+15, result.ExitCode)
	assert.False(t, result.Success())
}

func TestRunOutputOverflow(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary:         "head",
		Args:           []string{"-c", "4096", "/dev/zero"},
		MaxOutputBytes: 1024,
	})
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, goerrors.ErrCodeBufferOverflow))
	require.NotNil(t, result)
	assert.LessOrEqual(t, len(result.Stdout), 1024)
}

func TestRunBinaryNotFound(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "definitely-not-a-real-binary-xyz",
	})
	require.NoError(t, err)
	assert.Equal(t, 127, result.ExitCode)
	assert.Contains(t, string(result.Stderr), "command not found")
}

func TestRunRequiresBinary(t *testing.T) {
	_, err := process.Run(context.Background(), process.Command{})
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, goerrors.ErrCodeMissingField))
}

func TestRunEnvAndDir(t *testing.T) {
	dir := t.TempDir()
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "printf '%s:%s' \"$GOSH_TEST\" \"$(pwd)\""},
		Env:    []string{"GOSH_TEST=value"},
		Dir:    dir,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(result.Stdout), "value:"))
	assert.True(t, strings.HasSuffix(string(result.Stdout), dir[strings.LastIndex(dir, "/"):]))
}
