package script

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/gosh/config"
	"github.com/kbukum/gosh/httpclient"
	"github.com/kbukum/gosh/process"
)

type stdio struct {
	out bytes.Buffer
	err bytes.Buffer
}

func run(t *testing.T, body Body, opts ...Option) (int, *stdio) {
	t.Helper()
	var s stdio
	base := []Option{
		WithConfig(config.Default()),
		WithStdio(nil, &s.out, &s.err),
		WithArgs("deploy"),
		WithEnviron([]string{"STAGE=prod"}),
	}
	return Run(context.Background(), body, append(base, opts...)...), &s
}

func TestRun_Success(t *testing.T) {
	code, s := run(t, func(ctx context.Context, sc *Context) error {
		out, err := sc.Sh(ctx, "echo hello")
		if err != nil {
			return err
		}
		sc.Echo("got " + out)
		return nil
	})
	assert.Equal(t, 0, code)
	assert.Equal(t, "echo hello\ngot hello\n", s.out.String())
	assert.Empty(t, s.err.String())
}

func TestRun_CommandFailureUsesExitStatus(t *testing.T) {
	code, s := run(t, func(ctx context.Context, sc *Context) error {
		_, err := sc.Runner.Run(ctx, "echo oops >&2; exit 3", process.Options{Quiet: true})
		return err
	})
	assert.Equal(t, 3, code)
	assert.Equal(t, "Error running command: `echo oops >&2; exit 3`\noops\n", s.err.String())
}

func TestRun_UsageOnHelp(t *testing.T) {
	body := func(ctx context.Context, sc *Context) error {
		if err := sc.Usage("Usage: deploy <stage>"); err != nil {
			return err
		}
		return Fail("should not run", 9)
	}

	code, s := run(t, body, WithArgs("deploy", "--help"))
	assert.Equal(t, 1, code)
	assert.Equal(t, "Usage: deploy <stage>\n", s.err.String())

	code, s = run(t, body, WithArgs("deploy", "prod"))
	assert.Equal(t, 9, code)
	assert.Equal(t, "should not run\n", s.err.String())
}

func TestRun_AssertCountPrintsUsage(t *testing.T) {
	code, s := run(t, func(ctx context.Context, sc *Context) error {
		_, err := sc.Args.AssertCount(1)
		return err
	})
	assert.Equal(t, 1, code)
	assert.Equal(t, "Usage: deploy\n\n1 argument was expected but none were provided\n", s.err.String())
}

func TestRun_UsageErrorStatus(t *testing.T) {
	code, s := run(t, func(ctx context.Context, sc *Context) error {
		return sc.UsageError("unknown stage", 2)
	})
	assert.Equal(t, 2, code)
	assert.Equal(t, "Usage: deploy\n\nunknown stage\n", s.err.String())
}

func TestRun_EnvAssert(t *testing.T) {
	code, s := run(t, func(ctx context.Context, sc *Context) error {
		values, err := sc.Env.Assert("STAGE", "TOKEN")
		if err != nil {
			return err
		}
		sc.Echo(values[0])
		return nil
	})
	assert.Equal(t, 1, code)
	assert.Contains(t, s.err.String(), "Environment variable must be set: TOKEN")
}

func TestRun_ExitAndFail(t *testing.T) {
	code, s := run(t, func(context.Context, *Context) error { return Exit(0) })
	assert.Equal(t, 0, code)
	assert.Empty(t, s.err.String())

	code, s = run(t, func(context.Context, *Context) error { return Exit(5) })
	assert.Equal(t, 5, code)
	assert.Empty(t, s.err.String())

	code, s = run(t, func(context.Context, *Context) error { return Fail("bad input", 1) })
	assert.Equal(t, 1, code)
	assert.Equal(t, "bad input\n", s.err.String())
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.MaxRedirects = -1

	code, s := run(t, func(context.Context, *Context) error { return nil }, WithConfig(cfg))
	assert.Equal(t, 1, code)
	assert.Contains(t, s.err.String(), "http.max_redirects")
}

func TestNew_WiresCollaborators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "artifact")
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	var out bytes.Buffer
	sc, err := New(context.Background(),
		WithConfig(config.Default()),
		WithStdio(nil, &out, io.Discard),
		WithArgs("fetch", srv.URL),
		WithEnviron([]string{"A=1"}),
		WithFs(fs),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Close(context.Background()) }()

	assert.Equal(t, "fetch", sc.Args.Program)
	assert.Equal(t, "1", sc.Env.Get("A"))
	assert.Equal(t, process.DefaultShell, sc.Runner.Config().Shell)
	assert.Equal(t, 10, sc.HTTP.Config().MaxRedirects)
	require.NotNil(t, sc.HTTP.Config().Retry)

	_, err = sc.HTTP.Download(context.Background(), sc.Args.At(1), "/tmp/artifact", httpclient.RequestOptions{})
	require.NoError(t, err)
	data, err := afero.ReadFile(fs, "/tmp/artifact")
	require.NoError(t, err)
	assert.Equal(t, "artifact", string(data))
}
