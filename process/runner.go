package process

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/anmitsu/go-shlex"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/gosh/console"
	goerrors "github.com/kbukum/gosh/errors"
	"github.com/kbukum/gosh/logger"
	"github.com/kbukum/gosh/observability"
	"github.com/kbukum/gosh/resilience"
)

// Runner runs command lines through a shell and classifies their outcome.
// A Runner holds no per-call state and is safe for concurrent use.
type Runner struct {
	config Config
	sink   console.Sink
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	retry  resilience.RetryConfig
	log    *logger.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithSink sets where echoed command lines and retry notices go.
func WithSink(sink console.Sink) Option {
	return func(r *Runner) { r.sink = sink }
}

// WithStdio sets the streams children inherit. Nil values keep the
// process defaults.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		if stdin != nil {
			r.stdin = stdin
		}
		if stdout != nil {
			r.stdout = stdout
		}
		if stderr != nil {
			r.stderr = stderr
		}
	}
}

// WithRetryConfig sets the defaults used by Retry.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(r *Runner) { r.retry = cfg }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// NewRunner creates a Runner. Zero config fields take their defaults.
func NewRunner(cfg Config, opts ...Option) *Runner {
	cfg.ApplyDefaults()
	r := &Runner{
		config: cfg,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		retry:  resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sink == nil {
		r.sink = console.Stdout()
	}
	if r.log == nil {
		r.log = logger.Get("process")
	}
	if r.retry.Sink == nil {
		r.retry.Sink = r.sink
	}
	return r
}

// Config returns the runner's effective configuration.
func (r *Runner) Config() Config {
	return r.config
}

// Run executes line and returns its scrubbed stdout. A non-zero exit fails
// with *CommandError unless opts.NoThrow is set.
func (r *Runner) Run(ctx context.Context, line string, opts Options) (string, error) {
	if r.config.EchoCommands && !opts.Quiet {
		r.sink.Println(line)
	}

	cmd, err := r.command(line, opts)
	if err != nil {
		return "", err
	}

	timeout := r.config.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ctx, op := observability.StartOperation(ctx, observability.SpanCommandRun,
		attribute.String(observability.AttrCommand, line))
	log := r.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldInvocationID, op.ID,
		logger.FieldCommand, line,
	))

	result, err := Run(ctx, cmd)
	if err != nil {
		r.finish(ctx, op, log, -1, err)
		return "", err
	}

	shell := cmd.Binary
	if opts.NoShell {
		shell = ""
	}
	stdout := scrub(result.Stdout, shell)
	stderr := scrub(result.Stderr, shell)

	if !result.Success() {
		cmdErr := &CommandError{
			Command:  line,
			Stdout:   stdout,
			Stderr:   stderr,
			Status:   result.ExitCode,
			TimedOut: result.TimedOut,
			Signaled: result.Signaled,
		}
		if cmdErr.Status == 0 {
			cmdErr.Status = -1
		}
		r.finish(ctx, op, log, cmdErr.Status, cmdErr)
		if opts.NoThrow {
			return cmdErr.Output(), nil
		}
		return "", cmdErr
	}

	r.finish(ctx, op, log, 0, nil)
	return stdout, nil
}

// Quiet runs line without echoing it.
func (r *Runner) Quiet(ctx context.Context, line string) (string, error) {
	return r.Run(ctx, line, Options{Quiet: true})
}

// Exec runs line with its output streamed to the runner's stdout and stderr.
func (r *Runner) Exec(ctx context.Context, line string) error {
	_, err := r.Run(ctx, line, Options{NoCapture: true})
	return err
}

// NoThrow runs line and returns stderr (or stdout) on a non-zero exit
// instead of failing. Buffer overflow still fails.
func (r *Runner) NoThrow(ctx context.Context, line string) (string, error) {
	return r.Run(ctx, line, Options{NoThrow: true})
}

// Retry runs line until it succeeds or the retry budget is spent. A nil
// cfg uses the runner's retry defaults.
func (r *Runner) Retry(ctx context.Context, line string, opts Options, cfg *resilience.RetryConfig) (string, error) {
	rc := r.retry
	if cfg != nil {
		rc = *cfg
		if rc.Sink == nil {
			rc.Sink = r.sink
		}
	}
	return resilience.Retry(ctx, rc, func() (string, error) {
		return r.Run(ctx, line, opts)
	})
}

// command resolves line and opts into a Command.
func (r *Runner) command(line string, opts Options) (Command, error) {
	cmd := Command{
		Dir:            opts.Dir,
		Env:            opts.Env,
		Stdin:          r.stdin,
		MaxOutputBytes: r.config.MaxOutputBytes,
		GracePeriod:    r.config.GracePeriod,
	}
	if opts.MaxOutputBytes > 0 {
		cmd.MaxOutputBytes = opts.MaxOutputBytes
	}
	if opts.NoCapture {
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
	}

	if opts.NoShell {
		argv, err := shlex.Split(line, true)
		if err != nil {
			return cmd, goerrors.InvalidInput("command", err.Error()).WithCause(err)
		}
		if len(argv) == 0 {
			return cmd, goerrors.InvalidInput("command", "is empty")
		}
		cmd.Binary, cmd.Args = argv[0], argv[1:]
		return cmd, nil
	}

	shell := r.config.Shell
	if opts.Shell != "" {
		shell = opts.Shell
	}
	cmd.Binary = shell
	cmd.Args = []string{"-c", line}
	return cmd, nil
}

func (r *Runner) finish(ctx context.Context, op *observability.Operation, log *logger.Logger, status int, err error) {
	duration := op.Duration()
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	op.SetAttributes(attribute.Int(observability.AttrExitStatus, status))
	op.End(outcome, err, string(goerrors.CodeOf(err)))
	observability.Instruments().RecordCommand(ctx, outcome, status, duration)

	fields := logger.MergeWithDuration(logger.Fields(logger.FieldStatus, status), duration)
	var cmdErr *CommandError
	switch {
	case err == nil:
		log.Debug("command finished", fields)
	case errors.As(err, &cmdErr):
		log.Debug("command failed", fields)
	default:
		log.Warn("command aborted", logger.MergeWithError(fields, err))
	}
}
