package script

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/kbukum/gosh/config"
	"github.com/kbukum/gosh/console"
	"github.com/kbukum/gosh/httpclient"
	"github.com/kbukum/gosh/logger"
	"github.com/kbukum/gosh/observability"
	"github.com/kbukum/gosh/process"
)

// Context is everything a script body needs, built once at start and
// passed explicitly instead of living in globals.
type Context struct {
	Args    *Args
	Env     *Env
	Console *console.Console
	Runner  *process.Runner
	HTTP    *httpclient.Client
	Config  *config.Config
	Logger  *logger.Logger

	usage    string
	stdout   io.Writer
	stderr   io.Writer
	shutdown observability.ShutdownFunc
}

type options struct {
	program   string
	argv      []string
	environ   []string
	cfg       *config.Config
	loader    []config.LoaderOption
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	fs        afero.Fs
	transport http.RoundTripper
	globals   bool
}

// Option configures New and Run.
type Option func(*options)

// WithArgs replaces os.Args. argv excludes the program name.
func WithArgs(program string, argv ...string) Option {
	return func(o *options) {
		o.program = program
		o.argv = argv
	}
}

// WithEnviron replaces os.Environ for the Env snapshot.
func WithEnviron(environ []string) Option {
	return func(o *options) { o.environ = environ }
}

// WithConfig uses cfg instead of loading config files.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithConfigOptions passes options to config.Load.
func WithConfigOptions(opts ...config.LoaderOption) Option {
	return func(o *options) { o.loader = append(o.loader, opts...) }
}

// WithStdio replaces the process streams. Nil values keep the defaults.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(o *options) {
		if stdin != nil {
			o.stdin = stdin
		}
		if stdout != nil {
			o.stdout = stdout
		}
		if stderr != nil {
			o.stderr = stderr
		}
	}
}

// WithFs sets the filesystem used for HTTP uploads, downloads and TLS files.
func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

func resolve(opts []Option) *options {
	o := &options{
		program: filepath.Base(os.Args[0]),
		argv:    os.Args[1:],
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.environ == nil {
		o.environ = os.Environ()
	}
	return o
}

// New builds a Context from the process arguments, environment and
// config.Load, as adjusted by opts.
func New(ctx context.Context, opts ...Option) (*Context, error) {
	return newContext(ctx, resolve(opts))
}

func newContext(ctx context.Context, o *options) (*Context, error) {
	cfg := o.cfg
	if cfg == nil {
		var err error
		loader := []config.LoaderOption{config.WithEnviron(o.environ)}
		if o.fs != nil {
			loader = append(loader, config.WithFileSystem(o.fs))
		}
		if cfg, err = config.Load(append(loader, o.loader...)...); err != nil {
			return nil, err
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(&cfg.Logging, o.stderr, cfg.Base.Name)
	if o.globals {
		logger.SetGlobalLogger(log)
		logger.RegisterDefaults("process", "httpclient", "script")
	}

	shutdown, err := observability.Init(ctx, cfg.Observability)
	if err != nil {
		return nil, err
	}

	out := console.New(o.stdout, cfg.Logging.NoColor)

	runner := process.NewRunner(cfg.Command,
		process.WithSink(out),
		process.WithStdio(o.stdin, o.stdout, o.stderr),
		process.WithRetryConfig(cfg.Retry),
		process.WithLogger(log.WithComponent("process")),
	)

	httpOpts := []httpclient.Option{
		httpclient.WithSink(out),
		httpclient.WithLogger(log.WithComponent("httpclient")),
	}
	if o.fs != nil {
		httpOpts = append(httpOpts, httpclient.WithFs(o.fs))
	}
	if o.transport != nil {
		httpOpts = append(httpOpts, httpclient.WithTransport(o.transport))
	}
	client, err := httpclient.New(cfg.HTTPConfig(), httpOpts...)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return &Context{
		Args:     ParseArgs(o.program, o.argv),
		Env:      NewEnv(o.environ),
		Console:  out,
		Runner:   runner,
		HTTP:     client,
		Config:   cfg,
		Logger:   log.WithComponent("script"),
		usage:    "Usage: " + o.program,
		stdout:   o.stdout,
		stderr:   o.stderr,
		shutdown: shutdown,
	}, nil
}

// Close flushes telemetry.
func (c *Context) Close(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}
	return c.shutdown(ctx)
}

// Stdout is the stream script output goes to.
func (c *Context) Stdout() io.Writer { return c.stdout }

// Stderr is the stream failures and logs go to.
func (c *Context) Stderr() io.Writer { return c.stderr }

// Echo prints msg to the console.
func (c *Context) Echo(msg string) {
	c.Console.Println(msg)
}

// Sh runs line with the runner defaults and returns its output.
func (c *Context) Sh(ctx context.Context, line string) (string, error) {
	return c.Runner.Run(ctx, line, process.Options{})
}
