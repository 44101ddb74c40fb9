package script

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goerrors "github.com/kbukum/gosh/errors"
)

// Body is a script's main function.
type Body func(ctx context.Context, sc *Context) error

// Run builds a Context, runs body and returns the exit status: 0 on
// success, otherwise the failure's status when known and 1 when not. The
// failure text goes to stderr.
func Run(ctx context.Context, body Body, opts ...Option) int {
	o := resolve(opts)
	sc, err := newContext(ctx, o)
	if err != nil {
		_, _ = fmt.Fprintln(o.stderr, err.Error())
		return goerrors.ExitCode(err)
	}
	defer func() { _ = sc.Close(context.WithoutCancel(ctx)) }()

	return sc.report(body(ctx, sc))
}

// Main runs body with a context cancelled by SIGINT or SIGTERM and exits
// the process with the resulting status.
//
//	func main() {
//	    script.Main(func(ctx context.Context, sc *script.Context) error {
//	        out, err := sc.Sh(ctx, "git rev-parse HEAD")
//	        ...
//	    })
//	}
func Main(body Body, opts ...Option) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	opts = append([]Option{func(o *options) { o.globals = true }}, opts...)
	code := Run(ctx, body, opts...)
	stop()
	os.Exit(code)
}
