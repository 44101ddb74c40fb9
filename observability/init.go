package observability

import (
	"context"
	"errors"
)

// ShutdownFunc flushes and stops whatever Init installed.
type ShutdownFunc func(ctx context.Context) error

// Init installs the tracer and meter providers described by cfg. When cfg
// is disabled nothing is installed and the returned ShutdownFunc is a noop.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tp, err := InitTracer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
