package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kbukum/gosh/console"
	goerrors "github.com/kbukum/gosh/errors"
	"github.com/kbukum/gosh/observability"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first one.
	// An operation that always fails is invoked MaxRetries+1 times.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0"`
	// Delay is the constant wait between the end of one attempt and the
	// start of the next.
	Delay time.Duration `yaml:"delay" mapstructure:"delay" validate:"gte=0"`
	// EchoFailures prints each failure and the pending-retry notice to Sink.
	EchoFailures bool `yaml:"echo_failures" mapstructure:"echo_failures"`
	// Sink receives echoed failures. Defaults to the process stdout.
	Sink console.Sink `yaml:"-" mapstructure:"-"`
	// RetryIf determines if an error should be retried.
	RetryIf func(error) bool `yaml:"-" mapstructure:"-"`
	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, delay time.Duration) `yaml:"-" mapstructure:"-"`
	// Sleep replaces the timer used between attempts. When set the wait is
	// a blocking call to Sleep and is not interrupted by ctx.
	Sleep func(time.Duration) `yaml:"-" mapstructure:"-"`
}

// DefaultRetryConfig returns the defaults scripts get: five retries, five
// seconds apart, failures echoed.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   5,
		Delay:        5 * time.Second,
		EchoFailures: true,
		RetryIf:      DefaultRetryIf,
	}
}

// DefaultRetryIf retries all errors except context cancellation and errors
// whose code is marked fatal (e.g. command output buffer overflow).
func DefaultRetryIf(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !goerrors.Is(err, goerrors.ErrCodeBufferOverflow)
}

// Retry executes fn until it succeeds or the retry budget is exhausted.
// On exhaustion the last error returned by fn is returned unchanged.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = DefaultRetryIf
	}
	sink := cfg.Sink
	if sink == nil {
		sink = console.Stdout()
	}

	attempt := 0
	operation := func() (T, error) {
		attempt++
		result, err := fn()
		if err != nil && !cfg.RetryIf(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	notify := func(err error, delay time.Duration) {
		observability.Instruments().RecordRetry(ctx, string(goerrors.CodeOf(err)))
		if cfg.EchoFailures {
			sink.Println(err.Error())
			sink.Println(fmt.Sprintf("Will retry in %d milliseconds...", delay.Milliseconds()))
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.Delay), uint64(cfg.MaxRetries)),
		ctx,
	)

	var timer backoff.Timer
	if cfg.Sleep != nil {
		timer = &sleepTimer{sleep: cfg.Sleep}
	}
	return backoff.RetryNotifyWithTimerAndData(operation, b, notify, timer)
}

// RetryFunc executes a function that returns only an error.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// sleepTimer adapts a blocking sleep primitive to backoff.Timer.
type sleepTimer struct {
	sleep func(time.Duration)
	c     chan time.Time
}

func (t *sleepTimer) Start(d time.Duration) {
	t.sleep(d)
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}

func (t *sleepTimer) Stop() {}

func (t *sleepTimer) C() <-chan time.Time { return t.c }
