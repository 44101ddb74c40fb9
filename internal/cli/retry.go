package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/gosh/resilience"
)

// retryFlags are shared by commands that can retry.
type retryFlags struct {
	retries int
	delay   time.Duration
}

func (f *retryFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.retries, "retries", 0, "retry this many times after a failure")
	cmd.Flags().DurationVar(&f.delay, "retry-delay", 0, "wait between retries (default from config)")
}

// config returns the retry policy to use, or nil when --retries was not
// given.
func (f *retryFlags) config(cmd *cobra.Command, base resilience.RetryConfig) *resilience.RetryConfig {
	if !cmd.Flags().Changed("retries") {
		return nil
	}
	cfg := base
	cfg.MaxRetries = f.retries
	if cmd.Flags().Changed("retry-delay") {
		cfg.Delay = f.delay
	}
	return &cfg
}
