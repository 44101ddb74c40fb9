package process

import (
	"time"

	"github.com/kbukum/gosh/validation"
)

// DefaultShell is the interpreter command lines are passed to.
const DefaultShell = "/bin/sh"

// Config holds runner-wide defaults. Per-call Options override them.
type Config struct {
	// Shell interprets each command line as `<shell> -c <line>`.
	Shell string `yaml:"shell" mapstructure:"shell"`
	// MaxOutputBytes caps each captured stream.
	MaxOutputBytes int64 `yaml:"max_output_bytes" mapstructure:"max_output_bytes" validate:"gte=0"`
	// EchoCommands prints each command line to the sink before running it.
	EchoCommands bool `yaml:"echo" mapstructure:"echo"`
	// Timeout kills commands that run longer. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	// GracePeriod is the wait between SIGTERM and SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period" validate:"gte=0"`
}

// DefaultConfig returns the runner defaults.
func DefaultConfig() Config {
	cfg := Config{EchoCommands: true}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	if c.Shell == "" {
		c.Shell = DefaultShell
	}
	if c.MaxOutputBytes == 0 {
		c.MaxOutputBytes = DefaultMaxOutputBytes
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = 5 * time.Second
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return validation.New().
		NonNegative("max_output_bytes", c.MaxOutputBytes).
		NonNegativeDuration("timeout", c.Timeout).
		NonNegativeDuration("grace_period", c.GracePeriod).
		Err()
}

// Options controls one command invocation. The zero value captures output,
// echoes the command (when the runner echoes) and fails on non-zero exit.
type Options struct {
	// NoCapture connects the child to the runner's stdout and stderr and
	// returns an empty string.
	NoCapture bool
	// Quiet suppresses echoing the command line.
	Quiet bool
	// NoThrow returns stderr (or stdout when stderr is empty) instead of
	// failing on a non-zero exit.
	NoThrow bool
	// Timeout overrides Config.Timeout when positive.
	Timeout time.Duration
	// Shell overrides Config.Shell.
	Shell string
	// NoShell splits the line into argv and executes it directly.
	NoShell bool
	// MaxOutputBytes overrides Config.MaxOutputBytes when positive.
	MaxOutputBytes int64
	// Dir is the working directory.
	Dir string
	// Env is additional KEY=value pairs.
	Env []string
}
