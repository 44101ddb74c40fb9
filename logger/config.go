package logger

import "github.com/kbukum/gosh/validation"

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
// Script diagnostics default to stderr at warn level so they never mix
// with the output a script prints for its caller.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "warn"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	c.Timestamp = true
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	return validation.New().
		OneOf("level", c.Level, []string{"trace", "debug", "info", "warn", "error", "disabled"}).
		OneOf("format", c.Format, []string{"json", "console", "text"}).
		OneOf("output", c.Output, []string{"stdout", "stderr"}).
		Err()
}
