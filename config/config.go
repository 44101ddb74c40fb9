package config

import (
	"github.com/kbukum/gosh/httpclient"
	"github.com/kbukum/gosh/logger"
	"github.com/kbukum/gosh/observability"
	"github.com/kbukum/gosh/process"
	"github.com/kbukum/gosh/resilience"
	"github.com/kbukum/gosh/validation"
)

// DefaultName is the service name used to locate config files and tag logs.
const DefaultName = "gosh"

// Config holds the process-wide defaults a script runs with.
//
//	base:    { name: gosh, environment: development }
//	logging: { level: warn, format: console, output: stderr }
//	command: { shell: /bin/sh, max_output_bytes: 268435456, echo: true }
//	http:    { timeout: 120s, max_redirects: 10 }
//	retry:   { max_retries: 5, delay: 5s, echo_failures: true }
type Config struct {
	Base          BaseConfig             `yaml:"base" mapstructure:"base"`
	Logging       logger.Config          `yaml:"logging" mapstructure:"logging"`
	Command       process.Config         `yaml:"command" mapstructure:"command"`
	HTTP          httpclient.Config      `yaml:"http" mapstructure:"http"`
	Retry         resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
	Observability observability.Config   `yaml:"observability" mapstructure:"observability"`
}

// Default returns the configuration used when no file or environment
// overrides anything.
func Default() *Config {
	cfg := &Config{
		Base:    BaseConfig{Name: DefaultName},
		Command: process.DefaultConfig(),
		Retry:   resilience.DefaultRetryConfig(),
	}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads config.yml and .env overrides on top of Default, then
// validates the result.
func Load(opts ...LoaderOption) (*Config, error) {
	cfg := Default()
	if err := LoadConfig(DefaultName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero fields in every section.
func (c *Config) ApplyDefaults() {
	if c.Base.Name == "" {
		c.Base.Name = DefaultName
	}
	c.Base.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Command.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	if c.Retry.RetryIf == nil {
		c.Retry.RetryIf = resilience.DefaultRetryIf
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Base.Name
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Base.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate checks struct tags first, then each section's own rules.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	return validation.New().
		Merge("base", c.Base.Validate()).
		Merge("logging", c.Logging.Validate()).
		Merge("command", c.Command.Validate()).
		Merge("http", c.HTTP.Validate()).
		Merge("observability", c.Observability.Validate()).
		Err()
}

// HTTPConfig returns the HTTP client configuration with the shared retry
// policy attached.
func (c *Config) HTTPConfig() httpclient.Config {
	cfg := c.HTTP
	retry := c.Retry
	retry.RetryIf = httpclient.IsRetryable
	cfg.Retry = &retry
	return cfg
}
