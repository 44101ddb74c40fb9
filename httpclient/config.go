package httpclient

import (
	"time"

	"github.com/kbukum/gosh/resilience"
	"github.com/kbukum/gosh/validation"
	"github.com/kbukum/gosh/version"
)

const (
	defaultTimeout      = 120 * time.Second
	defaultMaxRedirects = 10
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL resolves relative request URLs.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the default per-request timeout. Defaults to 2 minutes.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// MaxRedirects caps how many 301/302 responses are followed for one
	// request. Zero means the default of 10; to stop following redirects
	// set RequestOptions.NoFollowRedirects instead.
	MaxRedirects int `yaml:"max_redirects" mapstructure:"max_redirects" validate:"gte=0"`

	// UserAgent is sent when the caller sets none. Defaults to gosh/<version>.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Auth configures default authentication applied to all requests.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// TLS configures TLS settings for the HTTP transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are extra default headers applied when the caller has not set them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry configures Client.Retry. Nil uses DefaultRetryConfig.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRedirects == 0 {
		c.MaxRedirects = defaultMaxRedirects
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return validation.New().
		PositiveDuration("timeout", c.Timeout).
		NonNegative("max_redirects", int64(c.MaxRedirects)).
		Merge("tls", c.TLS.Validate()).
		Err()
}

// DefaultRetryConfig returns a default retry config suitable for HTTP clients.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}
