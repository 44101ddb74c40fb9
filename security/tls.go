package security

import (
	"crypto/tls"
	"crypto/x509"

	"github.com/spf13/afero"

	goerrors "github.com/kbukum/gosh/errors"
)

// TLSConfig holds client TLS settings for outgoing HTTPS requests.
type TLSConfig struct {
	// SkipVerify disables server certificate verification.
	// Not recommended for production.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// CAFile is the path to the CA certificate file for verifying the server.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CertFile is the path to the client TLS certificate file (for mTLS).
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`

	// KeyFile is the path to the client TLS key file (for mTLS).
	KeyFile string `yaml:"key_file" mapstructure:"key_file"`

	// ServerName overrides the server name used for certificate verification.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is the minimum TLS version. Defaults to TLS 1.2.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`
}

// Build creates a *tls.Config reading certificate files from the OS.
// It returns nil when nothing is configured so callers keep Go's defaults.
func (c *TLSConfig) Build() (*tls.Config, error) {
	return c.BuildFs(afero.NewOsFs())
}

// BuildFs is Build with certificate files read from fs.
func (c *TLSConfig) BuildFs(fs afero.Fs) (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	minVersion := c.MinVersion
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}
	cfg := &tls.Config{
		InsecureSkipVerify: c.SkipVerify, //nolint:gosec // opt-in for self-signed endpoints
		ServerName:         c.ServerName,
		MinVersion:         minVersion,
	}

	if c.CAFile != "" {
		ca, err := afero.ReadFile(fs, c.CAFile)
		if err != nil {
			return nil, goerrors.InvalidInput("tls.ca_file", err.Error()).WithCause(err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(ca) {
			return nil, goerrors.InvalidInput("tls.ca_file", "no certificate found in "+c.CAFile)
		}
		cfg.RootCAs = pool
	}

	if c.CertFile != "" {
		certPEM, err := afero.ReadFile(fs, c.CertFile)
		if err != nil {
			return nil, goerrors.InvalidInput("tls.cert_file", err.Error()).WithCause(err)
		}
		keyPEM, err := afero.ReadFile(fs, c.KeyFile)
		if err != nil {
			return nil, goerrors.InvalidInput("tls.key_file", err.Error()).WithCause(err)
		}
		cert, err := tls.X509KeyPair(certPEM, keyPEM)
		if err != nil {
			return nil, goerrors.InvalidInput("tls.cert_file", err.Error()).WithCause(err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

// Validate checks that the TLS configuration is consistent.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return goerrors.Validation("cert_file and key_file must be provided together")
	}
	return nil
}

// IsEnabled reports whether any TLS setting is configured.
func (c *TLSConfig) IsEnabled() bool {
	if c == nil {
		return false
	}
	return c.SkipVerify || c.CAFile != "" || c.CertFile != "" || c.KeyFile != "" || c.ServerName != "" || c.MinVersion != 0
}
