package httpclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kbukum/gosh/security"
	"github.com/kbukum/gosh/version"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	assert.Equal(t, 120*time.Second, cfg.Timeout)
	assert.Equal(t, 10, cfg.MaxRedirects)
	assert.Equal(t, version.UserAgent(), cfg.UserAgent)
}

func TestConfig_ApplyDefaults_PreservesExisting(t *testing.T) {
	cfg := Config{Timeout: 10 * time.Second, MaxRedirects: 2, UserAgent: "x"}
	cfg.ApplyDefaults()
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxRedirects)
	assert.Equal(t, "x", cfg.UserAgent)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, (&Config{Timeout: time.Second}).Validate())
	assert.Error(t, (&Config{Timeout: -1}).Validate())
	assert.Error(t, (&Config{Timeout: time.Second, MaxRedirects: -1}).Validate())
	assert.Error(t, (&Config{Timeout: time.Second, TLS: &security.TLSConfig{CertFile: "/only/cert.pem"}}).Validate())
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Delay)
	assert.True(t, cfg.EchoFailures)
	assert.NotNil(t, cfg.RetryIf)
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "non_success_status", NonSuccessStatus.String())
	assert.Equal(t, "transport_failure", TransportFailure.String())
	assert.Equal(t, "unknown", ErrorKind(9).String())
}
