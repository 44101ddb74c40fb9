package security

import (
	"crypto/tls"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goerrors "github.com/kbukum/gosh/errors"
	"github.com/kbukum/gosh/security/tlstest"
)

func TestTLSConfig_BuildNothingConfigured(t *testing.T) {
	var nilCfg *TLSConfig
	result, err := nilCfg.Build()
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = (&TLSConfig{}).Build()
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestTLSConfig_BuildOptions(t *testing.T) {
	result, err := (&TLSConfig{SkipVerify: true, ServerName: "example.com"}).Build()
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.InsecureSkipVerify)
	assert.Equal(t, "example.com", result.ServerName)
	assert.Equal(t, uint16(tls.VersionTLS12), result.MinVersion)

	result, err = (&TLSConfig{MinVersion: tls.VersionTLS13}).Build()
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS13), result.MinVersion)
}

func TestTLSConfig_BuildFromFiles(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)

	result, err := (&TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile}).Build()
	require.NoError(t, err)
	assert.NotNil(t, result.RootCAs)
	assert.Len(t, result.Certificates, 1)
}

func TestTLSConfig_BuildFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	certs := tlstest.GenerateTLSCerts(t).WriteTo(t, fs, "/etc/gosh")

	result, err := (&TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile}).BuildFs(fs)
	require.NoError(t, err)
	assert.NotNil(t, result.RootCAs)
	assert.Len(t, result.Certificates, 1)

	_, err = (&TLSConfig{CAFile: "/etc/gosh/missing.pem"}).BuildFs(fs)
	assert.True(t, goerrors.Is(err, goerrors.ErrCodeInvalidInput))
}

func TestTLSConfig_BuildErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  TLSConfig
	}{
		{"missing CA", TLSConfig{CAFile: "/nonexistent/ca.pem"}},
		{"invalid CA", TLSConfig{CAFile: tlstest.WriteInvalidPEM(t, "bad-ca.pem")}},
		{"missing pair", TLSConfig{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}},
		{"cert without key", TLSConfig{CertFile: "/some/cert.pem"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.cfg.Build()
			assert.Error(t, err)
		})
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	var nilCfg *TLSConfig
	assert.NoError(t, nilCfg.Validate())
	assert.NoError(t, (&TLSConfig{CertFile: "c", KeyFile: "k"}).Validate())
	assert.Error(t, (&TLSConfig{CertFile: "c"}).Validate())
	assert.Error(t, (&TLSConfig{KeyFile: "k"}).Validate())
}

func TestTLSConfig_IsEnabled(t *testing.T) {
	var nilCfg *TLSConfig
	assert.False(t, nilCfg.IsEnabled())
	assert.False(t, (&TLSConfig{}).IsEnabled())
	assert.True(t, (&TLSConfig{CAFile: "ca.pem"}).IsEnabled())
	assert.True(t, (&TLSConfig{SkipVerify: true}).IsEnabled())
}
