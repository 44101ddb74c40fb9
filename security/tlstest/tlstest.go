// Package tlstest generates throwaway CA, server and client certificates
// for tests that exercise TLS transports. Files are written under
// t.TempDir() and removed with it.
//
//	certs := tlstest.GenerateTLSCerts(t)
//	cfg := security.TLSConfig{CAFile: certs.CAFile}
package tlstest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// TLSCerts is one CA plus a leaf certificate it signed. The leaf is valid
// for localhost, 127.0.0.1 and ::1, for both server and client auth.
type TLSCerts struct {
	CAFile   string
	CertFile string
	KeyFile  string

	CAPEM   []byte
	CertPEM []byte
	KeyPEM  []byte

	// ServerTLS is the leaf as a tls.Certificate, ready for httptest.
	ServerTLS tls.Certificate
	// CertPool trusts the CA.
	CertPool *x509.CertPool
}

// GenerateTLSCerts creates the certificates and writes them to t.TempDir().
func GenerateTLSCerts(t testing.TB) *TLSCerts {
	t.Helper()

	caKey := newKey(t)
	now := time.Now()
	caTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{"gosh test CA"}},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey)
	if err != nil {
		t.Fatalf("tlstest: create CA cert: %v", err)
	}
	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		t.Fatalf("tlstest: parse CA cert: %v", err)
	}

	leafKey := newKey(t)
	leafTemplate := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{Organization: []string{"gosh test"}, CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		NotBefore:    now.Add(-time.Hour),
		NotAfter:     now.Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}
	leafDER, err := x509.CreateCertificate(rand.Reader, leafTemplate, caCert, &leafKey.PublicKey, caKey)
	if err != nil {
		t.Fatalf("tlstest: create leaf cert: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(leafKey)
	if err != nil {
		t.Fatalf("tlstest: marshal leaf key: %v", err)
	}

	certs := &TLSCerts{
		CAPEM:    pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: caDER}),
		CertPEM:  pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: leafDER}),
		KeyPEM:   pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}),
		CertPool: x509.NewCertPool(),
	}
	certs.CertPool.AddCert(caCert)

	certs.ServerTLS, err = tls.X509KeyPair(certs.CertPEM, certs.KeyPEM)
	if err != nil {
		t.Fatalf("tlstest: load key pair: %v", err)
	}

	dir := t.TempDir()
	certs.CAFile = writeFile(t, afero.NewOsFs(), filepath.Join(dir, "ca.pem"), certs.CAPEM)
	certs.CertFile = writeFile(t, afero.NewOsFs(), filepath.Join(dir, "cert.pem"), certs.CertPEM)
	certs.KeyFile = writeFile(t, afero.NewOsFs(), filepath.Join(dir, "key.pem"), certs.KeyPEM)
	return certs
}

// WriteTo copies the PEM files into dir on fs and returns a TLSCerts whose
// paths point there.
func (c *TLSCerts) WriteTo(t testing.TB, fs afero.Fs, dir string) *TLSCerts {
	t.Helper()
	out := *c
	out.CAFile = writeFile(t, fs, filepath.Join(dir, "ca.pem"), c.CAPEM)
	out.CertFile = writeFile(t, fs, filepath.Join(dir, "cert.pem"), c.CertPEM)
	out.KeyFile = writeFile(t, fs, filepath.Join(dir, "key.pem"), c.KeyPEM)
	return &out
}

// WriteInvalidPEM writes a PEM-shaped file whose payload is not a
// certificate.
func WriteInvalidPEM(t testing.TB, filename string) string {
	t.Helper()
	content := []byte("-----BEGIN CERTIFICATE-----\nnot-valid-base64-data\n-----END CERTIFICATE-----\n")
	return writeFile(t, afero.NewOsFs(), filepath.Join(t.TempDir(), filename), content)
}

func newKey(t testing.TB) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("tlstest: generate key: %v", err)
	}
	return key
}

func writeFile(t testing.TB, fs afero.Fs, path string, data []byte) string {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0o700); err != nil && !os.IsExist(err) {
		t.Fatalf("tlstest: mkdir %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		t.Fatalf("tlstest: write %s: %v", path, err)
	}
	return path
}
