package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goerrors "github.com/kbukum/gosh/errors"
	"github.com/kbukum/gosh/process"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "gosh", cfg.Base.Name)
	assert.Equal(t, "development", cfg.Base.Environment)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, process.DefaultShell, cfg.Command.Shell)
	assert.Equal(t, int64(process.DefaultMaxOutputBytes), cfg.Command.MaxOutputBytes)
	assert.True(t, cfg.Command.EchoCommands)
	assert.Equal(t, 120*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 10, cfg.HTTP.MaxRedirects)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Retry.Delay)
	assert.True(t, cfg.Retry.EchoFailures)
	assert.False(t, cfg.Observability.Enabled)
	assert.Equal(t, "gosh", cfg.Observability.ServiceName)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yml", `
base:
  name: deploy
  environment: staging
command:
  shell: /bin/bash
  echo: false
  timeout: 30s
http:
  max_redirects: 3
retry:
  max_retries: 2
  delay: 250ms
`)

	cfg, err := Load(WithConfigFile(path), WithEnvFile(filepath.Join(t.TempDir(), "none.env")), WithHome(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, "deploy", cfg.Base.Name)
	assert.Equal(t, "staging", cfg.Base.Environment)
	assert.Equal(t, "/bin/bash", cfg.Command.Shell)
	assert.False(t, cfg.Command.EchoCommands)
	assert.Equal(t, 30*time.Second, cfg.Command.Timeout)
	assert.Equal(t, int64(process.DefaultMaxOutputBytes), cfg.Command.MaxOutputBytes)
	assert.Equal(t, 3, cfg.HTTP.MaxRedirects)
	assert.Equal(t, 120*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.Delay)
	assert.True(t, cfg.Retry.EchoFailures)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yml", "retry:\n  max_retries: 2\n")
	t.Setenv("RETRY_MAX_RETRIES", "7")
	t.Setenv("HTTP_TIMEOUT", "5s")

	cfg, err := Load(WithConfigFile(path), WithEnvFile(filepath.Join(t.TempDir(), "none.env")), WithHome(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Retry.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeFile(t, "config.yml", `
base:
  environment: moon
retry:
  max_retries: -1
observability:
  sample_rate: 2
`)

	_, err := Load(WithConfigFile(path), WithEnvFile(filepath.Join(t.TempDir(), "none.env")), WithHome(t.TempDir()))
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, goerrors.ErrCodeInvalidInput))
	assert.Contains(t, err.Error(), "retry.max_retries")
	assert.Contains(t, err.Error(), "observability.sample_rate")
}

func TestValidate_SectionRules(t *testing.T) {
	cfg := Default()
	cfg.Base.Environment = "moon"
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base.environment: must be one of: development, staging, production")
	assert.Contains(t, err.Error(), "logging")
}

func TestHTTPConfig_CarriesRetryPolicy(t *testing.T) {
	cfg := Default()
	cfg.Retry.MaxRetries = 1

	httpCfg := cfg.HTTPConfig()
	require.NotNil(t, httpCfg.Retry)
	assert.Equal(t, 1, httpCfg.Retry.MaxRetries)
	assert.NotNil(t, httpCfg.Retry.RetryIf)
}

func TestBaseConfig(t *testing.T) {
	b := BaseConfig{Name: "svc"}
	b.ApplyDefaults()
	assert.Equal(t, "development", b.Environment)
	assert.NoError(t, b.Validate())

	assert.Error(t, (&BaseConfig{Environment: "production"}).Validate())
}

func TestResolver_SearchOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.yml", []byte("{}"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/home/u/.config/gosh/config.yml", []byte("{}"), 0o644))
	require.NoError(t, afero.WriteFile(fs, ".env", []byte(""), 0o644))

	r := &Resolver{Fs: fs, Home: "/home/u"}
	files := r.ResolveFiles("gosh", LoaderConfig{})
	assert.Equal(t, "config.yml", files.ConfigFile)
	assert.Equal(t, ".env", files.EnvFile)

	require.NoError(t, afero.WriteFile(fs, ".gosh.yml", []byte("{}"), 0o644))
	require.NoError(t, afero.WriteFile(fs, ".env.gosh", []byte(""), 0o644))
	files = r.ResolveFiles("gosh", LoaderConfig{})
	assert.Equal(t, ".gosh.yml", files.ConfigFile)
	assert.Equal(t, ".env.gosh", files.EnvFile)
}

func TestResolver_HomeFallback(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/home/u/.config/gosh/config.yml", []byte("{}"), 0o644))
	files := (&Resolver{Fs: fs, Home: "/home/u"}).ResolveFiles("gosh", LoaderConfig{})
	assert.Equal(t, "/home/u/.config/gosh/config.yml", files.ConfigFile)
	assert.Empty(t, files.EnvFile)
}

func TestResolver_ExplicitPathsWin(t *testing.T) {
	files := (&Resolver{Fs: afero.NewMemMapFs()}).ResolveFiles("gosh", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
	assert.Equal(t, ResolvedFiles{ConfigFile: "a.yml", EnvFile: "b.env"}, files)
}

func TestLoad_DotEnvAndPrefix(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/gosh.yml", []byte("command:\n  shell: /bin/bash\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/.env", []byte("RETRY_DELAY=2s\nHTTP_MAX_REDIRECTS=4\n"), 0o644))

	cfg, err := Load(
		WithFileSystem(fs),
		WithConfigFile("/work/gosh.yml"),
		WithEnvFile("/work/.env"),
		WithHome("/nowhere"),
		WithEnviron([]string{
			"HTTP_MAX_REDIRECTS=6",
			"GOSH_COMMAND_SHELL=/bin/zsh",
			"COMMAND_SHELL=/bin/dash",
			"HTTP_PROXY=http://proxy",
			"PATH=/usr/bin",
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Retry.Delay)
	assert.Equal(t, 6, cfg.HTTP.MaxRedirects)
	assert.Equal(t, "/bin/zsh", cfg.Command.Shell)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.yml", []byte("retry: [unclosed"), 0o644))

	_, err := Load(WithFileSystem(fs), WithConfigFile("bad.yml"), WithEnviron([]string{}), WithHome("/nowhere"))
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, goerrors.ErrCodeInvalidInput))
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := afero.NewMemMapFs()
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnviron([]string{"A=1"})(&lc)
	WithHome("/home/u")(&lc)
	assert.Equal(t, fs, lc.Fs)
	assert.Equal(t, "/path/to/config.yml", lc.ConfigFile)
	assert.Equal(t, "/path/to/.env", lc.EnvFile)
	assert.Equal(t, []string{"A=1"}, lc.Environ)
	assert.Equal(t, "/home/u", lc.Home)
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	assert.Equal(t,
		[]string{"http_tls_ca_file", "http.tls.ca.file", "http.tls_ca_file", "http.tls.ca_file"},
		generateEnvKeyVariants("HTTP_TLS_CA_FILE"))
	assert.Contains(t, generateEnvKeyVariants("RETRY_MAX_RETRIES"), "retry.max_retries")
	assert.Equal(t, []string{"shell"}, generateEnvKeyVariants("SHELL"))
}

func TestSectionsOf(t *testing.T) {
	sections := sectionsOf(Default())
	for _, s := range []string{"base", "logging", "command", "http", "retry", "observability"} {
		assert.True(t, sections[s], s)
	}
	assert.Empty(t, sectionsOf("x"))
}
