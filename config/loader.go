package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	goerrors "github.com/kbukum/gosh/errors"
	"github.com/kbukum/gosh/logger"
)

// LoaderConfig holds the loader's collaborators and file overrides.
type LoaderConfig struct {
	Fs         afero.Fs
	ConfigFile string   // explicit config file; skips the search
	EnvFile    string   // explicit .env file; skips the search
	Environ    []string // KEY=value pairs; nil means os.Environ()
	Home       string   // home directory; "" means os.UserHomeDir()
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem reads config and .env files from fs.
func WithFileSystem(fs afero.Fs) LoaderOption {
	return func(lc *LoaderConfig) { lc.Fs = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnviron replaces the process environment as the source of overrides.
func WithEnviron(environ []string) LoaderOption {
	return func(lc *LoaderConfig) { lc.Environ = environ }
}

// WithHome sets the directory searched for ~/.config/<name>/config.yml.
func WithHome(dir string) LoaderOption {
	return func(lc *LoaderConfig) { lc.Home = dir }
}

// Resolver finds the config and .env files for a tool.
type Resolver struct {
	Fs   afero.Fs
	Home string
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths from lc when set, otherwise the
// first existing candidate of each kind. Either path may be "".
func (r *Resolver) ResolveFiles(name string, lc LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(r.configCandidates(name))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first([]string{".env." + name, ".env"})
	}
	return files
}

// configCandidates lists, in order: ./<name>.yml, ./.<name>.yml,
// ./config/<name>.yml, ./config.yml and ~/.config/<name>/config.yml.
func (r *Resolver) configCandidates(name string) []string {
	paths := []string{
		name + ".yml",
		"." + name + ".yml",
		filepath.Join("config", name+".yml"),
		"config.yml",
	}
	if r.Home != "" {
		paths = append(paths, filepath.Join(r.Home, ".config", name, "config.yml"))
	}
	return paths
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if ok, _ := afero.Exists(r.Fs, p); ok {
			return p
		}
	}
	return ""
}

// LoadConfig overlays the resolved config file and environment onto cfg,
// which must be a pointer to a struct with mapstructure tags. Fields that
// neither source mentions keep their current values.
//
// Environment keys are matched against cfg's top-level sections:
// RETRY_MAX_RETRIES sets retry.max_retries, and an optional <NAME>_ prefix
// (GOSH_RETRY_MAX_RETRIES) is stripped first. Variables from the .env file
// never override the real environment.
func LoadConfig(name string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.Fs == nil {
		lc.Fs = afero.NewOsFs()
	}
	if lc.Environ == nil {
		lc.Environ = os.Environ()
	}
	if lc.Home == "" {
		lc.Home, _ = os.UserHomeDir()
	}

	files := (&Resolver{Fs: lc.Fs, Home: lc.Home}).ResolveFiles(name, lc)
	log := logger.Get("config")

	v := viper.New()
	v.SetFs(lc.Fs)
	if files.ConfigFile != "" {
		if ok, _ := afero.Exists(lc.Fs, files.ConfigFile); ok {
			v.SetConfigFile(files.ConfigFile)
			if err := v.ReadInConfig(); err != nil {
				return goerrors.InvalidInput("config_file", files.ConfigFile+": "+err.Error()).WithCause(err)
			}
		}
	}

	env := environMap(lc.Environ)
	if files.EnvFile != "" {
		dotenv, err := readEnvFile(lc.Fs, files.EnvFile)
		if err != nil {
			log.Warn("failed to load .env file", logger.ErrorFields("load_env", err))
		}
		for k, val := range dotenv {
			if _, set := env[k]; !set {
				env[k] = val
			}
		}
	}

	bindEnv(v, name, sectionsOf(cfg), env)

	if err := v.Unmarshal(cfg); err != nil {
		return goerrors.InvalidInput("config", err.Error()).WithCause(err)
	}
	return nil
}

func readEnvFile(fs afero.Fs, path string) (map[string]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return godotenv.Parse(f)
}

func environMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, val, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = val
		}
	}
	return env
}

// bindEnv sets every config key an environment variable can address.
// Prefixed variables are applied last so they win over bare ones.
func bindEnv(v *viper.Viper, name string, sections map[string]bool, env map[string]string) {
	prefix := strings.ToUpper(name) + "_"
	var prefixed []string
	for k, val := range env {
		if strings.HasPrefix(k, prefix) {
			prefixed = append(prefixed, k)
			continue
		}
		setVariants(v, k, val, sections)
	}
	for _, k := range prefixed {
		setVariants(v, strings.TrimPrefix(k, prefix), env[k], sections)
	}
}

func setVariants(v *viper.Viper, key, value string, sections map[string]bool) {
	for _, variant := range generateEnvKeyVariants(key) {
		section, _, nested := strings.Cut(variant, ".")
		if nested && sections[section] {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants returns the dotted keys an environment variable
// may mean, since underscores separate both sections and words:
//
//	HTTP_TLS_CA_FILE -> [http_tls_ca_file, http.tls.ca.file, http.tls_ca_file, http.tls.ca_file]
func generateEnvKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.Join(parts, ".")}
	for i := 1; i < len(parts)-1; i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return variants
}

// sectionsOf returns the top-level mapstructure keys of cfg.
func sectionsOf(cfg any) map[string]bool {
	t := reflect.TypeOf(cfg)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	sections := map[string]bool{}
	if t.Kind() != reflect.Struct {
		return sections
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if key == "" || key == "-" {
			key = strings.ToLower(f.Name)
		}
		sections[key] = true
	}
	return sections
}
