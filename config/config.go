// Package config resolves runtime settings from defaults, an optional YAML
// file, FILM_MAP_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"film-map-cli/store"
)

const (
	envSource   = "FILM_MAP_SOURCE"
	envSeed     = "FILM_MAP_SEED"
	envCacheTTL = "FILM_MAP_CACHE_TTL"
	envLogFile  = "FILM_MAP_LOG_FILE"
	envTrace    = "FILM_MAP_TRACE"
	envConfig   = "FILM_MAP_CONFIG"

	DefaultSource   = "builtin"
	DefaultCacheTTL = 24 * time.Hour

	configFileName = "config.yaml"
	logFileName    = "film-map.log"
)

// Config captures runtime configuration for the application.
type Config struct {
	Source   string        `yaml:"source"`
	Seed     int64         `yaml:"seed"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	Logging  Logging       `yaml:"logging"`

	// File is the config file that was read, if any.
	File string `yaml:"-"`
}

type Logging struct {
	FilePath string `yaml:"file"`
	Trace    bool   `yaml:"trace"`
}

// Overrides holds values set explicitly on the command line. Nil fields
// were not given.
type Overrides struct {
	ConfigFile *string
	Source     *string
	Seed       *int64
	CacheTTL   *time.Duration
	LogFile    *string
	Trace      *bool
}

// Error marks configuration problems; callers exit with status 2.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return "configuration error: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is a configuration problem.
func IsConfigError(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr)
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	cfg := Config{
		Source:   DefaultSource,
		CacheTTL: DefaultCacheTTL,
	}
	if path, err := store.CachePath(logFileName); err == nil {
		cfg.Logging.FilePath = path
	}
	return cfg
}

// Load resolves configuration for the current process.
func Load(flags Overrides) (Config, error) {
	return LoadEnv(flags, os.Environ())
}

// LoadEnv allows tests to supply a specific environment.
func LoadEnv(flags Overrides, environ []string) (Config, error) {
	env := parseEnv(environ)
	cfg := Defaults()

	path, explicit := configFile(flags, env)
	if path != "" {
		if err := readFile(path, explicit, &cfg); err != nil {
			return Config{}, &Error{Err: err}
		}
	}

	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, &Error{Err: err}
	}
	applyOverrides(&cfg, flags)

	if err := Validate(cfg); err != nil {
		return Config{}, &Error{Err: err}
	}
	return cfg, nil
}

// Validate ensures the resolved configuration is usable.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Source) == "" {
		return errors.New("source must not be empty")
	}
	if cfg.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must be >= 0 (got %s)", cfg.CacheTTL)
	}
	return nil
}

func configFile(flags Overrides, env map[string]string) (string, bool) {
	if flags.ConfigFile != nil && strings.TrimSpace(*flags.ConfigFile) != "" {
		return strings.TrimSpace(*flags.ConfigFile), true
	}
	if v := strings.TrimSpace(env[envConfig]); v != "" {
		return v, true
	}
	path, err := store.ConfigPath(configFileName)
	if err != nil {
		return "", false
	}
	return path, false
}

func readFile(path string, required bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.File = path
	return nil
}

func applyEnv(cfg *Config, env map[string]string) error {
	if v, ok := envValue(env, envSource); ok {
		cfg.Source = v
	}
	if v, ok := envValue(env, envSeed); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", envSeed, err)
		}
		cfg.Seed = seed
	}
	if v, ok := envValue(env, envCacheTTL); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envCacheTTL, err)
		}
		cfg.CacheTTL = ttl
	}
	if v, ok := envValue(env, envLogFile); ok {
		cfg.Logging.FilePath = v
	}
	if v, ok := envValue(env, envTrace); ok {
		trace, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envTrace, err)
		}
		cfg.Logging.Trace = trace
	}
	return nil
}

func applyOverrides(cfg *Config, flags Overrides) {
	if flags.Source != nil {
		cfg.Source = strings.TrimSpace(*flags.Source)
	}
	if flags.Seed != nil {
		cfg.Seed = *flags.Seed
	}
	if flags.CacheTTL != nil {
		cfg.CacheTTL = *flags.CacheTTL
	}
	if flags.LogFile != nil {
		cfg.Logging.FilePath = strings.TrimSpace(*flags.LogFile)
	}
	if flags.Trace != nil {
		cfg.Logging.Trace = *flags.Trace
	}
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envValue(env map[string]string, key string) (string, bool) {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
