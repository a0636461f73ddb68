// Package config resolves runtime settings for the ponto CLI and HTTP
// adapter.
//
// Sources, lowest precedence first:
//  1. built-in defaults
//  2. YAML file (ponto.yaml or --config)
//  3. .env file, then the process environment (PONTO_* variables)
//  4. command-line flags, applied by the cli package
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config path is given. It is optional.
const DefaultFile = "ponto.yaml"

// DefaultEnvFile is read for PONTO_* variables when present.
const DefaultEnvFile = ".env"

// MinJustificationLength is the floor for justification_min_length. Settings
// may raise the bar for administrative edits but never lower it.
const MinJustificationLength = 10

// Config holds every tunable setting.
type Config struct {
	Database               string        `yaml:"database"`
	BusyTimeout            time.Duration `yaml:"busy_timeout"`
	JustificationMinLength int           `yaml:"justification_min_length"`
	LogRetentionDays       int           `yaml:"log_retention_days"`
	Location               string        `yaml:"location"`
	Actor                  string        `yaml:"actor"`
	HTTPAddr               string        `yaml:"http_addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database:               "ponto.db",
		BusyTimeout:            10 * time.Second,
		JustificationMinLength: MinJustificationLength,
		LogRetentionDays:       90,
		Location:               "Local",
		Actor:                  "system",
		HTTPAddr:               "127.0.0.1:8080",
	}
}

// Sources tells Load where to look.
type Sources struct {
	// File is the YAML path. Empty means DefaultFile, which may be absent.
	File string

	// EnvFile is the dotenv path. Empty means DefaultEnvFile, which may be absent.
	EnvFile string

	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load resolves configuration from defaults, file and environment, then
// validates the result.
func Load(src Sources) (Config, error) {
	cfg := Default()

	file, explicit := src.File, true
	if file == "" {
		file, explicit = DefaultFile, false
	}
	if err := cfg.mergeFile(file, explicit); err != nil {
		return Config{}, err
	}

	envFile, explicitEnv := src.EnvFile, true
	if envFile == "" {
		envFile, explicitEnv = DefaultEnvFile, false
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if explicitEnv || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
		dotenv = map[string]string{}
	}

	lookup := src.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.mergeEnv(func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown keys
	if err := decoder.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: not an integer: %q", key, v))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: not a duration: %q", key, v))
				return
			}
			*dst = d
		}
	}

	str("PONTO_DATABASE", &c.Database)
	dur("PONTO_BUSY_TIMEOUT", &c.BusyTimeout)
	num("PONTO_JUSTIFICATION_MIN_LENGTH", &c.JustificationMinLength)
	num("PONTO_LOG_RETENTION_DAYS", &c.LogRetentionDays)
	str("PONTO_LOCATION", &c.Location)
	str("PONTO_ACTOR", &c.Actor)
	str("PONTO_HTTP_ADDR", &c.HTTPAddr)

	return errors.Join(errs...)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Database == "" {
		errs = append(errs, errors.New("database: must not be empty"))
	}
	if c.BusyTimeout <= 0 {
		errs = append(errs, fmt.Errorf("busy_timeout: must be positive, got %s", c.BusyTimeout))
	}
	if c.JustificationMinLength < MinJustificationLength {
		errs = append(errs, fmt.Errorf("justification_min_length: must be at least %d, got %d",
			MinJustificationLength, c.JustificationMinLength))
	}
	if c.LogRetentionDays < 0 {
		errs = append(errs, fmt.Errorf("log_retention_days: must not be negative, got %d", c.LogRetentionDays))
	}
	if _, err := c.Loc(); err != nil {
		errs = append(errs, fmt.Errorf("location: %w", err))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr: must not be empty"))
	}
	return errors.Join(errs...)
}

// Loc resolves Location. "Local" and "" mean the host zone.
func (c Config) Loc() (*time.Location, error) {
	switch c.Location {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	return time.LoadLocation(c.Location)
}
