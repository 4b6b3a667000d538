// Package config loads assetstager.yaml and turns it into a manifest and run settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/assetstager/internal/errors"
	"git.home.luguber.info/inful/assetstager/internal/manifest"
)

const (
	// Version is the only configuration format version understood.
	Version = "1.0"
	// DefaultPath is the configuration file used when no --config flag is given.
	DefaultPath = "assetstager.yaml"
)

// Config represents the application configuration.
type Config struct {
	Version     string          `yaml:"version"`
	Root        string          `yaml:"root,omitempty"`        // Project root; relative paths resolve against it
	Directories []string        `yaml:"directories,omitempty"` // Created before copying; derived from assets when empty
	Assets      []Asset         `yaml:"assets"`
	Stage       StageConfig     `yaml:"stage"`
	Logging     LoggingConfig   `yaml:"logging"`
	Metrics     MetricsConfig   `yaml:"metrics,omitempty"`
	Watch       WatchConfig     `yaml:"watch"`
	Templates   TemplatesConfig `yaml:"templates"`
	Report      ReportConfig    `yaml:"report,omitempty"`

	// path is the file the configuration was read from; empty for the built-in default.
	path string
}

// Asset is one manifest entry as written in the configuration file.
type Asset struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Name string `yaml:"name,omitempty"`
}

// StageConfig controls the copy run.
type StageConfig struct {
	Workers int `yaml:"workers"` // Concurrent copies; 1 copies sequentially
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig represents metrics export configuration.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // Prometheus textfile written after each run
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce       string `yaml:"debounce"`        // Quiet period after a source change, e.g. "500ms"
	ResyncInterval string `yaml:"resync_interval"` // Periodic full re-stage, "0" disables
}

// TemplatesConfig locates the HTML templates checked by the refs command.
type TemplatesConfig struct {
	Dirs       []string `yaml:"dirs"`
	Extensions []string `yaml:"extensions"`
	URLPrefix  string   `yaml:"url_prefix"`  // URL path under which static files are served
	StaticRoot string   `yaml:"static_root"` // Directory served at URLPrefix
}

// ReportConfig customizes the console report.
type ReportConfig struct {
	NextSteps []string `yaml:"next_steps,omitempty"`
}

// Path returns the file the configuration was loaded from, or "" for the built-in default.
func (c *Config) Path() string {
	return c.path
}

// Manifest converts the configured assets into a manifest.
func (c *Config) Manifest() manifest.Manifest {
	m := make(manifest.Manifest, 0, len(c.Assets))
	for _, a := range c.Assets {
		m = append(m, manifest.Entry{Source: a.From, Destination: a.To, Name: a.Name})
	}
	return m
}

// DebounceDuration returns the parsed watch debounce.
func (c *Config) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(c.Watch.Debounce)
	return d
}

// ResyncDuration returns the parsed resync interval; zero disables resyncs.
func (c *Config) ResyncDuration() time.Duration {
	d, _ := time.ParseDuration(c.Watch.ResyncInterval)
	return d
}

// Default returns the built-in configuration: the default manifest staged into
// the current directory.
func Default() *Config {
	cfg := &Config{Version: Version, Directories: manifest.DefaultDirectories()}
	for _, e := range manifest.Default() {
		cfg.Assets = append(cfg.Assets, Asset{From: e.Source, To: e.Destination, Name: e.Name})
	}
	applyDefaults(cfg)
	return cfg
}

// LoadOrDefault loads path. A missing file falls back to Default unless the
// path was given explicitly, in which case it is a not-found error.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		if _, envErr := loadEnvFiles(filepath.Dir(path)); envErr != nil {
			return nil, derrors.WrapError(envErr, derrors.CategoryConfig, "failed to load environment file").Build()
		}
		return Default(), nil
	}
	return nil, err
}

// Load loads a configuration file. Environment files next to it are applied
// first so ${VAR} references can resolve against them.
func Load(path string) (*Config, error) {
	if _, err := loadEnvFiles(filepath.Dir(path)); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to load environment file").Build()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.NewError(derrors.CategoryNotFound, "configuration file not found").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.path = path
	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}
	return cfg, nil
}

// Parse expands environment references in data and decodes, normalizes,
// defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to unmarshal config").Build()
	}
	if cfg.Version != Version {
		return nil, derrors.ConfigError(fmt.Sprintf("unsupported configuration version: %q (expected %s)", cfg.Version, Version)).Build()
	}
	if err := normalize(&cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "normalize").Build()
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "configuration validation failed").Build()
	}
	return &cfg, nil
}
