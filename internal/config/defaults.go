package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Default values applied when a field is left empty.
const (
	DefaultWorkers        = 1
	DefaultDebounce       = "500ms"
	DefaultResyncInterval = "10m"
	DefaultURLPrefix      = "/static/"
	DefaultStaticRoot     = "src/static"
)

var (
	DefaultTemplateDirs       = []string{"src/templates"}
	DefaultTemplateExtensions = []string{".html"}
)

// normalize case-folds enumerations before defaults and validation run.
func normalize(cfg *Config) error {
	level, err := logLevelNormalizer.NormalizeWithError(string(cfg.Logging.Level))
	if err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	format, err := logFormatNormalizer.NormalizeWithError(string(cfg.Logging.Format))
	if err != nil {
		return fmt.Errorf("logging.format: %w", err)
	}
	cfg.Logging.Level, cfg.Logging.Format = level, format

	for i, ext := range cfg.Templates.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Templates.Extensions[i] = ext
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Stage.Workers == 0 {
		cfg.Stage.Workers = DefaultWorkers
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = DefaultDebounce
	}
	if cfg.Watch.ResyncInterval == "" {
		cfg.Watch.ResyncInterval = DefaultResyncInterval
	}
	if len(cfg.Templates.Dirs) == 0 {
		cfg.Templates.Dirs = append([]string(nil), DefaultTemplateDirs...)
	}
	if len(cfg.Templates.Extensions) == 0 {
		cfg.Templates.Extensions = append([]string(nil), DefaultTemplateExtensions...)
	}
	if cfg.Templates.URLPrefix == "" {
		cfg.Templates.URLPrefix = DefaultURLPrefix
	}
	if !strings.HasSuffix(cfg.Templates.URLPrefix, "/") {
		cfg.Templates.URLPrefix += "/"
	}
	if cfg.Templates.StaticRoot == "" {
		cfg.Templates.StaticRoot = DefaultStaticRoot
	}
}

func validate(cfg *Config) error {
	var errs []error
	if cfg.Stage.Workers < 1 {
		errs = append(errs, fmt.Errorf("stage.workers must be at least 1, got %d", cfg.Stage.Workers))
	}
	if d, err := time.ParseDuration(cfg.Watch.Debounce); err != nil {
		errs = append(errs, fmt.Errorf("watch.debounce: %w", err))
	} else if d <= 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must be positive, got %s", cfg.Watch.Debounce))
	}
	if d, err := time.ParseDuration(cfg.Watch.ResyncInterval); err != nil {
		errs = append(errs, fmt.Errorf("watch.resync_interval: %w", err))
	} else if d < 0 {
		errs = append(errs, fmt.Errorf("watch.resync_interval must not be negative, got %s", cfg.Watch.ResyncInterval))
	}
	if !strings.HasPrefix(cfg.Templates.URLPrefix, "/") {
		errs = append(errs, fmt.Errorf("templates.url_prefix must start with '/', got %q", cfg.Templates.URLPrefix))
	}
	for i, dir := range cfg.Directories {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, fmt.Errorf("directories[%d] is empty", i))
		}
	}
	if err := cfg.Manifest().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
