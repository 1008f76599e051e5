// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// LogLevelDebug logs engine state transitions and every handler step.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn only logs warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError only logs errors.
	LogLevelError LogLevel = "error"

	// LogFormatText is the human-readable charmbracelet/log formatter.
	LogFormatText LogFormat = "text"
	// LogFormatJSON writes one JSON object per record.
	LogFormatJSON LogFormat = "json"
	// LogFormatLogfmt writes logfmt key=value records.
	LogFormatLogfmt LogFormat = "logfmt"

	// ColorModeAuto colors output when stdout is a terminal.
	ColorModeAuto ColorMode = "auto"
	// ColorModeAlways forces colored output.
	ColorModeAlways ColorMode = "always"
	// ColorModeNever disables colored output.
	ColorModeNever ColorMode = "never"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidColorMode is returned when a ColorMode value is not recognized.
	ErrInvalidColorMode = errors.New("invalid color mode")
	// ErrInvalidSearchPath is returned for an empty or whitespace-only search path.
	ErrInvalidSearchPath = errors.New("invalid search path")
	// ErrInvalidTimeout is returned for a negative script timeout.
	ErrInvalidTimeout = errors.New("invalid timeout")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level written by the host logger.
	LogLevel string

	// LogFormat selects the charmbracelet/log formatter.
	LogFormat string

	// ColorMode controls styled terminal output.
	ColorMode string

	// InvalidValueError reports a field value outside its allowed set.
	// It wraps the field's sentinel for errors.Is() compatibility.
	InvalidValueError struct {
		Field    string
		Value    string
		Allowed  []string
		sentinel error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the host CLI configuration.
	Config struct {
		Log      LogConfig      `json:"log" mapstructure:"log"`
		UI       UIConfig       `json:"ui" mapstructure:"ui"`
		Manifest ManifestConfig `json:"manifest" mapstructure:"manifest"`
		Runtime  RuntimeConfig  `json:"runtime" mapstructure:"runtime"`
	}

	// LogConfig configures the host logger.
	LogConfig struct {
		Level  LogLevel  `json:"level" mapstructure:"level"`
		Format LogFormat `json:"format" mapstructure:"format"`
		// File enables a rotating log file in addition to stderr when set.
		File       string `json:"file,omitempty" mapstructure:"file"`
		MaxSizeMB  int    `json:"max_size_mb" mapstructure:"max_size_mb"`
		MaxBackups int    `json:"max_backups" mapstructure:"max_backups"`
	}

	// UIConfig contains terminal output settings.
	UIConfig struct {
		Verbose bool      `json:"verbose" mapstructure:"verbose"`
		Color   ColorMode `json:"color" mapstructure:"color"`
	}

	// ManifestConfig controls where manifests are looked up by name.
	ManifestConfig struct {
		SearchPaths []string `json:"search_paths" mapstructure:"search_paths"`
	}

	// RuntimeConfig configures script actions.
	RuntimeConfig struct {
		// Dir is the working directory for scripts. Empty means the manifest's directory.
		Dir string `json:"dir,omitempty" mapstructure:"dir"`
		// Timeout bounds each script action. Zero disables the limit.
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      LogLevelInfo,
			Format:     LogFormatText,
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		UI: UIConfig{
			Color: ColorModeAuto,
		},
		Manifest: ManifestConfig{
			SearchPaths: []string{},
		},
		Runtime: RuntimeConfig{
			Timeout: 5 * time.Minute,
		},
	}
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.Color.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for i, p := range c.Manifest.SearchPaths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("manifest.search_paths[%d]: %w", i, ErrInvalidSearchPath))
		}
	}
	if c.Runtime.Timeout < 0 {
		errs = append(errs, fmt.Errorf("runtime.timeout %s: %w", c.Runtime.Timeout, ErrInvalidTimeout))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns the sentinel and every field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q (valid: %s)", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

func (e *InvalidValueError) Unwrap() error { return e.sentinel }

func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	return checkEnum("log.level", l, ErrInvalidLogLevel, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)
}

func (f LogFormat) String() string { return string(f) }

// IsValid returns whether the LogFormat is one of the defined formats.
func (f LogFormat) IsValid() (bool, []error) {
	return checkEnum("log.format", f, ErrInvalidLogFormat, LogFormatText, LogFormatJSON, LogFormatLogfmt)
}

func (m ColorMode) String() string { return string(m) }

// IsValid returns whether the ColorMode is one of the defined modes.
func (m ColorMode) IsValid() (bool, []error) {
	return checkEnum("ui.color", m, ErrInvalidColorMode, ColorModeAuto, ColorModeAlways, ColorModeNever)
}

func checkEnum[T ~string](field string, v T, sentinel error, allowed ...T) (bool, []error) {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		if v == a {
			return true, nil
		}
		names[i] = string(a)
	}
	return false, []error{&InvalidValueError{Field: field, Value: string(v), Allowed: names, sentinel: sentinel}}
}
