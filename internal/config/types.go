// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/modgraph/pkg/modgraph"
)

const (
	// LogLevelDebug logs every graph mutation.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings and errors only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// LogFormatText is human-readable, colored when writing to a terminal.
	LogFormatText LogFormat = "text"
	// LogFormatJSON emits one JSON object per record.
	LogFormatJSON LogFormat = "json"
	// LogFormatLogfmt emits key=value records.
	LogFormatLogfmt LogFormat = "logfmt"

	// VersionPolicyFreeForm accepts any module version string.
	VersionPolicyFreeForm VersionPolicy = "freeform"
	// VersionPolicySemVer requires semantic versions.
	VersionPolicySemVer VersionPolicy = "semver"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// LogLevel is the minimum level of emitted log records.
	LogLevel string

	// LogFormat selects the log record encoding.
	LogFormat string

	// VersionPolicy is the config spelling of modgraph.VersionPolicy.
	VersionPolicy string

	// InvalidConfigError collects every invalid field of a Config.
	InvalidConfigError struct {
		FieldErrors []string
	}

	// Config is the modgraph configuration.
	Config struct {
		Log LogConfig `json:"log" mapstructure:"log"`
		// Versions controls module version validation.
		Versions VersionsConfig `json:"versions" mapstructure:"versions"`
		// Declarations are the default declaration file patterns.
		Declarations []string `json:"declarations" mapstructure:"declarations"`
		UI           UIConfig `json:"ui" mapstructure:"ui"`
	}

	// LogConfig configures the logger.
	LogConfig struct {
		Level  LogLevel  `json:"level" mapstructure:"level"`
		Format LogFormat `json:"format" mapstructure:"format"`
	}

	// VersionsConfig configures module version handling.
	VersionsConfig struct {
		Policy VersionPolicy `json:"policy" mapstructure:"policy"`
	}

	// UIConfig configures CLI output.
	UIConfig struct {
		// Verbose shows full error chains and issue help.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Versions: VersionsConfig{
			Policy: VersionPolicyFreeForm,
		},
		Declarations: []string{},
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", strings.Join(e.FieldErrors, "; "))
}

// Unwrap returns ErrInvalidConfig so callers can use errors.Is.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks enumerated fields. CUE validates file contents already, but
// environment overrides reach the Config without passing the schema.
func (c *Config) Validate() error {
	var fieldErrs []string
	switch c.Log.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		fieldErrs = append(fieldErrs, fmt.Sprintf("log.level: unknown level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case LogFormatText, LogFormatJSON, LogFormatLogfmt:
	default:
		fieldErrs = append(fieldErrs, fmt.Sprintf("log.format: unknown format %q", c.Log.Format))
	}
	switch c.Versions.Policy {
	case VersionPolicyFreeForm, VersionPolicySemVer:
	default:
		fieldErrs = append(fieldErrs, fmt.Sprintf("versions.policy: unknown policy %q", c.Versions.Policy))
	}
	if len(fieldErrs) > 0 {
		return &InvalidConfigError{FieldErrors: fieldErrs}
	}
	return nil
}

// GraphPolicy converts the configured policy for modgraph.WithVersionPolicy.
func (p VersionPolicy) GraphPolicy() modgraph.VersionPolicy {
	if p == VersionPolicySemVer {
		return modgraph.VersionsSemVer
	}
	return modgraph.VersionsFreeForm
}
