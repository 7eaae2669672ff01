// SPDX-License-Identifier: MPL-2.0

// Package logging builds the charmbracelet/log logger used by modgraph from
// the log section of the configuration.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/invowk/modgraph/internal/config"
)

// Prefix is printed before every text record.
const Prefix = "modgraph"

// New returns a logger writing to w at the configured level and format.
func New(w io.Writer, cfg config.LogConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(string(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	formatter, err := formatterFor(cfg.Format)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:    Prefix,
		Level:     level,
		Formatter: formatter,
	}), nil
}

func formatterFor(format config.LogFormat) (log.Formatter, error) {
	switch format {
	case config.LogFormatText, "":
		return log.TextFormatter, nil
	case config.LogFormatJSON:
		return log.JSONFormatter, nil
	case config.LogFormatLogfmt:
		return log.LogfmtFormatter, nil
	default:
		return 0, fmt.Errorf("invalid log format %q", format)
	}
}
