// SPDX-License-Identifier: MPL-2.0

// Package config handles modgraph configuration using Viper with CUE as the
// file format.
//
// Configuration is read from --config when given, otherwise from
// $XDG_CONFIG_HOME/modgraph/config.cue (~/Library/Application Support on
// macOS, %APPDATA% on Windows), otherwise from ./config.cue. A missing file is
// not an error: defaults apply. Files are validated against the embedded CUE
// schema; MODGRAPH_* environment variables (e.g. MODGRAPH_LOG_LEVEL) override
// file values.
package config
