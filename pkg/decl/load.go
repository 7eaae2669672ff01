// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// ErrNoDeclarations is returned by LoadFiles when no pattern matches a file.
var ErrNoDeclarations = errors.New("no declaration files found")

// LoadFiles expands doublestar patterns (e.g. "graphs/**/*.cue"), parses
// every matched file in lexical order and merges them into one File.
func LoadFiles(ctx context.Context, patterns ...string) (*File, error) {
	logger := log.FromContext(ctx)

	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid declaration pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			logger.Warn("declaration pattern matched no files", "pattern", pattern)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w (patterns: %s)", ErrNoDeclarations, strings.Join(patterns, ", "))
	}

	merged := &File{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load declarations canceled: %w", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read declaration %s: %w", path, err)
		}
		f, err := Parse(path, data)
		if err != nil {
			return nil, err
		}
		logger.Debug("declaration loaded", "path", path, "modules", len(f.Modules))
		merged.Merge(f)
	}
	return merged, nil
}
