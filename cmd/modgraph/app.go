// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/modgraph/internal/config"
	"github.com/invowk/modgraph/internal/logging"
	"github.com/invowk/modgraph/pkg/decl"
	"github.com/invowk/modgraph/pkg/modgraph"
)

type (
	// App wires CLI services and shared dependencies. Cobra command handlers
	// receive an App and go through it for configuration and graph loading.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		// Per-invocation state set by prepare.
		cfg        *config.Config
		configPath string
		verbose    bool
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// globalFlags holds the persistent flags shared by every command.
	globalFlags struct {
		configPath string
		verbose    bool
	}

	// loadedGraph is a graph built from declaration files.
	loadedGraph struct {
		graph   *modgraph.Graph
		ids     map[string]modgraph.ModuleID
		sources []string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// prepare loads configuration and attaches the configured logger to ctx.
func (a *App) prepare(ctx context.Context, flags *globalFlags) (context.Context, error) {
	a.verbose = flags.verbose
	a.configPath = flags.configPath

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return ctx, err
	}
	a.cfg = cfg
	a.verbose = flags.verbose || cfg.UI.Verbose

	logger, err := logging.New(a.stderr, cfg.Log)
	if err != nil {
		return ctx, err
	}
	return log.WithContext(ctx, logger), nil
}

// declarationPatterns returns the -f patterns, falling back to the configured ones.
func (a *App) declarationPatterns(patterns []string) []string {
	if len(patterns) > 0 || a.cfg == nil {
		return patterns
	}
	return a.cfg.Declarations
}

// loadGraph parses the declaration files matched by patterns and applies them
// to a new graph configured from the loaded config.
func (a *App) loadGraph(ctx context.Context, patterns []string) (*loadedGraph, error) {
	patterns = a.declarationPatterns(patterns)
	if len(patterns) == 0 {
		return nil, declarationError("load declarations", "", decl.ErrNoDeclarations)
	}

	f, err := decl.LoadFiles(ctx, patterns...)
	if err != nil {
		return nil, declarationError("load declarations", "", err)
	}

	policy := modgraph.VersionsFreeForm
	if a.cfg != nil {
		policy = a.cfg.Versions.Policy.GraphPolicy()
	}
	g := modgraph.New(
		modgraph.WithLogger(log.FromContext(ctx)),
		modgraph.WithVersionPolicy(policy),
	)

	ids, err := decl.ApplyTo(ctx, g, f)
	if err != nil {
		return nil, declarationError("apply declarations", "", err)
	}
	return &loadedGraph{graph: g, ids: ids, sources: f.Sources}, nil
}
