// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/invowk/modgraph/pkg/modgraph"
)

// ModuleError attributes a failure while applying a declaration to the
// module and source file that caused it.
type ModuleError struct {
	Module string
	Source string
	// Op is the graph operation that failed: "define", "export" or "read".
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ModuleError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: module %q: %s: %v", e.Source, e.Module, e.Op, e.Err)
	}
	return fmt.Sprintf("module %q: %s: %v", e.Module, e.Op, e.Err)
}

// Unwrap returns the underlying graph error.
func (e *ModuleError) Unwrap() error { return e.Err }

// Apply defines every module of f in g, then adds their exports and read
// edges. Defining first lets declarations refer to modules declared later, or
// to modules g already held. It stops at the first failure and returns the
// handles of the modules it defined.
func Apply(ctx context.Context, g modgraph.Runtime, lookup func(string) (modgraph.ModuleID, bool), f *File) (map[string]modgraph.ModuleID, error) {
	logger := log.FromContext(ctx)
	ids := make(map[string]modgraph.ModuleID, len(f.Modules))

	resolve := func(name string) (modgraph.ModuleID, error) {
		if id, ok := ids[name]; ok {
			return id, nil
		}
		if id, ok := lookup(name); ok {
			return id, nil
		}
		return modgraph.NoModule, &modgraph.UnknownModuleError{Name: name}
	}

	for _, m := range f.Modules {
		id, err := g.DefineModule(modgraph.Descriptor{
			Name:      m.Name,
			Version:   m.Version,
			Location:  m.Location,
			Packages:  m.Packages,
			Automatic: m.Automatic,
		})
		if err != nil {
			return ids, &ModuleError{Module: m.Name, Source: m.Source, Op: "define", Err: err}
		}
		ids[m.Name] = id
	}

	for _, m := range f.Modules {
		if err := ctx.Err(); err != nil {
			return ids, fmt.Errorf("apply declarations canceled: %w", err)
		}
		from := ids[m.Name]

		for _, exp := range m.Exports {
			if exp.To != nil && len(exp.To) == 0 {
				err := fmt.Errorf("package %q: %w", exp.Package, ErrEmptyExportTargets)
				return ids, &ModuleError{Module: m.Name, Source: m.Source, Op: "export", Err: err}
			}
			if exp.To == nil {
				if err := g.AddExport(from, exp.Package, modgraph.NoModule); err != nil {
					return ids, &ModuleError{Module: m.Name, Source: m.Source, Op: "export", Err: err}
				}
				continue
			}
			for _, name := range exp.To {
				to, err := resolve(name)
				if err == nil {
					err = g.AddExport(from, exp.Package, to)
				}
				if err != nil {
					return ids, &ModuleError{Module: m.Name, Source: m.Source, Op: "export", Err: err}
				}
			}
		}

		for _, name := range m.Reads {
			to, err := resolve(name)
			if err == nil {
				err = g.AddRead(from, to)
			}
			if err != nil {
				return ids, &ModuleError{Module: m.Name, Source: m.Source, Op: "read", Err: err}
			}
		}

		if m.ReadsAll {
			if err := readAll(g, from); err != nil {
				return ids, &ModuleError{Module: m.Name, Source: m.Source, Op: "read", Err: err}
			}
		}
	}

	logger.Debug("declarations applied", "modules", len(ids), "sources", len(f.Sources))
	return ids, nil
}

// ApplyTo is Apply against a *modgraph.Graph, resolving names through it.
func ApplyTo(ctx context.Context, g *modgraph.Graph, f *File) (map[string]modgraph.ModuleID, error) {
	return Apply(ctx, g, g.ID, f)
}

// readAll makes from loose when the runtime supports loose modules.
func readAll(g modgraph.Runtime, from modgraph.ModuleID) error {
	type looser interface {
		AddReadAll(from modgraph.ModuleID) error
	}
	l, ok := g.(looser)
	if !ok {
		return fmt.Errorf("runtime %T does not support reads_all", g)
	}
	return l.AddReadAll(from)
}
