// SPDX-License-Identifier: MPL-2.0

package modgraph

type (
	// exportEntry is the export state of one package. Once unqualified is set,
	// targets is nil and stays nil.
	exportEntry struct {
		unqualified bool
		targets     map[ModuleID]struct{}
	}

	// Export describes how one package of a module is exported.
	Export struct {
		Package string
		// Unqualified is true when the package is exported to every module.
		Unqualified bool
		// Targets lists the modules a qualified export is visible to, in ID order.
		// It is empty for unqualified exports.
		Targets []ModuleID
	}
)

// AddExport exports pkg of module from to module to. Passing NoModule as to
// exports the package to every module.
//
// Exports only widen: an unqualified export supersedes any qualified one, and a
// qualified export of an already unqualified package is a no-op.
func (g *Graph) AddExport(from ModuleID, pkg string, to ModuleID) error {
	rec, err := g.mustRecord(from)
	if err != nil {
		return err
	}
	var target *moduleRecord
	if to != NoModule {
		if target, err = g.mustRecord(to); err != nil {
			return err
		}
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if _, ok := rec.packages[pkg]; !ok {
		return &UnknownPackageError{Module: rec.name, Package: pkg}
	}

	entry := rec.exports[pkg]
	if entry == nil {
		entry = &exportEntry{}
		rec.exports[pkg] = entry
	}
	switch {
	case entry.unqualified:
		return nil
	case to == NoModule:
		entry.unqualified = true
		entry.targets = nil
		g.logger.Debug("package exported", "module", rec.name, "package", pkg, "to", "ALL")
	default:
		if _, dup := entry.targets[to]; dup {
			return nil
		}
		if entry.targets == nil {
			entry.targets = make(map[ModuleID]struct{})
		}
		entry.targets[to] = struct{}{}
		g.logger.Debug("package exported", "module", rec.name, "package", pkg, "to", target.name)
	}
	return nil
}

// AddExportToAll exports pkg of module to every module.
func (g *Graph) AddExportToAll(module ModuleID, pkg string) error {
	return g.AddExport(module, pkg, NoModule)
}

// IsExported reports whether requester may access pkg of module as far as
// exports are concerned. A module always sees its own packages, and
// automatic modules export everything they own. Unknown modules or packages
// are never exported.
func (g *Graph) IsExported(module ModuleID, pkg string, requester ModuleID) bool {
	rec, ok := g.record(module)
	if !ok {
		return false
	}
	return rec.isExported(pkg, requester)
}

// isExported is IsExported on a resolved record.
func (r *moduleRecord) isExported(pkg string, requester ModuleID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.packages[pkg]; !ok {
		return false
	}
	if requester == r.id || r.automatic {
		return true
	}
	entry := r.exports[pkg]
	if entry == nil {
		return false
	}
	if entry.unqualified {
		return true
	}
	_, ok := entry.targets[requester]
	return ok
}

// Exports lists the export entries of module in package order. Automatic
// modules report every owned package as unqualified.
func (g *Graph) Exports(module ModuleID) []Export {
	rec, ok := g.record(module)
	if !ok {
		return nil
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	var out []Export
	for _, pkg := range sortedKeys(rec.packages) {
		if rec.automatic {
			out = append(out, Export{Package: pkg, Unqualified: true})
			continue
		}
		entry := rec.exports[pkg]
		if entry == nil {
			continue
		}
		exp := Export{Package: pkg, Unqualified: entry.unqualified}
		if len(entry.targets) > 0 {
			exp.Targets = sortedKeys(entry.targets)
		}
		out = append(out, exp)
	}
	return out
}
