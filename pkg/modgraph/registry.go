// SPDX-License-Identifier: MPL-2.0

package modgraph

import (
	"cmp"
	"slices"
)

// DefineModule registers a new module with its package set and returns its handle.
//
// The call is all-or-nothing: names, version, duplicate module names and
// package ownership are all checked before the registry is touched.
// If desc.Automatic is set, the module reads every module and exports every
// package it owns, now or later.
func (g *Graph) DefineModule(desc Descriptor) (ModuleID, error) {
	if err := ValidateModuleName(desc.Name); err != nil {
		return NoModule, err
	}
	if err := g.versions.check(desc.Name, desc.Version); err != nil {
		return NoModule, err
	}
	pkgs := make(map[string]struct{}, len(desc.Packages))
	for _, pkg := range desc.Packages {
		if err := ValidatePackageName(pkg); err != nil {
			return NoModule, err
		}
		pkgs[pkg] = struct{}{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.byName[desc.Name]; exists {
		return NoModule, &DuplicateModuleError{Name: desc.Name}
	}
	// Check in sorted order so the reported conflict is deterministic.
	for _, pkg := range sortedKeys(pkgs) {
		if owner, taken := g.owners[pkg]; taken {
			return NoModule, &PackageConflictError{
				Package:  pkg,
				Owner:    g.modules[owner-1].name,
				Claimant: desc.Name,
			}
		}
	}

	id := ModuleID(len(g.modules) + 1)
	rec := &moduleRecord{
		id:        id,
		name:      desc.Name,
		version:   desc.Version,
		location:  desc.Location,
		automatic: desc.Automatic,
		packages:  pkgs,
		exports:   make(map[string]*exportEntry),
		reads:     make(map[ModuleID]struct{}),
	}
	rec.loose.Store(desc.Automatic)

	g.modules = append(g.modules, rec)
	g.byName[desc.Name] = id
	for pkg := range pkgs {
		g.owners[pkg] = id
	}

	g.logger.Debug("module defined",
		"module", desc.Name,
		"id", id,
		"version", desc.Version,
		"packages", len(pkgs),
		"automatic", desc.Automatic,
	)
	return id, nil
}

// AddPackage adds pkg to an already defined module. Adding a package the module
// already owns is a no-op; a package owned by another module is a conflict.
func (g *Graph) AddPackage(module ModuleID, pkg string) error {
	if err := ValidatePackageName(pkg); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.recordLocked(module)
	if !ok {
		return &UnknownModuleError{ID: module}
	}
	if owner, taken := g.owners[pkg]; taken {
		if owner == module {
			return nil
		}
		return &PackageConflictError{
			Package:  pkg,
			Owner:    g.modules[owner-1].name,
			Claimant: rec.name,
		}
	}

	rec.mu.Lock()
	rec.packages[pkg] = struct{}{}
	rec.mu.Unlock()
	g.owners[pkg] = module

	g.logger.Debug("package added", "module", rec.name, "package", pkg)
	return nil
}

// Lookup returns the metadata of the module called name.
func (g *Graph) Lookup(name string) (ModuleInfo, bool) {
	id, ok := g.ID(name)
	if !ok {
		return ModuleInfo{}, false
	}
	return g.Module(id)
}

// ID translates a module name into its handle.
func (g *Graph) ID(name string) (ModuleID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.byName[name]
	return id, ok
}

// Module returns the metadata of the module with the given handle.
func (g *Graph) Module(id ModuleID) (ModuleInfo, bool) {
	rec, ok := g.record(id)
	if !ok {
		return ModuleInfo{}, false
	}
	return rec.info(), true
}

// Modules returns every defined module in definition order.
func (g *Graph) Modules() []ModuleInfo {
	g.mu.RLock()
	recs := slices.Clone(g.modules)
	g.mu.RUnlock()

	infos := make([]ModuleInfo, 0, len(recs))
	for _, rec := range recs {
		infos = append(infos, rec.info())
	}
	return infos
}

// PackageOwner returns the module that owns pkg.
func (g *Graph) PackageOwner(pkg string) (ModuleID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.owners[pkg]
	return id, ok
}

func (r *moduleRecord) info() ModuleInfo {
	r.mu.RLock()
	pkgs := sortedKeys(r.packages)
	r.mu.RUnlock()
	return ModuleInfo{
		ID:        r.id,
		Name:      r.name,
		Version:   r.version,
		Location:  r.location,
		Packages:  pkgs,
		Automatic: r.automatic,
		Loose:     r.loose.Load(),
	}
}

// owns reports whether the module owns pkg.
func (r *moduleRecord) owns(pkg string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.packages[pkg]
	return ok
}

func sortedKeys[K cmp.Ordered](m map[K]struct{}) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
