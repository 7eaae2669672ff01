// SPDX-License-Identifier: MPL-2.0

// Package modgraph implements the module graph a module-aware runtime drives:
// a registry of named modules owning disjoint package sets, per-module export
// tables, the readability graph between modules, and the access check that
// composes the two.
//
// A Graph only grows. Modules, packages, exports and read edges can be added
// but never removed, so every query answer that was once true stays true.
//
// Modules are referred to by ModuleID handles returned from DefineModule.
// Handles are indexes into the registry's arena and are stable for the
// lifetime of the Graph.
//
//	g := modgraph.New()
//	a, _ := g.DefineModule(modgraph.Descriptor{Name: "com.example.a", Packages: []string{"com.example.a.api"}})
//	b, _ := g.DefineModule(modgraph.Descriptor{Name: "com.example.b"})
//	_ = g.AddExport(a, "com.example.a.api", b)
//	_ = g.AddRead(b, a)
//	d, _ := g.CheckAccess(b, a, "com.example.a.api") // Allowed
//
// All methods are safe for concurrent use. Queries only take read locks;
// mutations lock the registry and at most one module record.
package modgraph
