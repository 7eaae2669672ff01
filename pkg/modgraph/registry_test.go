// SPDX-License-Identifier: MPL-2.0

package modgraph

import (
	"errors"
	"slices"
	"testing"
)

func mustDefine(t *testing.T, g *Graph, name string, pkgs ...string) ModuleID {
	t.Helper()
	id, err := g.DefineModule(Descriptor{Name: name, Packages: pkgs})
	if err != nil {
		t.Fatalf("DefineModule(%q) failed: %v", name, err)
	}
	return id
}

func TestDefineModule_AssignsSequentialIDs(t *testing.T) {
	t.Parallel()
	g := New()

	a := mustDefine(t, g, "com.example.a", "com.example.a")
	b := mustDefine(t, g, "com.example.b")

	if a != 1 || b != 2 {
		t.Errorf("expected ids 1 and 2, got %d and %d", a, b)
	}
	if g.Len() != 2 {
		t.Errorf("expected 2 modules, got %d", g.Len())
	}
}

func TestDefineModule_StoresMetadata(t *testing.T) {
	t.Parallel()
	g := New()

	id, err := g.DefineModule(Descriptor{
		Name:     "com.example.util",
		Version:  "1.4.0",
		Location: "file:///mods/util.jar",
		Packages: []string{"com.example.util.text", "com.example.util", "com.example.util"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, ok := g.Lookup("com.example.util")
	if !ok {
		t.Fatal("Lookup returned no module")
	}
	if info.ID != id {
		t.Errorf("expected id %d, got %d", id, info.ID)
	}
	if info.Version != "1.4.0" || info.Location != "file:///mods/util.jar" {
		t.Errorf("unexpected metadata: %+v", info)
	}
	want := []string{"com.example.util", "com.example.util.text"}
	if !slices.Equal(info.Packages, want) {
		t.Errorf("expected packages %v, got %v", want, info.Packages)
	}
}

func TestDefineModule_Duplicate(t *testing.T) {
	t.Parallel()
	g := New()
	mustDefine(t, g, "m")

	_, err := g.DefineModule(Descriptor{Name: "m"})
	if !errors.Is(err, ErrDuplicateModule) {
		t.Fatalf("expected ErrDuplicateModule, got %v", err)
	}
	var dupErr *DuplicateModuleError
	if !errors.As(err, &dupErr) || dupErr.Name != "m" {
		t.Errorf("expected *DuplicateModuleError for %q, got %#v", "m", err)
	}
}

func TestDefineModule_PackageConflictIsAtomic(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a", "p.shared", "p.a")

	_, err := g.DefineModule(Descriptor{Name: "b", Packages: []string{"p.b", "p.shared"}})
	if !errors.Is(err, ErrPackageConflict) {
		t.Fatalf("expected ErrPackageConflict, got %v", err)
	}
	var conflict *PackageConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *PackageConflictError, got %T", err)
	}
	if conflict.Package != "p.shared" || conflict.Owner != "a" || conflict.Claimant != "b" {
		t.Errorf("unexpected conflict details: %+v", conflict)
	}

	if _, ok := g.Lookup("b"); ok {
		t.Error("module b must not be registered after a failed definition")
	}
	if _, ok := g.PackageOwner("p.b"); ok {
		t.Error("package p.b must not be claimed after a failed definition")
	}
	info, _ := g.Module(a)
	if !slices.Equal(info.Packages, []string{"p.a", "p.shared"}) {
		t.Errorf("module a's packages changed: %v", info.Packages)
	}
	if g.Len() != 1 {
		t.Errorf("expected 1 module, got %d", g.Len())
	}
}

func TestDefineModule_InvalidNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		desc Descriptor
		kind NameKind
	}{
		{"empty module name", Descriptor{Name: ""}, NameKindModule},
		{"module name with empty segment", Descriptor{Name: "a..b"}, NameKindModule},
		{"module name starting with digit", Descriptor{Name: "1a"}, NameKindModule},
		{"empty package", Descriptor{Name: "m", Packages: []string{""}}, NameKindPackage},
		{"package with slash", Descriptor{Name: "m", Packages: []string{"a/b"}}, NameKindPackage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			_, err := g.DefineModule(tt.desc)
			var nameErr *InvalidNameError
			if !errors.As(err, &nameErr) {
				t.Fatalf("expected *InvalidNameError, got %v", err)
			}
			if nameErr.Kind != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, nameErr.Kind)
			}
			if g.Len() != 0 {
				t.Error("no module should be registered")
			}
		})
	}
}

func TestDefineModule_VersionPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		valid   bool
	}{
		{"", true},
		{"1.2.3", true},
		{"v1.2.3", true},
		{"2.0.0-rc.1", true},
		{"1.2", false},
		{"9-ea", false},
		{"latest", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()
			strict := New(WithVersionPolicy(VersionsSemVer))
			_, err := strict.DefineModule(Descriptor{Name: "m", Version: tt.version})
			if tt.valid && err != nil {
				t.Errorf("expected %q to be accepted, got %v", tt.version, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidVersion) {
				t.Errorf("expected ErrInvalidVersion for %q, got %v", tt.version, err)
			}

			loose := New()
			if _, err := loose.DefineModule(Descriptor{Name: "m", Version: tt.version}); err != nil {
				t.Errorf("free-form policy rejected %q: %v", tt.version, err)
			}
		})
	}
}

func TestAddPackage(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a", "p.a")
	b := mustDefine(t, g, "b", "p.b")

	if err := g.AddPackage(a, "p.a.gen"); err != nil {
		t.Fatalf("AddPackage failed: %v", err)
	}
	if owner, ok := g.PackageOwner("p.a.gen"); !ok || owner != a {
		t.Errorf("expected p.a.gen owned by %d, got %d (%v)", a, owner, ok)
	}

	if err := g.AddPackage(a, "p.a"); err != nil {
		t.Errorf("re-adding an owned package should be a no-op, got %v", err)
	}

	err := g.AddPackage(a, "p.b")
	if !errors.Is(err, ErrPackageConflict) {
		t.Errorf("expected ErrPackageConflict, got %v", err)
	}
	info, _ := g.Module(b)
	if !slices.Equal(info.Packages, []string{"p.b"}) {
		t.Errorf("module b's packages changed: %v", info.Packages)
	}

	if err := g.AddPackage(ModuleID(99), "p.x"); !errors.Is(err, ErrUnknownModule) {
		t.Errorf("expected ErrUnknownModule, got %v", err)
	}
	if err := g.AddPackage(a, "bad name"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
}

func TestModules_DefinitionOrder(t *testing.T) {
	t.Parallel()
	g := New()
	for _, name := range []string{"z", "a", "m"} {
		mustDefine(t, g, name)
	}

	var names []string
	for _, info := range g.Modules() {
		names = append(names, info.Name)
	}
	if !slices.Equal(names, []string{"z", "a", "m"}) {
		t.Errorf("expected definition order, got %v", names)
	}
}

func TestLookup_Unknown(t *testing.T) {
	t.Parallel()
	g := New()
	if _, ok := g.Lookup("missing"); ok {
		t.Error("expected no module")
	}
	if _, ok := g.Module(NoModule); ok {
		t.Error("NoModule must never resolve")
	}
}

func TestNew_InstanceIDIsUnique(t *testing.T) {
	t.Parallel()
	a, b := New(), New()
	if a.InstanceID() == "" || a.InstanceID() == b.InstanceID() {
		t.Errorf("expected distinct non-empty instance ids, got %q and %q", a.InstanceID(), b.InstanceID())
	}
}
