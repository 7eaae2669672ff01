// SPDX-License-Identifier: MPL-2.0

package modgraph

import (
	"errors"
	"slices"
	"testing"
)

func TestCanRead_Self(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a")
	if !g.CanRead(a, a) {
		t.Error("a module must always read itself")
	}
	if err := g.AddRead(a, a); err != nil {
		t.Errorf("self edge should be accepted, got %v", err)
	}
	if reads := g.Reads(a); reads != nil {
		t.Errorf("self edges must not be stored, got %v", reads)
	}
}

func TestAddRead_NonTransitiveAndIdempotent(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a")
	b := mustDefine(t, g, "b")
	c := mustDefine(t, g, "c")

	for range 2 {
		if err := g.AddRead(a, b); err != nil {
			t.Fatalf("AddRead failed: %v", err)
		}
	}
	if err := g.AddRead(b, c); err != nil {
		t.Fatalf("AddRead failed: %v", err)
	}

	if !g.CanRead(a, b) {
		t.Error("a should read b")
	}
	if g.CanRead(b, a) {
		t.Error("readability is directed")
	}
	if g.CanRead(a, c) {
		t.Error("readability is not transitive")
	}
	if !slices.Equal(g.Reads(a), []ModuleID{b}) {
		t.Errorf("expected a to read only b, got %v", g.Reads(a))
	}
}

func TestAddRead_CyclesAllowed(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a")
	b := mustDefine(t, g, "b")

	if err := g.AddRead(a, b); err != nil {
		t.Fatal(err)
	}
	if err := g.AddRead(b, a); err != nil {
		t.Fatalf("cycles must be legal, got %v", err)
	}
	if !g.CanRead(a, b) || !g.CanRead(b, a) {
		t.Error("both directions should be readable")
	}
}

func TestAddRead_UnknownModule(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a")

	if err := g.AddRead(a, 42); !errors.Is(err, ErrUnknownModule) {
		t.Errorf("expected ErrUnknownModule, got %v", err)
	}
	if err := g.AddRead(42, a); !errors.Is(err, ErrUnknownModule) {
		t.Errorf("expected ErrUnknownModule, got %v", err)
	}
	if g.CanRead(a, 42) || g.CanRead(42, a) {
		t.Error("unknown modules are never readable")
	}
}

func TestAddReadAll_LooseReadsLaterModules(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a")
	if err := g.AddReadAll(a); err != nil {
		t.Fatal(err)
	}
	later := mustDefine(t, g, "later")

	if !g.CanRead(a, later) {
		t.Error("a loose module must read modules defined after it became loose")
	}
	if g.CanRead(later, a) {
		t.Error("looseness is not symmetric")
	}
	if info, _ := g.Module(a); !info.Loose {
		t.Error("ModuleInfo should report the module as loose")
	}
}

func TestIsExported_OwnPackagesAlwaysVisible(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a", "p.one", "p.two")
	b := mustDefine(t, g, "b")

	for _, pkg := range []string{"p.one", "p.two"} {
		if !g.IsExported(a, pkg, a) {
			t.Errorf("module a must see its own package %s", pkg)
		}
		if g.IsExported(a, pkg, b) {
			t.Errorf("package %s is not exported to b", pkg)
		}
	}
	if g.IsExported(a, "p.missing", a) {
		t.Error("packages the module does not own are never exported")
	}
}

func TestAddExport_UnqualifiedSupersedesQualified(t *testing.T) {
	t.Parallel()

	// Both orders must end in the same state.
	orders := map[string][]ModuleID{
		"unqualified first": {NoModule, 2},
		"qualified first":   {2, NoModule},
	}
	for name, targets := range orders {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := New()
			a := mustDefine(t, g, "a", "p")
			x := mustDefine(t, g, "x")
			y := mustDefine(t, g, "y")

			for _, to := range targets {
				if err := g.AddExport(a, "p", to); err != nil {
					t.Fatalf("AddExport(%d) failed: %v", to, err)
				}
			}

			if !g.IsExported(a, "p", x) || !g.IsExported(a, "p", y) {
				t.Error("package should be visible to every module")
			}
			want := []Export{{Package: "p", Unqualified: true}}
			if got := g.Exports(a); !exportsEqual(got, want) {
				t.Errorf("expected %+v, got %+v", want, got)
			}
		})
	}
}

func TestAddExport_QualifiedUnion(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a", "p")
	x := mustDefine(t, g, "x")
	y := mustDefine(t, g, "y")
	z := mustDefine(t, g, "z")

	for _, to := range []ModuleID{y, x, y} {
		if err := g.AddExport(a, "p", to); err != nil {
			t.Fatal(err)
		}
	}

	if !g.IsExported(a, "p", x) || !g.IsExported(a, "p", y) {
		t.Error("qualified targets should see the package")
	}
	if g.IsExported(a, "p", z) {
		t.Error("z is not a qualified target")
	}
	want := []Export{{Package: "p", Targets: []ModuleID{x, y}}}
	if got := g.Exports(a); !exportsEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestAddExport_Errors(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a", "p.a")
	b := mustDefine(t, g, "b", "p.b")

	if err := g.AddExport(a, "p.b", NoModule); !errors.Is(err, ErrUnknownPackage) {
		t.Errorf("exporting another module's package: expected ErrUnknownPackage, got %v", err)
	}
	if err := g.AddExport(7, "p.a", b); !errors.Is(err, ErrUnknownModule) {
		t.Errorf("unknown source: expected ErrUnknownModule, got %v", err)
	}
	if err := g.AddExport(a, "p.a", 7); !errors.Is(err, ErrUnknownModule) {
		t.Errorf("unknown target: expected ErrUnknownModule, got %v", err)
	}
	if g.Exports(a) != nil {
		t.Errorf("failed calls must not create export entries, got %+v", g.Exports(a))
	}
}

func TestAddExport_PackageAddedLater(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a")
	b := mustDefine(t, g, "b")

	if err := g.AddExport(a, "p.gen", b); !errors.Is(err, ErrUnknownPackage) {
		t.Fatalf("expected ErrUnknownPackage before AddPackage, got %v", err)
	}
	if err := g.AddPackage(a, "p.gen"); err != nil {
		t.Fatal(err)
	}
	if err := g.AddExport(a, "p.gen", b); err != nil {
		t.Fatalf("expected export to succeed after AddPackage, got %v", err)
	}
	if !g.IsExported(a, "p.gen", b) {
		t.Error("p.gen should be exported to b")
	}
}

func TestAutomaticModule(t *testing.T) {
	t.Parallel()
	g := New()
	auto, err := g.DefineModule(Descriptor{Name: "auto", Packages: []string{"auto.api"}, Automatic: true})
	if err != nil {
		t.Fatal(err)
	}
	other := mustDefine(t, g, "other", "other.api")

	if !g.CanRead(auto, other) {
		t.Error("automatic modules read every module")
	}
	if !g.IsExported(auto, "auto.api", other) {
		t.Error("automatic modules export every package")
	}

	if err := g.AddPackage(auto, "auto.gen"); err != nil {
		t.Fatal(err)
	}
	if !g.IsExported(auto, "auto.gen", other) {
		t.Error("packages added to an automatic module are exported too")
	}
	if got := len(g.Exports(auto)); got != 2 {
		t.Errorf("expected 2 export entries, got %d", got)
	}
}

func TestCheckAccess_Scenario(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "A", "a.pkg")
	b := mustDefine(t, g, "B")

	d, err := g.CheckAccess(b, a, "a.pkg")
	if err != nil {
		t.Fatal(err)
	}
	if d != Denied(ReasonNotExported) {
		t.Fatalf("expected Denied(not exported), got %s", d)
	}
	if d.String() != `Denied("not exported")` {
		t.Errorf("unexpected rendering %s", d)
	}

	if err := g.AddExport(a, "a.pkg", b); err != nil {
		t.Fatal(err)
	}
	d, _ = g.CheckAccess(b, a, "a.pkg")
	if d != Denied(ReasonNotReadable) {
		t.Fatalf("expected Denied(no read edge) once exported, got %s", d)
	}

	if err := g.AddRead(b, a); err != nil {
		t.Fatal(err)
	}
	d, _ = g.CheckAccess(b, a, "a.pkg")
	if d != Allowed {
		t.Errorf("expected Allowed, got %s", d)
	}
}

func TestCheckAccess_UnqualifiedThirdModule(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "A", "a.pkg")
	c := mustDefine(t, g, "C")

	if err := g.AddExport(a, "a.pkg", NoModule); err != nil {
		t.Fatal(err)
	}
	if err := g.AddRead(c, a); err != nil {
		t.Fatal(err)
	}

	d, err := g.CheckAccessByName("C", "A", "a.pkg")
	if err != nil {
		t.Fatal(err)
	}
	if !d.Allowed || d.String() != "Allowed" {
		t.Errorf("expected Allowed, got %s", d)
	}
}

func TestCheckAccess_SelfAlwaysAllowed(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a", "p.internal")

	d, err := g.CheckAccess(a, a, "p.internal")
	if err != nil || !d.Allowed {
		t.Errorf("expected Allowed, got %s (%v)", d, err)
	}
}

func TestCheckAccess_Errors(t *testing.T) {
	t.Parallel()
	g := New()
	a := mustDefine(t, g, "a", "p.a")
	b := mustDefine(t, g, "b", "p.b")

	if _, err := g.CheckAccess(b, a, "p.b"); !errors.Is(err, ErrUnknownPackage) {
		t.Errorf("expected ErrUnknownPackage, got %v", err)
	}
	if _, err := g.CheckAccess(b, 9, "p.a"); !errors.Is(err, ErrUnknownModule) {
		t.Errorf("expected ErrUnknownModule, got %v", err)
	}
	if _, err := g.CheckAccessByName("nope", "a", "p.a"); !errors.Is(err, ErrUnknownModule) {
		t.Errorf("expected ErrUnknownModule, got %v", err)
	}
}

func exportsEqual(a, b []Export) bool {
	return slices.EqualFunc(a, b, func(x, y Export) bool {
		return x.Package == y.Package && x.Unqualified == y.Unqualified && slices.Equal(x.Targets, y.Targets)
	})
}
