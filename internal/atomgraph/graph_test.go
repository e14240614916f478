package atomgraph

import (
	"testing"
)

// diamond returns a small graph:
//
//	num-frac ──► alg-lin ──► alg-sys
//	num-int  ──► alg-lin
//	num-int  ──► geo-area
//	alg-sys also needs geo-area
func diamond(t *testing.T) *Graph {
	t.Helper()
	g, err := Build([]Atom{
		{ID: "alg-sys", Axis: AxisAlgebra, Prerequisites: []string{"alg-lin", "geo-area"}},
		{ID: "alg-lin", Axis: AxisAlgebra, Prerequisites: []string{"num-frac", "num-int"}},
		{ID: "geo-area", Axis: AxisGeometry, Prerequisites: []string{"num-int"}},
		{ID: "num-frac", Axis: AxisNumbers},
		{ID: "num-int", Axis: AxisNumbers},
		{ID: "prob-basic", Axis: AxisProbability},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return g
}

func TestAtom_Exists(t *testing.T) {
	g := diamond(t)
	a, err := g.Atom("alg-lin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Axis != AxisAlgebra {
		t.Errorf("got axis %q, want %q", a.Axis, AxisAlgebra)
	}
}

func TestAtom_NotFound(t *testing.T) {
	g := diamond(t)
	if _, err := g.Atom("nonexistent"); err == nil {
		t.Fatal("expected error for nonexistent atom, got nil")
	}
	if g.Has("nonexistent") {
		t.Error("Has reported an unknown atom")
	}
}

func TestPrerequisites(t *testing.T) {
	g := diamond(t)
	got := g.Prerequisites("alg-sys")
	if len(got) != 2 || got[0] != "alg-lin" || got[1] != "geo-area" {
		t.Errorf("alg-sys prereqs: got %v, want [alg-lin geo-area]", got)
	}
	if got := g.Prerequisites("num-int"); len(got) != 0 {
		t.Errorf("root atom has prereqs: %v", got)
	}
	if got := g.Prerequisites("nope"); got != nil {
		t.Errorf("unknown atom prereqs: got %v, want nil", got)
	}
}

func TestDependents_Sorted(t *testing.T) {
	g := diamond(t)
	got := g.Dependents("num-int")
	if len(got) != 2 || got[0] != "alg-lin" || got[1] != "geo-area" {
		t.Errorf("num-int dependents: got %v, want [alg-lin geo-area]", got)
	}
	if got := g.Dependents("alg-sys"); len(got) != 0 {
		t.Errorf("leaf atom has dependents: %v", got)
	}
}

func TestTransitivePrerequisites_Diamond(t *testing.T) {
	g := diamond(t)
	got := g.TransitivePrerequisites("alg-sys")
	want := map[string]bool{"alg-lin": true, "geo-area": true, "num-frac": true, "num-int": true}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %d atoms (each once)", got, len(want))
	}
	for _, id := range got {
		if !want[id] {
			t.Errorf("unexpected atom %q in closure", id)
		}
	}
}

func TestIsUnlocked(t *testing.T) {
	g := diamond(t)
	if !g.IsUnlocked("num-int", map[string]bool{}) {
		t.Error("root atom should be unlocked with empty mastered set")
	}
	if g.IsUnlocked("alg-sys", map[string]bool{"alg-lin": true}) {
		t.Error("alg-sys should be locked with only one of two prereqs")
	}
	if !g.IsUnlocked("alg-sys", map[string]bool{"alg-lin": true, "geo-area": true}) {
		t.Error("alg-sys should be unlocked when both prereqs are mastered")
	}
	if g.IsUnlocked("nope", map[string]bool{}) {
		t.Error("unknown atom should never be unlocked")
	}
}

func TestTopologicalOrder(t *testing.T) {
	g := diamond(t)
	topo := g.TopologicalOrder()
	if len(topo) != g.Len() {
		t.Fatalf("got %d atoms in topo order, want %d", len(topo), g.Len())
	}
	for _, a := range topo {
		for _, p := range a.Prerequisites {
			if g.TopoIndex(p) >= g.TopoIndex(a.ID) {
				t.Errorf("atom %q appears before its prerequisite %q", a.ID, p)
			}
		}
	}
	if g.TopoIndex("nope") != -1 {
		t.Error("unknown atom should have topo index -1")
	}
}

func TestByAxis(t *testing.T) {
	g := diamond(t)
	tests := []struct {
		axis Axis
		want int
	}{
		{AxisNumbers, 2},
		{AxisAlgebra, 2},
		{AxisGeometry, 1},
		{AxisProbability, 1},
	}
	for _, tt := range tests {
		if got := len(g.ByAxis(tt.axis)); got != tt.want {
			t.Errorf("ByAxis(%q): got %d atoms, want %d", tt.axis, got, tt.want)
		}
	}
}

func TestAllAtoms_ReturnsCopy(t *testing.T) {
	g := diamond(t)
	a := g.AllAtoms()
	a[0].Prerequisites[0] = "MUTATED"
	if g.Prerequisites(a[0].ID)[0] == "MUTATED" {
		t.Error("AllAtoms did not return a defensive copy")
	}
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	in := []Atom{
		{ID: "a", Axis: AxisNumbers},
		{ID: "b", Axis: AxisNumbers, Prerequisites: []string{"a"}},
	}
	g, err := Build(in)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	in[1].Prerequisites[0] = "zzz"
	if got := g.Prerequisites("b"); got[0] != "a" {
		t.Errorf("graph changed after caller mutated input: %v", got)
	}
}
