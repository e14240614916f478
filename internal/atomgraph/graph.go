// Package atomgraph is the read-only knowledge graph of curriculum atoms.
//
// A Graph is built once from the content store, validated, and never
// mutated afterwards. Forward (prerequisite) and reverse (dependent) edges
// are both indexed at build time so lookups never recompute them.
package atomgraph

import (
	"fmt"
	"slices"
	"sort"
)

// Graph holds the atom DAG with precomputed indices.
type Graph struct {
	atoms      []Atom
	byID       map[string]*Atom
	byAxis     map[Axis][]Atom
	dependents map[string][]string
	topoOrder  []Atom
	topoIndex  map[string]int
}

// Build validates atoms and constructs a Graph with all indices,
// including a deterministic topological order (Kahn's algorithm).
func Build(atoms []Atom) (*Graph, error) {
	if err := validateAtoms(atoms); err != nil {
		return nil, err
	}
	return buildGraph(cloneAtoms(atoms)), nil
}

func buildGraph(atoms []Atom) *Graph {
	gr := &Graph{
		atoms:      atoms,
		byID:       make(map[string]*Atom, len(atoms)),
		byAxis:     make(map[Axis][]Atom),
		dependents: make(map[string][]string),
		topoIndex:  make(map[string]int, len(atoms)),
	}

	for i := range gr.atoms {
		gr.byID[gr.atoms[i].ID] = &gr.atoms[i]
	}

	// Reverse edges, sorted so Dependents is stable regardless of input order.
	for i := range gr.atoms {
		for _, prereqID := range gr.atoms[i].Prerequisites {
			gr.dependents[prereqID] = append(gr.dependents[prereqID], gr.atoms[i].ID)
		}
	}
	for id := range gr.dependents {
		sort.Strings(gr.dependents[id])
	}

	inDegree := make(map[string]int, len(atoms))
	for i := range atoms {
		inDegree[atoms[i].ID] = len(atoms[i].Prerequisites)
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		gr.topoOrder = append(gr.topoOrder, *gr.byID[id])

		for _, depID := range gr.dependents[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}
	for i, a := range gr.topoOrder {
		gr.topoIndex[a.ID] = i
	}

	for _, a := range gr.topoOrder {
		gr.byAxis[a.Axis] = append(gr.byAxis[a.Axis], a)
	}

	return gr
}

// Atom returns an atom by ID, or error if not found.
func (g *Graph) Atom(id string) (Atom, error) {
	a, ok := g.byID[id]
	if !ok {
		return Atom{}, fmt.Errorf("atom not found: %q", id)
	}
	return cloneAtom(*a), nil
}

// Has reports whether id is an atom of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Len returns the number of atoms.
func (g *Graph) Len() int {
	return len(g.atoms)
}

// AllAtoms returns all atoms in input order.
func (g *Graph) AllAtoms() []Atom {
	return cloneAtoms(g.atoms)
}

// ByAxis returns the atoms of an axis in topological order.
func (g *Graph) ByAxis(axis Axis) []Atom {
	return cloneAtoms(g.byAxis[axis])
}

// Prerequisites returns the direct prerequisite IDs of an atom, in
// declaration order. Unknown IDs yield nil.
func (g *Graph) Prerequisites(id string) []string {
	a, ok := g.byID[id]
	if !ok {
		return nil
	}
	return slices.Clone(a.Prerequisites)
}

// Dependents returns the IDs of atoms that list id as a direct
// prerequisite, sorted.
func (g *Graph) Dependents(id string) []string {
	return slices.Clone(g.dependents[id])
}

// TransitivePrerequisites returns every atom reachable from id through
// prerequisite edges, excluding id itself, in depth-first discovery order.
func (g *Graph) TransitivePrerequisites(id string) []string {
	var out []string
	visited := map[string]bool{id: true}
	var walk func(string)
	walk = func(cur string) {
		a, ok := g.byID[cur]
		if !ok {
			return
		}
		for _, p := range a.Prerequisites {
			if visited[p] {
				continue
			}
			visited[p] = true
			out = append(out, p)
			walk(p)
		}
	}
	walk(id)
	return out
}

// IsUnlocked returns true if all prerequisites of id are in the mastered set.
func (g *Graph) IsUnlocked(id string, mastered map[string]bool) bool {
	a, ok := g.byID[id]
	if !ok {
		return false
	}
	for _, prereqID := range a.Prerequisites {
		if !mastered[prereqID] {
			return false
		}
	}
	return true
}

// TopologicalOrder returns all atoms so that every atom follows its
// prerequisites.
func (g *Graph) TopologicalOrder() []Atom {
	return cloneAtoms(g.topoOrder)
}

// TopoIndex returns the position of id in TopologicalOrder, or -1.
func (g *Graph) TopoIndex(id string) int {
	if i, ok := g.topoIndex[id]; ok {
		return i
	}
	return -1
}

func cloneAtom(a Atom) Atom {
	a.Prerequisites = slices.Clone(a.Prerequisites)
	return a
}

func cloneAtoms(atoms []Atom) []Atom {
	out := make([]Atom, len(atoms))
	for i, a := range atoms {
		out[i] = cloneAtom(a)
	}
	return out
}
