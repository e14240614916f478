package report

import (
	"sort"

	"github.com/abhisek/paesdx/internal/atomgraph"
	"github.com/abhisek/paesdx/internal/diagnosis"
)

// Recommend ranks gap and misconception atoms by unlock value: how many
// dependents are not yet mastered and would have every prerequisite
// mastered if this atom were. Ties go to misconceptions, then to atoms
// earlier in topological order, then by ID.
func Recommend(res diagnosis.Result, g *atomgraph.Graph) []Recommendation {
	mastered := res.Mastered()

	recs := make([]Recommendation, 0)
	for id, d := range res {
		if d.State != diagnosis.StateGap && d.State != diagnosis.StateMisconception {
			continue
		}
		a, err := g.Atom(id)
		if err != nil {
			continue
		}
		rec := Recommendation{AtomID: id, Axis: a.Axis, State: d.State}
		for _, dep := range g.Dependents(id) {
			if mastered[dep] {
				continue
			}
			if unlockedWith(g, dep, id, mastered) {
				rec.Unlocks = append(rec.Unlocks, dep)
			}
		}
		rec.UnlockValue = len(rec.Unlocks)
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.UnlockValue != b.UnlockValue {
			return a.UnlockValue > b.UnlockValue
		}
		if a.State != b.State {
			return a.State == diagnosis.StateMisconception
		}
		ti, tj := g.TopoIndex(a.AtomID), g.TopoIndex(b.AtomID)
		if ti != tj {
			return ti < tj
		}
		return a.AtomID < b.AtomID
	})
	return recs
}

// unlockedWith reports whether every prerequisite of dep other than
// candidate is mastered.
func unlockedWith(g *atomgraph.Graph, dep, candidate string, mastered map[string]bool) bool {
	for _, p := range g.Prerequisites(dep) {
		if p != candidate && !mastered[p] {
			return false
		}
	}
	return true
}

// ReviewCandidates lists untested atoms that are transitive prerequisites
// of a gap or misconception atom, in topological order. They carry no
// diagnosis state; they are where a study plan should probe first.
func ReviewCandidates(res diagnosis.Result, g *atomgraph.Graph) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range res.AtomIDs() {
		st := res[id].State
		if st != diagnosis.StateGap && st != diagnosis.StateMisconception {
			continue
		}
		for _, p := range g.TransitivePrerequisites(id) {
			if _, diagnosed := res[p]; diagnosed || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := g.TopoIndex(out[i]), g.TopoIndex(out[j])
		if ti != tj {
			return ti < tj
		}
		return out[i] < out[j]
	})
	if out == nil {
		out = []string{}
	}
	return out
}
