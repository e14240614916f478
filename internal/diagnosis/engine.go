// Package diagnosis classifies every atom touched by a diagnostic into
// mastered, gap or misconception, then infers mastery of prerequisites.
//
// Only mastery propagates, and only downward through prerequisite edges:
// demonstrating an atom implies its prerequisites, but failing a
// prerequisite says nothing about the atoms that depend on it. Direct
// evidence is never overwritten by inference.
package diagnosis

import (
	"fmt"
	"slices"
	"sort"

	"github.com/abhisek/paesdx/internal/atomgraph"
	"github.com/abhisek/paesdx/internal/diagerr"
	"github.com/abhisek/paesdx/internal/itembank"
	"github.com/abhisek/paesdx/internal/mst"
)

// Diagnose runs the direct pass over answers and the transitive mastery
// pass over graph. It has no side effects and returns identical results
// for identical inputs.
func Diagnose(answers []mst.Answer, bank *itembank.Bank, graph *atomgraph.Graph) (Result, error) {
	res := make(Result)

	// Direct pass.
	for _, a := range answers {
		it, err := bank.Item(a.ItemID)
		if err != nil {
			return nil, &diagerr.MalformedInputError{Reason: fmt.Sprintf("answer for unknown item %q", a.ItemID), Err: err}
		}
		state, ok := classify(mst.Grade(it, a))
		if !ok {
			continue
		}
		for _, atomID := range it.AtomIDs {
			if !graph.Has(atomID) {
				return nil, &diagerr.UnknownAtomReferenceError{AtomID: atomID, Referrer: fmt.Sprintf("item %q", it.ID)}
			}
			d, seen := res[atomID]
			if !seen {
				d = Diagnosis{AtomID: atomID, State: state, Source: SourceDirect}
			} else {
				d.State = resolve(d.State, state)
			}
			if !slices.Contains(d.ItemIDs, it.ID) {
				d.ItemIDs = append(d.ItemIDs, it.ID)
			}
			res[atomID] = d
		}
	}

	// Transitive pass, seeded only from directly mastered atoms in ID order.
	var seeds []string
	for id, d := range res {
		if d.Source == SourceDirect && d.State == StateMastered {
			seeds = append(seeds, id)
		}
	}
	sort.Strings(seeds)

	visited := make(map[string]bool)
	var walk func(from, cur string)
	walk = func(from, cur string) {
		for _, p := range graph.Prerequisites(cur) {
			if visited[p] {
				continue
			}
			visited[p] = true
			if _, direct := res[p]; !direct {
				res[p] = Diagnosis{AtomID: p, State: StateMastered, Source: SourceInferred, InferredFrom: from}
			}
			walk(from, p)
		}
	}
	for _, id := range seeds {
		visited[id] = true
		walk(id, id)
	}

	return res, nil
}
