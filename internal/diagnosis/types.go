package diagnosis

import "sort"

// State is the diagnosed mastery state of an atom. Untested atoms have no
// state and are absent from a Result.
type State string

const (
	StateMastered      State = "mastered"
	StateGap           State = "gap"
	StateMisconception State = "misconception"
)

// Source records whether a state came from the atom's own items or was
// inferred through the prerequisite graph.
type Source string

const (
	SourceDirect   Source = "direct"
	SourceInferred Source = "inferred"
)

// Diagnosis is the state of one atom with its provenance.
type Diagnosis struct {
	AtomID       string   `json:"atom_id"`
	State        State    `json:"state"`
	Source       Source   `json:"source"`
	ItemIDs      []string `json:"item_ids,omitempty"`      // direct evidence, in answer order
	InferredFrom string   `json:"inferred_from,omitempty"` // mastered atom whose walk reached this one
}

// Result maps atom ID to diagnosis. Atoms without evidence are absent.
type Result map[string]Diagnosis

// States returns the bare atom → state map.
func (r Result) States() map[string]State {
	out := make(map[string]State, len(r))
	for id, d := range r {
		out[id] = d.State
	}
	return out
}

// Mastered returns the set of atoms in StateMastered.
func (r Result) Mastered() map[string]bool {
	out := make(map[string]bool)
	for id, d := range r {
		if d.State == StateMastered {
			out[id] = true
		}
	}
	return out
}

// AtomIDs returns the diagnosed atom IDs, sorted.
func (r Result) AtomIDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
