package diagnosis

import "github.com/abhisek/paesdx/internal/mst"

// classify maps a graded answer to the direct evidence it gives for each of
// the item's atoms. An omitted answer gives none.
func classify(o mst.Outcome) (State, bool) {
	switch o {
	case mst.OutcomeCorrect:
		return StateMastered, true
	case mst.OutcomeDontKnow:
		return StateGap, true
	case mst.OutcomeIncorrect:
		return StateMisconception, true
	default:
		return "", false
	}
}

// severity ranks direct evidence for the same atom. When an atom is
// touched by several items the highest severity wins, independent of the
// order answers arrive in: a hidden gap costs a study plan more than a
// redundant review.
func severity(s State) int {
	switch s {
	case StateMisconception:
		return 3
	case StateGap:
		return 2
	case StateMastered:
		return 1
	default:
		return 0
	}
}

// resolve returns the state that wins between two pieces of direct
// evidence.
func resolve(current, incoming State) State {
	if severity(incoming) > severity(current) {
		return incoming
	}
	return current
}
