package mst

import (
	"github.com/abhisek/paesdx/internal/atomgraph"
	"github.com/abhisek/paesdx/internal/blueprint"
	"github.com/abhisek/paesdx/internal/diagerr"
	"github.com/abhisek/paesdx/internal/itembank"
)

// Breakdown is the correct/total tally for one group of items.
type Breakdown struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Pct     float64 `json:"pct"` // 0–100
}

// PredictedScore is the calibrated exam-score prediction.
type PredictedScore struct {
	Point int                  `json:"point"`
	Range blueprint.ScoreRange `json:"range"`
}

// GradedItem pairs an administered item with its outcome.
type GradedItem struct {
	Item    itembank.Item
	Outcome Outcome
	Stage   string // "routing" or "module"
}

// ScoreResult is the output of Scorer.Score.
type ScoreResult struct {
	Route          blueprint.Route
	RoutingCorrect int
	ModuleCorrect  int
	LookupCount    int // the correct count used as the score table key

	// RawScore and MaxScore cover the route's module items; Normalized is
	// their ratio in [0, 1]. The Overall* fields also include routing items.
	RawScore          float64
	MaxScore          float64
	Normalized        float64
	OverallRaw        float64
	OverallMax        float64
	OverallNormalized float64

	Predicted PredictedScore
	PerAxis   map[atomgraph.Axis]Breakdown
	PerSkill  map[itembank.Skill]Breakdown
	Graded    []GradedItem
}

// Scorer computes weighted scores and predicted score ranges.
type Scorer struct {
	bp   *blueprint.Blueprint
	bank *itembank.Bank
}

// NewScorer creates a Scorer over a validated blueprint and item bank.
func NewScorer(bp *blueprint.Blueprint, bank *itembank.Bank) *Scorer {
	return &Scorer{bp: bp, bank: bank}
}

// Score grades the routing answers followed by the module answers for
// route. Correct answers contribute their difficulty weight; incorrect,
// dont_know and omitted answers contribute 0.
func (s *Scorer) Score(allAnswers []Answer, route blueprint.Route) (*ScoreResult, error) {
	module, ok := s.bp.Module(route)
	if !ok {
		return nil, diagerr.Malformed("unknown route %q", route)
	}
	routing := s.bp.RoutingModule()
	expected := append(routing, module...)
	if err := checkSequence("routing and module", expected, allAnswers); err != nil {
		return nil, err
	}

	res := &ScoreResult{
		Route:    route,
		PerAxis:  make(map[atomgraph.Axis]Breakdown),
		PerSkill: make(map[itembank.Skill]Breakdown),
		Graded:   make([]GradedItem, 0, len(allAnswers)),
	}

	for i, a := range allAnswers {
		it, err := s.bank.Item(a.ItemID)
		if err != nil {
			return nil, diagerr.Misconfigured("blueprint", "administered item %q missing from item bank", a.ItemID)
		}
		w, ok := s.bp.Weight(it.Difficulty)
		if !ok {
			return nil, diagerr.Misconfigured("blueprint", "no weight for difficulty %q", it.Difficulty)
		}

		stage := "module"
		if i < len(routing) {
			stage = "routing"
		}
		outcome := Grade(it, a)
		correct := outcome == OutcomeCorrect

		res.OverallMax += w
		if stage == "module" {
			res.MaxScore += w
		}
		if correct {
			res.OverallRaw += w
			if stage == "routing" {
				res.RoutingCorrect++
			} else {
				res.RawScore += w
				res.ModuleCorrect++
			}
		}
		res.PerAxis[it.Axis] = tally(res.PerAxis[it.Axis], correct)
		res.PerSkill[it.Skill] = tally(res.PerSkill[it.Skill], correct)
		res.Graded = append(res.Graded, GradedItem{Item: it, Outcome: outcome, Stage: stage})
	}

	if res.MaxScore > 0 {
		res.Normalized = res.RawScore / res.MaxScore
	}
	if res.OverallMax > 0 {
		res.OverallNormalized = res.OverallRaw / res.OverallMax
	}

	res.LookupCount = res.ModuleCorrect
	if s.bp.CountBasis() == blueprint.BasisTotal {
		res.LookupCount = res.RoutingCorrect + res.ModuleCorrect
	}
	entry, ok := s.bp.Lookup(route, res.LookupCount)
	if !ok {
		return nil, diagerr.Misconfigured("score table", "no entry for route %q with %d correct", route, res.LookupCount)
	}
	res.Predicted = PredictedScore{Point: entry.Score, Range: entry.Range}

	return res, nil
}

func tally(b Breakdown, correct bool) Breakdown {
	b.Total++
	if correct {
		b.Correct++
	}
	b.Pct = 100 * float64(b.Correct) / float64(b.Total)
	return b
}
