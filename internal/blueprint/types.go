package blueprint

import "github.com/abhisek/paesdx/internal/itembank"

// Route names a second-stage module, e.g. "Low", "Medium", "High".
type Route string

// RouteRange maps an inclusive range of routing-module correct counts to a
// route.
type RouteRange struct {
	Route      Route `json:"route"`
	MinCorrect int   `json:"min_correct"`
	MaxCorrect int   `json:"max_correct"`
}

// CountBasis selects which correct count keys the score table.
type CountBasis string

const (
	// BasisModule counts correct answers in the second-stage module only.
	BasisModule CountBasis = "module"
	// BasisTotal counts correct answers across routing and module items.
	BasisTotal CountBasis = "total"
)

// ScoreRange is an inclusive predicted-score interval.
type ScoreRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// ScoreEntry is one calibrated row of the score mapping table.
type ScoreEntry struct {
	Route      Route      `json:"route"`
	MinCorrect int        `json:"min_correct"`
	MaxCorrect int        `json:"max_correct"`
	Score      int        `json:"score"`
	Range      ScoreRange `json:"range"`
}

// ScoreTable is the calibrated lookup from (route, correct count) to a
// predicted score. It is a table on purpose: there are no IRT parameters to
// derive a formula from yet.
type ScoreTable struct {
	CountBasis CountBasis   `json:"count_basis,omitempty"`
	Entries    []ScoreEntry `json:"entries"`
}

// Document is the externally editable blueprint as decoded from the
// content store.
type Document struct {
	Version       string                          `json:"version"`
	RoutingModule []string                        `json:"routing_module"`
	Modules       map[Route][]string              `json:"modules"`
	RoutingRules  []RouteRange                    `json:"routing_rules"`
	ScoreTable    ScoreTable                      `json:"score_table"`
	Weights       map[itembank.Difficulty]float64 `json:"weights"`
}
