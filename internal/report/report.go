// Package report assembles the immutable diagnostic report consumed by the
// UI and the study-plan generator.
package report

import (
	"maps"
	"slices"
	"time"

	"github.com/abhisek/paesdx/internal/atomgraph"
	"github.com/abhisek/paesdx/internal/blueprint"
	"github.com/abhisek/paesdx/internal/diagnosis"
	"github.com/abhisek/paesdx/internal/itembank"
	"github.com/abhisek/paesdx/internal/mst"
)

// Recommendation is one ranked next atom to study.
type Recommendation struct {
	AtomID      string          `json:"atom_id"`
	Axis        atomgraph.Axis  `json:"axis"`
	State       diagnosis.State `json:"state"`
	UnlockValue int             `json:"unlock_value"`
	Unlocks     []string        `json:"unlocks,omitempty"`
}

// AxisMastery is the share of diagnosed atoms of an axis that are mastered.
type AxisMastery struct {
	Mastered  int     `json:"mastered"`
	Diagnosed int     `json:"diagnosed"`
	Pct       float64 `json:"pct"`
}

// Report is one completed diagnostic. It is never mutated after Assemble;
// a new attempt produces a new Report.
type Report struct {
	ID               string                           `json:"id"`
	StudentID        string                           `json:"student_id"`
	Route            blueprint.Route                  `json:"route"`
	BlueprintVersion string                           `json:"blueprint_version"`
	CreatedAt        time.Time                        `json:"created_at"`
	PredictedScore   mst.PredictedScore               `json:"predicted_score"`
	NormalizedScore  float64                          `json:"normalized_score"`
	OverallScore     float64                          `json:"overall_normalized_score"`
	CorrectCount     int                              `json:"correct_count"`
	PerAxis          map[atomgraph.Axis]mst.Breakdown `json:"per_axis"`
	PerSkill         map[itembank.Skill]mst.Breakdown `json:"per_skill"`
	AxisMastery      map[atomgraph.Axis]AxisMastery   `json:"axis_mastery"`
	AtomDiagnoses    map[string]diagnosis.State       `json:"atom_diagnoses"`
	AtomDetails      map[string]diagnosis.Diagnosis   `json:"atom_details,omitempty"`
	Recommendations  []string                         `json:"recommendations"`
	RecommendDetails []Recommendation                 `json:"recommendation_details"`
	ReviewCandidates []string                         `json:"review_candidates"`
}

// Input bundles the outputs Assemble combines.
type Input struct {
	ID               string
	StudentID        string
	Route            blueprint.Route
	BlueprintVersion string
	Now              time.Time
	Score            *mst.ScoreResult
	Diagnoses        diagnosis.Result
	Graph            *atomgraph.Graph
}

// Assemble builds a Report. It performs no I/O; persisting the report is
// the caller's job.
func Assemble(in Input) *Report {
	r := &Report{
		ID:               in.ID,
		StudentID:        in.StudentID,
		Route:            in.Route,
		BlueprintVersion: in.BlueprintVersion,
		CreatedAt:        in.Now.UTC(),
		AtomDiagnoses:    in.Diagnoses.States(),
		AtomDetails:      cloneDetails(in.Diagnoses),
		AxisMastery:      axisMastery(in.Diagnoses, in.Graph),
	}
	if in.Score != nil {
		r.PredictedScore = in.Score.Predicted
		r.NormalizedScore = in.Score.Normalized
		r.OverallScore = in.Score.OverallNormalized
		r.CorrectCount = in.Score.LookupCount
		r.PerAxis = maps.Clone(in.Score.PerAxis)
		r.PerSkill = maps.Clone(in.Score.PerSkill)
	}

	r.RecommendDetails = Recommend(in.Diagnoses, in.Graph)
	r.Recommendations = make([]string, len(r.RecommendDetails))
	for i, rec := range r.RecommendDetails {
		r.Recommendations[i] = rec.AtomID
	}
	r.ReviewCandidates = ReviewCandidates(in.Diagnoses, in.Graph)
	return r
}

func axisMastery(res diagnosis.Result, g *atomgraph.Graph) map[atomgraph.Axis]AxisMastery {
	out := make(map[atomgraph.Axis]AxisMastery)
	for id, d := range res {
		a, err := g.Atom(id)
		if err != nil {
			continue
		}
		m := out[a.Axis]
		m.Diagnosed++
		if d.State == diagnosis.StateMastered {
			m.Mastered++
		}
		m.Pct = 100 * float64(m.Mastered) / float64(m.Diagnosed)
		out[a.Axis] = m
	}
	return out
}

func cloneDetails(res diagnosis.Result) map[string]diagnosis.Diagnosis {
	out := make(map[string]diagnosis.Diagnosis, len(res))
	for id, d := range res {
		d.ItemIDs = slices.Clone(d.ItemIDs)
		out[id] = d
	}
	return out
}
