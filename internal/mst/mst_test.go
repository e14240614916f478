package mst

import (
	"fmt"
	"testing"

	"github.com/abhisek/paesdx/internal/atomgraph"
	"github.com/abhisek/paesdx/internal/blueprint"
	"github.com/abhisek/paesdx/internal/diagerr"
	"github.com/abhisek/paesdx/internal/itembank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var axes = []atomgraph.Axis{atomgraph.AxisNumbers, atomgraph.AxisAlgebra, atomgraph.AxisGeometry, atomgraph.AxisProbability}

func itemIDs(prefix string) []string {
	out := make([]string, 8)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return out
}

// fixture builds a three-route MST: 8 routing items, 8 items per module.
// Routing and High use Medium items; Low uses Low items; Medium mixes.
func fixture(t *testing.T) (*blueprint.Blueprint, *itembank.Bank) {
	t.Helper()
	g, err := atomgraph.Build([]atomgraph.Atom{
		{ID: "num-1", Axis: atomgraph.AxisNumbers},
		{ID: "alg-1", Axis: atomgraph.AxisAlgebra},
		{ID: "geo-1", Axis: atomgraph.AxisGeometry},
		{ID: "prob-1", Axis: atomgraph.AxisProbability},
	})
	require.NoError(t, err)
	atomFor := map[atomgraph.Axis]string{
		atomgraph.AxisNumbers: "num-1", atomgraph.AxisAlgebra: "alg-1",
		atomgraph.AxisGeometry: "geo-1", atomgraph.AxisProbability: "prob-1",
	}

	var items []itembank.Item
	add := func(prefix string, diff func(i int) itembank.Difficulty) {
		for i := 0; i < 8; i++ {
			axis := axes[i%len(axes)]
			items = append(items, itembank.Item{
				ID:            fmt.Sprintf("%s%d", prefix, i+1),
				Axis:          axis,
				Skill:         itembank.AllSkills()[i%4],
				Difficulty:    diff(i),
				CorrectChoice: "A",
				AtomIDs:       []string{atomFor[axis]},
			})
		}
	}
	medium := func(int) itembank.Difficulty { return itembank.DifficultyMedium }
	add("R", medium)
	add("L", func(int) itembank.Difficulty { return itembank.DifficultyLow })
	add("M", func(i int) itembank.Difficulty {
		if i%2 == 0 {
			return itembank.DifficultyLow
		}
		return itembank.DifficultyHigh
	})
	add("H", medium)

	bank, err := itembank.Build(items, g)
	require.NoError(t, err)

	var entries []blueprint.ScoreEntry
	for ri, r := range []blueprint.Route{"Low", "Medium", "High"} {
		for n := 0; n <= 8; n++ {
			pt := 150 + ri*250 + n*25
			entries = append(entries, blueprint.ScoreEntry{
				Route: r, MinCorrect: n, MaxCorrect: n, Score: pt,
				Range: blueprint.ScoreRange{Low: pt - 40, High: pt + 40},
			})
		}
	}

	bp, err := blueprint.Build(blueprint.Document{
		Version:       "v1.0.0",
		RoutingModule: itemIDs("R"),
		Modules: map[blueprint.Route][]string{
			"Low": itemIDs("L"), "Medium": itemIDs("M"), "High": itemIDs("H"),
		},
		RoutingRules: []blueprint.RouteRange{
			{Route: "Low", MinCorrect: 0, MaxCorrect: 3},
			{Route: "Medium", MinCorrect: 4, MaxCorrect: 6},
			{Route: "High", MinCorrect: 7, MaxCorrect: 8},
		},
		ScoreTable: blueprint.ScoreTable{Entries: entries},
		Weights: map[itembank.Difficulty]float64{
			itembank.DifficultyLow: 1.0, itembank.DifficultyMedium: 1.8, itembank.DifficultyHigh: 2.5,
		},
	}, bank)
	require.NoError(t, err)
	return bp, bank
}

// answers answers ids in order; the first nCorrect get "A", the rest get wrong.
func answers(ids []string, nCorrect int, wrong string) []Answer {
	out := make([]Answer, len(ids))
	for i, id := range ids {
		if i < nCorrect {
			out[i] = Respond(id, "A")
		} else {
			out[i] = Respond(id, wrong)
		}
	}
	return out
}

func TestGrade(t *testing.T) {
	it := itembank.Item{ID: "Q", CorrectChoice: "B"}
	tests := []struct {
		name string
		in   Answer
		want Outcome
	}{
		{"correct", Respond("Q", "B"), OutcomeCorrect},
		{"case and space", Respond("Q", " b "), OutcomeCorrect},
		{"wrong", Respond("Q", "C"), OutcomeIncorrect},
		{"dont know", Respond("Q", DontKnow), OutcomeDontKnow},
		{"dont know upper case", Respond("Q", " DONT_KNOW"), OutcomeDontKnow},
		{"omitted", Skip("Q"), OutcomeOmitted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(it, tt.in))
		})
	}
}

func TestRoute_ByCorrectCount(t *testing.T) {
	bp, bank := fixture(t)
	r := NewRouter(bp, bank)

	want := []blueprint.Route{"Low", "Low", "Low", "Low", "Medium", "Medium", "Medium", "High", "High"}
	for n := 0; n <= 8; n++ {
		got, err := r.Route(answers(itemIDs("R"), n, "C"))
		require.NoError(t, err)
		assert.Equal(t, want[n], got, "%d correct", n)
	}
}

func TestRoute_Deterministic(t *testing.T) {
	bp, bank := fixture(t)
	r := NewRouter(bp, bank)

	// Same count, different positions of the correct answers.
	a := answers(itemIDs("R"), 5, "C")
	b := answers(itemIDs("R"), 8, "C")
	for i := 0; i < 3; i++ {
		b[i] = Respond(b[i].ItemID, "D")
	}
	ra, err := r.Route(a)
	require.NoError(t, err)
	rb, err := r.Route(b)
	require.NoError(t, err)
	assert.Equal(t, ra, rb)
}

func TestRoute_DontKnowAndOmittedCountAsIncorrect(t *testing.T) {
	bp, bank := fixture(t)
	r := NewRouter(bp, bank)

	in := answers(itemIDs("R"), 8, "C")
	in[0] = Respond("R1", DontKnow)
	in[1] = Skip("R2")
	got, err := r.Route(in)
	require.NoError(t, err)
	assert.Equal(t, blueprint.Route("Medium"), got)
}

func TestRoute_Malformed(t *testing.T) {
	bp, bank := fixture(t)
	r := NewRouter(bp, bank)

	short := answers(itemIDs("R"), 8, "C")[:7]
	_, err := r.Route(short)
	assert.True(t, diagerr.IsMalformed(err), "short input: %v", err)

	swapped := answers(itemIDs("R"), 8, "C")
	swapped[0], swapped[1] = swapped[1], swapped[0]
	_, err = r.Route(swapped)
	assert.True(t, diagerr.IsMalformed(err), "out of order: %v", err)
}

func TestModule(t *testing.T) {
	bp, bank := fixture(t)
	r := NewRouter(bp, bank)

	ids, err := r.Module("High")
	require.NoError(t, err)
	assert.Equal(t, itemIDs("H"), ids)

	_, err = r.Module("Nope")
	assert.True(t, diagerr.IsMalformed(err))
}

func TestScore_RoundTripScenario(t *testing.T) {
	bp, bank := fixture(t)
	routing := answers(itemIDs("R"), 8, "C")

	route, err := NewRouter(bp, bank).Route(routing)
	require.NoError(t, err)
	require.Equal(t, blueprint.Route("High"), route)

	all := append(routing, answers(itemIDs("H"), 6, "C")...)
	res, err := NewScorer(bp, bank).Score(all, route)
	require.NoError(t, err)

	assert.InDelta(t, 6*1.8, res.RawScore, 1e-9)
	assert.InDelta(t, 8*1.8, res.MaxScore, 1e-9)
	assert.InDelta(t, 0.75, res.Normalized, 1e-9)
	assert.InDelta(t, 14.0/16.0, res.OverallNormalized, 1e-9)

	// ("High", 6) is configured as 150 + 2*250 + 6*25 = 800, exactly.
	assert.Equal(t, 6, res.LookupCount)
	assert.Equal(t, 800, res.Predicted.Point)
	assert.Equal(t, blueprint.ScoreRange{Low: 760, High: 840}, res.Predicted.Range)
}

func TestScore_Monotonic(t *testing.T) {
	bp, bank := fixture(t)
	s := NewScorer(bp, bank)
	routing := answers(itemIDs("R"), 5, "C")

	// Medium mixes Low and High items; correct answers are added one at a time.
	prev := -1.0
	for n := 0; n <= 8; n++ {
		res, err := s.Score(append(routing, answers(itemIDs("M"), n, DontKnow)...), "Medium")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Normalized, prev, "%d correct", n)
		assert.GreaterOrEqual(t, res.Normalized, 0.0)
		assert.LessOrEqual(t, res.Normalized, 1.0)
		prev = res.Normalized
	}
	assert.InDelta(t, 1.0, prev, 1e-9)
}

func TestScore_Breakdowns(t *testing.T) {
	bp, bank := fixture(t)
	all := append(answers(itemIDs("R"), 8, "C"), answers(itemIDs("H"), 4, "C")...)
	res, err := NewScorer(bp, bank).Score(all, "High")
	require.NoError(t, err)

	// Items cycle numbers, algebra, geometry, probability; H1..H4 cover one of each.
	for _, axis := range axes {
		b := res.PerAxis[axis]
		assert.Equal(t, 4, b.Total, "axis %s", axis)
		assert.Equal(t, 3, b.Correct, "axis %s", axis)
		assert.InDelta(t, 75.0, b.Pct, 1e-9)
	}
	total := 0
	for _, b := range res.PerSkill {
		total += b.Total
	}
	assert.Equal(t, 16, total)
	assert.Len(t, res.Graded, 16)
	assert.Equal(t, "routing", res.Graded[0].Stage)
	assert.Equal(t, "module", res.Graded[8].Stage)
}

func TestScore_MalformedInput(t *testing.T) {
	bp, bank := fixture(t)
	s := NewScorer(bp, bank)
	routing := answers(itemIDs("R"), 8, "C")

	tests := []struct {
		name  string
		in    []Answer
		route blueprint.Route
	}{
		{"routing only", routing, "High"},
		{"wrong module", append(routing, answers(itemIDs("L"), 8, "C")...), "High"},
		{"unknown route", append(routing, answers(itemIDs("H"), 8, "C")...), "Extreme"},
		{"extra answer", append(append(routing, answers(itemIDs("H"), 8, "C")...), Respond("L1", "A")), "High"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Score(tt.in, tt.route)
			assert.True(t, diagerr.IsMalformed(err), "got %v", err)
		})
	}
}

func TestScore_TotalBasisLookup(t *testing.T) {
	_, bank := fixture(t)
	bp, err := blueprint.Build(blueprint.Document{
		Version:       "v2.0.0",
		RoutingModule: itemIDs("R"),
		Modules:       map[blueprint.Route][]string{"Low": itemIDs("L"), "High": itemIDs("H")},
		RoutingRules: []blueprint.RouteRange{
			{Route: "Low", MinCorrect: 0, MaxCorrect: 4},
			{Route: "High", MinCorrect: 5, MaxCorrect: 8},
		},
		ScoreTable: blueprint.ScoreTable{
			CountBasis: blueprint.BasisTotal,
			Entries: []blueprint.ScoreEntry{
				{Route: "Low", MinCorrect: 0, MaxCorrect: 12, Score: 400, Range: blueprint.ScoreRange{Low: 300, High: 500}},
				{Route: "High", MinCorrect: 5, MaxCorrect: 13, Score: 650, Range: blueprint.ScoreRange{Low: 600, High: 700}},
				{Route: "High", MinCorrect: 14, MaxCorrect: 16, Score: 850, Range: blueprint.ScoreRange{Low: 800, High: 900}},
			},
		},
		Weights: map[itembank.Difficulty]float64{itembank.DifficultyLow: 1, itembank.DifficultyMedium: 1.8},
	}, bank)
	require.NoError(t, err)

	all := append(answers(itemIDs("R"), 8, "C"), answers(itemIDs("H"), 6, "C")...)
	res, err := NewScorer(bp, bank).Score(all, "High")
	require.NoError(t, err)
	assert.Equal(t, 14, res.LookupCount)
	assert.Equal(t, 850, res.Predicted.Point)
}
