package blueprint

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/abhisek/paesdx/internal/itembank"
	"golang.org/x/mod/semver"
)

// span is an inclusive integer interval owned by a labelled config row.
type span struct {
	label string
	lo    int
	hi    int
}

// checkPartition reports every gap, overlap or out-of-bounds span so that
// spans cover [lo, hi] exactly once.
func checkPartition(what string, spans []span, lo, hi int) []string {
	var errs []string
	sorted := make([]span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].lo < sorted[j].lo })

	next := lo
	for _, s := range sorted {
		if s.lo > s.hi {
			errs = append(errs, fmt.Sprintf("%s: %s has min %d > max %d", what, s.label, s.lo, s.hi))
			continue
		}
		if s.lo < lo || s.hi > hi {
			errs = append(errs, fmt.Sprintf("%s: %s [%d, %d] is outside [%d, %d]", what, s.label, s.lo, s.hi, lo, hi))
		}
		switch {
		case s.lo > next:
			errs = append(errs, fmt.Sprintf("%s: no entry covers [%d, %d]", what, next, s.lo-1))
		case s.lo < next:
			errs = append(errs, fmt.Sprintf("%s: %s overlaps counts [%d, %d]", what, s.label, s.lo, min(s.hi, next-1)))
		}
		if s.hi+1 > next {
			next = s.hi + 1
		}
	}
	if next <= hi {
		errs = append(errs, fmt.Sprintf("%s: no entry covers [%d, %d]", what, next, hi))
	}
	return errs
}

// canonicalVersion normalises a blueprint version to semver's "vX.Y.Z".
func canonicalVersion(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", false
	}
	return semver.Canonical(v), true
}

// validateDocument collects every structural problem of doc against bank.
func validateDocument(doc *Document, bank *itembank.Bank) []string {
	var errs []string

	if _, ok := canonicalVersion(doc.Version); !ok {
		errs = append(errs, fmt.Sprintf("version %q is not a semantic version", doc.Version))
	}

	// Routes may share items with each other but never with the routing module.
	checkModule := func(label string, ids []string, owners map[string]string) {
		if len(ids) == 0 {
			errs = append(errs, fmt.Sprintf("%s has no items", label))
		}
		for _, id := range ids {
			if !bank.Has(id) {
				errs = append(errs, fmt.Sprintf("%s references unknown item %q", label, id))
				continue
			}
			if owner, dup := owners[id]; dup {
				errs = append(errs, fmt.Sprintf("item %q appears in both %s and %s", id, owner, label))
				continue
			}
			owners[id] = label
		}
	}

	routingOwners := make(map[string]string, len(doc.RoutingModule))
	checkModule("routing module", doc.RoutingModule, routingOwners)
	if len(doc.Modules) == 0 {
		errs = append(errs, "no second-stage modules defined")
	}
	for _, route := range sortedRoutes(doc.Modules) {
		if strings.TrimSpace(string(route)) == "" {
			errs = append(errs, "module with empty route name")
		}
		owners := maps.Clone(routingOwners)
		checkModule(fmt.Sprintf("module %q", route), doc.Modules[route], owners)
	}

	// Weights for every difficulty actually administered.
	for _, d := range slices.Sorted(maps.Keys(doc.Weights)) {
		w := doc.Weights[d]
		if !d.Valid() {
			errs = append(errs, fmt.Sprintf("weight for unknown difficulty %q", d))
		}
		if w <= 0 {
			errs = append(errs, fmt.Sprintf("weight for %q must be > 0, got %g", d, w))
		}
	}
	needed := make(map[itembank.Difficulty]bool)
	collect := func(ids []string) {
		for _, id := range ids {
			if it, err := bank.Item(id); err == nil {
				needed[it.Difficulty] = true
			}
		}
	}
	collect(doc.RoutingModule)
	for _, ids := range doc.Modules {
		collect(ids)
	}
	for _, d := range itembank.AllDifficulties() {
		if needed[d] {
			if _, ok := doc.Weights[d]; !ok {
				errs = append(errs, fmt.Sprintf("no weight for difficulty %q", d))
			}
		}
	}

	// Routing rules partition [0, N].
	n := len(doc.RoutingModule)
	var ruleSpans []span
	routed := make(map[Route]bool)
	for i, r := range doc.RoutingRules {
		label := fmt.Sprintf("rule %d (%s)", i, r.Route)
		if _, ok := doc.Modules[r.Route]; !ok {
			errs = append(errs, fmt.Sprintf("routing %s targets unknown route %q", label, r.Route))
		}
		routed[r.Route] = true
		ruleSpans = append(ruleSpans, span{label: label, lo: r.MinCorrect, hi: r.MaxCorrect})
	}
	errs = append(errs, checkPartition("routing rules", ruleSpans, 0, n)...)
	for _, route := range sortedRoutes(doc.Modules) {
		if !routed[route] {
			errs = append(errs, fmt.Sprintf("module %q is unreachable: no routing rule selects it", route))
		}
	}

	// Score table covers every attainable (route, count) pair.
	basis := doc.ScoreTable.CountBasis
	if basis == "" {
		basis = BasisModule
	}
	if basis != BasisModule && basis != BasisTotal {
		errs = append(errs, fmt.Sprintf("score table has unknown count basis %q", basis))
		return errs
	}
	byRoute := make(map[Route][]span)
	rows := make(map[Route][]ScoreEntry)
	for i, e := range doc.ScoreTable.Entries {
		label := fmt.Sprintf("entry %d", i)
		if _, ok := doc.Modules[e.Route]; !ok {
			errs = append(errs, fmt.Sprintf("score table %s targets unknown route %q", label, e.Route))
			continue
		}
		if e.Range.Low > e.Range.High {
			errs = append(errs, fmt.Sprintf("score table %s has range low %d > high %d", label, e.Range.Low, e.Range.High))
		}
		if e.Score < e.Range.Low || e.Score > e.Range.High {
			errs = append(errs, fmt.Sprintf("score table %s has score %d outside its range [%d, %d]", label, e.Score, e.Range.Low, e.Range.High))
		}
		byRoute[e.Route] = append(byRoute[e.Route], span{label: label, lo: e.MinCorrect, hi: e.MaxCorrect})
		rows[e.Route] = append(rows[e.Route], e)
	}
	for _, route := range sortedRoutes(doc.Modules) {
		lo, hi := attainableCounts(doc, basis, route)
		if len(byRoute[route]) == 0 {
			errs = append(errs, fmt.Sprintf("score table has no entries for route %q", route))
			continue
		}
		errs = append(errs, checkPartition(fmt.Sprintf("score table route %q", route), byRoute[route], lo, hi)...)
		errs = append(errs, checkMonotonic(route, rows[route])...)
	}

	return errs
}

// checkMonotonic reports rows of one route whose score drops below the
// score of a row covering fewer correct answers.
func checkMonotonic(route Route, entries []ScoreEntry) []string {
	sorted := slices.Clone(entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinCorrect < sorted[j].MinCorrect })

	var errs []string
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Score < prev.Score {
			errs = append(errs, fmt.Sprintf("score table route %q: score %d for [%d, %d] is below %d for [%d, %d]",
				route, cur.Score, cur.MinCorrect, cur.MaxCorrect, prev.Score, prev.MinCorrect, prev.MaxCorrect))
		}
	}
	return errs
}

// attainableCounts returns the inclusive correct-count interval a student
// on route can reach under basis.
func attainableCounts(doc *Document, basis CountBasis, route Route) (int, int) {
	moduleSize := len(doc.Modules[route])
	if basis == BasisModule {
		return 0, moduleSize
	}
	lo, hi := -1, -1
	for _, r := range doc.RoutingRules {
		if r.Route != route {
			continue
		}
		if lo < 0 || r.MinCorrect < lo {
			lo = r.MinCorrect
		}
		if r.MaxCorrect > hi {
			hi = r.MaxCorrect
		}
	}
	if lo < 0 {
		return 0, moduleSize
	}
	return lo, hi + moduleSize
}

func sortedRoutes(modules map[Route][]string) []Route {
	routes := make([]Route, 0, len(modules))
	for r := range modules {
		routes = append(routes, r)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i] < routes[j] })
	return routes
}
