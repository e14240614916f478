// Package blueprint holds the static MST configuration: module membership,
// routing rules, the calibrated score mapping table and difficulty weights.
//
// A Blueprint is validated in full when it is built, so that a bad
// deployment fails before serving any diagnostic instead of deep inside
// scoring.
package blueprint

import (
	"maps"
	"slices"

	"github.com/abhisek/paesdx/internal/diagerr"
	"github.com/abhisek/paesdx/internal/itembank"
)

// Blueprint is the validated, immutable form of a Document.
type Blueprint struct {
	version    string
	routing    []string
	modules    map[Route][]string
	rules      []RouteRange
	basis      CountBasis
	entries    []ScoreEntry
	weights    map[itembank.Difficulty]float64
	routeOrder []Route
}

// Build validates doc against bank and returns a Blueprint.
func Build(doc Document, bank *itembank.Bank) (*Blueprint, error) {
	if errs := validateDocument(&doc, bank); len(errs) > 0 {
		return nil, &diagerr.ConfigurationError{Source: "blueprint", Problems: errs}
	}

	version, _ := canonicalVersion(doc.Version)
	basis := doc.ScoreTable.CountBasis
	if basis == "" {
		basis = BasisModule
	}

	bp := &Blueprint{
		version: version,
		routing: slices.Clone(doc.RoutingModule),
		modules: make(map[Route][]string, len(doc.Modules)),
		rules:   slices.Clone(doc.RoutingRules),
		basis:   basis,
		entries: slices.Clone(doc.ScoreTable.Entries),
		weights: maps.Clone(doc.Weights),
	}
	for r, ids := range doc.Modules {
		bp.modules[r] = slices.Clone(ids)
	}
	slices.SortFunc(bp.rules, func(a, b RouteRange) int { return a.MinCorrect - b.MinCorrect })
	seen := make(map[Route]bool)
	for _, r := range bp.rules {
		if !seen[r.Route] {
			seen[r.Route] = true
			bp.routeOrder = append(bp.routeOrder, r.Route)
		}
	}
	return bp, nil
}

// Version returns the canonical semantic version, e.g. "v1.2.0".
func (b *Blueprint) Version() string { return b.version }

// RoutingModule returns the routing-stage item IDs in administration order.
func (b *Blueprint) RoutingModule() []string { return slices.Clone(b.routing) }

// RoutingSize returns the number of routing-stage items.
func (b *Blueprint) RoutingSize() int { return len(b.routing) }

// Module returns the second-stage item IDs for route.
func (b *Blueprint) Module(route Route) ([]string, bool) {
	ids, ok := b.modules[route]
	if !ok {
		return nil, false
	}
	return slices.Clone(ids), true
}

// Routes returns every route, ordered by the lowest routing count that
// selects it.
func (b *Blueprint) Routes() []Route { return slices.Clone(b.routeOrder) }

// RoutingRules returns the routing rules sorted by MinCorrect.
func (b *Blueprint) RoutingRules() []RouteRange { return slices.Clone(b.rules) }

// RouteFor returns the route whose routing rule contains correct.
func (b *Blueprint) RouteFor(correct int) (Route, bool) {
	for _, r := range b.rules {
		if correct >= r.MinCorrect && correct <= r.MaxCorrect {
			return r.Route, true
		}
	}
	return "", false
}

// CountBasis returns what the score table's correct count means.
func (b *Blueprint) CountBasis() CountBasis { return b.basis }

// Lookup returns the score table entry containing (route, correct).
// There is no interpolation: a miss returns false.
func (b *Blueprint) Lookup(route Route, correct int) (ScoreEntry, bool) {
	for _, e := range b.entries {
		if e.Route == route && correct >= e.MinCorrect && correct <= e.MaxCorrect {
			return e, true
		}
	}
	return ScoreEntry{}, false
}

// ScoreEntries returns the score table rows in document order.
func (b *Blueprint) ScoreEntries() []ScoreEntry { return slices.Clone(b.entries) }

// Weight returns the configured weight for a difficulty.
func (b *Blueprint) Weight(d itembank.Difficulty) (float64, bool) {
	w, ok := b.weights[d]
	return w, ok
}
