// Package mst implements the deterministic multistage test: routing on the
// fixed first-stage module and weighted scoring over the administered
// items. Everything here is a pure function of its inputs and the loaded
// blueprint.
package mst

import (
	"github.com/abhisek/paesdx/internal/blueprint"
	"github.com/abhisek/paesdx/internal/diagerr"
	"github.com/abhisek/paesdx/internal/itembank"
)

// Router assigns the second-stage module from routing-stage answers.
type Router struct {
	bp   *blueprint.Blueprint
	bank *itembank.Bank
}

// NewRouter creates a Router over a validated blueprint and item bank.
func NewRouter(bp *blueprint.Blueprint, bank *itembank.Bank) *Router {
	return &Router{bp: bp, bank: bank}
}

// Route counts correct routing answers and returns the route whose rule
// contains the count. Answers must match the routing module exactly, in
// order.
func (r *Router) Route(routingAnswers []Answer) (blueprint.Route, error) {
	routing := r.bp.RoutingModule()
	if err := checkSequence("routing module", routing, routingAnswers); err != nil {
		return "", err
	}

	correct := 0
	for _, a := range routingAnswers {
		it, err := r.bank.Item(a.ItemID)
		if err != nil {
			return "", diagerr.Misconfigured("blueprint", "routing item %q missing from item bank", a.ItemID)
		}
		if Grade(it, a) == OutcomeCorrect {
			correct++
		}
	}

	route, ok := r.bp.RouteFor(correct)
	if !ok {
		return "", diagerr.Misconfigured("blueprint", "no routing rule covers %d correct answers", correct)
	}
	return route, nil
}

// Module returns the item IDs a student on route receives next.
func (r *Router) Module(route blueprint.Route) ([]string, error) {
	ids, ok := r.bp.Module(route)
	if !ok {
		return nil, diagerr.Malformed("unknown route %q", route)
	}
	return ids, nil
}

// checkSequence verifies that answers name exactly the expected items in
// the expected order.
func checkSequence(stage string, expected []string, answers []Answer) error {
	if len(answers) != len(expected) {
		return diagerr.Malformed("%s: got %d answers, want %d", stage, len(answers), len(expected))
	}
	for i, a := range answers {
		if a.ItemID != expected[i] {
			return diagerr.Malformed("%s: answer %d is for item %q, want %q", stage, i, a.ItemID, expected[i])
		}
	}
	return nil
}
