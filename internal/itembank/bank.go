// Package itembank is the read-only index of diagnostic questions.
package itembank

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/paesdx/internal/atomgraph"
	"github.com/abhisek/paesdx/internal/diagerr"
)

// Bank indexes items by ID. It is immutable after Build.
type Bank struct {
	items []Item
	byID  map[string]*Item
}

// Build validates items against the knowledge graph and returns a Bank.
// An item naming an atom missing from graph yields
// *diagerr.UnknownAtomReferenceError; other problems are collected into a
// *diagerr.ConfigurationError.
func Build(items []Item, graph *atomgraph.Graph) (*Bank, error) {
	var errs []string
	seen := make(map[string]bool, len(items))

	for _, it := range items {
		if strings.TrimSpace(it.ID) == "" {
			errs = append(errs, "item with empty ID")
			continue
		}
		if seen[it.ID] {
			errs = append(errs, fmt.Sprintf("duplicate item ID: %q", it.ID))
		}
		seen[it.ID] = true

		if !it.Axis.Valid() {
			errs = append(errs, fmt.Sprintf("item %q has unknown axis %q", it.ID, it.Axis))
		}
		if !it.Skill.Valid() {
			errs = append(errs, fmt.Sprintf("item %q has unknown skill %q", it.ID, it.Skill))
		}
		if !it.Difficulty.Valid() {
			errs = append(errs, fmt.Sprintf("item %q has unknown difficulty %q", it.ID, it.Difficulty))
		}
		switch choice := strings.TrimSpace(it.CorrectChoice); {
		case choice == "":
			errs = append(errs, fmt.Sprintf("item %q has no correct choice", it.ID))
		case strings.EqualFold(choice, DontKnowResponse):
			errs = append(errs, fmt.Sprintf("item %q uses the reserved response %q as its correct choice", it.ID, DontKnowResponse))
		}
		if len(it.AtomIDs) == 0 {
			errs = append(errs, fmt.Sprintf("item %q references no atoms", it.ID))
		}
		axisTested := false
		for _, atomID := range it.AtomIDs {
			a, err := graph.Atom(atomID)
			if err != nil {
				return nil, &diagerr.UnknownAtomReferenceError{
					AtomID:   atomID,
					Referrer: fmt.Sprintf("item %q", it.ID),
				}
			}
			axisTested = axisTested || a.Axis == it.Axis
		}
		if len(it.AtomIDs) > 0 && it.Axis.Valid() && !axisTested {
			errs = append(errs, fmt.Sprintf("item %q is filed under axis %q but tests no atom of that axis", it.ID, it.Axis))
		}
	}

	if len(errs) > 0 {
		return nil, &diagerr.ConfigurationError{Source: "item bank", Problems: errs}
	}

	b := &Bank{
		items: make([]Item, len(items)),
		byID:  make(map[string]*Item, len(items)),
	}
	for i, it := range items {
		it.AtomIDs = slices.Clone(it.AtomIDs)
		b.items[i] = it
		b.byID[it.ID] = &b.items[i]
	}
	return b, nil
}

// Item returns an item by ID, or error if not found.
func (b *Bank) Item(id string) (Item, error) {
	it, ok := b.byID[id]
	if !ok {
		return Item{}, fmt.Errorf("item not found: %q", id)
	}
	out := *it
	out.AtomIDs = slices.Clone(it.AtomIDs)
	return out, nil
}

// Has reports whether id is in the bank.
func (b *Bank) Has(id string) bool {
	_, ok := b.byID[id]
	return ok
}

// Len returns the number of items.
func (b *Bank) Len() int {
	return len(b.items)
}

// AllItems returns all items in input order.
func (b *Bank) AllItems() []Item {
	out := make([]Item, len(b.items))
	for i, it := range b.items {
		it.AtomIDs = slices.Clone(it.AtomIDs)
		out[i] = it
	}
	return out
}
