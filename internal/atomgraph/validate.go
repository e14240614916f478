package atomgraph

import (
	"fmt"
	"strings"

	"github.com/abhisek/paesdx/internal/diagerr"
)

// validateAtoms performs all structural checks on the given atom set.
// A dangling prerequisite is reported as *diagerr.UnknownAtomReferenceError;
// every other problem is collected into one *diagerr.ConfigurationError.
func validateAtoms(atoms []Atom) error {
	var errs []string

	idSet := make(map[string]bool, len(atoms))

	for _, a := range atoms {
		if strings.TrimSpace(a.ID) == "" {
			errs = append(errs, "atom with empty ID")
			continue
		}
		if idSet[a.ID] {
			errs = append(errs, fmt.Sprintf("duplicate atom ID: %q", a.ID))
		}
		idSet[a.ID] = true
		if !a.Axis.Valid() {
			errs = append(errs, fmt.Sprintf("atom %q has unknown axis %q", a.ID, a.Axis))
		}
	}

	// Dangling edges first: Kahn's algorithm below would misreport them as cycles.
	for _, a := range atoms {
		for _, prereqID := range a.Prerequisites {
			if !idSet[prereqID] {
				return &diagerr.UnknownAtomReferenceError{
					AtomID:   prereqID,
					Referrer: fmt.Sprintf("prerequisite edge of atom %q", a.ID),
				}
			}
		}
	}

	for _, a := range atoms {
		seen := make(map[string]bool, len(a.Prerequisites))
		for _, prereqID := range a.Prerequisites {
			if prereqID == a.ID {
				errs = append(errs, fmt.Sprintf("atom %q lists itself as a prerequisite", a.ID))
			}
			if seen[prereqID] {
				errs = append(errs, fmt.Sprintf("atom %q lists prerequisite %q twice", a.ID, prereqID))
			}
			seen[prereqID] = true
		}
	}

	// Check for cycles using Kahn's algorithm
	inDegree := make(map[string]int, len(atoms))
	adjList := make(map[string][]string)
	for _, a := range atoms {
		inDegree[a.ID] = len(a.Prerequisites)
		for _, prereqID := range a.Prerequisites {
			adjList[prereqID] = append(adjList[prereqID], a.ID)
		}
	}

	var queue []string
	for _, a := range atoms {
		if inDegree[a.ID] == 0 {
			queue = append(queue, a.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if visited < len(idSet) {
		var cycleNodes []string
		for _, a := range atoms {
			if inDegree[a.ID] > 0 {
				cycleNodes = append(cycleNodes, a.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving atoms: %s", strings.Join(cycleNodes, ", ")))
	}

	if len(errs) > 0 {
		return &diagerr.ConfigurationError{Source: "knowledge graph", Problems: errs}
	}
	return nil
}
