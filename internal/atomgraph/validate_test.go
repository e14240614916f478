package atomgraph

import (
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/paesdx/internal/diagerr"
)

func TestValidateAtoms_DetectsCycle(t *testing.T) {
	atoms := []Atom{
		{ID: "root", Axis: AxisNumbers},
		{ID: "a", Axis: AxisAlgebra, Prerequisites: []string{"b", "root"}},
		{ID: "b", Axis: AxisAlgebra, Prerequisites: []string{"a"}},
	}
	_, err := Build(atoms)
	var cfgErr *diagerr.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error should mention cycle, got: %v", err)
	}
}

func TestValidateAtoms_DetectsDanglingPrereq(t *testing.T) {
	atoms := []Atom{
		{ID: "a", Axis: AxisNumbers},
		{ID: "b", Axis: AxisNumbers, Prerequisites: []string{"nonexistent"}},
	}
	_, err := Build(atoms)
	var refErr *diagerr.UnknownAtomReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected UnknownAtomReferenceError, got %v", err)
	}
	if refErr.AtomID != "nonexistent" {
		t.Errorf("got atom %q, want nonexistent", refErr.AtomID)
	}
}

func TestValidateAtoms_DetectsDuplicateID(t *testing.T) {
	atoms := []Atom{
		{ID: "a", Axis: AxisNumbers},
		{ID: "a", Axis: AxisNumbers},
	}
	err := validateAtoms(atoms)
	if err == nil {
		t.Fatal("expected error for duplicate ID, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error should mention duplicate, got: %v", err)
	}
}

func TestValidateAtoms_RejectsUnknownAxis(t *testing.T) {
	err := validateAtoms([]Atom{{ID: "a", Axis: "calculus"}})
	if err == nil || !strings.Contains(err.Error(), "unknown axis") {
		t.Fatalf("expected unknown axis error, got %v", err)
	}
}

func TestValidateAtoms_SelfAndRepeatedPrereq(t *testing.T) {
	atoms := []Atom{
		{ID: "a", Axis: AxisNumbers},
		{ID: "b", Axis: AxisNumbers, Prerequisites: []string{"a", "a"}},
		{ID: "c", Axis: AxisNumbers, Prerequisites: []string{"c"}},
	}
	err := validateAtoms(atoms)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "twice") || !strings.Contains(msg, "itself") {
		t.Errorf("error should report both problems, got: %v", msg)
	}
}

func TestValidateAtoms_EmptyGraphIsValid(t *testing.T) {
	if err := validateAtoms(nil); err != nil {
		t.Errorf("empty atom set: %v", err)
	}
}
