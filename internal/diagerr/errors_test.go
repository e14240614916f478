package diagerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsMalformed_Wrapped(t *testing.T) {
	err := fmt.Errorf("score: %w", Malformed("got %d answers, want %d", 3, 8))
	if !IsMalformed(err) {
		t.Fatalf("expected wrapped MalformedInputError, got %v", err)
	}
	if IsConfiguration(err) {
		t.Error("malformed input must not classify as configuration error")
	}
	if !strings.Contains(err.Error(), "got 3 answers, want 8") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestIsConfiguration(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"config", Misconfigured("blueprint", "gap at %d", 4)},
		{"unknown atom", &UnknownAtomReferenceError{AtomID: "A-1", Referrer: `item "Q1"`}},
		{"wrapped", fmt.Errorf("load: %w", &UnknownAtomReferenceError{AtomID: "A-1", Referrer: "x"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !IsConfiguration(tt.err) {
				t.Errorf("IsConfiguration(%v) = false, want true", tt.err)
			}
		})
	}
	if IsConfiguration(errors.New("plain")) {
		t.Error("plain error classified as configuration error")
	}
}

func TestConfigurationError_MultipleProblems(t *testing.T) {
	err := &ConfigurationError{Source: "blueprint", Problems: []string{"one", "two"}}
	msg := err.Error()
	if !strings.Contains(msg, "one") || !strings.Contains(msg, "two") {
		t.Errorf("message should list every problem, got %q", msg)
	}
}

func TestMalformedInputError_Unwrap(t *testing.T) {
	inner := errors.New("bad json")
	err := &MalformedInputError{Reason: "decode payload", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to reach the wrapped error")
	}
}
