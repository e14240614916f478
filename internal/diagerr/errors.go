// Package diagerr defines the error taxonomy shared by the diagnostic
// engine. Every error aborts the computation; none is recovered with a
// default value.
package diagerr

import (
	"errors"
	"fmt"
	"strings"
)

// MalformedInputError indicates answers that do not match the expected
// module size or item order. Nothing is partially processed.
type MalformedInputError struct {
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed input: %s: %v", e.Reason, e.Err)
	}
	return "malformed input: " + e.Reason
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// Malformed builds a MalformedInputError from a format string.
func Malformed(format string, args ...any) error {
	return &MalformedInputError{Reason: fmt.Sprintf(format, args...)}
}

// ConfigurationError indicates an incomplete or inconsistent blueprint,
// score table or knowledge graph.
type ConfigurationError struct {
	Source   string   // "knowledge graph", "item bank", "blueprint", ...
	Problems []string // every problem found, in detection order
}

func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s configuration invalid: %s", e.Source, e.Problems[0])
	}
	return fmt.Sprintf("%s configuration invalid:\n  %s", e.Source, strings.Join(e.Problems, "\n  "))
}

// Misconfigured builds a single-problem ConfigurationError.
func Misconfigured(source, format string, args ...any) error {
	return &ConfigurationError{Source: source, Problems: []string{fmt.Sprintf(format, args...)}}
}

// UnknownAtomReferenceError indicates an item or prerequisite edge that
// names an atom missing from the knowledge graph.
type UnknownAtomReferenceError struct {
	AtomID   string
	Referrer string // e.g. `item "Q12"` or `atom "A-M1-ALG-03"`
}

func (e *UnknownAtomReferenceError) Error() string {
	return fmt.Sprintf("%s references unknown atom %q", e.Referrer, e.AtomID)
}

// IsMalformed reports whether err wraps a MalformedInputError.
func IsMalformed(err error) bool {
	var target *MalformedInputError
	return errors.As(err, &target)
}

// IsConfiguration reports whether err wraps a ConfigurationError or an
// UnknownAtomReferenceError. Both mean the loaded content cannot be served.
func IsConfiguration(err error) bool {
	var cfg *ConfigurationError
	if errors.As(err, &cfg) {
		return true
	}
	var ref *UnknownAtomReferenceError
	return errors.As(err, &ref)
}
