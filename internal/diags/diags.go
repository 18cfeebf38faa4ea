// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package diags implements the error taxonomy of spec.md §7: build-time
// infeasibility, planner errors, validator disagreement, numeric
// degeneracies and decoder inconsistencies, each carried as a typed
// [Diagnostic] rather than an opaque error string.
//
// This is a deliberately smaller sibling of the teacher's internal/tfdiags
// package: same Severity/Diagnostics shape (see severity_test.go,
// consolidate_warnings_test.go in the retrieved source), but without its
// global `PedanticMode` flag — Design Notes §9 calls out exactly this
// kind of global mutable state for replacement, so here the equivalent
// "treat warnings as errors" behavior is a field on [Collector] supplied
// at construction, not a package-level variable.
package diags

import "fmt"

// SeverityLevel is the two-valued severity a Diagnostic can carry.
type SeverityLevel int

const (
	ErrorLevel SeverityLevel = iota
	WarningLevel
)

func (s SeverityLevel) String() string {
	if s == WarningLevel {
		return "warning"
	}
	return "error"
}

// Class closes the set of diagnostic classes spec.md §7 names.
type Class int

const (
	ClassBuildInfeasible Class = iota
	ClassPlannerError
	ClassValidatorDisagreement
	ClassNumericDegeneracy
	ClassDecodeInconsistency
)

func (c Class) String() string {
	switch c {
	case ClassBuildInfeasible:
		return "build-infeasible"
	case ClassPlannerError:
		return "planner-error"
	case ClassValidatorDisagreement:
		return "validator-disagreement"
	case ClassNumericDegeneracy:
		return "numeric-degeneracy"
	case ClassDecodeInconsistency:
		return "decode-inconsistency"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported condition.
type Diagnostic struct {
	Severity SeverityLevel
	Class    Class
	Summary  string
	Detail   string
}

func (d Diagnostic) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("[%s/%s] %s", d.Severity, d.Class, d.Summary)
	}
	return fmt.Sprintf("[%s/%s] %s: %s", d.Severity, d.Class, d.Summary, d.Detail)
}

func (d Diagnostic) Error() string { return d.String() }

// Diagnostics is an ordered collection of Diagnostic values.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic in the collection is at
// ErrorLevel.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == ErrorLevel {
			return true
		}
	}
	return false
}

// Errors returns only the ErrorLevel diagnostics.
func (ds Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == ErrorLevel {
			out = append(out, d)
		}
	}
	return out
}

// ConsolidateWarnings collapses repeated warnings that share the same
// Class and Summary into one, appending an occurrence count to Detail.
// This mirrors the teacher's tfdiags warning-consolidation behavior,
// which exists because a single degenerate scenario condition (e.g. one
// zero speed) can otherwise produce one warning per grounded action that
// happens to reference it.
func (ds Diagnostics) ConsolidateWarnings() Diagnostics {
	type key struct {
		class   Class
		summary string
	}
	counts := make(map[key]int)
	first := make(map[key]Diagnostic)
	var order []key
	for _, d := range ds {
		if d.Severity != WarningLevel {
			continue
		}
		k := key{d.Class, d.Summary}
		if counts[k] == 0 {
			first[k] = d
			order = append(order, k)
		}
		counts[k]++
	}
	out := make(Diagnostics, 0, len(ds))
	for _, d := range ds {
		if d.Severity == ErrorLevel {
			out = append(out, d)
		}
	}
	for _, k := range order {
		d := first[k]
		if n := counts[k]; n > 1 {
			d.Detail = fmt.Sprintf("%s (%d occurrences)", d.Detail, n)
		}
		out = append(out, d)
	}
	return out
}
