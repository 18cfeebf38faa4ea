// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package planproblem

import "github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"

// Goal is the conjunction of named conditions a final state must satisfy
// (spec.md §4.3.5: "all fields harvested AND (all bunkers empty OR ...
// all mass accounted for)"). Each Condition is checked independently so
// the validator and any diagnostics can report exactly which goal clause
// failed.
type Goal struct {
	Conditions []GoalCondition
}

// GoalCondition is one named, checkable clause of a Goal.
type GoalCondition struct {
	Name  string
	Holds func(fluent.View) bool
}

// Satisfied reports whether every clause holds in the given final state,
// and if not, the name of the first clause that failed.
func (g Goal) Satisfied(final fluent.View) (bool, string) {
	for _, c := range g.Conditions {
		if !c.Holds(final) {
			return false, c.Name
		}
	}
	return true, ""
}
