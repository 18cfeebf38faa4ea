// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package diags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityLevelString(t *testing.T) {
	assert.Equal(t, "error", ErrorLevel.String())
	assert.Equal(t, "warning", WarningLevel.String())
}

func TestClassString(t *testing.T) {
	cases := map[Class]string{
		ClassBuildInfeasible:       "build-infeasible",
		ClassPlannerError:          "planner-error",
		ClassValidatorDisagreement: "validator-disagreement",
		ClassNumericDegeneracy:     "numeric-degeneracy",
		ClassDecodeInconsistency:   "decode-inconsistency",
		Class(99):                  "unknown",
	}
	for c, want := range cases {
		assert.Equal(t, want, c.String())
	}
}

func TestDiagnosticStringOmitsDetailWhenEmpty(t *testing.T) {
	d := Diagnostic{Severity: ErrorLevel, Class: ClassBuildInfeasible, Summary: "no harvester available"}
	assert.Equal(t, "[error/build-infeasible] no harvester available", d.String())
}

func TestDiagnosticStringIncludesDetailWhenPresent(t *testing.T) {
	d := Diagnostic{Severity: WarningLevel, Class: ClassNumericDegeneracy, Summary: "zero speed", Detail: "harvester h1"}
	assert.Equal(t, "[warning/numeric-degeneracy] zero speed: harvester h1", d.String())
}

func TestDiagnosticErrorMatchesString(t *testing.T) {
	d := Diagnostic{Severity: ErrorLevel, Class: ClassPlannerError, Summary: "no plan found"}
	assert.Equal(t, d.String(), d.Error())
}

func TestHasErrorsOnlyTrueWithAnErrorLevelEntry(t *testing.T) {
	assert.False(t, Diagnostics{{Severity: WarningLevel}}.HasErrors())
	assert.True(t, Diagnostics{{Severity: WarningLevel}, {Severity: ErrorLevel}}.HasErrors())
	assert.False(t, Diagnostics(nil).HasErrors())
}

func TestErrorsFiltersToErrorLevelOnly(t *testing.T) {
	ds := Diagnostics{
		{Severity: ErrorLevel, Summary: "e1"},
		{Severity: WarningLevel, Summary: "w1"},
		{Severity: ErrorLevel, Summary: "e2"},
	}
	got := ds.Errors()
	assert.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].Summary)
	assert.Equal(t, "e2", got[1].Summary)
}

func TestConsolidateWarningsCollapsesRepeatsAndKeepsErrors(t *testing.T) {
	ds := Diagnostics{
		{Severity: ErrorLevel, Class: ClassBuildInfeasible, Summary: "fatal"},
		{Severity: WarningLevel, Class: ClassNumericDegeneracy, Summary: "zero speed", Detail: "h1"},
		{Severity: WarningLevel, Class: ClassNumericDegeneracy, Summary: "zero speed", Detail: "h1"},
		{Severity: WarningLevel, Class: ClassNumericDegeneracy, Summary: "zero speed", Detail: "h1"},
		{Severity: WarningLevel, Class: ClassNumericDegeneracy, Summary: "different issue", Detail: "h2"},
	}
	out := ds.ConsolidateWarnings()

	assert.Len(t, out, 3) // 1 error + 2 distinct warning summaries
	assert.Equal(t, "fatal", out[0].Summary)
	assert.Equal(t, "zero speed", out[1].Summary)
	assert.Contains(t, out[1].Detail, "3 occurrences")
	assert.Equal(t, "different issue", out[2].Summary)
	assert.NotContains(t, out[2].Detail, "occurrences")
}

func TestConsolidateWarningsOnSingleOccurrenceLeavesDetailUntouched(t *testing.T) {
	ds := Diagnostics{{Severity: WarningLevel, Class: ClassNumericDegeneracy, Summary: "zero speed", Detail: "h1"}}
	out := ds.ConsolidateWarnings()
	assert.Len(t, out, 1)
	assert.Equal(t, "h1", out[0].Detail)
}
