// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package validate implements the validator glue spec.md §4.8 describes:
// an interface external validators (e.g. an independent PDDL/ANML
// validator) plug into, plus a reference Validator that re-simulates a
// plan through internal/decoder and checks the result against the
// Problem's Goal. Disagreement between an external validator's verdict
// and this reference validator's own is a spec.md §7 class 3
// "validator-disagreement" diagnostic, never a silent override.
package validate

import (
	"fmt"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/decoder"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/diags"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/logging"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/metrics"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planproblem"
)

// Status is the closed set of validation outcomes spec.md §4.8 names.
type Status int

const (
	StatusValid Status = iota
	StatusInvalid
	StatusUnknown // external validator unavailable or itself errored
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Result is one validation's full outcome.
type Result struct {
	Status  Status
	Reason  string
	History *decoder.History
}

// Validator is the external interface: something that can judge one
// plan against one Problem without necessarily being this package's own
// re-simulation (e.g. a wrapped third-party PDDL validator binary).
type Validator interface {
	Validate(problem *planproblem.Problem, steps []decoder.Step) (Result, error)
}

// Reference is the built-in Validator: it decodes the plan and checks
// the final state against the Problem's Goal. It never fabricates a
// StatusUnknown result — a decode failure is reported as StatusInvalid
// with the decode diagnostics folded into Reason.
type Reference struct {
	Log logging.Logger
	Rec *metrics.Recorder
}

func (r Reference) Validate(problem *planproblem.Problem, steps []decoder.Step) (Result, error) {
	hist, ds := decoder.Decode(problem, steps, r.Log, r.Rec)
	if ds.HasErrors() {
		return Result{Status: StatusInvalid, Reason: ds.Error(), History: hist}, nil
	}
	ok, failedClause := problem.Goal.Satisfied(hist.FinalState())
	if !ok {
		return Result{Status: StatusInvalid, Reason: fmt.Sprintf("goal clause %q not satisfied", failedClause), History: hist}, nil
	}
	return Result{Status: StatusValid, History: hist}, nil
}

// Reconcile compares an external validator's Result against the
// Reference's own, returning a spec.md §7 class 3 diagnostic when they
// disagree on pass/fail (an "unknown" external result never conflicts;
// absence of an opinion is not a disagreement).
func Reconcile(external, reference Result) diags.Diagnostics {
	c := diags.NewCollector(false)
	if external.Status == StatusUnknown {
		return c.Diagnostics()
	}
	externalOK := external.Status == StatusValid
	referenceOK := reference.Status == StatusValid
	if externalOK != referenceOK {
		c.Append(diags.Diagnostic{
			Severity: diags.ErrorLevel,
			Class:    diags.ClassValidatorDisagreement,
			Summary:  "external validator and reference validator disagree",
			Detail:   fmt.Sprintf("external=%s (%s), reference=%s (%s)", external.Status, external.Reason, reference.Status, reference.Reason),
		})
	}
	return c.Diagnostics()
}
