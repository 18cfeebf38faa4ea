// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package planproblem

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
)

// Problem is the ready-to-plan artifact the encoder produces (spec.md
// §4.3): objects, fluents with initial values, actions, goals and an
// optional metric.
//
// Per Design Notes §9 ("model the Problem as an immutable graph... no
// borrows from State to Problem beyond the call"), Problem is immutable
// once returned by the encoder: nothing in this package or any caller
// mutates a Problem's Objects, Actions, Goal or Metric after
// construction. Only the separate, planner-owned State is mutated during
// search.
type Problem struct {
	ID       string
	Mode     PlanningType
	Silo     SiloPlanningType
	Fluents  *fluent.Registry
	Objects  *ObjectCatalog
	Initial  *fluent.State
	Actions  []Action
	Goal     Goal
	Metric   Metric
}

// New assembles a Problem. The encoder is the only caller; everything
// else receives a *Problem as read-only input.
func New(mode PlanningType, silo SiloPlanningType, reg *fluent.Registry, objects *ObjectCatalog, initial *fluent.State, actions []Action, goal Goal, metric Metric) *Problem {
	return &Problem{
		ID:      uuid.NewString(),
		Mode:    mode,
		Silo:    silo,
		Fluents: reg,
		Objects: objects,
		Initial: initial,
		Actions: actions,
		Goal:    goal,
		Metric:  metric,
	}
}

// ActionByName finds an action schema by name, used by the decoder and
// the reference planner to recover the schema behind one plan step.
func (p *Problem) ActionByName(name string) (Action, bool) {
	for _, a := range p.Actions {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// Apply applies the constant and simulated effects of action a, grounded
// with bindings, to a clone of pre, returning the resulting state. This
// is the single "simulator" used both by the reference planner
// (internal/planner/bruteforce) to search, and by the decoder's
// round-trip check (spec.md §8: "decoding a plan and re-simulating
// against the problem yields the same final mass-in-silos").
//
// Apply does not check preconditions; callers that need the
// precondition/effect coupling spec.md §4.2 describes should call
// a.IsApplicable first.
func (p *Problem) Apply(pre *fluent.State, a Action, bindings map[string]addrs.Ref) (*fluent.State, error) {
	next := pre.Clone()
	for _, eff := range a.Effects() {
		if eff.Condition != nil && !eff.Condition(pre, bindings) {
			continue
		}
		if !eff.HasValue() {
			continue // must be covered by a simulated effect below
		}
		if err := next.Set(eff.Fluent(bindings), eff.Value); err != nil {
			return nil, fmt.Errorf("action %s: %w", a.Name(), err)
		}
	}
	for _, sim := range a.SimulatedEffects() {
		vals, err := sim.Compute(pre, bindings)
		if err != nil {
			return nil, fmt.Errorf("action %s: simulated effect: %w", a.Name(), err)
		}
		if len(vals) != len(sim.Affected) {
			return nil, fmt.Errorf("action %s: simulated effect returned %d values, want %d", a.Name(), len(vals), len(sim.Affected))
		}
		for i, keyFn := range sim.Affected {
			if err := next.Set(keyFn(bindings), vals[i]); err != nil {
				return nil, fmt.Errorf("action %s: %w", a.Name(), err)
			}
		}
	}
	return next, nil
}
