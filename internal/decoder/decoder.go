// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package decoder implements the plan decoder spec.md §4.7 describes:
// replaying a sequence of grounded action applications against a
// Problem's initial state to produce a timestamped History, queryable
// per field/machine/silo at an arbitrary point in time. Like
// internal/planner/bruteforce and heuristic.SimulateBasePlan it calls
// Problem.Apply, but it is the only place that accumulates a Record per
// step rather than discarding intermediate states.
package decoder

import (
	"fmt"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/diags"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/logging"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/metrics"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planproblem"
)

// Step is one grounded action application in a plan: which action
// schema, bound to which objects, starting at which time. Sequential
// plans set StartTime to the step's position in the sequence (so
// ordering, not elapsed seconds, is what's meaningful); temporal plans
// set it to an actual elapsed-seconds timestamp (spec.md §4.3.2).
type Step struct {
	ActionName string
	Bindings   map[string]addrs.Ref
	StartTime  float64
}

// Record is one entry of a decoded History: the state immediately after
// applying Step, plus the timestamp the encoder/decoder associate with
// that state becoming current.
type Record struct {
	Step  Step
	Time  float64
	State *fluent.State
}

// History is the decoder's output: the initial state plus one Record
// per applied step, queryable by timestamp. It owns independent State
// clones throughout, never the planner's or Problem's own state (spec.md
// §3).
type History struct {
	problem *planproblem.Problem
	initial *fluent.State
	records []Record
}

// Decode replays steps against problem.Initial in order, applying each
// action's effects via Problem.Apply after checking its precondition.
// A precondition violation or simulated-effect error is reported as a
// spec.md §7 class 5 decode-inconsistency diagnostic and stops the
// replay; the partial History built so far is still returned, so a
// caller can inspect how far the plan got.
func Decode(problem *planproblem.Problem, steps []Step, log logging.Logger, rec *metrics.Recorder) (*History, diags.Diagnostics) {
	if log == nil {
		log = logging.Discard("decoder")
	}
	c := diags.NewCollector(false)
	h := &History{problem: problem, initial: problem.Initial.Clone()}

	cur := h.initial
	for i, step := range steps {
		action, ok := problem.ActionByName(step.ActionName)
		if !ok {
			c.DecodeError(fmt.Sprintf("step %d references unknown action %q", i, step.ActionName), "")
			break
		}
		if ok, failed := action.IsApplicable(cur, step.Bindings); !ok {
			c.DecodeError(
				fmt.Sprintf("step %d (%s) is not applicable", i, step.ActionName),
				fmt.Sprintf("precondition %q does not hold", failed),
			)
			break
		}
		next, err := problem.Apply(cur, action, step.Bindings)
		if err != nil {
			c.DecodeError(fmt.Sprintf("step %d (%s) failed to apply", i, step.ActionName), err.Error())
			break
		}
		dur, err := action.Duration(cur, step.Bindings)
		if err != nil {
			c.DecodeError(fmt.Sprintf("step %d (%s): duration computation failed", i, step.ActionName), err.Error())
			break
		}
		t := step.StartTime + dur
		h.records = append(h.records, Record{Step: step, Time: t, State: next})
		rec.ObserveDecodedRecord(entityKindOf(action))
		log.Trace("decoded step", "index", i, "action", step.ActionName, "time", t)
		cur = next
	}

	if rec != nil && len(h.records) > 0 {
		rec.SetFinalMassInSilos(cur.GetReal(fluent.Ground(domain.GlobalTotalMassInSilos)))
	}
	return h, c.Diagnostics()
}

func entityKindOf(a planproblem.Action) string {
	for _, p := range a.Params() {
		switch p.Kind {
		case addrs.Field:
			return "field"
		case addrs.Harvester, addrs.TransportVehicle, addrs.Compactor:
			return "machine"
		case addrs.Silo, addrs.SiloAccess:
			return "silo"
		}
	}
	return "other"
}

// FinalState returns the state after the last successfully applied
// step, or the initial state if none applied.
func (h *History) FinalState() *fluent.State {
	if len(h.records) == 0 {
		return h.initial
	}
	return h.records[len(h.records)-1].State
}

// stateAt returns the most recent state whose Time is <= t, or the
// initial state if t precedes every record.
func (h *History) stateAt(t float64) *fluent.State {
	cur := h.initial
	for _, r := range h.records {
		if r.Time > t {
			break
		}
		cur = r.State
	}
	return cur
}

// FieldStateAt returns field-related fluent values for ref as of time t.
func (h *History) FieldStateAt(t float64, ref addrs.Ref) (harvested bool, harvestedPercent float64, reservedMass float64) {
	st := h.stateAt(t)
	return st.GetBool(fluent.Ground(domain.FieldHarvested, ref)),
		st.GetReal(fluent.Ground(domain.FieldHarvestedPercent, ref)),
		st.GetReal(fluent.Ground(domain.FieldReservedMass, ref))
}

// MachineStateAt returns the machine's location and, if it is a TV, its
// bunker mass as of time t.
func (h *History) MachineStateAt(t float64, ref addrs.Ref, locationFluent, bunkerMassFluent string) (location addrs.Ref, bunkerMassKg float64) {
	st := h.stateAt(t)
	location = st.GetObject(fluent.Ground(locationFluent, ref))
	if bunkerMassFluent != "" {
		bunkerMassKg = st.GetReal(fluent.Ground(bunkerMassFluent, ref))
	}
	return location, bunkerMassKg
}

// SiloStateAt returns a silo access point's available capacity as of
// time t.
func (h *History) SiloStateAt(t float64, accessRef addrs.Ref, availableCapacityFluent string) float64 {
	return h.stateAt(t).GetReal(fluent.Ground(availableCapacityFluent, accessRef))
}

// GivesPreciseMachinePositions reports whether this History's timestamps
// reflect real elapsed seconds (temporal plans) as opposed to mere step
// order (sequential plans): spec.md §9's open question on whether
// infield transit duration should vary is moot for sequential histories,
// since StartTime there is an ordinal, not a clock reading.
func (h *History) GivesPreciseMachinePositions() bool {
	return h.problem.Mode == planproblem.Temporal
}

// Records returns every decoded record, in application order.
func (h *History) Records() []Record {
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}
