// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package planproblem

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
)

// EffectsMode selects how an action's EffectsHandler emits the effects it
// has accumulated, the five modes of spec.md §4.2.
type EffectsMode int

const (
	// EffectsNormalOnly emits only unconditional effects with a
	// constant value.
	EffectsNormalOnly EffectsMode = iota
	// EffectsNormalAndConditional additionally emits effects guarded by
	// a precondition.
	EffectsNormalAndConditional
	// EffectsNormalAndSimulated replaces any (timing, fluent) whose
	// value was never set with a call to the action's simulated-effect
	// callback.
	EffectsNormalAndSimulated
	// EffectsSimulatedOnly emits every effect via the simulated-effect
	// callback, ignoring any constant values that were set.
	EffectsSimulatedOnly
	// EffectsSimulatedWhereNeeded emits a simulated effect only for
	// (timing, fluent) pairs that are conditional or whose value was
	// never set; everything else is a plain constant effect.
	EffectsSimulatedWhereNeeded
)

// KeyFn resolves a grounded fluent.Key from an action's current parameter
// bindings. Every action in the library is a reusable schema (one Def
// applied across many object tuples, per its Params), so an effect can
// only name the fluent it touches indirectly, through the bound
// parameter names, never as a fixed fluent.Key baked in at Def
// construction time.
type KeyFn func(bindings map[string]addrs.Ref) fluent.Key

// KeyOf returns a KeyFn grounding the named fluent on the objects bound
// to paramNames, in order. Used throughout internal/action as the only
// way an effect or simulated effect names its fluent.
func KeyOf(name string, paramNames ...string) KeyFn {
	return func(bindings map[string]addrs.Ref) fluent.Key {
		args := make([]addrs.Ref, len(paramNames))
		for i, p := range paramNames {
			r, ok := bindings[p]
			if !ok {
				panic(fmt.Sprintf("planproblem: effect on %q has no binding for parameter %q", name, p))
			}
			args[i] = r
		}
		return fluent.Ground(name, args...)
	}
}

// EffectEntry is one accumulated (timing, fluent, value, condition)
// tuple, as spec.md §4.2 describes: "accumulates (timing, fluent, value,
// optional condition, value_applies_in_sim_effect flag) tuples".
type EffectEntry struct {
	Timing    Timing
	Fluent    KeyFn
	Value     cty.Value // zero Value (NilVal) if unset: must be resolved by a simulated effect
	Condition Condition // nil if unconditional

	// ValueAppliesInSimEffect marks an entry whose constant Value should
	// still be threaded into a simulated-effect callback's inputs (as
	// opposed to being wholly replaced by the callback's output), per
	// spec.md §4.2.
	ValueAppliesInSimEffect bool
}

// HasValue reports whether a constant value was set for this entry.
func (e EffectEntry) HasValue() bool {
	return e.Value != cty.NilVal
}

// Condition is a boolean expression, evaluated against a [fluent.View]
// and the action's current parameter bindings, that guards a conditional
// effect.
type Condition func(pre fluent.View, bindings map[string]addrs.Ref) bool

// SimulatedEffect computes the new value of one or more fluents from the
// pre-action state. It receives the parameter bindings as a map from
// formal parameter name to the bound object, and must return exactly one
// value per fluent in Affected, in order (spec.md §4.2, §5: "ordering
// guarantees").
//
// Implementations must not mutate the given View nor retain it past the
// call.
type SimulatedEffect struct {
	Affected []KeyFn
	Compute  func(pre fluent.View, bindings map[string]addrs.Ref) ([]cty.Value, error)
}

// EffectsHandler accumulates effect entries for one action declaration
// and, given an EffectsMode, emits the final effect list plus the
// simulated-effect callbacks needed to resolve any entry the constant
// form can't cover.
type EffectsHandler struct {
	entries    []EffectEntry
	simulators []SimulatedEffect
}

func NewEffectsHandler() *EffectsHandler {
	return &EffectsHandler{}
}

// Set records a plain (unconditional, constant) effect.
func (h *EffectsHandler) Set(t Timing, key KeyFn, val cty.Value) *EffectsHandler {
	h.entries = append(h.entries, EffectEntry{Timing: t, Fluent: key, Value: val})
	return h
}

// SetConditional records an effect that only applies when cond holds.
func (h *EffectsHandler) SetConditional(t Timing, key KeyFn, val cty.Value, cond Condition) *EffectsHandler {
	h.entries = append(h.entries, EffectEntry{Timing: t, Fluent: key, Value: val, Condition: cond})
	return h
}

// SetUnresolved records a (timing, fluent) pair with no constant value;
// it must be covered by a simulated effect before Finish.
func (h *EffectsHandler) SetUnresolved(t Timing, key KeyFn) *EffectsHandler {
	h.entries = append(h.entries, EffectEntry{Timing: t, Fluent: key, Value: cty.NilVal})
	return h
}

// Simulate registers a simulated-effect callback covering one or more
// fluents.
func (h *EffectsHandler) Simulate(sim SimulatedEffect) *EffectsHandler {
	h.simulators = append(h.simulators, sim)
	return h
}

// Finish resolves the accumulated entries under the given mode, returning
// the effects and simulated-effect callbacks an Action should carry.
func (h *EffectsHandler) Finish(mode EffectsMode) ([]EffectEntry, []SimulatedEffect) {
	switch mode {
	case EffectsNormalOnly:
		return filterEntries(h.entries, func(e EffectEntry) bool {
			return e.Condition == nil && e.HasValue()
		}), nil
	case EffectsNormalAndConditional:
		return filterEntries(h.entries, func(e EffectEntry) bool {
			return e.HasValue()
		}), nil
	case EffectsNormalAndSimulated:
		out := filterEntries(h.entries, func(e EffectEntry) bool { return e.HasValue() })
		return out, h.simulators
	case EffectsSimulatedOnly:
		return nil, h.simulators
	case EffectsSimulatedWhereNeeded:
		out := filterEntries(h.entries, func(e EffectEntry) bool {
			return e.Condition == nil && e.HasValue()
		})
		return out, h.simulators
	default:
		return h.entries, h.simulators
	}
}

func filterEntries(entries []EffectEntry, keep func(EffectEntry) bool) []EffectEntry {
	out := make([]EffectEntry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
