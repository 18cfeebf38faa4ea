// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package planproblem

import (
	"fmt"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
)

// Param declares one formal parameter of an action schema: a name and
// the entity Kind a bound object must have.
type Param struct {
	Name string
	Kind addrs.Kind
}

// Precondition is a boolean expression, evaluated against the
// pre-action state and the action's current parameter bindings, that
// must hold for the action to be applicable.
type Precondition struct {
	Name string // for diagnostics: which invariant this guards
	Holds func(pre fluent.View, bindings map[string]addrs.Ref) bool
}

// Action is the tagged-enum replacement the Design Notes (§9) call for
// in place of a class hierarchy: every action in the library (for both
// planning_type variants) implements this one interface, with no
// inheritance between "kinds" of action.
type Action interface {
	Name() string
	Class() ActionClass
	Params() []Param
	Temporal() bool

	// IsApplicable evaluates every precondition against pre under the
	// given bindings.
	IsApplicable(pre fluent.View, bindings map[string]addrs.Ref) (bool, string)

	// Effects returns the constant/conditional effects this action
	// declaration carries, already resolved under its EffectsMode.
	Effects() []EffectEntry

	// SimulatedEffects returns the simulated-effect callbacks needed
	// alongside Effects.
	SimulatedEffects() []SimulatedEffect

	// Duration returns the action's duration in seconds given the
	// pre-action state and bindings. Instantaneous (sequential) actions
	// always return 0.
	Duration(pre fluent.View, bindings map[string]addrs.Ref) (float64, error)
}

// Def is the concrete, data-driven Action implementation every library
// action is built as; only its construction differs (see
// internal/action), never its shape.
type Def struct {
	name         string
	class        ActionClass
	params       []Param
	temporal     bool
	preconds     []Precondition
	effects      []EffectEntry
	simulated    []SimulatedEffect
	durationFn   func(pre fluent.View, bindings map[string]addrs.Ref) (float64, error)
}

func (d *Def) Name() string        { return d.name }
func (d *Def) Class() ActionClass  { return d.class }
func (d *Def) Params() []Param     { return d.params }
func (d *Def) Temporal() bool      { return d.temporal }
func (d *Def) Effects() []EffectEntry          { return d.effects }
func (d *Def) SimulatedEffects() []SimulatedEffect { return d.simulated }

func (d *Def) IsApplicable(pre fluent.View, bindings map[string]addrs.Ref) (bool, string) {
	for _, pc := range d.preconds {
		if !pc.Holds(pre, bindings) {
			return false, pc.Name
		}
	}
	return true, ""
}

func (d *Def) Duration(pre fluent.View, bindings map[string]addrs.Ref) (float64, error) {
	if !d.temporal || d.durationFn == nil {
		return 0, nil
	}
	return d.durationFn(pre, bindings)
}

// Builder constructs a Def. The action library (internal/action) uses
// one Builder per catalogue entry, per planning_type variant.
type Builder struct {
	d Def
}

func NewActionBuilder(name string, class ActionClass, temporal bool) *Builder {
	return &Builder{d: Def{name: name, class: class, temporal: temporal}}
}

func (b *Builder) Param(name string, kind addrs.Kind) *Builder {
	b.d.params = append(b.d.params, Param{Name: name, Kind: kind})
	return b
}

func (b *Builder) Precondition(name string, holds func(fluent.View, map[string]addrs.Ref) bool) *Builder {
	b.d.preconds = append(b.d.preconds, Precondition{Name: name, Holds: holds})
	return b
}

func (b *Builder) Duration(fn func(fluent.View, map[string]addrs.Ref) (float64, error)) *Builder {
	b.d.durationFn = fn
	return b
}

func (b *Builder) WithEffects(handler *EffectsHandler, mode EffectsMode) *Builder {
	effs, sims := handler.Finish(mode)
	b.d.effects = effs
	b.d.simulated = sims
	return b
}

func (b *Builder) Finish() (*Def, error) {
	if b.d.name == "" {
		return nil, fmt.Errorf("planproblem: action has no name")
	}
	d := b.d
	return &d, nil
}
