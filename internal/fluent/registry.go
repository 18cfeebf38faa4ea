// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package fluent

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Signature describes one registered fluent: its name, parameter kinds,
// return kind, default value, optional numeric bounds and whether it is
// static (fixed at problem-build time, never touched by an action
// effect) — spec.md §4.1.
type Signature struct {
	Name       string
	Params     []ValueKind
	Returns    ValueKind
	Default    cty.Value
	LowerBound *float64 // only meaningful for Int/Real returns
	UpperBound *float64
	Static     bool
}

func (s Signature) Arity() int { return len(s.Params) }

// Registry is the immutable catalog of fluent signatures for one Domain.
// It is built once via [NewRegistryBuilder] and never mutated afterward,
// matching spec.md §3's "Domain ... is built once per problem and is
// immutable thereafter".
type Registry struct {
	byName map[string]Signature
	order  []string // registration order, for deterministic iteration/printing
}

// RegistryBuilder accumulates Signatures before Finish produces an
// immutable Registry.
type RegistryBuilder struct {
	reg Registry
}

func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{reg: Registry{byName: make(map[string]Signature)}}
}

// Register adds a fluent signature. It panics on a duplicate name or an
// out-of-order bound (LowerBound > UpperBound), both of which indicate a
// programming error in the caller, never a runtime/scenario condition.
func (b *RegistryBuilder) Register(sig Signature) *RegistryBuilder {
	if _, exists := b.reg.byName[sig.Name]; exists {
		panic(fmt.Sprintf("fluent: duplicate registration of %q", sig.Name))
	}
	if sig.LowerBound != nil && sig.UpperBound != nil && *sig.LowerBound > *sig.UpperBound {
		panic(fmt.Sprintf("fluent: %q has LowerBound > UpperBound", sig.Name))
	}
	if !sig.Returns.Accepts(sig.Default) {
		panic(fmt.Sprintf("fluent: %q default value does not match its return kind", sig.Name))
	}
	b.reg.byName[sig.Name] = sig
	b.reg.order = append(b.reg.order, sig.Name)
	return b
}

// Finish returns the immutable Registry. The builder must not be used
// afterward.
func (b *RegistryBuilder) Finish() *Registry {
	return &b.reg
}

// Lookup returns the signature registered under name.
func (r *Registry) Lookup(name string) (Signature, bool) {
	sig, ok := r.byName[name]
	return sig, ok
}

// MustLookup is Lookup but panics if name is not registered; used for
// fluents the action library references unconditionally by name.
func (r *Registry) MustLookup(name string) Signature {
	sig, ok := r.byName[name]
	if !ok {
		panic(fmt.Sprintf("fluent: %q is not registered", name))
	}
	return sig
}

// Names returns every registered fluent name in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// WithBounds computes, per numeric_fluent_bounds_option, bounds for a
// named fluent from problem statistics. Unbounded mode simply returns a
// copy of the signature with nil bounds, and bounded modes narrow
// LowerBound/UpperBound from the supplied values. Both modes must produce
// semantically identical plans (spec.md §4.1); bounds only prune the
// planner's numeric search space, they are never load-bearing for
// correctness.
func (r *Registry) WithBounds(name string, lower, upper *float64) (Signature, error) {
	sig, ok := r.byName[name]
	if !ok {
		return Signature{}, fmt.Errorf("fluent: %q is not registered", name)
	}
	sig.LowerBound = lower
	sig.UpperBound = upper
	if lower != nil && upper != nil && *lower > *upper {
		return Signature{}, fmt.Errorf("fluent: %q would have LowerBound > UpperBound", name)
	}
	return sig, nil
}
