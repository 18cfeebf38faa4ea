// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package fluent

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
)

// View is the immutable, typed-getter state-view object that simulated
// effect callbacks and heuristics receive (Design Notes §9: "the callback
// receives an immutable state-view object exposing typed getters ...
// no dynamic dispatch on fluent types"). Implementations must not be
// retained past the call that supplied them.
type View interface {
	GetBool(key Key) bool
	GetInt(key Key) int
	GetReal(key Key) float64
	GetObject(key Key) addrs.Ref
	Raw(key Key) (cty.Value, bool)
}

// State is the mutable fluent store the encoder seeds with initial values
// and that a State mutation callback (simulated effect) reads. It is a
// dense-by-key vector indexed by (fluent name, object tuple), per Design
// Notes §9: "State as a dense vector keyed by fluent index and
// object-tuple index". We use addrs.Map rather than a literal slice
// because the object-tuple index space here is sparse (most
// (harvester,TV) pairs are never grounded), but the access pattern and
// immutability-after-handoff discipline are identical.
type State struct {
	reg    *Registry
	values addrs.Map[Key, cty.Value]
}

// NewState returns an empty State bound to reg. Callers seed it via Set
// before handing it to anything that reads via View.
func NewState(reg *Registry) *State {
	return &State{reg: reg, values: addrs.MakeMap[Key, cty.Value]()}
}

// Set assigns the value of a grounded fluent, validating it against the
// fluent's declared ValueKind.
func (s *State) Set(key Key, val cty.Value) error {
	sig, ok := s.reg.Lookup(key.Name)
	if !ok {
		return fmt.Errorf("fluent: %q is not registered", key.Name)
	}
	if !sig.Returns.Accepts(val) {
		return fmt.Errorf("fluent: %s: value %s does not match declared kind %s", key, val.GoString(), sig.Returns)
	}
	s.values.Put(key, val)
	return nil
}

// SetDefault assigns key its registered default value, used by the
// encoder when seeding initial values it has no scenario-derived value
// for.
func (s *State) SetDefault(key Key) error {
	sig, ok := s.reg.Lookup(key.Name)
	if !ok {
		return fmt.Errorf("fluent: %q is not registered", key.Name)
	}
	return s.Set(key, sig.Default)
}

// Clone returns an independent copy of s, used wherever a component must
// mutate a working copy without perturbing the caller's State (e.g. the
// decoder's own histories, which spec.md §3 requires be independent of
// the Domain and of any planner-owned State).
func (s *State) Clone() *State {
	out := NewState(s.reg)
	s.values.Range(func(k Key, v cty.Value) bool {
		out.values.Put(k, v)
		return true
	})
	return out
}

// Raw implements View.
func (s *State) Raw(key Key) (cty.Value, bool) {
	return s.values.Get(key)
}

// GetBool implements View. It panics if key is unset or not a Bool
// fluent; callers are expected to only call the getter matching a
// fluent's declared kind, per the no-dynamic-dispatch design rule.
func (s *State) GetBool(key Key) bool {
	v := s.mustGet(key)
	return AsBool(v)
}

func (s *State) GetInt(key Key) int {
	v := s.mustGet(key)
	return AsInt(v)
}

func (s *State) GetReal(key Key) float64 {
	v := s.mustGet(key)
	return AsReal(v)
}

func (s *State) GetObject(key Key) addrs.Ref {
	v := s.mustGet(key)
	ref, err := AsObject(v)
	if err != nil {
		panic(fmt.Sprintf("fluent: %s: %v", key, err))
	}
	return ref
}

func (s *State) mustGet(key Key) cty.Value {
	v, ok := s.values.Get(key)
	if !ok {
		panic(fmt.Sprintf("fluent: %s has no value in this state", key))
	}
	return v
}
