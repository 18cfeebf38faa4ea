// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package fluent implements the domain's fluent registry: the typed,
// named, parametric state variables that the planning problem is built
// from (spec.md §4.1). Values are carried as [cty.Value] so that the
// registry, the problem encoder and the decoded plan histories all share
// one typed-value currency, following the teacher's (OpenTofu) use of
// go-cty as the universal typed-value representation for schema-described
// data.
package fluent

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
)

// BaseKind is the closed set of value shapes a fluent can return or take
// as a parameter, matching spec.md §4.1: Bool, Int, Real, or an object of
// some entity Kind.
type BaseKind int

const (
	Bool BaseKind = iota
	Int
	Real
	Object
)

func (b BaseKind) String() string {
	switch b {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Real:
		return "real"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// ValueKind fully describes the shape of a fluent parameter or return
// value: its BaseKind, and for Object values, which entity Kind the
// referenced object must belong to.
type ValueKind struct {
	Base       BaseKind
	ObjectKind addrs.Kind // meaningful only when Base == Object
}

// BoolKind, IntKind and RealKind are the three non-parametric value
// kinds.
var (
	BoolKind = ValueKind{Base: Bool}
	IntKind  = ValueKind{Base: Int}
	RealKind = ValueKind{Base: Real}
)

// ObjectKind returns the ValueKind for an object reference of the given
// entity kind, e.g. ObjectKind(addrs.Harvester) for a fluent whose value
// is a harvester (or the "no_harvester" sentinel).
func ObjectKind(k addrs.Kind) ValueKind {
	return ValueKind{Base: Object, ObjectKind: k}
}

func (v ValueKind) String() string {
	if v.Base == Object {
		return fmt.Sprintf("object(%c)", rune(v.ObjectKind))
	}
	return v.Base.String()
}

// ctyType returns the cty.Type used to carry values of this ValueKind.
// Object values are carried as their location name (cty.String); this is
// the same type used for Bool/Int/Real because every fluent value in this
// system is eventually compared, hashed and logged as a primitive, and
// because go-cty has no convenient capsule-per-kind ergonomics for a
// closed, comparable entity-reference set like ours.
func (v ValueKind) ctyType() cty.Type {
	switch v.Base {
	case Bool:
		return cty.Bool
	case Int, Real:
		return cty.Number
	case Object:
		return cty.String
	default:
		return cty.NilType
	}
}

// Accepts reports whether the given value matches this ValueKind.
func (v ValueKind) Accepts(val cty.Value) bool {
	if val.IsNull() || !val.IsKnown() {
		return false
	}
	return val.Type().Equals(v.ctyType())
}
