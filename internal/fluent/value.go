// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package fluent

import (
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
)

// BoolVal, IntVal, RealVal and ObjectVal construct the cty.Value carrying
// a fluent value of the corresponding ValueKind. Encoders and simulated
// effect callbacks build fluent values exclusively through these
// constructors so that a degenerate value (NaN, Inf) can never enter a
// planner State undetected (see spec.md §7 class 4, "numeric
// degeneracies").
func BoolVal(b bool) cty.Value {
	return cty.BoolVal(b)
}

func IntVal(n int) cty.Value {
	return cty.NumberIntVal(int64(n))
}

func RealVal(f float64) cty.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		// Encoder-side lower bounds must prevent this; a NaN/Inf
		// reaching a fluent value is a build-time bug, not a
		// recoverable runtime condition.
		panic("fluent.RealVal: non-finite value")
	}
	return cty.NumberFloatVal(f)
}

func ObjectVal(r addrs.Ref) cty.Value {
	return r.Value()
}

// AsBool, AsInt, AsReal and AsObject are the typed getters referenced by
// the Design Notes (§9): the only way code should read a cty.Value out of
// a fluent is through one of these, never through an ad hoc type switch.
func AsBool(v cty.Value) bool {
	return v.True()
}

func AsInt(v cty.Value) int {
	var out int
	if err := gocty.FromCtyValue(v, &out); err != nil {
		panic("fluent.AsInt: " + err.Error())
	}
	return out
}

func AsReal(v cty.Value) float64 {
	var out float64
	if err := gocty.FromCtyValue(v, &out); err != nil {
		panic("fluent.AsReal: " + err.Error())
	}
	return out
}

// AsObject parses a fluent value that names an object reference.
func AsObject(v cty.Value) (addrs.Ref, error) {
	return addrs.Parse(v.AsString())
}
