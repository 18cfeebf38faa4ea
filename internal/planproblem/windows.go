// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package planproblem

import "github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"

// ControlWindow is a short, temporal-only interval opened by a
// predecessor action's end during which a specific successor action is
// permitted; it closes automatically (spec.md §4.2 "Control windows").
// EnableFluent is flipped true at OpenAt and false again at CloseAt
// relative to the opening action's own timeline, and the successor
// action takes EnableFluent's truth as a precondition.
type ControlWindow struct {
	Name         string
	EnableFluent fluent.Key
	OpenAt       Timing
	CloseAt      Timing
	WindowS      float64 // seconds; <=0 disables the window entirely
}

// Disabled reports whether this window's duration setting disables it,
// per spec.md §6 (`control_windows.*`: "Seconds; ≤0 disables that
// window").
func (w ControlWindow) Disabled() bool { return w.WindowS <= 0 }

// CostWindow is the heuristic-shaping counterpart to ControlWindow: a
// window during which a heuristic penalty is inactive rather than a hard
// constraint (spec.md §4.2 "Cost windows"). A heuristic consults
// ActiveFluent (or, more commonly, derives its own activation test from
// the same accumulated-time fluent this window is defined over) to
// decide whether to count a penalty.
type CostWindow struct {
	Name          string
	ActivationKey fluent.Key // the accumulated-time fluent the window measures against
	WindowS       float64    // seconds; <=0 disables this cost activation
}

func (w CostWindow) Disabled() bool { return w.WindowS <= 0 }
