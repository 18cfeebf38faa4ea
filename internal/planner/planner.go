// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package planner declares the external search interface a Problem is
// handed to (spec.md §4.3's "encoded problems are handed to an external
// planner; this core owns encoding and decoding, not search"). This
// core ships exactly one implementation, internal/planner/bruteforce,
// as a reference good enough to exercise the encoder/decoder/validator
// contract end-to-end; production use is expected to plug in a real
// AI-planning engine behind the same interface.
package planner

import (
	"context"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/decoder"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planproblem"
)

// Planner searches a Problem for a sequence of grounded action
// applications satisfying its Goal, optionally optimizing its Metric.
type Planner interface {
	Plan(ctx context.Context, problem *planproblem.Problem) (Plan, error)
}

// Plan is the external planner's output: an ordered sequence of steps
// ready to hand to internal/decoder and internal/validate.
type Plan struct {
	Steps []decoder.Step
	Found bool // false if the planner did not find a plan
}
