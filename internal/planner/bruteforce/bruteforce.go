// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package bruteforce implements Greedy, a small reference planner.Planner:
// at each step it grounds every action schema over every matching
// object tuple, scores each applicable grounding with a
// heuristic.Heuristic, and commits to the best one. It exists to
// exercise the encoder/decoder/validator contract end-to-end, not to
// compete with a real search engine (spec.md §4.3's external-planner
// boundary is exactly where a production search algorithm would
// replace this package).
package bruteforce

import (
	"context"
	"fmt"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/decoder"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/heuristic"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/logging"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planner"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planproblem"
)

// Greedy is a one-step-lookahead constructive planner: it never
// backtracks, so it can fail to find a plan that exists (spec.md §7
// class 2, reported as Plan.Found == false, never a panic).
type Greedy struct {
	Dom       *domain.Domain
	Heuristic heuristic.Heuristic
	MaxSteps  int
	Log       logging.Logger
}

// New returns a Greedy planner using h to break ties between applicable
// groundings. maxSteps bounds the search so a cyclic or unreachable goal
// cannot loop forever; 0 selects a generous default.
func New(dom *domain.Domain, h heuristic.Heuristic, maxSteps int, log logging.Logger) *Greedy {
	if maxSteps <= 0 {
		maxSteps = 10000
	}
	if log == nil {
		log = logging.Discard("bruteforce")
	}
	return &Greedy{Dom: dom, Heuristic: h, MaxSteps: maxSteps, Log: log}
}

type candidate struct {
	action   planproblem.Action
	bindings map[string]addrs.Ref
	score    float64
}

func (g *Greedy) Plan(ctx context.Context, problem *planproblem.Problem) (planner.Plan, error) {
	cur := problem.Initial
	var steps []decoder.Step
	var elapsed float64

	for step := 0; step < g.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return planner.Plan{Steps: steps}, err
		}
		if ok, _ := problem.Goal.Satisfied(cur); ok {
			return planner.Plan{Steps: steps, Found: true}, nil
		}

		best, ok := g.bestGrounding(cur, problem)
		if !ok {
			g.Log.Debug("no applicable action found, stopping", "step", step)
			return planner.Plan{Steps: steps, Found: false}, nil
		}

		next, err := problem.Apply(cur, best.action, best.bindings)
		if err != nil {
			return planner.Plan{Steps: steps}, fmt.Errorf("bruteforce: step %d: %w", step, err)
		}
		dur, err := best.action.Duration(cur, best.bindings)
		if err != nil {
			return planner.Plan{Steps: steps}, fmt.Errorf("bruteforce: step %d: duration: %w", step, err)
		}

		startTime := float64(step)
		if problem.Mode == planproblem.Temporal {
			startTime = elapsed
		}
		steps = append(steps, decoder.Step{ActionName: best.action.Name(), Bindings: best.bindings, StartTime: startTime})
		elapsed += dur
		cur = next
	}
	return planner.Plan{Steps: steps, Found: false}, fmt.Errorf("bruteforce: exceeded step budget of %d", g.MaxSteps)
}

// bestGrounding scans every action schema's full object-tuple cartesian
// product, keeping the lowest-scoring applicable grounding.
func (g *Greedy) bestGrounding(cur *fluent.State, problem *planproblem.Problem) (candidate, bool) {
	var best candidate
	found := false

	for _, a := range problem.Actions {
		for _, bindings := range groundings(a.Params(), problem.Objects) {
			ok, _ := a.IsApplicable(cur, bindings)
			if !ok {
				continue
			}
			trial, err := problem.Apply(cur, a, bindings)
			if err != nil {
				continue
			}
			score := g.Heuristic.Evaluate(trial, g.Dom)
			if !found || score < best.score {
				best = candidate{action: a, bindings: bindings, score: score}
				found = true
			}
		}
	}
	return best, found
}

// groundings enumerates every assignment of params to objects of the
// matching Kind in problem's ObjectCatalog, excluding each Kind's "no
// value" sentinel (an action is never grounded onto "no harvester").
func groundings(params []planproblem.Param, objects *planproblem.ObjectCatalog) []map[string]addrs.Ref {
	if len(params) == 0 {
		return []map[string]addrs.Ref{{}}
	}
	var choices [][]addrs.Ref
	for _, p := range params {
		var options []addrs.Ref
		for _, ref := range objects.ByKind(p.Kind) {
			if ref == addrs.NoValue(p.Kind) {
				continue
			}
			options = append(options, ref)
		}
		choices = append(choices, options)
	}
	return cartesian(params, choices)
}

func cartesian(params []planproblem.Param, choices [][]addrs.Ref) []map[string]addrs.Ref {
	results := []map[string]addrs.Ref{{}}
	for i, options := range choices {
		var next []map[string]addrs.Ref
		for _, partial := range results {
			for _, opt := range options {
				b := make(map[string]addrs.Ref, len(partial)+1)
				for k, v := range partial {
					b[k] = v
				}
				b[params[i].Name] = opt
				next = append(next, b)
			}
		}
		results = next
	}
	return results
}
