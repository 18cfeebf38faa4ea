// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package heuristic implements the heuristics library spec.md §4.6
// describes: named, composable scoring functions over a fluent.View,
// combined via the sequential weighted-sum metric's coefficients
// (spec.md §4.3.6, §6). Sequential
// and temporal planning share the same Heuristic interface; only the
// factory that assembles the default composite differs.
package heuristic

import (
	"fmt"
	"io"
	"math"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/metrics"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planner"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planproblem"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/settings"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/stats"
)

// Heuristic scores a state: lower is better, matching the convention of
// a search-guidance cost estimate rather than a utility to maximize.
type Heuristic interface {
	Name() string
	Evaluate(state fluent.View, dom *domain.Domain) float64
}

// Func adapts a plain function to Heuristic.
type Func struct {
	FName string
	Eval  func(state fluent.View, dom *domain.Domain) float64
}

func (f Func) Name() string { return f.FName }
func (f Func) Evaluate(state fluent.View, dom *domain.Domain) float64 {
	return f.Eval(state, dom)
}

// Instrumented wraps a Heuristic with an optional metrics.Recorder
// observation per evaluation. rec may be nil.
type Instrumented struct {
	Heuristic
	rec *metrics.Recorder
}

func Instrument(h Heuristic, rec *metrics.Recorder) Heuristic {
	return Instrumented{Heuristic: h, rec: rec}
}

func (i Instrumented) Evaluate(state fluent.View, dom *domain.Domain) float64 {
	i.rec.ObserveHeuristicEval(i.Name())
	return i.Heuristic.Evaluate(state, dom)
}

// HarvWaitingTime sums harv_transit_time_accum across every harvester:
// an estimate of cumulative non-productive transit time, which the
// sequential metric's k_harv_waiting_time coefficient penalizes
// (spec.md §4.3.6).
func HarvWaitingTime() Heuristic {
	return Func{FName: "harv_waiting_time", Eval: func(state fluent.View, dom *domain.Domain) float64 {
		var total float64
		for _, h := range dom.Harvesters() {
			total += state.GetReal(fluent.Ground(domain.HarvTransitTimeAccum, h))
		}
		return total
	}}
}

// TVWaitingTime sums tv_waiting_time_accum across every transport
// vehicle, penalized by k_tv_waiting_time (spec.md §4.3.6).
func TVWaitingTime() Heuristic {
	return Func{FName: "tv_waiting_time", Eval: func(state fluent.View, dom *domain.Domain) float64 {
		var total float64
		for _, tv := range dom.TVs() {
			total += state.GetReal(fluent.Ground(domain.TVWaitingTimeAccum, tv))
		}
		return total
	}}
}

// UnharvestedMass sums field_total_yield_mass - field_reserved_mass
// across fields not yet fully harvested: a remaining-work estimate
// useful as a tie-breaker alongside the waiting-time heuristics.
func UnharvestedMass() Heuristic {
	return Func{FName: "unharvested_mass", Eval: func(state fluent.View, dom *domain.Domain) float64 {
		var total float64
		for _, f := range dom.Fields() {
			if state.GetBool(fluent.Ground(domain.FieldHarvested, f)) {
				continue
			}
			yield := state.GetReal(fluent.Ground(domain.FieldTotalYieldMass, f))
			reserved := state.GetReal(fluent.Ground(domain.FieldReservedMass, f))
			if remaining := yield - reserved; remaining > 0 {
				total += remaining
			}
		}
		return total
	}}
}

// TVsWaitingToDrive reads global_tvs_waiting_to_drive_count directly:
// a cheap proxy for upcoming silo-access contention.
func TVsWaitingToDrive() Heuristic {
	return Func{FName: "tvs_waiting_to_drive", Eval: func(state fluent.View, _ *domain.Domain) float64 {
		return float64(state.GetInt(fluent.Ground(domain.GlobalTVsWaitingToDriveCount)))
	}}
}

// NewDebugSnapshot returns a Heuristic that writes one line per
// harvester and transport vehicle, reporting the per-machine fluents the
// other heuristics consume, to w on every evaluation, then reports cost
// 0 so it never influences search — a diagnostic tap, not a planning
// signal. Grounded in debug_heuristics.py's HeuristicDebugFluents, which
// snapshots object fluent values to a debug log on every state
// expansion and likewise always returns cost 0. A nil w makes this a
// no-op, for wiring into a composite without a sink configured.
func NewDebugSnapshot(w io.Writer) Heuristic {
	return Func{FName: "debug_snapshot", Eval: func(state fluent.View, dom *domain.Domain) float64 {
		if w == nil {
			return 0
		}
		for _, h := range dom.Harvesters() {
			fmt.Fprintf(w, "%s timestamp=%g transit_time_accum=%g\n", h,
				state.GetReal(fluent.Ground(domain.HarvTimestamp, h)),
				state.GetReal(fluent.Ground(domain.HarvTransitTimeAccum, h)))
		}
		for _, tv := range dom.TVs() {
			fmt.Fprintf(w, "%s timestamp=%g transit_time_accum=%g waiting_time_accum=%g\n", tv,
				state.GetReal(fluent.Ground(domain.TVTimestamp, tv)),
				state.GetReal(fluent.Ground(domain.TVTransitTimeAccum, tv)),
				state.GetReal(fluent.Ground(domain.TVWaitingTimeAccum, tv)))
		}
		return 0
	}}
}

// SimulateBasePlan replays plan against problem starting from
// problem.Initial, using the same Problem.Apply simulator
// internal/planner/bruteforce's Greedy uses to search, and returns the
// resulting final state. It is how a heuristic factory derives control
// bounds from an already-found plan without re-deriving its own copy of
// the action effects, mirroring heuristics_factory.py's
// SequentialHeuristicsFactory simulating base_plan via a
// SequentialSimulator when no final state is supplied directly.
func SimulateBasePlan(problem *planproblem.Problem, plan planner.Plan) (*fluent.State, error) {
	cur := problem.Initial
	for i, step := range plan.Steps {
		action, ok := problem.ActionByName(step.ActionName)
		if !ok {
			return nil, fmt.Errorf("heuristic: simulate base plan: step %d: unknown action %q", i, step.ActionName)
		}
		next, err := problem.Apply(cur, action, step.Bindings)
		if err != nil {
			return nil, fmt.Errorf("heuristic: simulate base plan: step %d: %w", i, err)
		}
		cur = next
	}
	return cur, nil
}

// GoalValues are the reference maxima a control heuristic checks
// incoming states against, extracted from a base plan's final state.
// Grounded in heuristics_factory.py's
// HeuristicsFactory.__init_goal_values, which derives the same
// quantities (a shared wall-clock maximum across harvesters and TVs,
// plus per-class accumulated waiting/transit time) from a simulated base
// plan rather than from hand-tuned constants.
type GoalValues struct {
	MaxTimestamp       float64
	MaxHarvWaitingTime float64
	MaxTVWaitingTime   float64
	MaxTVTransitTime   float64
}

// ComputeGoalValues reads final, the last state of a base plan, into a
// GoalValues.
func ComputeGoalValues(dom *domain.Domain, final fluent.View) GoalValues {
	var gv GoalValues
	for _, h := range dom.Harvesters() {
		if t := final.GetReal(fluent.Ground(domain.HarvTimestamp, h)); t > gv.MaxTimestamp {
			gv.MaxTimestamp = t
		}
		gv.MaxHarvWaitingTime += final.GetReal(fluent.Ground(domain.HarvTransitTimeAccum, h))
	}
	for _, tv := range dom.TVs() {
		if t := final.GetReal(fluent.Ground(domain.TVTimestamp, tv)); t > gv.MaxTimestamp {
			gv.MaxTimestamp = t
		}
		gv.MaxTVWaitingTime += final.GetReal(fluent.Ground(domain.TVWaitingTimeAccum, tv))
		gv.MaxTVTransitTime += final.GetReal(fluent.Ground(domain.TVTransitTimeAccum, tv))
	}
	return gv
}

// controlMargin is added to every GoalValues bound before a control
// heuristic starts pruning, matching heuristics_factory.py's habit of
// constructing its control heuristics with every goal value offset by
// "+1": a state tying the base plan's reference maximum is still
// admissible, only a state strictly exceeding it by more than the margin
// is pruned.
const controlMargin = 1.0

// ControlMaxTimestamp returns a Heuristic that evaluates to +Inf once
// any harvester's or TV's timestamp exceeds goal.MaxTimestamp by more
// than controlMargin, pruning states that run longer than the base plan
// did (spec.md §4.6's control heuristics).
func ControlMaxTimestamp(goal GoalValues) Heuristic {
	bound := goal.MaxTimestamp + controlMargin
	return Func{FName: "control_max_timestamp", Eval: func(state fluent.View, dom *domain.Domain) float64 {
		for _, h := range dom.Harvesters() {
			if state.GetReal(fluent.Ground(domain.HarvTimestamp, h)) > bound {
				return math.Inf(1)
			}
		}
		for _, tv := range dom.TVs() {
			if state.GetReal(fluent.Ground(domain.TVTimestamp, tv)) > bound {
				return math.Inf(1)
			}
		}
		return 0
	}}
}

// ControlMaxHarvWaitingTime returns a Heuristic that evaluates to +Inf
// once total harvester transit time exceeds goal.MaxHarvWaitingTime by
// more than controlMargin.
func ControlMaxHarvWaitingTime(goal GoalValues) Heuristic {
	bound := goal.MaxHarvWaitingTime + controlMargin
	return Func{FName: "control_max_harv_waiting_time", Eval: func(state fluent.View, dom *domain.Domain) float64 {
		var total float64
		for _, h := range dom.Harvesters() {
			total += state.GetReal(fluent.Ground(domain.HarvTransitTimeAccum, h))
		}
		if total > bound {
			return math.Inf(1)
		}
		return 0
	}}
}

// ControlMaxTVWaitingTime mirrors ControlMaxHarvWaitingTime for
// accumulated TV waiting time.
func ControlMaxTVWaitingTime(goal GoalValues) Heuristic {
	bound := goal.MaxTVWaitingTime + controlMargin
	return Func{FName: "control_max_tv_waiting_time", Eval: func(state fluent.View, dom *domain.Domain) float64 {
		var total float64
		for _, tv := range dom.TVs() {
			total += state.GetReal(fluent.Ground(domain.TVWaitingTimeAccum, tv))
		}
		if total > bound {
			return math.Inf(1)
		}
		return 0
	}}
}

// ControlMaxTVTransitTime mirrors ControlMaxHarvWaitingTime for
// accumulated TV transit time.
func ControlMaxTVTransitTime(goal GoalValues) Heuristic {
	bound := goal.MaxTVTransitTime + controlMargin
	return Func{FName: "control_max_tv_transit_time", Eval: func(state fluent.View, dom *domain.Domain) float64 {
		var total float64
		for _, tv := range dom.TVs() {
			total += state.GetReal(fluent.Ground(domain.TVTransitTimeAccum, tv))
		}
		if total > bound {
			return math.Inf(1)
		}
		return 0
	}}
}

// BasePlan supplies the reference plan a default heuristic factory's
// control heuristics bound against (spec.md §4.6), plus the scenario
// Stats (spec.md §4.5) those factories use to scale scenario-relative
// terms. Pass FinalState directly when it is already known (e.g. carried
// over from a previous solve); otherwise supply Problem and Plan and the
// factory simulates it once via SimulateBasePlan, mirroring
// heuristics_factory.py's SequentialHeuristicsFactory accepting either
// base_plan_final_state or base_plan. The zero value disables control
// heuristics entirely and leaves scenario scaling at its fixed default.
type BasePlan struct {
	Dom        *domain.Domain
	Problem    *planproblem.Problem
	Plan       planner.Plan
	FinalState *fluent.State
	Stats      stats.Stats
}

func (b BasePlan) resolveFinalState() (fluent.View, error) {
	if b.FinalState != nil {
		return b.FinalState, nil
	}
	if b.Problem == nil {
		return nil, nil
	}
	return SimulateBasePlan(b.Problem, b.Plan)
}

// composite is a fixed weighted sum of sub-heuristics, matching the
// sequential metric's linear-combination shape (spec.md §4.3.6) closely
// enough that the same coefficients double as heuristic weights.
type composite struct {
	name    string
	terms   []Heuristic
	weights []float64
}

func (c composite) Name() string { return c.name }

func (c composite) Evaluate(state fluent.View, dom *domain.Domain) float64 {
	var total float64
	for i, h := range c.terms {
		total += c.weights[i] * h.Evaluate(state, dom)
	}
	return total
}

// SequentialDefault builds the weighted-sum heuristic the sequential
// planner uses by default, wiring in exactly the
// SequentialOptimizationSettings coefficients spec.md §6 documents. An
// optional BasePlan (at most one; additional values are ignored) adds
// spec.md §4.6's control heuristics, gated on that plan's reference
// maxima, as extra composite terms with weight 1 — a state any control
// term judges worse than the base plan evaluates to +Inf regardless of
// the other terms, since +Inf dominates a finite weighted sum. A base
// plan that fails to simulate is logged nowhere and simply skipped: the
// heuristic degrades to the uncontrolled weighted sum rather than
// failing the caller.
func SequentialDefault(set settings.Settings, base ...BasePlan) Heuristic {
	goal, ok := resolveGoalValues(base)
	terms := []Heuristic{HarvWaitingTime(), TVWaitingTime(), scenarioTieBreaker(resolveStats(base))}
	weights := []float64{set.SequentialOptimization.KHarvWaitingTime, set.SequentialOptimization.KTVWaitingTime, 1}
	if ok {
		terms = append(terms, ControlMaxTimestamp(goal), ControlMaxHarvWaitingTime(goal), ControlMaxTVWaitingTime(goal))
		weights = append(weights, 1, 1, 1)
	}
	return composite{name: "sequential_default", terms: terms, weights: weights}
}

// TemporalDefault builds the heuristic a temporal planner's makespan
// objective benefits from: minimize remaining work, breaking ties on
// silo-access contention, since the temporal metric itself (spec.md
// §4.3.6) already accounts for elapsed time via action durations. An
// optional BasePlan adds the same control heuristics SequentialDefault
// wires in, bounding makespan growth against a previously found plan.
func TemporalDefault(_ settings.Settings, base ...BasePlan) Heuristic {
	goal, ok := resolveGoalValues(base)
	terms := []Heuristic{UnharvestedMass(), TVsWaitingToDrive()}
	weights := []float64{1, 10}
	if ok {
		terms = append(terms, ControlMaxTimestamp(goal), ControlMaxTVTransitTime(goal))
		weights = append(weights, 1, 1)
	}
	return composite{name: "temporal_default", terms: terms, weights: weights}
}

// resolveGoalValues extracts the first BasePlan (if any) and computes
// its GoalValues, silently disabling control heuristics if no base plan
// was supplied or it failed to simulate.
func resolveGoalValues(base []BasePlan) (GoalValues, bool) {
	if len(base) == 0 {
		return GoalValues{}, false
	}
	b := base[0]
	if b.Dom == nil {
		return GoalValues{}, false
	}
	final, err := b.resolveFinalState()
	if err != nil || final == nil {
		return GoalValues{}, false
	}
	return ComputeGoalValues(b.Dom, final), true
}

// resolveStats extracts the first BasePlan's Stats, if any were supplied,
// or the zero value otherwise.
func resolveStats(base []BasePlan) stats.Stats {
	if len(base) == 0 {
		return stats.Stats{}
	}
	return base[0].Stats
}

// scenarioTieBreaker scales UnharvestedMass by 1/s.TotalYieldMassKg when
// scenario Stats (spec.md §4.5) are available, keeping the tie-breaker
// term's magnitude comparable across scenarios of very different total
// yield instead of relying on a fixed constant. Falls back to the
// previous fixed 1e-6 scale when no Stats were supplied.
func scenarioTieBreaker(s stats.Stats) Heuristic {
	scale := 1e-6
	if s.TotalYieldMassKg > 0 {
		scale = 1 / s.TotalYieldMassKg
	}
	base := UnharvestedMass()
	return Func{FName: "unharvested_mass", Eval: func(state fluent.View, dom *domain.Domain) float64 {
		return scale * base.Evaluate(state, dom)
	}}
}
