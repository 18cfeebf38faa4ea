// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package encoder implements the problem encoder spec.md §4.3 describes:
// object registration, static distance fluents, initial values, action
// generation per settings, goals and metric, assembled into one
// immutable *planproblem.Problem.
package encoder

import (
	"context"
	"fmt"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/action"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/diags"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/logging"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planproblem"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/preassign"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/routeplan"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/settings"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/stats"
)

// Encoder turns one Domain, under one Settings value, into a ready-to-plan
// Problem.
type Encoder struct {
	dom   *domain.Domain
	set   settings.Settings
	rp    routeplan.Planner
	log   logging.Logger
	stats stats.Stats
}

func New(dom *domain.Domain, set settings.Settings, rp routeplan.Planner, log logging.Logger) *Encoder {
	if log == nil {
		log = logging.Discard("encoder")
	}
	return &Encoder{dom: dom, set: set, rp: rp, log: log}
}

// Encode produces the Problem, plus every build-time diagnostic
// internal/preassign raised while checking the domain's pre-assignments
// (spec.md §7 class 1/4). It never mutates dom. A non-nil error means the
// Problem could not be built at all, either because the diagnostics
// collector recorded an error-level finding (including any warning
// promoted by Settings.Pedantic) or because of an internal construction
// failure; callers that only care about fatal conditions can ignore the
// returned diags.Diagnostics and check err alone.
func (e *Encoder) Encode(ctx context.Context) (*planproblem.Problem, diags.Diagnostics, error) {
	preAssign, buildDiags := preassign.New(e.dom, e.log).Resolve(e.set.PreAssign, e.set.Pedantic)
	for _, d := range buildDiags {
		e.log.Warn("pre-assignment diagnostic", "severity", d.Severity.String(), "class", d.Class.String(), "summary", d.Summary, "detail", d.Detail)
	}
	if buildDiags.HasErrors() {
		return nil, buildDiags, fmt.Errorf("encoder: %w", buildDiags.Errors())
	}

	reg := domain.BuildRegistry()

	objects := e.registerObjects()

	initial, locations, err := e.seedInitialState(reg, preAssign)
	if err != nil {
		return nil, buildDiags, fmt.Errorf("encoder: seeding initial state: %w", err)
	}
	computedStats, err := e.seedDistances(ctx, initial, locations)
	if err != nil {
		return nil, buildDiags, fmt.Errorf("encoder: computing distances: %w", err)
	}
	e.stats = computedStats

	switch e.set.NumericFluentBounds {
	case settings.BoundsProblemSpecific:
		narrowed, err := stats.NarrowRegistry(reg, computedStats)
		if err != nil {
			return nil, buildDiags, fmt.Errorf("encoder: narrowing fluent bounds: %w", err)
		}
		reg = narrowed
	case settings.BoundsDefault:
		narrowed, err := stats.NarrowRegistryDefault(reg)
		if err != nil {
			return nil, buildDiags, fmt.Errorf("encoder: narrowing fluent bounds: %w", err)
		}
		reg = narrowed
	}

	actions, err := action.NewCatalog(e.dom, reg, e.set).Build()
	if err != nil {
		return nil, buildDiags, fmt.Errorf("encoder: building action library: %w", err)
	}
	e.log.Debug("encoded action library", "count", len(actions), "planning_type", e.set.PlanningType.UIName())

	goal := e.buildGoal()
	metric := e.buildMetric()

	problem := planproblem.New(e.set.PlanningType, e.set.SiloPlanningType, reg, objects, initial, actions, goal, metric)
	return problem, buildDiags, nil
}

// registerObjects builds the ObjectCatalog: every concrete entity plus
// the sentinel of every kind the action library or initial state might
// reference (spec.md §4.3.1).
func (e *Encoder) registerObjects() *planproblem.ObjectCatalog {
	c := planproblem.NewObjectCatalog()
	for _, f := range e.dom.Fields() {
		c.Add(f)
		fd, _ := e.dom.Field(f)
		for _, ap := range fd.AccessPoints {
			c.Add(ap.Ref)
		}
	}
	for _, s := range e.dom.Silos() {
		c.Add(s)
		sd, _ := e.dom.Silo(s)
		for _, ap := range sd.Accesses {
			c.Add(ap.Ref)
		}
	}
	for _, h := range e.dom.Harvesters() {
		c.Add(h)
	}
	for _, tv := range e.dom.TVs() {
		c.Add(tv)
	}
	for _, cp := range e.dom.Compactors() {
		c.Add(cp)
	}
	for _, k := range []addrs.Kind{addrs.Field, addrs.FieldAccess, addrs.Silo, addrs.SiloAccess, addrs.Harvester, addrs.TransportVehicle, addrs.Compactor} {
		c.EnsureSentinel(k)
	}
	c.Add(addrs.StreetRef)
	return c
}

// seedInitialState sets every registered fluent's initial value and
// returns the location-to-position map the distance pass needs.
func (e *Encoder) seedInitialState(reg *fluent.Registry, preAssign preassign.Assignments) (*fluent.State, map[addrs.Ref]domain.Point2D, error) {
	st := fluent.NewState(reg)
	locations := make(map[addrs.Ref]domain.Point2D)

	for _, f := range e.dom.Fields() {
		fd, _ := e.dom.Field(f)
		fs, _ := e.dom.FieldState(f)
		if err := st.Set(fluent.Ground(domain.FieldArea, f), fluent.RealVal(fd.AreaM2)); err != nil {
			return nil, nil, err
		}
		if err := st.Set(fluent.Ground(domain.FieldTotalYieldMass, f), fluent.RealVal(fd.InitialYieldMassKg)); err != nil {
			return nil, nil, err
		}
		if err := st.Set(fluent.Ground(domain.FieldHarvester, f), fluent.ObjectVal(addrs.NoValue(addrs.Harvester))); err != nil {
			return nil, nil, err
		}
		if err := st.Set(fluent.Ground(domain.FieldHarvestedPercent, f), fluent.RealVal(fs.HarvestedPercent)); err != nil {
			return nil, nil, err
		}
		if err := st.Set(fluent.Ground(domain.FieldHarvested, f), fluent.BoolVal(fs.HarvestedPercent >= 100)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.FieldPlannedHarvested, f)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.FieldReservedMass, f)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.FieldTimestampAssigned, f)); err != nil {
			return nil, nil, err
		}
		paHarv, paTurn := addrs.NoValue(addrs.Harvester), 0
		if pa, ok := preAssign.Field(f); ok {
			paHarv, paTurn = pa.HarvesterRef, pa.Turn
		}
		if err := st.Set(fluent.Ground(domain.FieldPreAssignedHarvester, f), fluent.ObjectVal(paHarv)); err != nil {
			return nil, nil, err
		}
		if err := st.Set(fluent.Ground(domain.FieldPreAssignedTurn, f), fluent.IntVal(paTurn)); err != nil {
			return nil, nil, err
		}
		for _, ap := range fd.AccessPoints {
			locations[ap.Ref] = ap.Pos
		}
	}

	for _, s := range e.dom.Silos() {
		sd, _ := e.dom.Silo(s)
		for _, ap := range sd.Accesses {
			locations[ap.Ref] = ap.Pos
			if err := st.Set(fluent.Ground(domain.SiloAccessAvailableCapacity, ap.Ref), fluent.RealVal(ap.CapacityKg)); err != nil {
				return nil, nil, err
			}
			if err := st.Set(fluent.Ground(domain.SiloAccessSweepDuration, ap.Ref), fluent.RealVal(ap.SweepDuration)); err != nil {
				return nil, nil, err
			}
			if err := st.SetDefault(fluent.Ground(domain.SiloAccessFree, ap.Ref)); err != nil {
				return nil, nil, err
			}
			if err := st.SetDefault(fluent.Ground(domain.SiloAccessCleared, ap.Ref)); err != nil {
				return nil, nil, err
			}
		}
	}

	harvPreAssignTurnCount := make(map[addrs.Ref]int)
	for _, f := range e.dom.Fields() {
		if pa, ok := preAssign.Field(f); ok && pa.Turn != 0 {
			harvPreAssignTurnCount[pa.HarvesterRef]++
		}
	}

	for _, h := range e.dom.Harvesters() {
		ms, _ := e.dom.MachineState(h)
		if err := st.SetDefault(fluent.Ground(domain.HarvFree, h)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.HarvCurrentField, h)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.HarvCurrentFieldAccess, h)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.HarvFieldTurnCounter, h)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.HarvTransitTimeAccum, h)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.HarvEnabledToDrive, h)); err != nil {
			return nil, nil, err
		}
		if err := st.Set(fluent.Ground(domain.HarvTimestamp, h), fluent.RealVal(0)); err != nil {
			return nil, nil, err
		}
		loc := ms.LocationRef
		if loc == (addrs.Ref{}) {
			loc = addrs.StreetRef
		}
		if err := st.Set(fluent.Ground(domain.HarvLocation, h), fluent.ObjectVal(loc)); err != nil {
			return nil, nil, err
		}
		if loc.Kind() == addrs.MachineInit {
			locations[loc] = ms.Pos
		}
		if err := st.Set(fluent.Ground(domain.HarvPreAssignedTurnCount, h), fluent.IntVal(harvPreAssignTurnCount[h])); err != nil {
			return nil, nil, err
		}
	}

	for _, tv := range e.dom.TVs() {
		ms, _ := e.dom.MachineState(tv)
		if err := st.SetDefault(fluent.Ground(domain.TVFree, tv)); err != nil {
			return nil, nil, err
		}
		if err := st.Set(fluent.Ground(domain.TVBunkerMass, tv), fluent.RealVal(ms.BunkerMass)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.TVCanLoad, tv)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.TVCanUnload, tv)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.TVReadyToUnload, tv)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.TVReadyToDrive, tv)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.TVWaitingToDriveID, tv)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.TVTransitTimeAccum, tv)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.TVWaitingTimeAccum, tv)); err != nil {
			return nil, nil, err
		}
		if err := st.SetDefault(fluent.Ground(domain.TVEnabledToDrive, tv)); err != nil {
			return nil, nil, err
		}
		if err := st.Set(fluent.Ground(domain.TVTimestamp, tv), fluent.RealVal(0)); err != nil {
			return nil, nil, err
		}
		loc := ms.LocationRef
		if loc == (addrs.Ref{}) {
			loc = addrs.StreetRef
		}
		if err := st.Set(fluent.Ground(domain.TVLocation, tv), fluent.ObjectVal(loc)); err != nil {
			return nil, nil, err
		}
		if loc.Kind() == addrs.MachineInit {
			locations[loc] = ms.Pos
		}
		paHarv := addrs.NoValue(addrs.Harvester)
		if pa, ok := preAssign.TV(tv); ok {
			paHarv = pa.HarvesterRef
		}
		if err := st.Set(fluent.Ground(domain.TVPreAssignedHarvester, tv), fluent.ObjectVal(paHarv)); err != nil {
			return nil, nil, err
		}
	}

	for _, cp := range e.dom.Compactors() {
		m, _ := e.dom.Machine(cp)
		if err := st.SetDefault(fluent.Ground(domain.CompactorFree, cp)); err != nil {
			return nil, nil, err
		}
		if err := st.Set(fluent.Ground(domain.CompactorSilo, cp), fluent.ObjectVal(m.OwningSiloRef)); err != nil {
			return nil, nil, err
		}
		if err := st.Set(fluent.Ground(domain.CompactorMassPerSweep, cp), fluent.RealVal(m.MassPerSweepKg)); err != nil {
			return nil, nil, err
		}
	}

	if err := st.SetDefault(fluent.Ground(domain.GlobalTotalHarvestedMass)); err != nil {
		return nil, nil, err
	}
	if err := st.SetDefault(fluent.Ground(domain.GlobalTotalMassInSilos)); err != nil {
		return nil, nil, err
	}
	if err := st.SetDefault(fluent.Ground(domain.GlobalTotalMassReservedInSilos)); err != nil {
		return nil, nil, err
	}
	total := 0.0
	for _, f := range e.dom.Fields() {
		fd, _ := e.dom.Field(f)
		total += fd.InitialYieldMassKg
	}
	if err := st.Set(fluent.Ground(domain.GlobalTotalMassUnreservedInFields), fluent.RealVal(total)); err != nil {
		return nil, nil, err
	}
	if err := st.SetDefault(fluent.Ground(domain.GlobalPlanningFailed)); err != nil {
		return nil, nil, err
	}
	if err := st.SetDefault(fluent.Ground(domain.GlobalTVsWaitingToDriveCount)); err != nil {
		return nil, nil, err
	}

	return st, locations, nil
}

// seedDistances sets the static distance fluent for every ordered pair of
// located references, using the configured route planner (spec.md §4.5),
// and returns dom's Stats with the actual-route transit-distance
// breakdown folded in (spec.md §4.5), including the scalar MaxDistanceM
// used to narrow the distance fluent's bounds when
// numeric_fluent_bounds_option requests it. Distances involving
// [addrs.StreetRef] are set to the fluent's registered zero default: the
// street sentinel names "not currently at any specific point" rather than
// a real location, so it carries no coordinate to route from.
func (e *Encoder) seedDistances(ctx context.Context, st *fluent.State, locations map[addrs.Ref]domain.Point2D) (stats.Stats, error) {
	s := stats.Compute(e.dom)
	refs := make([]addrs.Ref, 0, len(locations))
	for r := range locations {
		refs = append(refs, r)
	}
	var maxDistance float64
	for _, a := range refs {
		for _, b := range refs {
			la := routeplan.Location{Ref: a, Pos: locations[a]}
			lb := routeplan.Location{Ref: b, Pos: locations[b]}
			d, err := e.rp.GetDistance(ctx, la, lb)
			if err != nil {
				return stats.Stats{}, fmt.Errorf("distance %s -> %s: %w", a, b, err)
			}
			d = routeplan.EnsureFinite(d)
			if d > maxDistance {
				maxDistance = d
			}
			s.AddDistance(e.dom, a, b, d)
			if err := st.Set(domain.DistKey(a, b), fluent.RealVal(d)); err != nil {
				return stats.Stats{}, err
			}
		}
	}
	for _, r := range append(refs, addrs.StreetRef) {
		if err := st.SetDefault(domain.DistKey(addrs.StreetRef, r)); err != nil {
			return stats.Stats{}, err
		}
		if err := st.SetDefault(domain.DistKey(r, addrs.StreetRef)); err != nil {
			return stats.Stats{}, err
		}
	}
	return s.WithMaxDistance(maxDistance), nil
}

// Stats returns the scenario statistics computed by the most recent
// successful Encode call, including the transit-distance breakdown
// spec.md §4.5 describes. Callers wire it into a heuristic factory via
// heuristic.BasePlan.Stats to scale scenario-relative heuristic terms.
// Returns the zero value if Encode has not yet succeeded.
func (e *Encoder) Stats() stats.Stats {
	return e.stats
}

// buildGoal assembles the goal conditions: every field harvested, and
// every TV's bunker empty. The bunker condition is the same under every
// silo-planning type; no variant accepts leftover bunker mass at plan
// end.
func (e *Encoder) buildGoal() planproblem.Goal {
	fields := e.dom.Fields()
	tvs := e.dom.TVs()
	return planproblem.Goal{Conditions: []planproblem.GoalCondition{
		{
			Name: "all_fields_harvested",
			Holds: func(final fluent.View) bool {
				for _, f := range fields {
					if !final.GetBool(fluent.Ground(domain.FieldHarvested, f)) {
						return false
					}
				}
				return true
			},
		},
		{
			Name: "all_tv_bunkers_empty",
			Holds: func(final fluent.View) bool {
				for _, tv := range tvs {
					if final.GetReal(fluent.Ground(domain.TVBunkerMass, tv)) > 0 {
						return false
					}
				}
				return true
			},
		},
	}}
}

// buildMetric selects the optimization objective from settings (spec.md
// §4.3.6, §6).
func (e *Encoder) buildMetric() planproblem.Metric {
	if e.set.PlanningType == planproblem.Temporal {
		switch e.set.TemporalOptimization {
		case planproblem.TemporalMakespan:
			return planproblem.Metric{Kind: planproblem.MetricMinimizeMakespan}
		default:
			return planproblem.NoMetric
		}
	}
	if e.set.SequentialOptimization.KHarvWaitingTime == 0 && e.set.SequentialOptimization.KTVWaitingTime == 0 {
		return planproblem.NoMetric
	}
	return planproblem.Metric{
		Kind: planproblem.MetricMinimizeWeightedWaiting,
		Weights: map[string]float64{
			"k_harv_waiting_time": e.set.SequentialOptimization.KHarvWaitingTime,
			"k_tv_waiting_time":   e.set.SequentialOptimization.KTVWaitingTime,
		},
	}
}
