// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package heuristic

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/decoder"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planner"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planproblem"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/settings"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/stats"
)

func scenario(t *testing.T) (*domain.Domain, *fluent.State) {
	t.Helper()
	harv := addrs.New(addrs.Harvester, 1)
	tv := addrs.New(addrs.TransportVehicle, 1)
	field := addrs.New(addrs.Field, 1)

	b := domain.NewBuilder(domain.DefaultDefaults())
	b.AddField(domain.Field{Ref: field, AreaM2: 1000, InitialYieldMassKg: 4000}, domain.FieldState{FieldRef: field})
	b.AddMachine(domain.Machine{Ref: harv, Kind: domain.MachineHarvester}, domain.MachineState{MachineRef: harv, LocationRef: addrs.StreetRef})
	b.AddMachine(domain.Machine{Ref: tv, Kind: domain.MachineTransportVehicle}, domain.MachineState{MachineRef: tv, LocationRef: addrs.StreetRef})
	dom, err := b.Finish()
	require.NoError(t, err)

	reg := domain.BuildRegistry()
	st := fluent.NewState(reg)
	require.NoError(t, st.Set(fluent.Ground(domain.HarvTransitTimeAccum, harv), fluent.RealVal(30)))
	require.NoError(t, st.Set(fluent.Ground(domain.TVWaitingTimeAccum, tv), fluent.RealVal(12)))
	require.NoError(t, st.Set(fluent.Ground(domain.FieldTotalYieldMass, field), fluent.RealVal(4000)))
	require.NoError(t, st.Set(fluent.Ground(domain.FieldReservedMass, field), fluent.RealVal(1000)))
	require.NoError(t, st.Set(fluent.Ground(domain.FieldHarvested, field), fluent.BoolVal(false)))
	require.NoError(t, st.Set(fluent.Ground(domain.GlobalTVsWaitingToDriveCount), fluent.IntVal(2)))
	require.NoError(t, st.Set(fluent.Ground(domain.HarvTimestamp, harv), fluent.RealVal(0)))
	require.NoError(t, st.Set(fluent.Ground(domain.TVTimestamp, tv), fluent.RealVal(0)))
	require.NoError(t, st.Set(fluent.Ground(domain.TVTransitTimeAccum, tv), fluent.RealVal(0)))
	return dom, st
}

func TestHarvWaitingTimeSumsAcrossHarvesters(t *testing.T) {
	dom, st := scenario(t)
	assert.Equal(t, 30.0, HarvWaitingTime().Evaluate(st, dom))
}

func TestTVWaitingTimeSumsAcrossTVs(t *testing.T) {
	dom, st := scenario(t)
	assert.Equal(t, 12.0, TVWaitingTime().Evaluate(st, dom))
}

func TestUnharvestedMassIgnoresFinishedFields(t *testing.T) {
	dom, st := scenario(t)
	assert.Equal(t, 3000.0, UnharvestedMass().Evaluate(st, dom))

	field := dom.Fields()[0]
	require.NoError(t, st.Set(fluent.Ground(domain.FieldHarvested, field), fluent.BoolVal(true)))
	assert.Equal(t, 0.0, UnharvestedMass().Evaluate(st, dom))
}

func TestTVsWaitingToDriveReadsGlobalCounter(t *testing.T) {
	dom, st := scenario(t)
	assert.Equal(t, 2.0, TVsWaitingToDrive().Evaluate(st, dom))
}

func TestSequentialDefaultWeightsMatchSettings(t *testing.T) {
	dom, st := scenario(t)
	set := settings.Default()
	set.SequentialOptimization.KHarvWaitingTime = 2
	set.SequentialOptimization.KTVWaitingTime = 3

	h := SequentialDefault(set)
	got := h.Evaluate(st, dom)
	want := 2*30.0 + 3*12.0 + 1e-6*3000.0
	assert.InDelta(t, want, got, 1e-9)
	assert.Equal(t, "sequential_default", h.Name())
}

func TestTemporalDefaultIgnoresSettingsValue(t *testing.T) {
	dom, st := scenario(t)
	h := TemporalDefault(settings.Default())
	want := 3000.0 + 10*2.0
	assert.InDelta(t, want, h.Evaluate(st, dom), 1e-9)
}

type countingRecorderHeuristic struct {
	calls int
}

func (c *countingRecorderHeuristic) Name() string { return "counting" }
func (c *countingRecorderHeuristic) Evaluate(fluent.View, *domain.Domain) float64 {
	c.calls++
	return 0
}

func TestInstrumentedEvaluateDelegatesWithNilRecorder(t *testing.T) {
	dom, st := scenario(t)
	inner := &countingRecorderHeuristic{}
	wrapped := Instrument(inner, nil)
	_ = wrapped.Evaluate(st, dom)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "counting", wrapped.Name())
}

func TestNewDebugSnapshotWritesLinesAndReturnsZero(t *testing.T) {
	dom, st := scenario(t)
	var buf bytes.Buffer
	h := NewDebugSnapshot(&buf)
	got := h.Evaluate(st, dom)
	assert.Equal(t, 0.0, got)
	out := buf.String()
	assert.Contains(t, out, "transit_time_accum=30")
	assert.Contains(t, out, "waiting_time_accum=12")
}

func TestNewDebugSnapshotIsNoOpWithNilWriter(t *testing.T) {
	dom, st := scenario(t)
	assert.NotPanics(t, func() {
		assert.Equal(t, 0.0, NewDebugSnapshot(nil).Evaluate(st, dom))
	})
}

func emptyProblem(reg *fluent.Registry, initial *fluent.State) *planproblem.Problem {
	return planproblem.New(
		planproblem.Sequential,
		planproblem.WithoutSiloAccessAvailability,
		reg,
		planproblem.NewObjectCatalog(),
		initial,
		nil,
		planproblem.Goal{},
		planproblem.NoMetric,
	)
}

func TestSimulateBasePlanReturnsInitialStateForEmptyPlan(t *testing.T) {
	reg := domain.BuildRegistry()
	initial := fluent.NewState(reg)
	problem := emptyProblem(reg, initial)

	final, err := SimulateBasePlan(problem, planner.Plan{})
	require.NoError(t, err)
	assert.Same(t, initial, final)
}

func TestSimulateBasePlanErrorsOnUnknownAction(t *testing.T) {
	reg := domain.BuildRegistry()
	initial := fluent.NewState(reg)
	problem := emptyProblem(reg, initial)

	_, err := SimulateBasePlan(problem, planner.Plan{Steps: []decoder.Step{{ActionName: "does_not_exist"}}})
	assert.Error(t, err)
}

func TestComputeGoalValuesTracksMaximaAndSums(t *testing.T) {
	dom, st := scenario(t)
	harv := dom.Harvesters()[0]
	tv := dom.TVs()[0]
	require.NoError(t, st.Set(fluent.Ground(domain.HarvTimestamp, harv), fluent.RealVal(100)))
	require.NoError(t, st.Set(fluent.Ground(domain.TVTimestamp, tv), fluent.RealVal(80)))
	require.NoError(t, st.Set(fluent.Ground(domain.TVTransitTimeAccum, tv), fluent.RealVal(15)))

	gv := ComputeGoalValues(dom, st)
	assert.Equal(t, 100.0, gv.MaxTimestamp)
	assert.Equal(t, 30.0, gv.MaxHarvWaitingTime)
	assert.Equal(t, 12.0, gv.MaxTVWaitingTime)
	assert.Equal(t, 15.0, gv.MaxTVTransitTime)
}

func TestControlMaxTimestampPrunesStatesPastTheBound(t *testing.T) {
	dom, st := scenario(t)
	harv := dom.Harvesters()[0]
	goal := GoalValues{MaxTimestamp: 50}
	h := ControlMaxTimestamp(goal)
	assert.Equal(t, 0.0, h.Evaluate(st, dom))

	require.NoError(t, st.Set(fluent.Ground(domain.HarvTimestamp, harv), fluent.RealVal(52)))
	assert.True(t, math.IsInf(h.Evaluate(st, dom), 1))
}

func TestSequentialDefaultWithoutBasePlanHasNoControlTerms(t *testing.T) {
	dom, st := scenario(t)
	h := SequentialDefault(settings.Default())
	assert.False(t, math.IsInf(h.Evaluate(st, dom), 1))
}

func TestSequentialDefaultWithBasePlanAddsControlHeuristics(t *testing.T) {
	dom, st := scenario(t)
	harv := dom.Harvesters()[0]

	reg := domain.BuildRegistry()
	finalState := fluent.NewState(reg)
	require.NoError(t, finalState.Set(fluent.Ground(domain.HarvTimestamp, harv), fluent.RealVal(10)))
	tv := dom.TVs()[0]
	require.NoError(t, finalState.Set(fluent.Ground(domain.HarvTransitTimeAccum, harv), fluent.RealVal(30)))
	require.NoError(t, finalState.Set(fluent.Ground(domain.TVTimestamp, tv), fluent.RealVal(0)))
	require.NoError(t, finalState.Set(fluent.Ground(domain.TVWaitingTimeAccum, tv), fluent.RealVal(12)))
	require.NoError(t, finalState.Set(fluent.Ground(domain.TVTransitTimeAccum, tv), fluent.RealVal(0)))

	h := SequentialDefault(settings.Default(), BasePlan{Dom: dom, FinalState: finalState})

	require.NoError(t, st.Set(fluent.Ground(domain.HarvTimestamp, harv), fluent.RealVal(500)))
	assert.True(t, math.IsInf(h.Evaluate(st, dom), 1), "a state running far longer than the base plan should be pruned")
}

func TestSequentialDefaultScalesTieBreakerByScenarioStats(t *testing.T) {
	dom, st := scenario(t)
	set := settings.Default()
	set.SequentialOptimization.KHarvWaitingTime = 0
	set.SequentialOptimization.KTVWaitingTime = 0

	withoutStats := SequentialDefault(set)
	withStats := SequentialDefault(set, BasePlan{Stats: stats.Stats{TotalYieldMassKg: 3000}})

	assert.InDelta(t, 1e-6*3000.0, withoutStats.Evaluate(st, dom), 1e-9)
	assert.InDelta(t, 1.0, withStats.Evaluate(st, dom), 1e-9)
}
