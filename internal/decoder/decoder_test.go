// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planproblem"
)

// harvestProblem builds a minimal two-step Problem: a harvester drives to
// a field (setting harv_free false, harv_location to the field) then
// harvests it (setting field_harvested true and bumping
// field_harvested_percent), over the real domain registry so fluent
// lookups/bounds behave exactly as the encoder would produce.
func harvestProblem(t *testing.T) (*planproblem.Problem, addrs.Ref, addrs.Ref) {
	t.Helper()
	reg := domain.BuildRegistry()
	harv := addrs.New(addrs.Harvester, 1)
	field := addrs.New(addrs.Field, 1)

	init := fluent.NewState(reg)
	require.NoError(t, init.Set(fluent.Ground(domain.HarvFree, harv), fluent.BoolVal(true)))
	require.NoError(t, init.Set(fluent.Ground(domain.HarvLocation, harv), fluent.ObjectVal(addrs.StreetRef)))
	require.NoError(t, init.Set(fluent.Ground(domain.FieldHarvested, field), fluent.BoolVal(false)))
	require.NoError(t, init.Set(fluent.Ground(domain.FieldHarvestedPercent, field), fluent.RealVal(0)))
	require.NoError(t, init.SetDefault(fluent.Ground(domain.GlobalTotalMassInSilos)))

	driveHandler := planproblem.NewEffectsHandler()
	driveHandler.Set(planproblem.StartTiming, planproblem.KeyOf(domain.HarvFree, "harv"), fluent.BoolVal(false))
	driveHandler.Set(planproblem.StartTiming, planproblem.KeyOf(domain.HarvLocation, "harv"), fluent.ObjectVal(field))
	drive, err := planproblem.NewActionBuilder("drive_harv_to_field", planproblem.ClassDriveHarvToField, false).
		Param("harv", addrs.Harvester).
		Param("field", addrs.Field).
		Precondition("harv_is_free", func(pre fluent.View, b map[string]addrs.Ref) bool {
			return pre.GetBool(fluent.Ground(domain.HarvFree, b["harv"]))
		}).
		WithEffects(driveHandler, planproblem.EffectsNormalOnly).
		Finish()
	require.NoError(t, err)

	harvestHandler := planproblem.NewEffectsHandler()
	harvestHandler.Set(planproblem.EndTiming, planproblem.KeyOf(domain.FieldHarvested, "field"), fluent.BoolVal(true))
	harvestHandler.Set(planproblem.EndTiming, planproblem.KeyOf(domain.FieldHarvestedPercent, "field"), fluent.RealVal(100))
	harvest, err := planproblem.NewActionBuilder("do_overload", planproblem.ClassOverload, false).
		Param("harv", addrs.Harvester).
		Param("field", addrs.Field).
		Precondition("harv_is_at_field", func(pre fluent.View, b map[string]addrs.Ref) bool {
			return pre.GetObject(fluent.Ground(domain.HarvLocation, b["harv"])) == b["field"]
		}).
		WithEffects(harvestHandler, planproblem.EffectsNormalOnly).
		Finish()
	require.NoError(t, err)

	catalog := planproblem.NewObjectCatalog()
	catalog.Add(harv)
	catalog.Add(field)

	p := planproblem.New(planproblem.Sequential, planproblem.WithoutSiloAccessAvailability, reg, catalog, init,
		[]planproblem.Action{drive, harvest}, planproblem.Goal{}, planproblem.Metric{})
	return p, harv, field
}

func TestDecodeAppliesStepsInOrderAndRecordsTimestamps(t *testing.T) {
	p, harv, field := harvestProblem(t)
	steps := []Step{
		{ActionName: "drive_harv_to_field", Bindings: map[string]addrs.Ref{"harv": harv, "field": field}, StartTime: 0},
		{ActionName: "do_overload", Bindings: map[string]addrs.Ref{"harv": harv, "field": field}, StartTime: 1},
	}

	h, d := Decode(p, steps, nil, nil)
	assert.False(t, d.HasErrors())
	require.Len(t, h.Records(), 2)

	harvested, pct, _ := h.FieldStateAt(10, field)
	assert.True(t, harvested)
	assert.Equal(t, 100.0, pct)

	// Before either step applied, the field must read as initial.
	harvestedBefore, pctBefore, _ := h.FieldStateAt(-1, field)
	assert.False(t, harvestedBefore)
	assert.Equal(t, 0.0, pctBefore)
}

func TestDecodeFinalStateMatchesLastRecord(t *testing.T) {
	p, harv, field := harvestProblem(t)
	steps := []Step{
		{ActionName: "drive_harv_to_field", Bindings: map[string]addrs.Ref{"harv": harv, "field": field}, StartTime: 0},
	}

	h, d := Decode(p, steps, nil, nil)
	assert.False(t, d.HasErrors())

	final := h.FinalState()
	assert.False(t, final.GetBool(fluent.Ground(domain.HarvFree, harv)))
	assert.Equal(t, field, final.GetObject(fluent.Ground(domain.HarvLocation, harv)))
}

func TestDecodeFinalStateIsInitialWhenNoStepsApply(t *testing.T) {
	p, _, _ := harvestProblem(t)
	h, d := Decode(p, nil, nil, nil)
	assert.False(t, d.HasErrors())
	assert.Same(t, h.initial, h.FinalState())
}

func TestDecodeStopsAndReportsOnUnmetPrecondition(t *testing.T) {
	p, harv, field := harvestProblem(t)
	// Skip the drive step: do_overload's precondition requires the
	// harvester to already be at the field.
	steps := []Step{
		{ActionName: "do_overload", Bindings: map[string]addrs.Ref{"harv": harv, "field": field}, StartTime: 0},
	}

	h, d := Decode(p, steps, nil, nil)
	require.True(t, d.HasErrors())
	assert.Empty(t, h.Records())
	// the initial state must still be queryable even though no step applied
	harvested, _, _ := h.FieldStateAt(0, field)
	assert.False(t, harvested)
}

func TestDecodeStopsOnUnknownAction(t *testing.T) {
	p, harv, field := harvestProblem(t)
	steps := []Step{
		{ActionName: "does_not_exist", Bindings: map[string]addrs.Ref{"harv": harv, "field": field}, StartTime: 0},
	}

	h, d := Decode(p, steps, nil, nil)
	require.True(t, d.HasErrors())
	assert.Empty(t, h.Records())
}

func TestDecodePartialHistoryPreservedAfterFailureMidway(t *testing.T) {
	p, harv, field := harvestProblem(t)
	steps := []Step{
		{ActionName: "drive_harv_to_field", Bindings: map[string]addrs.Ref{"harv": harv, "field": field}, StartTime: 0},
		{ActionName: "drive_harv_to_field", Bindings: map[string]addrs.Ref{"harv": harv, "field": field}, StartTime: 1}, // harv no longer free
	}

	h, d := Decode(p, steps, nil, nil)
	require.True(t, d.HasErrors())
	require.Len(t, h.Records(), 1)
}

func TestGivesPreciseMachinePositionsReflectsMode(t *testing.T) {
	p, _, _ := harvestProblem(t)
	h, _ := Decode(p, nil, nil, nil)
	assert.False(t, h.GivesPreciseMachinePositions())

	p.Mode = planproblem.Temporal
	h2, _ := Decode(p, nil, nil, nil)
	assert.True(t, h2.GivesPreciseMachinePositions())
}
