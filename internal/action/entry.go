// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package action

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planproblem"
)

// driveHarvDuration computes the transit time of a harvester from its
// current out-of-field location to a field access point: route-planner
// distance over the harvester's empty-bunker speed, plus the fixed
// in-field settling time spec.md §6's
// infield_transit_duration_to_field_access setting names.
func (c *Catalog) driveHarvDuration(pre fluent.View, harv, access addrs.Ref) float64 {
	from := pre.GetObject(fluent.Ground(domain.HarvLocation, harv))
	d := distance(pre, from, access)
	speed := c.machineSpeedEmpty(harv)
	return d/speed + c.set.InfieldTransitDurationToFieldAccessS
}

// buildDriveHarvToField builds drive_harv_to_field_and_init: a harvester
// claims a field, drives to one of its access points and is marked busy
// there (spec.md §4.4).
func (c *Catalog) buildDriveHarvToField(temporal bool) ([]*planproblem.Def, error) {
	b := planproblem.NewActionBuilder("drive_harv_to_field_and_init", planproblem.ClassDriveHarvToField, temporal).
		Param("harv", addrs.Harvester).
		Param("field", addrs.Field).
		Param("access", addrs.FieldAccess)

	b.Precondition("harv_free", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		return pre.GetBool(fluent.Ground(domain.HarvFree, bindingRef(bnd, "harv")))
	})
	b.Precondition("field_unclaimed", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		return pre.GetObject(fluent.Ground(domain.FieldHarvester, bindingRef(bnd, "field"))) == addrs.NoValue(addrs.Harvester)
	})
	b.Precondition("pre_assignment_compatible", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		field, harv := bindingRef(bnd, "field"), bindingRef(bnd, "harv")
		pa := pre.GetObject(fluent.Ground(domain.FieldPreAssignedHarvester, field))
		return pa == addrs.NoValue(addrs.Harvester) || pa == harv
	})
	b.Precondition("turn_order", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		field, harv := bindingRef(bnd, "field"), bindingRef(bnd, "harv")
		turn := pre.GetInt(fluent.Ground(domain.FieldPreAssignedTurn, field))
		if turn == 0 {
			return true
		}
		return pre.GetInt(fluent.Ground(domain.HarvFieldTurnCounter, harv))+1 == turn
	})

	b.Duration(func(pre fluent.View, bnd map[string]addrs.Ref) (float64, error) {
		return c.driveHarvDuration(pre, bindingRef(bnd, "harv"), bindingRef(bnd, "access")), nil
	})

	handler := planproblem.NewEffectsHandler()
	handler.Set(planproblem.StartTiming, planproblem.KeyOf(domain.HarvFree, "harv"), fluent.BoolVal(false))
	handler.Simulate(planproblem.SimulatedEffect{
		Affected: []planproblem.KeyFn{
			planproblem.KeyOf(domain.FieldHarvester, "field"),
			planproblem.KeyOf(domain.HarvCurrentField, "harv"),
			planproblem.KeyOf(domain.HarvCurrentFieldAccess, "harv"),
			planproblem.KeyOf(domain.HarvLocation, "harv"),
			planproblem.KeyOf(domain.HarvFieldTurnCounter, "harv"),
			planproblem.KeyOf(domain.FieldTimestampAssigned, "field"),
			planproblem.KeyOf(domain.HarvTimestamp, "harv"),
			planproblem.KeyOf(domain.HarvTransitTimeAccum, "harv"),
		},
		Compute: func(pre fluent.View, bnd map[string]addrs.Ref) ([]cty.Value, error) {
			harv, field, access := bindingRef(bnd, "harv"), bindingRef(bnd, "field"), bindingRef(bnd, "access")
			dur := c.driveHarvDuration(pre, harv, access)
			newTimestamp := pre.GetReal(fluent.Ground(domain.HarvTimestamp, harv)) + dur
			return []cty.Value{
				fluent.ObjectVal(harv),
				fluent.ObjectVal(field),
				fluent.ObjectVal(access),
				fluent.ObjectVal(access),
				fluent.IntVal(pre.GetInt(fluent.Ground(domain.HarvFieldTurnCounter, harv)) + 1),
				fluent.RealVal(newTimestamp),
				fluent.RealVal(newTimestamp),
				fluent.RealVal(pre.GetReal(fluent.Ground(domain.HarvTransitTimeAccum, harv)) + dur),
			}, nil
		},
	})
	b.WithEffects(handler, c.set.Effects.DriveHarvToField)

	def, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return []*planproblem.Def{def}, nil
}

// buildDriveHarvFieldExit builds drive_harv_to_field_exit: a harvester
// that finished a field drives out to its exit access point, freeing
// itself to claim the next one (spec.md §4.4, §6
// with_drive_to_field_exit).
func (c *Catalog) buildDriveHarvFieldExit(temporal bool) ([]*planproblem.Def, error) {
	if !c.set.WithDriveToFieldExit {
		return nil, nil
	}
	b := planproblem.NewActionBuilder("drive_harv_to_field_exit", planproblem.ClassDriveHarvFieldExit, temporal).
		Param("harv", addrs.Harvester).
		Param("field", addrs.Field).
		Param("exit", addrs.FieldAccess)

	b.Precondition("field_finished", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		field := bindingRef(bnd, "field")
		return pre.GetBool(fluent.Ground(domain.FieldHarvested, field))
	})
	b.Precondition("harv_at_field", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		harv, field := bindingRef(bnd, "harv"), bindingRef(bnd, "field")
		return pre.GetObject(fluent.Ground(domain.HarvCurrentField, harv)) == field
	})

	b.Duration(func(pre fluent.View, bnd map[string]addrs.Ref) (float64, error) {
		harv, exit := bindingRef(bnd, "harv"), bindingRef(bnd, "exit")
		from := pre.GetObject(fluent.Ground(domain.HarvCurrentFieldAccess, harv))
		d := distance(pre, from, exit)
		return d/c.machineSpeedEmpty(harv) + c.set.InfieldTransitDurationToFieldAccessS, nil
	})

	handler := planproblem.NewEffectsHandler()
	handler.Simulate(planproblem.SimulatedEffect{
		Affected: []planproblem.KeyFn{
			planproblem.KeyOf(domain.HarvFree, "harv"),
			planproblem.KeyOf(domain.HarvCurrentField, "harv"),
			planproblem.KeyOf(domain.HarvCurrentFieldAccess, "harv"),
			planproblem.KeyOf(domain.HarvLocation, "harv"),
			planproblem.KeyOf(domain.HarvTimestamp, "harv"),
			planproblem.KeyOf(domain.HarvTransitTimeAccum, "harv"),
		},
		Compute: func(pre fluent.View, bnd map[string]addrs.Ref) ([]cty.Value, error) {
			harv, exit := bindingRef(bnd, "harv"), bindingRef(bnd, "exit")
			from := pre.GetObject(fluent.Ground(domain.HarvCurrentFieldAccess, harv))
			d := distance(pre, from, exit)
			dur := d/c.machineSpeedEmpty(harv) + c.set.InfieldTransitDurationToFieldAccessS
			newTimestamp := pre.GetReal(fluent.Ground(domain.HarvTimestamp, harv)) + dur
			return []cty.Value{
				fluent.BoolVal(true),
				fluent.ObjectVal(addrs.NoValue(addrs.Field)),
				fluent.ObjectVal(addrs.NoValue(addrs.FieldAccess)),
				fluent.ObjectVal(exit),
				fluent.RealVal(newTimestamp),
				fluent.RealVal(pre.GetReal(fluent.Ground(domain.HarvTransitTimeAccum, harv)) + dur),
			}, nil
		},
	})
	b.WithEffects(handler, c.set.Effects.DriveToFieldExit)

	def, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return []*planproblem.Def{def}, nil
}
