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

// tvDriveDuration computes a transport vehicle's transit time from its
// current location to a field access point.
func (c *Catalog) tvDriveDuration(pre fluent.View, tv, access addrs.Ref) float64 {
	from := pre.GetObject(fluent.Ground(domain.TVLocation, tv))
	full := pre.GetReal(fluent.Ground(domain.TVBunkerMass, tv)) > 0
	speed := c.machineSpeedEmpty(tv)
	if full {
		speed = c.machineSpeedFull(tv)
	}
	d := distance(pre, from, access)
	return d/speed + c.set.InfieldTransitDurationToFieldAccessS
}

// buildDriveTVToFieldReserveOverload builds the two
// drive_tv_to_field_and_reserve_overload variants spec.md §4.4 names: one
// that sends the TV to the harvester's currently active field, and one
// that pre-positions it for the harvester's next pre-assigned turn while
// that harvester is still finishing the current one. Both reserve the
// TV-harvester pairing and reuse the same effect shape; only the turn
// precondition differs, so one closure parameterizes both.
func (c *Catalog) buildDriveTVToFieldReserveOverload(temporal bool) ([]*planproblem.Def, error) {
	current, err := c.driveTVToFieldVariant(temporal, "drive_tv_to_field_and_reserve_overload", false)
	if err != nil {
		return nil, err
	}
	preAssigned, err := c.driveTVToFieldVariant(temporal, "drive_tv_to_field_and_reserve_overload_next_turn", true)
	if err != nil {
		return nil, err
	}
	return []*planproblem.Def{current, preAssigned}, nil
}

func (c *Catalog) driveTVToFieldVariant(temporal bool, name string, nextTurn bool) (*planproblem.Def, error) {
	b := planproblem.NewActionBuilder(name, planproblem.ClassDriveTVToField, temporal).
		Param("tv", addrs.TransportVehicle).
		Param("harv", addrs.Harvester).
		Param("field", addrs.Field).
		Param("access", addrs.FieldAccess)

	b.Precondition("tv_free", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		return pre.GetBool(fluent.Ground(domain.TVFree, bindingRef(bnd, "tv")))
	})
	b.Precondition("tv_pre_assignment_compatible", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		tv, harv := bindingRef(bnd, "tv"), bindingRef(bnd, "harv")
		pa := pre.GetObject(fluent.Ground(domain.TVPreAssignedHarvester, tv))
		return pa == addrs.NoValue(addrs.Harvester) || pa == harv
	})
	if nextTurn {
		b.Precondition("harv_still_on_previous_field", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
			harv := bindingRef(bnd, "harv")
			return !pre.GetBool(fluent.Ground(domain.HarvFree, harv))
		})
		b.Precondition("field_is_next_turn", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
			harv, field := bindingRef(bnd, "harv"), bindingRef(bnd, "field")
			turn := pre.GetInt(fluent.Ground(domain.FieldPreAssignedTurn, field))
			return turn != 0 && turn == pre.GetInt(fluent.Ground(domain.HarvFieldTurnCounter, harv))+1
		})
	} else {
		b.Precondition("field_is_harv_current", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
			harv, field := bindingRef(bnd, "harv"), bindingRef(bnd, "field")
			return pre.GetObject(fluent.Ground(domain.HarvCurrentField, harv)) == field
		})
	}

	b.Duration(func(pre fluent.View, bnd map[string]addrs.Ref) (float64, error) {
		return c.tvDriveDuration(pre, bindingRef(bnd, "tv"), bindingRef(bnd, "access")), nil
	})

	handler := planproblem.NewEffectsHandler()
	handler.Set(planproblem.StartTiming, planproblem.KeyOf(domain.TVFree, "tv"), fluent.BoolVal(false))
	handler.Simulate(planproblem.SimulatedEffect{
		Affected: []planproblem.KeyFn{
			planproblem.KeyOf(domain.TVLocation, "tv"),
			planproblem.KeyOf(domain.TVTimestamp, "tv"),
			planproblem.KeyOf(domain.TVTransitTimeAccum, "tv"),
			planproblem.KeyOf(domain.TVCanLoad, "tv"),
		},
		Compute: func(pre fluent.View, bnd map[string]addrs.Ref) ([]cty.Value, error) {
			tv, access := bindingRef(bnd, "tv"), bindingRef(bnd, "access")
			dur := c.tvDriveDuration(pre, tv, access)
			newTimestamp := pre.GetReal(fluent.Ground(domain.TVTimestamp, tv)) + dur
			return []cty.Value{
				fluent.ObjectVal(access),
				fluent.RealVal(newTimestamp),
				fluent.RealVal(pre.GetReal(fluent.Ground(domain.TVTransitTimeAccum, tv)) + dur),
				fluent.BoolVal(true),
			}, nil
		},
	})
	b.WithEffects(handler, c.set.Effects.DriveTVToField)

	return b.Finish()
}

// buildDriveTVFieldExit builds drive_tv_to_field_exit: a loaded or
// unloaded TV drives out of a field it is done with, freeing it to head
// to a silo or to its next reserved overload (spec.md §4.4,
// with_drive_to_field_exit).
func (c *Catalog) buildDriveTVFieldExit(temporal bool) ([]*planproblem.Def, error) {
	if !c.set.WithDriveToFieldExit {
		return nil, nil
	}
	b := planproblem.NewActionBuilder("drive_tv_to_field_exit", planproblem.ClassDriveTVFieldExit, temporal).
		Param("tv", addrs.TransportVehicle).
		Param("exit", addrs.FieldAccess)

	b.Precondition("tv_done_loading", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		return !pre.GetBool(fluent.Ground(domain.TVCanLoad, bindingRef(bnd, "tv")))
	})

	b.Duration(func(pre fluent.View, bnd map[string]addrs.Ref) (float64, error) {
		return c.tvDriveDuration(pre, bindingRef(bnd, "tv"), bindingRef(bnd, "exit")), nil
	})

	handler := planproblem.NewEffectsHandler()
	handler.Simulate(planproblem.SimulatedEffect{
		Affected: []planproblem.KeyFn{
			planproblem.KeyOf(domain.TVLocation, "tv"),
			planproblem.KeyOf(domain.TVTimestamp, "tv"),
			planproblem.KeyOf(domain.TVTransitTimeAccum, "tv"),
			planproblem.KeyOf(domain.TVFree, "tv"),
		},
		Compute: func(pre fluent.View, bnd map[string]addrs.Ref) ([]cty.Value, error) {
			tv, exit := bindingRef(bnd, "tv"), bindingRef(bnd, "exit")
			dur := c.tvDriveDuration(pre, tv, exit)
			newTimestamp := pre.GetReal(fluent.Ground(domain.TVTimestamp, tv)) + dur
			return []cty.Value{
				fluent.ObjectVal(exit),
				fluent.RealVal(newTimestamp),
				fluent.RealVal(pre.GetReal(fluent.Ground(domain.TVTransitTimeAccum, tv)) + dur),
				fluent.BoolVal(true),
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
