// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package action

import (
	"math"

	"github.com/zclconf/go-cty/cty"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planproblem"
)

// buildDriveToSilo builds the drive_to_silo(+unload) family: one Def per
// silo_planning_type variant spec.md §4.4/§6 distinguishes — without
// silo-access availability tracking, with it, and with capacity plus
// compaction — since each variant's preconditions and effects touch a
// different subset of the silo-access fluents.
func (c *Catalog) buildDriveToSilo(temporal bool) ([]*planproblem.Def, error) {
	switch c.set.SiloPlanningType {
	case planproblem.WithoutSiloAccessAvailability:
		def, err := c.driveToSiloDef(temporal, "drive_to_silo", false, false)
		if err != nil {
			return nil, err
		}
		return []*planproblem.Def{def}, nil
	case planproblem.WithSiloAccessAvailability:
		def, err := c.driveToSiloDef(temporal, "drive_to_silo_with_access_availability", true, false)
		if err != nil {
			return nil, err
		}
		return []*planproblem.Def{def}, nil
	case planproblem.WithSiloAccessCapacityAndCompaction:
		def, err := c.driveToSiloDef(temporal, "drive_to_silo_with_capacity_and_compaction", true, true)
		if err != nil {
			return nil, err
		}
		return []*planproblem.Def{def}, nil
	default:
		return nil, nil
	}
}

func (c *Catalog) tvToSiloDuration(pre fluent.View, tv, access addrs.Ref) float64 {
	from := pre.GetObject(fluent.Ground(domain.TVLocation, tv))
	d := distance(pre, from, access)
	return d / c.machineSpeedFull(tv)
}

func (c *Catalog) driveToSiloDef(temporal bool, name string, withAvailability, withCapacity bool) (*planproblem.Def, error) {
	b := planproblem.NewActionBuilder(name, planproblem.ClassDriveToSilo, temporal).
		Param("tv", addrs.TransportVehicle).
		Param("access", addrs.SiloAccess)

	b.Precondition("tv_loaded_and_done", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		tv := bindingRef(bnd, "tv")
		return !pre.GetBool(fluent.Ground(domain.TVCanLoad, tv)) && pre.GetReal(fluent.Ground(domain.TVBunkerMass, tv)) > 0 &&
			!pre.GetBool(fluent.Ground(domain.TVReadyToUnload, tv))
	})
	if withAvailability {
		b.Precondition("silo_access_free", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
			return pre.GetBool(fluent.Ground(domain.SiloAccessFree, bindingRef(bnd, "access")))
		})
	}
	if withCapacity {
		b.Precondition("silo_access_has_capacity", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
			tv, access := bindingRef(bnd, "tv"), bindingRef(bnd, "access")
			return pre.GetReal(fluent.Ground(domain.SiloAccessAvailableCapacity, access)) >= pre.GetReal(fluent.Ground(domain.TVBunkerMass, tv))
		})
	}

	b.Duration(func(pre fluent.View, bnd map[string]addrs.Ref) (float64, error) {
		return c.tvToSiloDuration(pre, bindingRef(bnd, "tv"), bindingRef(bnd, "access")), nil
	})

	affected := []planproblem.KeyFn{
		planproblem.KeyOf(domain.TVLocation, "tv"),
		planproblem.KeyOf(domain.TVTimestamp, "tv"),
		planproblem.KeyOf(domain.TVTransitTimeAccum, "tv"),
		planproblem.KeyOf(domain.TVReadyToUnload, "tv"),
	}
	if withAvailability {
		affected = append(affected, planproblem.KeyOf(domain.SiloAccessFree, "access"))
	}

	handler := planproblem.NewEffectsHandler()
	handler.Simulate(planproblem.SimulatedEffect{
		Affected: affected,
		Compute: func(pre fluent.View, bnd map[string]addrs.Ref) ([]cty.Value, error) {
			tv, access := bindingRef(bnd, "tv"), bindingRef(bnd, "access")
			dur := c.tvToSiloDuration(pre, tv, access)
			newTimestamp := pre.GetReal(fluent.Ground(domain.TVTimestamp, tv)) + dur
			out := []cty.Value{
				fluent.ObjectVal(access),
				fluent.RealVal(newTimestamp),
				fluent.RealVal(pre.GetReal(fluent.Ground(domain.TVTransitTimeAccum, tv)) + dur),
				fluent.BoolVal(true),
			}
			if withAvailability {
				out = append(out, fluent.BoolVal(false))
			}
			return out, nil
		},
	})
	b.WithEffects(handler, c.set.Effects.DriveToSilo)

	return b.Finish()
}

// buildUnloadAtSilo builds unload_at_silo: a TV parked at a silo access
// point empties its bunker, freeing the access point again when
// silo-access availability is tracked (spec.md §4.4).
func (c *Catalog) buildUnloadAtSilo(temporal bool) ([]*planproblem.Def, error) {
	withAvailability := c.set.SiloPlanningType != planproblem.WithoutSiloAccessAvailability
	withCapacity := c.set.SiloPlanningType == planproblem.WithSiloAccessCapacityAndCompaction

	b := planproblem.NewActionBuilder("unload_at_silo", planproblem.ClassUnloadAtSilo, temporal).
		Param("tv", addrs.TransportVehicle).
		Param("access", addrs.SiloAccess)

	b.Precondition("tv_ready_to_unload", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		tv := bindingRef(bnd, "tv")
		return pre.GetBool(fluent.Ground(domain.TVReadyToUnload, tv)) && pre.GetObject(fluent.Ground(domain.TVLocation, tv)) == bindingRef(bnd, "access")
	})

	b.Duration(func(pre fluent.View, bnd map[string]addrs.Ref) (float64, error) {
		tv := bindingRef(bnd, "tv")
		mass := pre.GetReal(fluent.Ground(domain.TVBunkerMass, tv))
		return mass / c.unloadSpeed(tv), nil
	})

	affected := []planproblem.KeyFn{
		planproblem.KeyOf(domain.TVBunkerMass, "tv"),
		planproblem.KeyOf(domain.TVReadyToUnload, "tv"),
		planproblem.KeyOf(domain.TVCanLoad, "tv"),
		planproblem.KeyOf(domain.TVTimestamp, "tv"),
		planproblem.KeyOf(domain.GlobalTotalMassInSilos),
	}
	if withAvailability {
		affected = append(affected, planproblem.KeyOf(domain.SiloAccessFree, "access"))
	}
	if withCapacity {
		affected = append(affected, planproblem.KeyOf(domain.SiloAccessAvailableCapacity, "access"))
		affected = append(affected, planproblem.KeyOf(domain.SiloAccessCleared, "access"))
	}

	handler := planproblem.NewEffectsHandler()
	handler.Simulate(planproblem.SimulatedEffect{
		Affected: affected,
		Compute: func(pre fluent.View, bnd map[string]addrs.Ref) ([]cty.Value, error) {
			tv, access := bindingRef(bnd, "tv"), bindingRef(bnd, "access")
			mass := pre.GetReal(fluent.Ground(domain.TVBunkerMass, tv))
			dur := mass / c.unloadSpeed(tv)
			out := []cty.Value{
				fluent.RealVal(0),
				fluent.BoolVal(false),
				fluent.BoolVal(true),
				fluent.RealVal(pre.GetReal(fluent.Ground(domain.TVTimestamp, tv)) + dur),
				fluent.RealVal(pre.GetReal(fluent.Ground(domain.GlobalTotalMassInSilos)) + mass),
			}
			if withAvailability {
				out = append(out, fluent.BoolVal(true))
			}
			if withCapacity {
				headroom := math.Max(0, pre.GetReal(fluent.Ground(domain.SiloAccessAvailableCapacity, access))-mass)
				out = append(out, fluent.RealVal(headroom))
				// Unloading deposits fresh mass at the access point, so it
				// always needs a sweep again afterwards (spec.md §4.2).
				out = append(out, fluent.BoolVal(false))
			}
			return out, nil
		},
	})
	b.WithEffects(handler, c.set.Effects.UnloadAtSilo)

	def, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return []*planproblem.Def{def}, nil
}

// sweepAmounts returns how much mass one sweep removes from access (capped
// at what's actually piled up there) and how much was piled up before the
// sweep, the two quantities the sweep's capacity and cleared-flag effects
// both derive from (spec.md §4.2).
func (c *Catalog) sweepAmounts(pre fluent.View, compactor, access addrs.Ref) (massRemoved, massPiled float64) {
	ap, _ := c.dom.SiloAccess(access)
	available := pre.GetReal(fluent.Ground(domain.SiloAccessAvailableCapacity, access))
	massPiled = math.Max(0, ap.CapacityKg-available)
	m, _ := c.dom.Machine(compactor)
	perSweep := math.Max(0, m.MassPerSweepKg)
	massRemoved = math.Min(perSweep, massPiled)
	return massRemoved, massPiled
}

// buildSweepSiloAccess builds sweep_silo_access: a compactor clears
// accumulated mass from a silo access point back into free capacity,
// only present under WithSiloAccessCapacityAndCompaction (spec.md §4.4,
// §6).
func (c *Catalog) buildSweepSiloAccess(temporal bool) ([]*planproblem.Def, error) {
	b := planproblem.NewActionBuilder("sweep_silo_access", planproblem.ClassSweepSiloAccess, temporal).
		Param("compactor", addrs.Compactor).
		Param("access", addrs.SiloAccess)

	b.Precondition("compactor_free", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		return pre.GetBool(fluent.Ground(domain.CompactorFree, bindingRef(bnd, "compactor")))
	})
	b.Precondition("compactor_owns_silo", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		compactor := bindingRef(bnd, "compactor")
		return pre.GetObject(fluent.Ground(domain.CompactorSilo, compactor)) != addrs.NoValue(addrs.Silo)
	})
	b.Precondition("access_needs_clearing", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		return !pre.GetBool(fluent.Ground(domain.SiloAccessCleared, bindingRef(bnd, "access")))
	})

	b.Duration(func(pre fluent.View, bnd map[string]addrs.Ref) (float64, error) {
		return pre.GetReal(fluent.Ground(domain.SiloAccessSweepDuration, bindingRef(bnd, "access"))), nil
	})

	handler := planproblem.NewEffectsHandler()
	// Whether the access counts as cleared depends on whether this sweep
	// removed everything piled up, not just that a sweep happened — the
	// remaining mass determines whether capacity is fully or partially
	// restored (spec.md §4.2).
	handler.SetConditional(planproblem.EndTiming, planproblem.KeyOf(domain.SiloAccessCleared, "access"), fluent.BoolVal(true), func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		compactor, access := bindingRef(bnd, "compactor"), bindingRef(bnd, "access")
		removed, piled := c.sweepAmounts(pre, compactor, access)
		return piled-removed < c.dom.Defaults().MinDistanceEpsilon
	})
	handler.SetConditional(planproblem.EndTiming, planproblem.KeyOf(domain.SiloAccessCleared, "access"), fluent.BoolVal(false), func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		compactor, access := bindingRef(bnd, "compactor"), bindingRef(bnd, "access")
		removed, piled := c.sweepAmounts(pre, compactor, access)
		return piled-removed >= c.dom.Defaults().MinDistanceEpsilon
	})
	handler.Simulate(planproblem.SimulatedEffect{
		Affected: []planproblem.KeyFn{
			planproblem.KeyOf(domain.SiloAccessAvailableCapacity, "access"),
		},
		Compute: func(pre fluent.View, bnd map[string]addrs.Ref) ([]cty.Value, error) {
			compactor, access := bindingRef(bnd, "compactor"), bindingRef(bnd, "access")
			removed, _ := c.sweepAmounts(pre, compactor, access)
			return []cty.Value{
				fluent.RealVal(pre.GetReal(fluent.Ground(domain.SiloAccessAvailableCapacity, access)) + removed),
			}, nil
		},
	})
	b.WithEffects(handler, c.set.Effects.SweepSiloAccess)

	def, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return []*planproblem.Def{def}, nil
}
