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

// tvCanLoadCapacityRatio is the bunker filling ratio above which a TV
// stops being able to load, per spec.md §3: "a TV is can_load while
// filling ratio ≤ 0.8".
const tvCanLoadCapacityRatio = 0.8

// overloadMass computes how much mass moves from field to TV bunker
// during one overload: bounded by what's left in the field and by the
// TV's remaining headroom up to the can_load capacity ratio, not the
// bunker's physical capacity.
func overloadMass(pre fluent.View, field, tv addrs.Ref, tvCapacityKg float64) float64 {
	remaining := pre.GetReal(fluent.Ground(domain.FieldTotalYieldMass, field)) - pre.GetReal(fluent.Ground(domain.FieldReservedMass, field))
	headroom := tvCanLoadCapacityRatio*tvCapacityKg - pre.GetReal(fluent.Ground(domain.TVBunkerMass, tv))
	return math.Max(0, math.Min(remaining, headroom))
}

// buildOverload builds do_overload (sequential) / overload (temporal): a
// harvester transfers mass into the bunker of a TV positioned at its
// current field access point. Per settings.ActionDecomposition, this
// either emits one general action (field-finished handled by a
// conditional effect) or two action-decomposition variants, one for each
// branch (spec.md §4.4, §6).
func (c *Catalog) buildOverload(temporal bool) ([]*planproblem.Def, error) {
	name := "do_overload"
	if temporal {
		name = "overload"
	}
	if !c.set.ActionDecomposition.OverloadFieldFinishedSplit {
		def, err := c.overloadDef(name, temporal, overloadVariantEither)
		if err != nil {
			return nil, err
		}
		return []*planproblem.Def{def}, nil
	}
	notFinished, err := c.overloadDef(name+"_field_not_finished", temporal, overloadVariantNotFinished)
	if err != nil {
		return nil, err
	}
	finished, err := c.overloadDef(name+"_field_finished", temporal, overloadVariantFinished)
	if err != nil {
		return nil, err
	}
	return []*planproblem.Def{notFinished, finished}, nil
}

type overloadVariant int

const (
	overloadVariantEither overloadVariant = iota
	overloadVariantNotFinished
	overloadVariantFinished
)

func (c *Catalog) overloadDef(name string, temporal bool, variant overloadVariant) (*planproblem.Def, error) {
	b := planproblem.NewActionBuilder(name, planproblem.ClassOverload, temporal).
		Param("harv", addrs.Harvester).
		Param("tv", addrs.TransportVehicle).
		Param("field", addrs.Field)

	b.Precondition("harv_at_field", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		harv, field := bindingRef(bnd, "harv"), bindingRef(bnd, "field")
		return pre.GetObject(fluent.Ground(domain.HarvCurrentField, harv)) == field
	})
	b.Precondition("tv_positioned", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		harv, tv := bindingRef(bnd, "harv"), bindingRef(bnd, "tv")
		return pre.GetObject(fluent.Ground(domain.TVLocation, tv)) == pre.GetObject(fluent.Ground(domain.HarvCurrentFieldAccess, harv))
	})
	b.Precondition("tv_can_load", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
		return pre.GetBool(fluent.Ground(domain.TVCanLoad, bindingRef(bnd, "tv")))
	})
	if variant == overloadVariantNotFinished || variant == overloadVariantFinished {
		b.Precondition("field_finished_matches_variant", func(pre fluent.View, bnd map[string]addrs.Ref) bool {
			field, tv := bindingRef(bnd, "field"), bindingRef(bnd, "tv")
			m, _ := c.dom.Machine(tv)
			capKg, _ := domain.Sanitize(m.BunkerMassCapacityKg, c.dom.Defaults().MinBunkerCapacityKg)
			mass := overloadMass(pre, field, tv, capKg)
			remaining := pre.GetReal(fluent.Ground(domain.FieldTotalYieldMass, field)) - pre.GetReal(fluent.Ground(domain.FieldReservedMass, field))
			finishes := mass >= remaining-c.dom.Defaults().MinDistanceEpsilon
			if variant == overloadVariantFinished {
				return finishes
			}
			return !finishes
		})
	}

	b.Duration(func(pre fluent.View, bnd map[string]addrs.Ref) (float64, error) {
		harv, tv, field := bindingRef(bnd, "harv"), bindingRef(bnd, "tv"), bindingRef(bnd, "field")
		m, _ := c.dom.Machine(tv)
		capKg, _ := domain.Sanitize(m.BunkerMassCapacityKg, c.dom.Defaults().MinBunkerCapacityKg)
		mass := overloadMass(pre, field, tv, capKg)
		return mass / c.unloadSpeed(harv), nil
	})

	handler := planproblem.NewEffectsHandler()
	handler.Simulate(planproblem.SimulatedEffect{
		Affected: []planproblem.KeyFn{
			planproblem.KeyOf(domain.FieldTotalYieldMass, "field"),
			planproblem.KeyOf(domain.TVBunkerMass, "tv"),
			planproblem.KeyOf(domain.FieldHarvestedPercent, "field"),
			planproblem.KeyOf(domain.FieldHarvested, "field"),
			planproblem.KeyOf(domain.TVCanLoad, "tv"),
			planproblem.KeyOf(domain.HarvTimestamp, "harv"),
			planproblem.KeyOf(domain.TVTimestamp, "tv"),
			planproblem.KeyOf(domain.GlobalTotalHarvestedMass),
		},
		Compute: func(pre fluent.View, bnd map[string]addrs.Ref) ([]cty.Value, error) {
			harv, tv, field := bindingRef(bnd, "harv"), bindingRef(bnd, "tv"), bindingRef(bnd, "field")
			m, _ := c.dom.Machine(tv)
			capKg, _ := domain.Sanitize(m.BunkerMassCapacityKg, c.dom.Defaults().MinBunkerCapacityKg)
			mass := overloadMass(pre, field, tv, capKg)
			dur := mass / c.unloadSpeed(harv)

			totalYield := pre.GetReal(fluent.Ground(domain.FieldTotalYieldMass, field))
			newFieldMass := math.Max(0, totalYield-mass)
			newTVMass := pre.GetReal(fluent.Ground(domain.TVBunkerMass, tv)) + mass

			origTotal, _ := c.dom.Field(field)
			pct := 100.0
			if origTotal.InitialYieldMassKg > 0 {
				pct = math.Min(100, 100*(1-newFieldMass/origTotal.InitialYieldMassKg))
			}
			finished := newFieldMass <= c.dom.Defaults().MinDistanceEpsilon

			return []cty.Value{
				fluent.RealVal(newFieldMass),
				fluent.RealVal(newTVMass),
				fluent.RealVal(pct),
				fluent.BoolVal(finished),
				// Finishing the field also ends this TV's loading there, so a
				// partly filled TV can go on to a silo.
				fluent.BoolVal(!finished && newTVMass <= tvCanLoadCapacityRatio*capKg+c.dom.Defaults().MinDistanceEpsilon),
				fluent.RealVal(pre.GetReal(fluent.Ground(domain.HarvTimestamp, harv)) + dur),
				fluent.RealVal(pre.GetReal(fluent.Ground(domain.TVTimestamp, tv)) + dur),
				fluent.RealVal(pre.GetReal(fluent.Ground(domain.GlobalTotalHarvestedMass)) + mass),
			}, nil
		},
	})
	b.WithEffects(handler, c.set.Effects.Overload)

	return b.Finish()
}
