// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package action implements the action library spec.md §4.4 describes:
// one planproblem.Action per catalogue entry, generated twice (once per
// settings.PlanningType) from the same domain data, following the
// builder-accumulates/Finish-produces-immutable-value shape the teacher
// uses throughout its graph and plan packages.
package action

import (
	"fmt"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planproblem"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/settings"
)

// Catalog builds the action library for one Domain under one Settings
// value. It is the encoder's only entry point into this package.
type Catalog struct {
	dom *domain.Domain
	reg *fluent.Registry
	set settings.Settings
}

func NewCatalog(dom *domain.Domain, reg *fluent.Registry, set settings.Settings) *Catalog {
	return &Catalog{dom: dom, reg: reg, set: set}
}

// Build returns every action schema the current settings call for.
// Non-applicable classes for the current settings (e.g. silo-compaction
// actions under WithoutSiloAccessAvailability) are simply omitted, per
// spec.md §4.4 "the action set itself is closed over planning_type and
// silo_planning_type".
func (c *Catalog) Build() ([]planproblem.Action, error) {
	var out []planproblem.Action
	temporal := c.set.PlanningType == planproblem.Temporal

	add := func(defs []*planproblem.Def, err error) error {
		if err != nil {
			return err
		}
		for _, d := range defs {
			out = append(out, d)
		}
		return nil
	}

	if err := add(c.buildDriveHarvToField(temporal)); err != nil {
		return nil, err
	}
	if err := add(c.buildDriveHarvFieldExit(temporal)); err != nil {
		return nil, err
	}
	if err := add(c.buildDriveTVToFieldReserveOverload(temporal)); err != nil {
		return nil, err
	}
	if err := add(c.buildOverload(temporal)); err != nil {
		return nil, err
	}
	if err := add(c.buildDriveTVFieldExit(temporal)); err != nil {
		return nil, err
	}
	if err := add(c.buildDriveToSilo(temporal)); err != nil {
		return nil, err
	}
	if err := add(c.buildUnloadAtSilo(temporal)); err != nil {
		return nil, err
	}
	if c.set.SiloPlanningType == planproblem.WithSiloAccessCapacityAndCompaction {
		if err := add(c.buildSweepSiloAccess(temporal)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// bindingRef resolves a bound parameter by name, panicking if the action
// schema didn't declare it; a missing binding is a programming error in
// the encoder/planner, never a runtime scenario condition.
func bindingRef(bindings map[string]addrs.Ref, name string) addrs.Ref {
	r, ok := bindings[name]
	if !ok {
		panic(fmt.Sprintf("action: no binding for parameter %q", name))
	}
	return r
}

// machineSpeedEmpty/machineSpeedFull/unloadSpeed read a domain-static
// machine attribute, sanitized against Defaults so a degenerate
// (zero/negative) scenario value can never produce a division by zero
// when a duration is derived from it (spec.md §7 class 4).
func (c *Catalog) machineSpeedEmpty(ref addrs.Ref) float64 {
	m, _ := c.dom.Machine(ref)
	v, _ := domain.Sanitize(m.MaxSpeedEmptyMps, c.dom.Defaults().MinSpeedMps)
	return v
}

func (c *Catalog) machineSpeedFull(ref addrs.Ref) float64 {
	m, _ := c.dom.Machine(ref)
	v, _ := domain.Sanitize(m.MaxSpeedFullMps, c.dom.Defaults().MinSpeedMps)
	return v
}

func (c *Catalog) unloadSpeed(ref addrs.Ref) float64 {
	m, _ := c.dom.Machine(ref)
	v, _ := domain.Sanitize(m.UnloadSpeedMassKgPerS, c.dom.Defaults().MinUnloadSpeedKgPerS)
	return v
}

// distance reads the static distance fluent the encoder baked in between
// two named locations.
func distance(pre fluent.View, from, to addrs.Ref) float64 {
	return pre.GetReal(domain.DistKey(from, to))
}
