// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package settings implements the closed settings surface of spec.md §6
// as an exhaustive-field struct plus a single loader function, per
// Design Notes §9 ("a settings struct with exhaustive enum fields; a
// single loader function maps a key-value dictionary to fields. No
// reflection").
package settings

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/planproblem"
)

// NumericFluentBoundsOption selects how the encoder computes fluent
// bounds (spec.md §6).
type NumericFluentBoundsOption int

const (
	BoundsNone NumericFluentBoundsOption = iota
	BoundsDefault
	BoundsProblemSpecific
)

// ActionDecompositionSettings selects, per action class that offers a
// decomposition, whether to emit one general action or several more
// specific ones (spec.md §6).
type ActionDecompositionSettings struct {
	OverloadFieldFinishedSplit bool // e.g. field-finished vs not-finished do_overload variants
}

// ControlWindowsSettings carries the seconds value of every named
// control window (spec.md §6, §4.2); ≤0 disables the window.
type ControlWindowsSettings struct {
	HarvEnabledToDriveS float64
	TVEnabledToDriveS   float64
	TVReadyToUnloadS    float64
}

// CostWindowsSettings mirrors ControlWindowsSettings for heuristic
// activation windows.
type CostWindowsSettings struct {
	WaitingToOverloadS float64
	WaitingToUnloadS   float64
}

// SequentialOptimizationSettings carries the weighted-sum coefficients
// for the sequential metric (spec.md §4.3.6, §6).
type SequentialOptimizationSettings struct {
	KHarvWaitingTime float64
	KTVWaitingTime   float64
}

// PreAssignSettings controls the generative field/TV pre-assignment
// algorithm internal/preassign runs before encoding (spec.md §4.4): given
// target counts, it fills in pre-assignments beyond whatever the Domain
// already carries as a hard-bound base. Any count ≤ 0 disables the
// corresponding half of the algorithm, leaving only the domain-supplied
// base pre-assignments in place.
type PreAssignSettings struct {
	FieldsCount     int // max fields to pre-assign
	FieldTurnsCount int // max field turns to pre-assign across all harvesters

	TVAssignCount   int  // max TV-to-harvester pre-assignments to generate
	TVsPerHarvester int  // max TVs to pre-assign per harvester
	TVTurnsCount    int  // max TV rotation turns to pre-assign
	CyclicTurns     bool // whether TV rotation turns wrap back to the first TV
}

// EffectsSettings selects the EffectsMode used per action class.
type EffectsSettings struct {
	DriveHarvToField   planproblem.EffectsMode
	DriveTVToField     planproblem.EffectsMode
	Overload           planproblem.EffectsMode
	DriveToSilo        planproblem.EffectsMode
	UnloadAtSilo       planproblem.EffectsMode
	SweepSiloAccess    planproblem.EffectsMode
	DriveToFieldExit   planproblem.EffectsMode
}

// Settings is the exhaustive, closed settings surface of spec.md §6. The
// core never reads configuration through any channel other than this
// struct.
type Settings struct {
	PlanningType                          planproblem.PlanningType
	SiloPlanningType                      planproblem.SiloPlanningType
	WithHarvConditionsAtTVArrival         bool
	WithDriveToFieldExit                  bool
	NumericFluentBounds                   NumericFluentBoundsOption
	InfieldTransitDurationToFieldAccessS  float64
	Effects                               EffectsSettings
	PreAssign                             PreAssignSettings
	ActionDecomposition                   ActionDecompositionSettings
	ControlWindows                        ControlWindowsSettings
	CostWindows                           CostWindowsSettings
	TemporalOptimization                  planproblem.TemporalOptimizationSetting
	SequentialOptimization                SequentialOptimizationSettings

	// Pedantic promotes every build-time warning (e.g. a pre-assignment
	// degeneracy internal/preassign can otherwise work around) to an
	// error, the injected replacement for spec.md §7's PedanticMode.
	Pedantic bool
}

// Default returns the settings a minimal, permissive scenario should
// use: sequential planning, no silo-access availability tracking, no
// field-exit actions (and the overload action does not free the harvester
// from its field in their place), default effects mode everywhere.
func Default() Settings {
	return Settings{
		PlanningType:                          planproblem.Sequential,
		SiloPlanningType:                      planproblem.WithoutSiloAccessAvailability,
		WithHarvConditionsAtTVArrival:         false,
		WithDriveToFieldExit:                  false,
		NumericFluentBounds:                   BoundsNone,
		InfieldTransitDurationToFieldAccessS:  20,
		Effects: EffectsSettings{
			DriveHarvToField: planproblem.EffectsNormalAndSimulated,
			DriveTVToField:   planproblem.EffectsNormalAndSimulated,
			Overload:         planproblem.EffectsNormalAndSimulated,
			DriveToSilo:      planproblem.EffectsNormalAndSimulated,
			UnloadAtSilo:     planproblem.EffectsNormalAndSimulated,
			SweepSiloAccess:  planproblem.EffectsNormalAndConditional,
			DriveToFieldExit: planproblem.EffectsSimulatedOnly,
		},
	}
}

// FromValues maps a key-value dictionary onto Settings, matching Design
// Notes §9's "single loader function... no reflection". Unknown keys are
// rejected; every recognized key is type-checked against the cty.Type it
// is documented to carry.
func FromValues(base Settings, values map[string]cty.Value) (Settings, error) {
	out := base
	for key, val := range values {
		var err error
		switch key {
		case "planning_type":
			err = setEnumString(val, func(s string) error {
				switch s {
				case "SEQUENTIAL":
					out.PlanningType = planproblem.Sequential
				case "TEMPORAL":
					out.PlanningType = planproblem.Temporal
				default:
					return fmt.Errorf("unrecognized planning_type %q", s)
				}
				return nil
			})
		case "silo_planning_type":
			err = setEnumString(val, func(s string) error {
				switch s {
				case "WITHOUT_SILO_ACCESS_AVAILABILITY":
					out.SiloPlanningType = planproblem.WithoutSiloAccessAvailability
				case "WITH_SILO_ACCESS_AVAILABILITY":
					out.SiloPlanningType = planproblem.WithSiloAccessAvailability
				case "WITH_SILO_ACCESS_CAPACITY_AND_COMPACTION":
					out.SiloPlanningType = planproblem.WithSiloAccessCapacityAndCompaction
				default:
					return fmt.Errorf("unrecognized silo_planning_type %q", s)
				}
				return nil
			})
		case "with_harv_conditions_and_effects_at_tv_arrival":
			err = setBool(val, &out.WithHarvConditionsAtTVArrival)
		case "with_drive_to_field_exit":
			err = setBool(val, &out.WithDriveToFieldExit)
		case "pedantic_mode":
			err = setBool(val, &out.Pedantic)
		case "infield_transit_duration_to_field_access":
			err = setFloat(val, &out.InfieldTransitDurationToFieldAccessS)
		case "numeric_fluent_bounds_option":
			err = setEnumString(val, func(s string) error {
				switch s {
				case "NONE":
					out.NumericFluentBounds = BoundsNone
				case "DEFAULT":
					out.NumericFluentBounds = BoundsDefault
				case "PROBLEM_SPECIFIC":
					out.NumericFluentBounds = BoundsProblemSpecific
				default:
					return fmt.Errorf("unrecognized numeric_fluent_bounds_option %q", s)
				}
				return nil
			})
		case "temporal_optimization_setting":
			err = setEnumString(val, func(s string) error {
				switch s {
				case "NONE":
					out.TemporalOptimization = planproblem.TemporalNoMetric
				case "MAKESPAN":
					out.TemporalOptimization = planproblem.TemporalMakespan
				default:
					return fmt.Errorf("unrecognized temporal_optimization_setting %q", s)
				}
				return nil
			})
		case "sequential_optimization_settings.k_harv_waiting_time":
			err = setFloat(val, &out.SequentialOptimization.KHarvWaitingTime)
		case "sequential_optimization_settings.k_tv_waiting_time":
			err = setFloat(val, &out.SequentialOptimization.KTVWaitingTime)
		case "control_windows.harv_enabled_to_drive":
			err = setFloat(val, &out.ControlWindows.HarvEnabledToDriveS)
		case "control_windows.tv_enabled_to_drive":
			err = setFloat(val, &out.ControlWindows.TVEnabledToDriveS)
		case "control_windows.tv_ready_to_unload":
			err = setFloat(val, &out.ControlWindows.TVReadyToUnloadS)
		case "cost_windows.waiting_to_overload":
			err = setFloat(val, &out.CostWindows.WaitingToOverloadS)
		case "cost_windows.waiting_to_unload":
			err = setFloat(val, &out.CostWindows.WaitingToUnloadS)
		case "pre_assign.fields_count":
			err = setInt(val, &out.PreAssign.FieldsCount)
		case "pre_assign.field_turns_count":
			err = setInt(val, &out.PreAssign.FieldTurnsCount)
		case "pre_assign.tv_assign_count":
			err = setInt(val, &out.PreAssign.TVAssignCount)
		case "pre_assign.tvs_per_harvester":
			err = setInt(val, &out.PreAssign.TVsPerHarvester)
		case "pre_assign.tv_turns_count":
			err = setInt(val, &out.PreAssign.TVTurnsCount)
		case "pre_assign.cyclic_turns":
			err = setBool(val, &out.PreAssign.CyclicTurns)
		default:
			err = fmt.Errorf("unrecognized settings key %q", key)
		}
		if err != nil {
			return Settings{}, fmt.Errorf("settings: %w", err)
		}
	}
	return out, nil
}

func setBool(v cty.Value, dst *bool) error {
	if v.Type() != cty.Bool {
		return fmt.Errorf("expected bool, got %s", v.Type().FriendlyName())
	}
	*dst = v.True()
	return nil
}

func setFloat(v cty.Value, dst *float64) error {
	if v.Type() != cty.Number {
		return fmt.Errorf("expected number, got %s", v.Type().FriendlyName())
	}
	return gocty.FromCtyValue(v, dst)
}

func setInt(v cty.Value, dst *int) error {
	if v.Type() != cty.Number {
		return fmt.Errorf("expected number, got %s", v.Type().FriendlyName())
	}
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return err
	}
	*dst = int(f)
	return nil
}

func setEnumString(v cty.Value, assign func(string) error) error {
	if v.Type() != cty.String {
		return fmt.Errorf("expected string, got %s", v.Type().FriendlyName())
	}
	return assign(v.AsString())
}
