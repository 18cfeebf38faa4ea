// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package planproblem

// ActionClass is the tagged-enum replacement for the teacher's
// `plans.Action` rune-enum (action_kind.go started life as a direct copy
// of internal/plans/action.go): instead of create/update/delete, our
// closed set is the action-name-prefix classification spec.md §4.7 says
// the plan decoder switches on, so that the action library, the encoder
// and the decoder all share one vocabulary for "what kind of thing is
// this action".
type ActionClass rune

const (
	ClassDriveHarvToField     ActionClass = 'H' // drive_harv_to_field_and_init
	ClassDriveTVToField       ActionClass = 'D' // drive_tv_to_field_and_reserve_overload
	ClassOverload             ActionClass = 'O' // do_overload / overload
	ClassDriveHarvFieldExit   ActionClass = 'h' // drive_harv_to_field_exit
	ClassDriveTVFieldExit     ActionClass = 'd' // drive_tv_to_field_exit
	ClassDriveToSilo          ActionClass = 'S' // drive_to_silo(+unload)
	ClassUnloadAtSilo         ActionClass = 'U' // unload_at_silo
	ClassSweepSiloAccess      ActionClass = 'W' // sweep_silo_access
)

// IsDriveToSiloFamily reports whether the class is one of drive_to_silo
// or unload_at_silo, which the decoder's silo-state bookkeeping treats
// together (spec.md §4.7).
func (c ActionClass) IsDriveToSiloFamily() bool {
	return c == ClassDriveToSilo || c == ClassUnloadAtSilo
}

// ClassOf classifies an action by its name prefix, matching spec.md
// §4.7's "classifying each action by its name prefix".
func ClassOf(actionName string) (ActionClass, bool) {
	switch {
	case hasPrefix(actionName, "drive_harv_to_field_exit"):
		return ClassDriveHarvFieldExit, true
	case hasPrefix(actionName, "drive_harv_to_field"):
		return ClassDriveHarvToField, true
	case hasPrefix(actionName, "drive_tv_to_field_exit"):
		return ClassDriveTVFieldExit, true
	case hasPrefix(actionName, "drive_tv_to_field"):
		return ClassDriveTVToField, true
	case hasPrefix(actionName, "do_overload"), hasPrefix(actionName, "overload"):
		return ClassOverload, true
	case hasPrefix(actionName, "drive_to_silo"):
		return ClassDriveToSilo, true
	case hasPrefix(actionName, "unload_at_silo"):
		return ClassUnloadAtSilo, true
	case hasPrefix(actionName, "sweep_silo_access"):
		return ClassSweepSiloAccess, true
	default:
		return 0, false
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
