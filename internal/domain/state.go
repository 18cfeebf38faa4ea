// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package domain

import "github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"

// MachineState is one machine's initial condition, as given by the
// scenario (spec.md §3). LocationRef names where the machine starts: a
// field, a field-access point, a silo-access point, the machine's own
// init-location, or [addrs.StreetRef].
type MachineState struct {
	MachineRef addrs.Ref
	Pos        Point2D
	BunkerMass float64
	BunkerVol  float64
	LocationRef addrs.Ref

	// OverloadingWithRef names the harvester or TV this machine is
	// already paired with for an overload in progress at plan start, or
	// the "no value" sentinel of the opposite machine kind.
	OverloadingWithRef addrs.Ref
}

// FieldState is one field's initial condition.
type FieldState struct {
	FieldRef               addrs.Ref
	AvgYieldMassPerAreaKg  float64
	HarvestedPercent       float64 // 0..100
}
