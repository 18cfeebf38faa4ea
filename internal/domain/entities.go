// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package domain

import "github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"

// MachineKind closes the set of machine roles a Machine can play
// (spec.md §3).
type MachineKind int

const (
	MachineHarvester MachineKind = iota
	MachineTransportVehicle
	MachineCompactor
)

// Field is a harvestable area with one or more access points.
//
// Boundary geometry (polygon, subfield, reference lines) is consumed by
// the out-of-field/in-field route planners, which are out of scope for
// this core; Field therefore only carries what the planning problem
// itself reasons about: derived area and initial yield mass, plus the
// access points used to compute transit distances.
type Field struct {
	Ref addrs.Ref

	AreaM2             float64
	InitialYieldMassKg float64 // derived: area * initial average yield mass per area

	AccessPoints []FieldAccessPoint
}

// FieldAccessPoint is a named entry/exit point of a Field.
type FieldAccessPoint struct {
	Ref      addrs.Ref
	FieldRef addrs.Ref
	Pos      Point2D
}

// SiloAccessPoint is a named unloading point of a Silo, with its own
// mass capacity (spec.md §3).
type SiloAccessPoint struct {
	Ref           addrs.Ref
	SiloRef       addrs.Ref
	Pos           Point2D
	CapacityKg    float64
	SweepDuration float64 // seconds; only meaningful with compaction enabled
}

// Silo is an unloading destination with a total mass capacity shared
// across its access points.
type Silo struct {
	Ref           addrs.Ref
	TotalCapacity float64
	Accesses      []SiloAccessPoint
}

// Machine is a harvester, transport vehicle or compactor, with the
// geometry and performance attributes spec.md §3 lists. Bunker and speed
// fields that don't apply to a given Kind are left zero.
type Machine struct {
	Ref  addrs.Ref
	Kind MachineKind

	WidthM, LengthM float64

	BunkerMassCapacityKg   float64 // harvester, TV
	BunkerVolumeCapacityM3 float64 // harvester, TV
	MaxSpeedEmptyMps       float64 // harvester, TV
	MaxSpeedFullMps        float64 // harvester, TV
	WorkingSpeedMps        float64 // harvester
	UnloadSpeedMassKgPerS  float64 // harvester (overload), TV (at silo)
	UnloadSpeedVolM3PerS   float64

	MassPerSweepKg float64    // compactor only
	OwningSiloRef  addrs.Ref  // compactor only
	InitialPos     Point2D
}

// FieldPreAssignment hard-binds a field to a harvester, optionally with a
// 1-based turn number (0 meaning "any turn"), per spec.md §3.
type FieldPreAssignment struct {
	FieldRef     addrs.Ref
	HarvesterRef addrs.Ref
	Turn         int // 0 = any turn
}

// TVPreAssignment binds a transport vehicle to a harvester, optionally
// within a fixed cyclic or non-cyclic serving order shared by the other
// TVs assigned to the same harvester (spec.md §3, §4.4).
type TVPreAssignment struct {
	TVRef        addrs.Ref
	HarvesterRef addrs.Ref
	Order        int  // position within the harvester's TV rotation; -1 if unordered
	Cyclic       bool // whether Order wraps back to the first TV once exhausted
}
