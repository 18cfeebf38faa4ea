// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package addrs implements the stable, bijective location-namespace that
// the rest of the core uses to name fields, machines, silos and their
// sub-locations. Names are derived from numeric entity ids by a pure
// function; the core never embeds geometry into a name.
package addrs

// Kind identifies which catalog an object reference belongs to.
type Kind rune

//go:generate go run golang.org/x/tools/cmd/stringer -type Kind

const (
	Field            Kind = 'F'
	FieldAccess      Kind = 'A'
	Silo             Kind = 'S'
	SiloAccess       Kind = 'U'
	Harvester        Kind = 'H'
	TransportVehicle Kind = 'T'
	Compactor        Kind = 'C'
	MachineInit      Kind = 'I'
	Street           Kind = 'R'
)

// prefix returns the stable string prefix used when rendering a Ref of
// this Kind, and the sentinel word used for the "no value" object of the
// kind (e.g. "no_harvester").
func (k Kind) prefix() string {
	switch k {
	case Field:
		return "field"
	case FieldAccess:
		return "field_access"
	case Silo:
		return "silo"
	case SiloAccess:
		return "silo_access"
	case Harvester:
		return "harvester"
	case TransportVehicle:
		return "tv"
	case Compactor:
		return "compactor"
	case MachineInit:
		return "machine_init"
	case Street:
		return "street"
	default:
		return "unknown"
	}
}

