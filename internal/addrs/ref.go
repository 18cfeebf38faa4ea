// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package addrs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Ref is a reference to a single object of a given Kind: a field, a
// field-access point, a silo, a silo-access point, a harvester, a
// transport vehicle, a compactor, a machine's initial location, or the
// generic out-of-field "street" location.
//
// Ref is comparable and usable as a map key directly, but callers that
// need it behind the UniqueKeyer interface (for [Set] and [Map]) should
// use UniqueKey.
//
// The zero Ref is not valid; use [NoValue] to obtain the sentinel object
// of a given Kind, or one of the constructors below for a concrete
// object.
type Ref struct {
	kind     Kind
	id       int
	sentinel bool
	access   int // second index, used only by SiloAccess (owning silo id, access index)
}

// NoValue returns the sentinel "no value" object reference for the given
// kind, e.g. the object named "no_harvester" for [Harvester]. Sentinels
// are first-class objects of their kind, per spec.md §4.3.1, so that
// fluent defaults referencing them can be typed like any other object.
func NoValue(k Kind) Ref {
	return Ref{kind: k, sentinel: true}
}

// New returns a reference to the id'th object of the given kind. id must
// be a non-negative, stable numeric id already assigned to the entity by
// the domain model.
func New(k Kind, id int) Ref {
	if k == SiloAccess {
		panic("addrs.New: silo access refs must use addrs.NewSiloAccess")
	}
	return Ref{kind: k, id: id}
}

// NewSiloAccess returns a reference to the accessIdx'th access point of
// silo siloID.
func NewSiloAccess(siloID, accessIdx int) Ref {
	return Ref{kind: SiloAccess, id: siloID, access: accessIdx}
}

// StreetRef is the single well-known reference for the generic, non-field
// out-of-field road network location used by machines that aren't
// currently at any named field/silo access.
var StreetRef = Ref{kind: Street}

// Kind returns the object's kind.
func (r Ref) Kind() Kind { return r.kind }

// IsSentinel reports whether r is the "no value" placeholder object of
// its kind.
func (r Ref) IsSentinel() bool { return r.sentinel }

// ID returns the numeric id this reference was constructed from. For
// SiloAccess it is the owning silo's id; use AccessIndex for the access
// point index. Calling ID on a sentinel returns 0 and should not be
// relied upon to mean anything.
func (r Ref) ID() int { return r.id }

// AccessIndex returns the access-point index for a SiloAccess reference.
func (r Ref) AccessIndex() int { return r.access }

func (r Ref) refSigil() {}

// String renders the stable, bijective name for this reference.
func (r Ref) String() string {
	if r.sentinel {
		return "no_" + r.kind.prefix()
	}
	if r.kind == Street {
		return "street"
	}
	if r.kind == SiloAccess {
		return fmt.Sprintf("%s_%d_%d", r.kind.prefix(), r.id, r.access)
	}
	return fmt.Sprintf("%s_%d", r.kind.prefix(), r.id)
}

// Value returns the cty.Value used to represent this reference wherever
// an object-of-kind-T fluent value is needed. The location name is the
// value's surface: two references are equal iff their names are equal,
// which is exactly the bijection spec.md §3 requires.
func (r Ref) Value() cty.Value {
	return cty.StringVal(r.String())
}

// UniqueKey implements UniqueKeyer so Ref can be stored in [Set] and
// [Map].
func (r Ref) UniqueKey() UniqueKey {
	return refUniqueKey(r.String())
}

type refUniqueKey string

func (refUniqueKey) uniqueKeySigil() {}

// Parse recovers a Ref from a name previously produced by String. It is
// the left inverse of String: Parse(r.String()) == r for every valid r.
func Parse(name string) (Ref, error) {
	if name == "street" {
		return StreetRef, nil
	}
	if rest, ok := strings.CutPrefix(name, "no_"); ok {
		k, err := kindFromPrefix(rest)
		if err != nil {
			return Ref{}, err
		}
		return NoValue(k), nil
	}
	// Longest known prefix wins so that "field_access_3" isn't mistaken
	// for kind "field" with an invalid numeric suffix "access_3".
	for _, k := range []Kind{FieldAccess, SiloAccess, Field, Silo, Harvester, TransportVehicle, Compactor, MachineInit} {
		p := k.prefix() + "_"
		if !strings.HasPrefix(name, p) {
			continue
		}
		rest := name[len(p):]
		if k == SiloAccess {
			parts := strings.SplitN(rest, "_", 2)
			if len(parts) != 2 {
				continue
			}
			siloID, err1 := strconv.Atoi(parts[0])
			accessIdx, err2 := strconv.Atoi(parts[1])
			if err1 != nil || err2 != nil {
				continue
			}
			return NewSiloAccess(siloID, accessIdx), nil
		}
		id, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		return New(k, id), nil
	}
	return Ref{}, fmt.Errorf("addrs: %q is not a valid location name", name)
}

func kindFromPrefix(prefix string) (Kind, error) {
	for _, k := range []Kind{Field, FieldAccess, Silo, SiloAccess, Harvester, TransportVehicle, Compactor, MachineInit, Street} {
		if k.prefix() == prefix {
			return k, nil
		}
	}
	return 0, fmt.Errorf("addrs: %q is not a known object kind", prefix)
}
