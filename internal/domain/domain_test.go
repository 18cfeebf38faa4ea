// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
)

func oneFieldOneHarvester(t *testing.T) *Builder {
	t.Helper()
	field := addrs.New(addrs.Field, 1)
	access := addrs.New(addrs.FieldAccess, 1)
	harv := addrs.New(addrs.Harvester, 1)

	b := NewBuilder(DefaultDefaults())
	b.AddField(Field{
		Ref:                field,
		AreaM2:             1000,
		InitialYieldMassKg: 5000,
		AccessPoints:       []FieldAccessPoint{{Ref: access, FieldRef: field}},
	}, FieldState{FieldRef: field})
	b.AddMachine(Machine{Ref: harv, Kind: MachineHarvester}, MachineState{MachineRef: harv, LocationRef: addrs.StreetRef})
	return b
}

func TestBuilderFinishSucceedsForConsistentDomain(t *testing.T) {
	b := oneFieldOneHarvester(t)
	dom, err := b.Finish()
	require.NoError(t, err)
	assert.Len(t, dom.Fields(), 1)
	assert.Len(t, dom.Harvesters(), 1)
}

func TestBuilderRejectsDuplicateTVPreBinding(t *testing.T) {
	harv1 := addrs.New(addrs.Harvester, 1)
	harv2 := addrs.New(addrs.Harvester, 2)
	tv := addrs.New(addrs.TransportVehicle, 1)

	b := oneFieldOneHarvester(t)
	b.AddTVPreAssignment(TVPreAssignment{TVRef: tv, HarvesterRef: harv1, Order: -1})
	b.AddTVPreAssignment(TVPreAssignment{TVRef: tv, HarvesterRef: harv2, Order: -1})

	_, err := b.Finish()
	assert.Error(t, err)
}

func TestBuilderRejectsDuplicateFieldTurnPerHarvester(t *testing.T) {
	harv := addrs.New(addrs.Harvester, 1)
	field1 := addrs.New(addrs.Field, 1)
	field2 := addrs.New(addrs.Field, 2)

	b := oneFieldOneHarvester(t)
	b.AddField(Field{Ref: field2, AreaM2: 500, InitialYieldMassKg: 1000}, FieldState{FieldRef: field2})
	b.AddFieldPreAssignment(FieldPreAssignment{FieldRef: field1, HarvesterRef: harv, Turn: 1})
	b.AddFieldPreAssignment(FieldPreAssignment{FieldRef: field2, HarvesterRef: harv, Turn: 1})

	_, err := b.Finish()
	assert.Error(t, err)
}

func TestBuilderAllowsSameTVRepeatedForSameHarvester(t *testing.T) {
	harv := addrs.New(addrs.Harvester, 1)
	tv := addrs.New(addrs.TransportVehicle, 1)

	b := oneFieldOneHarvester(t)
	b.AddTVPreAssignment(TVPreAssignment{TVRef: tv, HarvesterRef: harv, Order: -1})
	b.AddTVPreAssignment(TVPreAssignment{TVRef: tv, HarvesterRef: harv, Order: -1})

	dom, err := b.Finish()
	require.NoError(t, err)
	pa, ok := dom.TVPreAssignment(tv)
	require.True(t, ok)
	assert.Equal(t, harv, pa.HarvesterRef)
}

func TestSanitizeClampsNonPositiveValues(t *testing.T) {
	v, clamped := Sanitize(0, 0.5)
	assert.Equal(t, 0.5, v)
	assert.True(t, clamped)

	v, clamped = Sanitize(-3, 0.5)
	assert.Equal(t, 0.5, v)
	assert.True(t, clamped)

	v, clamped = Sanitize(10, 0.5)
	assert.Equal(t, 10.0, v)
	assert.False(t, clamped)
}

func TestDomainLookupsReturnFalseForUnknownRef(t *testing.T) {
	b := oneFieldOneHarvester(t)
	dom, err := b.Finish()
	require.NoError(t, err)

	_, ok := dom.Field(addrs.New(addrs.Field, 99))
	assert.False(t, ok)
}
