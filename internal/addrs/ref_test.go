// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package addrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefStringParseRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		ref  Ref
	}{
		{"field", New(Field, 3)},
		{"field access", New(FieldAccess, 7)},
		{"silo", New(Silo, 1)},
		{"silo access", NewSiloAccess(1, 2)},
		{"harvester", New(Harvester, 0)},
		{"transport vehicle", New(TransportVehicle, 12)},
		{"compactor", New(Compactor, 4)},
		{"machine init", New(MachineInit, 9)},
		{"street", StreetRef},
		{"no field", NoValue(Field)},
		{"no harvester", NoValue(Harvester)},
		{"no silo access", NoValue(SiloAccess)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			name := tc.ref.String()
			got, err := Parse(name)
			require.NoError(t, err)
			assert.Equal(t, tc.ref, got)
			assert.Equal(t, name, got.String())
		})
	}
}

func TestRefStringDistinguishesFieldFromFieldAccess(t *testing.T) {
	field := New(Field, 3)
	access := New(FieldAccess, 3)
	assert.NotEqual(t, field.String(), access.String())

	parsedField, err := Parse(field.String())
	require.NoError(t, err)
	assert.Equal(t, Field, parsedField.Kind())

	parsedAccess, err := Parse(access.String())
	require.NoError(t, err)
	assert.Equal(t, FieldAccess, parsedAccess.Kind())
}

func TestParseRejectsUnknownNames(t *testing.T) {
	_, err := Parse("not_a_real_kind_5")
	assert.Error(t, err)
}

func TestNoValueIsSentinel(t *testing.T) {
	nv := NoValue(Harvester)
	assert.True(t, nv.IsSentinel())
	assert.False(t, New(Harvester, 1).IsSentinel())
}

func TestNewPanicsForSiloAccess(t *testing.T) {
	assert.Panics(t, func() { New(SiloAccess, 1) })
}
