// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package fluent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
)

func TestStateSetAndGet(t *testing.T) {
	reg := testRegistry()
	st := NewState(reg)

	key := Ground("mass")
	require.NoError(t, st.Set(key, RealVal(42)))
	assert.Equal(t, 42.0, st.GetReal(key))
}

func TestStateSetRejectsMismatchedKind(t *testing.T) {
	reg := testRegistry()
	st := NewState(reg)
	err := st.Set(Ground("mass"), BoolVal(true))
	assert.Error(t, err)
}

func TestStateSetRejectsUnregisteredFluent(t *testing.T) {
	reg := testRegistry()
	st := NewState(reg)
	err := st.Set(Ground("unknown_fluent"), RealVal(1))
	assert.Error(t, err)
}

func TestStateSetDefault(t *testing.T) {
	reg := testRegistry()
	st := NewState(reg)
	key := Ground("ready")
	require.NoError(t, st.SetDefault(key))
	assert.False(t, st.GetBool(key))
}

func TestStateGetPanicsOnUnsetKey(t *testing.T) {
	reg := testRegistry()
	st := NewState(reg)
	assert.Panics(t, func() { st.GetReal(Ground("mass")) })
}

func TestStateCloneIsIndependent(t *testing.T) {
	reg := testRegistry()
	st := NewState(reg)
	key := Ground("mass")
	require.NoError(t, st.Set(key, RealVal(1)))

	clone := st.Clone()
	require.NoError(t, clone.Set(key, RealVal(2)))

	assert.Equal(t, 1.0, st.GetReal(key))
	assert.Equal(t, 2.0, clone.GetReal(key))
}

func TestStateObjectRoundTrip(t *testing.T) {
	reg := testRegistry()
	st := NewState(reg)
	field := addrs.New(addrs.Field, 1)
	harv := addrs.New(addrs.Harvester, 2)
	key := Ground("owner", field)
	require.NoError(t, st.Set(key, ObjectVal(harv)))
	assert.Equal(t, harv, st.GetObject(key))
}

func TestStateRawReportsPresence(t *testing.T) {
	reg := testRegistry()
	st := NewState(reg)
	_, ok := st.Raw(Ground("mass"))
	assert.False(t, ok)

	require.NoError(t, st.Set(Ground("mass"), RealVal(3)))
	v, ok := st.Raw(Ground("mass"))
	require.True(t, ok)
	assert.Equal(t, 3.0, AsReal(v))
}
