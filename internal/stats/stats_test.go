// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
)

func twoFieldDomain(t *testing.T) *domain.Domain {
	t.Helper()
	harv := addrs.New(addrs.Harvester, 1)
	tv := addrs.New(addrs.TransportVehicle, 1)
	field1 := addrs.New(addrs.Field, 1)
	field2 := addrs.New(addrs.Field, 2)
	silo := addrs.New(addrs.Silo, 1)

	b := domain.NewBuilder(domain.DefaultDefaults())
	b.AddField(domain.Field{Ref: field1, AreaM2: 1000, InitialYieldMassKg: 2000}, domain.FieldState{FieldRef: field1})
	b.AddField(domain.Field{Ref: field2, AreaM2: 2000, InitialYieldMassKg: 5000}, domain.FieldState{FieldRef: field2})
	b.AddSilo(domain.Silo{Ref: silo, TotalCapacity: 9000})
	b.AddMachine(domain.Machine{Ref: harv, Kind: domain.MachineHarvester, BunkerMassCapacityKg: 3000}, domain.MachineState{MachineRef: harv, LocationRef: addrs.StreetRef})
	b.AddMachine(domain.Machine{Ref: tv, Kind: domain.MachineTransportVehicle, BunkerMassCapacityKg: 8000}, domain.MachineState{MachineRef: tv, LocationRef: addrs.StreetRef})
	b.AddFieldPreAssignment(domain.FieldPreAssignment{FieldRef: field1, HarvesterRef: harv, Turn: 2})

	dom, err := b.Finish()
	require.NoError(t, err)
	return dom
}

func TestComputeDerivesScenarioStatistics(t *testing.T) {
	dom := twoFieldDomain(t)
	s := Compute(dom)

	assert.Equal(t, 7000.0, s.TotalYieldMassKg)
	assert.Equal(t, 5000.0, s.MaxFieldYieldMassKg)
	assert.Equal(t, 8000.0, s.MaxBunkerCapacityKg)
	assert.Equal(t, 9000.0, s.MaxSiloCapacityKg)
	assert.Equal(t, 2, s.MaxFieldTurn)
	assert.Equal(t, 2, s.FieldCount)
	assert.Equal(t, 1, s.HarvesterCount)
	assert.Equal(t, 1, s.TVCount)
}

func TestComputeFillsPerDimensionBuckets(t *testing.T) {
	dom := twoFieldDomain(t)
	s := Compute(dom)

	assert.Equal(t, 2, s.FieldArea.Count)
	assert.Equal(t, 1000.0, s.FieldArea.Min)
	assert.Equal(t, 2000.0, s.FieldArea.Max)
	assert.InDelta(t, 1500.0, s.FieldArea.Avg(), 1e-9)

	assert.Equal(t, 2000.0, s.FieldMass.Min)
	assert.Equal(t, 5000.0, s.FieldMass.Max)

	// Both machines contribute to MachineCapacity; HarvSpeed/TVSpeed see
	// only their own kind.
	assert.Equal(t, 2, s.MachineCapacity.Count)
	assert.Equal(t, 1, s.HarvSpeed.Count)
	assert.Equal(t, 1, s.TVSpeed.Count)
}

func TestBucketAvgIsZeroWhenEmpty(t *testing.T) {
	var b Bucket
	assert.Equal(t, 0.0, b.Avg())
}

func TestBucketTracksMinMaxSumCount(t *testing.T) {
	var b Bucket
	b.Add(5)
	b.Add(1)
	b.Add(9)

	assert.Equal(t, 3, b.Count)
	assert.Equal(t, 1.0, b.Min)
	assert.Equal(t, 9.0, b.Max)
	assert.InDelta(t, 5.0, b.Avg(), 1e-9)
}

func accessDomain(t *testing.T) (*domain.Domain, addrs.Ref, addrs.Ref, addrs.Ref, addrs.Ref, addrs.Ref) {
	t.Helper()
	field1 := addrs.New(addrs.Field, 1)
	field2 := addrs.New(addrs.Field, 2)
	access1 := addrs.New(addrs.FieldAccess, 1)
	access2 := addrs.New(addrs.FieldAccess, 2)
	access3 := addrs.New(addrs.FieldAccess, 3)
	silo := addrs.New(addrs.Silo, 1)
	siloAccess := addrs.NewSiloAccess(1, 0)
	init := addrs.New(addrs.MachineInit, 1)

	b := domain.NewBuilder(domain.DefaultDefaults())
	b.AddField(domain.Field{
		Ref: field1, AreaM2: 100, InitialYieldMassKg: 100,
		AccessPoints: []domain.FieldAccessPoint{
			{Ref: access1, FieldRef: field1},
			{Ref: access2, FieldRef: field1},
		},
	}, domain.FieldState{FieldRef: field1})
	b.AddField(domain.Field{
		Ref: field2, AreaM2: 100, InitialYieldMassKg: 100,
		AccessPoints: []domain.FieldAccessPoint{{Ref: access3, FieldRef: field2}},
	}, domain.FieldState{FieldRef: field2})
	b.AddSilo(domain.Silo{Ref: silo, TotalCapacity: 1000, Accesses: []domain.SiloAccessPoint{{Ref: siloAccess, SiloRef: silo}}})

	dom, err := b.Finish()
	require.NoError(t, err)
	return dom, access1, access2, access3, siloAccess, init
}

func TestClassifyDistancePairCategorizesEveryTrackedKindCombination(t *testing.T) {
	dom, access1, access2, access3, siloAccess, init := accessDomain(t)

	cat, ok := ClassifyDistancePair(dom, init, access1)
	require.True(t, ok)
	assert.Equal(t, DistanceInitToField, cat)

	cat, ok = ClassifyDistancePair(dom, siloAccess, init)
	require.True(t, ok)
	assert.Equal(t, DistanceInitToSilo, cat)

	cat, ok = ClassifyDistancePair(dom, access1, siloAccess)
	require.True(t, ok)
	assert.Equal(t, DistanceFieldToSilo, cat)

	cat, ok = ClassifyDistancePair(dom, access1, access2)
	require.True(t, ok)
	assert.Equal(t, DistanceFieldSameField, cat)

	cat, ok = ClassifyDistancePair(dom, access1, access3)
	require.True(t, ok)
	assert.Equal(t, DistanceFieldDifferentField, cat)

	_, ok = ClassifyDistancePair(dom, init, init)
	assert.False(t, ok)
}

func TestStatsAddDistanceFoldsIntoTheRightBucket(t *testing.T) {
	dom, access1, _, access3, siloAccess, init := accessDomain(t)

	var s Stats
	s.AddDistance(dom, init, access1, 10)
	s.AddDistance(dom, access1, siloAccess, 20)
	s.AddDistance(dom, access1, access3, 30)
	s.AddDistance(dom, init, init, 999) // untracked pair, ignored

	assert.Equal(t, 1, s.Distances.InitToField.Count)
	assert.Equal(t, 10.0, s.Distances.InitToField.Max)
	assert.Equal(t, 1, s.Distances.FieldToSilo.Count)
	assert.Equal(t, 1, s.Distances.FieldDifferentField.Count)
	assert.Equal(t, 0, s.Distances.FieldSameField.Count)
	assert.Equal(t, 0, s.Distances.InitToSilo.Count)
}

func TestWithMaxDistanceSetsFieldOnly(t *testing.T) {
	s := Stats{}.WithMaxDistance(1234.5)
	assert.Equal(t, 1234.5, s.MaxDistanceM)
}

func TestNarrowRegistryOnlyNarrowsUnsetBounds(t *testing.T) {
	reg := domain.BuildRegistry()
	dom := twoFieldDomain(t)
	s := Compute(dom).WithMaxDistance(500)

	narrowed, err := NarrowRegistry(reg, s)
	require.NoError(t, err)

	sig := narrowed.MustLookup("field_total_yield_mass")
	require.NotNil(t, sig.UpperBound)
	assert.Equal(t, 5000.0, *sig.UpperBound)

	// field_harvested_percent already carries a fixed [0,100] bound in
	// the registry and is not in upperFor at all; it must pass through
	// completely untouched.
	original := reg.MustLookup("field_harvested_percent")
	sigAfter := narrowed.MustLookup("field_harvested_percent")
	assert.Equal(t, original.UpperBound, sigAfter.UpperBound)
}

func TestNarrowRegistryDefaultAppliesFixedCeilings(t *testing.T) {
	reg := domain.BuildRegistry()
	narrowed, err := NarrowRegistryDefault(reg)
	require.NoError(t, err)

	sig := narrowed.MustLookup("tv_bunker_mass")
	require.NotNil(t, sig.UpperBound)
	assert.Equal(t, 100_000.0, *sig.UpperBound)
}

func TestNarrowRegistrySkipsZeroStatistic(t *testing.T) {
	reg := domain.BuildRegistry()
	// An empty Stats has every field at its zero value; narrowing must
	// leave the registry's bounds exactly as BuildRegistry produced them,
	// never introduce a spurious [0,0] bound that would make every plan
	// infeasible.
	narrowed, err := NarrowRegistry(reg, Stats{})
	require.NoError(t, err)

	sig := narrowed.MustLookup("field_total_yield_mass")
	assert.Nil(t, sig.UpperBound)
}
