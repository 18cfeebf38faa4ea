// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package stats computes the problem statistics and numeric fluent
// bounds spec.md §4.3's numeric_fluent_bounds_option names: scenario-wide
// maxima the encoder narrows the registry's Int/Real fluents to, when
// settings ask for it, without changing which plans are admissible
// (spec.md §4.1: "both must produce semantically identical plans"); and,
// per spec.md §4.5, the full min/max/avg/count breakdown over field
// areas/masses, machine speeds/capacities, silo capacities/sweep times
// and pairwise transit distances that the heuristics library reads to
// derive scenario-relative, rather than hand-tuned, control bounds.
package stats

import (
	"math"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
)

// Bucket accumulates the min/max/avg/count breakdown spec.md §4.5 asks
// for, over one scalar quantity observed across a scenario.
type Bucket struct {
	Count    int
	Min, Max float64
	Sum      float64
}

// Add folds one observation into b.
func (b *Bucket) Add(v float64) {
	if b.Count == 0 || v < b.Min {
		b.Min = v
	}
	if b.Count == 0 || v > b.Max {
		b.Max = v
	}
	b.Sum += v
	b.Count++
}

// Avg returns the mean of every observation folded in, or 0 if none
// were.
func (b Bucket) Avg() float64 {
	if b.Count == 0 {
		return 0
	}
	return b.Sum / float64(b.Count)
}

// DistanceCategory classifies one ordered pair of located references by
// the kind of transit it represents, per spec.md §4.5's breakdown.
type DistanceCategory int

const (
	// DistanceInitToField is a machine's initial position to a field
	// access point.
	DistanceInitToField DistanceCategory = iota
	// DistanceInitToSilo is a machine's initial position to a silo
	// access point.
	DistanceInitToSilo
	// DistanceFieldSameField is between two access points of the same
	// field.
	DistanceFieldSameField
	// DistanceFieldDifferentField is between access points of two
	// distinct fields.
	DistanceFieldDifferentField
	// DistanceFieldToSilo is a field access point to a silo access
	// point.
	DistanceFieldToSilo
)

// DistanceStats is the categorized pairwise-transit-distance breakdown
// spec.md §4.5 asks for.
type DistanceStats struct {
	InitToField         Bucket
	InitToSilo          Bucket
	FieldSameField      Bucket
	FieldDifferentField Bucket
	FieldToSilo         Bucket
}

func (d *DistanceStats) bucket(cat DistanceCategory) *Bucket {
	switch cat {
	case DistanceInitToField:
		return &d.InitToField
	case DistanceInitToSilo:
		return &d.InitToSilo
	case DistanceFieldSameField:
		return &d.FieldSameField
	case DistanceFieldDifferentField:
		return &d.FieldDifferentField
	case DistanceFieldToSilo:
		return &d.FieldToSilo
	default:
		return nil
	}
}

// Add folds one observed distance of category cat into d.
func (d *DistanceStats) Add(cat DistanceCategory, v float64) {
	if b := d.bucket(cat); b != nil {
		b.Add(v)
	}
}

// ClassifyDistancePair reports which DistanceCategory the ordered pair
// (a, b) of located references falls into, per spec.md §4.5: field
// access points belonging to the same field are distinguished from
// those belonging to different fields, since "same field" distances are
// typically near-zero and would otherwise skew the field-to-field
// bucket. Pairs this scenario's transit-distance breakdown does not
// track (e.g. two machine-init points) report ok == false.
func ClassifyDistancePair(dom *domain.Domain, a, b addrs.Ref) (cat DistanceCategory, ok bool) {
	ak, bk := a.Kind(), b.Kind()
	switch {
	case ak == addrs.MachineInit && bk == addrs.FieldAccess, ak == addrs.FieldAccess && bk == addrs.MachineInit:
		return DistanceInitToField, true
	case ak == addrs.MachineInit && bk == addrs.SiloAccess, ak == addrs.SiloAccess && bk == addrs.MachineInit:
		return DistanceInitToSilo, true
	case ak == addrs.FieldAccess && bk == addrs.SiloAccess, ak == addrs.SiloAccess && bk == addrs.FieldAccess:
		return DistanceFieldToSilo, true
	case ak == addrs.FieldAccess && bk == addrs.FieldAccess:
		fa, _ := dom.FieldAccess(a)
		fb, _ := dom.FieldAccess(b)
		if fa.FieldRef == fb.FieldRef {
			return DistanceFieldSameField, true
		}
		return DistanceFieldDifferentField, true
	default:
		return 0, false
	}
}

// Stats is the set of scenario statistics the bounds computation and the
// heuristics library both read: a handful of scalars NarrowRegistry
// consumes directly, plus the fuller per-dimension Bucket breakdown
// spec.md §4.5 describes.
type Stats struct {
	TotalYieldMassKg    float64
	MaxFieldYieldMassKg float64
	MaxBunkerCapacityKg float64
	MaxSiloCapacityKg   float64
	MaxDistanceM        float64
	MaxFieldTurn        int
	FieldCount          int
	HarvesterCount      int
	TVCount             int

	FieldArea       Bucket
	FieldMass       Bucket
	HarvSpeed       Bucket
	TVSpeed         Bucket
	MachineCapacity Bucket
	SiloCapacity    Bucket
	SiloSweepTime   Bucket

	Distances DistanceStats
}

// Compute derives Stats from a Domain in one linear pass. The
// transit-distance breakdown is filled in separately, via
// (*Stats).AddDistance, once the encoder has computed actual route
// distances (Compute itself only sees domain geometry, not routing).
func Compute(dom *domain.Domain) Stats {
	var s Stats
	for _, f := range dom.Fields() {
		fd, _ := dom.Field(f)
		s.TotalYieldMassKg += fd.InitialYieldMassKg
		s.MaxFieldYieldMassKg = math.Max(s.MaxFieldYieldMassKg, fd.InitialYieldMassKg)
		s.FieldArea.Add(fd.AreaM2)
		s.FieldMass.Add(fd.InitialYieldMassKg)
		if pa, ok := dom.FieldPreAssignment(f); ok && pa.Turn > s.MaxFieldTurn {
			s.MaxFieldTurn = pa.Turn
		}
		s.FieldCount++
	}
	for _, silo := range dom.Silos() {
		sd, _ := dom.Silo(silo)
		s.MaxSiloCapacityKg = math.Max(s.MaxSiloCapacityKg, sd.TotalCapacity)
		for _, ap := range sd.Accesses {
			s.SiloCapacity.Add(ap.CapacityKg)
			s.SiloSweepTime.Add(ap.SweepDuration)
		}
	}
	for _, h := range dom.Harvesters() {
		s.HarvesterCount++
		m, _ := dom.Machine(h)
		s.MaxBunkerCapacityKg = math.Max(s.MaxBunkerCapacityKg, m.BunkerMassCapacityKg)
		s.MachineCapacity.Add(m.BunkerMassCapacityKg)
		s.HarvSpeed.Add(math.Max(m.MaxSpeedFullMps, m.MaxSpeedEmptyMps))
	}
	for _, tv := range dom.TVs() {
		s.TVCount++
		m, _ := dom.Machine(tv)
		s.MaxBunkerCapacityKg = math.Max(s.MaxBunkerCapacityKg, m.BunkerMassCapacityKg)
		s.MachineCapacity.Add(m.BunkerMassCapacityKg)
		s.TVSpeed.Add(math.Max(m.MaxSpeedFullMps, m.MaxSpeedEmptyMps))
	}
	return s
}

// AddDistance folds one observed transit distance between a and b into
// s's categorized breakdown, classifying the pair via
// ClassifyDistancePair. Pairs outside the tracked categories are
// ignored.
func (s *Stats) AddDistance(dom *domain.Domain, a, b addrs.Ref, d float64) {
	if cat, ok := ClassifyDistancePair(dom, a, b); ok {
		s.Distances.Add(cat, d)
	}
}

// WithMaxDistance returns a copy of s with MaxDistanceM set to the
// largest distance the encoder computed while seeding the distance
// fluents.
func (s Stats) WithMaxDistance(maxDistanceM float64) Stats {
	s.MaxDistanceM = maxDistanceM
	return s
}

// NarrowRegistry returns a new *fluent.Registry with every bounded
// numeric fluent's Int/Real upper bound narrowed from s (lower bounds
// are always 0 for this domain's mass/distance fluents), leaving
// fluents with no entry in upperFor (and all Bool/Object fluents)
// untouched. Used when settings select numeric_fluent_bounds_option
// PROBLEM_SPECIFIC; NONE leaves the registry exactly as
// domain.BuildRegistry produced it.
func NarrowRegistry(reg *fluent.Registry, s Stats) (*fluent.Registry, error) {
	return narrow(reg, map[string]float64{
		"field_total_yield_mass":                s.MaxFieldYieldMassKg,
		"field_reserved_mass":                   s.MaxFieldYieldMassKg,
		"tv_bunker_mass":                         s.MaxBunkerCapacityKg,
		"silo_access_available_capacity":         s.MaxSiloCapacityKg,
		"distance_m":                             s.MaxDistanceM,
		"global_total_harvested_mass":            s.TotalYieldMassKg,
		"global_total_mass_in_silos":             s.TotalYieldMassKg,
		"global_total_mass_reserved_in_silos":    s.TotalYieldMassKg,
		"global_total_mass_unreserved_in_fields": s.TotalYieldMassKg,
	})
}

// defaultUpperBounds are the fixed, scenario-independent ceilings used
// under numeric_fluent_bounds_option DEFAULT: generous enough to never
// bind a realistic scenario, chosen only to give a planner's numeric
// search a finite space to work with when no problem-specific statistics
// were computed.
var defaultUpperBounds = map[string]float64{
	"field_total_yield_mass":                 1_000_000,
	"field_reserved_mass":                    1_000_000,
	"tv_bunker_mass":                         100_000,
	"silo_access_available_capacity":         10_000_000,
	"distance_m":                             100_000,
	"global_total_harvested_mass":            100_000_000,
	"global_total_mass_in_silos":             100_000_000,
	"global_total_mass_reserved_in_silos":    100_000_000,
	"global_total_mass_unreserved_in_fields": 100_000_000,
}

// NarrowRegistryDefault narrows reg using defaultUpperBounds, for
// numeric_fluent_bounds_option DEFAULT.
func NarrowRegistryDefault(reg *fluent.Registry) (*fluent.Registry, error) {
	return narrow(reg, defaultUpperBounds)
}

func narrow(reg *fluent.Registry, upperFor map[string]float64) (*fluent.Registry, error) {
	zero := 0.0
	b := fluent.NewRegistryBuilder()
	for _, name := range reg.Names() {
		sig := reg.MustLookup(name)
		upper, ok := upperFor[name]
		if !ok || upper <= 0 || sig.UpperBound != nil {
			b.Register(sig)
			continue
		}
		u := upper
		narrowed, err := reg.WithBounds(name, &zero, &u)
		if err != nil {
			return nil, err
		}
		b.Register(narrowed)
	}
	return b.Finish(), nil
}
