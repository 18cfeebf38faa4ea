// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package domain

// Defaults carries the numeric-degeneracy fallbacks spec.md §7 class 4
// requires ("zero speeds, zero capacities ... replaced with safe
// defaults"). These correspond to the `GlobalDataManager.DEF_*` constants
// of the original Python source (management/global_data_manager.py),
// which this package's Defaults directly replaces.
type Defaults struct {
	// MinSpeedMps is substituted for any machine speed at or below zero,
	// preventing a division by zero when the encoder derives a transit
	// duration from distance/speed.
	MinSpeedMps float64

	// MinBunkerCapacityKg is substituted for a zero or negative bunker
	// mass capacity.
	MinBunkerCapacityKg float64

	// MinUnloadSpeedKgPerS is substituted for a zero or negative
	// (un)load speed, preventing a division by zero when the encoder
	// derives an overload or unload duration from mass/speed.
	MinUnloadSpeedKgPerS float64

	// MinDistanceEpsilon is the numeric tolerance the actions use when
	// comparing masses: a field whose remaining yield is at most this is
	// harvested, a TV's can-load threshold is widened by it, and a silo
	// access whose piled mass is within it of a sweep is cleared.
	MinDistanceEpsilon float64

	// InfieldTransitDurationToFieldAccessS is a fixed in-field transit
	// time. No action reads it: the field-entry and field-exit actions
	// both read settings.Settings.InfieldTransitDurationToFieldAccessS
	// (settings key `infield_transit_duration_to_field_access`), which
	// has the same default.
	InfieldTransitDurationToFieldAccessS float64
}

// DefaultDefaults returns the standard fallback values, matching the
// original source's DEF_* constants.
func DefaultDefaults() Defaults {
	return Defaults{
		MinSpeedMps:                           0.1,
		MinBunkerCapacityKg:                   1.0,
		MinUnloadSpeedKgPerS:                  1.0,
		MinDistanceEpsilon:                    1e-3,
		InfieldTransitDurationToFieldAccessS:  20.0,
	}
}

// Sanitize returns f clamped to at least min, and true if clamping was
// necessary. The encoder calls this for every machine speed/capacity it
// reads from the scenario before deriving any duration from it.
func Sanitize(value, min float64) (float64, bool) {
	if value <= 0 || value < min {
		return min, true
	}
	return value, false
}
