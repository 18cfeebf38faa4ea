// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package domain

import (
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/fluent"
)

// Fluent name constants, grouped as spec.md §4.1 groups them. These are
// the only strings the action library, encoder, heuristics and decoder
// use to address fluents; nothing constructs a fluent name ad hoc.
const (
	// Per field.
	FieldArea                = "field_area"
	FieldTotalYieldMass      = "field_total_yield_mass"
	FieldHarvester           = "field_harvester"
	FieldTimestampAssigned   = "field_timestamp_assigned"
	FieldHarvested           = "field_harvested"
	FieldPlannedHarvested    = "field_planned_harvested"
	FieldHarvestedPercent    = "field_harvested_percent"
	FieldReservedMass        = "field_reserved_mass"
	FieldPreAssignedHarvester = "field_pre_assigned_harvester"
	FieldPreAssignedTurn     = "field_pre_assigned_turn"

	// Per harvester.
	HarvTimestamp            = "harv_timestamp"
	HarvFree                 = "harv_free"
	HarvCurrentField         = "harv_current_field"
	HarvCurrentFieldAccess   = "harv_current_field_access"
	HarvFieldTurnCounter     = "harv_field_turn_counter"
	HarvTransitTimeAccum     = "harv_transit_time_accum"
	HarvPreAssignedTurnCount = "harv_pre_assigned_turn_count"
	HarvEnabledToDrive       = "harv_enabled_to_drive"
	HarvLocation             = "harv_location"

	// Per transport vehicle.
	TVTimestamp          = "tv_timestamp"
	TVFree               = "tv_free"
	TVBunkerMass         = "tv_bunker_mass"
	TVLocation           = "tv_location"
	TVCanLoad            = "tv_can_load"
	TVCanUnload          = "tv_can_unload"
	TVReadyToUnload      = "tv_ready_to_unload"
	TVReadyToDrive       = "tv_ready_to_drive"
	TVWaitingToDriveID   = "tv_waiting_to_drive_id"
	TVTransitTimeAccum   = "tv_transit_time_accum"
	TVWaitingTimeAccum   = "tv_waiting_time_accum"
	TVEnabledToDrive     = "tv_enabled_to_drive"
	TVPreAssignedHarvester = "tv_pre_assigned_harvester"

	// Per silo / silo access.
	SiloAccessAvailableCapacity = "silo_access_available_capacity"
	SiloAccessFree              = "silo_access_free"
	SiloAccessTimestamp         = "silo_access_timestamp"
	SiloAccessSweepDuration     = "silo_access_sweep_duration"
	SiloAccessCleared           = "silo_access_cleared"

	// Per compactor.
	CompactorSilo          = "compactor_silo"
	CompactorFree          = "compactor_free"
	CompactorMassPerSweep  = "compactor_mass_per_sweep"

	// Static distance, grounded on the route planner at encode time
	// (spec.md §4.5). Generic over any pair of machine-reachable
	// locations (field access, silo access, machine init position or the
	// street sentinel); ValueKind.Accepts does not check per-argument
	// object kind, so a single two-argument signature covers every pair
	// actually grounded by the encoder.
	DistanceM = "distance_m"

	// Global.
	GlobalTotalHarvestedMass         = "global_total_harvested_mass"
	GlobalTotalMassInSilos           = "global_total_mass_in_silos"
	GlobalTotalMassReservedInSilos   = "global_total_mass_reserved_in_silos"
	GlobalTotalMassUnreservedInFields = "global_total_mass_unreserved_in_fields"
	GlobalPlanningFailed             = "global_planning_failed"
	GlobalTVsWaitingToDriveCount     = "global_tvs_waiting_to_drive_count"
)

// BuildRegistry constructs the fluent.Registry: every fluent named
// above, with its parameter kinds, return kind, default and static flag.
// Only fixed bounds are set here (a lower bound of 0 on masses,
// capacities, distances and global totals and counts, and [0, 100] on
// the harvested percentage); the encoder narrows bounds from problem
// statistics when numeric_fluent_bounds_option requests it (spec.md
// §4.1: "Bounds are computed (when enabled) from problem statistics;
// otherwise fluents are unbounded... both must produce semantically
// identical plans").
func BuildRegistry() *fluent.Registry {
	b := fluent.NewRegistryBuilder()

	// Per field.
	b.Register(fluent.Signature{Name: FieldArea, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Field)}, Returns: fluent.RealKind, Default: fluent.RealVal(0), Static: true})
	b.Register(fluent.Signature{Name: FieldTotalYieldMass, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Field)}, Returns: fluent.RealKind, Default: fluent.RealVal(0), Static: true})
	b.Register(fluent.Signature{Name: FieldHarvester, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Field)}, Returns: fluent.ObjectKind(addrs.Harvester), Default: fluent.ObjectVal(addrs.NoValue(addrs.Harvester))})
	b.Register(fluent.Signature{Name: FieldTimestampAssigned, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Field)}, Returns: fluent.RealKind, Default: fluent.RealVal(0)})
	b.Register(fluent.Signature{Name: FieldHarvested, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Field)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(false)})
	b.Register(fluent.Signature{Name: FieldPlannedHarvested, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Field)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(false)})
	b.Register(fluent.Signature{Name: FieldHarvestedPercent, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Field)}, Returns: fluent.RealKind, Default: fluent.RealVal(0), LowerBound: f64p(0), UpperBound: f64p(100)})
	b.Register(fluent.Signature{Name: FieldReservedMass, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Field)}, Returns: fluent.RealKind, Default: fluent.RealVal(0)})
	b.Register(fluent.Signature{Name: FieldPreAssignedHarvester, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Field)}, Returns: fluent.ObjectKind(addrs.Harvester), Default: fluent.ObjectVal(addrs.NoValue(addrs.Harvester)), Static: true})
	b.Register(fluent.Signature{Name: FieldPreAssignedTurn, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Field)}, Returns: fluent.IntKind, Default: fluent.IntVal(0), Static: true})

	// Per harvester.
	b.Register(fluent.Signature{Name: HarvTimestamp, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Harvester)}, Returns: fluent.RealKind, Default: fluent.RealVal(0)})
	b.Register(fluent.Signature{Name: HarvFree, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Harvester)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(true)})
	b.Register(fluent.Signature{Name: HarvCurrentField, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Harvester)}, Returns: fluent.ObjectKind(addrs.Field), Default: fluent.ObjectVal(addrs.NoValue(addrs.Field))})
	b.Register(fluent.Signature{Name: HarvCurrentFieldAccess, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Harvester)}, Returns: fluent.ObjectKind(addrs.FieldAccess), Default: fluent.ObjectVal(addrs.NoValue(addrs.FieldAccess))})
	b.Register(fluent.Signature{Name: HarvFieldTurnCounter, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Harvester)}, Returns: fluent.IntKind, Default: fluent.IntVal(0)})
	b.Register(fluent.Signature{Name: HarvTransitTimeAccum, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Harvester)}, Returns: fluent.RealKind, Default: fluent.RealVal(0)})
	b.Register(fluent.Signature{Name: HarvPreAssignedTurnCount, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Harvester)}, Returns: fluent.IntKind, Default: fluent.IntVal(0), Static: true})
	b.Register(fluent.Signature{Name: HarvEnabledToDrive, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Harvester)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(false)})
	b.Register(fluent.Signature{Name: HarvLocation, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Harvester)}, Returns: fluent.ObjectKind(addrs.MachineInit), Default: fluent.ObjectVal(addrs.StreetRef)})

	// Per transport vehicle.
	b.Register(fluent.Signature{Name: TVTimestamp, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.RealKind, Default: fluent.RealVal(0)})
	b.Register(fluent.Signature{Name: TVFree, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(true)})
	b.Register(fluent.Signature{Name: TVBunkerMass, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.RealKind, Default: fluent.RealVal(0), LowerBound: f64p(0)})
	b.Register(fluent.Signature{Name: TVLocation, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.ObjectKind(addrs.MachineInit), Default: fluent.ObjectVal(addrs.StreetRef)})
	b.Register(fluent.Signature{Name: TVCanLoad, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(true)})
	b.Register(fluent.Signature{Name: TVCanUnload, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(false)})
	b.Register(fluent.Signature{Name: TVReadyToUnload, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(false)})
	b.Register(fluent.Signature{Name: TVReadyToDrive, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(false)})
	b.Register(fluent.Signature{Name: TVWaitingToDriveID, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.IntKind, Default: fluent.IntVal(0)})
	b.Register(fluent.Signature{Name: TVTransitTimeAccum, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.RealKind, Default: fluent.RealVal(0)})
	b.Register(fluent.Signature{Name: TVWaitingTimeAccum, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.RealKind, Default: fluent.RealVal(0)})
	b.Register(fluent.Signature{Name: TVEnabledToDrive, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(false)})
	b.Register(fluent.Signature{Name: TVPreAssignedHarvester, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.TransportVehicle)}, Returns: fluent.ObjectKind(addrs.Harvester), Default: fluent.ObjectVal(addrs.NoValue(addrs.Harvester)), Static: true})

	// Per silo access.
	b.Register(fluent.Signature{Name: SiloAccessAvailableCapacity, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.SiloAccess)}, Returns: fluent.RealKind, Default: fluent.RealVal(0), LowerBound: f64p(0)})
	b.Register(fluent.Signature{Name: SiloAccessFree, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.SiloAccess)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(true)})
	b.Register(fluent.Signature{Name: SiloAccessTimestamp, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.SiloAccess)}, Returns: fluent.RealKind, Default: fluent.RealVal(0)})
	b.Register(fluent.Signature{Name: SiloAccessSweepDuration, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.SiloAccess)}, Returns: fluent.RealKind, Default: fluent.RealVal(0), Static: true})
	b.Register(fluent.Signature{Name: SiloAccessCleared, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.SiloAccess)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(true)})

	b.Register(fluent.Signature{Name: DistanceM, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Street), fluent.ObjectKind(addrs.Street)}, Returns: fluent.RealKind, Default: fluent.RealVal(0), LowerBound: f64p(0), Static: true})

	// Per compactor.
	b.Register(fluent.Signature{Name: CompactorSilo, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Compactor)}, Returns: fluent.ObjectKind(addrs.Silo), Default: fluent.ObjectVal(addrs.NoValue(addrs.Silo)), Static: true})
	b.Register(fluent.Signature{Name: CompactorFree, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Compactor)}, Returns: fluent.BoolKind, Default: fluent.BoolVal(true)})
	b.Register(fluent.Signature{Name: CompactorMassPerSweep, Params: []fluent.ValueKind{fluent.ObjectKind(addrs.Compactor)}, Returns: fluent.RealKind, Default: fluent.RealVal(0), Static: true})

	// Global (no parameters).
	b.Register(fluent.Signature{Name: GlobalTotalHarvestedMass, Returns: fluent.RealKind, Default: fluent.RealVal(0), LowerBound: f64p(0)})
	b.Register(fluent.Signature{Name: GlobalTotalMassInSilos, Returns: fluent.RealKind, Default: fluent.RealVal(0), LowerBound: f64p(0)})
	b.Register(fluent.Signature{Name: GlobalTotalMassReservedInSilos, Returns: fluent.RealKind, Default: fluent.RealVal(0), LowerBound: f64p(0)})
	b.Register(fluent.Signature{Name: GlobalTotalMassUnreservedInFields, Returns: fluent.RealKind, Default: fluent.RealVal(0), LowerBound: f64p(0)})
	b.Register(fluent.Signature{Name: GlobalPlanningFailed, Returns: fluent.BoolKind, Default: fluent.BoolVal(false)})
	b.Register(fluent.Signature{Name: GlobalTVsWaitingToDriveCount, Returns: fluent.IntKind, Default: fluent.IntVal(0), LowerBound: f64p(0)})

	return b.Finish()
}

// DistKey grounds the distance fluent between two locations. Direction
// matters even though the reference route planner is symmetric, because a
// real road-network implementation need not be.
func DistKey(from, to addrs.Ref) fluent.Key {
	return fluent.Ground(DistanceM, from, to)
}

func f64p(f float64) *float64 { return &f }
