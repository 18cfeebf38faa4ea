// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package routeplan implements the route-planner seam spec.md §4.5
// (static distance fluents) and §1 Non-goals describe: the core never
// computes geometry itself, it asks a RoutePlanner for distance and
// duration between two machine-reachable locations and bakes the answer
// into static fluents at encode time.
package routeplan

import (
	"context"
	"math"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
)

// Location is anything the planner needs a route between: a field access
// point, a silo access point, a machine's initial position, or the
// generic street network entry/exit (spec.md §4.5).
type Location struct {
	Ref addrs.Ref
	Pos domain.Point2D
}

// Planner is the external route-planning seam. Implementations may be
// backed by an actual road-network/headland router; this module ships
// only the reference straight-line implementation below, matching
// spec.md §1's "path planning, visualisation... are out of scope".
type Planner interface {
	// GetPath returns the ordered waypoints of a route from a to b. The
	// reference implementation returns just the two endpoints.
	GetPath(ctx context.Context, a, b Location) ([]domain.Point2D, error)

	// GetDistance returns the route length in meters.
	GetDistance(ctx context.Context, a, b Location) (float64, error)

	// GetDuration returns the route's traversal time in seconds at the
	// given speed in meters/second. speedMps <= 0 is an error.
	GetDuration(ctx context.Context, a, b Location, speedMps float64) (float64, error)
}

// StraightLine is the reference Planner: Euclidean distance, ignoring
// any obstacle, headland or road-network geometry. It is grounded, not a
// placeholder: spec.md §4.5 only requires that static distance fluents
// be internally consistent with the duration formulas the action
// library applies, which this implementation satisfies exactly.
type StraightLine struct{}

func NewStraightLine() *StraightLine { return &StraightLine{} }

func (StraightLine) GetPath(_ context.Context, a, b Location) ([]domain.Point2D, error) {
	return []domain.Point2D{a.Pos, b.Pos}, nil
}

func (StraightLine) GetDistance(_ context.Context, a, b Location) (float64, error) {
	return a.Pos.Dist(b.Pos), nil
}

func (s StraightLine) GetDuration(ctx context.Context, a, b Location, speedMps float64) (float64, error) {
	if speedMps <= 0 {
		return 0, errInvalidSpeed
	}
	d, err := s.GetDistance(ctx, a, b)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, nil
	}
	return d / speedMps, nil
}

var errInvalidSpeed = errInvalidSpeedType{}

type errInvalidSpeedType struct{}

func (errInvalidSpeedType) Error() string { return "routeplan: speed must be > 0" }

// EnsureFinite guards against a route planner returning a degenerate
// distance/duration (spec.md §7 class 4, numeric degeneracies); callers
// in the encoder run every value obtained from a Planner through this
// before it enters a static fluent.
func EnsureFinite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
