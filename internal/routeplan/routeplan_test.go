// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package routeplan

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
)

func TestStraightLineGetDistance(t *testing.T) {
	s := NewStraightLine()
	a := Location{Ref: addrs.New(addrs.FieldAccess, 1), Pos: domain.Point2D{X: 0, Y: 0}}
	b := Location{Ref: addrs.NewSiloAccess(1, 0), Pos: domain.Point2D{X: 3, Y: 4}}

	d, err := s.GetDistance(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)
}

func TestStraightLineGetPathReturnsEndpoints(t *testing.T) {
	s := NewStraightLine()
	a := Location{Pos: domain.Point2D{X: 1, Y: 1}}
	b := Location{Pos: domain.Point2D{X: 2, Y: 2}}

	path, err := s.GetPath(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, []domain.Point2D{a.Pos, b.Pos}, path)
}

func TestStraightLineGetDurationDividesBySpeed(t *testing.T) {
	s := NewStraightLine()
	a := Location{Pos: domain.Point2D{X: 0, Y: 0}}
	b := Location{Pos: domain.Point2D{X: 10, Y: 0}}

	dur, err := s.GetDuration(context.Background(), a, b, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, dur)
}

func TestStraightLineGetDurationRejectsNonPositiveSpeed(t *testing.T) {
	s := NewStraightLine()
	a := Location{Pos: domain.Point2D{X: 0, Y: 0}}
	b := Location{Pos: domain.Point2D{X: 10, Y: 0}}

	_, err := s.GetDuration(context.Background(), a, b, 0)
	assert.Error(t, err)
}

func TestStraightLineGetDurationZeroDistanceIsZero(t *testing.T) {
	s := NewStraightLine()
	a := Location{Pos: domain.Point2D{X: 5, Y: 5}}

	dur, err := s.GetDuration(context.Background(), a, a, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, dur)
}

func TestEnsureFiniteReplacesNaNAndInf(t *testing.T) {
	assert.Equal(t, 0.0, EnsureFinite(math.NaN()))
	assert.Equal(t, 0.0, EnsureFinite(math.Inf(1)))
	assert.Equal(t, 0.0, EnsureFinite(math.Inf(-1)))
	assert.Equal(t, 7.5, EnsureFinite(7.5))
}
