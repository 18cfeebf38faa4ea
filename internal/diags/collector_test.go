// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package diags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorPedanticModePromotesWarningsToErrors(t *testing.T) {
	c := NewCollector(true)
	c.Degeneracy("zero speed", "harvester h1")

	ds := c.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, ErrorLevel, ds[0].Severity)
}

func TestCollectorNonPedanticKeepsWarningsAsWarnings(t *testing.T) {
	c := NewCollector(false)
	c.Degeneracy("zero speed", "harvester h1")

	ds := c.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, WarningLevel, ds[0].Severity)
}

func TestCollectorBuildErrorAndDecodeErrorAreAlwaysErrorLevel(t *testing.T) {
	c := NewCollector(false)
	c.BuildError("no harvester", "")
	c.DecodeError("unknown action", "step 3")

	ds := c.Diagnostics()
	require.Len(t, ds, 2)
	assert.True(t, ds.HasErrors())
}

func TestCollectorDiagnosticsConsolidatesRepeatedWarnings(t *testing.T) {
	c := NewCollector(false)
	c.Degeneracy("zero speed", "h1")
	c.Degeneracy("zero speed", "h1")

	ds := c.Diagnostics()
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Detail, "2 occurrences")
}

func TestCollectorErrReturnsNilWithoutErrorLevelDiagnostics(t *testing.T) {
	c := NewCollector(false)
	c.Degeneracy("zero speed", "h1")
	assert.NoError(t, c.Err())
}

func TestCollectorErrReturnsErrorSummarizingErrorLevelDiagnostics(t *testing.T) {
	c := NewCollector(false)
	c.BuildError("no harvester available", "")

	err := c.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no harvester available")
}
