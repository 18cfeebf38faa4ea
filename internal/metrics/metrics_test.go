// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			match := true
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					match = false
					break
				}
			}
			if match {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() == name {
			return fam.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return 0
}

func TestObserveHeuristicEvalIncrementsLabeledCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveHeuristicEval("waiting_cost")
	r.ObserveHeuristicEval("waiting_cost")
	r.ObserveHeuristicEval("distance")

	assert.Equal(t, 2.0, counterValue(t, reg, "agriplan_heuristic_evaluations_total", map[string]string{"heuristic": "waiting_cost"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "agriplan_heuristic_evaluations_total", map[string]string{"heuristic": "distance"}))
}

func TestObserveDecodedRecordIncrementsPerEntityKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveDecodedRecord("field")
	r.ObserveDecodedRecord("machine")
	r.ObserveDecodedRecord("machine")

	assert.Equal(t, 1.0, counterValue(t, reg, "agriplan_decoder_records_total", map[string]string{"entity_kind": "field"}))
	assert.Equal(t, 2.0, counterValue(t, reg, "agriplan_decoder_records_total", map[string]string{"entity_kind": "machine"}))
}

func TestSetFinalMassInSilosSetsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.SetFinalMassInSilos(12345.6)
	assert.Equal(t, 12345.6, gaugeValue(t, reg, "agriplan_decoder_final_mass_in_silos_kg"))
}

func TestNilRecorderMethodsAreNoops(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveHeuristicEval("x")
		r.ObserveDecodedRecord("field")
		r.SetFinalMassInSilos(1)
	})
}
