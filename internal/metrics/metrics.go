// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package metrics exposes optional Prometheus instrumentation for the
// heuristics library and the plan decoder: counts of heuristic
// evaluations, and gauges for decoded plan statistics (mass in silos,
// decoded record counts). Wiring is grounded in the `etalazz-vsa` pack
// member, which instruments a similar volatile-resource-counter domain
// with github.com/prometheus/client_golang.
//
// A nil *Recorder is valid and records nothing, so embedding the core
// in a context that doesn't care about metrics costs nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder bundles the metrics this core can emit. The zero value is not
// usable; use [NewRecorder] or pass a nil *Recorder to skip
// instrumentation entirely.
type Recorder struct {
	heuristicEvals   *prometheus.CounterVec
	decodedRecords    *prometheus.CounterVec
	finalMassInSilos *prometheus.Gauge
}

// NewRecorder creates and registers the core's metrics against reg. Pass
// prometheus.NewRegistry() in tests to avoid polluting the default
// registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		heuristicEvals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agriplan",
			Subsystem: "heuristic",
			Name:      "evaluations_total",
			Help:      "Number of times a named heuristic was evaluated.",
		}, []string{"heuristic"}),
		decodedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agriplan",
			Subsystem: "decoder",
			Name:      "records_total",
			Help:      "Number of state-history records appended by the plan decoder.",
		}, []string{"entity_kind"}),
	}
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "agriplan",
		Subsystem: "decoder",
		Name:      "final_mass_in_silos_kg",
		Help:      "Total yield mass in silos at the end of the decoded plan.",
	})
	r.finalMassInSilos = &gauge
	reg.MustRegister(r.heuristicEvals, r.decodedRecords, gauge)
	return r
}

// ObserveHeuristicEval records one evaluation of the named heuristic.
// Safe to call on a nil *Recorder.
func (r *Recorder) ObserveHeuristicEval(name string) {
	if r == nil {
		return
	}
	r.heuristicEvals.WithLabelValues(name).Inc()
}

// ObserveDecodedRecord records one appended history record for the given
// entity kind ("field", "machine", "silo"). Safe to call on a nil
// *Recorder.
func (r *Recorder) ObserveDecodedRecord(entityKind string) {
	if r == nil {
		return
	}
	r.decodedRecords.WithLabelValues(entityKind).Inc()
}

// SetFinalMassInSilos records the final total mass in silos at the end
// of a decoded plan. Safe to call on a nil *Recorder.
func (r *Recorder) SetFinalMassInSilos(kg float64) {
	if r == nil {
		return
	}
	(*r.finalMassInSilos).Set(kg)
}
