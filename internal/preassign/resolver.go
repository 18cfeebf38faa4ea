// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package preassign implements the generative field/TV pre-assignment
// algorithm spec.md §4.4 describes, grounded in
// up_tsb_agriculture/pre_processing/pre_assign.py: given target field and
// turn counts, pick the largest unworked fields and round-robin them over
// harvesters (a harvester already standing in a field takes it as its
// turn-1 assignment); given target TV counts, rank harvesters by minimum
// travel time from a free TV and round-robin the closest free TV onto
// each, binding TVs already mid-overload to their current harvester and
// pushing currently-full TVs to the back of the queue. Domain-supplied
// base pre-assignments are always preserved and never overwritten.
//
// Resolve also checks the resulting assignments for the scenario-wide
// consistency spec.md §9 calls for (turn-number gaps, rotation-order
// conflicts), surfaced as diagnostics rather than build failures, since
// Builder.Finish already rejects outright-conflicting hard bindings.
package preassign

import (
	"fmt"
	"math"
	"sort"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/diags"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/domain"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/logging"
	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/settings"
)

// Resolver computes and checks one Domain's pre-assignments.
type Resolver struct {
	dom *domain.Domain
	log logging.Logger
}

func New(dom *domain.Domain, log logging.Logger) *Resolver {
	if log == nil {
		log = logging.Discard("preassign")
	}
	return &Resolver{dom: dom, log: log}
}

// Assignments is the resolver's output: the effective field/TV
// pre-assignments, i.e. the Domain's own hard-bound base merged with
// whatever the generative algorithm filled in for the rest. A field or TV
// absent from here has no pre-assignment at all.
type Assignments struct {
	Fields addrs.Map[addrs.Ref, domain.FieldPreAssignment]
	TVs    addrs.Map[addrs.Ref, domain.TVPreAssignment]
}

func (a Assignments) Field(ref addrs.Ref) (domain.FieldPreAssignment, bool) { return a.Fields.Get(ref) }
func (a Assignments) TV(ref addrs.Ref) (domain.TVPreAssignment, bool)       { return a.TVs.Get(ref) }

// Resolve runs the generative algorithm against set's target counts and
// returns the effective assignments plus every consistency diagnostic
// found along the way. pedantic promotes every warning to an error, per
// spec.md §7's injected PedanticMode.
func (r *Resolver) Resolve(set settings.PreAssignSettings, pedantic bool) (Assignments, diags.Diagnostics) {
	a := Assignments{
		Fields: r.assignFields(set),
		TVs:    r.assignTVs(set),
	}
	c := diags.NewCollector(pedantic)
	r.checkFieldTurns(c, a)
	r.checkTVRotations(c, a)
	return a, c.Diagnostics()
}

// assignFields implements the field half of spec.md §4.4: fields already
// hard pre-assigned are preserved untouched; of the remaining unfinished
// fields, a harvester already standing in one claims it as turn 1, then
// the largest-area fields (up to set.FieldsCount) are handed out
// round-robin over the harvesters.
func (r *Resolver) assignFields(set settings.PreAssignSettings) addrs.Map[addrs.Ref, domain.FieldPreAssignment] {
	out := addrs.MakeMap[addrs.Ref, domain.FieldPreAssignment]()
	for _, f := range r.dom.Fields() {
		if pa, ok := r.dom.FieldPreAssignment(f); ok {
			out.Put(f, pa)
		}
	}
	if set.FieldsCount <= 0 {
		return out
	}

	harvs := r.dom.Harvesters()
	var candidates []addrs.Ref
	for _, f := range r.dom.Fields() {
		if out.Has(f) {
			continue
		}
		if fs, ok := r.dom.FieldState(f); ok && fs.HarvestedPercent >= 99.9 {
			continue
		}
		candidates = append(candidates, f)
	}
	if len(harvs) > len(candidates) {
		return out
	}

	assigned := make(map[addrs.Ref]bool, len(candidates))
	inCandidates := make(map[addrs.Ref]bool, len(candidates))
	for _, f := range candidates {
		inCandidates[f] = true
	}

	harvTurns := make(map[addrs.Ref]int, len(harvs))
	count, countTurns := 0, 0
	for _, h := range harvs {
		harvTurns[h] = 0
		if countTurns >= set.FieldTurnsCount || count >= set.FieldsCount {
			continue
		}
		ms, ok := r.dom.MachineState(h)
		if !ok || ms.LocationRef.Kind() != addrs.Field || !inCandidates[ms.LocationRef] || assigned[ms.LocationRef] {
			continue
		}
		harvTurns[h] = 1
		assigned[ms.LocationRef] = true
		out.Put(ms.LocationRef, domain.FieldPreAssignment{FieldRef: ms.LocationRef, HarvesterRef: h, Turn: 1})
		count++
		countTurns++
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		fi, _ := r.dom.Field(candidates[i])
		fj, _ := r.dom.Field(candidates[j])
		return fi.AreaM2 > fj.AreaM2
	})

	indHarv := 0
	for _, f := range candidates {
		if count >= set.FieldsCount {
			break
		}
		if assigned[f] {
			continue
		}
		turn := 0
		if countTurns < set.FieldTurnsCount {
			harvTurns[harvs[indHarv]]++
			turn = harvTurns[harvs[indHarv]]
			countTurns++
		}
		out.Put(f, domain.FieldPreAssignment{FieldRef: f, HarvesterRef: harvs[indHarv], Turn: turn})
		assigned[f] = true
		count++
		indHarv++
		if indHarv >= len(harvs) {
			indHarv = 0
		}
	}
	return out
}

// assignTVs implements the TV half of spec.md §4.4. TVs already hard
// pre-assigned are preserved untouched. Harvesters are ranked by minimum
// travel time from any TV not currently full; round-robin over that
// ranking, each harvester claims the TV already mid-overload with it (if
// any), else the closest still-free TV, else (as a last resort) the
// currently-full TV closest to a silo access point — mirroring
// pre_assign.py's "TVs that are full are sent to their closest silo
// first" by only handing them out once every free TV is spoken for.
func (r *Resolver) assignTVs(set settings.PreAssignSettings) addrs.Map[addrs.Ref, domain.TVPreAssignment] {
	out := addrs.MakeMap[addrs.Ref, domain.TVPreAssignment]()
	baseHarv := make(map[addrs.Ref]addrs.Ref)
	for _, tv := range r.dom.TVs() {
		if pa, ok := r.dom.TVPreAssignment(tv); ok {
			out.Put(tv, pa)
			baseHarv[tv] = pa.HarvesterRef
		}
	}
	if set.TVAssignCount <= 0 || set.TVsPerHarvester <= 0 {
		return out
	}

	harvs := r.dom.Harvesters()
	tvs := r.dom.TVs()
	if len(harvs) == 0 || len(tvs) == 0 {
		return out
	}

	assigned := make(map[addrs.Ref]bool, len(tvs))
	out.Range(func(tv addrs.Ref, _ domain.TVPreAssignment) bool {
		assigned[tv] = true
		return true
	})

	full := make(map[addrs.Ref]bool)
	overloading := make(map[addrs.Ref]addrs.Ref) // harvester -> tv
	for _, tv := range tvs {
		m, _ := r.dom.Machine(tv)
		ms, ok := r.dom.MachineState(tv)
		if !ok {
			continue
		}
		if m.BunkerMassCapacityKg > 0 && ms.BunkerMass > 0.9*m.BunkerMassCapacityKg {
			full[tv] = true
		}
		if ms.OverloadingWithRef.Kind() == addrs.Harvester {
			if bh, hasBase := baseHarv[tv]; !hasBase || bh == ms.OverloadingWithRef {
				overloading[ms.OverloadingWithRef] = tv
			}
		}
	}

	tvSpeed := func(tv addrs.Ref) float64 {
		m, _ := r.dom.Machine(tv)
		return math.Max(m.MaxSpeedFullMps, m.MaxSpeedEmptyMps)
	}

	closestFreeTV := func(h addrs.Ref) (addrs.Ref, bool) {
		hs, ok := r.dom.MachineState(h)
		if !ok {
			return addrs.Ref{}, false
		}
		best, bestDist := addrs.Ref{}, math.Inf(1)
		for _, tv := range tvs {
			if assigned[tv] || full[tv] {
				continue
			}
			ts, ok := r.dom.MachineState(tv)
			speed := tvSpeed(tv)
			if !ok || speed <= 0 {
				continue
			}
			if d := hs.Pos.Dist(ts.Pos) / speed; d < bestDist {
				bestDist, best = d, tv
			}
		}
		if math.IsInf(bestDist, 1) {
			return addrs.Ref{}, false
		}
		return best, true
	}

	type ranked struct {
		harv addrs.Ref
		dist float64
	}
	order := make([]ranked, 0, len(harvs))
	for _, h := range harvs {
		hs, ok := r.dom.MachineState(h)
		best := math.Inf(1)
		if ok {
			for _, tv := range tvs {
				if full[tv] {
					continue
				}
				ts, tok := r.dom.MachineState(tv)
				speed := tvSpeed(tv)
				if !tok || speed <= 0 {
					continue
				}
				if d := hs.Pos.Dist(ts.Pos) / speed; d < best {
					best = d
				}
			}
		}
		order = append(order, ranked{harv: h, dist: best})
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].dist < order[j].dist })
	queue := make([]addrs.Ref, len(order))
	for i, rk := range order {
		queue[i] = rk.harv
	}

	type fullTV struct {
		tv   addrs.Ref
		dist float64
	}
	var fallback []fullTV
	for tv := range full {
		ts, ok := r.dom.MachineState(tv)
		speed := tvSpeed(tv)
		best := math.Inf(1)
		if ok && speed > 0 {
			for _, s := range r.dom.Silos() {
				sd, _ := r.dom.Silo(s)
				for _, ap := range sd.Accesses {
					if d := ts.Pos.Dist(ap.Pos) / speed; d < best {
						best = d
					}
				}
			}
		}
		fallback = append(fallback, fullTV{tv: tv, dist: best})
	}
	sort.SliceStable(fallback, func(i, j int) bool { return fallback[i].dist < fallback[j].dist })

	harvTVCount := make(map[addrs.Ref]int, len(harvs))
	generated, assignedTurns, i := 0, 0, 0
	for generated < set.TVAssignCount && len(queue) > 0 {
		if i >= len(queue) {
			i = 0
		}
		h := queue[i]
		if harvTVCount[h] >= set.TVsPerHarvester {
			queue = append(queue[:i], queue[i+1:]...)
			continue
		}

		chosen, found := addrs.Ref{}, false
		if tv, ok := overloading[h]; ok && !assigned[tv] {
			chosen, found = tv, true
			delete(overloading, h)
		}
		if !found {
			chosen, found = closestFreeTV(h)
		}
		if !found {
			for idx, ft := range fallback {
				if !assigned[ft.tv] {
					chosen, found = ft.tv, true
					fallback = append(fallback[:idx], fallback[idx+1:]...)
					break
				}
			}
		}
		if !found {
			queue = append(queue[:i], queue[i+1:]...)
			continue
		}

		assigned[chosen] = true
		harvTVCount[h]++
		turnOrder, cyclic := -1, false
		if assignedTurns < set.TVTurnsCount {
			turnOrder = harvTVCount[h] - 1
			cyclic = set.CyclicTurns
			assignedTurns++
		}
		out.Put(chosen, domain.TVPreAssignment{TVRef: chosen, HarvesterRef: h, Order: turnOrder, Cyclic: cyclic})
		generated++

		if harvTVCount[h] >= set.TVsPerHarvester {
			queue = append(queue[:i], queue[i+1:]...)
			continue
		}
		i++
	}
	return out
}

func (r *Resolver) checkFieldTurns(c *diags.Collector, a Assignments) {
	turnsByHarvester := make(map[addrs.Ref][]int)
	a.Fields.Range(func(f addrs.Ref, pa domain.FieldPreAssignment) bool {
		if _, ok := r.dom.Machine(pa.HarvesterRef); !ok {
			c.BuildError(
				fmt.Sprintf("field %s is pre-assigned to unknown harvester %s", f, pa.HarvesterRef),
				"",
			)
			return true
		}
		if pa.Turn > 0 {
			turnsByHarvester[pa.HarvesterRef] = append(turnsByHarvester[pa.HarvesterRef], pa.Turn)
		}
		return true
	})
	for h, turns := range turnsByHarvester {
		sort.Ints(turns)
		for i, t := range turns {
			want := i + 1
			if t != want {
				r.log.Warn("pre-assigned turn sequence has a gap", "harvester", h.String(), "expected", want, "got", t)
				c.Degeneracy(
					fmt.Sprintf("harvester %s's pre-assigned turns skip from %d", h, want-1),
					fmt.Sprintf("next pre-assigned turn is %d", t),
				)
			}
		}
	}
}

func (r *Resolver) checkTVRotations(c *diags.Collector, a Assignments) {
	byHarvester := make(map[addrs.Ref][]domain.TVPreAssignment)
	a.TVs.Range(func(tv addrs.Ref, pa domain.TVPreAssignment) bool {
		if _, ok := r.dom.Machine(pa.HarvesterRef); !ok {
			c.BuildError(
				fmt.Sprintf("TV %s is pre-assigned to unknown harvester %s", tv, pa.HarvesterRef),
				"",
			)
			return true
		}
		byHarvester[pa.HarvesterRef] = append(byHarvester[pa.HarvesterRef], pa)
		return true
	})
	for h, assigns := range byHarvester {
		ordered, unordered := 0, 0
		cyclic, nonCyclic := 0, 0
		seenOrder := make(map[int]addrs.Ref)
		for _, a := range assigns {
			if a.Order < 0 {
				unordered++
				continue
			}
			ordered++
			if a.Cyclic {
				cyclic++
			} else {
				nonCyclic++
			}
			if other, exists := seenOrder[a.Order]; exists {
				c.BuildError(
					fmt.Sprintf("harvester %s has two TVs at rotation order %d", h, a.Order),
					fmt.Sprintf("%s and %s", other, a.TVRef),
				)
			}
			seenOrder[a.Order] = a.TVRef
		}
		if ordered > 0 && unordered > 0 {
			r.log.Warn("harvester mixes ordered and unordered TV pre-assignments", "harvester", h.String())
			c.Degeneracy(
				fmt.Sprintf("harvester %s mixes ordered and unordered pre-assigned TVs", h),
				fmt.Sprintf("%d ordered, %d unordered", ordered, unordered),
			)
		}
		if cyclic > 0 && nonCyclic > 0 {
			c.BuildError(
				fmt.Sprintf("harvester %s's pre-assigned TVs disagree on cyclic vs non-cyclic rotation", h),
				"",
			)
		}
	}
}
