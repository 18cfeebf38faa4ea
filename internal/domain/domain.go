// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package domain

import (
	"fmt"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
)

// Domain is the immutable entity catalog and initial-state snapshot of
// one scenario. It is built once via [NewBuilder] and never mutated
// afterward (spec.md §3); Problem objects and planner State are derived
// from it but never write back into it.
//
// This is the Go counterpart to the original Python source's
// GlobalDataManager: it owns the catalog and the numeric-degeneracy
// Defaults, but none of the route-planning, file I/O or visualisation
// responsibilities that class also carried, all of which are out of
// scope here.
type Domain struct {
	defaults Defaults

	fields   addrs.Map[addrs.Ref, Field]
	accesses addrs.Map[addrs.Ref, FieldAccessPoint]
	silos    addrs.Map[addrs.Ref, Silo]
	silosAcc addrs.Map[addrs.Ref, SiloAccessPoint]
	machines addrs.Map[addrs.Ref, Machine]

	fieldOrder   []addrs.Ref
	siloOrder    []addrs.Ref
	harvesters   []addrs.Ref
	tvs          []addrs.Ref
	compactors   []addrs.Ref

	fieldStates   addrs.Map[addrs.Ref, FieldState]
	machineStates addrs.Map[addrs.Ref, MachineState]

	fieldPreAssign addrs.Map[addrs.Ref, FieldPreAssignment]
	tvPreAssign    addrs.Map[addrs.Ref, TVPreAssignment]
}

// Builder accumulates entities before Finish produces an immutable
// Domain.
type Builder struct {
	d   Domain
	err error
}

func NewBuilder(defaults Defaults) *Builder {
	return &Builder{d: Domain{
		defaults:      defaults,
		fields:        addrs.MakeMap[addrs.Ref, Field](),
		accesses:      addrs.MakeMap[addrs.Ref, FieldAccessPoint](),
		silos:         addrs.MakeMap[addrs.Ref, Silo](),
		silosAcc:      addrs.MakeMap[addrs.Ref, SiloAccessPoint](),
		machines:      addrs.MakeMap[addrs.Ref, Machine](),
		fieldStates:   addrs.MakeMap[addrs.Ref, FieldState](),
		machineStates: addrs.MakeMap[addrs.Ref, MachineState](),
		fieldPreAssign: addrs.MakeMap[addrs.Ref, FieldPreAssignment](),
		tvPreAssign:    addrs.MakeMap[addrs.Ref, TVPreAssignment](),
	}}
}

func (b *Builder) AddField(f Field, st FieldState) *Builder {
	b.d.fields.Put(f.Ref, f)
	b.d.fieldOrder = append(b.d.fieldOrder, f.Ref)
	for _, ap := range f.AccessPoints {
		b.d.accesses.Put(ap.Ref, ap)
	}
	b.d.fieldStates.Put(f.Ref, st)
	return b
}

func (b *Builder) AddSilo(s Silo) *Builder {
	b.d.silos.Put(s.Ref, s)
	b.d.siloOrder = append(b.d.siloOrder, s.Ref)
	for _, ap := range s.Accesses {
		b.d.silosAcc.Put(ap.Ref, ap)
	}
	return b
}

func (b *Builder) AddMachine(m Machine, st MachineState) *Builder {
	b.d.machines.Put(m.Ref, m)
	switch m.Kind {
	case MachineHarvester:
		b.d.harvesters = append(b.d.harvesters, m.Ref)
	case MachineTransportVehicle:
		b.d.tvs = append(b.d.tvs, m.Ref)
	case MachineCompactor:
		b.d.compactors = append(b.d.compactors, m.Ref)
	}
	b.d.machineStates.Put(m.Ref, st)
	return b
}

func (b *Builder) AddFieldPreAssignment(p FieldPreAssignment) *Builder {
	b.d.fieldPreAssign.Put(p.FieldRef, p)
	return b
}

func (b *Builder) AddTVPreAssignment(p TVPreAssignment) *Builder {
	if prior, ok := b.d.tvPreAssign.Get(p.TVRef); ok && prior.HarvesterRef != p.HarvesterRef && b.err == nil {
		b.err = fmt.Errorf("tv %s is pre-bound to both %s and %s", p.TVRef, prior.HarvesterRef, p.HarvesterRef)
	}
	b.d.tvPreAssign.Put(p.TVRef, p)
	return b
}

// Finish validates cross-entity invariants (spec.md §3's pre-assignment
// consistency rules) and returns the immutable Domain.
func (b *Builder) Finish() (*Domain, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	d := b.d
	return &d, nil
}

func (b *Builder) validate() error {
	seenTV := make(map[addrs.Ref]addrs.Ref) // tv -> harvester
	var errs []error
	if b.err != nil {
		errs = append(errs, b.err)
	}
	b.d.tvPreAssign.Range(func(tv addrs.Ref, p TVPreAssignment) bool {
		if prior, ok := seenTV[tv]; ok && prior != p.HarvesterRef {
			errs = append(errs, fmt.Errorf("tv %s is pre-bound to both %s and %s", tv, prior, p.HarvesterRef))
		}
		seenTV[tv] = p.HarvesterRef
		return true
	})
	turnsPerHarvester := make(map[addrs.Ref]map[int]addrs.Ref)
	b.d.fieldPreAssign.Range(func(field addrs.Ref, p FieldPreAssignment) bool {
		if p.Turn == 0 {
			return true
		}
		m, ok := turnsPerHarvester[p.HarvesterRef]
		if !ok {
			m = make(map[int]addrs.Ref)
			turnsPerHarvester[p.HarvesterRef] = m
		}
		if other, exists := m[p.Turn]; exists && other != field {
			errs = append(errs, fmt.Errorf("harvester %s has two fields pre-assigned to turn %d: %s and %s", p.HarvesterRef, p.Turn, other, field))
		}
		m[p.Turn] = field
		return true
	})
	if len(errs) == 0 {
		return nil
	}
	return joinErrors(errs)
}

// Field, FieldAccessPoint, Silo, SiloAccessPoint and Machine lookups.

func (d *Domain) Field(ref addrs.Ref) (Field, bool)             { return d.fields.Get(ref) }
func (d *Domain) FieldAccess(ref addrs.Ref) (FieldAccessPoint, bool) { return d.accesses.Get(ref) }
func (d *Domain) Silo(ref addrs.Ref) (Silo, bool)                { return d.silos.Get(ref) }
func (d *Domain) SiloAccess(ref addrs.Ref) (SiloAccessPoint, bool) { return d.silosAcc.Get(ref) }
func (d *Domain) Machine(ref addrs.Ref) (Machine, bool)          { return d.machines.Get(ref) }
func (d *Domain) FieldState(ref addrs.Ref) (FieldState, bool)    { return d.fieldStates.Get(ref) }
func (d *Domain) MachineState(ref addrs.Ref) (MachineState, bool) {
	return d.machineStates.Get(ref)
}
func (d *Domain) FieldPreAssignment(ref addrs.Ref) (FieldPreAssignment, bool) {
	return d.fieldPreAssign.Get(ref)
}
func (d *Domain) TVPreAssignment(ref addrs.Ref) (TVPreAssignment, bool) {
	return d.tvPreAssign.Get(ref)
}

func (d *Domain) Defaults() Defaults { return d.defaults }

// Fields, Silos, Harvesters, TVs and Compactors enumerate entities of
// one kind in stable registration order.
func (d *Domain) Fields() []addrs.Ref     { return append([]addrs.Ref(nil), d.fieldOrder...) }
func (d *Domain) Silos() []addrs.Ref      { return append([]addrs.Ref(nil), d.siloOrder...) }
func (d *Domain) Harvesters() []addrs.Ref { return append([]addrs.Ref(nil), d.harvesters...) }
func (d *Domain) TVs() []addrs.Ref        { return append([]addrs.Ref(nil), d.tvs...) }
func (d *Domain) Compactors() []addrs.Ref { return append([]addrs.Ref(nil), d.compactors...) }
