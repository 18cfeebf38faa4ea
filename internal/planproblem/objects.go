// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package planproblem

import "github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"

// ObjectCatalog is the set of symbolic objects a Problem is built over:
// one per entity in the Domain, plus the "no value" sentinel of every
// kind that appears (spec.md §4.3.1). It is derived from a Domain once
// and never mutated afterward.
type ObjectCatalog struct {
	byKind map[addrs.Kind][]addrs.Ref
}

// NewObjectCatalog starts an empty catalog.
func NewObjectCatalog() *ObjectCatalog {
	return &ObjectCatalog{byKind: make(map[addrs.Kind][]addrs.Ref)}
}

// Add registers ref under its own Kind, if not already present.
func (c *ObjectCatalog) Add(ref addrs.Ref) {
	list := c.byKind[ref.Kind()]
	for _, existing := range list {
		if existing == ref {
			return
		}
	}
	c.byKind[ref.Kind()] = append(list, ref)
}

// EnsureSentinel adds the "no value" object of kind k if not already
// present, returning it either way.
func (c *ObjectCatalog) EnsureSentinel(k addrs.Kind) addrs.Ref {
	sentinel := addrs.NoValue(k)
	c.Add(sentinel)
	return sentinel
}

// ByKind returns every object registered under kind k, in registration
// order (sentinel objects sort wherever they were added, matching
// spec.md §4.3.1's "sentinels are first-class members of their kind").
func (c *ObjectCatalog) ByKind(k addrs.Kind) []addrs.Ref {
	out := make([]addrs.Ref, len(c.byKind[k]))
	copy(out, c.byKind[k])
	return out
}

// Count returns the total number of distinct registered objects.
func (c *ObjectCatalog) Count() int {
	n := 0
	for _, list := range c.byKind {
		n += len(list)
	}
	return n
}
