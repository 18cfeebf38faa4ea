// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package addrs

// Map associates a value of type V with each distinct address of type K.
//
// This is the value-carrying counterpart to [Set], following the same
// UniqueKeyer-indirection shape: map.go did not ship in the retrieved
// teacher tree, so this is written as the natural generalization of
// set.go from "member" to "member with an associated value", which the
// fluent registry, State and Problem object catalog all need to key
// data by (fluent name, object tuple) or by object reference directly.
type Map[K UniqueKeyer, V any] struct {
	keys   map[UniqueKey]K
	values map[UniqueKey]V
}

// MakeMap returns a new, empty Map.
func MakeMap[K UniqueKeyer, V any]() Map[K, V] {
	return Map[K, V]{
		keys:   make(map[UniqueKey]K),
		values: make(map[UniqueKey]V),
	}
}

// Get returns the value associated with k, if any.
func (m Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.values[k.UniqueKey()]
	return v, ok
}

// Put associates v with k, overwriting any previous association.
func (m Map[K, V]) Put(k K, v V) {
	uk := k.UniqueKey()
	m.keys[uk] = k
	m.values[uk] = v
}

// Has reports whether k has an associated value.
func (m Map[K, V]) Has(k K) bool {
	_, ok := m.values[k.UniqueKey()]
	return ok
}

// Delete removes any value associated with k.
func (m Map[K, V]) Delete(k K) {
	uk := k.UniqueKey()
	delete(m.keys, uk)
	delete(m.values, uk)
}

// Len returns the number of entries in the map.
func (m Map[K, V]) Len() int {
	return len(m.values)
}

// Keys returns all keys currently in the map, in a pseudorandom order.
func (m Map[K, V]) Keys() []K {
	ret := make([]K, 0, len(m.keys))
	for _, k := range m.keys {
		ret = append(ret, k)
	}
	return ret
}

// Range calls f once per entry, in a pseudorandom order. If f returns
// false, Range stops early.
func (m Map[K, V]) Range(f func(K, V) bool) {
	for uk, k := range m.keys {
		if !f(k, m.values[uk]) {
			return
		}
	}
}
