// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package addrs

// UniqueKey is an opaque comparable value that stands in for an address
// for use as a map key.
type UniqueKey interface {
	uniqueKeySigil()
}

// UniqueKeyer is implemented by address-like types that can produce a
// [UniqueKey], so they can be stored in [Set] and [Map].
type UniqueKeyer interface {
	UniqueKey() UniqueKey
}

// OpaqueKey is a [UniqueKey] built directly from a string, for use by
// packages outside addrs whose own UniqueKeyer implementations are
// naturally string-keyed (e.g. fluent.Key) but that cannot implement the
// unexported uniqueKeySigil method themselves.
type OpaqueKey string

func (OpaqueKey) uniqueKeySigil() {}

// Opaque wraps s as a [UniqueKey].
func Opaque(s string) UniqueKey {
	return OpaqueKey(s)
}
