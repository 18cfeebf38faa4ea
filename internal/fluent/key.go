// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package fluent

import (
	"strings"

	"github.com/aiplan4eu/tsb-agriculture-sub001/internal/addrs"
)

// Key identifies one grounded fluent: a registered fluent Name applied to
// a concrete tuple of object Args. This is what planner State is keyed
// by, per Design Notes §9 ("State as a dense vector keyed by fluent index
// and object-tuple index").
type Key struct {
	Name string
	Args []addrs.Ref
}

// Ground returns the Key naming this fluent applied to the given
// arguments.
func Ground(name string, args ...addrs.Ref) Key {
	return Key{Name: name, Args: args}
}

func (k Key) UniqueKey() addrs.UniqueKey {
	return addrs.Opaque(k.String())
}

// String renders a Key as "name(arg1,arg2,...)", used for logging,
// debug-heuristic snapshots and test fixtures.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Name)
	b.WriteByte('(')
	for i, a := range k.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}
