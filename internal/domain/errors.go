// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package domain

import "github.com/hashicorp/go-multierror"

// joinErrors collects every validation failure found while walking a
// scenario into a single error, rather than stopping at the first one
// (spec.md §7 class 1: build-time feasibility errors should be reported
// together).
func joinErrors(errs []error) error {
	var merr *multierror.Error
	for _, e := range errs {
		merr = multierror.Append(merr, e)
	}
	return merr.ErrorOrNil()
}
