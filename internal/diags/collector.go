// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package diags

// Collector accumulates diagnostics during one encoding/decoding pass. Its
// PedanticMode, if set, promotes every appended warning to an error --
// the injected, non-global replacement for the teacher's
// `tfdiags.PedanticMode` package variable (see package doc).
type Collector struct {
	PedanticMode bool
	diags        Diagnostics
}

// NewCollector returns a Collector with the given pedantic-mode setting.
func NewCollector(pedantic bool) *Collector {
	return &Collector{PedanticMode: pedantic}
}

// Append adds d to the collection, promoting its severity if
// PedanticMode is set.
func (c *Collector) Append(d Diagnostic) {
	if c.PedanticMode {
		d.Severity = ErrorLevel
	}
	c.diags = append(c.diags, d)
}

// BuildError records a spec.md §7 class 1 build-time infeasibility.
func (c *Collector) BuildError(summary, detail string) {
	c.Append(Diagnostic{Severity: ErrorLevel, Class: ClassBuildInfeasible, Summary: summary, Detail: detail})
}

// Degeneracy records a spec.md §7 class 4 numeric degeneracy that was
// corrected with a safe default. It is a warning unless nothing could be
// done about it (no safe default existed), in which case call
// BuildError instead.
func (c *Collector) Degeneracy(summary, detail string) {
	c.Append(Diagnostic{Severity: WarningLevel, Class: ClassNumericDegeneracy, Summary: summary, Detail: detail})
}

// DecodeError records a spec.md §7 class 5 decoder inconsistency.
func (c *Collector) DecodeError(summary, detail string) {
	c.Append(Diagnostic{Severity: ErrorLevel, Class: ClassDecodeInconsistency, Summary: summary, Detail: detail})
}

// Diagnostics returns the accumulated diagnostics, with warnings
// consolidated.
func (c *Collector) Diagnostics() Diagnostics {
	return c.diags.ConsolidateWarnings()
}

// Err returns nil if no error-level diagnostic was recorded, or an error
// summarizing all of them otherwise. Callers that need to return a plain
// `error` from a function that otherwise threads Diagnostics (e.g.
// satisfying an existing interface) use this.
func (c *Collector) Err() error {
	errs := c.Diagnostics().Errors()
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Error implements the error interface for Diagnostics so that
// Collector.Err can return it directly.
func (ds Diagnostics) Error() string {
	if len(ds) == 1 {
		return ds[0].String()
	}
	s := ""
	for i, d := range ds {
		if i > 0 {
			s += "; "
		}
		s += d.String()
	}
	return s
}
