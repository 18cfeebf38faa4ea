// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package logging provides the injected logger handle used throughout
// the core, replacing the original source's module-level
// `PRINT_ACTION_MESSAGES` flag (Design Notes §9) with an explicit
// [hclog.Logger] passed into the encoder, pre-assignment resolver and
// decoder at construction.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Logger is the handle every core component accepts; it is never read
// from a package-level variable.
type Logger = hclog.Logger

// New returns a logger named for one core component (e.g. "encoder",
// "preassign", "decoder"), writing to w at the given level.
func New(name string, level hclog.Level, w io.Writer) Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  level,
		Output: w,
	})
}

// Discard returns a logger that drops everything, for tests and for
// callers that don't want diagnostic output.
func Discard(name string) Logger {
	return New(name, hclog.Off, io.Discard)
}

// Default returns a logger writing to stderr at Info level, the
// reasonable default for a library caller that hasn't configured
// anything.
func Default(name string) Logger {
	return New(name, hclog.Info, os.Stderr)
}
