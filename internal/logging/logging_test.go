// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
)

func TestDiscardDropsOutput(t *testing.T) {
	log := Discard("test")
	log.Info("should not appear", "k", "v")
	assert.Equal(t, hclog.Off, log.GetLevel())
}

func TestNewWritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	log := New("encoder", hclog.Info, &buf)
	log.Info("hello", "count", 3)
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "encoder")
}

func TestNewAtWarnLevelDropsInfoMessages(t *testing.T) {
	var buf bytes.Buffer
	log := New("decoder", hclog.Warn, &buf)
	log.Info("should be filtered out")
	assert.Empty(t, buf.String())
}
