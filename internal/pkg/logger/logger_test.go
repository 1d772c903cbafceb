// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

//go:build !integration
// +build !integration

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/index-filter-server/v7/internal/pkg/config"
)

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Logging{Level: "info"}

	lg := configure(&cfg, &buf, "index-filter-server")
	lg.Info().Msg("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "index-filter-server", line[ECSServiceName])
	assert.Equal(t, "hello", line[ECSMessage])
	assert.Equal(t, "info", line[ECSLogLevel])
	assert.Contains(t, line, ECSTimestamp)
}

func TestConfigurePretty(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Logging{Level: "info", Pretty: true}

	lg := configure(&cfg, &buf, "")
	lg.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestTLSVersionToString(t *testing.T) {
	assert.Equal(t, "1.2", TLSVersionToString(0x0303))
	assert.Equal(t, "1.3", TLSVersionToString(0x0304))
	assert.Equal(t, "unknown_0xff", TLSVersionToString(0xff))
}
