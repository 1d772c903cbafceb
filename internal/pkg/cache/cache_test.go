// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

//go:build !integration
// +build !integration

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/index-filter-server/v7/internal/pkg/config"
	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
)

func testConfig() config.Cache {
	var cfg config.Cache
	cfg.InitDefaults()
	return cfg
}

func TestFieldsCache(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	fields := []mapping.FieldDescriptor{
		{Path: "status", Type: "keyword"},
		{Path: "bytes", Type: "long"},
	}

	_, ok := c.GetFields("logs")
	assert.False(t, ok)

	c.SetFields("logs", fields)

	// ristretto applies writes asynchronously
	require.Eventually(t, func() bool {
		_, ok := c.GetFields("logs")
		return ok
	}, time.Second, 5*time.Millisecond)

	got, _ := c.GetFields("logs")
	assert.Equal(t, fields, got)

	_, ok = c.GetFields("other")
	assert.False(t, ok)
}

func TestFieldsCacheTTL(t *testing.T) {
	cfg := testConfig()
	cfg.FieldsTTL = 50 * time.Millisecond

	c, err := New(cfg)
	require.NoError(t, err)

	c.SetFields("logs", []mapping.FieldDescriptor{{Path: "a", Type: "keyword"}})
	require.Eventually(t, func() bool {
		_, ok := c.GetFields("logs")
		return ok
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := c.GetFields("logs")
		return !ok
	}, 3*time.Second, 20*time.Millisecond)
}

func TestReconfigureDrops(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	c.SetFields("logs", []mapping.FieldDescriptor{{Path: "a", Type: "keyword"}})
	require.Eventually(t, func() bool {
		_, ok := c.GetFields("logs")
		return ok
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Reconfigure(testConfig()))

	_, ok := c.GetFields("logs")
	assert.False(t, ok)
}
