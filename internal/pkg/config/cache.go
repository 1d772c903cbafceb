// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package config

import (
	"time"
)

const (
	defaultCacheNumCounters = 100000           // 10x times expected count
	defaultCacheMaxCost     = 20 * 1024 * 1024 // 20MiB cache size
	defaultFieldsTTL        = time.Minute
)

// Cache is the configuration of the flattened field list cache.
type Cache struct {
	NumCounters int64         `config:"num_counters"`
	MaxCost     int64         `config:"max_cost"`
	FieldsTTL   time.Duration `config:"fields_ttl"`
}

// InitDefaults initializes the defaults for the configuration.
func (c *Cache) InitDefaults() {
	c.NumCounters = defaultCacheNumCounters
	c.MaxCost = defaultCacheMaxCost
	c.FieldsTTL = defaultFieldsTTL
}
