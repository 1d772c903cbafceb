// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package config

import (
	"time"
)

// Limit bounds one route. A zero Interval disables rate limiting and a
// zero Max disables the concurrency limit.
type Limit struct {
	Interval time.Duration `config:"interval"`
	Burst    int           `config:"burst"`
	Max      int64         `config:"max"`
	MaxBody  int64         `config:"max_body_byte_size"`
}

type ServerLimits struct {
	MaxConnections int `config:"max_connections"`

	StatusLimit    Limit `config:"status_limit"`
	OperatorsLimit Limit `config:"operators_limit"`
	FieldsLimit    Limit `config:"fields_limit"`
	FiltersLimit   Limit `config:"filters_limit"`
	SampleLimit    Limit `config:"sample_limit"`
	TransformLimit Limit `config:"transform_limit"`
	RollupLimit    Limit `config:"rollup_limit"`
}

// InitDefaults initializes the defaults for the configuration.
func (c *ServerLimits) InitDefaults() {
	c.MaxConnections = 0 // unlimited

	c.StatusLimit = Limit{Interval: 5 * time.Millisecond, Burst: 25, Max: 50}
	c.OperatorsLimit = Limit{Interval: time.Millisecond, Burst: 100, Max: 100}
	c.FieldsLimit = Limit{Interval: 5 * time.Millisecond, Burst: 50, Max: 50}
	c.FiltersLimit = Limit{Interval: time.Millisecond, Burst: 100, Max: 100, MaxBody: 256 * 1024}
	c.SampleLimit = Limit{Interval: 10 * time.Millisecond, Burst: 20, Max: 20, MaxBody: 256 * 1024}
	c.TransformLimit = Limit{Interval: 50 * time.Millisecond, Burst: 10, Max: 10, MaxBody: 1024 * 1024}
	c.RollupLimit = Limit{Interval: 50 * time.Millisecond, Burst: 10, Max: 10, MaxBody: 256 * 1024}
}
