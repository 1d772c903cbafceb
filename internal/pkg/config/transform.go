// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package config

import (
	"fmt"
	"strings"
)

const (
	defaultTransformAPIPrefix = "_opendistro"
	defaultTransformPageSize  = 1000
)

// Transform configures the cluster side transform plugin. PageSize is also
// the default page size of rollup jobs.
type Transform struct {
	APIPrefix string `config:"api_prefix"`
	PageSize  int    `config:"page_size"`
}

// InitDefaults initializes the defaults for the configuration.
func (c *Transform) InitDefaults() {
	c.APIPrefix = defaultTransformAPIPrefix
	c.PageSize = defaultTransformPageSize
}

// Validate ensures that the configuration is valid.
func (c *Transform) Validate() error {
	if strings.Trim(c.APIPrefix, "/") == "" {
		return fmt.Errorf("transform api_prefix cannot be empty")
	}
	if c.PageSize <= 0 || c.PageSize > 10000 {
		return fmt.Errorf("transform page_size must be between 1 and 10000")
	}
	return nil
}
