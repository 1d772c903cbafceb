// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package config

import (
	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
)

// DefaultOptions defaults options used to read the configuration
var DefaultOptions = []ucfg.Option{
	ucfg.PathSep("."),
	ucfg.ResolveEnv,
	ucfg.VarExp,
}

// Config is the global configuration.
type Config struct {
	Elasticsearch Elasticsearch `config:"elasticsearch"`
	Server        Server        `config:"server"`
	Cache         Cache         `config:"cache"`
	Logging       Logging       `config:"logging"`
	Transform     Transform     `config:"transform"`
}

// InitDefaults initializes the defaults for the configuration.
func (c *Config) InitDefaults() {
	c.Elasticsearch.InitDefaults()
	c.Server.InitDefaults()
	c.Cache.InitDefaults()
	c.Logging.InitDefaults()
	c.Transform.InitDefaults()
}

// FromConfig unpacks an already parsed configuration.
func FromConfig(c *ucfg.Config) (*Config, error) {
	var cfg Config
	if err := c.Unpack(&cfg, DefaultOptions...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile take a path and load the file and return a new configuration.
func LoadFile(path string) (*Config, error) {
	c, err := yaml.NewConfigWithFile(path, DefaultOptions...)
	if err != nil {
		return nil, err
	}
	return FromConfig(c)
}
