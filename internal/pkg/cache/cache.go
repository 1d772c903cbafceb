// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package cache keeps flattened index field lists in memory.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/elastic/index-filter-server/v7/internal/pkg/config"
	"github.com/elastic/index-filter-server/v7/internal/pkg/logger"
	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
)

type Cache interface {
	Reconfigure(config.Cache) error

	SetFields(index string, fields []mapping.FieldDescriptor)
	GetFields(index string) ([]mapping.FieldDescriptor, bool)
}

type CacheT struct {
	cache Cacher
	cfg   config.Cache
	mut   sync.RWMutex
}

// New creates a new cache.
func New(cfg config.Cache) (*CacheT, error) {
	cache, err := newCache(cfg)
	if err != nil {
		return nil, err
	}

	c := CacheT{
		cache: cache,
		cfg:   cfg,
	}

	return &c, nil
}

// Reconfigure will drop cache
func (c *CacheT) Reconfigure(cfg config.Cache) error {
	c.mut.Lock()
	defer c.mut.Unlock()

	cache, err := newCache(cfg)
	if err != nil {
		return err
	}

	c.cache.Close()

	c.cfg = cfg
	c.cache = cache
	return nil
}

// SetFields stores the field list of index for the configured TTL.
// The list is shared with readers and must not be mutated afterwards.
func (c *CacheT) SetFields(index string, fields []mapping.FieldDescriptor) {
	c.mut.RLock()
	defer c.mut.RUnlock()

	scopedKey := "fields:" + index
	cost := len(index)
	for _, f := range fields {
		cost += len(f.Path) + len(f.Type)
	}

	ok := c.cache.SetWithTTL(scopedKey, fields, int64(cost), c.cfg.FieldsTTL)
	log.Trace().
		Bool("ok", ok).
		Str(logger.IndexName, index).
		Int(logger.FieldCount, len(fields)).
		Int("cost", cost).
		Msg("Fields cache SET")
}

// GetFields returns the cached field list of index.
func (c *CacheT) GetFields(index string) ([]mapping.FieldDescriptor, bool) {
	c.mut.RLock()
	defer c.mut.RUnlock()

	scopedKey := "fields:" + index
	if v, ok := c.cache.Get(scopedKey); ok {
		log.Trace().Str(logger.IndexName, index).Msg("Fields cache HIT")
		fields, ok := v.([]mapping.FieldDescriptor)
		if !ok {
			log.Error().Str(logger.IndexName, index).Msg("Fields cache cast fail")
			return nil, false
		}
		return fields, true
	}

	log.Trace().Str(logger.IndexName, index).Msg("Fields cache MISS")
	return nil, false
}
