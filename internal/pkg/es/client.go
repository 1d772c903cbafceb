// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package es

import (
	"context"
	"net/http"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/rs/zerolog/log"
	"go.elastic.co/apm/module/apmelasticsearch"

	"github.com/elastic/index-filter-server/v7/internal/pkg/config"
)

type ConfigOption func(config *elasticsearch.Config)

// NewClient creates the cluster client and logs the cluster it talks to.
func NewClient(ctx context.Context, cfg *config.Config, opts ...ConfigOption) (*elasticsearch.Client, error) {
	escfg, err := cfg.Elasticsearch.ToESConfig()
	if err != nil {
		return nil, err
	}
	addr := cfg.Elasticsearch.Hosts
	user := cfg.Elasticsearch.Username
	mcph := cfg.Elasticsearch.MaxConnPerHost

	for _, opt := range opts {
		opt(&escfg)
	}

	log.Debug().
		Strs("addr", addr).
		Str("user", user).
		Int("maxConnsPersHost", mcph).
		Msg("init es")

	es, err := elasticsearch.NewClient(escfg)
	if err != nil {
		return nil, err
	}

	resp, err := Info(ctx, es)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("name", resp.ClusterName).
		Str("uuid", resp.ClusterUUID).
		Str("vers", resp.Version.Number).
		Msg("elasticsearch cluster info")

	return es, nil
}

// WithAPM traces every cluster request.
func WithAPM() ConfigOption {
	return func(config *elasticsearch.Config) {
		rt := config.Transport
		if rt == nil {
			rt = http.DefaultTransport
		}
		config.Transport = apmelasticsearch.WrapRoundTripper(rt)
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) ConfigOption {
	return func(config *elasticsearch.Config) {
		config.Transport = rt
	}
}
