// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"context"
	"errors"

	"github.com/elastic/beats/v7/libbeat/monitoring"

	"github.com/elastic/index-filter-server/v7/internal/pkg/build"
	"github.com/elastic/index-filter-server/v7/internal/pkg/es"
	"github.com/elastic/index-filter-server/v7/internal/pkg/limit"
)

var (
	registry *monitoring.Registry

	cntHTTPNew   *monitoring.Uint
	cntHTTPClose *monitoring.Uint

	cntStatus    routeStats
	cntOperators routeStats
	cntFields    fieldStats
	cntFilters   routeStats
	cntSample    routeStats
	cntBuild     routeStats
	cntPreview   routeStats
	cntRollup    routeStats
)

func init() {
	registry = monitoring.Default.NewRegistry("http_server")
	cntHTTPNew = monitoring.NewUint(registry, "tcp_open")
	cntHTTPClose = monitoring.NewUint(registry, "tcp_close")

	routesRegistry := registry.NewRegistry("routes")

	cntStatus.Register(routesRegistry.NewRegistry("status"))
	cntOperators.Register(routesRegistry.NewRegistry("operators"))
	cntFields.Register(routesRegistry.NewRegistry("fields"))
	cntFilters.Register(routesRegistry.NewRegistry("filters"))
	cntSample.Register(routesRegistry.NewRegistry("sample"))
	cntBuild.Register(routesRegistry.NewRegistry("transform_build"))
	cntPreview.Register(routesRegistry.NewRegistry("transform_preview"))
	cntRollup.Register(routesRegistry.NewRegistry("rollup_build"))
}

// InitMetrics publishes the service name and version in the info namespace.
func InitMetrics(bi build.Info) {
	info := monitoring.GetNamespace("info").GetRegistry()
	if info.Get("version") == nil {
		monitoring.NewString(info, "version").Set(bi.Version)
	}
	if info.Get("name") == nil {
		monitoring.NewString(info, "name").Set(build.ServiceName)
	}
}

// Stats returns a flat snapshot of the HTTP server counters.
func Stats() map[string]int64 {
	return monitoring.CollectFlatSnapshot(registry, monitoring.Full, false).Ints
}

type routeStats struct {
	active    *monitoring.Uint
	total     *monitoring.Uint
	rateLimit *monitoring.Uint
	maxLimit  *monitoring.Uint
	failure   *monitoring.Uint
	drop      *monitoring.Uint
	bodyIn    *monitoring.Uint
	bodyOut   *monitoring.Uint
}

func (rt *routeStats) Register(registry *monitoring.Registry) {
	rt.active = monitoring.NewUint(registry, "active")
	rt.total = monitoring.NewUint(registry, "total")
	rt.rateLimit = monitoring.NewUint(registry, "limit_rate")
	rt.maxLimit = monitoring.NewUint(registry, "limit_max")
	rt.failure = monitoring.NewUint(registry, "fail")
	rt.drop = monitoring.NewUint(registry, "drop")
	rt.bodyIn = monitoring.NewUint(registry, "body_in")
	rt.bodyOut = monitoring.NewUint(registry, "body_out")
}

func (rt *routeStats) IncError(err error) {
	switch {
	case errors.Is(err, limit.ErrRateLimit):
		rt.rateLimit.Inc()
	case errors.Is(err, limit.ErrMaxLimit):
		rt.maxLimit.Inc()
	case errors.Is(err, context.Canceled):
		rt.drop.Inc()
	default:
		rt.failure.Inc()
	}
}

func (rt *routeStats) IncStart() func() {
	rt.total.Inc()
	rt.active.Inc()
	return rt.active.Dec
}

type fieldStats struct {
	routeStats
	notFound  *monitoring.Uint
	cacheHit  *monitoring.Uint
	cacheMiss *monitoring.Uint
}

func (rt *fieldStats) Register(registry *monitoring.Registry) {
	rt.routeStats.Register(registry)
	rt.notFound = monitoring.NewUint(registry, "not_found")
	rt.cacheHit = monitoring.NewUint(registry, "cache_hit")
	rt.cacheMiss = monitoring.NewUint(registry, "cache_miss")
}

func (rt *fieldStats) IncError(err error) {
	if errors.Is(err, es.ErrIndexNotFound) {
		rt.notFound.Inc()
		return
	}
	rt.routeStats.IncError(err)
}
