// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"go.elastic.co/apm/module/apmhttprouter"

	"github.com/elastic/index-filter-server/v7/internal/pkg/build"
	"github.com/elastic/index-filter-server/v7/internal/pkg/cache"
	"github.com/elastic/index-filter-server/v7/internal/pkg/config"
	"github.com/elastic/index-filter-server/v7/internal/pkg/limit"
	"github.com/elastic/index-filter-server/v7/internal/pkg/rollup"
	"github.com/elastic/index-filter-server/v7/internal/pkg/transform"
)

const (
	RouteStatus           = "/api/status"
	RouteOperators        = "/api/operators"
	RouteFields           = "/api/indices/:index/fields"
	RouteFilters          = "/api/indices/:index/filters"
	RouteSample           = "/api/indices/:index/_sample"
	RouteTransformBuild   = "/api/transforms/_build"
	RouteTransformPreview = "/api/transforms/_preview"
	RouteRollupBuild      = "/api/rollups/_build"
)

// Router serves the filter API over one cluster connection.
type Router struct {
	cfg       *config.Config
	es        esapi.Transport
	cache     cache.Cache
	builder   *transform.Builder
	rollups   *rollup.Builder
	bi        build.Info
	esVersion string
}

type RouterOpt func(*Router)

// WithESVersion reports the cluster version on the status route.
func WithESVersion(v string) RouterOpt {
	return func(rt *Router) {
		rt.esVersion = v
	}
}

// NewRouter builds the route table. Every route is limited, counted and
// traced.
func NewRouter(cfg *config.Config, transport esapi.Transport, c cache.Cache, bi build.Info, opts ...RouterOpt) *httprouter.Router {
	rt := &Router{
		cfg:     cfg,
		es:      transport,
		cache:   c,
		builder: transform.NewBuilder(transform.WithPageSize(cfg.Transform.PageSize)),
		rollups: rollup.NewBuilder(rollup.WithPageSize(cfg.Transform.PageSize)),
		bi:      bi,
	}
	for _, opt := range opts {
		opt(rt)
	}

	limiter := limit.NewLimiter(cfg.Server.BindAddress(), &cfg.Server.Limits, limit.WithErrorWriter(ErrorResp))

	routes := []struct {
		method string
		path   string
		limit  string
		level  zerolog.Level
		handle httprouter.Handle
		stats  limit.StatIncer
	}{
		{http.MethodGet, RouteStatus, limit.RouteStatus, zerolog.DebugLevel, rt.handleStatus, &cntStatus},
		{http.MethodGet, RouteOperators, limit.RouteOperators, zerolog.DebugLevel, rt.handleOperators, &cntOperators},
		{http.MethodGet, RouteFields, limit.RouteFields, zerolog.WarnLevel, rt.handleFields, &cntFields},
		{http.MethodPost, RouteFilters, limit.RouteFilters, zerolog.DebugLevel, rt.handleFilters, &cntFilters},
		{http.MethodPost, RouteSample, limit.RouteSample, zerolog.WarnLevel, rt.handleSample, &cntSample},
		{http.MethodPost, RouteTransformBuild, limit.RouteTransform, zerolog.DebugLevel, rt.handleTransformBuild, &cntBuild},
		{http.MethodPost, RouteTransformPreview, limit.RouteTransform, zerolog.WarnLevel, rt.handleTransformPreview, &cntPreview},
		{http.MethodPost, RouteRollupBuild, limit.RouteRollup, zerolog.DebugLevel, rt.handleRollupBuild, &cntRollup},
	}

	router := httprouter.New()
	for _, r := range routes {
		h := limiter.Wrap(r.limit, r.level, r.handle, r.stats)
		router.Handle(r.method, r.path, apmhttprouter.Wrap(h, r.path))
	}
	return router
}
