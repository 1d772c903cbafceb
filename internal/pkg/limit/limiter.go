// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package limit rate limits and bounds concurrency of the API routes.
package limit

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/elastic/index-filter-server/v7/internal/pkg/config"
)

// Route names
const (
	RouteStatus    = "status"
	RouteOperators = "operators"
	RouteFields    = "fields"
	RouteFilters   = "filters"
	RouteSample    = "sample"
	RouteTransform = "transform"
	RouteRollup    = "rollup"
)

// Limiter enforces the limits of each API route.
type Limiter struct {
	routes  map[string]*limiter
	log     zerolog.Logger
	onError ErrorWriter
}

// NewLimiter creates a Limiter from the server limits. Both transform routes
// share one limiter.
func NewLimiter(addr string, cfg *config.ServerLimits, opts ...Option) *Limiter {
	l := &Limiter{
		routes: map[string]*limiter{
			RouteStatus:    newLimiter(&cfg.StatusLimit),
			RouteOperators: newLimiter(&cfg.OperatorsLimit),
			RouteFields:    newLimiter(&cfg.FieldsLimit),
			RouteFilters:   newLimiter(&cfg.FiltersLimit),
			RouteSample:    newLimiter(&cfg.SampleLimit),
			RouteTransform: newLimiter(&cfg.TransformLimit),
			RouteRollup:    newLimiter(&cfg.RollupLimit),
		},
		log:     log.With().Str("addr", addr).Logger(),
		onError: plainError,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wrap wraps the handler of route with its limiter and tracks statistics for
// the route. A route without limits is passed through unlimited.
func (l *Limiter) Wrap(route string, level zerolog.Level, h httprouter.Handle, i StatIncer) httprouter.Handle {
	rl, ok := l.routes[route]
	if !ok {
		rl = &limiter{}
	}
	return rl.wrap(l.log.With().Str("route", route).Logger(), level, h, i, l.onError)
}

// StatIncer is the interface used to count statistics associated with an endpoint.
type StatIncer interface {
	IncError(error)
	IncStart() func()
}

type releaseFunc func()

type limiter struct {
	rateLimit *rate.Limiter
	maxLimit  *semaphore.Weighted
}

func newLimiter(cfg *config.Limit) *limiter {
	if cfg == nil {
		return &limiter{}
	}

	l := &limiter{}

	if cfg.Interval != time.Duration(0) {
		l.rateLimit = rate.NewLimiter(rate.Every(cfg.Interval), cfg.Burst)
	}

	if cfg.Max != 0 {
		l.maxLimit = semaphore.NewWeighted(cfg.Max)
	}

	return l
}

func (l *limiter) acquire() (releaseFunc, error) {
	releaseFunc := noop

	if l.rateLimit != nil && !l.rateLimit.Allow() {
		return nil, ErrRateLimit
	}

	if l.maxLimit != nil {
		if !l.maxLimit.TryAcquire(1) {
			return nil, ErrMaxLimit
		}
		releaseFunc = l.release
	}

	return releaseFunc, nil
}

func (l *limiter) release() {
	if l.maxLimit != nil {
		l.maxLimit.Release(1)
	}
}

func (l *limiter) wrap(logger zerolog.Logger, level zerolog.Level, h httprouter.Handle, i StatIncer, onError ErrorWriter) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		dfunc := i.IncStart()
		defer dfunc()

		lf, err := l.acquire()
		if err != nil {
			logger.WithLevel(level).Err(err).Msg("limit reached")
			onError(w, r, err)
			i.IncError(err)
			return
		}
		defer lf()
		h(w, r, p)
	}
}

func noop() {
}
