// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"github.com/elastic/index-filter-server/v7/internal/pkg/dl"
	"github.com/elastic/index-filter-server/v7/internal/pkg/logger"
	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
)

func (rt *Router) handleFields(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	index := ps.ByName("index")

	fields, err := rt.fields(r.Context(), index)
	if err == nil {
		err = writeJSON(w, r, &cntFields.routeStats, &FieldsResponse{Index: index, Fields: fields})
	}
	if err != nil {
		cntFields.IncError(err)
		ErrorResp(w, r, err)
	}
}

// fields returns the flattened fields of index from the cache, reading the
// mapping on a miss.
func (rt *Router) fields(ctx context.Context, index string) ([]mapping.FieldDescriptor, error) {
	if fields, ok := rt.cache.GetFields(index); ok {
		cntFields.cacheHit.Inc()
		return fields, nil
	}
	cntFields.cacheMiss.Inc()

	fields, err := dl.FetchFields(ctx, rt.es, index)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		fields = []mapping.FieldDescriptor{}
	}

	rt.cache.SetFields(index, fields)
	zerolog.Ctx(ctx).Debug().
		Str(logger.IndexName, index).
		Int(logger.FieldCount, len(fields)).
		Msg("index fields loaded")
	return fields, nil
}
