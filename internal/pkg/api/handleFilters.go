// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.elastic.co/apm"

	"github.com/elastic/index-filter-server/v7/internal/pkg/filter"
	"github.com/elastic/index-filter-server/v7/internal/pkg/logger"
	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
	"github.com/elastic/index-filter-server/v7/internal/pkg/validate"
)

func (rt *Router) handleFilters(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := rt.processFilters(w, r, ps.ByName("index")); err != nil {
		cntFilters.IncError(err)
		ErrorResp(w, r, err)
	}
}

func (rt *Router) processFilters(w http.ResponseWriter, r *http.Request, index string) error {
	var req FiltersRequest
	if err := readJSON(w, r, rt.cfg.Server.Limits.FiltersLimit.MaxBody, &cntFilters, &req); err != nil {
		return err
	}

	query, err := rt.compile(r.Context(), index, req)
	if err != nil {
		return err
	}

	return writeJSON(w, r, &cntFilters, &FiltersResponse{Query: query})
}

// compile turns a filters request into a query for index. A custom query is
// passed through once checked to be a JSON object.
func (rt *Router) compile(ctx context.Context, index string, req FiltersRequest) (interface{}, error) {
	span, ctx := apm.StartSpan(ctx, "compileFilters", "process")
	defer span.End()

	if err := validate.Struct(req); err != nil {
		return nil, errors.Wrap(ErrInvalidRequest, err.Error())
	}

	if len(req.Query) > 0 {
		if len(req.Conditions) > 0 {
			return nil, errors.Wrap(ErrInvalidRequest, "conditions and query are mutually exclusive")
		}
		return customQuery(req.Query)
	}

	var fields []mapping.FieldDescriptor
	if len(req.Conditions) > 0 {
		var err error
		if fields, err = rt.fields(ctx, index); err != nil {
			return nil, err
		}
	}

	conds := make([]filter.Condition, 0, len(req.Conditions))
	for i, c := range req.Conditions {
		resolved, err := filter.Resolve(fields, c)
		if err != nil {
			return nil, errors.WithMessagef(err, "condition %d", i)
		}
		conds = append(conds, resolved)
	}

	query, err := filter.CompileAll(conds)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str(logger.IndexName, index).
		Int(logger.ConditionsLen, len(conds)).
		Msg("filters compiled")
	return query, nil
}

func customQuery(raw json.RawMessage) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, errors.Wrap(ErrInvalidQuery, "query must be a JSON object")
	}
	return raw, nil
}
