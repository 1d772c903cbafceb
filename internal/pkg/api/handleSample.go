// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/elastic/index-filter-server/v7/internal/pkg/dl"
	"github.com/elastic/index-filter-server/v7/internal/pkg/es"
)

func (rt *Router) handleSample(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := rt.processSample(w, r, ps.ByName("index")); err != nil {
		cntSample.IncError(err)
		ErrorResp(w, r, err)
	}
}

func (rt *Router) processSample(w http.ResponseWriter, r *http.Request, index string) error {
	var req SampleRequest
	if err := readJSON(w, r, rt.cfg.Server.Limits.SampleLimit.MaxBody, &cntSample, &req); err != nil {
		return err
	}
	if req.Size < 0 || req.Size > dl.MaxSampleSize {
		return errors.Wrapf(dl.ErrInvalidSize, "size %d must be between 0 and %d", req.Size, dl.MaxSampleSize)
	}
	if req.Size == 0 {
		req.Size = dl.DefaultSampleSize
	}

	query, err := rt.compile(r.Context(), index, req.FiltersRequest)
	if err != nil {
		return err
	}

	hits, err := dl.SearchSample(r.Context(), rt.es, index, query, req.Size)
	if err != nil {
		return err
	}

	resp := SampleResponse{
		Total:    hits.Total.Value,
		Relation: hits.Total.Relation,
		Hits:     hits.Hits,
	}
	if resp.Hits == nil {
		resp.Hits = []es.HitT{}
	}
	return writeJSON(w, r, &cntSample, &resp)
}
