// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"github.com/elastic/index-filter-server/v7/internal/pkg/build"
)

const kStatusHealthy = "HEALTHY"

func (rt *Router) handleStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resp := StatusResponse{
		Name:   build.ServiceName,
		Status: kStatusHealthy,
		Version: StatusResponseVersion{
			Number:    rt.bi.Version,
			BuildHash: rt.bi.Commit,
		},
		Elasticsearch: rt.esVersion,
		Stats:         Stats(),
	}
	if !rt.bi.BuildTime.IsZero() {
		resp.Version.BuildTime = rt.bi.BuildTime.Format(time.RFC3339)
	}

	if err := writeJSON(w, r, &cntStatus, &resp); err != nil {
		cntStatus.IncError(err)
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("fail status")
	}
}
