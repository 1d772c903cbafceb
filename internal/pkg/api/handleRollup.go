// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"go.elastic.co/apm"

	"github.com/elastic/index-filter-server/v7/internal/pkg/logger"
	"github.com/elastic/index-filter-server/v7/internal/pkg/rollup"
)

func (rt *Router) handleRollupBuild(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := rt.processRollupBuild(w, r); err != nil {
		cntRollup.IncError(err)
		ErrorResp(w, r, err)
	}
}

func (rt *Router) processRollupBuild(w http.ResponseWriter, r *http.Request) error {
	var job rollup.Job
	if err := readJSON(w, r, rt.cfg.Server.Limits.RollupLimit.MaxBody, &cntRollup, &job); err != nil {
		return err
	}

	span, ctx := apm.StartSpan(r.Context(), "buildRollup", "process")
	defer span.End()

	// Reject a malformed job before asking the cluster for its mapping.
	if err := job.Validate(); err != nil {
		return err
	}

	fields, err := rt.fields(ctx, job.SourceIndex)
	if err != nil {
		return err
	}

	built, err := rt.rollups.Build(job, fields)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str(logger.RollupID, built.ID).
		Str(logger.IndexName, job.SourceIndex).
		Msg("rollup built")

	return writeJSON(w, r, &cntRollup, &RollupResponse{ID: built.ID, Body: built.Body})
}
