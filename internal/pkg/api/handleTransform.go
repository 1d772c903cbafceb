// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"go.elastic.co/apm"

	"github.com/elastic/index-filter-server/v7/internal/pkg/dl"
	"github.com/elastic/index-filter-server/v7/internal/pkg/logger"
	"github.com/elastic/index-filter-server/v7/internal/pkg/transform"
)

func (rt *Router) handleTransformBuild(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := rt.processTransformBuild(w, r); err != nil {
		cntBuild.IncError(err)
		ErrorResp(w, r, err)
	}
}

func (rt *Router) processTransformBuild(w http.ResponseWriter, r *http.Request) error {
	built, err := rt.buildTransform(w, r, &cntBuild)
	if err != nil {
		return err
	}
	return writeJSON(w, r, &cntBuild, &TransformResponse{ID: built.ID, Body: built.Body})
}

func (rt *Router) handleTransformPreview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := rt.processTransformPreview(w, r); err != nil {
		cntPreview.IncError(err)
		ErrorResp(w, r, err)
	}
}

func (rt *Router) processTransformPreview(w http.ResponseWriter, r *http.Request) error {
	built, err := rt.buildTransform(w, r, &cntPreview)
	if err != nil {
		return err
	}

	preview, err := dl.PreviewTransform(r.Context(), rt.es, rt.cfg.Transform.APIPrefix, built.Body)
	if err != nil {
		return err
	}

	return writeJSON(w, r, &cntPreview, &PreviewResponse{ID: built.ID, Documents: preview.Documents})
}

// buildTransform decodes a job and builds it against the fields of its
// source index.
func (rt *Router) buildTransform(w http.ResponseWriter, r *http.Request, stats *routeStats) (*transform.Built, error) {
	var job transform.Job
	if err := readJSON(w, r, rt.cfg.Server.Limits.TransformLimit.MaxBody, stats, &job); err != nil {
		return nil, err
	}

	return rt.build(r.Context(), job)
}

func (rt *Router) build(ctx context.Context, job transform.Job) (*transform.Built, error) {
	span, ctx := apm.StartSpan(ctx, "buildTransform", "process")
	defer span.End()

	if err := job.Validate(); err != nil {
		return nil, err
	}

	fields, err := rt.fields(ctx, job.SourceIndex)
	if err != nil {
		return nil, err
	}

	built, err := rt.builder.Build(job, fields)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str(logger.TransformID, built.ID).
		Str(logger.IndexName, job.SourceIndex).
		Msg("transform built")
	return built, nil
}
