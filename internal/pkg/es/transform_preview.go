// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package es

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v7/esapi"
)

const kTransformPreviewPath = "/_transform/_preview"

// TransformPreview runs a transform definition without creating the job.
// The endpoint lives under the transform plugin prefix, for example
// /_opendistro/_transform/_preview.
type TransformPreview func(o ...func(*TransformPreviewRequest)) (*esapi.Response, error)

func NewTransformPreviewRequest(t esapi.Transport) TransformPreview {
	return func(o ...func(*TransformPreviewRequest)) (*esapi.Response, error) {
		var r = TransformPreviewRequest{}
		for _, f := range o {
			f(&r)
		}
		return r.Do(r.ctx, t)
	}
}

// TransformPreviewRequest configures the transform preview request.
type TransformPreviewRequest struct {
	ctx context.Context

	Prefix string
	Body   io.Reader

	Header http.Header
}

// Do executes the request and returns response or error.
func (r TransformPreviewRequest) Do(ctx context.Context, transport esapi.Transport) (*esapi.Response, error) {
	var path strings.Builder

	prefix := strings.Trim(r.Prefix, "/")
	path.Grow(1 + len(prefix) + len(kTransformPreviewPath))
	if len(prefix) > 0 {
		path.WriteString("/")
		path.WriteString(prefix)
	}
	path.WriteString(kTransformPreviewPath)

	req, err := http.NewRequest(http.MethodPost, path.String(), r.Body)
	if err != nil {
		return nil, err
	}

	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, vv := range r.Header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}

	if ctx != nil {
		req = req.WithContext(ctx)
	}

	res, err := transport.Perform(req) //nolint:bodyclose // closed by the caller
	if err != nil {
		return nil, err
	}

	return &esapi.Response{
		StatusCode: res.StatusCode,
		Body:       res.Body,
		Header:     res.Header,
	}, nil
}

// WithContext sets the request context.
func (f TransformPreview) WithContext(v context.Context) func(*TransformPreviewRequest) {
	return func(r *TransformPreviewRequest) {
		r.ctx = v
	}
}

// WithPrefix sets the transform plugin prefix.
func (f TransformPreview) WithPrefix(prefix string) func(*TransformPreviewRequest) {
	return func(r *TransformPreviewRequest) {
		r.Prefix = prefix
	}
}

// WithBody sets the {"transform": {...}} body.
func (f TransformPreview) WithBody(body io.Reader) func(*TransformPreviewRequest) {
	return func(r *TransformPreviewRequest) {
		r.Body = body
	}
}

// WithHeader adds request headers.
func (f TransformPreview) WithHeader(h map[string]string) func(*TransformPreviewRequest) {
	return func(r *TransformPreviewRequest) {
		if r.Header == nil {
			r.Header = make(http.Header)
		}
		for k, v := range h {
			r.Header.Add(k, v)
		}
	}
}
