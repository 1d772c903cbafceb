// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

//go:build !integration
// +build !integration

package dl

import (
	"context"
	"errors"
	"io/ioutil"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/index-filter-server/v7/internal/pkg/dsl"
	"github.com/elastic/index-filter-server/v7/internal/pkg/es"
	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
)

type mockTransport struct {
	status  int
	body    string
	req     *http.Request
	reqBody string
}

func (m *mockTransport) Perform(req *http.Request) (*http.Response, error) {
	m.req = req
	if req.Body != nil {
		b, err := ioutil.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		m.reqBody = string(b)
	}
	return &http.Response{
		StatusCode: m.status,
		Header:     make(http.Header),
		Body:       ioutil.NopCloser(strings.NewReader(m.body)),
	}, nil
}

const mappingBody = `{
  "logs-b": {"mappings": {"properties": {
    "status": {"type": "keyword"},
    "bytes": {"type": "long"}
  }}},
  "logs-a": {"mappings": {"properties": {
    "status": {"type": "integer"},
    "message": {"type": "text", "fields": {"raw": {"type": "keyword"}}}
  }}}
}`

func TestFetchFields(t *testing.T) {
	mt := &mockTransport{status: http.StatusOK, body: mappingBody}

	fields, err := FetchFields(context.Background(), mt, "logs-*")
	require.NoError(t, err)

	assert.Equal(t, "/logs-*/_mapping", mt.req.URL.Path)
	assert.Equal(t, []mapping.FieldDescriptor{
		{Path: "status", Type: "integer"},
		{Path: "message", Type: "text"},
		{Path: "message.raw", Type: "keyword"},
		{Path: "bytes", Type: "long"},
	}, fields)
}

func TestFetchFieldsIndexNotFound(t *testing.T) {
	mt := &mockTransport{
		status: http.StatusNotFound,
		body:   `{"error":{"type":"index_not_found_exception","reason":"no such index [nope]"},"status":404}`,
	}

	_, err := FetchFields(context.Background(), mt, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, es.ErrIndexNotFound))
}

func TestFetchFieldsMalformed(t *testing.T) {
	mt := &mockTransport{status: http.StatusOK, body: `{"idx":{"mappings":{"properties":{"a":{"properties":[]}}}}}`}

	_, err := FetchFields(context.Background(), mt, "idx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, mapping.ErrMalformedMapping))
}

func TestSearchSample(t *testing.T) {
	mt := &mockTransport{
		status: http.StatusOK,
		body: `{"took":1,"hits":{"total":{"value":2,"relation":"eq"},"hits":[
			{"_id":"1","_index":"logs-a","_source":{"status":"ok"}},
			{"_id":"2","_index":"logs-a","_source":{"status":"ok"}}]}}`,
	}

	q := dsl.NewRoot()
	q.Term("status", "ok", nil)

	hits, err := SearchSample(context.Background(), mt, "logs-a", q, 2)
	require.NoError(t, err)

	assert.Equal(t, "/logs-a/_search", mt.req.URL.Path)
	assert.JSONEq(t, `{"query":{"term":{"status":"ok"}},"size":2}`, mt.reqBody)
	require.Len(t, hits.Hits, 2)
	assert.Equal(t, "1", hits.Hits[0].ID)
	assert.JSONEq(t, `{"status":"ok"}`, string(hits.Hits[0].Source))
	assert.Equal(t, uint64(2), hits.Total.Value)
}

func TestSearchSampleSize(t *testing.T) {
	for _, size := range []int{0, -1, MaxSampleSize + 1} {
		_, err := SearchSample(context.Background(), &mockTransport{}, "idx", dsl.NewRoot(), size)
		assert.True(t, errors.Is(err, ErrInvalidSize), "size %d", size)
	}
}

func TestSearchSampleError(t *testing.T) {
	mt := &mockTransport{
		status: http.StatusBadRequest,
		body:   `{"error":{"type":"search_phase_execution_exception","reason":"all shards failed"},"status":400}`,
	}

	_, err := SearchSample(context.Background(), mt, "idx", dsl.NewRoot(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, es.ErrBadRequest))
}

func TestPreviewTransform(t *testing.T) {
	mt := &mockTransport{status: http.StatusOK, body: `{"documents":[{"status_terms":"ok","sum_bytes":10}]}`}

	body := dsl.NewRoot()
	body.Child("transform").Param("source_index", "logs-a")

	resp, err := PreviewTransform(context.Background(), mt, "_opendistro", body)
	require.NoError(t, err)

	assert.Equal(t, "/_opendistro/_transform/_preview", mt.req.URL.Path)
	assert.JSONEq(t, `{"transform":{"source_index":"logs-a"}}`, mt.reqBody)
	require.Len(t, resp.Documents, 1)
	assert.JSONEq(t, `{"status_terms":"ok","sum_bytes":10}`, string(resp.Documents[0]))
}

func TestPreviewTransformEmpty(t *testing.T) {
	mt := &mockTransport{status: http.StatusOK, body: `{}`}

	resp, err := PreviewTransform(context.Background(), mt, "_opendistro", dsl.NewRoot())
	require.NoError(t, err)
	assert.NotNil(t, resp.Documents)
	assert.Empty(t, resp.Documents)
}

func TestReadBodyLimit(t *testing.T) {
	newRes := func(status int, body string) *esapi.Response {
		return &esapi.Response{StatusCode: status, Body: ioutil.NopCloser(strings.NewReader(body))}
	}

	body, err := readBodyLimit(newRes(http.StatusOK, `{"a":1}`), 7)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))

	_, err = readBodyLimit(newRes(http.StatusOK, `{"a":12}`), 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResponseTooLarge), "got %v", err)
	assert.False(t, errors.Is(err, mapping.ErrMalformedMapping))

	_, err = readBodyLimit(newRes(http.StatusNotFound, `{"error":{"type":"index_not_found_exception"},"status":404}`), 1024)
	assert.True(t, errors.Is(err, es.ErrIndexNotFound))
}
