// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package dl

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/pkg/errors"
	"go.elastic.co/apm"

	"github.com/elastic/index-filter-server/v7/internal/pkg/dsl"
	"github.com/elastic/index-filter-server/v7/internal/pkg/es"
)

var ErrInvalidSize = errors.New("invalid sample size")

var tmplSample = prepareSample()

func prepareSample() *dsl.Tmpl {
	tmpl := dsl.NewTmpl()
	root := dsl.NewRoot()

	root.Param(FieldQuery, tmpl.Bind(FieldQuery))
	root.Param(FieldSize, tmpl.Bind(FieldSize))

	tmpl.MustResolve(root)
	return tmpl
}

// SearchSample returns up to size documents of index matching query, a
// compiled query fragment or any value marshaling to a query object.
func SearchSample(ctx context.Context, transport esapi.Transport, index string, query interface{}, size int) (*es.HitsT, error) {
	if size <= 0 || size > MaxSampleSize {
		return nil, errors.Wrapf(ErrInvalidSize, "size %d must be between 1 and %d", size, MaxSampleSize)
	}

	span, ctx := apm.StartSpan(ctx, "searchSample", "search")
	defer span.End()

	body, err := tmplSample.Render(map[string]interface{}{
		FieldQuery: query,
		FieldSize:  size,
	})
	if err != nil {
		return nil, err
	}

	res, err := esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, transport)
	if err != nil {
		return nil, errors.Wrap(err, "search")
	}

	data, err := readBody(res)
	if err != nil {
		return nil, errors.Wrapf(err, "search %s", index)
	}

	var result es.ResultT
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "decode search response")
	}

	return &result.Hits, nil
}
