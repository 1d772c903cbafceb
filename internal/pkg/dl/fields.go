// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package dl

import (
	"context"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.elastic.co/apm"

	"github.com/elastic/index-filter-server/v7/internal/pkg/logger"
	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
)

// FetchFields reads the mapping of index (a name, alias or pattern) and
// returns its flattened field list. Fields from several concrete indices are
// merged with the first index in name order winning a conflicting path.
func FetchFields(ctx context.Context, transport esapi.Transport, index string) ([]mapping.FieldDescriptor, error) {
	span, ctx := apm.StartSpan(ctx, "fetchFields", "mapping")
	defer span.End()

	res, err := esapi.IndicesGetMappingRequest{
		Index: []string{index},
	}.Do(ctx, transport)
	if err != nil {
		return nil, errors.Wrap(err, "get mapping")
	}

	body, err := readBody(res)
	if err != nil {
		return nil, errors.Wrapf(err, "get mapping %s", index)
	}

	im, err := mapping.ParseIndexMappings(body)
	if err != nil {
		return nil, err
	}

	fields, err := im.Fields()
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Trace().
		Str(logger.IndexName, index).
		Strs("indices", im.Indices).
		Int(logger.FieldCount, len(fields)).
		Msg("fetched index fields")

	return fields, nil
}
