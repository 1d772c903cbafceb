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

// PreviewTransform asks the cluster to preview a built transform body
// without creating the job.
func PreviewTransform(ctx context.Context, transport esapi.Transport, prefix string, body *dsl.Node) (*es.PreviewResponse, error) {
	span, ctx := apm.StartSpan(ctx, "previewTransform", "transform")
	defer span.End()

	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	preview := es.NewTransformPreviewRequest(transport)
	res, err := preview(
		preview.WithContext(ctx),
		preview.WithPrefix(prefix),
		preview.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "transform preview")
	}

	out, err := readBody(res)
	if err != nil {
		return nil, errors.Wrap(err, "transform preview")
	}

	var resp es.PreviewResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, errors.Wrap(err, "decode transform preview")
	}
	if resp.Documents == nil {
		resp.Documents = []json.RawMessage{}
	}
	return &resp, nil
}
