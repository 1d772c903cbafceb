// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package dl

import (
	"errors"
	"io"
	"io/ioutil"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	pkgerrors "github.com/pkg/errors"

	"github.com/elastic/index-filter-server/v7/internal/pkg/es"
)

// ErrResponseTooLarge is returned when a cluster response exceeds the read cap.
var ErrResponseTooLarge = errors.New("elasticsearch response too large")

// readBody drains a response body and translates a non 2xx status.
func readBody(res *esapi.Response) ([]byte, error) {
	return readBodyLimit(res, maxResponseBytes)
}

func readBodyLimit(res *esapi.Response, limit int64) ([]byte, error) {
	defer res.Body.Close()

	// One byte past the cap tells a full body from a truncated one.
	body, err := ioutil.ReadAll(io.LimitReader(res.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, pkgerrors.Wrapf(ErrResponseTooLarge, "status %d, more than %d bytes", res.StatusCode, limit)
	}

	if err := es.TranslateBody(res.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}
