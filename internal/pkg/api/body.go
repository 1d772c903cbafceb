// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/miolini/datacounter"
	"github.com/pkg/errors"
	"go.elastic.co/apm"
)

// readJSON decodes the request body into v, bounded by maxBody when set.
func readJSON(w http.ResponseWriter, r *http.Request, maxBody int64, stats *routeStats, v interface{}) error {
	span, _ := apm.StartSpan(r.Context(), "readRequest", "validate")
	defer span.End()

	body := r.Body
	if body == nil || body == http.NoBody {
		return errors.Wrap(ErrInvalidRequest, "empty request body")
	}

	if maxBody > 0 {
		body = http.MaxBytesReader(w, body, maxBody)
	}
	readCounter := datacounter.NewReaderCounter(body)

	dec := json.NewDecoder(readCounter)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return errors.Wrap(ErrBodyTooLarge, err.Error())
		}
		return errors.Wrap(ErrInvalidRequest, err.Error())
	}

	stats.bodyIn.Add(readCounter.Count())
	return nil
}

// writeJSON writes v with status 200.
func writeJSON(w http.ResponseWriter, r *http.Request, stats *routeStats, v interface{}) error {
	span, _ := apm.StartSpan(r.Context(), "response", "write")
	defer span.End()

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	nWritten, err := w.Write(data)
	stats.bodyOut.Add(uint64(nWritten))
	return err
}
