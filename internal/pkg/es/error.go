// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package es

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

var (
	ErrIndexNotFound = errors.New("index not found")
	ErrTimeout       = errors.New("timeout")
	ErrNotFound      = errors.New("not found")
	ErrBadRequest    = errors.New("bad request")
)

// ErrElastic is a failed cluster request.
type ErrElastic struct {
	Status int
	Type   string
	Reason string
	Cause  struct {
		Type   string
		Reason string
	}
}

func (e *ErrElastic) Unwrap() error {
	switch {
	case e.Type == "index_not_found_exception":
		return ErrIndexNotFound
	case e.Type == "timeout_exception":
		return ErrTimeout
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusBadRequest:
		return ErrBadRequest
	}
	return nil
}

func (e *ErrElastic) Error() string {
	var b strings.Builder
	b.WriteString("elastic fail ")
	b.WriteString(strconv.Itoa(e.Status))
	for _, s := range []string{e.Type, e.Reason, e.Cause.Type, e.Cause.Reason} {
		if s != "" {
			b.WriteString(": ")
			b.WriteString(s)
		}
	}
	return b.String()
}

// TranslateError returns nil for a 2xx status and an *ErrElastic otherwise.
func TranslateError(status int, e *ErrorT) error {
	if status >= 200 && status < 300 {
		return nil
	}

	err := &ErrElastic{Status: status}
	if e != nil {
		err.Type = e.Type
		err.Reason = e.Reason
		err.Cause.Type = e.Cause.Type
		err.Cause.Reason = e.Cause.Reason
	}
	return err
}

// TranslateBody decodes an error body of a failed response. Bodies that are
// not an error envelope keep their text as the reason.
func TranslateBody(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error.Type != "" {
		return TranslateError(status, &resp.Error)
	}

	return TranslateError(status, &ErrorT{Reason: strings.TrimSpace(string(body))})
}
