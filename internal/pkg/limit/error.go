// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package limit

import (
	"errors"
	"net/http"
)

var (
	ErrRateLimit = errors.New("rate limit")
	ErrMaxLimit  = errors.New("max limit")
)

// ErrorWriter writes the response for a request refused by a limiter. err is
// ErrRateLimit or ErrMaxLimit.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Option configures a Limiter.
type Option func(*Limiter)

// WithErrorWriter makes refused requests answer in the caller's error format.
func WithErrorWriter(fn ErrorWriter) Option {
	return func(l *Limiter) {
		if fn != nil {
			l.onError = fn
		}
	}
}

// plainError is the ErrorWriter used when none is configured.
func plainError(w http.ResponseWriter, _ *http.Request, err error) {
	if errors.Is(err, ErrRateLimit) {
		w.Header().Set("Retry-After", "1")
	}
	http.Error(w, err.Error(), http.StatusTooManyRequests)
}
