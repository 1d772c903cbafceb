// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.elastic.co/apm"

	"github.com/elastic/index-filter-server/v7/internal/pkg/dl"
	"github.com/elastic/index-filter-server/v7/internal/pkg/es"
	"github.com/elastic/index-filter-server/v7/internal/pkg/filter"
	"github.com/elastic/index-filter-server/v7/internal/pkg/limit"
	"github.com/elastic/index-filter-server/v7/internal/pkg/logger"
	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
	"github.com/elastic/index-filter-server/v7/internal/pkg/rollup"
	"github.com/elastic/index-filter-server/v7/internal/pkg/transform"
)

// Alias logger constants
const (
	ECSHTTPRequestID         = logger.ECSHTTPRequestID
	ECSEventDuration         = logger.ECSEventDuration
	ECSHTTPResponseCode      = logger.ECSHTTPResponseCode
	ECSHTTPResponseBodyBytes = logger.ECSHTTPResponseBodyBytes
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidQuery   = errors.New("invalid custom query")
	ErrBodyTooLarge   = errors.New("request body too large")
)

// HTTPErrResp is an HTTP error response
type HTTPErrResp struct {
	StatusCode int           `json:"statusCode"`
	Error      string        `json:"error"`
	Message    string        `json:"message,omitempty"`
	Level      zerolog.Level `json:"-"`
}

// An empty Message is replaced by the error text.
var errTable = []struct {
	target error
	meta   HTTPErrResp
}{
	{
		filter.ErrUnsupportedOperator,
		HTTPErrResp{http.StatusBadRequest, "UnsupportedOperator", "", zerolog.InfoLevel},
	},
	{
		filter.ErrInvalidRange,
		HTTPErrResp{http.StatusBadRequest, "InvalidRange", "", zerolog.InfoLevel},
	},
	{
		filter.ErrInvalidCondition,
		HTTPErrResp{http.StatusBadRequest, "InvalidCondition", "", zerolog.InfoLevel},
	},
	{
		filter.ErrFieldNotFound,
		HTTPErrResp{http.StatusBadRequest, "FieldNotFound", "", zerolog.InfoLevel},
	},
	{
		transform.ErrInvalidJob,
		HTTPErrResp{http.StatusBadRequest, "InvalidTransformJob", "", zerolog.InfoLevel},
	},
	{
		rollup.ErrInvalidJob,
		HTTPErrResp{http.StatusBadRequest, "InvalidRollupJob", "", zerolog.InfoLevel},
	},
	{
		dl.ErrInvalidSize,
		HTTPErrResp{http.StatusBadRequest, "InvalidSampleSize", "", zerolog.InfoLevel},
	},
	{
		ErrInvalidQuery,
		HTTPErrResp{http.StatusBadRequest, "InvalidQuery", "", zerolog.InfoLevel},
	},
	{
		ErrBodyTooLarge,
		HTTPErrResp{http.StatusRequestEntityTooLarge, "RequestEntityTooLarge", "request body too large", zerolog.InfoLevel},
	},
	{
		ErrInvalidRequest,
		HTTPErrResp{http.StatusBadRequest, "BadRequest", "", zerolog.InfoLevel},
	},
	{
		dl.ErrResponseTooLarge,
		HTTPErrResp{http.StatusBadGateway, "ResponseTooLarge", "", zerolog.ErrorLevel},
	},
	{
		mapping.ErrMalformedMapping,
		HTTPErrResp{http.StatusBadGateway, "MalformedMapping", "", zerolog.ErrorLevel},
	},
	{
		es.ErrIndexNotFound,
		HTTPErrResp{http.StatusNotFound, "IndexNotFound", "", zerolog.InfoLevel},
	},
	{
		es.ErrTimeout,
		HTTPErrResp{http.StatusGatewayTimeout, "GatewayTimeout", "elasticsearch request timed out", zerolog.WarnLevel},
	},
	{
		es.ErrBadRequest,
		HTTPErrResp{http.StatusBadRequest, "ElasticsearchBadRequest", "", zerolog.InfoLevel},
	},
	{
		limit.ErrRateLimit,
		HTTPErrResp{http.StatusTooManyRequests, "RateLimit", "exceeded the rate limit", zerolog.WarnLevel},
	},
	{
		limit.ErrMaxLimit,
		HTTPErrResp{http.StatusTooManyRequests, "MaxLimit", "exceeded the max limit", zerolog.WarnLevel},
	},
	{
		context.Canceled,
		HTTPErrResp{http.StatusServiceUnavailable, "ServiceUnavailable", "server is stopping", zerolog.DebugLevel},
	},
	{
		os.ErrDeadlineExceeded,
		HTTPErrResp{http.StatusRequestTimeout, "RequestTimeout", "timeout on request", zerolog.InfoLevel},
	},
}

// NewHTTPErrResp creates an ErrResp from a go error
func NewHTTPErrResp(err error) HTTPErrResp {
	for _, e := range errTable {
		if errors.Is(err, e.target) {
			if len(e.meta.Message) == 0 {
				return HTTPErrResp{
					e.meta.StatusCode,
					e.meta.Error,
					err.Error(),
					e.meta.Level,
				}
			}

			return e.meta
		}
	}

	var esErr *es.ErrElastic
	if errors.As(err, &esErr) {
		return HTTPErrResp{
			http.StatusBadGateway,
			"ElasticsearchError",
			err.Error(),
			zerolog.ErrorLevel,
		}
	}

	var jErr *json.MarshalerError
	if errors.As(err, &jErr) {
		return HTTPErrResp{
			http.StatusInternalServerError,
			"InternalServerError",
			"unable to marshal JSON",
			zerolog.ErrorLevel,
		}
	}

	if strings.Contains(err.Error(), "connection refused") {
		return HTTPErrResp{
			http.StatusServiceUnavailable,
			"ServiceUnavailable",
			"unable to communicate with Elasticsearch",
			zerolog.WarnLevel,
		}
	}

	return HTTPErrResp{
		StatusCode: http.StatusInternalServerError,
		Error:      "InternalServerError",
		Message:    err.Error(),
		Level:      zerolog.ErrorLevel,
	}
}

// Write will serialize the ErrResp to an http response and include the proper headers.
func (er HTTPErrResp) Write(w http.ResponseWriter) error {
	data, err := json.Marshal(&er)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(er.StatusCode)
	_, err = w.Write(data)
	return err
}

// ErrorResp logs err with the request logger and writes its response.
func ErrorResp(w http.ResponseWriter, r *http.Request, err error) {
	zlog := zerolog.Ctx(r.Context())
	resp := NewHTTPErrResp(err)
	e := zlog.WithLevel(resp.Level).Err(err).Int(ECSHTTPResponseCode, resp.StatusCode)
	if ts, ok := logger.CtxStartTime(r.Context()); ok {
		e = e.Int64(ECSEventDuration, time.Since(ts).Nanoseconds())
	}
	e.Msg("HTTP request error")

	if resp.StatusCode >= 500 {
		apm.CaptureError(r.Context(), err).Send()
	}

	if rerr := resp.Write(w); rerr != nil {
		zlog.Error().Err(rerr).Msg("fail writing error response")
	}
}
