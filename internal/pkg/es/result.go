// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package es

import (
	"encoding/json"
)

// ErrorT is the error object of an Elasticsearch response.
type ErrorT struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
	Cause  struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"caused_by"`
}

// ErrorResponse is the body Elasticsearch sends with a failed request.
type ErrorResponse struct {
	Status int    `json:"status"`
	Error  ErrorT `json:"error"`
}

type HitT struct {
	ID     string          `json:"_id"`
	Index  string          `json:"_index"`
	Source json.RawMessage `json:"_source"`
	Score  *float64        `json:"_score"`
}

type HitsT struct {
	Hits  []HitT `json:"hits"`
	Total struct {
		Relation string `json:"relation"`
		Value    uint64 `json:"value"`
	} `json:"total"`
	MaxScore *float64 `json:"max_score"`
}

type Response struct {
	Took     uint64 `json:"took"`
	TimedOut bool   `json:"timed_out"`
	Shards   struct {
		Total      uint64 `json:"total"`
		Successful uint64 `json:"successful"`
		Skipped    uint64 `json:"skipped"`
		Failed     uint64 `json:"failed"`
	} `json:"_shards"`
	Hits HitsT `json:"hits"`
}

type ResultT struct {
	Response
	Error ErrorT `json:"error,omitempty"`
}

// PreviewResponse is the transform preview result.
type PreviewResponse struct {
	Documents []json.RawMessage `json:"documents"`
	Error     ErrorT            `json:"error,omitempty"`
}
