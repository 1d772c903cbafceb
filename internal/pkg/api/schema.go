// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"encoding/json"

	"github.com/elastic/index-filter-server/v7/internal/pkg/es"
	"github.com/elastic/index-filter-server/v7/internal/pkg/filter"
	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
)

type StatusResponseVersion struct {
	Number    string `json:"number,omitempty"`
	BuildHash string `json:"build_hash,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}

type StatusResponse struct {
	Name          string                `json:"name"`
	Status        string                `json:"status"`
	Version       StatusResponseVersion `json:"version"`
	Elasticsearch string                `json:"elasticsearch_version,omitempty"`
	Stats         map[string]int64      `json:"stats,omitempty"`
}

type OperatorInfo struct {
	Operator filter.Operator `json:"operator"`
	Text     string          `json:"text"`
	Types    []string        `json:"types"`
}

type OperatorsResponse struct {
	Type      string         `json:"type,omitempty"`
	Operators []OperatorInfo `json:"operators"`
}

type FieldsResponse struct {
	Index  string                    `json:"index"`
	Fields []mapping.FieldDescriptor `json:"fields"`
}

// FiltersRequest selects documents either with Conditions or with a
// client written Query object, never both.
type FiltersRequest struct {
	Conditions []filter.Condition `json:"conditions,omitempty" validate:"max=100"`
	Query      json.RawMessage    `json:"query,omitempty"`
}

type FiltersResponse struct {
	Query interface{} `json:"query"`
}

type SampleRequest struct {
	FiltersRequest
	Size int `json:"size,omitempty" validate:"min=0,max=100"`
}

type SampleResponse struct {
	Total    uint64    `json:"total"`
	Relation string    `json:"relation,omitempty"`
	Hits     []es.HitT `json:"hits"`
}

type TransformResponse struct {
	ID   string      `json:"id"`
	Body interface{} `json:"body"`
}

type RollupResponse struct {
	ID   string      `json:"id"`
	Body interface{} `json:"body"`
}

type PreviewResponse struct {
	ID        string            `json:"id"`
	Documents []json.RawMessage `json:"documents"`
}
