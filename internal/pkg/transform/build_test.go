// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

//go:build !integration
// +build !integration

package transform

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/index-filter-server/v7/internal/pkg/filter"
	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
)

var testFields = []mapping.FieldDescriptor{
	{Path: "timestamp", Type: "date"},
	{Path: "customer", Type: "keyword"},
	{Path: "message", Type: "text"},
	{Path: "quantity", Type: "integer"},
	{Path: "price", Type: "double"},
}

var testNow = time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)

func testBuilder() *Builder {
	return NewBuilder(WithPageSize(50), WithClock(func() time.Time { return testNow }))
}

func build(t *testing.T, j Job) string {
	t.Helper()
	built, err := testBuilder().Build(j, testFields)
	require.NoError(t, err)
	d, err := json.Marshal(built.Body)
	require.NoError(t, err)
	return string(d)
}

func TestBuild(t *testing.T) {
	j := Job{
		ID:          "orders",
		Description: "orders per customer",
		SourceIndex: "orders",
		TargetIndex: "orders-by-customer",
		Enabled:     true,
		Conditions: []filter.Condition{
			{Field: mapping.FieldDescriptor{Path: "quantity"}, Operator: filter.OpIsGreater, Value: 1},
		},
		Groups: []Group{
			{Type: GroupTerms, SourceField: "customer"},
			{Type: GroupDateHistogram, SourceField: "timestamp", CalendarInterval: "1d", Timezone: "UTC"},
			{Type: GroupHistogram, SourceField: "price", Interval: 5},
		},
		Aggregations: []Aggregation{
			{Op: AggSum, Field: "quantity"},
			{Op: AggValueCount, Field: "customer"},
			{Op: AggPercentiles, Field: "price", Percents: []float64{50, 99}},
			{Op: AggMax, Field: "timestamp", Name: "last_order"},
			{Op: AggScriptedMetric, Name: "profit", Script: json.RawMessage(`{"map_script":"state.x += 1"}`)},
		},
	}

	want := `{"transform": {
		"enabled": true,
		"description": "orders per customer",
		"source_index": "orders",
		"target_index": "orders-by-customer",
		"page_size": 50,
		"schedule": {"interval": {"start_time": 1622548800000, "period": 1, "unit": "Minutes"}},
		"data_selection_query": {"range": {"quantity": {"gt": 1}}},
		"groups": [
			{"terms": {"source_field": "customer", "target_field": "customer_terms"}},
			{"date_histogram": {"source_field": "timestamp", "target_field": "timestamp_date_histogram_day", "calendar_interval": "1d", "timezone": "UTC"}},
			{"histogram": {"source_field": "price", "target_field": "price_histogram", "interval": 5}}
		],
		"aggregations": {
			"sum_quantity": {"sum": {"field": "quantity"}},
			"count_customer": {"value_count": {"field": "customer"}},
			"percentiles_price": {"percentiles": {"field": "price", "percents": [50, 99]}},
			"last_order": {"max": {"field": "timestamp"}},
			"profit": {"scripted_metric": {"map_script": "state.x += 1"}}
		}
	}}`
	assert.JSONEq(t, want, build(t, j))
}

func TestBuildDefaults(t *testing.T) {
	j := Job{
		SourceIndex: "orders",
		TargetIndex: "out",
		Schedule:    Schedule{Interval: Interval{StartTime: 5, Period: 2, Unit: "Hours"}},
		Groups:      []Group{{Type: GroupDateHistogram, SourceField: "timestamp", FixedInterval: "1h"}},
	}

	built, err := testBuilder().Build(j, testFields)
	require.NoError(t, err)
	assert.Len(t, built.ID, 36)

	d, err := json.Marshal(built.Body)
	require.NoError(t, err)

	var got struct {
		Transform struct {
			Schedule     Schedule          `json:"schedule"`
			Query        json.RawMessage   `json:"data_selection_query"`
			Groups       []json.RawMessage `json:"groups"`
			Aggregations json.RawMessage   `json:"aggregations"`
			PageSize     int               `json:"page_size"`
		} `json:"transform"`
	}
	require.NoError(t, json.Unmarshal(d, &got))
	assert.Equal(t, Interval{StartTime: 5, Period: 2, Unit: "Hours"}, got.Transform.Schedule.Interval)
	assert.JSONEq(t, `{"match_all":{}}`, string(got.Transform.Query))
	assert.JSONEq(t, `{"date_histogram":{"source_field":"timestamp","target_field":"timestamp_date_histogram_hour","fixed_interval":"1h"}}`, string(got.Transform.Groups[0]))
	assert.Nil(t, got.Transform.Aggregations)
	assert.Equal(t, 50, got.Transform.PageSize)
}

func TestBuildCustomQuery(t *testing.T) {
	j := Job{
		SourceIndex: "orders",
		TargetIndex: "out",
		Query:       json.RawMessage(`{"term":{"customer":"acme"}}`),
		Groups:      []Group{{Type: GroupTerms, SourceField: "customer", TargetField: "who"}},
	}
	out := build(t, j)

	var got struct {
		Transform map[string]json.RawMessage `json:"transform"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.JSONEq(t, `{"term":{"customer":"acme"}}`, string(got.Transform[kDataSelectionQuery]))
}

func TestBuildInvalid(t *testing.T) {
	base := func() Job {
		return Job{
			SourceIndex: "orders",
			TargetIndex: "out",
			Groups:      []Group{{Type: GroupTerms, SourceField: "customer"}},
		}
	}

	tests := []struct {
		name string
		mod  func(*Job)
		want error
	}{
		{"missing source", func(j *Job) { j.SourceIndex = "" }, ErrInvalidJob},
		{"same target", func(j *Job) { j.TargetIndex = "orders" }, ErrInvalidJob},
		{"no groups", func(j *Job) { j.Groups = nil }, ErrInvalidJob},
		{"bad group type", func(j *Job) { j.Groups[0].Type = "geo" }, ErrInvalidJob},
		{"unknown group field", func(j *Job) { j.Groups[0].SourceField = "nope" }, ErrInvalidJob},
		{"terms on text", func(j *Job) { j.Groups[0].SourceField = "message" }, ErrInvalidJob},
		{"histogram on keyword", func(j *Job) {
			j.Groups[0] = Group{Type: GroupHistogram, SourceField: "customer", Interval: 1}
		}, ErrInvalidJob},
		{"histogram without interval", func(j *Job) {
			j.Groups[0] = Group{Type: GroupHistogram, SourceField: "price"}
		}, ErrInvalidJob},
		{"date histogram on number", func(j *Job) {
			j.Groups[0] = Group{Type: GroupDateHistogram, SourceField: "price", FixedInterval: "1h"}
		}, ErrInvalidJob},
		{"date histogram two intervals", func(j *Job) {
			j.Groups[0] = Group{Type: GroupDateHistogram, SourceField: "timestamp", FixedInterval: "1h", CalendarInterval: "1d"}
		}, ErrInvalidJob},
		{"date histogram no interval", func(j *Job) {
			j.Groups[0] = Group{Type: GroupDateHistogram, SourceField: "timestamp"}
		}, ErrInvalidJob},
		{"date histogram bad interval", func(j *Job) {
			j.Groups[0] = Group{Type: GroupDateHistogram, SourceField: "timestamp", FixedInterval: "5m"}
		}, ErrInvalidJob},
		{"bad timezone", func(j *Job) {
			j.Groups[0] = Group{Type: GroupDateHistogram, SourceField: "timestamp", FixedInterval: "1h", Timezone: "Mars/Olympus"}
		}, ErrInvalidJob},
		{"duplicate group target", func(j *Job) {
			j.Groups = append(j.Groups, Group{Type: GroupTerms, SourceField: "customer"})
		}, ErrInvalidJob},
		{"sum on keyword", func(j *Job) {
			j.Aggregations = []Aggregation{{Op: AggSum, Field: "customer"}}
		}, ErrInvalidJob},
		{"min on text", func(j *Job) {
			j.Aggregations = []Aggregation{{Op: AggMin, Field: "message"}}
		}, ErrInvalidJob},
		{"agg name clashes with group", func(j *Job) {
			j.Aggregations = []Aggregation{{Op: AggValueCount, Field: "customer", Name: "customer_terms"}}
		}, ErrInvalidJob},
		{"bad agg op", func(j *Job) {
			j.Aggregations = []Aggregation{{Op: "median", Field: "price"}}
		}, ErrInvalidJob},
		{"percent out of range", func(j *Job) {
			j.Aggregations = []Aggregation{{Op: AggPercentiles, Field: "price", Percents: []float64{101}}}
		}, ErrInvalidJob},
		{"scripted metric without map script", func(j *Job) {
			j.Aggregations = []Aggregation{{Op: AggScriptedMetric, Script: json.RawMessage(`{"init_script":"x"}`)}}
		}, ErrInvalidJob},
		{"scripted metric not object", func(j *Job) {
			j.Aggregations = []Aggregation{{Op: AggScriptedMetric, Script: json.RawMessage(`"x"`)}}
		}, ErrInvalidJob},
		{"bad unit", func(j *Job) { j.Schedule.Interval.Unit = "Weeks" }, ErrInvalidJob},
		{"query not object", func(j *Job) { j.Query = json.RawMessage(`[1]`) }, ErrInvalidJob},
		{"query and conditions", func(j *Job) {
			j.Query = json.RawMessage(`{"match_all":{}}`)
			j.Conditions = []filter.Condition{{Field: mapping.FieldDescriptor{Path: "customer"}, Operator: filter.OpIsNotNull}}
		}, ErrInvalidJob},
		{"condition on unknown field", func(j *Job) {
			j.Conditions = []filter.Condition{{Field: mapping.FieldDescriptor{Path: "nope"}, Operator: filter.OpIsNotNull}}
		}, filter.ErrFieldNotFound},
		{"unsupported condition", func(j *Job) {
			j.Conditions = []filter.Condition{{Field: mapping.FieldDescriptor{Path: "message"}, Operator: filter.OpStartsWith, Value: "x"}}
		}, filter.ErrUnsupportedOperator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := base()
			tt.mod(&j)
			built, err := testBuilder().Build(j, testFields)
			assert.Nil(t, built)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestTargetNames(t *testing.T) {
	assert.Equal(t, "host_terms", Group{Type: GroupTerms, SourceField: "host"}.Target())
	assert.Equal(t, "bytes_histogram", Group{Type: GroupHistogram, SourceField: "bytes"}.Target())
	assert.Equal(t, "ts_date_histogram_quarter", Group{Type: GroupDateHistogram, SourceField: "ts", CalendarInterval: "1q"}.Target())
	assert.Equal(t, "ts_date_histogram_millisecond", Group{Type: GroupDateHistogram, SourceField: "ts", FixedInterval: "1ms"}.Target())
	assert.Equal(t, "mine", Group{Type: GroupTerms, SourceField: "host", TargetField: "mine"}.Target())

	assert.Equal(t, "avg_bytes", Aggregation{Op: AggAvg, Field: "bytes"}.Target())
	assert.Equal(t, "count_bytes", Aggregation{Op: AggValueCount, Field: "bytes"}.Target())
	assert.Equal(t, "scripted_metric_bytes", Aggregation{Op: AggScriptedMetric, Field: "bytes"}.Target())
}
