// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

//go:build !integration
// +build !integration

package filter

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
)

func field(path, typ string) mapping.FieldDescriptor {
	return mapping.FieldDescriptor{Path: path, Type: typ}
}

func bound(s string) *json.Number {
	n := json.Number(s)
	return &n
}

func render(t *testing.T, c Condition) string {
	t.Helper()
	n, err := Compile(c)
	require.NoError(t, err)
	d, err := json.Marshal(n)
	require.NoError(t, err)
	return string(d)
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want string
	}{
		{
			name: "is text",
			cond: Condition{Field: field("message", "text"), Operator: OpIs, Value: "disk full"},
			want: `{"match_phrase":{"message":"disk full"}}`,
		},
		{
			name: "is keyword",
			cond: Condition{Field: field("status", "keyword"), Operator: OpIs, Value: "open"},
			want: `{"term":{"status":"open"}}`,
		},
		{
			name: "is boolean from string",
			cond: Condition{Field: field("active", "boolean"), Operator: OpIs, Value: "true"},
			want: `{"term":{"active":true}}`,
		},
		{
			name: "is number from string",
			cond: Condition{Field: field("bytes", "long"), Operator: OpIs, Value: "1024"},
			want: `{"term":{"bytes":1024}}`,
		},
		{
			name: "is not text",
			cond: Condition{Field: field("message", "text"), Operator: OpIsNot, Value: "ok"},
			want: `{"bool":{"must_not":{"match_phrase":{"message":"ok"}}}}`,
		},
		{
			name: "is not number",
			cond: Condition{Field: field("code", "integer"), Operator: OpIsNot, Value: 200.0},
			want: `{"bool":{"must_not":{"term":{"code":200}}}}`,
		},
		{
			name: "is null",
			cond: Condition{Field: field("timestamp", "date"), Operator: OpIsNull},
			want: `{"bool":{"must_not":{"exists":{"field":"timestamp"}}}}`,
		},
		{
			name: "is not null",
			cond: Condition{Field: field("message", "text"), Operator: OpIsNotNull},
			want: `{"exists":{"field":"message"}}`,
		},
		{
			name: "is greater",
			cond: Condition{Field: field("age", "long"), Operator: OpIsGreater, Value: 30},
			want: `{"range":{"age":{"gt":30}}}`,
		},
		{
			name: "is greater equal date",
			cond: Condition{Field: field("timestamp", "date"), Operator: OpIsGreaterEqual, Value: "now-1d"},
			want: `{"range":{"timestamp":{"gte":"now-1d"}}}`,
		},
		{
			name: "is less",
			cond: Condition{Field: field("price", "scaled_float"), Operator: OpIsLess, Value: 9.5},
			want: `{"range":{"price":{"lt":9.5}}}`,
		},
		{
			name: "is less equal",
			cond: Condition{Field: field("price", "double"), Operator: OpIsLessEqual, Value: 10},
			want: `{"range":{"price":{"lte":10}}}`,
		},
		{
			name: "in range",
			cond: Condition{Field: field("age", "long"), Operator: OpInRange, RangeStart: bound("10"), RangeEnd: bound("20")},
			want: `{"range":{"age":{"gte":10,"lte":20}}}`,
		},
		{
			name: "in range single point",
			cond: Condition{Field: field("age", "long"), Operator: OpInRange, RangeStart: bound("7"), RangeEnd: bound("7")},
			want: `{"range":{"age":{"gte":7,"lte":7}}}`,
		},
		{
			name: "not in range",
			cond: Condition{Field: field("age", "short"), Operator: OpNotInRange, RangeStart: bound("1"), RangeEnd: bound("2.5")},
			want: `{"bool":{"must_not":{"range":{"age":{"gte":1,"lte":2.5}}}}}`,
		},
		{
			name: "starts with",
			cond: Condition{Field: field("host", "keyword"), Operator: OpStartsWith, Value: "web-"},
			want: `{"prefix":{"host":"web-"}}`,
		},
		{
			name: "ends with",
			cond: Condition{Field: field("host", "keyword"), Operator: OpEndsWith, Value: ".local"},
			want: `{"wildcard":{"host":"*.local"}}`,
		},
		{
			name: "ends with escapes wildcard",
			cond: Condition{Field: field("host", "keyword"), Operator: OpEndsWith, Value: "a*b?"},
			want: `{"wildcard":{"host":"*a\\*b\\?"}}`,
		},
		{
			name: "contains text",
			cond: Condition{Field: field("status", "text"), Operator: OpContains, Value: "err"},
			want: `{"query_string":{"query":"*err*","default_field":"status"}}`,
		},
		{
			name: "contains text escapes lucene syntax",
			cond: Condition{Field: field("status", "text"), Operator: OpContains, Value: "a OR b:c"},
			want: `{"query_string":{"query":"*a\\ OR\\ b\\:c*","default_field":"status"}}`,
		},
		{
			name: "contains keyword",
			cond: Condition{Field: field("host", "keyword"), Operator: OpContains, Value: "prod"},
			want: `{"wildcard":{"host":"*prod*"}}`,
		},
		{
			name: "not contains text",
			cond: Condition{Field: field("status", "text"), Operator: OpNotContains, Value: "err"},
			want: `{"bool":{"must_not":{"query_string":{"query":"*err*","default_field":"status"}}}}`,
		},
		{
			name: "not contains keyword number value",
			cond: Condition{Field: field("host", "keyword"), Operator: OpNotContains, Value: 42},
			want: `{"bool":{"must_not":{"wildcard":{"host":"*42*"}}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, render(t, tt.cond))
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want error
	}{
		{"inverted range", Condition{Field: field("age", "long"), Operator: OpInRange, RangeStart: bound("10"), RangeEnd: bound("5")}, ErrInvalidRange},
		{"inverted not range", Condition{Field: field("age", "long"), Operator: OpNotInRange, RangeStart: bound("1"), RangeEnd: bound("0")}, ErrInvalidRange},
		{"starts with boolean", Condition{Field: field("flag", "boolean"), Operator: OpStartsWith, Value: "x"}, ErrUnsupportedOperator},
		{"range on text", Condition{Field: field("message", "text"), Operator: OpIsGreater, Value: 1}, ErrUnsupportedOperator},
		{"in range on date", Condition{Field: field("ts", "date"), Operator: OpInRange, RangeStart: bound("1"), RangeEnd: bound("2")}, ErrUnsupportedOperator},
		{"unknown operator", Condition{Field: field("age", "long"), Operator: "between", Value: 1}, ErrUnsupportedOperator},
		{"unknown type", Condition{Field: field("ip", "ip"), Operator: OpIs, Value: "10.0.0.1"}, ErrUnsupportedOperator},
		{"missing field", Condition{Operator: OpIs, Value: 1}, ErrInvalidCondition},
		{"missing value", Condition{Field: field("age", "long"), Operator: OpIs}, ErrInvalidCondition},
		{"empty string value", Condition{Field: field("host", "keyword"), Operator: OpContains, Value: ""}, ErrInvalidCondition},
		{"null with value", Condition{Field: field("age", "long"), Operator: OpIsNull, Value: 1}, ErrInvalidCondition},
		{"range missing end", Condition{Field: field("age", "long"), Operator: OpInRange, RangeStart: bound("1")}, ErrInvalidCondition},
		{"range with value", Condition{Field: field("age", "long"), Operator: OpInRange, Value: 3, RangeStart: bound("1"), RangeEnd: bound("2")}, ErrInvalidCondition},
		{"value with range bounds", Condition{Field: field("age", "long"), Operator: OpIs, Value: 3, RangeStart: bound("1")}, ErrInvalidCondition},
		{"non numeric", Condition{Field: field("age", "long"), Operator: OpIs, Value: "old"}, ErrInvalidCondition},
		{"non boolean", Condition{Field: field("flag", "boolean"), Operator: OpIs, Value: "maybe"}, ErrInvalidCondition},
		{"non scalar", Condition{Field: field("host", "keyword"), Operator: OpIs, Value: []string{"a"}}, ErrInvalidCondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Compile(tt.cond)
			assert.Nil(t, n)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCompileAll(t *testing.T) {
	n, err := CompileAll(nil)
	require.NoError(t, err)
	d, _ := json.Marshal(n)
	assert.JSONEq(t, `{"match_all":{}}`, string(d))

	one := Condition{Field: field("age", "long"), Operator: OpIsGreater, Value: 30}
	n, err = CompileAll([]Condition{one})
	require.NoError(t, err)
	d, _ = json.Marshal(n)
	assert.JSONEq(t, `{"range":{"age":{"gt":30}}}`, string(d))

	two := Condition{Field: field("host", "keyword"), Operator: OpIsNotNull}
	n, err = CompileAll([]Condition{one, two})
	require.NoError(t, err)
	d, _ = json.Marshal(n)
	assert.JSONEq(t, `{"bool":{"must":[{"range":{"age":{"gt":30}}},{"exists":{"field":"host"}}]}}`, string(d))

	bad := Condition{Field: field("flag", "boolean"), Operator: OpContains, Value: "x"}
	n, err = CompileAll([]Condition{one, bad})
	assert.Nil(t, n)
	assert.True(t, errors.Is(err, ErrUnsupportedOperator))
}

func TestResolve(t *testing.T) {
	fields := []mapping.FieldDescriptor{field("age", "long"), field("host", "keyword")}

	c, err := Resolve(fields, Condition{Field: mapping.FieldDescriptor{Path: "age"}, Operator: OpIsLess, Value: 3})
	require.NoError(t, err)
	assert.Equal(t, "long", c.Field.Type)

	// A caller supplied type is replaced with the mapped one.
	c, err = Resolve(fields, Condition{Field: field("host", "text"), Operator: OpIs, Value: "a"})
	require.NoError(t, err)
	assert.Equal(t, "keyword", c.Field.Type)

	_, err = Resolve(fields, Condition{Field: field("nope", "long")})
	assert.True(t, errors.Is(err, ErrFieldNotFound))
}

func TestConditionJSON(t *testing.T) {
	var c Condition
	require.NoError(t, json.Unmarshal([]byte(`{
		"field": {"path": "age", "type": "long"},
		"operator": "not_in_range",
		"range_start": 1,
		"range_end": 9
	}`), &c))

	assert.JSONEq(t, `{"bool":{"must_not":{"range":{"age":{"gte":1,"lte":9}}}}}`, render(t, c))
}

func decodeCondition(t *testing.T, data string) Condition {
	t.Helper()
	var c Condition
	require.NoError(t, json.Unmarshal([]byte(data), &c))
	return c
}

func TestConditionJSONLargeLong(t *testing.T) {
	c := decodeCondition(t, `{"field": {"path": "id", "type": "long"}, "operator": "is", "value": 9007199254740993}`)
	assert.Equal(t, json.Number("9007199254740993"), c.Value)
	assert.Equal(t, `{"term":{"id":9007199254740993}}`, render(t, c))

	c = decodeCondition(t, `{
		"field": {"path": "id", "type": "long"},
		"operator": "in_range",
		"range_start": 9007199254740993,
		"range_end": 9007199254740995
	}`)
	assert.Equal(t, `{"range":{"id":{"gte":9007199254740993,"lte":9007199254740995}}}`, render(t, c))

	// Bounds one apart above 2^53 still compare exactly.
	c = decodeCondition(t, `{
		"field": {"path": "id", "type": "long"},
		"operator": "in_range",
		"range_start": 9007199254740994,
		"range_end": 9007199254740993
	}`)
	_, err := Compile(c)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestRangeBoundNotNumber(t *testing.T) {
	_, err := Compile(Condition{Field: field("age", "long"), Operator: OpInRange, RangeStart: bound("1"), RangeEnd: bound("x")})
	assert.True(t, errors.Is(err, ErrInvalidCondition))
}
