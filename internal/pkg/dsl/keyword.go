// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package dsl

const (
	kKeywordAggs           = "aggs"
	kKeywordAvg            = "avg"
	kKeywordBool           = "bool"
	kKeywordBoost          = "boost"
	kKeywordDefaultField   = "default_field"
	kKeywordExists         = "exists"
	kKeywordField          = "field"
	kKeywordGreaterThan    = "gt"
	kKeywordGreaterThanEq  = "gte"
	kKeywordIncludes       = "includes"
	kKeywordLessThan       = "lt"
	kKeywordLessThanEq     = "lte"
	kKeywordMatchAll       = "match_all"
	kKeywordMatchPhrase    = "match_phrase"
	kKeywordMax            = "max"
	kKeywordMin            = "min"
	kKeywordMust           = "must"
	kKeywordMustNot        = "must_not"
	kKeywordNULL           = "null"
	kKeywordPercentiles    = "percentiles"
	kKeywordPrefix         = "prefix"
	kKeywordQuery          = "query"
	kKeywordQueryString    = "query_string"
	kKeywordRange          = "range"
	kKeywordScriptedMetric = "scripted_metric"
	kKeywordSize           = "size"
	kKeywordSort           = "sort"
	kKeywordSource         = "_source"
	kKeywordSum            = "sum"
	kKeywordTerm           = "term"
	kKeywordValueCount     = "value_count"
	kKeywordWildcard       = "wildcard"
)
