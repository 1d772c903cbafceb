// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package filter

import (
	"github.com/pkg/errors"

	"github.com/elastic/index-filter-server/v7/internal/pkg/dsl"
	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
)

// Compile turns c into a single query clause. No fragment is returned
// alongside an error.
func Compile(c Condition) (*dsl.Node, error) {
	value, err := c.normalize()
	if err != nil {
		return nil, err
	}

	var (
		root   = dsl.NewRoot()
		key    = c.Field.Path
		isText = mapping.LogicalType(c.Field.Type) == mapping.TypeText
	)

	switch c.Operator {
	case OpIs:
		equals(root, key, value, isText)
	case OpIsNot:
		equals(root.Not(), key, value, isText)
	case OpIsNull:
		root.Not().Exists(key)
	case OpIsNotNull:
		root.Exists(key)
	case OpIsGreater:
		root.Range(key, dsl.WithRangeGT(value))
	case OpIsGreaterEqual:
		root.Range(key, dsl.WithRangeGTE(value))
	case OpIsLess:
		root.Range(key, dsl.WithRangeLT(value))
	case OpIsLessEqual:
		root.Range(key, dsl.WithRangeLTE(value))
	case OpInRange:
		root.Range(key, dsl.WithRangeGTE(*c.RangeStart), dsl.WithRangeLTE(*c.RangeEnd))
	case OpNotInRange:
		root.Not().Range(key, dsl.WithRangeGTE(*c.RangeStart), dsl.WithRangeLTE(*c.RangeEnd))
	case OpStartsWith:
		root.Prefix(key, value)
	case OpEndsWith:
		root.Wildcard(key, "*"+EscapeWildcard(value.(string)))
	case OpContains:
		contains(root, key, value.(string), isText)
	case OpNotContains:
		contains(root.Not(), key, value.(string), isText)
	default:
		return nil, errors.Wrapf(ErrUnsupportedOperator, "unknown operator %q", c.Operator)
	}

	return root, nil
}

// CompileAll joins conditions with bool.must. No conditions match all
// documents and a single condition is returned unwrapped.
func CompileAll(conds []Condition) (*dsl.Node, error) {
	root := dsl.NewRoot()

	switch len(conds) {
	case 0:
		root.MatchAll()
		return root, nil
	case 1:
		return Compile(conds[0])
	}

	must := root.Bool().Must()
	for i, c := range conds {
		clause, err := Compile(c)
		if err != nil {
			return nil, errors.WithMessagef(err, "condition %d", i)
		}
		must.Append(clause)
	}
	return root, nil
}

func equals(n *dsl.Node, key string, value interface{}, isText bool) {
	if isText {
		n.MatchPhrase(key, value)
		return
	}
	n.Term(key, value, nil)
}

func contains(n *dsl.Node, key string, value string, isText bool) {
	if isText {
		n.QueryString("*"+EscapeQueryString(value)+"*", key)
		return
	}
	n.Wildcard(key, "*"+EscapeWildcard(value)+"*")
}
