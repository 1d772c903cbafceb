// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package filter

import (
	"github.com/pkg/errors"

	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
)

// Operator is a filter comparison operator.
type Operator string

const (
	OpIs             Operator = "is"
	OpIsNot          Operator = "is_not"
	OpIsNull         Operator = "is_null"
	OpIsNotNull      Operator = "is_not_null"
	OpIsGreater      Operator = "is_greater"
	OpIsGreaterEqual Operator = "is_greater_equal"
	OpIsLess         Operator = "is_less"
	OpIsLessEqual    Operator = "is_less_equal"
	OpInRange        Operator = "in_range"
	OpNotInRange     Operator = "not_in_range"
	OpStartsWith     Operator = "starts_with"
	OpEndsWith       Operator = "ends_with"
	OpContains       Operator = "contains"
	OpNotContains    Operator = "not_contains"
)

type operatorDef struct {
	op    Operator
	text  string
	types []string
}

var (
	equalityTypes   = []string{mapping.TypeNumber, mapping.TypeText, mapping.TypeKeyword, mapping.TypeBoolean}
	nullTypes       = []string{mapping.TypeNumber, mapping.TypeText, mapping.TypeKeyword, mapping.TypeBoolean, mapping.TypeDate}
	comparisonTypes = []string{mapping.TypeNumber, mapping.TypeDate}
	rangeTypes      = []string{mapping.TypeNumber}
	affixTypes      = []string{mapping.TypeKeyword}
	containsTypes   = []string{mapping.TypeText, mapping.TypeKeyword}
)

// catalog is in display order and never modified.
var catalog = [...]operatorDef{
	{OpIs, "is", equalityTypes},
	{OpIsNot, "is not", equalityTypes},
	{OpIsNull, "is null", nullTypes},
	{OpIsNotNull, "is not null", nullTypes},
	{OpIsGreater, "is greater than", comparisonTypes},
	{OpIsGreaterEqual, "is greater than or equal to", comparisonTypes},
	{OpIsLess, "is less than", comparisonTypes},
	{OpIsLessEqual, "is less than or equal to", comparisonTypes},
	{OpInRange, "is in range", rangeTypes},
	{OpNotInRange, "is not in range", rangeTypes},
	{OpStartsWith, "starts with", affixTypes},
	{OpEndsWith, "ends with", affixTypes},
	{OpContains, "contains", containsTypes},
	{OpNotContains, "does not contain", containsTypes},
}

func lookup(op Operator) (operatorDef, bool) {
	for _, def := range catalog {
		if def.op == op {
			return def, true
		}
	}
	return operatorDef{}, false
}

// Operators returns the whole catalog.
func Operators() []Operator {
	ops := make([]Operator, 0, len(catalog))
	for _, def := range catalog {
		ops = append(ops, def.op)
	}
	return ops
}

// ParseOperator maps the wire name of an operator to its value.
func ParseOperator(s string) (Operator, error) {
	if _, ok := lookup(Operator(s)); !ok {
		return "", errors.Wrapf(ErrUnsupportedOperator, "unknown operator %q", s)
	}
	return Operator(s), nil
}

// Text is the human readable label.
func (op Operator) Text() string {
	def, _ := lookup(op)
	return def.text
}

// AppliesTo reports whether op may be used on a field of the given mapping
// type. Numeric sub-types count as number.
func (op Operator) AppliesTo(fieldType string) bool {
	def, ok := lookup(op)
	if !ok {
		return false
	}
	logical := mapping.LogicalType(fieldType)
	for _, t := range def.types {
		if t == logical {
			return true
		}
	}
	return false
}

// Types returns the logical field types op applies to.
func (op Operator) Types() []string {
	def, _ := lookup(op)
	return append([]string(nil), def.types...)
}

func (op Operator) isNullCheck() bool {
	return op == OpIsNull || op == OpIsNotNull
}

func (op Operator) isRange() bool {
	return op == OpInRange || op == OpNotInRange
}

// ApplicableOperators returns, in catalog order, the operators usable on a
// field of the given mapping type.
func ApplicableOperators(fieldType string) []Operator {
	var ops []Operator
	for _, def := range catalog {
		if def.op.AppliesTo(fieldType) {
			ops = append(ops, def.op)
		}
	}
	return ops
}
