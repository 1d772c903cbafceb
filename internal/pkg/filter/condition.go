// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
)

// Condition is one user selected filter.
//
// Value is unset for is_null and is_not_null. RangeStart and RangeEnd are
// set for in_range and not_in_range and nothing else.
type Condition struct {
	Field      mapping.FieldDescriptor `json:"field"`
	Operator   Operator                `json:"operator"`
	Value      interface{}             `json:"value,omitempty"`
	RangeStart *json.Number            `json:"range_start,omitempty"`
	RangeEnd   *json.Number            `json:"range_end,omitempty"`
}

// UnmarshalJSON keeps numeric values as json.Number so long values beyond
// 2^53 are passed through unchanged.
func (c *Condition) UnmarshalJSON(data []byte) error {
	type plain Condition
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode((*plain)(c))
}

// Resolve replaces the field type of c with the one found in fields.
func Resolve(fields []mapping.FieldDescriptor, c Condition) (Condition, error) {
	f, ok := mapping.Find(fields, c.Field.Path)
	if !ok {
		return c, errors.Wrapf(ErrFieldNotFound, "field %q", c.Field.Path)
	}
	c.Field = f
	return c, nil
}

// Validate checks operator applicability and the value shape c carries.
func (c Condition) Validate() error {
	_, err := c.normalize()
	return err
}

// normalize validates c and returns its value coerced to the field type.
func (c Condition) normalize() (interface{}, error) {
	if c.Field.Path == "" {
		return nil, errors.Wrap(ErrInvalidCondition, "missing field")
	}
	if _, ok := lookup(c.Operator); !ok {
		return nil, errors.Wrapf(ErrUnsupportedOperator, "unknown operator %q", c.Operator)
	}
	if !c.Operator.AppliesTo(c.Field.Type) {
		return nil, errors.Wrapf(ErrUnsupportedOperator, "%s does not apply to %s field %q", c.Operator, c.Field.Type, c.Field.Path)
	}

	hasRange := c.RangeStart != nil || c.RangeEnd != nil
	switch {
	case c.Operator.isNullCheck():
		if !isMissing(c.Value) || hasRange {
			return nil, errors.Wrapf(ErrInvalidCondition, "%s takes no value", c.Operator)
		}
		return nil, nil
	case c.Operator.isRange():
		if c.RangeStart == nil || c.RangeEnd == nil {
			return nil, errors.Wrapf(ErrInvalidCondition, "%s needs range_start and range_end", c.Operator)
		}
		if !isMissing(c.Value) {
			return nil, errors.Wrapf(ErrInvalidCondition, "%s takes a range, not a value", c.Operator)
		}
		start, err := parseBound("range_start", *c.RangeStart)
		if err != nil {
			return nil, err
		}
		end, err := parseBound("range_end", *c.RangeEnd)
		if err != nil {
			return nil, err
		}
		if start.Cmp(end) > 0 {
			return nil, errors.Wrapf(ErrInvalidRange, "range_start %s is greater than range_end %s", *c.RangeStart, *c.RangeEnd)
		}
		return nil, nil
	}

	if hasRange {
		return nil, errors.Wrapf(ErrInvalidCondition, "%s takes a value, not a range", c.Operator)
	}
	if isMissing(c.Value) {
		return nil, errors.Wrapf(ErrInvalidCondition, "%s needs a value", c.Operator)
	}

	switch c.Operator {
	case OpStartsWith, OpEndsWith, OpContains, OpNotContains:
		s, err := toString(c.Value)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	switch mapping.LogicalType(c.Field.Type) {
	case mapping.TypeNumber:
		return toNumber(c.Value)
	case mapping.TypeBoolean:
		return toBool(c.Value)
	}
	return toScalar(c.Value)
}

func parseBound(name string, n json.Number) (*big.Float, error) {
	f, _, err := big.ParseFloat(n.String(), 10, 256, big.ToNearestEven)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidCondition, "%s %q is not a number", name, n.String())
	}
	return f, nil
}

func isMissing(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	return false
}

func toScalar(v interface{}) (interface{}, error) {
	switch v.(type) {
	case string, bool, json.Number, float32, float64,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v, nil
	}
	return nil, errors.Wrapf(ErrInvalidCondition, "value of type %T is not a scalar", v)
}

func toString(v interface{}) (string, error) {
	v, err := toScalar(v)
	if err != nil {
		return "", err
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

func toNumber(v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case string:
		if _, err := strconv.ParseFloat(n, 64); err != nil {
			return nil, errors.Wrapf(ErrInvalidCondition, "value %q is not a number", n)
		}
		return json.Number(n), nil
	case json.Number:
		if _, err := n.Float64(); err != nil {
			return nil, errors.Wrapf(ErrInvalidCondition, "value %q is not a number", n.String())
		}
		return n, nil
	case bool:
		return nil, errors.Wrapf(ErrInvalidCondition, "value %v is not a number", n)
	}
	return toScalar(v)
}

func toBool(v interface{}) (interface{}, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidCondition, "value %q is not a boolean", b)
		}
		return parsed, nil
	}
	return nil, errors.Wrapf(ErrInvalidCondition, "value of type %T is not a boolean", v)
}
