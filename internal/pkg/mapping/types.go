// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package mapping

// Field data types as they appear in a mapping document, plus the logical
// "number" type that every numeric sub-type collapses to.
const (
	TypeText    = "text"
	TypeKeyword = "keyword"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeDate    = "date"
	TypeObject  = "object"
	TypeNested  = "nested"
)

var numericTypes = map[string]struct{}{
	"long":         {},
	"integer":      {},
	"short":        {},
	"byte":         {},
	"double":       {},
	"float":        {},
	"half_float":   {},
	"scaled_float": {},
}

// IsNumeric reports whether t is one of the numeric mapping types.
func IsNumeric(t string) bool {
	_, ok := numericTypes[t]
	return ok
}

// LogicalType collapses numeric mapping types into TypeNumber; every other
// type is returned as is.
func LogicalType(t string) string {
	if IsNumeric(t) {
		return TypeNumber
	}
	return t
}

// FieldDescriptor is a selectable leaf field of a mapping.
type FieldDescriptor struct {
	Path string `json:"path"`
	Type string `json:"type"`
}
