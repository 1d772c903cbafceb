// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package filter

import (
	"strings"
	"unicode"
)

const (
	queryStringReserved = `+-=&|><!(){}[]^"~*?:\/`
	wildcardReserved    = `\*?`
)

// EscapeQueryString makes s literal inside a Lucene query_string.
func EscapeQueryString(s string) string {
	return escape(s, func(r rune) bool {
		return strings.ContainsRune(queryStringReserved, r) || unicode.IsSpace(r)
	})
}

// EscapeWildcard makes s literal inside a wildcard pattern.
func EscapeWildcard(s string) string {
	return escape(s, func(r rune) bool {
		return strings.ContainsRune(wildcardReserved, r)
	})
}

func escape(s string, reserved func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if reserved(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
