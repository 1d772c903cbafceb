// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package mapping

import (
	"sort"

	"github.com/mailru/easyjson/jlexer"
)

// IndexMappings is a decoded GET <index>/_mapping response.
type IndexMappings struct {
	// Indices is sorted by name.
	Indices []string
	Roots   map[string]*Node
}

// ParseIndexMappings decodes a response shaped {"<index>": {"mappings": {...}}}.
func ParseIndexMappings(data []byte) (*IndexMappings, error) {
	in := jlexer.Lexer{Data: data}
	im := &IndexMappings{Roots: make(map[string]*Node)}

	in.Delim('{')
	for !in.IsDelim('}') {
		index := in.String()
		in.WantColon()

		root := &Node{}
		in.Delim('{')
		for !in.IsDelim('}') {
			key := in.UnsafeFieldName(false)
			in.WantColon()
			if key == kKeyMappings {
				decodeNode(&in, root, 0)
			} else {
				in.SkipRecursive()
			}
			in.WantComma()
		}
		in.Delim('}')

		if in.Ok() {
			im.Roots[index] = root
			im.Indices = append(im.Indices, index)
		}
		in.WantComma()
	}
	in.Delim('}')
	in.Consumed()

	if err := malformed(in.Error()); err != nil {
		return nil, err
	}

	sort.Strings(im.Indices)
	return im, nil
}

// Fields flattens every index and merges the results in index name order.
func (im *IndexMappings) Fields() ([]FieldDescriptor, error) {
	perIndex := make([][]FieldDescriptor, 0, len(im.Indices))
	for _, index := range im.Indices {
		fields, err := Flatten("", im.Roots[index])
		if err != nil {
			return nil, err
		}
		perIndex = append(perIndex, fields)
	}
	return Merge(perIndex...), nil
}

// Merge unions field lists keeping the first occurrence of every path.
func Merge(perIndex ...[]FieldDescriptor) []FieldDescriptor {
	var out []FieldDescriptor
	seen := make(map[string]struct{})
	for _, fields := range perIndex {
		for _, f := range fields {
			if _, ok := seen[f.Path]; ok {
				continue
			}
			seen[f.Path] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

// Find returns the descriptor with the given path.
func Find(fields []FieldDescriptor, path string) (FieldDescriptor, bool) {
	for _, f := range fields {
		if f.Path == path {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}
