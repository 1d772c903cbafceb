// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package mapping

import (
	"github.com/pkg/errors"
)

// Flatten walks n and returns its selectable leaf fields in document order.
//
// A child with a type other than object or nested is emitted as prefix+name.
// A child carrying fields or properties is then walked with prefix+name+"."
// so a multi-field yields both itself and its sub-fields. Object and nested
// nodes are never emitted themselves.
func Flatten(prefix string, n *Node) ([]FieldDescriptor, error) {
	f := flattener{seen: make(map[string]struct{})}
	if err := f.walk(prefix, n, 0); err != nil {
		return nil, err
	}
	return f.out, nil
}

type flattener struct {
	out  []FieldDescriptor
	seen map[string]struct{}
}

func (f *flattener) walk(prefix string, n *Node, depth int) error {
	if n == nil {
		return nil
	}
	if depth > MaxDepth {
		return errors.Wrapf(ErrMalformedMapping, "mapping nested deeper than %d levels at %q", MaxDepth, prefix)
	}
	for _, children := range [...]Children{n.Fields, n.Properties} {
		if err := f.walkChildren(prefix, children, depth); err != nil {
			return err
		}
	}
	return nil
}

func (f *flattener) walkChildren(prefix string, children Children, depth int) error {
	for _, child := range children {
		if child.Name == "" {
			return errors.Wrapf(ErrMalformedMapping, "empty field name under %q", prefix)
		}
		if child.Node == nil {
			continue
		}

		path := prefix + child.Name
		if isLeaf(child.Node.Type) {
			if _, ok := f.seen[path]; ok {
				return errors.Wrapf(ErrMalformedMapping, "duplicate field path %q", path)
			}
			f.seen[path] = struct{}{}
			f.out = append(f.out, FieldDescriptor{Path: path, Type: child.Node.Type})
		}

		if err := f.walk(path+".", child.Node, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func isLeaf(typ string) bool {
	return typ != "" && typ != TypeObject && typ != TypeNested
}
