// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package mapping

import (
	"errors"
	"fmt"

	"github.com/mailru/easyjson/jlexer"
	pkgerrors "github.com/pkg/errors"
)

// MaxDepth bounds nesting of mapping nodes, both when decoding and when
// flattening nodes that were built in code.
const MaxDepth = 64

const (
	kKeyType       = "type"
	kKeyFields     = "fields"
	kKeyProperties = "properties"
	kKeyMappings   = "mappings"
)

// ErrMalformedMapping is returned when a mapping is not tree shaped or a
// node has an unexpected shape.
var ErrMalformedMapping = errors.New("malformed mapping")

// Node is one mapping node. Fields holds multi-field children, Properties
// holds object/nested children; both keep the order of the source document.
type Node struct {
	Type       string
	Fields     Children
	Properties Children
}

// Child is a named child node.
type Child struct {
	Name string
	Node *Node
}

// Children is an ordered set of named child nodes.
type Children []Child

// NewNode returns a node of the given mapping type.
func NewNode(typ string) *Node {
	return &Node{Type: typ}
}

// AddField appends a multi-field child and returns n.
func (n *Node) AddField(name string, child *Node) *Node {
	n.Fields = append(n.Fields, Child{Name: name, Node: child})
	return n
}

// AddProperty appends an object/nested child and returns n.
func (n *Node) AddProperty(name string, child *Node) *Node {
	n.Properties = append(n.Properties, Child{Name: name, Node: child})
	return n
}

// Get returns the named child, or nil.
func (c Children) Get(name string) *Node {
	for _, child := range c {
		if child.Name == name {
			return child.Node
		}
	}
	return nil
}

// UnmarshalJSON decodes a mapping node keeping child order.
func (n *Node) UnmarshalJSON(data []byte) error {
	in := jlexer.Lexer{Data: data}
	n.UnmarshalEasyJSON(&in)
	in.Consumed()
	return malformed(in.Error())
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (n *Node) UnmarshalEasyJSON(in *jlexer.Lexer) {
	decodeNode(in, n, 0)
}

func malformed(err error) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(ErrMalformedMapping, err.Error())
}

func decodeNode(in *jlexer.Lexer, n *Node, depth int) {
	if depth > MaxDepth {
		in.AddError(fmt.Errorf("mapping nested deeper than %d levels", MaxDepth))
		return
	}
	if in.IsNull() {
		in.Skip()
		return
	}

	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case kKeyType:
			n.Type = in.String()
		case kKeyFields:
			n.Fields = decodeChildren(in, depth)
		case kKeyProperties:
			n.Properties = decodeChildren(in, depth)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

func decodeChildren(in *jlexer.Lexer, depth int) Children {
	children := Children{}
	if in.IsNull() {
		in.Skip()
		return children
	}

	seen := make(map[string]struct{})
	in.Delim('{')
	for !in.IsDelim('}') {
		name := in.String()
		in.WantColon()
		if _, ok := seen[name]; ok {
			in.AddError(fmt.Errorf("duplicate mapping key %q", name))
			return children
		}
		seen[name] = struct{}{}

		child := &Node{}
		decodeNode(in, child, depth+1)
		children = append(children, Child{Name: name, Node: child})
		in.WantComma()

		if !in.Ok() {
			return children
		}
	}
	in.Delim('}')
	return children
}
