// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package dsl

import (
	"encoding/json"
)

// Basic elastic DSL query builder. Covers the clauses the filter compiler,
// the sample search and the transform aggregations emit; nothing more.

type nodeMapT map[string]*Node
type nodeListT []*Node

type Node struct {
	leaf     interface{}
	nodeMap  nodeMapT
	nodeList nodeListT
}

// NewRoot returns an empty node; it renders as null until a child is added.
func NewRoot() *Node {
	return &Node{}
}

func (n *Node) MarshalJSON() ([]byte, error) {

	switch {
	case n.leaf != nil:
		return json.Marshal(n.leaf)
	case n.nodeMap != nil:
		return json.Marshal(n.nodeMap)
	case n.nodeList != nil:
		return json.Marshal(n.nodeList)
	}

	return []byte(kKeywordNULL), nil
}

// Param sets a named leaf value on the node.
func (n *Node) Param(name string, value interface{}) {
	childNode := n.findOrCreateChildByName(name)
	childNode.leaf = value
}

// Child returns the named object child, creating it when missing.
func (n *Node) Child(name string) *Node {
	return n.findOrCreateChildByName(name)
}

// Append adds an already built clause to a list node (must, must_not, sort).
func (n *Node) Append(child *Node) {
	if n.leaf != nil {
		panic("Cannot add child to leaf node")
	}
	if n.nodeList == nil {
		panic("Parent should be list node")
	}
	n.nodeList = append(n.nodeList, child)
}

func (n *Node) findOrCreateChildByName(keyword string) *Node {
	if node, ok := n.nodeMap[keyword]; ok {
		return node
	}

	if n.leaf != nil {
		panic("Cannot add child to leaf node")
	}

	childNode := &Node{}
	if n.nodeMap == nil {
		n.nodeMap = nodeMapT{keyword: childNode}
	} else {
		n.nodeMap[keyword] = childNode
	}

	return childNode
}

// Create child node and add to nodeList if exists, or add fallback to nodeMap.
func (n *Node) appendOrSetChildNode(keyword string) *Node {
	childNode := &Node{}

	switch {
	case n.leaf != nil:
		panic("Cannot add child to leaf node")
	case n.nodeList != nil:
		parentNode := Node{
			nodeMap: nodeMapT{keyword: childNode},
		}
		n.nodeList = append(n.nodeList, &parentNode)
	default:
		if n.nodeMap == nil {
			n.nodeMap = nodeMapT{keyword: childNode}
		} else {
			n.nodeMap[keyword] = childNode
		}
	}

	return childNode
}
