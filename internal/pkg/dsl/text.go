// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package dsl

// Prefix matches values starting with the literal prefix.
func (n *Node) Prefix(field string, value interface{}) {
	childNode := n.appendOrSetChildNode(kKeywordPrefix)
	childNode.nodeMap = nodeMapT{field: &Node{
		leaf: value,
	}}
}

// Wildcard takes a pattern where * and ? are live; callers escape user input.
func (n *Node) Wildcard(field string, pattern string) {
	childNode := n.appendOrSetChildNode(kKeywordWildcard)
	childNode.nodeMap = nodeMapT{field: &Node{
		leaf: pattern,
	}}
}

// QueryString queries defaultField with Lucene query syntax.
func (n *Node) QueryString(query string, defaultField string) {
	childNode := n.appendOrSetChildNode(kKeywordQueryString)
	childNode.nodeMap = nodeMapT{
		kKeywordQuery:        &Node{leaf: query},
		kKeywordDefaultField: &Node{leaf: defaultField},
	}
}
