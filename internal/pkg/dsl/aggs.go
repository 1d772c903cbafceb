// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package dsl

func (n *Node) Aggs() *Node {
	return n.findOrCreateChildByName(kKeywordAggs)
}

func (n *Node) Agg(name string) *Node {
	return n.findOrCreateChildByName(name)
}

func (n *Node) Max() *Node {
	return n.findOrCreateChildByName(kKeywordMax)
}

func (n *Node) Min() *Node {
	return n.findOrCreateChildByName(kKeywordMin)
}

func (n *Node) Sum() *Node {
	return n.findOrCreateChildByName(kKeywordSum)
}

func (n *Node) Avg() *Node {
	return n.findOrCreateChildByName(kKeywordAvg)
}

func (n *Node) ValueCount() *Node {
	return n.findOrCreateChildByName(kKeywordValueCount)
}

func (n *Node) Percentiles() *Node {
	return n.findOrCreateChildByName(kKeywordPercentiles)
}

func (n *Node) ScriptedMetric() *Node {
	return n.findOrCreateChildByName(kKeywordScriptedMetric)
}
