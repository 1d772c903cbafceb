// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

//go:build !integration
// +build !integration

package dsl

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Emulate a filtered sample search against a transform source index.
func makeQuery(leaf interface{}) *Node {
	root := NewRoot()
	mustNode := root.Query().Bool().Must()
	mustNode.Term("event.dataset", "nginx.access", nil)
	mustNode.Term("source.ip", leaf, nil)
	return root
}

func makeQuery2(leaf1 interface{}, leaf2 interface{}) *Node {
	root := NewRoot()
	root.Size(1)
	root.Sort().SortOrder("@timestamp", SortDescend)

	mustNode := root.Query().Bool().Must()
	mustNode.Term("event.dataset", "nginx.access", nil)
	mustNode.Term("host.name", leaf1, nil)
	mustNode.Range("http.response.status_code", WithRangeGT(leaf2))
	return root
}

func TestRender(t *testing.T) {
	const kName1 = "host"
	const kName2 = "status"

	tmpl := NewTmpl()
	token1 := tmpl.Bind(kName1)
	token2 := tmpl.Bind(kName2)

	require.NoError(t, tmpl.Resolve(makeQuery2(token1, token2)))

	got, err := tmpl.Render(map[string]interface{}{
		kName1: "web-01",
		kName2: 499,
	})
	require.NoError(t, err)

	want, err := json.Marshal(makeQuery2("web-01", 499))
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestRenderFragment(t *testing.T) {
	tmpl := NewTmpl()
	root := NewRoot()
	root.Param("query", tmpl.Bind("query"))
	tmpl.MustResolve(root)

	frag := NewRoot()
	frag.Exists("user.name")

	got, err := tmpl.RenderOne("query", frag)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"exists":{"field":"user.name"}}}`, string(got))
}

func TestResolveKeepsForeignPrefix(t *testing.T) {
	tmpl := NewTmpl()
	token := tmpl.Bind("v")
	root := NewRoot()
	must := root.Query().Bool().Must()
	must.Term("label", "TMPL.not-a-token", nil)
	must.Term("value", token, nil)
	require.NoError(t, tmpl.Resolve(root))

	got, err := tmpl.RenderOne("v", "x")
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"bool":{"must":[{"term":{"label":"TMPL.not-a-token"}},{"term":{"value":"x"}}]}}}`, string(got))
}

func TestTmplErrors(t *testing.T) {
	tmpl := NewTmpl()
	_, err := tmpl.RenderOne("v", 1)
	assert.ErrorIs(t, err, ErrNotResolved)

	tmpl.Bind("unused")
	assert.ErrorIs(t, tmpl.Resolve(makeQuery("x")), ErrTokenUndefined)

	tmpl = NewTmpl()
	token := tmpl.Bind("v")
	require.NoError(t, tmpl.Resolve(makeQuery(token)))
	_, err = tmpl.Render(map[string]interface{}{"other": 1})
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func BenchmarkRenderOne(b *testing.B) {
	const kName = "source_ip"
	tmpl := NewTmpl()
	token := tmpl.Bind(kName)

	query := makeQuery(token)

	if err := tmpl.Resolve(query); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if _, err := tmpl.RenderOne(kName, "10.0.0.12"); err != nil {
			b.Error(err)
		}
	}
}

func BenchmarkMarshalNode2(b *testing.B) {
	query := makeQuery2("web-01", 499)
	var err error
	var p []byte
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		p, err = json.Marshal(query)
	}
	if len(p) == 0 || err != nil {
		b.Errorf("sanity check failed, p=%v err: %v", p, err)
	}
}

func BenchmarkSprintf(b *testing.B) {
	queryTmpl := `{"size": 1,"sort": [{"@timestamp": "desc"}],"query": {"bool": {"must": [{"term": {"event.dataset": "nginx.access"}},{"term": {"host.name": "%s"}},{"range": {"http.response.status_code": {"gt": %d}}}]}}}`

	var s string
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		s = fmt.Sprintf(queryTmpl, "web-01", 499)
	}
	if len(s) == 0 {
		b.Error("Sprintf had len 0")
	}
}

func BenchmarkRender2(b *testing.B) {
	const kName1 = "host"
	const kName2 = "status"

	tmpl := NewTmpl()
	token1 := tmpl.Bind(kName1)
	token2 := tmpl.Bind(kName2)

	query := makeQuery2(token1, token2)

	if err := tmpl.Resolve(query); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if _, err := tmpl.Render(map[string]interface{}{
			kName1: "web-01",
			kName2: 499,
		}); err != nil {
			b.Error(err)
		}
	}
}
