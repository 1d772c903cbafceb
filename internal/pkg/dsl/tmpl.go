// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package dsl

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofrs/uuid"
)

const kPrefix = "TMPL."
const kTokenSz = len(kPrefix) + 36 // len of uuid string

var (
	ErrTokenUndefined = errors.New("bound token not defined")
	ErrTokenNotFound  = errors.New("named token not found")
	ErrNotResolved    = errors.New("template not resolved")
)

// Tmpl is a pre-serialized query with named holes. A query is built once
// with tokens in place of the per-request values, resolved, then rendered
// by splicing the marshaled values into the cached bytes.
type Tmpl struct {
	tokens   map[string]Token
	segments []segment
	size     int
}

// segment is literal data optionally followed by a named hole.
type segment struct {
	data []byte
	hole string
}

type Token string

func NewTmpl() *Tmpl {
	return &Tmpl{
		tokens: make(map[string]Token),
	}
}

func newToken() Token {
	t := kPrefix + uuid.Must(uuid.NewV4()).String()
	if len(t) != kTokenSz {
		panic("Size misalignment")
	}
	return Token(t)
}

// Bind reserves a token for name; place it in the query where the value goes.
func (t *Tmpl) Bind(name string) Token {
	token := newToken()
	t.tokens[name] = token
	return token
}

// Resolve marshals n and splits it around every bound token. Each bound
// token must appear as a quoted JSON string.
func (t *Tmpl) Resolve(n *Node) error {
	d, err := json.Marshal(n)
	if err != nil {
		return err
	}

	names := make(map[Token]string, len(t.tokens))
	for name, token := range t.tokens {
		names[token] = name
	}

	var (
		segments []segment
		size     int
		seen     = make(map[Token]struct{})
		src      = string(d)
	)

	for v := strings.Index(src, kPrefix); v != -1; v = strings.Index(src, kPrefix) {
		var seg segment

		quoted := v > 0 && src[v-1] == '"' && len(src) >= v+kTokenSz+1 && src[v+kTokenSz] == '"'
		if quoted {
			token := Token(src[v : v+kTokenSz])
			if name, ok := names[token]; ok {
				seen[token] = struct{}{}
				seg.hole = name
				seg.data = []byte(src[:v-1])
				src = src[v+kTokenSz+1:]
			}
		}

		// Not one of ours; keep the text so other strings with kPrefix survive.
		if seg.hole == "" {
			seg.data = []byte(src[:v+len(kPrefix)])
			src = src[v+len(kPrefix):]
		}

		size += len(seg.data)
		segments = append(segments, seg)
	}

	if len(src) > 0 {
		size += len(src)
		segments = append(segments, segment{data: []byte(src)})
	}

	if len(seen) != len(names) {
		return ErrTokenUndefined
	}

	t.segments = segments
	t.size = size
	return nil
}

func (t *Tmpl) MustResolve(n *Node) *Tmpl {
	if err := t.Resolve(n); err != nil {
		panic(err)
	}
	return t
}

// RenderOne renders a template with a single hole.
func (t *Tmpl) RenderOne(name string, v interface{}) ([]byte, error) {
	d, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return t.render(map[string][]byte{name: d}, len(d))
}

func (t *Tmpl) Render(m map[string]interface{}) ([]byte, error) {
	values := make(map[string][]byte, len(m))
	var sum int

	for name, v := range m {
		d, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		sum += len(d)
		values[name] = d
	}

	return t.render(values, sum)
}

func (t *Tmpl) render(values map[string][]byte, sum int) ([]byte, error) {
	if t.segments == nil {
		return nil, ErrNotResolved
	}

	var buf bytes.Buffer
	buf.Grow(sum + t.size)

	for _, seg := range t.segments {
		buf.Write(seg.data)
		if seg.hole == "" {
			continue
		}
		d, ok := values[seg.hole]
		if !ok {
			return nil, ErrTokenNotFound
		}
		buf.Write(d)
	}

	return buf.Bytes(), nil
}
