// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/elastic/index-filter-server/v7/internal/pkg/filter"
)

// handleOperators lists the operators applicable to ?type=, or the whole
// catalog without it.
func (rt *Router) handleOperators(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	typ := r.URL.Query().Get("type")

	ops := filter.Operators()
	if typ != "" {
		ops = filter.ApplicableOperators(typ)
	}

	resp := OperatorsResponse{
		Type:      typ,
		Operators: make([]OperatorInfo, 0, len(ops)),
	}
	for _, op := range ops {
		resp.Operators = append(resp.Operators, OperatorInfo{
			Operator: op,
			Text:     op.Text(),
			Types:    op.Types(),
		})
	}

	if err := writeJSON(w, r, &cntOperators, &resp); err != nil {
		cntOperators.IncError(err)
		ErrorResp(w, r, err)
	}
}
