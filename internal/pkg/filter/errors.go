// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package filter

import "errors"

var (
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrInvalidCondition    = errors.New("invalid condition")
	ErrInvalidRange        = errors.New("invalid range")
	ErrFieldNotFound       = errors.New("field not found")
)
