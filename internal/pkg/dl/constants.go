// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package dl

// Query fields
const (
	FieldQuery  = "query"
	FieldSize   = "size"
	FieldSource = "_source"
	FieldId     = "_id"
)

// Sample sizes
const (
	DefaultSampleSize = 10
	MaxSampleSize     = 100
)

// Cap on the bytes read back from a mapping or search response.
const maxResponseBytes = 64 * 1024 * 1024
