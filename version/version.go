// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package version

// DefaultVersion is the release version, overridden at link time.
const DefaultVersion = "0.1.0"
