// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package log routes zerolog output into the test log.
package log

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type testWriter struct {
	tb testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.tb.Log(string(p))
	return len(p), nil
}

// SetLogger sends the global zerolog logger to the test output at debug
// level and returns it. The previous logger is restored on cleanup.
func SetLogger(tb testing.TB) zerolog.Logger {
	tb.Helper()

	prev := log.Logger
	tb.Cleanup(func() { log.Logger = prev })

	l := zerolog.New(testWriter{tb: tb}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	log.Logger = l
	return l
}
