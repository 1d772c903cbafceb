// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

//go:build !integration
// +build !integration

package rate

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateListenerAccepts(t *testing.T) {
	ll, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	l := NewRateListener(context.Background(), ll, 1, time.Millisecond)
	defer l.Close()

	go func() {
		c, err := net.Dial("tcp", l.Addr().String())
		if err == nil {
			c.Close()
		}
	}()

	conn, err := l.Accept()
	require.NoError(t, err)
	conn.Close()
}

func TestRateListenerCloseUnblocks(t *testing.T) {
	ll, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	// zero burst never grants a token
	l := NewRateListener(context.Background(), ll, 0, time.Hour)

	errCh := make(chan error, 1)
	go func() {
		_, err := l.Accept()
		errCh <- err
	}()

	require.NoError(t, l.Close())
	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("accept did not return after close")
	}
}
