// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package limit

import (
	"net"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/elastic/index-filter-server/v7/internal/pkg/logger"
)

// Listener accepts every connection and closes the ones over n instead of
// blocking in Accept. Install it under the TLS listener so rejected
// connections never reach the handshake.
func Listener(l net.Listener, n int) net.Listener {
	return &limitListener{
		Listener: l,
		sem:      make(chan struct{}, n),
		done:     make(chan struct{}),
	}
}

type limitListener struct {
	net.Listener
	sem       chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

func (l *limitListener) acquire() bool {
	select {
	case <-l.done:
		return false
	case l.sem <- struct{}{}:
		return true
	default:
		return false
	}
}
func (l *limitListener) release() { <-l.sem }

func (l *limitListener) Accept() (net.Conn, error) {
	c, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}

	if acquired := l.acquire(); !acquired {
		zlog := log.Warn()

		var err error
		if c != nil {
			err = c.Close()
			zlog.Str(logger.ECSServerAddress, c.LocalAddr().String())
			zlog.Str(logger.ECSClientAddress, c.RemoteAddr().String())
			zlog.Err(err)
		}
		zlog.Int("max", cap(l.sem)).Msg("connection closed, max connections reached")

		return c, nil
	}

	return &limitListenerConn{Conn: c, release: l.release}, nil
}

func (l *limitListener) Close() error {
	err := l.Listener.Close()
	l.closeOnce.Do(func() { close(l.done) })
	return err
}

type limitListenerConn struct {
	net.Conn
	releaseOnce sync.Once
	release     func()
}

func (l *limitListenerConn) Close() error {
	err := l.Conn.Close()
	l.releaseOnce.Do(l.release)
	return err
}
