// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package api

import (
	"context"
	"crypto/tls"
	"errors"
	slog "log"
	"net"
	"net/http"

	"github.com/elastic/beats/v7/libbeat/common/transport/tlscommon"
	"github.com/rs/zerolog/log"

	"github.com/elastic/index-filter-server/v7/internal/pkg/config"
	"github.com/elastic/index-filter-server/v7/internal/pkg/limit"
	"github.com/elastic/index-filter-server/v7/internal/pkg/logger"
	"github.com/elastic/index-filter-server/v7/internal/pkg/rate"
)

func diagConn(c net.Conn, s http.ConnState) {
	if c == nil {
		return
	}

	log.Trace().
		Str("local", c.LocalAddr().String()).
		Str("remote", c.RemoteAddr().String()).
		Str("state", s.String()).
		Msg("connection state change")

	switch s {
	case http.StateNew:
		cntHTTPNew.Inc()
	case http.StateClosed:
		cntHTTPClose.Inc()
	}
}

// Run serves h on the configured address until ctx is done.
func Run(ctx context.Context, h http.Handler, cfg *config.Server) error {
	ln, err := net.Listen("tcp", cfg.BindAddress())
	if err != nil {
		return err
	}
	return Serve(ctx, ln, h, cfg)
}

// Serve serves h on ln until ctx is done. TLS, the connection limit and the
// accept rate limit are applied from cfg.
func Serve(ctx context.Context, ln net.Listener, h http.Handler, cfg *config.Server) error {
	addr := ln.Addr().String()
	rdto := cfg.Timeouts.Read
	wrto := cfg.Timeouts.Write
	idle := cfg.Timeouts.Idle
	rdhr := cfg.Timeouts.ReadHeader
	mhbz := cfg.MaxHeaderByteSize
	bctx := func(net.Listener) context.Context { return ctx }

	log.Info().
		Str("bind", addr).
		Dur("rdTimeout", rdto).
		Dur("wrTimeout", wrto).
		Msg("server listening")

	server := http.Server{
		Addr:              addr,
		ReadTimeout:       rdto,
		ReadHeaderTimeout: rdhr,
		WriteTimeout:      wrto,
		IdleTimeout:       idle,
		Handler:           logger.Middleware(h),
		BaseContext:       bctx,
		ConnState:         diagConn,
		MaxHeaderBytes:    mhbz,
		ErrorLog:          errLogger(),
	}

	forceCh := make(chan struct{})
	defer close(forceCh)

	go func() {
		select {
		case <-ctx.Done():
			log.Debug().Msg("force server close on ctx.Done()")
			drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Drain)
			defer cancel()
			if err := server.Shutdown(drainCtx); err != nil {
				server.Close()
			}
		case <-forceCh:
			log.Debug().Msg("go routine forced closed on exit")
		}
	}()

	defer ln.Close()

	ln = wrapConnLimitter(ln, cfg)

	if cfg.TLS != nil && cfg.TLS.IsEnabled() {
		tlsCfg, err := tlscommon.LoadTLSConfig(cfg.TLS)
		if err != nil {
			return err
		}
		server.TLSConfig = tlsCfg.ToConfig()
		ln = tls.NewListener(ln, server.TLSConfig)
	} else {
		log.Warn().Msg("exposed over insecure HTTP; enablement of TLS is strongly recommended")
	}

	ln = wrapRateLimitter(ctx, ln, cfg)
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func wrapConnLimitter(ln net.Listener, cfg *config.Server) net.Listener {
	hardLimit := cfg.Limits.MaxConnections

	if hardLimit != 0 {
		log.Info().
			Int("hardConnLimit", hardLimit).
			Msg("server hard connection limiter installed")

		ln = limit.Listener(ln, hardLimit)
	} else {
		log.Info().Msg("server hard connection limiter disabled")
	}

	return ln
}

func wrapRateLimitter(ctx context.Context, ln net.Listener, cfg *config.Server) net.Listener {
	rateLimitBurst := cfg.RateLimitBurst
	rateLimitInterval := cfg.RateLimitInterval

	if rateLimitInterval != 0 {
		log.Info().Dur("interval", rateLimitInterval).Int("burst", rateLimitBurst).Msg("server rate limiter installed")
		ln = rate.NewRateListener(ctx, ln, rateLimitBurst, rateLimitInterval)
	} else {
		log.Info().Msg("server connection rate limiter disabled")
	}

	return ln
}

type stubLogger struct {
}

func (s *stubLogger) Write(p []byte) (n int, err error) {
	log.Error().Bytes(logger.ECSMessage, p).Send()
	return len(p), nil
}

func errLogger() *slog.Logger {
	stub := &stubLogger{}
	return slog.New(stub, "", 0)
}
