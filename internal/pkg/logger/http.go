// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package logger

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	HeaderRequestID = "X-Request-Id"
	httpSlashPrefix = "HTTP/"
)

type readCounter struct {
	io.ReadCloser
	count uint64
}

func (rd *readCounter) Read(buf []byte) (int, error) {
	n, err := rd.ReadCloser.Read(buf)
	atomic.AddUint64(&rd.count, uint64(n))
	return n, err
}

func (rd *readCounter) Count() uint64 {
	return atomic.LoadUint64(&rd.count)
}

// ResponseCounter records the status code and body size of a response.
type ResponseCounter struct {
	http.ResponseWriter
	count      uint64
	statusCode int
}

func NewResponseCounter(w http.ResponseWriter) *ResponseCounter {
	return &ResponseCounter{
		ResponseWriter: w,
	}
}

func (rc *ResponseCounter) Write(buf []byte) (int, error) {
	if rc.statusCode == 0 {
		rc.WriteHeader(http.StatusOK)
	}

	n, err := rc.ResponseWriter.Write(buf)
	atomic.AddUint64(&rc.count, uint64(n))
	return n, err
}

func (rc *ResponseCounter) WriteHeader(statusCode int) {
	rc.ResponseWriter.WriteHeader(statusCode)

	// only the first call counts
	if rc.statusCode == 0 {
		rc.statusCode = statusCode
	}
}

func (rc *ResponseCounter) Count() uint64 {
	return atomic.LoadUint64(&rc.count)
}

// StatusCode is 0 until a header was written.
func (rc *ResponseCounter) StatusCode() int {
	return rc.statusCode
}

type ctxTSKey struct{}

// CtxStartTime returns the time the request entered the middleware.
func CtxStartTime(ctx context.Context) (time.Time, bool) {
	ts, ok := ctx.Value(ctxTSKey{}).(time.Time)
	return ts, ok
}

func splitAddr(addr string) (host string, port int) {
	host, portS, err := net.SplitHostPort(addr)
	if err == nil {
		if v, err := strconv.Atoi(portS); err == nil {
			port = v
		}
	}
	return host, port
}

func stripHTTP(h string) string {
	switch h {
	case "HTTP/2.0":
		return "2.0"
	case "HTTP/1.1":
		return "1.1"
	default:
		if strings.HasPrefix(h, httpSlashPrefix) {
			return h[len(httpSlashPrefix):]
		}
	}
	return h
}

func httpMeta(r *http.Request, e *zerolog.Event) {
	oldForce := r.URL.ForceQuery
	r.URL.ForceQuery = false
	e.Str(ECSURLFull, r.URL.String())
	r.URL.ForceQuery = oldForce

	if domain := r.URL.Hostname(); domain != "" {
		e.Str(ECSURLDomain, domain)
	}
	if port := r.URL.Port(); port != "" {
		if v, err := strconv.Atoi(port); err == nil {
			e.Int(ECSURLPort, v)
		}
	}

	e.Str(ECSHTTPVersion, stripHTTP(r.Proto))
	e.Str(ECSHTTPRequestMethod, r.Method)

	if r.RemoteAddr != "" {
		e.Str(ECSClientAddress, r.RemoteAddr)
	}
	e.Bool(ECSTLSEstablished, r.TLS != nil)
}

func httpDebug(r *http.Request, e *zerolog.Event) {
	if r.RemoteAddr != "" {
		remoteIP, remotePort := splitAddr(r.RemoteAddr)
		e.Str(ECSClientIP, remoteIP)
		e.Int(ECSClientPort, remotePort)
	}

	if r.TLS != nil {
		e.Str(ECSTLSVersion, TLSVersionToString(r.TLS.Version))
		e.Str(ECSTLSCipher, tls.CipherSuiteName(r.TLS.CipherSuite))
	}
}

// Middleware tags every request with an id, places a request scoped logger
// in its context and logs the outcome.
func Middleware(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()

		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" {
			reqID = xid.New().String()
			r.Header.Set(HeaderRequestID, reqID)
		}
		w.Header().Set(HeaderRequestID, reqID)

		// server bound addr
		addr := ""
		if a, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr); ok {
			addr = a.String()
		}

		zlog := log.With().Str(ECSHTTPRequestID, reqID).Str(ECSServerAddress, addr).Logger()
		ctx := zlog.WithContext(r.Context())
		ctx = context.WithValue(ctx, ctxTSKey{}, start)
		r = r.WithContext(ctx)

		e := zlog.Info()
		if !e.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		var rdCounter *readCounter
		if r.Body != nil {
			rdCounter = &readCounter{ReadCloser: r.Body}
			r.Body = rdCounter
		}
		wrCounter := NewResponseCounter(w)

		if d := zlog.Debug(); d.Enabled() {
			httpMeta(r, d)
			httpDebug(r, d)
			d.Msg("HTTP start")
		}

		next.ServeHTTP(wrCounter, r)

		httpMeta(r, e)
		if rdCounter != nil {
			e.Uint64(ECSHTTPRequestBodyBytes, rdCounter.Count())
		}
		e.Uint64(ECSHTTPResponseBodyBytes, wrCounter.Count())
		e.Int(ECSHTTPResponseCode, wrCounter.StatusCode())
		e.Int64(ECSEventDuration, time.Since(start).Nanoseconds())
		e.Msgf("%d HTTP Request", wrCounter.StatusCode())
	}
	return http.HandlerFunc(fn)
}

func TLSVersionToString(vers uint16) string {
	switch vers {
	case tls.VersionTLS10:
		return "1.0"
	case tls.VersionTLS11:
		return "1.1"
	case tls.VersionTLS12:
		return "1.2"
	case tls.VersionTLS13:
		return "1.3"
	}
	return fmt.Sprintf("unknown_0x%x", vers)
}
