// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package logger

// ECS field names used by the request logger and the handlers.
const (
	// Basic logging
	ECSLogLevel     = "log.level"
	ECSMessage      = "message"
	ECSTimestamp    = "@timestamp"
	ECSErrorMessage = "error.message"

	// HTTP
	ECSHTTPVersion           = "http.version"
	ECSHTTPRequestID         = "http.request.id"
	ECSHTTPRequestMethod     = "http.request.method"
	ECSHTTPRequestBodyBytes  = "http.request.body.bytes"
	ECSHTTPResponseCode      = "http.response.status_code"
	ECSHTTPResponseBodyBytes = "http.response.body.bytes"

	// URL
	ECSURLFull   = "url.full"
	ECSURLDomain = "url.domain"
	ECSURLPort   = "url.port"

	// Client
	ECSClientAddress = "client.address"
	ECSClientIP      = "client.ip"
	ECSClientPort    = "client.port"

	// Server
	ECSServerAddress = "server.address"

	// TLS
	ECSTLSEstablished = "tls.established"
	ECSTLSVersion     = "tls.version"
	ECSTLSCipher      = "tls.cipher"

	// Event
	ECSEventDuration = "event.duration"

	// Service
	ECSServiceName    = "service.name"
	ECSServiceVersion = "service.version"
)

// Non ECS keys.
const (
	IndexName     = "index.name"
	FieldCount    = "fields.count"
	ConditionsLen = "conditions.count"
	TransformID   = "transform.id"
	RollupID      = "rollup.id"
)
