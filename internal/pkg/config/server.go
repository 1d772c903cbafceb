// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/elastic/beats/v7/libbeat/common/transport/tlscommon"
)

const (
	kDefaultHost = "0.0.0.0"
	kDefaultPort = 8220
)

// ServerTimeouts is the HTTP server timeouts.
type ServerTimeouts struct {
	Read       time.Duration `config:"read"`
	ReadHeader time.Duration `config:"read_header"`
	Write      time.Duration `config:"write"`
	Idle       time.Duration `config:"idle"`
	Drain      time.Duration `config:"drain"`
}

// InitDefaults initializes the defaults for the configuration.
func (c *ServerTimeouts) InitDefaults() {
	c.Read = 60 * time.Second
	c.ReadHeader = 5 * time.Second
	// Sample searches and previews wait on the cluster.
	c.Write = 2 * time.Minute
	c.Idle = 30 * time.Second
	c.Drain = 10 * time.Second
}

// Server is the configuration for the HTTP API.
type Server struct {
	Host              string            `config:"host"`
	Port              uint16            `config:"port"`
	Timeouts          ServerTimeouts    `config:"timeouts"`
	TLS               *tlscommon.Config `config:"ssl"`
	MaxHeaderByteSize int               `config:"max_header_byte_size"`
	RateLimitBurst    int               `config:"rate_limit_burst"`
	RateLimitInterval time.Duration     `config:"rate_limit_interval"`
	Limits            ServerLimits      `config:"limits"`
}

// InitDefaults initializes the defaults for the configuration.
func (c *Server) InitDefaults() {
	c.Host = kDefaultHost
	c.Port = kDefaultPort
	c.Timeouts.InitDefaults()
	c.MaxHeaderByteSize = 8192 // 8k
	c.RateLimitBurst = 1024
	c.RateLimitInterval = 5 * time.Millisecond
	c.Limits.InitDefaults()
}

// Validate ensures that the configuration is valid.
func (c *Server) Validate() error {
	if c.TLS != nil && c.TLS.IsEnabled() {
		if _, err := tlscommon.LoadTLSConfig(c.TLS); err != nil {
			return err
		}
	}
	return nil
}

// BindAddress returns the binding address for the HTTP server.
func (c *Server) BindAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}
