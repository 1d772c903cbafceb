// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

//go:build !integration
// +build !integration

package filter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/index-filter-server/v7/internal/pkg/build"
	"github.com/elastic/index-filter-server/v7/internal/pkg/config"
)

func TestNewCommandFlags(t *testing.T) {
	cmd := NewCommand(build.Info{Version: "1.0.0"})

	assert.Equal(t, build.ServiceName, cmd.Use)
	assert.Equal(t, "1.0.0", cmd.Version)

	path, err := cmd.Flags().GetString("config")
	require.NoError(t, err)
	assert.Equal(t, "index-filter-server.yml", path)
}

func TestRunMissingConfig(t *testing.T) {
	cmd := NewCommand(build.Info{Version: "1.0.0"})
	cmd.SetArgs([]string{"-c", filepath.Join(t.TempDir(), "missing.yml")})

	assert.Error(t, cmd.Execute())
}

func TestNewFilterServer(t *testing.T) {
	var cfg config.Config
	cfg.InitDefaults()

	srv, err := NewFilterServer(&cfg, build.Info{Version: "1.0.0"})
	require.NoError(t, err)
	assert.NotNil(t, srv.cache)
	assert.Equal(t, &cfg, srv.cfg)
}
