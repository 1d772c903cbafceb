// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package filter wires the index filter server command.
package filter

import (
	"context"
	"errors"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/elastic/index-filter-server/v7/internal/pkg/api"
	"github.com/elastic/index-filter-server/v7/internal/pkg/build"
	"github.com/elastic/index-filter-server/v7/internal/pkg/cache"
	"github.com/elastic/index-filter-server/v7/internal/pkg/config"
	"github.com/elastic/index-filter-server/v7/internal/pkg/es"
	"github.com/elastic/index-filter-server/v7/internal/pkg/logger"
	"github.com/elastic/index-filter-server/v7/internal/pkg/signal"
	"github.com/elastic/index-filter-server/v7/internal/pkg/ver"
)

const kDefaultConfigPath = build.ServiceName + ".yml"

func installSignalHandler() context.Context {
	rootCtx := context.Background()
	return signal.HandleInterrupt(rootCtx)
}

func getRunCommand(bi build.Info) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfgPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		cfg, err := config.LoadFile(cfgPath)
		if err != nil {
			return err
		}

		l, err := logger.Init(cfg, build.ServiceName)
		if err != nil {
			return err
		}
		log.Info().
			Str("version", bi.Version).
			Str("commit", bi.Commit).
			Str("level", l.Level().String()).
			Msg("boot")

		srv, err := NewFilterServer(cfg, bi)
		if err != nil {
			return err
		}

		ctx := installSignalHandler()
		err = srv.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("exiting")
			return err
		}
		log.Info().Msg("exiting")
		return nil
	}
}

// NewCommand returns the root command of the server binary.
func NewCommand(bi build.Info) *cobra.Command {
	cmd := &cobra.Command{
		Use:          build.ServiceName,
		Short:        "Index filter server compiles field filters into Elasticsearch queries",
		Version:      bi.Version,
		SilenceUsage: true,
		RunE:         getRunCommand(bi),
	}
	cmd.Flags().StringP("config", "c", kDefaultConfigPath, "Configuration for the index filter server")
	return cmd
}

type FilterServer struct {
	bi    build.Info
	cfg   *config.Config
	cache *cache.CacheT
}

// NewFilterServer creates the server from a validated configuration.
func NewFilterServer(cfg *config.Config, bi build.Info) (*FilterServer, error) {
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, err
	}

	return &FilterServer{
		bi:    bi,
		cfg:   cfg,
		cache: c,
	}, nil
}

// Run connects to Elasticsearch, checks its version and serves the API
// until ctx is cancelled.
func (f *FilterServer) Run(ctx context.Context) error {
	ctx = log.Logger.WithContext(ctx)

	client, err := es.NewClient(ctx, f.cfg, es.WithAPM())
	if err != nil {
		return err
	}

	esVersion, err := f.checkVersion(ctx, client)
	if err != nil {
		return err
	}

	api.InitMetrics(f.bi)
	router := api.NewRouter(f.cfg, client, f.cache, f.bi, api.WithESVersion(esVersion))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Run(ctx, router, &f.cfg.Server)
	})

	return g.Wait()
}

func (f *FilterServer) checkVersion(ctx context.Context, client *elasticsearch.Client) (string, error) {
	esVersion, err := ver.CheckCompatibility(ctx, client, ver.MinESVersion)
	if err != nil {
		log.Error().Err(err).Str("min_version", ver.MinESVersion).Msg("elasticsearch version check failed")
		return "", err
	}
	return esVersion, nil
}
