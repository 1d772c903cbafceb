// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package ver checks that the Elasticsearch cluster is new enough to serve
// the mapping, search and transform preview APIs.
package ver

import (
	"context"
	"errors"
	"strings"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/hashicorp/go-version"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/elastic/index-filter-server/v7/internal/pkg/es"
)

// MinESVersion is the oldest supported cluster version.
const MinESVersion = "7.10.0"

var (
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrMalformedVersion   = errors.New("malformed version")
)

// CheckCompatibility fetches the cluster version and checks it against
// minVersion. The cluster version is returned even when it is too old.
func CheckCompatibility(ctx context.Context, transport esapi.Transport, minVersion string) (string, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("min_version", minVersion).Msg("check version compatibility with elasticsearch")

	esVersion, err := es.FetchESVersion(ctx, transport)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch elasticsearch version")
		return "", err
	}
	logger.Debug().Str("elasticsearch_version", esVersion).Msg("fetched elasticsearch version")

	return esVersion, checkCompatibility(ctx, minVersion, esVersion)
}

func checkCompatibility(ctx context.Context, minVersion, esVersion string) error {
	verConst, err := buildVersionConstraint(minVersion)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("min_version", minVersion).Msg("failed to build constraint")
		return err
	}

	ver, err := parseVersion(esVersion)
	if err != nil {
		return err
	}

	if !verConst.Check(ver) {
		zerolog.Ctx(ctx).Error().
			Err(ErrUnsupportedVersion).
			Str("constraint", verConst.String()).
			Str("reported", ver.String()).
			Msg("failed elasticsearch version check")
		return ErrUnsupportedVersion
	}

	zerolog.Ctx(ctx).Info().
		Str("elasticsearch_version", esVersion).
		Msg("elasticsearch compatibility check successful")
	return nil
}

func buildVersionConstraint(minVersion string) (version.Constraints, error) {
	ver, err := parseVersion(minVersion)
	if err != nil {
		return nil, err
	}
	return version.NewConstraint(">= " + ver.String())
}

// parseVersion drops any pre-release or build suffix so 8.0.0-SNAPSHOT
// compares as 8.0.0.
func parseVersion(sver string) (*version.Version, error) {
	ver, err := version.NewVersion(strings.Split(sver, "-")[0])
	if err != nil {
		return nil, pkgerrors.Wrap(ErrMalformedVersion, err.Error())
	}
	return ver, nil
}
