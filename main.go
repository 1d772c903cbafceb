// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package main

import (
	"fmt"
	"os"

	"github.com/elastic/index-filter-server/v7/cmd/filter"
	"github.com/elastic/index-filter-server/v7/internal/pkg/build"
	"github.com/elastic/index-filter-server/v7/version"
)

var (
	Version   = version.DefaultVersion
	Commit    string
	BuildTime string
)

func main() {
	cmd := filter.NewCommand(build.Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: build.Time(BuildTime),
	})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
