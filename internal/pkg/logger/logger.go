// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package logger

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.elastic.co/ecszerolog"

	"github.com/elastic/index-filter-server/v7/internal/pkg/config"
)

var once sync.Once
var gLogger *Logger

// Logger owns the process wide zerolog configuration.
type Logger struct {
	cfg  *config.Logging
	name string
}

// Init configures the global logger once; later calls return the first
// logger.
func Init(cfg *config.Config, svcName string) (*Logger, error) {
	var err error
	once.Do(func() {
		if err = cfg.Logging.Validate(); err != nil {
			return
		}

		zerolog.SetGlobalLevel(cfg.Logging.LogLevel())
		log.Logger = configure(&cfg.Logging, cfg.Logging.DestinationWriter(), svcName)

		gLogger = &Logger{
			cfg:  &cfg.Logging,
			name: svcName,
		}
	})
	return gLogger, err
}

// Level returns the configured level.
func (l *Logger) Level() zerolog.Level {
	return l.cfg.LogLevel()
}

func configure(cfg *config.Logging, out io.Writer, svcName string) zerolog.Logger {
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000"}
	}

	lg := ecszerolog.New(out).Level(zerolog.TraceLevel)
	if svcName != "" {
		lg = lg.With().Str(ECSServiceName, svcName).Logger()
	}
	return lg
}
