// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package rollup builds rollup job definitions for the cluster index
// management plugin.
package rollup

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/elastic/index-filter-server/v7/internal/pkg/transform"
	"github.com/elastic/index-filter-server/v7/internal/pkg/validate"
)

// ErrInvalidJob is returned when a rollup job cannot be built.
var ErrInvalidJob = errors.New("invalid rollup job")

type DimensionType string

const (
	DimensionDateHistogram DimensionType = "date_histogram"
	DimensionTerms         DimensionType = "terms"
	DimensionHistogram     DimensionType = "histogram"
)

type MetricOp string

const (
	MetricMin        MetricOp = "min"
	MetricMax        MetricOp = "max"
	MetricSum        MetricOp = "sum"
	MetricAvg        MetricOp = "avg"
	MetricValueCount MetricOp = "value_count"
)

// Job is a rollup job as submitted by a client. The first dimension must be
// a date_histogram.
type Job struct {
	ID          string   `json:"id,omitempty" validate:"omitempty,max=255"`
	Description string   `json:"description,omitempty" validate:"max=1024"`
	SourceIndex string   `json:"source_index" validate:"required"`
	TargetIndex string   `json:"target_index" validate:"required,nefield=SourceIndex"`
	PageSize    int      `json:"page_size,omitempty" validate:"min=0,max=10000"`
	Enabled     bool     `json:"enabled"`
	Continuous  bool     `json:"continuous"`
	Delay       *Delay   `json:"delay,omitempty"`
	Roles       []string `json:"roles,omitempty" validate:"dive,required"`

	Schedule Schedule `json:"schedule"`

	Dimensions []Dimension `json:"dimensions" validate:"required,min=1,dive"`
	Metrics    []Metric    `json:"metrics,omitempty" validate:"dive"`
}

// Validate checks the shape of j without looking at any mapping.
func (j Job) Validate() error {
	if err := validate.Struct(j); err != nil {
		return pkgerrors.Wrap(ErrInvalidJob, err.Error())
	}
	return nil
}

// Delay postpones each execution by Value Units.
type Delay struct {
	Value int64  `json:"value" validate:"min=1"`
	Unit  string `json:"unit" validate:"required,oneof=ms s m h d"`
}

var delayUnits = map[string]int64{
	"ms": 1,
	"s":  1000,
	"m":  60 * 1000,
	"h":  60 * 60 * 1000,
	"d":  24 * 60 * 60 * 1000,
}

// Millis returns the delay in milliseconds.
func (d Delay) Millis() int64 {
	return d.Value * delayUnits[d.Unit]
}

// Schedule runs the job on a fixed interval or on a cron expression, never
// both. Neither set means every minute from now.
type Schedule struct {
	Interval *transform.Interval `json:"interval,omitempty"`
	Cron     *Cron               `json:"cron,omitempty"`
}

type Cron struct {
	Expression string `json:"expression" validate:"required"`
	Timezone   string `json:"timezone,omitempty"`
}

// Dimension is one bucketing key of the rolled up documents.
type Dimension struct {
	Type        DimensionType `json:"type" validate:"required,oneof=date_histogram terms histogram"`
	SourceField string        `json:"source_field" validate:"required"`
	TargetField string        `json:"target_field,omitempty"`

	// histogram
	Interval float64 `json:"interval,omitempty" validate:"min=0"`

	// date_histogram, exactly one of the two intervals
	FixedInterval    string `json:"fixed_interval,omitempty"`
	CalendarInterval string `json:"calendar_interval,omitempty" validate:"omitempty,oneof=1m 1h 1d 1w 1M 1q 1y"`
	Timezone         string `json:"timezone,omitempty"`
}

// Metric lists the aggregations kept for one source field.
type Metric struct {
	SourceField string     `json:"source_field" validate:"required"`
	Ops         []MetricOp `json:"metrics" validate:"required,min=1,dive,oneof=min max sum avg value_count"`
}
