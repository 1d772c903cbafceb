// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package transform

import (
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/elastic/index-filter-server/v7/internal/pkg/filter"
	"github.com/elastic/index-filter-server/v7/internal/pkg/validate"
)

// ErrInvalidJob is returned when a job definition cannot be built.
var ErrInvalidJob = errors.New("invalid transform job")

type GroupType string

const (
	GroupTerms         GroupType = "terms"
	GroupHistogram     GroupType = "histogram"
	GroupDateHistogram GroupType = "date_histogram"
)

type AggOp string

const (
	AggSum            AggOp = "sum"
	AggMax            AggOp = "max"
	AggMin            AggOp = "min"
	AggAvg            AggOp = "avg"
	AggValueCount     AggOp = "value_count"
	AggPercentiles    AggOp = "percentiles"
	AggScriptedMetric AggOp = "scripted_metric"
)

// Job is a transform job as submitted by a client. Data is selected with
// Conditions, or with Query when the client wrote the query itself.
type Job struct {
	ID          string `json:"id,omitempty" validate:"omitempty,max=255"`
	Description string `json:"description,omitempty" validate:"max=1024"`
	SourceIndex string `json:"source_index" validate:"required"`
	TargetIndex string `json:"target_index" validate:"required,nefield=SourceIndex"`
	PageSize    int    `json:"page_size,omitempty" validate:"min=0,max=10000"`
	Enabled     bool   `json:"enabled"`

	Schedule Schedule `json:"schedule"`

	Conditions []filter.Condition `json:"conditions,omitempty"`
	Query      json.RawMessage    `json:"query,omitempty"`

	Groups       []Group       `json:"groups" validate:"required,min=1,dive"`
	Aggregations []Aggregation `json:"aggregations,omitempty" validate:"dive"`
}

// Validate checks the shape of j without looking at any mapping.
func (j Job) Validate() error {
	if err := validate.Struct(j); err != nil {
		return pkgerrors.Wrap(ErrInvalidJob, err.Error())
	}
	return nil
}

type Schedule struct {
	Interval Interval `json:"interval"`
}

// Interval runs the job every Period Units starting at StartTime (epoch
// millis). A zero StartTime means now.
type Interval struct {
	StartTime int64  `json:"start_time,omitempty" validate:"min=0"`
	Period    int    `json:"period,omitempty" validate:"min=0"`
	Unit      string `json:"unit,omitempty" validate:"omitempty,oneof=Minutes Hours Days"`
}

// WithDefaults fills unset fields: start now, every minute.
func (i Interval) WithDefaults(now time.Time) Interval {
	if i.StartTime == 0 {
		i.StartTime = now.UnixNano() / int64(time.Millisecond)
	}
	if i.Period == 0 {
		i.Period = defaultPeriod
	}
	if i.Unit == "" {
		i.Unit = defaultUnit
	}
	return i
}

// Group is one group-by dimension of a job.
type Group struct {
	Type        GroupType `json:"type" validate:"required,oneof=terms histogram date_histogram"`
	SourceField string    `json:"source_field" validate:"required"`
	TargetField string    `json:"target_field,omitempty"`

	// histogram
	Interval float64 `json:"interval,omitempty" validate:"min=0"`

	// date_histogram, exactly one of the two intervals
	FixedInterval    string `json:"fixed_interval,omitempty" validate:"omitempty,oneof=1ms 1s 1m 1h"`
	CalendarInterval string `json:"calendar_interval,omitempty" validate:"omitempty,oneof=1d 1w 1M 1q 1y"`
	Timezone         string `json:"timezone,omitempty"`
}

// Aggregation is one metric computed per group.
type Aggregation struct {
	Name     string          `json:"name,omitempty"`
	Op       AggOp           `json:"op" validate:"required,oneof=sum max min avg value_count percentiles scripted_metric"`
	Field    string          `json:"field,omitempty"`
	Percents []float64       `json:"percents,omitempty" validate:"dive,min=0,max=100"`
	Script   json.RawMessage `json:"script,omitempty"`
}

var intervalUnits = map[string]string{
	"1ms": "millisecond",
	"1s":  "second",
	"1m":  "minute",
	"1h":  "hour",
	"1d":  "day",
	"1w":  "week",
	"1M":  "month",
	"1q":  "quarter",
	"1y":  "year",
}

func (g Group) interval() string {
	if g.FixedInterval != "" {
		return g.FixedInterval
	}
	return g.CalendarInterval
}

// Target returns the target field, defaulting to a name derived from the
// source field and group type.
func (g Group) Target() string {
	if g.TargetField != "" {
		return g.TargetField
	}
	name := g.SourceField + "_" + string(g.Type)
	if g.Type == GroupDateHistogram {
		if unit, ok := intervalUnits[g.interval()]; ok {
			name += "_" + unit
		}
	}
	return name
}

// Target returns the aggregation name, defaulting to <op>_<field>.
func (a Aggregation) Target() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Op == AggValueCount {
		return "count_" + a.Field
	}
	return string(a.Op) + "_" + a.Field
}
