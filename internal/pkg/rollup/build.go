// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package rollup

import (
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/elastic/index-filter-server/v7/internal/pkg/dsl"
	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
	"github.com/elastic/index-filter-server/v7/internal/pkg/transform"
)

const (
	DefaultPageSize = 1000
	defaultTimezone = "UTC"
	cronFields      = 5
)

const (
	kRollup      = "rollup"
	kSchedule    = "schedule"
	kDimensions  = "dimensions"
	kMetrics     = "metrics"
	kSourceField = "source_field"
	kTargetField = "target_field"
)

var fixedIntervalRe = regexp.MustCompile(`^[1-9][0-9]*(ms|s|m|h|d)$`)

// Builder turns jobs into rollup API request bodies.
type Builder struct {
	pageSize int
	now      func() time.Time
}

type Opt func(*Builder)

// WithPageSize sets the page size used when a job leaves it unset.
func WithPageSize(sz int) Opt {
	return func(b *Builder) {
		if sz > 0 {
			b.pageSize = sz
		}
	}
}

// WithClock replaces time.Now for schedule start times.
func WithClock(now func() time.Time) Opt {
	return func(b *Builder) {
		b.now = now
	}
}

func NewBuilder(opts ...Opt) *Builder {
	b := &Builder{
		pageSize: DefaultPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Built is a validated rollup job ready to send.
type Built struct {
	ID   string
	Body *dsl.Node
}

// Build validates j against the fields of its source index and renders
// {"rollup": {...}}.
func (b *Builder) Build(j Job, fields []mapping.FieldDescriptor) (*Built, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}

	if j.ID == "" {
		j.ID = uuid.Must(uuid.NewV4()).String()
	}
	if j.PageSize == 0 {
		j.PageSize = b.pageSize
	}

	schedule, err := b.schedule(j.Schedule)
	if err != nil {
		return nil, err
	}
	dimensions, err := buildDimensions(j.Dimensions, fields)
	if err != nil {
		return nil, err
	}
	metrics, err := buildMetrics(j.Metrics, fields)
	if err != nil {
		return nil, err
	}

	root := dsl.NewRoot()
	r := root.Child(kRollup)
	r.Param("enabled", j.Enabled)
	r.Param("continuous", j.Continuous)
	r.Param("description", j.Description)
	r.Param("source_index", j.SourceIndex)
	r.Param("target_index", j.TargetIndex)
	r.Param("page_size", j.PageSize)
	if j.Delay != nil {
		r.Param("delay", j.Delay.Millis())
	}
	if len(j.Roles) > 0 {
		r.Param("roles", j.Roles)
	}
	r.Param(kSchedule, schedule)
	r.Param(kDimensions, dimensions)
	r.Param(kMetrics, metrics)

	return &Built{ID: j.ID, Body: root}, nil
}

func (b *Builder) schedule(s Schedule) (*dsl.Node, error) {
	node := dsl.NewRoot()

	switch {
	case s.Interval != nil && s.Cron != nil:
		return nil, errors.Wrap(ErrInvalidJob, "schedule takes an interval or a cron expression, not both")
	case s.Cron != nil:
		if n := len(strings.Fields(s.Cron.Expression)); n != cronFields {
			return nil, errors.Wrapf(ErrInvalidJob, "cron expression %q has %d fields, want %d", s.Cron.Expression, n, cronFields)
		}
		cron := node.Child("cron")
		cron.Param("expression", s.Cron.Expression)
		if s.Cron.Timezone != "" {
			if _, err := time.LoadLocation(s.Cron.Timezone); err != nil {
				return nil, errors.Wrapf(ErrInvalidJob, "unknown timezone %q", s.Cron.Timezone)
			}
			cron.Param("timezone", s.Cron.Timezone)
		}
	default:
		var interval transform.Interval
		if s.Interval != nil {
			interval = *s.Interval
		}
		node.Param("interval", interval.WithDefaults(b.now()))
	}
	return node, nil
}

func buildDimensions(dims []Dimension, fields []mapping.FieldDescriptor) ([]*dsl.Node, error) {
	if dims[0].Type != DimensionDateHistogram {
		return nil, errors.Wrapf(ErrInvalidJob, "first dimension must be a date_histogram, got %s", dims[0].Type)
	}

	seen := make(map[string]struct{}, len(dims))
	out := make([]*dsl.Node, 0, len(dims))

	for _, d := range dims {
		f, err := sourceField(fields, d.SourceField)
		if err != nil {
			return nil, err
		}

		key := string(d.Type) + ":" + f.Path
		if _, dup := seen[key]; dup {
			return nil, errors.Wrapf(ErrInvalidJob, "duplicate %s dimension on %q", d.Type, f.Path)
		}
		seen[key] = struct{}{}

		logical := mapping.LogicalType(f.Type)
		node := dsl.NewRoot()
		body := node.Child(string(d.Type))
		body.Param(kSourceField, f.Path)
		if d.TargetField != "" {
			body.Param(kTargetField, d.TargetField)
		}

		switch d.Type {
		case DimensionDateHistogram:
			if logical != mapping.TypeDate {
				return nil, errors.Wrapf(ErrInvalidJob, "date_histogram dimension needs a date field, %q is %s", f.Path, f.Type)
			}
			switch {
			case d.FixedInterval != "" && d.CalendarInterval != "":
				return nil, errors.Wrapf(ErrInvalidJob, "date_histogram dimension on %q has both fixed and calendar interval", f.Path)
			case d.FixedInterval != "":
				if !fixedIntervalRe.MatchString(d.FixedInterval) {
					return nil, errors.Wrapf(ErrInvalidJob, "invalid fixed_interval %q", d.FixedInterval)
				}
				body.Param("fixed_interval", d.FixedInterval)
			case d.CalendarInterval != "":
				body.Param("calendar_interval", d.CalendarInterval)
			default:
				return nil, errors.Wrapf(ErrInvalidJob, "date_histogram dimension on %q needs an interval", f.Path)
			}
			tz := d.Timezone
			if tz == "" {
				tz = defaultTimezone
			}
			if _, err := time.LoadLocation(tz); err != nil {
				return nil, errors.Wrapf(ErrInvalidJob, "unknown timezone %q", tz)
			}
			body.Param("timezone", tz)
		case DimensionTerms:
			if logical == mapping.TypeText {
				return nil, errors.Wrapf(ErrInvalidJob, "terms dimension on text field %q", f.Path)
			}
		case DimensionHistogram:
			if logical != mapping.TypeNumber {
				return nil, errors.Wrapf(ErrInvalidJob, "histogram dimension needs a number field, %q is %s", f.Path, f.Type)
			}
			if d.Interval <= 0 {
				return nil, errors.Wrapf(ErrInvalidJob, "histogram dimension on %q needs a positive interval", f.Path)
			}
			body.Param("interval", d.Interval)
		}

		out = append(out, node)
	}
	return out, nil
}

func buildMetrics(metrics []Metric, fields []mapping.FieldDescriptor) ([]*dsl.Node, error) {
	seen := make(map[string]struct{}, len(metrics))
	out := make([]*dsl.Node, 0, len(metrics))

	for _, m := range metrics {
		f, err := sourceField(fields, m.SourceField)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[f.Path]; dup {
			return nil, errors.Wrapf(ErrInvalidJob, "metrics listed twice for %q", f.Path)
		}
		seen[f.Path] = struct{}{}

		logical := mapping.LogicalType(f.Type)
		ops := make([]*dsl.Node, 0, len(m.Ops))
		opSeen := make(map[MetricOp]struct{}, len(m.Ops))

		for _, op := range m.Ops {
			if _, dup := opSeen[op]; dup {
				return nil, errors.Wrapf(ErrInvalidJob, "metric %s listed twice for %q", op, f.Path)
			}
			opSeen[op] = struct{}{}

			switch op {
			case MetricSum, MetricAvg:
				if logical != mapping.TypeNumber {
					return nil, errors.Wrapf(ErrInvalidJob, "%s needs a number field, %q is %s", op, f.Path, f.Type)
				}
			case MetricMin, MetricMax:
				if logical != mapping.TypeNumber && logical != mapping.TypeDate {
					return nil, errors.Wrapf(ErrInvalidJob, "%s needs a number or date field, %q is %s", op, f.Path, f.Type)
				}
			case MetricValueCount:
				if logical == mapping.TypeText {
					return nil, errors.Wrapf(ErrInvalidJob, "value_count on text field %q", f.Path)
				}
			default:
				return nil, errors.Wrapf(ErrInvalidJob, "unknown metric %q", op)
			}

			n := dsl.NewRoot()
			n.Param(string(op), struct{}{})
			ops = append(ops, n)
		}

		node := dsl.NewRoot()
		node.Param(kSourceField, f.Path)
		node.Param(kMetrics, ops)
		out = append(out, node)
	}
	return out, nil
}

func sourceField(fields []mapping.FieldDescriptor, path string) (mapping.FieldDescriptor, error) {
	f, ok := mapping.Find(fields, path)
	if !ok {
		return f, errors.Wrapf(ErrInvalidJob, "field %q not found in source index", path)
	}
	return f, nil
}
