// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package transform

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/elastic/index-filter-server/v7/internal/pkg/dsl"
	"github.com/elastic/index-filter-server/v7/internal/pkg/filter"
	"github.com/elastic/index-filter-server/v7/internal/pkg/mapping"
)

const (
	DefaultPageSize = 1000
	defaultPeriod   = 1
	defaultUnit     = "Minutes"
)

const (
	kTransform          = "transform"
	kSchedule           = "schedule"
	kGroups             = "groups"
	kAggregations       = "aggregations"
	kSourceField        = "source_field"
	kTargetField        = "target_field"
	kDataSelectionQuery = "data_selection_query"
)

// Builder turns jobs into transform API request bodies.
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

// Built is a validated job ready to send.
type Built struct {
	ID   string
	Body *dsl.Node
}

// Build validates j against the fields of its source index and renders
// {"transform": {...}}. Defaults are applied to a copy of j.
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
	interval := j.Schedule.Interval.WithDefaults(b.now())

	query, err := b.query(j, fields)
	if err != nil {
		return nil, err
	}
	groups, err := buildGroups(j.Groups, fields)
	if err != nil {
		return nil, err
	}
	aggs, err := buildAggregations(j.Aggregations, groups.targets, fields)
	if err != nil {
		return nil, err
	}

	root := dsl.NewRoot()
	t := root.Child(kTransform)
	t.Param("enabled", j.Enabled)
	t.Param("description", j.Description)
	t.Param("source_index", j.SourceIndex)
	t.Param("target_index", j.TargetIndex)
	t.Param("page_size", j.PageSize)
	t.Child(kSchedule).Param("interval", interval)
	t.Param(kDataSelectionQuery, query)
	t.Param(kGroups, groups.list)
	if aggs != nil {
		t.Param(kAggregations, aggs)
	}

	return &Built{ID: j.ID, Body: root}, nil
}

func (b *Builder) query(j Job, fields []mapping.FieldDescriptor) (interface{}, error) {
	if len(j.Query) > 0 {
		if len(j.Conditions) > 0 {
			return nil, errors.Wrap(ErrInvalidJob, "conditions and query are mutually exclusive")
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(j.Query, &obj); err != nil || obj == nil {
			return nil, errors.Wrap(ErrInvalidJob, "query must be a JSON object")
		}
		return j.Query, nil
	}

	conds := make([]filter.Condition, 0, len(j.Conditions))
	for _, c := range j.Conditions {
		c, err := filter.Resolve(fields, c)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return filter.CompileAll(conds)
}

type groupList struct {
	list    []*dsl.Node
	targets map[string]struct{}
}

func buildGroups(groups []Group, fields []mapping.FieldDescriptor) (groupList, error) {
	out := groupList{targets: make(map[string]struct{}, len(groups))}

	for _, g := range groups {
		f, err := sourceField(fields, g.SourceField)
		if err != nil {
			return out, err
		}

		logical := mapping.LogicalType(f.Type)
		node := dsl.NewRoot()
		body := node.Child(string(g.Type))

		switch g.Type {
		case GroupTerms:
			if logical == mapping.TypeText {
				return out, errors.Wrapf(ErrInvalidJob, "terms group on text field %q", f.Path)
			}
		case GroupHistogram:
			if logical != mapping.TypeNumber {
				return out, errors.Wrapf(ErrInvalidJob, "histogram group needs a number field, %q is %s", f.Path, f.Type)
			}
			if g.Interval <= 0 {
				return out, errors.Wrapf(ErrInvalidJob, "histogram group on %q needs a positive interval", f.Path)
			}
			body.Param("interval", g.Interval)
		case GroupDateHistogram:
			if logical != mapping.TypeDate {
				return out, errors.Wrapf(ErrInvalidJob, "date_histogram group needs a date field, %q is %s", f.Path, f.Type)
			}
			switch {
			case g.FixedInterval != "" && g.CalendarInterval != "":
				return out, errors.Wrapf(ErrInvalidJob, "date_histogram group on %q has both fixed and calendar interval", f.Path)
			case g.FixedInterval != "":
				body.Param("fixed_interval", g.FixedInterval)
			case g.CalendarInterval != "":
				body.Param("calendar_interval", g.CalendarInterval)
			default:
				return out, errors.Wrapf(ErrInvalidJob, "date_histogram group on %q needs an interval", f.Path)
			}
			if g.Timezone != "" {
				if _, err := time.LoadLocation(g.Timezone); err != nil {
					return out, errors.Wrapf(ErrInvalidJob, "unknown timezone %q", g.Timezone)
				}
				body.Param("timezone", g.Timezone)
			}
		}

		target := g.Target()
		if _, dup := out.targets[target]; dup {
			return out, errors.Wrapf(ErrInvalidJob, "duplicate target field %q", target)
		}
		out.targets[target] = struct{}{}

		body.Param(kSourceField, f.Path)
		body.Param(kTargetField, target)
		out.list = append(out.list, node)
	}
	return out, nil
}

func buildAggregations(aggregations []Aggregation, taken map[string]struct{}, fields []mapping.FieldDescriptor) (*dsl.Node, error) {
	if len(aggregations) == 0 {
		return nil, nil
	}

	root := dsl.NewRoot()
	for _, a := range aggregations {
		name := a.Target()
		if _, dup := taken[name]; dup {
			return nil, errors.Wrapf(ErrInvalidJob, "duplicate aggregation name %q", name)
		}
		taken[name] = struct{}{}

		agg := root.Agg(name)

		if a.Op == AggScriptedMetric {
			script, err := scriptedMetric(name, a.Script)
			if err != nil {
				return nil, err
			}
			agg.Param(string(AggScriptedMetric), script)
			continue
		}

		f, err := sourceField(fields, a.Field)
		if err != nil {
			return nil, err
		}
		logical := mapping.LogicalType(f.Type)

		switch a.Op {
		case AggSum, AggAvg, AggPercentiles:
			if logical != mapping.TypeNumber {
				return nil, errors.Wrapf(ErrInvalidJob, "%s needs a number field, %q is %s", a.Op, f.Path, f.Type)
			}
		case AggMin, AggMax:
			if logical != mapping.TypeNumber && logical != mapping.TypeDate {
				return nil, errors.Wrapf(ErrInvalidJob, "%s needs a number or date field, %q is %s", a.Op, f.Path, f.Type)
			}
		}

		switch a.Op {
		case AggSum:
			agg.Sum().Field(f.Path)
		case AggMax:
			agg.Max().Field(f.Path)
		case AggMin:
			agg.Min().Field(f.Path)
		case AggAvg:
			agg.Avg().Field(f.Path)
		case AggValueCount:
			agg.ValueCount().Field(f.Path)
		case AggPercentiles:
			p := agg.Percentiles().Field(f.Path)
			if len(a.Percents) > 0 {
				p.Param("percents", a.Percents)
			}
		default:
			return nil, errors.Wrapf(ErrInvalidJob, "unknown aggregation %q", a.Op)
		}
	}
	return root, nil
}

// scriptedMetric checks a client supplied scripted_metric body. Only
// map_script is mandatory.
func scriptedMetric(name string, script json.RawMessage) (json.RawMessage, error) {
	var parts map[string]json.RawMessage
	if err := json.Unmarshal(script, &parts); err != nil || parts == nil {
		return nil, errors.Wrapf(ErrInvalidJob, "scripted metric %q needs a JSON object script", name)
	}
	if ms, ok := parts["map_script"]; !ok || bytes.Equal(ms, []byte("null")) {
		return nil, errors.Wrapf(ErrInvalidJob, "scripted metric %q needs a map_script", name)
	}
	return script, nil
}

func sourceField(fields []mapping.FieldDescriptor, path string) (mapping.FieldDescriptor, error) {
	if path == "" {
		return mapping.FieldDescriptor{}, errors.Wrap(ErrInvalidJob, "missing source field")
	}
	f, ok := mapping.Find(fields, path)
	if !ok {
		return f, errors.Wrapf(ErrInvalidJob, "field %q not found in source index", path)
	}
	return f, nil
}
