/*
	Copyright 2024 The nextreports-engine Authors
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package seriesbuilder converts a stream of query result rows into chart
// data in a single forward pass.
//
// Each y column is one series.  With the NOOP aggregation function every row
// yields one point per series.  With any other function, consecutive rows
// whose x values are equal form a group, and each group yields one point per
// series holding the function's value over the group's rows.  Group
// boundaries are found by peeking one row ahead; the last group is emitted
// when the rows run out.
//
// A point's x is its group's x value if that is a number.  Once any group's x
// value is not a number, every later point instead takes a synthetic x: a
// per-series counter, starting at 1, that advances on every point.  The
// model's IndexToLabel then maps each synthetic x back to its label.
//
// A Builder is not safe for concurrent use.  Concurrent builds need separate
// Builders.
package seriesbuilder

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-logr/logr"
	"golang.org/x/text/language"

	"github.com/gostafie/nextreports-engine/aggregation"
	axisrange "github.com/gostafie/nextreports-engine/axis_range"
	chartdata "github.com/gostafie/nextreports-engine/chart_data"
	"github.com/gostafie/nextreports-engine/cursor"
	"github.com/gostafie/nextreports-engine/disambiguator"
	labelformat "github.com/gostafie/nextreports-engine/label_format"
)

// Options configures a build.
type Options struct {
	// XColumn names the category column.
	XColumn string
	// XPattern optionally formats x values into category labels.
	XPattern string
	// YColumns names the value columns, one per series.  Proportion charts
	// use only the first.
	YColumns []string
	// Legends names the series.  Missing or empty legends default to the
	// corresponding y column name.
	Legends []string
	// Function aggregates the values of each group.
	Function aggregation.Kind
	// Style is the chart type.
	Style chartdata.Style
	// Padding is the axis padding fraction; nil means
	// axisrange.DefaultPadding.
	Padding *float64
}

// SeriesNames returns the name of each series.
func (o *Options) SeriesNames() []string {
	ret := make([]string, len(o.YColumns))
	for i, col := range o.YColumns {
		ret[i] = col
		if i < len(o.Legends) && o.Legends[i] != "" {
			ret[i] = o.Legends[i]
		}
	}
	return ret
}

// Validate returns an error if the receiver cannot describe a chart.
func (o *Options) Validate() error {
	if o.XColumn == "" {
		return errors.New("no x column specified")
	}
	if len(o.YColumns) == 0 {
		return errors.New("no y columns specified")
	}
	for i, col := range o.YColumns {
		if col == "" {
			return fmt.Errorf("y column %d is unnamed", i)
		}
	}
	if o.Padding != nil && *o.Padding < 0 {
		return fmt.Errorf("axis padding %v is negative", *o.Padding)
	}
	return nil
}

func (o *Options) valueColumns() []string {
	if o.Style.Kind() == chartdata.Proportion {
		return o.YColumns[:1]
	}
	return o.YColumns
}

// Builder builds one chart's data from a Cursor.
type Builder struct {
	opts      Options
	log       logr.Logger
	formatter *labelformat.Formatter
	calc      axisrange.Calculator

	// Per-build state, reset by Build.
	model       *chartdata.Model
	fns         []aggregation.Function
	labels      *disambiguator.Disambiguator
	indices     []int
	nonNumericX bool
	values      axisrange.Extent
	groupSums   axisrange.Extent
	groups      int
}

// New returns a new Builder with the provided options, logging to the
// provided Logger.
func New(opts Options, log logr.Logger) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	padding := axisrange.DefaultPadding
	if opts.Padding != nil {
		padding = *opts.Padding
	}
	return &Builder{
		opts:      opts,
		log:       log.WithName("series-builder").WithValues("x", opts.XColumn, "style", opts.Style.String()),
		formatter: labelformat.New(language.English),
		calc:      axisrange.NewCalculator(padding),
	}, nil
}

// Build builds a chart's data from the provided Cursor, consuming it.  It
// returns cursor.ErrNoData if the Cursor has no columns or no rows, and a
// *cursor.QueryError if a value cannot be read or formatted.  No Model is
// returned with an error.
func Build(c cursor.Cursor, opts Options, log logr.Logger) (*chartdata.Model, error) {
	b, err := New(opts, log)
	if err != nil {
		return nil, err
	}
	return b.Build(c)
}

func (b *Builder) reset() {
	ys := b.opts.valueColumns()
	b.model = &chartdata.Model{
		Style:        b.opts.Style,
		XColumn:      b.opts.XColumn,
		IndexToLabel: map[int]string{},
	}
	if b.opts.Style.Kind() != chartdata.Proportion {
		names := b.opts.SeriesNames()
		b.model.Series = make([]*chartdata.Series, len(ys))
		for i := range ys {
			b.model.Series[i] = &chartdata.Series{
				Name:   names[i],
				Points: []chartdata.Point{},
			}
		}
	}
	b.fns = make([]aggregation.Function, len(ys))
	for i := range ys {
		b.fns[i] = aggregation.New(b.opts.Function)
	}
	b.labels = disambiguator.New()
	b.indices = make([]int, len(ys))
	b.nonNumericX = false
	b.values = axisrange.Extent{}
	b.groupSums = axisrange.Extent{}
	b.groups = 0
}

// Build builds a chart's data from the provided Cursor, consuming it.  Each
// call starts from a fresh state.
func (b *Builder) Build(c cursor.Cursor) (*chartdata.Model, error) {
	if c.ColumnCount() <= 0 {
		return nil, cursor.ErrNoData
	}
	b.reset()
	ys := b.opts.valueColumns()
	rows := cursor.NewPeeker(c, append([]string{b.opts.XColumn}, ys...)...)
	first, err := rows.Peek()
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, cursor.ErrNoData
	}
	for {
		row, err := rows.Next()
		if err != nil {
			return nil, err
		}
		if row == nil {
			break
		}
		key := row.Value(b.opts.XColumn)
		label, err := b.formatter.Format(key, b.opts.XPattern)
		if err != nil {
			return nil, cursor.NewQueryError(b.opts.XColumn, "format", err)
		}
		for _, fn := range b.fns {
			fn.Reset()
		}
		b.compute(row, ys)
		count := 1
		if b.opts.Function.Grouping() {
			for {
				next, err := rows.Peek()
				if err != nil {
					return nil, err
				}
				if next == nil || !cursor.Equal(key, next.Value(b.opts.XColumn)) {
					break
				}
				if _, err := rows.Next(); err != nil {
					return nil, err
				}
				b.compute(next, ys)
				count++
			}
			b.log.V(4).Info("group closed", "label", label, "rows", count)
		}
		b.emit(key, label)
	}
	return b.finish(), nil
}

// compute feeds the provided row's values to the series' functions.
func (b *Builder) compute(row *cursor.Row, ys []string) {
	for i, col := range ys {
		v := row.Value(col)
		if _, ok := aggregation.Coerce(v); !ok && !b.nonNumericX {
			b.log.V(3).Info("non-numeric value, using synthetic x positions", "column", col)
			b.nonNumericX = true
		}
		b.fns[i].Compute(v)
	}
}

// emit adds one point per series for the group with the provided key and
// label.
func (b *Builder) emit(key any, label string) {
	b.groups++
	x, numeric := cursor.Numeric(key)
	if !numeric {
		b.nonNumericX = true
	}
	if b.opts.Style.Kind() == chartdata.Proportion {
		if !b.opts.Function.Grouping() {
			label = b.labels.Disambiguate("0", label)
		}
		b.model.Slices = append(b.model.Slices, chartdata.Slice{
			Label: label,
			Value: b.fns[0].Value(),
		})
		return
	}
	sum := 0.0
	for i, fn := range b.fns {
		y := fn.Value()
		dl := b.labels.Disambiguate(strconv.Itoa(i), label)
		b.indices[i]++
		px := x
		if b.nonNumericX {
			px = float64(b.indices[i])
			b.model.IndexToLabel[b.indices[i]] = dl
		}
		s := b.model.Series[i]
		s.Points = append(s.Points, chartdata.Point{X: px, Y: y, Label: dl})
		b.values.Add(y)
		sum += y
	}
	b.groupSums.Add(sum)
}

// finish completes the model with its ranges.
func (b *Builder) finish() *chartdata.Model {
	m := b.model
	b.model = nil
	if len(m.IndexToLabel) == 0 {
		m.IndexToLabel = nil
	}
	if m.Style.Kind() != chartdata.Proportion {
		var data axisrange.Range
		if m.Style.Stacked() {
			sums, _ := b.groupSums.Bounds()
			data = axisrange.Range{Min: 0, Max: sums.Max}
		} else {
			data, _ = b.values.Bounds()
		}
		axis := b.calc.Range(data)
		if m.Style.Stacked() {
			// Stacks rise from the zero baseline.
			axis.Min = data.Min
		}
		m.DataRange, m.AxisRange = &data, &axis
	}
	b.log.V(2).Info("built chart", "groups", b.groups, "numericX", m.NumericX())
	return m
}
