/*
	Copyright 2023 Google Inc.
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

// Package barchart defines a category-style chart with a discrete category
// axis and a continuous value axis.
//
// BarChart is constructed into a provided DataBuilder db with:
//
//	bc := New(db, valueAxis, layout, properties...)
//
// where valueAxis is a continuousaxis.Axis and layout is a Layout naming the
// chart's orientation and its series.  Once constructed, category lanes, one
// per row group, are added into the chart in display order with:
//
//	lane := bc.Category(cat, properties...)
//
// A lane holds one bar per series:
//
//	bar := lane.Bar(lower, upper)
//
// or, for stacked charts, one stack of bars:
//
//	stack := lane.StackedBars()
//	bar := stack.Bar(lower, upper)
//
// Bars may be tagged with their series category via `bar.With(cat.Tag())`.
//
// The structure of a bar chart in a response is:
//
//	barchart
//	  properties:
//	    * value axis definition
//	    * bar_chart_orientation
//	    * <decorators>
//	  children:
//	    * legend
//	    * repeated category lane
//
//	legend
//	  children:
//	    * repeated series category definition
//
//	category lane
//	  properties:
//	    * category definition
//	  children:
//	    * repeated bar or stacked bars
package barchart

import (
	"github.com/gostafie/nextreports-engine/category"
	continuousaxis "github.com/gostafie/nextreports-engine/continuous_axis"
	"github.com/gostafie/nextreports-engine/util"
)

const (
	// Data types
	dataTypeKey    = "bar_chart_data_type"
	stackedBarsKey = "bar_chart_stacked_bars"
	barKey         = "bar_chart_bar"

	// Bar datum keys
	barLowerExtentKey = "bar_chart_bar_lower_extent"
	barUpperExtentKey = "bar_chart_bar_upper_extent"

	orientationKey = "bar_chart_orientation"
)

// Orientation is the direction in which bars extend.
type Orientation int

// Supported orientations.
const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Layout describes the arrangement of a bar chart.
type Layout struct {
	Orientation Orientation
	// Series lists the chart's series in legend order.
	Series []*category.Category
}

func (l *Layout) define() util.PropertyUpdate {
	return util.StringProperty(orientationKey, l.Orientation.String())
}

// BarChart represents a bar chart with one continuous value axis and one
// discrete category axis.
type BarChart struct {
	db        util.DataBuilder
	valueAxis *continuousaxis.Axis
}

// New returns a new BarChart populating the provided DataBuilder, and using
// the provided value axis and layout.
func New(db util.DataBuilder, valueAxis *continuousaxis.Axis, layout *Layout, properties ...util.PropertyUpdate) *BarChart {
	ret := &BarChart{
		db: db.With(
			valueAxis.Define(),
			layout.define(),
		).With(
			properties...,
		),
		valueAxis: valueAxis,
	}
	legend := ret.db.Child()
	for _, series := range layout.Series {
		legend.Child().With(series.Define())
	}
	return ret
}

// With annotates the receiver with the provided properties.
func (bc *BarChart) With(properties ...util.PropertyUpdate) *BarChart {
	bc.db.With(properties...)
	return bc
}

// Category adds a new category lane, with the provided Category, to the
// receiver.
func (bc *BarChart) Category(category *category.Category, properties ...util.PropertyUpdate) *Category {
	return (&Category{
		db:        bc.db.Child().With(category.Define()),
		valueAxis: bc.valueAxis,
	}).With(properties...)
}

// Category represents a category lane within a bar chart.
type Category struct {
	db        util.DataBuilder
	valueAxis *continuousaxis.Axis
}

// With annotates the receiver with the provided properties.
func (c *Category) With(properties ...util.PropertyUpdate) *Category {
	c.db.With(properties...)
	return c
}

// StackedBars returns a new stacked bar added into the receiving Category.
func (c *Category) StackedBars() *StackedBars {
	return &StackedBars{
		db: c.db.Child().With(
			util.StringProperty(dataTypeKey, stackedBarsKey),
		),
		valueAxis: c.valueAxis,
	}
}

// Bar returns a new bar added into the receiving Category.
func (c *Category) Bar(lower, upper float64) *Bar {
	return newBar(c.db, c.valueAxis, lower, upper)
}

// StackedBars represents a collection of Bars within a Category.
type StackedBars struct {
	db        util.DataBuilder
	valueAxis *continuousaxis.Axis
}

// Bar returns a new bar added into the receiving StackedBars.
func (sb *StackedBars) Bar(lower, upper float64) *Bar {
	return newBar(sb.db, sb.valueAxis, lower, upper)
}

// Bar represents a single bar within a Category or a StackedBars.
type Bar struct {
	db util.DataBuilder
}

// With annotates the receiver with the provided properties.
func (b *Bar) With(properties ...util.PropertyUpdate) *Bar {
	b.db.With(properties...)
	return b
}

func newBar(parentDb util.DataBuilder, valueAxis *continuousaxis.Axis, lower, upper float64) *Bar {
	return &Bar{
		db: parentDb.Child().With(
			util.StringProperty(dataTypeKey, barKey),
			valueAxis.Value(barLowerExtentKey, lower),
			valueAxis.Value(barUpperExtentKey, upper),
		),
	}
}

