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

// Package piechart defines a proportion-style chart: a single dimension of
// labeled slices, with no numeric axis.
//
//	pc := New(db, properties...)
//	pc.Slice(cat, value, properties...)
//
// Each slice also carries its fraction of the chart total, which is known
// once all slices are added; call Close to emit it:
//
//	pc.Close()
//
// The structure of a pie chart in a response is:
//
//	piechart
//	  properties:
//	    * pie_chart_total: Double
//	    * <decorators>
//	  children:
//	    * repeated slice
//
//	slice
//	  properties:
//	    * category definition
//	    * pie_chart_slice_value: Double
//	    * pie_chart_slice_fraction: Double
//	    * <decorators>
package piechart

import (
	"math"

	"github.com/gostafie/nextreports-engine/category"
	"github.com/gostafie/nextreports-engine/util"
)

const (
	totalKey         = "pie_chart_total"
	sliceValueKey    = "pie_chart_slice_value"
	sliceFractionKey = "pie_chart_slice_fraction"
)

// PieChart represents a pie chart embedded in a response.
type PieChart struct {
	db     util.DataBuilder
	slices []*Slice
	total  float64
}

// New returns a new PieChart populating the provided DataBuilder.
func New(db util.DataBuilder, properties ...util.PropertyUpdate) *PieChart {
	return &PieChart{
		db: db.With(properties...),
	}
}

// With annotates the receiver with the provided properties.
func (pc *PieChart) With(properties ...util.PropertyUpdate) *PieChart {
	pc.db.With(properties...)
	return pc
}

// Slice adds a slice, described by the provided Category, with the provided
// value.  Slice sizes are proportional to the magnitude of their values.
func (pc *PieChart) Slice(cat *category.Category, value float64, properties ...util.PropertyUpdate) *Slice {
	s := &Slice{
		db: pc.db.Child().With(
			cat.Define(),
			util.DoubleProperty(sliceValueKey, value),
		).With(properties...),
		value: value,
	}
	pc.slices = append(pc.slices, s)
	pc.total += math.Abs(value)
	return s
}

// Close annotates the chart with its total and each slice with its fraction
// of that total.  Slices of an all-zero chart have fraction 0.
func (pc *PieChart) Close() {
	pc.db.With(util.DoubleProperty(totalKey, pc.total))
	for _, s := range pc.slices {
		frac := 0.0
		if pc.total > 0 {
			frac = math.Abs(s.value) / pc.total
		}
		s.db.With(util.DoubleProperty(sliceFractionKey, frac))
	}
}

// Slice represents one slice of a PieChart.
type Slice struct {
	db    util.DataBuilder
	value float64
}

// With annotates the receiver with the provided properties.
func (s *Slice) With(properties ...util.PropertyUpdate) *Slice {
	s.db.With(properties...)
	return s
}
