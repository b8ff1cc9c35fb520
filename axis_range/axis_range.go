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

// Package axisrange computes the numeric range of a chart's value axis.  An
// Extent tracks the lowest and highest values observed, and a Calculator
// widens an extent by a padding fraction so that plotted extrema are not
// flush with the axis edges.
package axisrange

import "math"

// DefaultPadding is the fraction of the data span added on each side of the
// data range.
const DefaultPadding = 0.1

// Range is a closed numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns the width of the receiver.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Extent tracks the lowest and highest of a set of values.  The zero Extent
// has observed no values.
type Extent struct {
	min, max float64
	has      bool
}

// Add folds the provided values into the receiver.  NaNs are ignored.
func (e *Extent) Add(vs ...float64) {
	for _, v := range vs {
		if math.IsNaN(v) {
			continue
		}
		if !e.has {
			e.min, e.max, e.has = v, v, true
			continue
		}
		if v < e.min {
			e.min = v
		}
		if v > e.max {
			e.max = v
		}
	}
}

// Empty returns true if the receiver has observed no values.
func (e *Extent) Empty() bool {
	return !e.has
}

// Bounds returns the receiver's lowest and highest values.  ok is false if
// no values have been observed.
func (e *Extent) Bounds() (r Range, ok bool) {
	if !e.has {
		return Range{}, false
	}
	return Range{Min: e.min, Max: e.max}, true
}

// Calculator widens data ranges into axis ranges.
type Calculator struct {
	// Padding is the fraction of the data span added on each side.  Padding
	// that is zero leaves non-flat ranges unchanged.
	Padding float64
}

// NewCalculator returns a Calculator with the provided padding, or with
// DefaultPadding if padding is negative.
func NewCalculator(padding float64) Calculator {
	if padding < 0 {
		padding = DefaultPadding
	}
	return Calculator{Padding: padding}
}

// Range returns the axis range for the provided data range.
//
// Ranges strictly on one side of zero are not widened across it, so
// positive data keeps a zero baseline when padding would push it below zero,
// and likewise for negative data.  Ranges ending at zero are padded past it.
//
// Flat ranges (min == max) are centered on their value, extending
// Padding*|value| to either side, or DefaultPadding*|value| if Padding is
// zero.  A flat range at zero becomes [-1, 1].
func (c Calculator) Range(data Range) Range {
	min, max := data.Min, data.Max
	if min > max {
		min, max = max, min
	}
	if min == max {
		if min == 0 {
			return Range{Min: -1, Max: 1}
		}
		p := c.Padding
		if p <= 0 {
			p = DefaultPadding
		}
		margin := math.Abs(min) * p
		return Range{Min: min - margin, Max: max + margin}
	}
	margin := (max - min) * c.Padding
	lo, hi := min-margin, max+margin
	if min > 0 && lo < 0 {
		lo = 0
	}
	if max < 0 && hi > 0 {
		hi = 0
	}
	return Range{Min: lo, Max: hi}
}
