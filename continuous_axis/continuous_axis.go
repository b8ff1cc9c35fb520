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

// Package continuousaxis provides decorator helpers for defining continuous
// numeric axes.  An axis has a name, a label, and minimum and maximum points
// along its domain.  An axis whose positions stand in for categories also
// carries category ticks.
package continuousaxis

import (
	axisrange "github.com/gostafie/nextreports-engine/axis_range"
	"github.com/gostafie/nextreports-engine/category"
	categoryaxis "github.com/gostafie/nextreports-engine/category_axis"
	"github.com/gostafie/nextreports-engine/util"
)

const (
	axisTypeKey = "axis_type"
	axisMinKey  = "axis_min"
	axisMaxKey  = "axis_max"

	doubleAxisType = "double"
)

// Axis is a continuous numeric axis.
type Axis struct {
	cat   *category.Category
	rng   axisrange.Range
	ticks *categoryaxis.Ticks
}

// NewDoubleAxis returns a new Axis with the specified category.  If the
// optional extents are provided, the axis' minimum and maximum extents will
// be initialized to the lowest and highest of those extents; otherwise both
// are zero.
func NewDoubleAxis(cat *category.Category, extents ...float64) *Axis {
	var ext axisrange.Extent
	ext.Add(extents...)
	rng, _ := ext.Bounds()
	return FromRange(cat, rng)
}

// FromRange returns a new Axis with the specified category spanning the
// provided range.
func FromRange(cat *category.Category, rng axisrange.Range) *Axis {
	return &Axis{
		cat: cat,
		rng: rng,
	}
}

// WithTicks attaches category ticks to the receiver.
func (a *Axis) WithTicks(ticks *categoryaxis.Ticks) *Axis {
	a.ticks = ticks
	return a
}

// Range returns the receiver's extent.
func (a *Axis) Range() axisrange.Range {
	return a.rng
}

// Define annotates with a definition of the receiver.
func (a *Axis) Define() util.PropertyUpdate {
	return util.Chain(
		a.cat.Define(),
		util.StringProperty(axisTypeKey, doubleAxisType),
		util.DoubleProperty(axisMinKey, a.rng.Min),
		util.DoubleProperty(axisMaxKey, a.rng.Max),
		a.ticks.Define(),
	)
}

// Value annotates with the provided value under the provided key.
func (a *Axis) Value(key string, v float64) util.PropertyUpdate {
	return util.DoubleProperty(key, v)
}

// CategoryID returns the category ID of the receiving Axis.
func (a *Axis) CategoryID() string {
	return a.cat.ID()
}
