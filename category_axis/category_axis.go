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

// Package categoryaxis provides helpers for defining category tick data.  A
// chart whose x values are not numbers plots each category at a synthetic
// integer position; Ticks map those positions back to category labels so that
// the renderer can label the axis with categories rather than with numbers.
//
// Ticks are defined on an axis datum as two parallel properties:
//
//	axis
//	  properties:
//	    * category_tick_positions: Integers (ascending)
//	    * category_tick_labels: Strings
package categoryaxis

import (
	"sort"

	"github.com/gostafie/nextreports-engine/util"
)

const (
	tickPositionsKey = "category_tick_positions"
	tickLabelsKey    = "category_tick_labels"
)

// Ticks is an ordered set of labeled axis positions.
type Ticks struct {
	positions []int64
	labels    []string
}

// FromIndex returns Ticks for the provided position-to-label mapping, ordered
// by position.
func FromIndex(indexToLabel map[int]string) *Ticks {
	positions := make([]int, 0, len(indexToLabel))
	for pos := range indexToLabel {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	ret := &Ticks{
		positions: make([]int64, len(positions)),
		labels:    make([]string, len(positions)),
	}
	for i, pos := range positions {
		ret.positions[i] = int64(pos)
		ret.labels[i] = indexToLabel[pos]
	}
	return ret
}

// Len returns the number of ticks in the receiver.
func (t *Ticks) Len() int {
	if t == nil {
		return 0
	}
	return len(t.positions)
}

// Label returns the label at the provided position, if there is one.
func (t *Ticks) Label(pos int64) (string, bool) {
	if t == nil {
		return "", false
	}
	i := sort.Search(len(t.positions), func(i int) bool { return t.positions[i] >= pos })
	if i < len(t.positions) && t.positions[i] == pos {
		return t.labels[i], true
	}
	return "", false
}

// Define applies the receiver as a set of properties.  Empty Ticks define
// nothing.
func (t *Ticks) Define() util.PropertyUpdate {
	if t.Len() == 0 {
		return util.EmptyUpdate
	}
	return util.Chain(
		util.IntegersProperty(tickPositionsKey, t.positions...),
		util.StringsProperty(tickLabelsKey, t.labels...),
	)
}
