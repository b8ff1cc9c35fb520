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

// Package chartdata defines the chart data model produced by series building
// and consumed by renderers: series of points, or pie slices, together with
// the value axis range and, for charts whose x values are not numbers, the
// mapping from synthetic x positions back to category labels.
package chartdata

import (
	"fmt"
	"strings"

	axisrange "github.com/gostafie/nextreports-engine/axis_range"
)

// Style is a chart type.
type Style int

// Supported chart styles.
const (
	Line Style = iota
	Bar
	HorizontalBar
	StackedBar
	Area
	Pie
)

var styleNames = map[Style]string{
	Line:          "LINE",
	Bar:           "BAR",
	HorizontalBar: "HORIZONTAL_BAR",
	StackedBar:    "STACKED_BAR",
	Area:          "AREA",
	Pie:           "PIE",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Kind classifies how a Style positions its points.
type Kind int

// Chart kinds.
const (
	// Position charts place points at numeric (x, y) positions.
	Position Kind = iota
	// Category charts place points in labeled category slots.
	Category
	// Proportion charts show labeled slices with no series dimension and no
	// numeric axis.
	Proportion
)

// Kind returns the receiver's chart kind.
func (s Style) Kind() Kind {
	switch s {
	case Line:
		return Position
	case Pie:
		return Proportion
	default:
		return Category
	}
}

// Stacked returns true if the receiver stacks its series within each group.
func (s Style) Stacked() bool {
	return s == StackedBar
}

// ParseStyle returns the Style with the provided name, matched
// case-insensitively.
func ParseStyle(name string) (Style, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for s, sn := range styleNames {
		if sn == name {
			return s, nil
		}
	}
	return Line, fmt.Errorf("unknown chart type '%s'", name)
}

// MarshalText encodes the receiver as its name.
func (s Style) MarshalText() ([]byte, error) {
	if _, ok := styleNames[s]; !ok {
		return nil, fmt.Errorf("unknown chart style %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a Style from its name.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Point is one emitted value of a series.  X is the group's numeric x value,
// or its synthetic index if the chart's x values are not numbers.  Label is
// the group's disambiguated category label.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// Series is a named, ordered sequence of points.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Slice is one labeled value of a proportion chart.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Model is the data of one chart.
type Model struct {
	Style   Style  `json:"style"`
	XColumn string `json:"xColumn,omitempty"`
	// Series holds the data of position and category charts.  All series
	// have parallel group boundaries: their k-th points describe the same
	// row group.
	Series []*Series `json:"series,omitempty"`
	// Slices holds the data of proportion charts.
	Slices []Slice `json:"slices,omitempty"`
	// DataRange is the raw range of the plotted values: the lowest and
	// highest values across all series or, for stacked charts, zero and the
	// largest group sum.  Absent for proportion charts.
	DataRange *axisrange.Range `json:"dataRange,omitempty"`
	// AxisRange is DataRange widened for display.  Absent for proportion
	// charts.
	AxisRange *axisrange.Range `json:"axisRange,omitempty"`
	// IndexToLabel maps synthetic x positions to disambiguated labels.  It is
	// non-empty only if the chart's x values are not numbers.
	IndexToLabel map[int]string `json:"indexToLabel,omitempty"`
	// Presentation holds optional display settings.
	Presentation *Presentation `json:"presentation,omitempty"`
}

// NumericX returns true if the receiver's x positions are the groups' own x
// values rather than synthetic indices.
func (m *Model) NumericX() bool {
	return len(m.IndexToLabel) == 0
}

// GroupLabels returns the category label of each row group, in order.
func (m *Model) GroupLabels() []string {
	if len(m.Series) == 0 {
		return nil
	}
	ret := make([]string, len(m.Series[0].Points))
	for i, p := range m.Series[0].Points {
		ret[i] = p.Label
	}
	return ret
}
