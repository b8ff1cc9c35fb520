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

// Package color supports coloring chart items.
//
// A single Datum may be annotated with up to three colors: a primary color,
// which fills the item (a series' line, bars or slice); a secondary color,
// used for accents such as highlighted items; and a stroke color, used for
// text and borders.  Colors are HTML color strings: a color name, or a '#'
// followed by 3, 4, 6 or 8 hex digits.
//
// Series are colored from a Palette.  The palette is defined once on the
// chart root, and each series is given the palette color at its index,
// wrapping around when there are more series than colors:
//
//	p, err := color.NewPalette("#4e79a7", "#f28e2b", "#e15759")
//	root.With(p.Define())
//	for i, s := range series {
//	  chart.AddSeries(cat, p.Series(i))
//	}
package color

import (
	"fmt"
	"regexp"

	"github.com/gostafie/nextreports-engine/util"
)

const (
	paletteKey        = "color_palette"
	primaryColorKey   = "primary_color"
	secondaryColorKey = "secondary_color"
	strokeColorKey    = "stroke_color"
)

var colorRE = regexp.MustCompile(`^(#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|[a-zA-Z]+)$`)

// Valid returns true if the provided string is a supported color.
func Valid(c string) bool {
	return colorRE.MatchString(c)
}

// Palette is an ordered set of series colors.  A nil or empty Palette colors
// nothing.
type Palette struct {
	colors []string
}

// NewPalette returns a new Palette with the provided colors, or an error if
// any color is unsupported.
func NewPalette(colors ...string) (*Palette, error) {
	for i, c := range colors {
		if !Valid(c) {
			return nil, fmt.Errorf("color %d ('%s') is not a color name or hex color", i, c)
		}
	}
	return &Palette{
		colors: colors,
	}, nil
}

// Len returns the number of colors in the receiver.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.colors)
}

// Define annotates with a definition of the receiving Palette.
func (p *Palette) Define() util.PropertyUpdate {
	if p.Len() == 0 {
		return util.EmptyUpdate
	}
	return util.StringsProperty(paletteKey, p.colors...)
}

// Series annotates a Datum with the primary color of the series at the
// provided index.
func (p *Palette) Series(index int) util.PropertyUpdate {
	if p.Len() == 0 || index < 0 {
		return util.EmptyUpdate
	}
	return Primary(p.colors[index%len(p.colors)])
}

// Primary annotates a Datum with the specified primary color.
func Primary(colorValue string) util.PropertyUpdate {
	return util.StringProperty(primaryColorKey, colorValue)
}

// Secondary annotates a Datum with the specified secondary color.
func Secondary(colorValue string) util.PropertyUpdate {
	return util.StringProperty(secondaryColorKey, colorValue)
}

// Stroke annotates a Datum with the specified stroke color.
func Stroke(colorValue string) util.PropertyUpdate {
	return util.StringProperty(strokeColorKey, colorValue)
}
