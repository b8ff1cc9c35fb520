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

package chartdata

import (
	"fmt"

	"github.com/gostafie/nextreports-engine/color"
	"github.com/gostafie/nextreports-engine/label"
	"github.com/gostafie/nextreports-engine/style"
)

// Presentation holds display settings that do not affect a chart's data.
type Presentation struct {
	Title string `json:"title,omitempty"`
	// XLegend and YLegend title the x and value axes.
	XLegend string `json:"xLegend,omitempty"`
	YLegend string `json:"yLegend,omitempty"`
	// Colors colors the series, or the slices of proportion charts, in
	// order, wrapping around.
	Colors []string `json:"colors,omitempty"`
	// Style holds chart-wide style attributes, such as 'background'.
	Style map[string]string `json:"style,omitempty"`
	// ShowValues labels each plotted item with its value, formatted with
	// ValuePattern.
	ShowValues   bool   `json:"showValues,omitempty"`
	ValuePattern string `json:"valuePattern,omitempty"`
}

// Validate returns an error if the receiver holds an unsupported color, style
// attribute or value pattern.  A nil Presentation is valid.
func (p *Presentation) Validate() error {
	if p == nil {
		return nil
	}
	if _, err := color.NewPalette(p.Colors...); err != nil {
		return err
	}
	if _, err := style.FromMap(p.Style); err != nil {
		return err
	}
	if _, err := label.NewValues(p.ValuePattern); err != nil {
		return fmt.Errorf("bad value pattern: %w", err)
	}
	return nil
}

// decorations are the encoders' view of a Presentation.  They are built per
// encoding, since value labeling is not safe for concurrent use.
type decorations struct {
	title          string
	xTitle, yTitle string
	palette        *color.Palette
	style          *style.Style
	values         *label.Values
}

func (p *Presentation) decorations(xColumn string) (*decorations, error) {
	ret := &decorations{
		xTitle: xColumn,
		yTitle: "value",
	}
	if p == nil {
		return ret, nil
	}
	ret.title = p.Title
	if p.XLegend != "" {
		ret.xTitle = p.XLegend
	}
	if p.YLegend != "" {
		ret.yTitle = p.YLegend
	}
	var err error
	if ret.palette, err = color.NewPalette(p.Colors...); err != nil {
		return nil, err
	}
	if ret.style, err = style.FromMap(p.Style); err != nil {
		return nil, err
	}
	if p.ShowValues {
		if ret.values, err = label.NewValues(p.ValuePattern); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
