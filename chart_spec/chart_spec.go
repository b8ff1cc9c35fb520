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

// Package chartspec loads chart definitions from YAML.  A definition names
// its chart, the chart type, the category and value columns, and where its
// rows come from:
//
//	name: sales_by_region
//	type: STACKED_BAR
//	x_column: region
//	y_columns: [sales, costs]
//	legends: [Sales, Costs]
//	function: SUM
//	source:
//	  query: SELECT region, sales, costs FROM orders ORDER BY region
//	axis_padding: 0.05
//
// Optional display settings title the chart and its axes, color its series,
// style it, and label plotted items with their values:
//
//	title: Sales by region
//	y_legend: EUR
//	colors: ["#4e79a7", orange]
//	style: {background: white}
//	show_values: true
//	y_tooltip_pattern: "#,##0"
//
// Unknown keys are rejected.
package chartspec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gostafie/nextreports-engine/aggregation"
	chartdata "github.com/gostafie/nextreports-engine/chart_data"
	seriesbuilder "github.com/gostafie/nextreports-engine/series_builder"
)

// Source says where a chart's rows come from.
type Source struct {
	// Query is a SQL query, for database sources.
	Query string `yaml:"query,omitempty"`
	// Sheet is a worksheet name, for spreadsheet sources.
	Sheet string `yaml:"sheet,omitempty"`
}

// Chart is one chart definition.
type Chart struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Type        string   `yaml:"type"`
	XColumn     string   `yaml:"x_column"`
	XPattern    string   `yaml:"x_pattern,omitempty"`
	YColumns    []string `yaml:"y_columns"`
	Legends     []string `yaml:"legends,omitempty"`
	Function    string   `yaml:"function,omitempty"`
	Source      Source   `yaml:"source,omitempty"`
	// AxisPadding overrides the default value axis padding fraction.
	AxisPadding *float64 `yaml:"axis_padding,omitempty"`

	Title   string `yaml:"title,omitempty"`
	XLegend string `yaml:"x_legend,omitempty"`
	YLegend string `yaml:"y_legend,omitempty"`
	// Colors colors the series in order.
	Colors []string          `yaml:"colors,omitempty"`
	Style  map[string]string `yaml:"style,omitempty"`
	// ShowValues labels plotted items with their values, formatted with
	// YTooltipPattern.
	ShowValues      bool   `yaml:"show_values,omitempty"`
	YTooltipPattern string `yaml:"y_tooltip_pattern,omitempty"`
}

// Presentation returns the receiver's display settings, or nil if it has
// none.
func (c *Chart) Presentation() *chartdata.Presentation {
	p := &chartdata.Presentation{
		Title:        c.Title,
		XLegend:      c.XLegend,
		YLegend:      c.YLegend,
		Colors:       c.Colors,
		Style:        c.Style,
		ShowValues:   c.ShowValues,
		ValuePattern: c.YTooltipPattern,
	}
	if p.Title == "" && p.XLegend == "" && p.YLegend == "" && len(p.Colors) == 0 &&
		len(p.Style) == 0 && !p.ShowValues && p.ValuePattern == "" {
		return nil
	}
	return p
}

// Parse decodes and validates a single chart definition.
func Parse(r io.Reader) (*Chart, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	c := &Chart{}
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty chart definition")
		}
		return nil, fmt.Errorf("failed to decode chart definition: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the chart definition in the specified file.
func Load(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate returns an error if the receiver does not describe a chart.
func (c *Chart) Validate() error {
	if c.Name == "" {
		return errors.New("chart has no name")
	}
	if _, err := c.Options(); err != nil {
		return fmt.Errorf("chart '%s': %w", c.Name, err)
	}
	if len(c.Legends) > len(c.YColumns) {
		return fmt.Errorf("chart '%s' has %d legends for %d y columns", c.Name, len(c.Legends), len(c.YColumns))
	}
	if c.Source.Query != "" && c.Source.Sheet != "" {
		return fmt.Errorf("chart '%s' names both a query and a sheet", c.Name)
	}
	if err := c.Presentation().Validate(); err != nil {
		return fmt.Errorf("chart '%s': %w", c.Name, err)
	}
	return nil
}

// Options returns the series building options the receiver describes.
func (c *Chart) Options() (seriesbuilder.Options, error) {
	style, err := chartdata.ParseStyle(c.Type)
	if err != nil {
		return seriesbuilder.Options{}, err
	}
	fn, err := aggregation.Parse(c.Function)
	if err != nil {
		return seriesbuilder.Options{}, err
	}
	opts := seriesbuilder.Options{
		XColumn:  c.XColumn,
		XPattern: c.XPattern,
		YColumns: c.YColumns,
		Legends:  c.Legends,
		Function: fn,
		Style:    style,
		Padding:  c.AxisPadding,
	}
	if err := opts.Validate(); err != nil {
		return seriesbuilder.Options{}, err
	}
	return opts, nil
}

// Registry holds chart definitions by name.
type Registry struct {
	charts map[string]*Chart
}

// NewRegistry returns a Registry holding the provided charts.  Chart names
// must be unique.
func NewRegistry(charts ...*Chart) (*Registry, error) {
	r := &Registry{
		charts: map[string]*Chart{},
	}
	for _, c := range charts {
		if err := r.Add(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadDir returns a Registry holding every chart defined in the '.yaml' and
// '.yml' files in the specified directory.
func LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	r, _ := NewRegistry()
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		c, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if err := r.Add(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add adds the provided chart to the receiver.
func (r *Registry) Add(c *Chart) error {
	if _, ok := r.charts[c.Name]; ok {
		return fmt.Errorf("chart '%s' is defined more than once", c.Name)
	}
	r.charts[c.Name] = c
	return nil
}

// Get returns the chart with the specified name.
func (r *Registry) Get(name string) (*Chart, error) {
	c, ok := r.charts[name]
	if !ok {
		return nil, fmt.Errorf("no chart named '%s'", name)
	}
	return c, nil
}

// Names returns the names of all charts in the receiver, sorted.
func (r *Registry) Names() []string {
	ret := make([]string, 0, len(r.charts))
	for name := range r.charts {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
