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
	barchart "github.com/gostafie/nextreports-engine/bar_chart"
	"github.com/gostafie/nextreports-engine/category"
	categoryaxis "github.com/gostafie/nextreports-engine/category_axis"
	continuousaxis "github.com/gostafie/nextreports-engine/continuous_axis"
	piechart "github.com/gostafie/nextreports-engine/pie_chart"
	"github.com/gostafie/nextreports-engine/table"
	"github.com/gostafie/nextreports-engine/util"
	xychart "github.com/gostafie/nextreports-engine/xy_chart"
)

const (
	chartStyleKey = "chart_style"
	chartTitleKey = "chart_title"
	pointLabelKey = "point_label"

	xAxisID     = "x_axis"
	valueAxisID = "y_axis"
	labelColID  = "label"
	shareColID  = "share"
)

// Encode writes the receiver into the provided DataBuilder, which must not be
// used for any other purpose: LINE charts as xy charts, PIE charts as pie
// charts, and all other styles as bar charts.  Errors are recorded in the
// DataBuilder's response.
func (m *Model) Encode(db util.DataBuilder) {
	dec, err := m.Presentation.decorations(m.XColumn)
	if err != nil {
		db.With(util.ErrorProperty(err))
		return
	}
	root := util.Chain(
		util.StringProperty(chartStyleKey, m.Style.String()),
		util.If(dec.title != "", util.StringProperty(chartTitleKey, dec.title)),
		dec.palette.Define(),
		dec.style.Define(),
	)
	switch m.Style.Kind() {
	case Proportion:
		m.encodePie(db, dec, root)
	case Position:
		m.encodeXY(db, dec, root)
	default:
		m.encodeBars(db, dec, root)
	}
}

func (m *Model) valueAxis(dec *decorations) *continuousaxis.Axis {
	cat := category.New(valueAxisID, dec.yTitle, "Value")
	if m.AxisRange != nil {
		return continuousaxis.FromRange(cat, *m.AxisRange)
	}
	ys := []float64{}
	for _, s := range m.Series {
		for _, p := range s.Points {
			ys = append(ys, p.Y)
		}
	}
	return continuousaxis.NewDoubleAxis(cat, ys...)
}

func (m *Model) seriesCategories() []*category.Category {
	ret := make([]*category.Category, len(m.Series))
	for i, s := range m.Series {
		ret[i] = category.ForSeries(i, s.Name)
	}
	return ret
}

func (m *Model) total() float64 {
	total := 0.0
	for _, s := range m.Slices {
		total += s.Value
	}
	return total
}

func (m *Model) encodePie(db util.DataBuilder, dec *decorations, properties ...util.PropertyUpdate) {
	pc := piechart.New(db, properties...)
	total := m.total()
	for i, s := range m.Slices {
		props := []util.PropertyUpdate{dec.palette.Series(i), dec.values.Value(s.Value)}
		if total != 0 {
			props = append(props, dec.values.Percent(s.Value/total))
		}
		pc.Slice(category.ForGroup(i, s.Label), s.Value, props...)
	}
	pc.Close()
}

func (m *Model) encodeXY(db util.DataBuilder, dec *decorations, properties ...util.PropertyUpdate) {
	xs := []float64{}
	for _, s := range m.Series {
		for _, p := range s.Points {
			xs = append(xs, p.X)
		}
	}
	xAxis := continuousaxis.NewDoubleAxis(category.New(xAxisID, dec.xTitle, m.XColumn), xs...)
	if !m.NumericX() {
		xAxis.WithTicks(categoryaxis.FromIndex(m.IndexToLabel))
	}
	chart := xychart.New(db, xAxis, m.valueAxis(dec), properties...)
	for i, cat := range m.seriesCategories() {
		series := chart.AddSeries(cat, dec.palette.Series(i))
		for _, p := range m.Series[i].Points {
			series.WithPoint(p.X, p.Y,
				util.StringProperty(pointLabelKey, p.Label),
				dec.values.Value(p.Y),
			)
		}
	}
}

func (m *Model) encodeBars(db util.DataBuilder, dec *decorations, properties ...util.PropertyUpdate) {
	cats := m.seriesCategories()
	layout := &barchart.Layout{
		Series: cats,
	}
	if m.Style == HorizontalBar {
		layout.Orientation = barchart.Horizontal
	}
	bc := barchart.New(db, m.valueAxis(dec), layout, properties...)
	for k, label := range m.GroupLabels() {
		lane := bc.Category(category.ForGroup(k, label))
		if m.Style.Stacked() {
			stack := lane.StackedBars()
			base := 0.0
			for i, s := range m.Series {
				if k >= len(s.Points) {
					continue
				}
				y := s.Points[k].Y
				stack.Bar(base, base+y).With(cats[i].Tag(), dec.palette.Series(i), dec.values.Value(y))
				base += y
			}
			continue
		}
		for i, s := range m.Series {
			if k >= len(s.Points) {
				continue
			}
			y := s.Points[k].Y
			lane.Bar(min(0, y), max(0, y)).With(cats[i].Tag(), dec.palette.Series(i), dec.values.Value(y))
		}
	}
}

// EncodeTable writes the receiver's data into the provided DataBuilder, which
// must not be used for any other purpose, as a table.  Proportion charts get
// one row per slice, with label, value and share columns; other charts get
// one row per group, with a label column and one column per series.
func (m *Model) EncodeTable(db util.DataBuilder) {
	dec, err := m.Presentation.decorations(m.XColumn)
	if err != nil {
		db.With(util.ErrorProperty(err))
		return
	}
	labelCol := table.Column(category.New(labelColID, dec.xTitle, m.XColumn))
	root := util.Chain(
		util.StringProperty(chartStyleKey, m.Style.String()),
		util.If(dec.title != "", util.StringProperty(chartTitleKey, dec.title)),
	)
	if m.Style.Kind() == Proportion {
		valueCol := table.Column(category.New(valueAxisID, dec.yTitle, "Value"))
		shareCol := table.Column(category.New(shareColID, "share", "Share of the total"))
		tab := table.New(db, labelCol, valueCol, shareCol).With(root)
		total := m.total()
		for i, s := range m.Slices {
			cells := []table.CellUpdate{
				table.StringCell(labelCol, s.Label),
				table.DoubleCell(valueCol, s.Value),
			}
			if total != 0 {
				cells = append(cells, table.DoubleCell(shareCol, s.Value/total))
			}
			tab.Row(cells...).With(category.ForGroup(i, s.Label).Tag())
		}
		return
	}
	cols := []*table.ColumnUpdate{labelCol}
	for i, cat := range m.seriesCategories() {
		cols = append(cols, table.Column(cat, dec.palette.Series(i)))
	}
	tab := table.New(db, cols...).With(root)
	for k, label := range m.GroupLabels() {
		cells := []table.CellUpdate{table.StringCell(labelCol, label)}
		for i, s := range m.Series {
			if k >= len(s.Points) {
				continue
			}
			cells = append(cells, table.DoubleCell(cols[i+1], s.Points[k].Y))
		}
		tab.Row(cells...).With(category.ForGroup(k, label).Tag())
	}
}
