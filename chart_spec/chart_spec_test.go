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

package chartspec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gostafie/nextreports-engine/aggregation"
	chartdata "github.com/gostafie/nextreports-engine/chart_data"
	seriesbuilder "github.com/gostafie/nextreports-engine/series_builder"
)

const salesYAML = `
name: sales_by_region
type: stacked_bar
x_column: region
y_columns: [sales, costs]
legends: [Sales]
function: SUM
source:
  query: SELECT region, sales, costs FROM orders ORDER BY region
axis_padding: 0.05
`

func TestParse(t *testing.T) {
	padding := 0.05
	for _, test := range []struct {
		description string
		yaml        string
		want        *Chart
		wantOpts    seriesbuilder.Options
		wantErr     string
	}{{
		description: "full definition",
		yaml:        salesYAML,
		want: &Chart{
			Name:        "sales_by_region",
			Type:        "stacked_bar",
			XColumn:     "region",
			YColumns:    []string{"sales", "costs"},
			Legends:     []string{"Sales"},
			Function:    "SUM",
			Source:      Source{Query: "SELECT region, sales, costs FROM orders ORDER BY region"},
			AxisPadding: &padding,
		},
		wantOpts: seriesbuilder.Options{
			XColumn:  "region",
			YColumns: []string{"sales", "costs"},
			Legends:  []string{"Sales"},
			Function: aggregation.Sum,
			Style:    chartdata.StackedBar,
			Padding:  &padding,
		},
	}, {
		description: "minimal definition",
		yaml: `
name: trend
type: LINE
x_column: day
x_pattern: yyyy-MM-dd
y_columns: [visits]
source:
  sheet: Visits
`,
		want: &Chart{
			Name:     "trend",
			Type:     "LINE",
			XColumn:  "day",
			XPattern: "yyyy-MM-dd",
			YColumns: []string{"visits"},
			Source:   Source{Sheet: "Visits"},
		},
		wantOpts: seriesbuilder.Options{
			XColumn:  "day",
			XPattern: "yyyy-MM-dd",
			YColumns: []string{"visits"},
			Function: aggregation.Noop,
			Style:    chartdata.Line,
		},
	}, {
		description: "display settings",
		yaml: `
name: shares
type: PIE
x_column: region
y_columns: [sales]
title: Shares
colors: ["#4e79a7", orange]
style: {background: white}
show_values: true
y_tooltip_pattern: "0.0%"
`,
		want: &Chart{
			Name:            "shares",
			Type:            "PIE",
			XColumn:         "region",
			YColumns:        []string{"sales"},
			Title:           "Shares",
			Colors:          []string{"#4e79a7", "orange"},
			Style:           map[string]string{"background": "white"},
			ShowValues:      true,
			YTooltipPattern: "0.0%",
		},
		wantOpts: seriesbuilder.Options{
			XColumn:  "region",
			YColumns: []string{"sales"},
			Function: aggregation.Noop,
			Style:    chartdata.Pie,
		},
	}, {
		description: "bad color",
		yaml:        "name: a\ntype: BAR\nx_column: x\ny_columns: [y]\ncolors: [\"#12\"]\n",
		wantErr:     "not a color name",
	}, {
		description: "bad value pattern",
		yaml:        "name: a\ntype: BAR\nx_column: x\ny_columns: [y]\ny_tooltip_pattern: abc\n",
		wantErr:     "bad value pattern",
	}, {
		description: "unknown key",
		yaml:        "name: a\ntype: BAR\nx_column: x\ny_columns: [y]\ncolour: red\n",
		wantErr:     "colour",
	}, {
		description: "unknown type",
		yaml:        "name: a\ntype: RADAR\nx_column: x\ny_columns: [y]\n",
		wantErr:     "unknown chart type",
	}, {
		description: "unknown function",
		yaml:        "name: a\ntype: BAR\nx_column: x\ny_columns: [y]\nfunction: MEDIAN\n",
		wantErr:     "unknown aggregation function",
	}, {
		description: "no y columns",
		yaml:        "name: a\ntype: BAR\nx_column: x\n",
		wantErr:     "no y columns",
	}, {
		description: "too many legends",
		yaml:        "name: a\ntype: BAR\nx_column: x\ny_columns: [y]\nlegends: [Y, Z]\n",
		wantErr:     "2 legends for 1 y columns",
	}, {
		description: "two sources",
		yaml:        "name: a\ntype: BAR\nx_column: x\ny_columns: [y]\nsource: {query: q, sheet: s}\n",
		wantErr:     "both a query and a sheet",
	}, {
		description: "no name",
		yaml:        "type: BAR\nx_column: x\ny_columns: [y]\n",
		wantErr:     "no name",
	}, {
		description: "empty",
		yaml:        "",
		wantErr:     "empty chart definition",
	}} {
		t.Run(test.description, func(t *testing.T) {
			got, err := Parse(strings.NewReader(test.yaml))
			if test.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), test.wantErr) {
					t.Fatalf("Parse() yielded error %v, want one containing %q", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() yielded unexpected error %s", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Parse() = %v, diff (-want +got) %s", got, diff)
			}
			gotOpts, err := got.Options()
			if err != nil {
				t.Fatalf("Options() yielded unexpected error %s", err)
			}
			if diff := cmp.Diff(test.wantOpts, gotOpts); diff != "" {
				t.Errorf("Options() = %v, diff (-want +got) %s", gotOpts, diff)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, contents string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
			t.Fatalf("failed to write %s: %s", name, err)
		}
	}
	write("sales.yaml", salesYAML)
	write("trend.yml", "name: trend\ntype: LINE\nx_column: day\ny_columns: [visits]\n")
	write("notes.txt", "not a chart")
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755); err != nil {
		t.Fatalf("failed to create directory: %s", err)
	}
	r, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() yielded unexpected error %s", err)
	}
	if diff := cmp.Diff([]string{"sales_by_region", "trend"}, r.Names()); diff != "" {
		t.Errorf("Names() diff (-want +got) %s", diff)
	}
	if c, err := r.Get("trend"); err != nil || c.XColumn != "day" {
		t.Errorf("Get(trend) = %v, %v", c, err)
	}
	if _, err := r.Get("missing"); err == nil {
		t.Errorf("Get(missing) yielded no error")
	}

	write("dup.yaml", "name: trend\ntype: BAR\nx_column: x\ny_columns: [y]\n")
	if _, err := LoadDir(dir); err == nil || !strings.Contains(err.Error(), "more than once") {
		t.Errorf("LoadDir() with duplicate names yielded error %v", err)
	}
}

func TestPresentation(t *testing.T) {
	c, err := Parse(strings.NewReader(salesYAML))
	if err != nil {
		t.Fatalf("Parse() yielded unexpected error %s", err)
	}
	if p := c.Presentation(); p != nil {
		t.Errorf("Presentation() of a chart with no display settings = %v, want nil", p)
	}
	c.Title, c.YLegend = "Sales", "EUR"
	want := &chartdata.Presentation{Title: "Sales", YLegend: "EUR"}
	if diff := cmp.Diff(want, c.Presentation()); diff != "" {
		t.Errorf("Presentation() diff (-want +got) %s", diff)
	}
}
