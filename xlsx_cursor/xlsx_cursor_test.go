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

package xlsxcursor

import (
	"path/filepath"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/gostafie/nextreports-engine/aggregation"
	chartdata "github.com/gostafie/nextreports-engine/chart_data"
	seriesbuilder "github.com/gostafie/nextreports-engine/series_builder"
)

// writeWorkbook saves a workbook whose named sheet holds the provided cells,
// keyed by cell reference, and returns its path.
func writeWorkbook(t *testing.T, sheet string, cells map[string]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("failed to add sheet: %s", err)
		}
	}
	for ref, v := range cells {
		if err := f.SetCellValue(sheet, ref, v); err != nil {
			t.Fatalf("failed to set %s: %s", ref, err)
		}
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %s", err)
	}
	return path
}

func readAll(t *testing.T, c *Cursor, cols ...string) [][]any {
	t.Helper()
	ret := [][]any{}
	for c.HasNext() {
		row := []any{}
		for _, col := range cols {
			v, err := c.NextValue(col)
			if err != nil {
				t.Fatalf("NextValue(%s) yielded unexpected error %s", col, err)
			}
			row = append(row, v)
		}
		ret = append(ret, row)
	}
	if err := c.Err(); err != nil {
		t.Fatalf("Err() = %s", err)
	}
	return ret
}

func TestCursor(t *testing.T) {
	for _, test := range []struct {
		description string
		sheet       string
		openSheet   string
		cells       map[string]any
		cols        []string
		wantColumns int
		want        [][]any
	}{{
		description: "first sheet by default",
		sheet:       "Sheet1",
		cells: map[string]any{
			"A1": "region", "B1": "sales", "C1": "note",
			"A2": "north", "B2": 1.5, "C2": "ok",
			"A3": "south", "B3": 4,
			"A4": "west", "C4": "late",
		},
		cols:        []string{"region", "sales", "note"},
		wantColumns: 3,
		want: [][]any{
			{"north", 1.5, "ok"},
			{"south", 4.0, nil},
			{"west", nil, "late"},
		},
	}, {
		description: "named sheet",
		sheet:       "Orders",
		openSheet:   "Orders",
		cells: map[string]any{
			"A1": "year", "B1": "units",
			"A2": 2023, "B2": 10,
			"A3": 2024, "B3": 12,
		},
		cols:        []string{"year", "units"},
		wantColumns: 2,
		want: [][]any{
			{2023.0, 10.0},
			{2024.0, 12.0},
		},
	}, {
		description: "blank rows read as empty cells",
		sheet:       "Sheet1",
		cells: map[string]any{
			"A1": "x", "B1": "y",
			"A2": "a", "B2": 1,
			"A4": "b", "B4": 2,
		},
		cols:        []string{"x", "y"},
		wantColumns: 2,
		want: [][]any{
			{"a", 1.0},
			{nil, nil},
			{"b", 2.0},
		},
	}, {
		description: "header only",
		sheet:       "Sheet1",
		cells:       map[string]any{"A1": "x", "B1": "y"},
		cols:        []string{"x"},
		wantColumns: 2,
		want:        [][]any{},
	}} {
		t.Run(test.description, func(t *testing.T) {
			c, err := Open(writeWorkbook(t, test.sheet, test.cells), test.openSheet)
			if err != nil {
				t.Fatalf("Open() yielded unexpected error %s", err)
			}
			defer c.Close()
			if got := c.ColumnCount(); got != test.wantColumns {
				t.Errorf("ColumnCount() = %d, want %d", got, test.wantColumns)
			}
			got := readAll(t, c, test.cols...)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Got rows %v, diff (-want +got) %s", got, diff)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", map[string]any{"A1": "x", "A2": "a"})
	if _, err := Open(path, "Missing"); err == nil {
		t.Errorf("Open() of a missing sheet yielded no error")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "none.xlsx"), ""); err == nil {
		t.Errorf("Open() of a missing file yielded no error")
	}
	c, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open() yielded unexpected error %s", err)
	}
	defer c.Close()
	if _, err := c.NextValue("x"); err == nil {
		t.Errorf("NextValue() before HasNext() yielded no error")
	}
	if !c.HasNext() {
		t.Fatalf("HasNext() = false, want true")
	}
	if _, err := c.NextValue("y"); err == nil {
		t.Errorf("NextValue() of an unknown column yielded no error")
	}
}

func TestBuildAcrossBlankRow(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", map[string]any{
		"A1": "x", "B1": "y",
		"A2": "a", "B2": 1,
		"A4": "b", "B4": 2,
	})
	c, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open() yielded unexpected error %s", err)
	}
	defer c.Close()
	m, err := seriesbuilder.Build(c, seriesbuilder.Options{
		XColumn:  "x",
		YColumns: []string{"y"},
		Function: aggregation.Sum,
		Style:    chartdata.Bar,
	}, testr.New(t))
	if err != nil {
		t.Fatalf("Build() yielded unexpected error %s", err)
	}
	want := []*chartdata.Series{{
		Name: "y",
		Points: []chartdata.Point{
			{X: 1, Y: 1, Label: "a"},
			{X: 2, Y: 0, Label: ""},
			{X: 3, Y: 2, Label: "b"},
		},
	}}
	if diff := cmp.Diff(want, m.Series); diff != "" {
		t.Errorf("Build() yielded series diff (-want +got) %s", diff)
	}
}
