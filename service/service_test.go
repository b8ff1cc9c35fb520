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

package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/xuri/excelize/v2"

	chartspec "github.com/gostafie/nextreports-engine/chart_spec"
	datasource "github.com/gostafie/nextreports-engine/data_source"
	"github.com/gostafie/nextreports-engine/util"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for ref, v := range map[string]any{
		"A1": "quarter", "B1": "revenue",
		"A2": "Q1", "B2": 10,
		"A3": "Q2", "B3": 14,
	} {
		if err := f.SetCellValue("Sheet1", ref, v); err != nil {
			t.Fatalf("failed to set %s: %s", ref, err)
		}
	}
	if _, err := f.NewSheet("Empty"); err != nil {
		t.Fatalf("failed to add sheet: %s", err)
	}
	if err := f.SetCellValue("Empty", "A1", "quarter"); err != nil {
		t.Fatalf("failed to set header: %s", err)
	}
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %s", err)
	}
	return path
}

func TestServe(t *testing.T) {
	reg, err := chartspec.NewRegistry(&chartspec.Chart{
		Name:     "revenue",
		Type:     "BAR",
		XColumn:  "quarter",
		YColumns: []string{"revenue"},
	}, &chartspec.Chart{
		Name:     "nothing",
		Type:     "PIE",
		XColumn:  "quarter",
		YColumns: []string{"revenue"},
		Source:   chartspec.Source{Sheet: "Empty"},
	})
	if err != nil {
		t.Fatalf("Unexpected failure creating registry: %s", err)
	}
	svc, err := New(reg, &datasource.XLSXOpener{Path: writeWorkbook(t)}, 4, testr.New(t))
	if err != nil {
		t.Fatalf("New() yielded unexpected error %s", err)
	}
	mux := http.NewServeMux()
	svc.RegisterHandlers(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	req, err := json.Marshal(&util.DataRequest{
		SeriesRequests: []*util.DataSeriesRequest{{
			QueryName:  "chart.data",
			SeriesName: "revenue",
			Options: map[string]*util.V{
				"chart_name": util.StringValue("revenue"),
			},
		}},
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %s", err)
	}
	for i := 0; i < 2; i++ {
		resp, err := http.Get(srv.URL + "/GetData?req=" + url.QueryEscape(string(req)))
		if err != nil {
			t.Fatalf("GET yielded unexpected error %s", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Got status %d, want %d", resp.StatusCode, http.StatusOK)
		}
		svc.Refresh()
	}

	empty, err := json.Marshal(&util.DataRequest{
		SeriesRequests: []*util.DataSeriesRequest{{
			QueryName:  "chart.data",
			SeriesName: "nothing",
			Options: map[string]*util.V{
				"chart_name": util.StringValue("nothing"),
			},
		}},
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %s", err)
	}
	resp, err := http.Post(srv.URL+"/GetData", "application/json", bytes.NewReader(empty))
	if err != nil {
		t.Fatalf("POST yielded unexpected error %s", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Got status %d for a chart without rows, want %d", resp.StatusCode, http.StatusNotFound)
	}
}
