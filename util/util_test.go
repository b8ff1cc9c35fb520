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

package util

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringTable(t *testing.T) {
	for _, test := range []struct {
		description string
		additions   []string
		wantTable   []string
	}{{
		description: "unique additions",
		additions:   []string{"jan", "feb", "mar", "apr"},
		wantTable:   []string{"jan", "feb", "mar", "apr"},
	}, {
		description: "duplicate additions",
		additions:   []string{"jan", "feb", "jan", "jan", "feb"},
		wantTable:   []string{"jan", "feb"},
	}} {
		t.Run(test.description, func(t *testing.T) {
			st := newStringTable()
			for _, str := range test.additions {
				st.stringIndex(str)
			}
			if diff := cmp.Diff(test.wantTable, st.stringsByIndex); diff != "" {
				t.Errorf("Got string table %v, diff (-want +got):\n%s", st.stringsByIndex, diff)
			}
		})
	}
}

func TestDatumBuilder(t *testing.T) {
	for _, test := range []struct {
		description string
		updates     []PropertyUpdate
		wantMap     map[int64]*V
	}{{
		description: "later scalars override earlier ones",
		updates: []PropertyUpdate{
			StringProperty("label", "north"),
			DoubleProperty("value", 1.5),
			StringsProperty("ticks", "a", "b"),
			StringProperty("label", "south"),
			DoubleProperty("value", 2.5),
		},
		wantMap: map[int64]*V{
			// String table: label=0 north=1 value=2 ticks=3 a=4 b=5 south=6
			0: StringIndexValue(6),
			2: DoubleValue(2.5),
			3: StringIndicesValue(4, 5),
		},
	}, {
		description: "integers and conditional updates",
		updates: []PropertyUpdate{
			IntegerProperty("count", 3),
			If(false, IntegerProperty("skipped", 1)),
			IntegersProperty("indices", 1, 2, 3),
		},
		wantMap: map[int64]*V{
			0: IntegerValue(3),
			1: IntegersValue(1, 2, 3),
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			db := newDatumBuilder(&errors{}, newStringTable())
			db.With(test.updates...)
			if diff := cmp.Diff(test.wantMap, db.valsByKey); diff != "" {
				t.Errorf("Got map %v, diff (-want +got) %s", db.valsByKey, diff)
			}
		})
	}
}

func TestErrorPropagation(t *testing.T) {
	drb := NewDataResponseBuilder()
	db := drb.DataSeries(&DataSeriesRequest{SeriesName: "s"})
	db.With(
		StringProperty("before", "ok"),
		ErrorProperty(fmt.Errorf("bad column")),
	)
	db.Child().With(StringProperty("after", "ignored"))
	if _, err := drb.Data(); err == nil {
		t.Fatalf("Data() returned no error after an ErrorProperty")
	}
}

func TestParseDataRequest(t *testing.T) {
	for _, test := range []struct {
		description string
		reqJSON     string
		wantReq     *DataRequest
		wantErr     bool
	}{{
		description: "series requests with options",
		reqJSON: `{
			"GlobalFilters": {"collection": [1, "sales"]},
			"SeriesRequests": [{
				"QueryName": "chart.data",
				"SeriesName": "1",
				"Options": {
					"chart_name": [1, "monthly%20sales"],
					"limit": [5, 10],
					"padding": [7, 0.25],
					"columns": [3, ["a", "b"]]
				}
			}]
		}`,
		wantReq: &DataRequest{
			GlobalFilters: map[string]*V{
				"collection": StringValue("sales"),
			},
			SeriesRequests: []*DataSeriesRequest{{
				QueryName:  "chart.data",
				SeriesName: "1",
				Options: map[string]*V{
					"chart_name": StringValue("monthly%20sales"),
					"limit":      IntegerValue(10),
					"padding":    DoubleValue(0.25),
					"columns":    StringsValue("a", "b"),
				},
			}},
		},
	}, {
		description: "malformed value",
		reqJSON:     `{"GlobalFilters": {"x": [5, "ten"]}}`,
		wantErr:     true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			req, err := DataRequestFromJSON([]byte(test.reqJSON))
			if (err != nil) != test.wantErr {
				t.Fatalf("DataRequestFromJSON() yielded unexpected error %v", err)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(test.wantReq, req); diff != "" {
				t.Errorf("Got request %v, diff (-want +got) %s", req, diff)
			}
		})
	}
}

func TestExpectStringValueUnescapes(t *testing.T) {
	got, err := ExpectStringValue(StringValue("monthly%20sales"))
	if err != nil {
		t.Fatalf("ExpectStringValue() yielded unexpected error %s", err)
	}
	if got != "monthly sales" {
		t.Errorf("ExpectStringValue() = %q, want %q", got, "monthly sales")
	}
	if _, err := ExpectStringValue(IntegerValue(1)); err == nil {
		t.Errorf("ExpectStringValue() on an integer yielded no error")
	}
}

func TestDataMarshalJSON(t *testing.T) {
	drb := NewDataResponseBuilder()
	db := drb.DataSeries(&DataSeriesRequest{SeriesName: "s"})
	db.With(StringProperty("k", "v")).Child().With(DoubleProperty("y", 2))
	data, err := drb.Data()
	if err != nil {
		t.Fatalf("Data() yielded unexpected error %s", err)
	}
	got, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("json.Marshal() yielded unexpected error %s", err)
	}
	want := `{"StringTable":["k","v","y"],"DataSeries":[{"SeriesName":"s","Root":[[[0,[2,1]]],[[[[2,[7,2]]],[]]]]}]}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Got JSON %s, diff (-want +got) %s", got, diff)
	}
}
