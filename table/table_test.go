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

package table

import (
	"testing"

	"github.com/gostafie/nextreports-engine/category"
	testutil "github.com/gostafie/nextreports-engine/test_util"
	"github.com/gostafie/nextreports-engine/util"
)

var (
	quarterCol = Column(category.New("quarter", "Quarter", "The fiscal quarter"))
	salesCol   = Column(category.New("sales", "Sales", "Total sales"))
	costsCol   = Column(category.New("costs", "Costs", "Total costs"))

	regionCat       = category.New("region", "Region", "The sales region")
	sortedRegionCol = Column(regionCat).With(
		util.StringProperty("sort_direction", "ascending"),
	)
)

func TestTable(t *testing.T) {
	for _, test := range []struct {
		description   string
		buildTabular  func(db util.DataBuilder)
		buildExplicit func(db testutil.TestDataBuilder)
	}{{
		description: "simple columns",
		buildTabular: func(db util.DataBuilder) {
			New(db, quarterCol, salesCol, costsCol).Row(
				StringCell(quarterCol, "Q1"),
				DoubleCell(salesCol, 12),
				DoubleCell(costsCol, 7.5),
			)
		},
		buildExplicit: func(db testutil.TestDataBuilder) {
			db.Child(). // column definitions
					Child().With(quarterCol.cat.Define()).
					AndChild().With(salesCol.cat.Define()).
					AndChild().With(costsCol.cat.Define()).
					Parent().Parent(). // back to table root
					Child().           // row 0
					Child().With(      // row 0 cell 0
				quarterCol.cat.Tag(),
				util.StringProperty(cellKey, "Q1"),
			).AndChild().With( // row 0 cell 1
				salesCol.cat.Tag(),
				util.DoubleProperty(cellKey, 12),
			).AndChild().With( // row 0 cell 2
				costsCol.cat.Tag(),
				util.DoubleProperty(cellKey, 7.5),
			)
		},
	}, {
		description: "decorated table, column, row, and cell",
		buildTabular: func(db util.DataBuilder) {
			New(db, sortedRegionCol).With(
				util.StringProperty("table_title", "Regions"),
			).Row(
				StringCell(sortedRegionCol, "north",
					util.StringProperty("primary_color", "blue"),
				),
			).With(
				util.StringProperty("group_id", "group_0"),
			)
		},
		buildExplicit: func(db testutil.TestDataBuilder) {
			db.With(
				util.StringProperty("table_title", "Regions"),
			).Child(). // column definitions
					Child().With(
				regionCat.Define(),
				util.StringProperty("sort_direction", "ascending"),
			).
				Parent().Parent(). // back to table root
				Child().With(      // row 0
				util.StringProperty("group_id", "group_0"),
			).
				Child().With( // row 0 cell 0
				regionCat.Tag(),
				util.StringProperty(cellKey, "north"),
				util.StringProperty("primary_color", "blue"),
			)
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			if err := testutil.CompareResponses(t, test.buildTabular, test.buildExplicit); err != nil {
				t.Fatalf("encountered unexpected error building the table: %s", err)
			}
		})
	}
}
