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

package category

import (
	"testing"

	testutil "github.com/gostafie/nextreports-engine/test_util"
	"github.com/gostafie/nextreports-engine/util"
)

func TestCategoryDefinitionAndTagging(t *testing.T) {
	for _, test := range []struct {
		description     string
		buildCategories func(db util.DataBuilder)
		buildExplicit   func(db testutil.TestDataBuilder)
	}{{
		description: "series tagging",
		buildCategories: func(db util.DataBuilder) {
			sales := ForSeries(0, "Sales")
			costs := ForSeries(1, "Costs")
			defs := db.Child()
			defs.Child().With(sales.Define())
			defs.Child().With(costs.Define())
			db.Child().With(util.StringProperty("label", "north"), sales.Tag())
			db.Child().With(util.StringProperty("label", "south"), Tag(sales, costs))
			db.Child().With(util.StringProperty("label", "west"), costs.Tag(), sales.Tag())
		},
		buildExplicit: func(db testutil.TestDataBuilder) {
			db.Child().
				Child().With(
				util.StringProperty(categoryDefinedIDKey, "series_0"),
				util.StringProperty(categoryDisplayNameKey, "Sales"),
				util.StringProperty(categoryDescriptionKey, "Sales"),
			).AndChild().With(
				util.StringProperty(categoryDefinedIDKey, "series_1"),
				util.StringProperty(categoryDisplayNameKey, "Costs"),
				util.StringProperty(categoryDescriptionKey, "Costs"),
			).Parent().Parent().Child().With(
				util.StringsProperty(categoryIDsKey, "series_0"),
				util.StringProperty("label", "north"),
			).AndChild().With(
				util.StringsProperty(categoryIDsKey, "series_0", "series_1"),
				util.StringProperty("label", "south"),
			).AndChild().With(
				util.StringsProperty(categoryIDsKey, "series_1", "series_0"),
				util.StringProperty("label", "west"),
			)
		},
	}, {
		description: "groups within a series",
		buildCategories: func(db util.DataBuilder) {
			db.With(ForSeries(2, "Units").Define()).
				Child().With(ForGroup(0, "Q1").Define())
		},
		buildExplicit: func(db testutil.TestDataBuilder) {
			db.With(
				util.StringProperty(categoryDefinedIDKey, "series_2"),
				util.StringProperty(categoryDisplayNameKey, "Units"),
				util.StringProperty(categoryDescriptionKey, "Units"),
			).Child().With(
				util.StringProperty(categoryDefinedIDKey, "group_0"),
				util.StringProperty(categoryDisplayNameKey, "Q1"),
				util.StringProperty(categoryDescriptionKey, "Q1"),
			)
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			if err := testutil.CompareResponses(t, test.buildCategories, test.buildExplicit); err != nil {
				t.Fatalf("encountered unexpected error building the categories: %s", err)
			}
		})
	}
}
