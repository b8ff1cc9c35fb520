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

// Package testutil provides types and methods facilitating testing chart
// response construction.  Responses are compared by their prettyprinted
// forms, so string-table ordering never matters.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gostafie/nextreports-engine/util"
)

// UpdateComparator checks that a 'got' set of PropertyUpdates yields the same
// properties as a 'want' set.
type UpdateComparator struct {
	got  []util.PropertyUpdate
	want []util.PropertyUpdate
}

// NewUpdateComparator returns a new, empty UpdateComparator.
func NewUpdateComparator() *UpdateComparator {
	return &UpdateComparator{}
}

// WithTestUpdates specifies the receiver's PropertyUpdates under test.
func (uc *UpdateComparator) WithTestUpdates(got ...util.PropertyUpdate) *UpdateComparator {
	uc.got = got
	return uc
}

// WithWantUpdates specifies the PropertyUpdates the receiver's test updates
// should match.
func (uc *UpdateComparator) WithWantUpdates(want ...util.PropertyUpdate) *UpdateComparator {
	uc.want = want
	return uc
}

// Compare applies the receiver's 'got' and 'want' updates to sibling data,
// returning a difference message and true if they differ.  Repeated-field
// ordering must be preserved.
func (uc *UpdateComparator) Compare(t *testing.T) (string, bool) {
	t.Helper()
	data, err := Build(func(db util.DataBuilder) {
		db.Child().With(uc.got...)
		db.Child().With(uc.want...)
	})
	if err != nil {
		t.Fatal(err)
	}
	series := data.DataSeries[0]
	gotPP := series.Root.Children[0].PrettyPrint("", data.StringTable)
	wantPP := series.Root.Children[1].PrettyPrint("", data.StringTable)
	if diff := cmp.Diff(wantPP, gotPP); diff != "" {
		return fmt.Sprintf("Got series %s, diff (-want +got):\n%s",
			series.PrettyPrint("", data.StringTable), diff), true
	}
	return "", false
}

// TestDataBuilder assembles expected chart responses in tests.
type TestDataBuilder interface {
	With(updates ...util.PropertyUpdate) TestDataBuilder
	Child() TestDataBuilder
	AndChild() TestDataBuilder
	Parent() TestDataBuilder
}

type testDataBuilder struct {
	db     util.DataBuilder
	parent *testDataBuilder
}

// With applies the provided PropertyUpdates to the receiver in order.
func (tdb *testDataBuilder) With(updates ...util.PropertyUpdate) TestDataBuilder {
	if tdb != nil {
		tdb.db.With(updates...)
	}
	return tdb
}

// Child adds a child Datum to the receiver and returns it.
func (tdb *testDataBuilder) Child() TestDataBuilder {
	return &testDataBuilder{
		db:     tdb.db.Child(),
		parent: tdb,
	}
}

// AndChild adds a sibling of the receiver and returns it.  If the receiver
// has no parent, adds a child to the receiver.
func (tdb *testDataBuilder) AndChild() TestDataBuilder {
	if tdb == nil {
		return nil
	}
	if tdb.parent == nil {
		return tdb.Child()
	}
	return tdb.parent.Child()
}

// Parent returns the parent of the receiver, or the receiver itself if it has
// no parent.
func (tdb *testDataBuilder) Parent() TestDataBuilder {
	if tdb == nil {
		return nil
	}
	if tdb.parent == nil {
		return tdb
	}
	return tdb.parent
}

// Build populates a single-series response with the provided callback, which
// must be a func(util.DataBuilder) or a func(TestDataBuilder).
func Build(build any) (*util.Data, error) {
	drb := util.NewDataResponseBuilder()
	db := drb.DataSeries(&util.DataSeriesRequest{})
	switch b := build.(type) {
	case func(util.DataBuilder):
		b(db)
	case func(TestDataBuilder):
		b(&testDataBuilder{db: db})
	default:
		return nil, fmt.Errorf("build must be func(util.DataBuilder) or func(testutil.TestDataBuilder), got %T", build)
	}
	return drb.Data()
}

// CompareData raises an error on the provided testing.T if got and want do
// not prettyprint identically.
func CompareData(t *testing.T, got, want *util.Data) {
	t.Helper()
	if diff := cmp.Diff(want.PrettyPrint(), got.PrettyPrint()); diff != "" {
		t.Errorf("Got data %s, diff (-want, +got) %s", got.PrettyPrint(), diff)
	}
}

// CompareResponses compares a response built by the system under test with a
// desired response.  Both are produced by callbacks accepting either a
// util.DataBuilder or a TestDataBuilder.  Errors building either response are
// returned.
func CompareResponses(t *testing.T, buildGot any, buildWant any) error {
	t.Helper()
	got, err := Build(buildGot)
	if err != nil {
		return err
	}
	want, err := Build(buildWant)
	if err != nil {
		return err
	}
	CompareData(t, got, want)
	return nil
}
