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

package color

import (
	"testing"

	testutil "github.com/gostafie/nextreports-engine/test_util"
	"github.com/gostafie/nextreports-engine/util"
)

func TestNewPalette(t *testing.T) {
	for _, test := range []struct {
		description string
		colors      []string
		wantErr     bool
	}{
		{"names", []string{"red", "SteelBlue"}, false},
		{"hex", []string{"#fff", "#ffff", "#4e79a7", "#4e79a7cc"}, false},
		{"empty", nil, false},
		{"bad hex length", []string{"#12345"}, true},
		{"not hex", []string{"#ggg"}, true},
		{"function notation", []string{"rgb(1,2,3)"}, true},
		{"blank", []string{""}, true},
	} {
		t.Run(test.description, func(t *testing.T) {
			_, err := NewPalette(test.colors...)
			if (err != nil) != test.wantErr {
				t.Errorf("NewPalette(%v) yielded unexpected error %v", test.colors, err)
			}
		})
	}
}

func TestPaletteUpdates(t *testing.T) {
	p, err := NewPalette("red", "#00ff00")
	if err != nil {
		t.Fatalf("NewPalette() yielded unexpected error %s", err)
	}
	var none *Palette
	for _, test := range []struct {
		description  string
		buildUpdates func() util.PropertyUpdate
		wantUpdates  []util.PropertyUpdate
	}{{
		description: "define",
		buildUpdates: func() util.PropertyUpdate {
			return p.Define()
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringsProperty(paletteKey, "red", "#00ff00"),
		},
	}, {
		description: "series wrap around",
		buildUpdates: func() util.PropertyUpdate {
			return p.Series(2)
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringProperty(primaryColorKey, "red"),
		},
	}, {
		description: "nil palette colors nothing",
		buildUpdates: func() util.PropertyUpdate {
			return util.Chain(none.Define(), none.Series(0))
		},
	}, {
		description: "all defined",
		buildUpdates: func() util.PropertyUpdate {
			return util.Chain(
				p.Series(1),
				Secondary("silver"),
				Stroke("white"),
			)
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringProperty(primaryColorKey, "#00ff00"),
			util.StringProperty(secondaryColorKey, "silver"),
			util.StringProperty(strokeColorKey, "white"),
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			if msg, failed := testutil.NewUpdateComparator().
				WithTestUpdates(test.buildUpdates()).
				WithWantUpdates(test.wantUpdates...).
				Compare(t); failed {
				t.Fatal(msg)
			}
		})
	}
}
