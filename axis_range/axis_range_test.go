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

package axisrange

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestExtent(t *testing.T) {
	for _, test := range []struct {
		description string
		values      []float64
		want        Range
		wantOK      bool
	}{{
		description: "empty",
	}, {
		description: "single value",
		values:      []float64{3},
		want:        Range{3, 3},
		wantOK:      true,
	}, {
		description: "all negative",
		values:      []float64{-5, -2, -9},
		want:        Range{-9, -2},
		wantOK:      true,
	}, {
		description: "mixed",
		values:      []float64{4, -1, 10, 0},
		want:        Range{-1, 10},
		wantOK:      true,
	}, {
		description: "NaN ignored",
		values:      []float64{math.NaN(), 2, math.NaN()},
		want:        Range{2, 2},
		wantOK:      true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			var e Extent
			e.Add(test.values...)
			got, ok := e.Bounds()
			if ok != test.wantOK {
				t.Fatalf("Bounds() ok = %t, want %t", ok, test.wantOK)
			}
			if e.Empty() == ok {
				t.Errorf("Empty() = %t with Bounds() ok = %t", e.Empty(), ok)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Bounds() = %v, diff (-want +got) %s", got, diff)
			}
		})
	}
}

func TestCalculatorRange(t *testing.T) {
	for _, test := range []struct {
		description string
		padding     float64
		data        Range
		want        Range
	}{{
		description: "positive keeps zero baseline",
		padding:     0.5,
		data:        Range{1, 7},
		want:        Range{0, 10},
	}, {
		description: "zero minimum is padded",
		padding:     0.1,
		data:        Range{0, 10},
		want:        Range{-1, 11},
	}, {
		description: "zero maximum is padded",
		padding:     0.1,
		data:        Range{-7, 0},
		want:        Range{-7.7, 0.7},
	}, {
		description: "positive away from zero",
		padding:     0.1,
		data:        Range{10, 20},
		want:        Range{9, 21},
	}, {
		description: "crossing zero",
		padding:     0.1,
		data:        Range{-10, 10},
		want:        Range{-12, 12},
	}, {
		description: "all negative",
		padding:     0.1,
		data:        Range{-9, -2},
		want:        Range{-9.7, -1.3},
	}, {
		description: "all negative near zero",
		padding:     0.5,
		data:        Range{-4, -1},
		want:        Range{-5.5, 0},
	}, {
		description: "swapped bounds",
		padding:     0.1,
		data:        Range{20, 10},
		want:        Range{9, 21},
	}, {
		description: "no padding",
		padding:     0,
		data:        Range{1, 2},
		want:        Range{1, 2},
	}, {
		description: "flat positive",
		padding:     0.1,
		data:        Range{5, 5},
		want:        Range{4.5, 5.5},
	}, {
		description: "flat negative",
		padding:     0.2,
		data:        Range{-5, -5},
		want:        Range{-6, -4},
	}, {
		description: "flat with no padding",
		padding:     0,
		data:        Range{10, 10},
		want:        Range{9, 11},
	}, {
		description: "flat zero",
		padding:     0.1,
		data:        Range{0, 0},
		want:        Range{-1, 1},
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := NewCalculator(test.padding).Range(test.data)
			if diff := cmp.Diff(test.want, got, approx); diff != "" {
				t.Errorf("Range(%v) = %v, diff (-want +got) %s", test.data, got, diff)
			}
			if got.Span() <= 0 {
				t.Errorf("Range(%v) = %v is degenerate", test.data, got)
			}
		})
	}
}

func TestNewCalculatorDefault(t *testing.T) {
	if got := NewCalculator(-1).Padding; got != DefaultPadding {
		t.Errorf("NewCalculator(-1).Padding = %v, want %v", got, DefaultPadding)
	}
}
