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

// Package aggregation provides the grouping reducers applied to each chart
// series.  A Function accumulates the values of one series across the rows of
// a group:
//
//	fn := New(Sum)
//	fn.Compute(3)
//	fn.Compute(4)
//	total := fn.Value() // 7
//	fn.Reset()
//
// NOOP is special: it denotes ungrouped passthrough, one chart point per row,
// and its Function simply reports the last value computed.
//
// Values are coerced as follows: numbers are used as-is; nil is skipped; any
// other value counts as 1.
package aggregation

import (
	"fmt"
	"strings"
	"time"

	"github.com/gostafie/nextreports-engine/cursor"
)

// Kind enumerates the supported aggregation functions.
type Kind int

// Supported aggregation functions.
const (
	Noop Kind = iota
	Sum
	Avg
	Min
	Max
	Count
	CountDistinct
)

var kindNames = map[Kind]string{
	Noop:          "NOOP",
	Sum:           "SUM",
	Avg:           "AVG",
	Min:           "MIN",
	Max:           "MAX",
	Count:         "COUNT",
	CountDistinct: "COUNT_DISTINCT",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Grouping reports whether the receiver groups consecutive rows.
func (k Kind) Grouping() bool {
	return k != Noop
}

// Parse returns the Kind with the provided name, matched case-insensitively.
// An empty name is NOOP.
func Parse(name string) (Kind, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return Noop, nil
	}
	for k, kn := range kindNames {
		if kn == name {
			return k, nil
		}
	}
	return Noop, fmt.Errorf("unknown aggregation function '%s'", name)
}

// MarshalText encodes the receiver as its name.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown aggregation kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a Kind from its name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Function is a stateful accumulator over the values of one group.
type Function interface {
	// Kind returns the Function's kind.
	Kind() Kind
	// Reset discards all accumulated state.
	Reset()
	// Compute folds the provided value into the accumulated state.
	Compute(v any)
	// Value returns the aggregate of the values computed since the last
	// Reset.  Functions with no defined aggregate for an empty group return 0.
	Value() float64
}

// New returns a new Function of the specified kind.
func New(kind Kind) Function {
	switch kind {
	case Sum:
		return &sumFn{}
	case Avg:
		return &avgFn{}
	case Min:
		return &extremumFn{kind: Min, better: func(a, b float64) bool { return a < b }}
	case Max:
		return &extremumFn{kind: Max, better: func(a, b float64) bool { return a > b }}
	case Count:
		return &countFn{}
	case CountDistinct:
		return &countDistinctFn{seen: map[any]struct{}{}}
	default:
		return &noopFn{}
	}
}

// Coerce returns the numeric value of v for charting.  ok is false when v is
// neither a number nor nil; such values count as 1.
func Coerce(v any) (val float64, ok bool) {
	if v == nil {
		return 0, true
	}
	if n, isNum := cursor.Numeric(v); isNum {
		return n, true
	}
	return 1, false
}

type noopFn struct {
	last float64
}

func (f *noopFn) Kind() Kind { return Noop }
func (f *noopFn) Reset()     { f.last = 0 }

func (f *noopFn) Compute(v any) {
	f.last, _ = Coerce(v)
}

func (f *noopFn) Value() float64 { return f.last }

type sumFn struct {
	total float64
}

func (f *sumFn) Kind() Kind { return Sum }
func (f *sumFn) Reset()     { f.total = 0 }

func (f *sumFn) Compute(v any) {
	if v == nil {
		return
	}
	n, _ := Coerce(v)
	f.total += n
}

func (f *sumFn) Value() float64 { return f.total }

type avgFn struct {
	total float64
	n     int
}

func (f *avgFn) Kind() Kind { return Avg }

func (f *avgFn) Reset() {
	f.total, f.n = 0, 0
}

func (f *avgFn) Compute(v any) {
	if v == nil {
		return
	}
	n, _ := Coerce(v)
	f.total += n
	f.n++
}

func (f *avgFn) Value() float64 {
	if f.n == 0 {
		return 0
	}
	return f.total / float64(f.n)
}

// extremumFn tracks the minimum or maximum value; has distinguishes an empty
// group from one whose extremum is 0.
type extremumFn struct {
	kind   Kind
	better func(a, b float64) bool
	val    float64
	has    bool
}

func (f *extremumFn) Kind() Kind { return f.kind }

func (f *extremumFn) Reset() {
	f.val, f.has = 0, false
}

func (f *extremumFn) Compute(v any) {
	if v == nil {
		return
	}
	n, _ := Coerce(v)
	if !f.has || f.better(n, f.val) {
		f.val, f.has = n, true
	}
}

func (f *extremumFn) Value() float64 { return f.val }

type countFn struct {
	n int
}

func (f *countFn) Kind() Kind { return Count }
func (f *countFn) Reset()     { f.n = 0 }

func (f *countFn) Compute(v any) {
	if v != nil {
		f.n++
	}
}

func (f *countFn) Value() float64 { return float64(f.n) }

type countDistinctFn struct {
	seen map[any]struct{}
}

func (f *countDistinctFn) Kind() Kind { return CountDistinct }

func (f *countDistinctFn) Reset() {
	f.seen = map[any]struct{}{}
}

func (f *countDistinctFn) Compute(v any) {
	if v == nil {
		return
	}
	f.seen[distinctKey(v)] = struct{}{}
}

func (f *countDistinctFn) Value() float64 { return float64(len(f.seen)) }

// distinctKey maps v to a comparable key under which cursor.Equal values
// collide.
func distinctKey(v any) any {
	if n, ok := cursor.Numeric(v); ok {
		return n
	}
	switch tv := v.(type) {
	case time.Time:
		return tv.UTC()
	case []byte:
		return string(tv)
	case string:
		return tv
	case fmt.Stringer:
		return tv.String()
	}
	return fmt.Sprintf("%T:%v", v, v)
}
