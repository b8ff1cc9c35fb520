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

// Package cursor defines the forward-only query result source consumed by
// chart builders, along with the value semantics shared by everything that
// reads from it.
//
// A Cursor is single-pass: HasNext advances to the next row, after which the
// values of that row's columns may be read, in any order, with NextValue.
// Columns of a row must be read before advancing again.  There is no rewind.
//
//	for c.HasNext() {
//	  x, err := c.NextValue("month")
//	  ...
//	}
//	if err := c.Err(); err != nil {
//	  ...
//	}
//
// Builders that need to see one row ahead wrap a Cursor in a Peeker.
package cursor

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when a query result has no columns or no rows.
var ErrNoData = errors.New("no data found")

// QueryError reports a failure reading or interpreting a query result.
type QueryError struct {
	Column string
	Op     string // "read", "format", "advance"
	Err    error
}

func (e *QueryError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("query error (%s): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("query error (%s) on column %q: %v", e.Op, e.Column, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(column, op string, err error) *QueryError {
	return &QueryError{
		Column: column,
		Op:     op,
		Err:    err,
	}
}

// Cursor is a forward-only, single-pass source of named row values.
type Cursor interface {
	// ColumnCount returns the number of columns in the result.
	ColumnCount() int
	// HasNext advances to the next row, returning false once the result is
	// exhausted or iteration failed; in the latter case Err is non-nil.
	HasNext() bool
	// NextValue returns the value of the named column in the current row.  A
	// nil return denotes a null value.
	NextValue(column string) (any, error)
	// Err returns any error encountered while advancing.
	Err() error
}

// SliceCursor is a Cursor over in-memory rows.
type SliceCursor struct {
	columns map[string]int
	rows    [][]any
	// The index of the current row; -1 before the first HasNext.
	row int
}

var _ Cursor = &SliceCursor{}

// NewSliceCursor returns a SliceCursor over the provided rows, whose values
// are ordered as the provided columns.
func NewSliceCursor(columns []string, rows ...[]any) *SliceCursor {
	colIdxs := make(map[string]int, len(columns))
	for idx, col := range columns {
		colIdxs[col] = idx
	}
	return &SliceCursor{
		columns: colIdxs,
		rows:    rows,
		row:     -1,
	}
}

// ColumnCount is part of the Cursor interface.
func (sc *SliceCursor) ColumnCount() int {
	return len(sc.columns)
}

// HasNext is part of the Cursor interface.
func (sc *SliceCursor) HasNext() bool {
	if sc.row+1 >= len(sc.rows) {
		sc.row = len(sc.rows)
		return false
	}
	sc.row++
	return true
}

// NextValue is part of the Cursor interface.
func (sc *SliceCursor) NextValue(column string) (any, error) {
	if sc.row < 0 || sc.row >= len(sc.rows) {
		return nil, fmt.Errorf("no current row")
	}
	idx, ok := sc.columns[column]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", column)
	}
	row := sc.rows[sc.row]
	if idx >= len(row) {
		return nil, nil
	}
	return row[idx], nil
}

// Err is part of the Cursor interface.
func (sc *SliceCursor) Err() error {
	return nil
}
