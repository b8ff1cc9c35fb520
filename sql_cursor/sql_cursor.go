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

// Package sqlcursor provides a cursor.Cursor over database/sql query
// results.  Text columns returned as bytes are read as strings.
package sqlcursor

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gostafie/nextreports-engine/cursor"
)

// Cursor iterates the rows of one query.  It must be closed.
type Cursor struct {
	rows    *sql.Rows
	columns map[string]int
	vals    []any
	ptrs    []any
	hasRow  bool
	err     error
}

var _ cursor.Cursor = &Cursor{}

// Query runs the provided query and returns a Cursor over its results.
func Query(ctx context.Context, db *sql.DB, query string, args ...any) (*Cursor, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	c, err := New(rows)
	if err != nil {
		rows.Close()
		return nil, err
	}
	return c, nil
}

// New returns a Cursor over the provided rows, which it takes ownership of.
func New(rows *sql.Rows) (*Cursor, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}
	c := &Cursor{
		rows:    rows,
		columns: make(map[string]int, len(names)),
		vals:    make([]any, len(names)),
		ptrs:    make([]any, len(names)),
	}
	for idx, name := range names {
		c.columns[name] = idx
		c.ptrs[idx] = &c.vals[idx]
	}
	return c, nil
}

// ColumnCount is part of the cursor.Cursor interface.
func (c *Cursor) ColumnCount() int {
	return len(c.columns)
}

// HasNext is part of the cursor.Cursor interface.
func (c *Cursor) HasNext() bool {
	c.hasRow = false
	if c.err != nil || !c.rows.Next() {
		if c.err == nil {
			c.err = c.rows.Err()
		}
		return false
	}
	if err := c.rows.Scan(c.ptrs...); err != nil {
		c.err = fmt.Errorf("failed to scan row: %w", err)
		return false
	}
	c.hasRow = true
	return true
}

// NextValue is part of the cursor.Cursor interface.
func (c *Cursor) NextValue(column string) (any, error) {
	if !c.hasRow {
		return nil, fmt.Errorf("no current row")
	}
	idx, ok := c.columns[column]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", column)
	}
	if b, ok := c.vals[idx].([]byte); ok {
		return string(b), nil
	}
	return c.vals[idx], nil
}

// Err is part of the cursor.Cursor interface.
func (c *Cursor) Err() error {
	return c.err
}

// Close releases the receiver's rows.
func (c *Cursor) Close() error {
	return c.rows.Close()
}
