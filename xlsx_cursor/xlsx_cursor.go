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

// Package xlsxcursor provides a cursor.Cursor over the rows of a worksheet.
// The sheet's first row holds the column names.  Empty cells read as nil,
// cells that parse as numbers read as float64, and all others read as
// strings.
package xlsxcursor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gostafie/nextreports-engine/cursor"
)

// Cursor streams the rows of one worksheet.  It must be closed.
type Cursor struct {
	file    *excelize.File
	ownFile bool
	rows    *excelize.Rows
	columns map[string]int
	current []string
	hasRow  bool
	err     error
}

var _ cursor.Cursor = &Cursor{}

// Open opens the workbook at the provided path and returns a Cursor over the
// named sheet, or over the first sheet if sheet is empty.
func Open(path, sheet string) (*Cursor, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook '%s': %w", path, err)
	}
	c, err := New(f, sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	c.ownFile = true
	return c, nil
}

// New returns a Cursor over the named sheet of the provided workbook, or over
// its first sheet if sheet is empty.  The workbook remains owned by the
// caller.
func New(f *excelize.File, sheet string) (*Cursor, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheet, err)
	}
	c := &Cursor{
		file:    f,
		rows:    rows,
		columns: map[string]int{},
	}
	if rows.Next() {
		header, err := rows.Columns()
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to read header of sheet '%s': %w", sheet, err)
		}
		for idx, name := range header {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := c.columns[name]; !ok {
				c.columns[name] = idx
			}
		}
	}
	if err := rows.Error(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheet, err)
	}
	return c, nil
}

// ColumnCount is part of the cursor.Cursor interface.
func (c *Cursor) ColumnCount() int {
	return len(c.columns)
}

// HasNext is part of the cursor.Cursor interface.
func (c *Cursor) HasNext() bool {
	c.current, c.hasRow = nil, false
	if c.err != nil || len(c.columns) == 0 {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Error()
		return false
	}
	cells, err := c.rows.Columns()
	if err != nil {
		c.err = fmt.Errorf("failed to read row: %w", err)
		return false
	}
	// Rows omit trailing empty cells, and blank rows have none at all.
	c.current, c.hasRow = cells, true
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
	if idx >= len(c.current) {
		return nil, nil
	}
	return cellValue(c.current[idx]), nil
}

func cellValue(cell string) any {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
		return f
	}
	return cell
}

// Err is part of the cursor.Cursor interface.
func (c *Cursor) Err() error {
	return c.err
}

// Close releases the receiver's row iterator, and its workbook if it was
// opened by Open.
func (c *Cursor) Close() error {
	err := c.rows.Close()
	if c.ownFile {
		if ferr := c.file.Close(); err == nil {
			err = ferr
		}
	}
	return err
}
