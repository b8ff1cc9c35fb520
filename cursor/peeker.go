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

package cursor

// Row holds the values read from one cursor row.
type Row struct {
	values map[string]any
}

// Value returns the value of the specified column, or nil if that column was
// not read or was null.
func (r *Row) Value(column string) any {
	return r.values[column]
}

// Peeker buffers at most one row of a Cursor, so that callers can inspect the
// upcoming row before consuming it.  Each buffered row has the Peeker's
// columns read eagerly, honoring the Cursor's read-before-advance contract.
type Peeker struct {
	c       Cursor
	columns []string
	next    *Row
	done    bool
}

// NewPeeker returns a Peeker reading the specified columns from the provided
// Cursor.  Repeated columns are read once.
func NewPeeker(c Cursor, columns ...string) *Peeker {
	seen := make(map[string]struct{}, len(columns))
	cols := make([]string, 0, len(columns))
	for _, col := range columns {
		if _, ok := seen[col]; ok {
			continue
		}
		seen[col] = struct{}{}
		cols = append(cols, col)
	}
	return &Peeker{
		c:       c,
		columns: cols,
	}
}

// fill buffers the next row, if there is one and none is buffered yet.
func (p *Peeker) fill() error {
	if p.next != nil || p.done {
		return nil
	}
	if !p.c.HasNext() {
		p.done = true
		if err := p.c.Err(); err != nil {
			return NewQueryError("", "advance", err)
		}
		return nil
	}
	row := &Row{values: make(map[string]any, len(p.columns))}
	for _, col := range p.columns {
		val, err := p.c.NextValue(col)
		if err != nil {
			p.done = true
			return NewQueryError(col, "read", err)
		}
		row.values[col] = val
	}
	p.next = row
	return nil
}

// Peek returns the upcoming row without consuming it, or nil if the Cursor is
// exhausted.
func (p *Peeker) Peek() (*Row, error) {
	if err := p.fill(); err != nil {
		return nil, err
	}
	return p.next, nil
}

// Next consumes and returns the upcoming row, or nil if the Cursor is
// exhausted.
func (p *Peeker) Next() (*Row, error) {
	if err := p.fill(); err != nil {
		return nil, err
	}
	row := p.next
	p.next = nil
	return row, nil
}
