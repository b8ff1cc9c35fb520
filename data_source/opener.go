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

package datasource

import (
	"context"
	"database/sql"
	"errors"
	"io"

	chartspec "github.com/gostafie/nextreports-engine/chart_spec"
	"github.com/gostafie/nextreports-engine/cursor"
	sqlcursor "github.com/gostafie/nextreports-engine/sql_cursor"
	xlsxcursor "github.com/gostafie/nextreports-engine/xlsx_cursor"
)

// Rows is a cursor.Cursor that must be closed once consumed.
type Rows interface {
	cursor.Cursor
	io.Closer
}

// Opener describes types that can open the rows behind a chart definition.
// Opener implementations must support concurrent Open calls.
type Opener interface {
	Open(ctx context.Context, chart *chartspec.Chart) (Rows, error)
}

// SQLOpener opens charts' rows by running their queries against a database.
type SQLOpener struct {
	DB *sql.DB
}

// Open is part of the Opener interface.
func (so *SQLOpener) Open(ctx context.Context, chart *chartspec.Chart) (Rows, error) {
	if chart.Source.Query == "" {
		return nil, errors.New("chart has no query")
	}
	c, err := sqlcursor.Query(ctx, so.DB, chart.Source.Query)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// XLSXOpener opens charts' rows from the sheets of a workbook file.  Charts
// with no sheet read the workbook's first sheet.
type XLSXOpener struct {
	Path string
}

// Open is part of the Opener interface.
func (xo *XLSXOpener) Open(ctx context.Context, chart *chartspec.Chart) (Rows, error) {
	if chart.Source.Query != "" {
		return nil, errors.New("chart has a query, but the source is a workbook")
	}
	c, err := xlsxcursor.Open(xo.Path, chart.Source.Sheet)
	if err != nil {
		return nil, err
	}
	return c, nil
}
