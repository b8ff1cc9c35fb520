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

// Package table provides structural helpers for defining tables, such as the
// tabular view of a chart's data.  Given a dedicated tableRoot DataBuilder,
// which must not be used for any other purpose, a new Table may be created
// via
//
//	tab := table.New(tableRoot, columns...)
//
// and rows added via
//
//	tab.Row(table.StringCell(labelCol, "Q1"), table.DoubleCell(salesCol, 12))
//
// The structure of a table in a response, with each level representing a
// DataSeries or nested Datum, is:
//
//	table
//	  children:
//	    * header row
//	    * repeated rows
//
//	header row
//	  children
//	    * repeated column definition
//
//	column definition
//	  properties
//	    * category definition
//	    * <decorators>
//
//	row
//	  properties
//	    * <decorators>
//	  children
//	    * repeated cells
//
//	cell
//	  properties
//	    * column tag
//	    * cellKey: Value (cell contents)
//	    * <decorators>
//
// Cells are only emitted for the columns a row has values for, so a missing
// cell denotes an empty one.
package table

import (
	"github.com/gostafie/nextreports-engine/category"
	"github.com/gostafie/nextreports-engine/util"
)

const (
	cellKey = "table_cell"
)

// ColumnUpdate represents a table column.  It couples a category (specifying
// the column's unique ID, display name, and description) with arbitrary column
// properties.
type ColumnUpdate struct {
	cat        *category.Category
	properties []util.PropertyUpdate
}

// Column returns a new Column with the specified category and properties.
func Column(cat *category.Category, properties ...util.PropertyUpdate) *ColumnUpdate {
	properties = append(properties, cat.Define())
	return &ColumnUpdate{
		cat:        cat,
		properties: properties,
	}
}

// With annotates the receiving column with the provided properties.
func (cu *ColumnUpdate) With(properties ...util.PropertyUpdate) *ColumnUpdate {
	cu.properties = append(cu.properties, properties...)
	return cu
}

func (cu *ColumnUpdate) define() util.PropertyUpdate {
	return util.Chain(cu.properties...)
}

// CellUpdate is a PropertyUpdate specifically annotating a cell.
type CellUpdate util.PropertyUpdate

func cell(column *ColumnUpdate, value util.PropertyUpdate, cellUpdates []util.PropertyUpdate) CellUpdate {
	cellUpdates = append(cellUpdates,
		column.cat.Tag(),
		value,
	)
	return CellUpdate(util.Chain(cellUpdates...))
}

// StringCell returns a CellUpdate annotating a datum as a cell of the
// provided column holding the provided string.  Any specified
// PropertyUpdates are also applied.
func StringCell(column *ColumnUpdate, value string, cellUpdates ...util.PropertyUpdate) CellUpdate {
	return cell(column, util.StringProperty(cellKey, value), cellUpdates)
}

// DoubleCell returns a CellUpdate annotating a datum as a cell of the
// provided column holding the provided number.  Any specified
// PropertyUpdates are also applied.
func DoubleCell(column *ColumnUpdate, value float64, cellUpdates ...util.PropertyUpdate) CellUpdate {
	return cell(column, util.DoubleProperty(cellKey, value), cellUpdates)
}

// Node represents a table embedded in a response.
type Node struct {
	db util.DataBuilder
}

// With annotates the receiving table with the provided properties.
func (n *Node) With(properties ...util.PropertyUpdate) *Node {
	n.db.With(properties...)
	return n
}

// New defines a new table in the provided DataBuilder, with the specified
// columns.
func New(db util.DataBuilder, columns ...*ColumnUpdate) *Node {
	colGroup := db.Child()
	for _, column := range columns {
		colGroup.Child().With(column.define())
	}
	return &Node{
		db: db,
	}
}

// RowNode represents a row embedded in a response.
type RowNode struct {
	db util.DataBuilder
}

// Row adds a new child to the receiving table representing a new row, then
// adds the specified cells as children to that new row.
func (n *Node) Row(cells ...CellUpdate) *RowNode {
	db := n.db.Child()
	for _, cell := range cells {
		db.Child().With(util.PropertyUpdate(cell))
	}
	return &RowNode{
		db,
	}
}

// With annotates the receiving row with the provided properties.
func (rn *RowNode) With(properties ...util.PropertyUpdate) *RowNode {
	rn.db.With(properties...)
	return rn
}
