package table

import (
	"github.com/beevik/etree"

	"rtable/model"
)

// Rect is an inclusive rectangle of logical grid positions.
type Rect struct {
	FirstRow    int
	FirstColumn int
	LastRow     int
	LastColumn  int
}

func (r Rect) Height() int {
	return r.LastRow - r.FirstRow + 1
}

func (r Rect) Width() int {
	return r.LastColumn - r.FirstColumn + 1
}

func (r Rect) rows() Indexes {
	return Indexes{First: r.FirstRow, Last: r.LastRow}
}

func (r Rect) columns() Indexes {
	return Indexes{First: r.FirstColumn, Last: r.LastColumn}
}

// VerticallyOverlappingCells returns anchors of cells starting at or after
// startRow, above row, whose span reaches into row.
func VerticallyOverlappingCells(table *etree.Element, row, startRow int) []Slot {
	if row <= startRow {
		return nil
	}
	var out []Slot
	for s := range newWalker(table, WithStartRow(startRow), WithEndRow(row-1)).All() {
		if s.Row < row && row <= s.Row+s.CellHeight()-1 {
			out = append(out, s)
		}
	}
	return out
}

// HorizontallyOverlappingCells returns anchors of cells starting left of
// column whose span reaches into it.
func HorizontallyOverlappingCells(table *etree.Element, column int) []Slot {
	var out []Slot
	for s := range newWalker(table).All() {
		if s.Column < column && column <= s.Column+s.CellWidth()-1 {
			out = append(out, s)
		}
	}
	return out
}

// SplitHorizontally cuts cell at splitRow. The bottom part is a copy of the
// cell placed into splitRow and is returned, nil is returned when the cell
// does not cross splitRow.
func SplitHorizontally(w *model.Writer, cell *etree.Element, splitRow int) *etree.Element {
	table := tableOf(cell)
	if table == nil {
		return nil
	}
	cellRow := rowIndexOf(cell.Parent())
	rowspan := model.RowSpan(cell)
	top := splitRow - cellRow
	if top < 1 || top >= rowspan {
		return nil
	}

	var target *Slot
	column := -1
	slots := newWalker(table, WithStartRow(cellRow), WithEndRow(splitRow), WithAllSlots()).Slots()
	for i, s := range slots {
		if s.Cell == cell && column < 0 {
			column = s.Column
		}
		if column >= 0 && s.Row == splitRow && s.Column == column {
			target = &slots[i]
			break
		}
	}
	if target == nil {
		return nil
	}

	bottom := w.Clone(cell)
	model.UpdateNumericAttribute(w, model.AttrRowspan, rowspan-top, bottom, 1)
	w.Insert(bottom, target.PositionBefore(0))
	model.UpdateNumericAttribute(w, model.AttrRowspan, top, cell, 1)
	return bottom
}

// SplitVertically cuts cell anchored at column at splitColumn. The right part
// is a copy of the cell placed after it and is returned, nil is returned when
// the cell does not cross splitColumn.
func SplitVertically(w *model.Writer, cell *etree.Element, column, splitColumn int) *etree.Element {
	colspan := model.ColSpan(cell)
	left := splitColumn - column
	if left < 1 || left >= colspan {
		return nil
	}
	right := w.Clone(cell)
	model.UpdateNumericAttribute(w, model.AttrColspan, colspan-left, right, 1)
	w.Insert(right, model.PositionAfter(cell))
	model.UpdateNumericAttribute(w, model.AttrColspan, left, cell, 1)
	return right
}

// TrimTableCellIfNeeded shortens spans of the cell anchored at row, column so
// it ends at lastRow, lastColumn at most.
func TrimTableCellIfNeeded(w *model.Writer, cell *etree.Element, row, column, lastRow, lastColumn int) {
	if colspan := model.ColSpan(cell); column+colspan-1 > lastColumn {
		model.UpdateNumericAttribute(w, model.AttrColspan, max(lastColumn-column+1, 1), cell, 1)
	}
	if rowspan := model.RowSpan(cell); row+rowspan-1 > lastRow {
		model.UpdateNumericAttribute(w, model.AttrRowspan, max(lastRow-row+1, 1), cell, 1)
	}
}

func isAffectedBySelection(index, span int, limit Indexes) bool {
	end := index + span - 1
	inside := index >= limit.First && index <= limit.Last
	overlapsFromOutside := index < limit.First && end >= limit.First
	return inside || overlapsFromOutside
}

// doHorizontalSplit splits cells crossing splitRow whose columns intersect
// limit. Created cells are returned.
func doHorizontalSplit(w *model.Writer, table *etree.Element, splitRow int, limit Indexes, startRow int) []*etree.Element {
	if splitRow < 1 {
		return nil
	}
	var out []*etree.Element
	for _, s := range VerticallyOverlappingCells(table, splitRow, startRow) {
		if !isAffectedBySelection(s.Column, s.CellWidth(), limit) {
			continue
		}
		if c := SplitHorizontally(w, s.Cell, splitRow); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// doVerticalSplit splits cells crossing splitColumn whose rows intersect limit.
// Created cells are returned.
func doVerticalSplit(w *model.Writer, table *etree.Element, splitColumn int, limit Indexes) []*etree.Element {
	if splitColumn < 1 {
		return nil
	}
	var out []*etree.Element
	for _, s := range HorizontallyOverlappingCells(table, splitColumn) {
		if !isAffectedBySelection(s.Row, s.CellHeight(), limit) {
			continue
		}
		if c := SplitVertically(w, s.Cell, s.Column, splitColumn); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// SplitCellsToRectangle splits every cell crossing the rectangle border so the
// rectangle is covered by whole cells only.
func SplitCellsToRectangle(w *model.Writer, table *etree.Element, r Rect) {
	doVerticalSplit(w, table, r.FirstColumn, r.rows())
	doVerticalSplit(w, table, r.LastColumn+1, r.rows())
	doHorizontalSplit(w, table, r.FirstRow, r.columns(), 0)
	doHorizontalSplit(w, table, r.LastRow+1, r.columns(), r.FirstRow)
}

// CropTableToDimensions returns detached table holding the rectangle of the
// source table. Source is not modified, cells crossing the rectangle border
// are cut.
func CropTableToDimensions(w *model.Writer, source *etree.Element, r Rect) *etree.Element {
	work := w.Clone(source)
	SplitCellsToRectangle(w, work, r)

	cropped := w.CreateElement(model.TableName)
	rows := make([]*etree.Element, r.Height())
	for i := range rows {
		rows[i] = w.InsertElement(model.RowName, cropped)
	}

	walker := newWalker(work,
		WithStartRow(r.FirstRow), WithEndRow(r.LastRow),
		WithStartColumn(r.FirstColumn), WithEndColumn(r.LastColumn),
		WithAllSlots())
	for s := range walker.All() {
		row := rows[s.Row-r.FirstRow]
		if s.IsAnchor() {
			c := w.Clone(s.Cell)
			w.Append(c, row)
			TrimTableCellIfNeeded(w, c, s.Row, s.Column, r.LastRow, r.LastColumn)
			continue
		}
		if s.CellAnchorRow < r.FirstRow || s.CellAnchorColumn < r.FirstColumn {
			createEmptyTableCell(w, model.PositionAtEnd(row))
		}
	}

	if h := model.HeadingRows(source); h > 0 {
		model.UpdateNumericAttribute(w, model.AttrHeadingRows, clamp(h-r.FirstRow, 0, r.Height()), cropped, 0)
	}
	if h := model.HeadingColumns(source); h > 0 {
		model.UpdateNumericAttribute(w, model.AttrHeadingColumns, clamp(h-r.FirstColumn, 0, r.Width()), cropped, 0)
	}
	if widths := ColumnWidths(source); len(widths) > 0 && r.LastColumn < len(widths) {
		SetColumnWidths(w, cropped, NormalizeColumnWidths(widths[r.FirstColumn:r.LastColumn+1]))
	}
	return cropped
}

// AdjustLastRowIndex returns the last row actually covered by cells anchored
// in the rectangle.
func AdjustLastRowIndex(table *etree.Element, r Rect) int {
	last := r.LastRow
	walker := newWalker(table,
		WithStartRow(r.FirstRow), WithEndRow(r.LastRow),
		WithStartColumn(r.FirstColumn), WithEndColumn(r.LastColumn))
	for s := range walker.All() {
		last = max(last, s.Row+s.CellHeight()-1)
	}
	return last
}

// AdjustLastColumnIndex returns the last column actually covered by cells
// anchored in the rectangle.
func AdjustLastColumnIndex(table *etree.Element, r Rect) int {
	last := r.LastColumn
	walker := newWalker(table,
		WithStartRow(r.FirstRow), WithEndRow(r.LastRow),
		WithStartColumn(r.FirstColumn), WithEndColumn(r.LastColumn))
	for s := range walker.All() {
		last = max(last, s.Column+s.CellWidth()-1)
	}
	return last
}

// RemoveEmptyColumns removes the last column no cell is anchored in, it
// reports whether anything was removed. Removal cascades, so all such columns
// (and rows emptied by it) go away.
func RemoveEmptyColumns(w *model.Writer, table *etree.Element) bool {
	columns := Columns(table)
	if columns == 0 {
		return false
	}
	anchored := make([]int, columns)
	for s := range newWalker(table).All() {
		anchored[s.Column]++
	}
	for c := columns - 1; c >= 0; c-- {
		if anchored[c] == 0 {
			removeColumns(w, table, c, c)
			return true
		}
	}
	return false
}

// RemoveEmptyRows removes the last row without cells, it reports whether
// anything was removed. Removal cascades like in RemoveEmptyColumns.
func RemoveEmptyRows(w *model.Writer, table *etree.Element) bool {
	rows := rowElements(table)
	for r := len(rows) - 1; r >= 0; r-- {
		if len(model.ChildrenNamed(rows[r], model.CellName)) == 0 {
			removeRows(w, table, r, r)
			return true
		}
	}
	return false
}

// RemoveEmptyRowsColumns removes empty columns, or empty rows when there were
// no empty columns.
func RemoveEmptyRowsColumns(w *model.Writer, table *etree.Element) {
	if !RemoveEmptyColumns(w, table) {
		RemoveEmptyRows(w, table)
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
