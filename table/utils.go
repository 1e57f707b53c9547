package table

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/beevik/etree"

	"rtable/model"
)

// Location is a logical grid position.
type Location struct {
	Row    int
	Column int
}

// Indexes is an inclusive index range.
type Indexes struct {
	First int
	Last  int
}

// Rows returns the number of rows of the table.
func Rows(table *etree.Element) int {
	return len(rowElements(table))
}

// Columns returns the width of the widest row, incoming spans included.
func Columns(table *etree.Element) int {
	columns := 0
	for s := range newWalker(table).All() {
		columns = max(columns, s.Column+s.CellWidth())
	}
	return columns
}

func rowElements(table *etree.Element) []*etree.Element {
	return model.ChildrenNamed(table, model.RowName)
}

func rowAt(table *etree.Element, row int) *etree.Element {
	rows := rowElements(table)
	if row < 0 || row >= len(rows) {
		return nil
	}
	return rows[row]
}

// rowIndexOf returns logical index of the row element.
func rowIndexOf(rowEl *etree.Element) int {
	return slices.Index(rowElements(rowEl.Parent()), rowEl)
}

// tableOf returns the table the cell is directly part of.
func tableOf(cell *etree.Element) *etree.Element {
	if !model.Is(cell, model.CellName) {
		return nil
	}
	row := cell.Parent()
	if !model.Is(row, model.RowName) {
		return nil
	}
	if table := row.Parent(); model.Is(table, model.TableName) {
		return table
	}
	return nil
}

// rowInsertPosition returns position where a row with logical index at should
// be inserted.
func rowInsertPosition(table *etree.Element, at int) model.Position {
	rows := rowElements(table)
	switch {
	case at < len(rows):
		return model.PositionBefore(rows[at])
	case len(rows) > 0:
		return model.PositionAfter(rows[len(rows)-1])
	}
	return model.PositionAt(table, 0)
}

// CellLocation returns location of the cell anchor.
func CellLocation(cell *etree.Element) (Location, error) {
	table := tableOf(cell)
	if table == nil {
		return Location{}, fmt.Errorf("%w: %s", ErrNotInTable, describe(cell))
	}
	row := rowIndexOf(cell.Parent())
	for s := range newWalker(table, WithRow(row)).All() {
		if s.Cell == cell {
			return Location{Row: s.Row, Column: s.Column}, nil
		}
	}
	return Location{}, fmt.Errorf("%w: cell not found in row %d", ErrNotInTable, row)
}

func mustLocation(cell *etree.Element) Location {
	loc, err := CellLocation(cell)
	if err != nil {
		panic(err)
	}
	return loc
}

// RowIndexes returns first and last anchor rows of the cells.
func RowIndexes(cells []*etree.Element) Indexes {
	idx := make([]int, 0, len(cells))
	for _, c := range cells {
		idx = append(idx, rowIndexOf(c.Parent()))
	}
	return firstLast(idx)
}

// ColumnIndexes returns first and last anchor columns of the cells.
func ColumnIndexes(cells []*etree.Element) Indexes {
	if len(cells) == 0 {
		return Indexes{}
	}
	set := make(map[*etree.Element]struct{}, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	var idx []int
	for s := range newWalker(tableOf(cells[0])).All() {
		if _, ok := set[s.Cell]; ok {
			idx = append(idx, s.Column)
		}
	}
	return firstLast(idx)
}

func firstLast(idx []int) Indexes {
	if len(idx) == 0 {
		return Indexes{}
	}
	return Indexes{First: slices.Min(idx), Last: slices.Max(idx)}
}

// IsSelectionRectangular reports whether cell footprints exactly cover their
// bounding rectangle. A single cell is rectangular.
func IsSelectionRectangular(cells []*etree.Element) bool {
	switch len(cells) {
	case 0:
		return false
	case 1:
		return true
	}
	table := tableOf(cells[0])
	if table == nil {
		return false
	}
	locations := make(map[*etree.Element]Location, len(cells))
	for s := range newWalker(table).All() {
		locations[s.Cell] = Location{Row: s.Row, Column: s.Column}
	}
	var (
		area          int
		rows, columns []int
		seen          = make(map[*etree.Element]struct{}, len(cells))
	)
	for _, c := range cells {
		loc, ok := locations[c]
		if !ok {
			return false
		}
		if _, dup := seen[c]; dup {
			return false
		}
		seen[c] = struct{}{}
		rowspan, colspan := model.RowSpan(c), model.ColSpan(c)
		rows = append(rows, loc.Row, loc.Row+rowspan-1)
		columns = append(columns, loc.Column, loc.Column+colspan-1)
		area += rowspan * colspan
	}
	bounding := (slices.Max(rows) - slices.Min(rows) + 1) * (slices.Max(columns) - slices.Min(columns) + 1)
	return bounding == area
}

// AreCellsInSameSection reports whether cells are all in heading or all in
// body part of the table, for both rows and columns.
func AreCellsInSameSection(cells []*etree.Element) bool {
	if len(cells) == 0 {
		return true
	}
	table := tableOf(cells[0])
	if table == nil {
		return false
	}
	sameSection := func(idx Indexes, heading int) bool {
		return (idx.First < heading) == (idx.Last < heading)
	}
	return sameSection(RowIndexes(cells), model.HeadingRows(table)) &&
		sameSection(ColumnIndexes(cells), model.HeadingColumns(table))
}

// SortRanges orders ranges by their start in document order.
func SortRanges(ranges []model.Range) []model.Range {
	out := slices.Clone(ranges)
	slices.SortStableFunc(out, func(a, b model.Range) int {
		return a.Start.Compare(b.Start)
	})
	return out
}

// SelectedTableCells returns cells selected as whole elements, in document
// order.
func SelectedTableCells(sel model.Selection) []*etree.Element {
	var cells []*etree.Element
	for _, r := range SortRanges(sel.Ranges()) {
		if el := r.ContainedElement(); model.Is(el, model.CellName) {
			cells = append(cells, el)
		}
	}
	return cells
}

// TableCellsContainingSelection returns cells the selection ranges start in.
func TableCellsContainingSelection(sel model.Selection) []*etree.Element {
	var cells []*etree.Element
	for _, r := range sel.Ranges() {
		if cell := r.Start.FindAncestor(model.CellName); cell != nil {
			cells = append(cells, cell)
		}
	}
	return cells
}

// SelectionAffectedTableCells returns selected cells or, if there are none,
// the cells containing selection.
func SelectionAffectedTableCells(sel model.Selection) []*etree.Element {
	if cells := SelectedTableCells(sel); len(cells) > 0 {
		return cells
	}
	return TableCellsContainingSelection(sel)
}

func sortCells(cells []*etree.Element) []*etree.Element {
	out := slices.Clone(cells)
	slices.SortStableFunc(out, func(a, b *etree.Element) int {
		return model.PositionBefore(a).Compare(model.PositionBefore(b))
	})
	return out
}

// CreateOptions describes a new table.
type CreateOptions struct {
	Rows           int
	Columns        int
	HeadingRows    int
	HeadingColumns int
}

// CreateTable returns detached table filled with empty cells. Missing
// dimensions default to 2.
func CreateTable(w *model.Writer, opts CreateOptions) *etree.Element {
	rows, columns := opts.Rows, opts.Columns
	if rows < 1 {
		rows = 2
	}
	if columns < 1 {
		columns = 2
	}
	table := w.CreateElement(model.TableName)
	createEmptyRows(w, table, 0, rows, columns)
	if opts.HeadingRows > 0 {
		model.UpdateNumericAttribute(w, model.AttrHeadingRows, min(opts.HeadingRows, rows), table, 0)
	}
	if opts.HeadingColumns > 0 {
		model.UpdateNumericAttribute(w, model.AttrHeadingColumns, min(opts.HeadingColumns, columns), table, 0)
	}
	return table
}

func createEmptyRows(w *model.Writer, table *etree.Element, at, rows, cells int, kv ...string) {
	for range rows {
		row := w.CreateElement(model.RowName)
		w.Insert(row, rowInsertPosition(table, at))
		createCells(w, cells, model.PositionAtEnd(row), kv...)
	}
}

func createCells(w *model.Writer, count int, pos model.Position, kv ...string) {
	for range count {
		cell := createEmptyTableCell(w, pos, kv...)
		pos = model.PositionAfter(cell)
	}
}

func createEmptyTableCell(w *model.Writer, pos model.Position, kv ...string) *etree.Element {
	cell := w.CreateElement(model.CellName, kv...)
	cell.AddChild(w.CreateElement(model.ParagraphName))
	w.Insert(cell, pos)
	return cell
}

func spanAttrs(rowspan, colspan int) []string {
	var kv []string
	if rowspan > 1 {
		kv = append(kv, model.AttrRowspan, strconv.Itoa(rowspan))
	}
	if colspan > 1 {
		kv = append(kv, model.AttrColspan, strconv.Itoa(colspan))
	}
	return kv
}
