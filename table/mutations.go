package table

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"rtable/model"
)

// CopyStructure selects the row new rows borrow their cell layout from.
type CopyStructure int

const (
	// CopyNone creates rows of single cells, only spans crossing the
	// insertion point are extended.
	CopyNone CopyStructure = iota
	CopyFromAbove
	CopyFromBelow
)

type InsertRowsOptions struct {
	At        int
	Rows      int
	Structure CopyStructure
}

// InsertRows inserts rows at the given logical row index. Cells spanning over
// the insertion point grow instead of being split.
func InsertRows(w *model.Writer, table *etree.Element, opts InsertRowsOptions) error {
	at, count := opts.At, max(opts.Rows, 1)
	rows, columns := Rows(table), Columns(table)
	if at < 0 || at > rows {
		return fmt.Errorf("%w: cannot insert rows at %d, table has %d rows", ErrOutOfRange, at, rows)
	}

	if h := model.HeadingRows(table); h > at {
		model.UpdateNumericAttribute(w, model.AttrHeadingRows, h+count, table, 0)
	}

	isCopy := opts.Structure != CopyNone
	if !isCopy && (at == 0 || at == rows) {
		createEmptyRows(w, table, at, count, columns)
		return nil
	}

	copyFrom := at
	if opts.Structure == CopyFromAbove {
		copyFrom = at - 1
	}
	endRow := at
	if isCopy {
		endRow = max(at, copyFrom)
	}

	// positive entries produce a cell of that width, negative ones mark
	// columns covered by an extended span
	layout := make([]int, columns)
	for i := range layout {
		layout[i] = 1
	}
	for s := range newWalker(table, WithEndRow(endRow)).All() {
		lastRow := s.Row + s.CellHeight() - 1
		overlaps := s.Row < at && at <= lastRow
		reused := s.Row <= copyFrom && copyFrom <= lastRow
		switch {
		case overlaps:
			w.SetAttribute(model.AttrRowspan, strconv.Itoa(s.CellHeight()+count), s.Cell)
			layout[s.Column] = -s.CellWidth()
		case isCopy && reused:
			layout[s.Column] = s.CellWidth()
		}
	}

	for range count {
		row := w.CreateElement(model.RowName)
		w.Insert(row, rowInsertPosition(table, at))
		for c := 0; c < len(layout); c++ {
			span := layout[c]
			if span > 0 {
				createCells(w, 1, model.PositionAtEnd(row), spanAttrs(1, span)...)
			}
			c += abs(span) - 1
		}
	}
	return nil
}

type InsertColumnsOptions struct {
	At      int
	Columns int
}

// InsertColumns inserts columns at the given logical column index. Cells
// spanning over the insertion point grow instead of being split.
func InsertColumns(w *model.Writer, table *etree.Element, opts InsertColumnsOptions) error {
	at, count := opts.At, max(opts.Columns, 1)
	columns := Columns(table)
	if at < 0 || at > columns {
		return fmt.Errorf("%w: cannot insert columns at %d, table has %d columns", ErrOutOfRange, at, columns)
	}

	if h := model.HeadingColumns(table); at < h {
		model.UpdateNumericAttribute(w, model.AttrHeadingColumns, h+count, table, 0)
	}
	insertColumnWidths(w, table, at, count)

	if at == 0 || at == columns {
		for _, row := range rowElements(table) {
			pos := model.PositionAt(row, 0)
			if at != 0 {
				pos = model.PositionAtEnd(row)
			}
			createCells(w, count, pos)
		}
		return nil
	}

	walker := newWalker(table, WithColumn(at), WithAllSlots())
	for s := range walker.All() {
		if s.CellAnchorColumn < at {
			w.SetAttribute(model.AttrColspan, strconv.Itoa(s.CellWidth()+count), s.Cell)
			for r := s.Row; r <= s.CellAnchorRow+s.CellHeight()-1; r++ {
				walker.SkipRow(r)
			}
			continue
		}
		createCells(w, count, s.PositionBefore(0))
	}
	return nil
}

type RemoveRowsOptions struct {
	At   int
	Rows int
}

// RemoveRows removes rows. Cells anchored in removed rows which reach below
// them are moved into the first remaining row, cells reaching into removed rows
// from above are shortened.
func RemoveRows(w *model.Writer, table *etree.Element, opts RemoveRowsOptions) error {
	first := opts.At
	last := first + max(opts.Rows, 1) - 1
	if rows := Rows(table); first < 0 || last > rows-1 {
		return fmt.Errorf("%w: cannot remove rows %d-%d, table has %d rows", ErrOutOfRange, first, last, rows)
	}
	removeRows(w, table, first, last)
	return nil
}

type movedCell struct {
	cell    *etree.Element
	rowspan int
}

func removeRows(w *model.Writer, table *etree.Element, first, last int) {
	toMove := make(map[int]movedCell)
	var toTrim []movedCell
	for s := range newWalker(table, WithEndRow(last)).All() {
		lastRow := s.Row + s.CellHeight() - 1
		switch {
		case s.Row >= first && s.Row <= last && lastRow > last:
			toMove[s.Column] = movedCell{cell: s.Cell, rowspan: s.CellHeight() - (last - s.Row + 1)}
		case s.Row < first && lastRow >= first:
			overlap := min(lastRow, last) - first + 1
			toTrim = append(toTrim, movedCell{cell: s.Cell, rowspan: s.CellHeight() - overlap})
		}
	}

	if len(toMove) > 0 {
		moveCellsToRow(w, table, last+1, toMove)
	}

	rowEls := rowElements(table)
	for i := last; i >= first; i-- {
		w.Remove(rowEls[i])
	}
	for _, t := range toTrim {
		model.UpdateNumericAttribute(w, model.AttrRowspan, t.rowspan, t.cell, 1)
	}

	if h := model.HeadingRows(table); first < h {
		updated := first
		if last < h {
			updated = h - (last - first + 1)
		}
		model.UpdateNumericAttribute(w, model.AttrHeadingRows, updated, table, 0)
	}

	if !RemoveEmptyColumns(w, table) {
		RemoveEmptyRows(w, table)
	}
}

// moveCellsToRow places cells into the target row keeping their columns.
func moveCellsToRow(w *model.Writer, table *etree.Element, target int, cells map[int]movedCell) {
	rowEl := rowAt(table, target)
	var previous *etree.Element
	for _, s := range newWalker(table, WithRow(target), WithAllSlots()).Slots() {
		if m, ok := cells[s.Column]; ok {
			pos := model.PositionAt(rowEl, 0)
			if previous != nil {
				pos = model.PositionAfter(previous)
			}
			w.Move(m.cell, pos)
			model.UpdateNumericAttribute(w, model.AttrRowspan, m.rowspan, m.cell, 1)
			previous = m.cell
		} else if s.IsAnchor() {
			previous = s.Cell
		}
	}
}

type RemoveColumnsOptions struct {
	At      int
	Columns int
}

// RemoveColumns removes columns narrowing cells which span over them.
func RemoveColumns(w *model.Writer, table *etree.Element, opts RemoveColumnsOptions) error {
	first := opts.At
	last := first + max(opts.Columns, 1) - 1
	if columns := Columns(table); first < 0 || last > columns-1 {
		return fmt.Errorf("%w: cannot remove columns %d-%d, table has %d columns", ErrOutOfRange, first, last, columns)
	}
	removeColumns(w, table, first, last)
	return nil
}

func removeColumns(w *model.Writer, table *etree.Element, first, last int) {
	if h := model.HeadingColumns(table); first < h {
		removed := min(h-1, last) - first + 1
		model.UpdateNumericAttribute(w, model.AttrHeadingColumns, h-removed, table, 0)
	}
	removeColumnWidths(w, table, first, last)

	for removed := last; removed >= first; removed-- {
		for _, s := range newWalker(table).Slots() {
			width := s.CellWidth()
			switch {
			case width > 1 && s.Column <= removed && s.Column+width > removed:
				model.UpdateNumericAttribute(w, model.AttrColspan, width-1, s.Cell, 1)
			case s.Column == removed:
				w.Remove(s.Cell)
			}
		}
	}

	if !RemoveEmptyRows(w, table) {
		RemoveEmptyColumns(w, table)
	}
}

func breakSpanEvenly(span, parts int) (newSpan, updatedSpan int) {
	if span < parts {
		return 1, 1
	}
	newSpan = span / parts
	return newSpan, span - newSpan*parts + newSpan
}

// SplitCellVertically splits the cell into parts side by side. When the cell
// is narrower than parts, columns are added and cells of other rows crossing
// the cell column are widened.
func SplitCellVertically(w *model.Writer, cell *etree.Element, parts int) error {
	table := tableOf(cell)
	if table == nil {
		return fmt.Errorf("%w: %s", ErrNotInTable, describe(cell))
	}
	if parts < 1 {
		return fmt.Errorf("%w: cannot split cell into %d parts", ErrOutOfRange, parts)
	}
	loc, err := CellLocation(cell)
	if err != nil {
		return err
	}
	rowspan, colspan := model.RowSpan(cell), model.ColSpan(cell)

	if colspan > 1 {
		newSpan, updated := breakSpanEvenly(colspan, parts)
		model.UpdateNumericAttribute(w, model.AttrColspan, updated, cell, 1)
		createCells(w, min(parts, colspan)-1, model.PositionAfter(cell), spanAttrs(rowspan, newSpan)...)
	}

	if colspan < parts {
		toInsert := parts - colspan
		for _, s := range newWalker(table).Slots() {
			if s.Cell == cell {
				continue
			}
			if s.Column == loc.Column || (s.Column < loc.Column && s.Column+s.CellWidth() > loc.Column) {
				w.SetAttribute(model.AttrColspan, strconv.Itoa(s.CellWidth()+toInsert), s.Cell)
			}
		}
		createCells(w, toInsert, model.PositionAfter(cell), spanAttrs(rowspan, 1)...)
		if h := model.HeadingColumns(table); h > loc.Column {
			model.UpdateNumericAttribute(w, model.AttrHeadingColumns, h+toInsert, table, 0)
		}
		insertColumnWidths(w, table, loc.Column+1, toInsert)
	}
	return nil
}

// SplitCellHorizontally splits the cell into parts stacked vertically. When the
// cell is lower than parts, rows are added and cells crossing the cell row are
// extended.
func SplitCellHorizontally(w *model.Writer, cell *etree.Element, parts int) error {
	table := tableOf(cell)
	if table == nil {
		return fmt.Errorf("%w: %s", ErrNotInTable, describe(cell))
	}
	if parts < 1 {
		return fmt.Errorf("%w: cannot split cell into %d parts", ErrOutOfRange, parts)
	}
	loc, err := CellLocation(cell)
	if err != nil {
		return err
	}
	rowspan, colspan := model.RowSpan(cell), model.ColSpan(cell)

	if rowspan > 1 {
		slots := newWalker(table, WithStartRow(loc.Row), WithEndRow(loc.Row+rowspan-1), WithAllSlots()).Slots()
		newSpan, updated := breakSpanEvenly(rowspan, parts)
		model.UpdateNumericAttribute(w, model.AttrRowspan, updated, cell, 1)

		targets := make(map[int]struct{})
		for k := range min(parts, rowspan) - 1 {
			targets[loc.Row+updated+k*newSpan] = struct{}{}
		}
		kv := spanAttrs(newSpan, colspan)
		for _, s := range slots {
			if s.Column != loc.Column {
				continue
			}
			if _, ok := targets[s.Row]; ok {
				createCells(w, 1, s.PositionBefore(0), kv...)
			}
		}
	}

	if rowspan < parts {
		toInsert := parts - rowspan
		for _, s := range newWalker(table, WithEndRow(loc.Row)).Slots() {
			if s.Cell != cell && s.Row+s.CellHeight() > loc.Row {
				w.SetAttribute(model.AttrRowspan, strconv.Itoa(s.CellHeight()+toInsert), s.Cell)
			}
		}
		createEmptyRows(w, table, loc.Row+1, toInsert, 1, spanAttrs(1, colspan)...)
		if h := model.HeadingRows(table); h > loc.Row {
			model.UpdateNumericAttribute(w, model.AttrHeadingRows, h+toInsert, table, 0)
		}
	}
	return nil
}

// MergeCells merges rectangular set of cells into the top-left one, content of
// the other cells is appended to it. The merged cell is returned.
func MergeCells(w *model.Writer, cells []*etree.Element) (*etree.Element, error) {
	if len(cells) == 0 {
		return nil, ErrNoSelection
	}
	if !IsSelectionRectangular(cells) {
		return nil, ErrNotRectangular
	}
	sorted := sortCells(cells)
	first := sorted[0]
	table := tableOf(first)

	origin, err := CellLocation(first)
	if err != nil {
		return nil, err
	}
	lastRow, lastColumn := 0, 0
	for _, c := range sorted {
		loc, err := CellLocation(c)
		if err != nil {
			return nil, err
		}
		lastRow = max(lastRow, loc.Row+model.RowSpan(c))
		lastColumn = max(lastColumn, loc.Column+model.ColSpan(c))
	}
	model.UpdateNumericAttribute(w, model.AttrColspan, lastColumn-origin.Column, first, 1)
	model.UpdateNumericAttribute(w, model.AttrRowspan, lastRow-origin.Row, first, 1)

	for _, c := range sorted[1:] {
		if !model.IsEmptyCell(c) {
			if model.IsEmptyCell(first) {
				w.RemoveChildren(first)
			}
			w.MoveChildren(c, first)
		}
		w.Remove(c)
	}
	RemoveEmptyRowsColumns(w, table)
	return first, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
