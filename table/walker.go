// Package table implements table geometry on top of the document model: slot
// walking, row and column mutations, cell splitting and merging, rectangular
// multi-cell selection and pasting tables into selected cells.
package table

import (
	"fmt"
	"iter"
	"slices"

	"github.com/beevik/etree"

	"rtable/model"
)

// WalkerOptions limits the walked area. All bounds are inclusive, negative
// values mean "not set".
type WalkerOptions struct {
	StartRow        int
	EndRow          int
	StartColumn     int
	EndColumn       int
	IncludeAllSlots bool
}

func WithRow(row int) func(*WalkerOptions) {
	return func(o *WalkerOptions) { o.StartRow, o.EndRow = row, row }
}

func WithStartRow(row int) func(*WalkerOptions) {
	return func(o *WalkerOptions) { o.StartRow = row }
}

func WithEndRow(row int) func(*WalkerOptions) {
	return func(o *WalkerOptions) { o.EndRow = row }
}

func WithColumn(column int) func(*WalkerOptions) {
	return func(o *WalkerOptions) { o.StartColumn, o.EndColumn = column, column }
}

func WithStartColumn(column int) func(*WalkerOptions) {
	return func(o *WalkerOptions) { o.StartColumn = column }
}

func WithEndColumn(column int) func(*WalkerOptions) {
	return func(o *WalkerOptions) { o.EndColumn = column }
}

// WithAllSlots makes walker emit slots covered by spans, not only anchors.
func WithAllSlots() func(*WalkerOptions) {
	return func(o *WalkerOptions) { o.IncludeAllSlots = true }
}

// Walker iterates logical grid of a table in row-major order. It keeps no
// grid between iterations, every call to All walks the live tree again.
type Walker struct {
	table    *etree.Element
	opts     WalkerOptions
	skipRows map[int]struct{}
}

// NewWalker returns walker for the table element.
func NewWalker(table *etree.Element, options ...func(*WalkerOptions)) (*Walker, error) {
	if !model.Is(table, model.TableName) {
		return nil, fmt.Errorf("%w: cannot walk %s", ErrNotTable, describe(table))
	}
	return newWalker(table, options...), nil
}

// newWalker is NewWalker for callers which already hold a table element.
func newWalker(table *etree.Element, options ...func(*WalkerOptions)) *Walker {
	w := &Walker{
		table:    table,
		opts:     WalkerOptions{EndRow: -1, EndColumn: -1},
		skipRows: make(map[int]struct{}),
	}
	for _, set := range options {
		set(&w.opts)
	}
	return w
}

// SkipRow excludes the row from the rest of the iteration, it may be called
// while iterating.
func (w *Walker) SkipRow(row int) {
	w.skipRows[row] = struct{}{}
}

// spanned is a cell reaching past its anchor slot: columns
// [column, column+width) of rows [row, lastRow].
type spanned struct {
	cell    *etree.Element
	row     int
	column  int
	width   int
	lastRow int
}

// spans holds cells covering slots of the walked row ordered by column. Its
// size is bound by the number of spanning cells, not by their spans.
type spans []spanned

func (sp spans) covering(column int) (spanned, bool) {
	for _, s := range sp {
		if s.column > column {
			break
		}
		if column < s.column+s.width {
			return s, true
		}
	}
	return spanned{}, false
}

func (sp spans) add(s spanned) spans {
	i := 0
	for i < len(sp) && sp[i].column < s.column {
		i++
	}
	return slices.Insert(sp, i, s)
}

// endRow drops cells which do not reach below row.
func (sp spans) endRow(row int) spans {
	return slices.DeleteFunc(sp, func(s spanned) bool { return s.lastRow <= row })
}

// All returns the sequence of slots.
func (w *Walker) All() iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		var active spans
		row := 0
		for rowIndex, rowEl := range w.table.ChildElements() {
			if rowEl.Tag != model.RowName {
				continue
			}
			if w.opts.EndRow >= 0 && row > w.opts.EndRow {
				return
			}
			cells := rowEl.ChildElements()
			column, cellIndex := 0, 0
			for w.opts.EndColumn < 0 || column <= w.opts.EndColumn {
				if sp, ok := active.covering(column); ok {
					end := sp.column + sp.width
					if !w.opts.IncludeAllSlots {
						column = end
						continue
					}
					// slots right of an anchor in its own row keep the anchor index
					idx := cellIndex
					if sp.row == row {
						idx--
					}
					for ; column < end && (w.opts.EndColumn < 0 || column <= w.opts.EndColumn); column++ {
						if w.skipSlot(row, column) {
							continue
						}
						if !yield(w.slot(rowEl, rowIndex, idx, row, column, sp.cell, sp.row, sp.column)) {
							return
						}
					}
					continue
				}
				if cellIndex >= len(cells) {
					break
				}
				cell := cells[cellIndex]
				colspan, rowspan := model.ColSpan(cell), model.RowSpan(cell)
				if colspan > 1 || rowspan > 1 {
					active = active.add(spanned{cell: cell, row: row, column: column, width: colspan, lastRow: row + rowspan - 1})
				}
				if !w.skipSlot(row, column) {
					if !yield(w.slot(rowEl, rowIndex, cellIndex, row, column, cell, row, column)) {
						return
					}
				}
				column++
				cellIndex++
			}
			active = active.endRow(row)
			row++
		}
	}
}

// Slots collects the whole sequence.
func (w *Walker) Slots() []Slot {
	var out []Slot
	for s := range w.All() {
		out = append(out, s)
	}
	return out
}

func (w *Walker) skipSlot(row, column int) bool {
	if _, ok := w.skipRows[row]; ok {
		return true
	}
	return row < w.opts.StartRow || column < w.opts.StartColumn ||
		(w.opts.EndColumn >= 0 && column > w.opts.EndColumn)
}

func (w *Walker) slot(rowEl *etree.Element, rowIndex, cellIndex, row, column int, cell *etree.Element, anchorRow, anchorColumn int) Slot {
	return Slot{
		Row:              row,
		Column:           column,
		Cell:             cell,
		CellAnchorRow:    anchorRow,
		CellAnchorColumn: anchorColumn,
		table:            w.table,
		rowEl:            rowEl,
		rowIndex:         rowIndex,
		cellIndex:        cellIndex,
	}
}

// Slot is one logical grid position and the cell occupying it.
type Slot struct {
	Row              int
	Column           int
	Cell             *etree.Element
	CellAnchorRow    int
	CellAnchorColumn int

	table     *etree.Element
	rowEl     *etree.Element
	rowIndex  int
	cellIndex int
}

// IsAnchor reports whether the slot is the top-left slot of its cell.
func (s Slot) IsAnchor() bool {
	return s.Row == s.CellAnchorRow && s.Column == s.CellAnchorColumn
}

func (s Slot) CellWidth() int {
	return model.ColSpan(s.Cell)
}

func (s Slot) CellHeight() int {
	return model.RowSpan(s.Cell)
}

// RowIndex is the index of the row element among table children.
func (s Slot) RowIndex() int {
	return s.rowIndex
}

// CellIndex is the index of the cell in its row for anchors, and the index of
// the next anchored cell of the row for spanned slots.
func (s Slot) CellIndex() int {
	return s.cellIndex
}

// RowElement returns the row element the slot belongs to.
func (s Slot) RowElement() *etree.Element {
	return s.rowEl
}

// PositionBefore returns position in the slot row in front of the cell with
// index CellIndex()+offset, it is resolved against the current row children.
func (s Slot) PositionBefore(offset int) model.Position {
	idx := s.cellIndex + offset
	cells := s.rowEl.ChildElements()
	if idx < len(cells) {
		return model.PositionBefore(cells[idx])
	}
	return model.PositionAtEnd(s.rowEl)
}

func describe(el *etree.Element) string {
	if el == nil {
		return "<nil>"
	}
	return fmt.Sprintf("<%s>", el.Tag)
}
