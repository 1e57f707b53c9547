package table

import (
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rtable/common"
	"rtable/model"
)

// Options configures Editor.
type Options struct {
	// MultiCellSelection makes paste and cell commands leave whole cells
	// selected instead of collapsing selection into the first one.
	MultiCellSelection bool
	MinColumnWidth     float64
	DefaultRows        int
	DefaultColumns     int
}

// Editor binds selection, clipboard and table commands to a model. Every
// command is a single change: it either applies completely or leaves the
// document untouched.
type Editor struct {
	model     *model.Model
	opts      Options
	selection *Selection
	clipboard *Clipboard
	log       *zap.Logger
}

// NewEditor returns editor for the model and registers table post-fixers
// with it.
func NewEditor(m *model.Model, opts Options, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MinColumnWidth <= 0 {
		opts.MinColumnWidth = DefaultMinColumnWidth
	}
	log = log.Named("table")
	RegisterPostFixers(m, log)
	return &Editor{
		model:     m,
		opts:      opts,
		selection: NewSelection(m, log),
		clipboard: NewClipboard(m, opts.MultiCellSelection, log),
		log:       log,
	}
}

func (e *Editor) Model() *model.Model {
	return e.model
}

func (e *Editor) Selection() *Selection {
	return e.selection
}

func (e *Editor) Clipboard() *Clipboard {
	return e.clipboard
}

func (e *Editor) affectedCells() ([]*etree.Element, *etree.Element, error) {
	cells := SelectionAffectedTableCells(e.model.Selection())
	if len(cells) == 0 {
		return nil, nil, ErrNoSelection
	}
	table := tableOf(cells[0])
	if table == nil {
		return nil, nil, ErrNotInTable
	}
	return cells, table, nil
}

func (e *Editor) selectCells(w *model.Writer, cells []*etree.Element) {
	if len(cells) == 0 {
		return
	}
	if !e.opts.MultiCellSelection {
		w.SetSelectionAt(model.PositionAt(cells[0], 0))
		return
	}
	ranges := make([]model.Range, 0, len(cells))
	for _, c := range cells {
		ranges = append(ranges, model.RangeOn(c))
	}
	w.SetSelection(SortRanges(ranges), false)
}

// InsertTable inserts a new table after the top level block holding the
// selection, or at the end of the document, and puts selection into its first
// cell.
func (e *Editor) InsertTable(opts CreateOptions) (*etree.Element, error) {
	if opts.Rows < 1 {
		opts.Rows = e.opts.DefaultRows
	}
	if opts.Columns < 1 {
		opts.Columns = e.opts.DefaultColumns
	}
	var table *etree.Element
	err := e.model.Change(func(w *model.Writer) error {
		table = CreateTable(w, opts)
		w.Insert(table, e.topLevelInsertPosition())
		first := model.FindFirst(table, model.ParagraphName)
		w.SetSelectionAt(model.PositionAt(first, 0))
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Debug("Table inserted", zap.Int("rows", Rows(table)), zap.Int("columns", Columns(table)))
	return table, nil
}

func (e *Editor) topLevelInsertPosition() model.Position {
	root := e.model.Root()
	pos, ok := e.model.Selection().FirstPosition()
	if !ok || pos.Root() != root {
		return model.PositionAtEnd(root)
	}
	if pos.Parent == root {
		return pos
	}
	el := pos.Parent
	for el.Parent() != root {
		el = el.Parent()
	}
	return model.PositionAfter(el)
}

// InsertRow inserts a row above the first or below the last selected row.
func (e *Editor) InsertRow(placement common.Placement) error {
	if !placement.IsRow() {
		return fmt.Errorf("%w: row cannot be inserted %s", ErrCommandDisabled, placement)
	}
	return e.model.Change(func(w *model.Writer) error {
		cells, table, err := e.affectedCells()
		if err != nil {
			return err
		}
		rows := RowIndexes(cells)
		if placement == common.PlacementBelow {
			return InsertRows(w, table, InsertRowsOptions{At: rows.Last + 1, Structure: CopyFromAbove})
		}
		return InsertRows(w, table, InsertRowsOptions{At: rows.First, Structure: CopyFromBelow})
	})
}

// InsertColumn inserts a column left of the first or right of the last
// selected column.
func (e *Editor) InsertColumn(placement common.Placement) error {
	if placement.IsRow() {
		return fmt.Errorf("%w: column cannot be inserted %s", ErrCommandDisabled, placement)
	}
	return e.model.Change(func(w *model.Writer) error {
		cells, table, err := e.affectedCells()
		if err != nil {
			return err
		}
		columns := ColumnIndexes(cells)
		if placement == common.PlacementRight {
			return InsertColumns(w, table, InsertColumnsOptions{At: columns.Last + 1})
		}
		return InsertColumns(w, table, InsertColumnsOptions{At: columns.First})
	})
}

// RemoveRow removes all rows holding selected cells. Selection is moved to
// the cell which takes place of the first removed one.
func (e *Editor) RemoveRow() error {
	return e.model.Change(func(w *model.Writer) error {
		cells, table, err := e.affectedCells()
		if err != nil {
			return err
		}
		rows := RowIndexes(cells)
		for _, c := range cells {
			loc := mustLocation(c)
			rows.Last = max(rows.Last, loc.Row+model.RowSpan(c)-1)
		}
		if rows.First == 0 && rows.Last >= Rows(table)-1 {
			return fmt.Errorf("%w: cannot remove all rows", ErrCommandDisabled)
		}
		column := ColumnIndexes(cells).First
		removeRows(w, table, rows.First, rows.Last)
		if cell := CellAt(table, min(rows.First, Rows(table)-1), column); cell != nil {
			w.SetSelectionAt(model.PositionAt(cell, 0))
		}
		return nil
	})
}

// RemoveColumn removes all columns holding selected cells. Selection is moved
// to the cell which takes place of the first removed one.
func (e *Editor) RemoveColumn() error {
	return e.model.Change(func(w *model.Writer) error {
		cells, table, err := e.affectedCells()
		if err != nil {
			return err
		}
		columns := ColumnIndexes(cells)
		for _, c := range cells {
			loc := mustLocation(c)
			columns.Last = max(columns.Last, loc.Column+model.ColSpan(c)-1)
		}
		if columns.First == 0 && columns.Last >= Columns(table)-1 {
			return fmt.Errorf("%w: cannot remove all columns", ErrCommandDisabled)
		}
		row := RowIndexes(cells).First
		removeColumns(w, table, columns.First, columns.Last)
		if cell := CellAt(table, row, min(columns.First, Columns(table)-1)); cell != nil {
			w.SetSelectionAt(model.PositionAt(cell, 0))
		}
		return nil
	})
}

// CellAt returns the cell covering the slot, nil when slot is outside of
// the table.
func CellAt(table *etree.Element, row, column int) *etree.Element {
	if row < 0 || column < 0 {
		return nil
	}
	for s := range newWalker(table, WithRow(row), WithColumn(column), WithAllSlots()).All() {
		return s.Cell
	}
	return nil
}

// SetHeadingRows makes first rows of the selected table headings. Cells
// crossing the new boundary are split.
func (e *Editor) SetHeadingRows(rows int) error {
	return e.model.Change(func(w *model.Writer) error {
		_, table, err := e.affectedCells()
		if err != nil {
			return err
		}
		return SetHeadingRows(w, table, rows)
	})
}

// SetHeadingColumns is SetHeadingRows for columns.
func (e *Editor) SetHeadingColumns(columns int) error {
	return e.model.Change(func(w *model.Writer) error {
		_, table, err := e.affectedCells()
		if err != nil {
			return err
		}
		return SetHeadingColumns(w, table, columns)
	})
}

// SetHeadingRows sets number of heading rows splitting cells which would
// otherwise belong to both sections.
func SetHeadingRows(w *model.Writer, table *etree.Element, rows int) error {
	if total := Rows(table); rows < 0 || rows > total {
		return fmt.Errorf("%w: cannot set %d heading rows, table has %d rows", ErrOutOfRange, rows, total)
	}
	if rows > 0 {
		for _, s := range VerticallyOverlappingCells(table, rows, 0) {
			SplitHorizontally(w, s.Cell, rows)
		}
	}
	model.UpdateNumericAttribute(w, model.AttrHeadingRows, rows, table, 0)
	return nil
}

// SetHeadingColumns is SetHeadingRows for columns.
func SetHeadingColumns(w *model.Writer, table *etree.Element, columns int) error {
	if total := Columns(table); columns < 0 || columns > total {
		return fmt.Errorf("%w: cannot set %d heading columns, table has %d columns", ErrOutOfRange, columns, total)
	}
	if columns > 0 {
		for _, s := range HorizontallyOverlappingCells(table, columns) {
			SplitVertically(w, s.Cell, s.Column, columns)
		}
	}
	model.UpdateNumericAttribute(w, model.AttrHeadingColumns, columns, table, 0)
	return nil
}

// MergeCells merges selected cells. Selection must be rectangular and must not
// mix heading and body cells.
func (e *Editor) MergeCells() (*etree.Element, error) {
	var merged *etree.Element
	err := e.model.Change(func(w *model.Writer) error {
		cells := e.selection.SelectedTableCells()
		if len(cells) < 2 {
			return fmt.Errorf("%w: at least two cells have to be selected", ErrNoSelection)
		}
		if !AreCellsInSameSection(cells) {
			return ErrMixedSections
		}
		var err error
		if merged, err = MergeCells(w, cells); err != nil {
			return err
		}
		w.SetSelectionIn(merged)
		return nil
	})
	return merged, err
}

// SplitCell splits the first selected cell into parts.
func (e *Editor) SplitCell(direction common.SplitDirection, parts int) error {
	return e.model.Change(func(w *model.Writer) error {
		cells, _, err := e.affectedCells()
		if err != nil {
			return err
		}
		switch direction {
		case common.SplitDirectionVertical:
			return SplitCellVertically(w, cells[0], parts)
		case common.SplitDirectionHorizontal:
			return SplitCellHorizontally(w, cells[0], parts)
		}
		return fmt.Errorf("%w: unknown split direction %s", ErrCommandDisabled, direction)
	})
}

// SelectRow selects every cell anchored in rows of the selection.
func (e *Editor) SelectRow() error {
	return e.model.Change(func(w *model.Writer) error {
		cells, table, err := e.affectedCells()
		if err != nil {
			return err
		}
		rows := RowIndexes(cells)
		var ranges []model.Range
		for s := range newWalker(table, WithStartRow(rows.First), WithEndRow(rows.Last)).All() {
			ranges = append(ranges, model.RangeOn(s.Cell))
		}
		w.SetSelection(ranges, false)
		return nil
	})
}

// SelectColumn selects every cell anchored in columns of the selection.
func (e *Editor) SelectColumn() error {
	return e.model.Change(func(w *model.Writer) error {
		cells, table, err := e.affectedCells()
		if err != nil {
			return err
		}
		columns := ColumnIndexes(cells)
		var ranges []model.Range
		for s := range newWalker(table, WithStartColumn(columns.First), WithEndColumn(columns.Last)).All() {
			ranges = append(ranges, model.RangeOn(s.Cell))
		}
		w.SetSelection(ranges, false)
		return nil
	})
}

// ResizeColumn sets width (percent) of the column of the selected table.
func (e *Editor) ResizeColumn(column int, width float64) error {
	return e.model.Change(func(w *model.Writer) error {
		_, table, err := e.affectedCells()
		if err != nil {
			return err
		}
		return ResizeColumn(w, table, column, width, e.opts.MinColumnWidth)
	})
}

// Paste inserts content into selected cells, see Clipboard.InsertContent.
func (e *Editor) Paste(content *etree.Element) (bool, error) {
	return e.clipboard.InsertContent(content)
}

// Copy returns fragment with the selected part of the table.
func (e *Editor) Copy() (*etree.Element, error) {
	return e.selection.SelectionAsFragment()
}

// Cut is Copy followed by emptying selected cells.
func (e *Editor) Cut() (*etree.Element, error) {
	fragment, err := e.selection.SelectionAsFragment()
	if err != nil {
		return nil, err
	}
	if _, err := e.selection.DeleteSelectedContent(); err != nil {
		return nil, err
	}
	return fragment, nil
}
