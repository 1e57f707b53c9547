package table

import (
	"slices"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rtable/model"
)

// Selection handles rectangular multi-cell selection of the document.
type Selection struct {
	model *model.Model
	log   *zap.Logger
}

func NewSelection(m *model.Model, log *zap.Logger) *Selection {
	return &Selection{model: m, log: log.Named("selection")}
}

// SelectedTableCells returns selected cells in document order, or nil when the
// selection is not made of whole table cells only.
func (s *Selection) SelectedTableCells() []*etree.Element {
	sel := s.model.Selection()
	cells := SelectedTableCells(sel)
	if len(cells) == 0 || len(cells) != sel.RangeCount() {
		return nil
	}
	return cells
}

// AnchorCell returns the cell of the first selection range in document
// order.
func (s *Selection) AnchorCell() *etree.Element {
	r, ok := s.model.Selection().FirstRange()
	if !ok {
		return nil
	}
	return rangeCell(r)
}

// FocusCell returns the cell of the last selection range in document order.
func (s *Selection) FocusCell() *etree.Element {
	r, ok := s.model.Selection().LastRange()
	if !ok {
		return nil
	}
	return rangeCell(r)
}

func rangeCell(r model.Range) *etree.Element {
	if el := r.ContainedElement(); model.Is(el, model.CellName) {
		return el
	}
	return r.Start.FindAncestor(model.CellName)
}

// SetCellSelection selects all cells of the rectangle spanned by anchor and
// target cells. Selection is backward when target is above or left of
// anchor.
func (s *Selection) SetCellSelection(anchor, target *etree.Element) error {
	ranges, backward, err := cellSelectionRanges(anchor, target)
	if err != nil {
		return err
	}
	return s.model.Change(func(w *model.Writer) error {
		w.SetSelection(ranges, backward)
		return nil
	})
}

func cellSelectionRanges(anchor, target *etree.Element) ([]model.Range, bool, error) {
	from, err := CellLocation(anchor)
	if err != nil {
		return nil, false, err
	}
	to, err := CellLocation(target)
	if err != nil {
		return nil, false, err
	}
	table := tableOf(anchor)
	if tableOf(target) != table {
		return nil, false, ErrNotInTable
	}

	var rows [][]*etree.Element
	walker := newWalker(table,
		WithStartRow(min(from.Row, to.Row)), WithEndRow(max(from.Row, to.Row)),
		WithStartColumn(min(from.Column, to.Column)), WithEndColumn(max(from.Column, to.Column)))
	last := -1
	for slot := range walker.All() {
		if slot.Row != last {
			rows = append(rows, nil)
			last = slot.Row
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], slot.Cell)
	}

	flipRows, flipColumns := to.Row < from.Row, to.Column < from.Column
	if flipRows {
		slices.Reverse(rows)
	}
	var ranges []model.Range
	for _, row := range rows {
		if flipColumns {
			slices.Reverse(row)
		}
		for _, c := range row {
			ranges = append(ranges, model.RangeOn(c))
		}
	}
	return ranges, flipRows || flipColumns, nil
}

// SelectionAsFragment returns detached fragment with a table made of the
// selected rectangle.
func (s *Selection) SelectionAsFragment() (*etree.Element, error) {
	cells := s.SelectedTableCells()
	if cells == nil {
		return nil, ErrNoSelection
	}
	var fragment *etree.Element
	err := s.model.Detached(func(w *model.Writer) error {
		rect, err := selectionRect(cells)
		if err != nil {
			return err
		}
		table := tableOf(cells[0])
		if IsSelectionRectangular(cells) {
			rect.LastRow, rect.LastColumn = AdjustLastRowIndex(table, rect), AdjustLastColumnIndex(table, rect)
		}
		cropped := CropTableToDimensions(w, table, rect)
		fragment = w.CreateFragment()
		w.Append(cropped, fragment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("Selection copied", zap.Int("cells", len(cells)))
	return fragment, nil
}

// DeleteSelectedContent empties every selected cell, leaving single empty
// paragraph in each. It reports false when there is no multi-cell selection.
func (s *Selection) DeleteSelectedContent() (bool, error) {
	cells := s.SelectedTableCells()
	if cells == nil {
		return false, nil
	}
	err := s.model.Change(func(w *model.Writer) error {
		ranges := make([]model.Range, 0, len(cells))
		for _, c := range cells {
			w.RemoveChildren(c)
			w.InsertElement(model.ParagraphName, c)
			ranges = append(ranges, model.RangeOn(c))
		}
		w.SetSelection(ranges, s.model.Selection().IsBackward())
		return nil
	})
	return err == nil, err
}

// selectionRect returns rectangle of cell anchors.
func selectionRect(cells []*etree.Element) (Rect, error) {
	if len(cells) == 0 {
		return Rect{}, ErrNoSelection
	}
	rows, columns := RowIndexes(cells), ColumnIndexes(cells)
	return Rect{FirstRow: rows.First, LastRow: rows.Last, FirstColumn: columns.First, LastColumn: columns.Last}, nil
}
