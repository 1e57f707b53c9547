package table

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rtable/model"
)

// ReplaceSlotCellFunc puts cell (which may be nil when the pasted table has
// no anchor for the slot) into the slot of the target table at pos, and
// returns the inserted cell or nil.
type ReplaceSlotCellFunc func(w *model.Writer, slot Slot, cell *etree.Element, pos model.Position) *etree.Element

// Clipboard pastes tables into selected table cells.
type Clipboard struct {
	model     *model.Model
	multiCell bool
	log       *zap.Logger

	// ReplaceSlotCell is used for every slot of the paste area.
	ReplaceSlotCell ReplaceSlotCellFunc
}

func NewClipboard(m *model.Model, multiCell bool, log *zap.Logger) *Clipboard {
	return &Clipboard{
		model:           m,
		multiCell:       multiCell,
		log:             log.Named("clipboard"),
		ReplaceSlotCell: ReplaceSlotCell,
	}
}

// ReplaceSlotCell removes the slot cell when the slot is its anchor and inserts
// cell at pos.
func ReplaceSlotCell(w *model.Writer, slot Slot, cell *etree.Element, pos model.Position) *etree.Element {
	if slot.IsAnchor() {
		w.Remove(slot.Cell)
	}
	if cell == nil {
		return nil
	}
	w.Insert(cell, pos)
	return cell
}

// TableIfOnlyTableInContent returns the table when content is a table or
// holds one table and nothing else worth keeping.
func TableIfOnlyTableInContent(content *etree.Element) *etree.Element {
	if content == nil {
		return nil
	}
	if model.Is(content, model.TableName) {
		return content
	}
	var table *etree.Element
	for _, tok := range content.Child {
		switch t := tok.(type) {
		case *etree.Element:
			switch {
			case model.Is(t, model.TableName) && table == nil:
				table = t
			case model.IsEmptyParagraph(t):
			default:
				return nil
			}
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return nil
			}
		}
	}
	return table
}

// InsertContent pastes content into the selected cells. It reports false when
// content is not a table or no cells are selected, in which case the caller
// should insert content the normal way; empty rows and columns are removed
// from the pasted table first.
func (c *Clipboard) InsertContent(content *etree.Element) (bool, error) {
	pasted := TableIfOnlyTableInContent(content)
	if pasted == nil {
		return false, nil
	}
	selected := SelectionAffectedTableCells(c.model.Selection())
	if len(selected) == 0 {
		err := c.model.Detached(func(w *model.Writer) error {
			RemoveEmptyRowsColumns(w, pasted)
			return nil
		})
		return false, err
	}
	if Rows(pasted) == 0 || Columns(pasted) == 0 {
		return false, nil
	}

	err := c.model.Change(func(w *model.Writer) error {
		table := tableOf(selected[0])
		if table == nil {
			return ErrNotInTable
		}
		rect, err := prepareTableForPasting(w, table, selected, Columns(pasted), Rows(pasted))
		if err != nil {
			return err
		}
		cropped := CropTableToDimensions(w, pasted, Rect{
			LastRow:    min(rect.Height(), Rows(pasted)) - 1,
			LastColumn: min(rect.Width(), Columns(pasted)) - 1,
		})
		cells := c.replaceSelectedCells(w, table, cropped, rect)
		c.log.Debug("Table pasted",
			zap.Int("rows", rect.Height()), zap.Int("columns", rect.Width()), zap.Int("cells", len(cells)))
		if len(cells) == 0 {
			return nil
		}
		if c.multiCell {
			ranges := make([]model.Range, 0, len(cells))
			for _, cell := range cells {
				ranges = append(ranges, model.RangeOn(cell))
			}
			w.SetSelection(SortRanges(ranges), false)
		} else {
			w.SetSelectionAt(model.PositionAt(cells[0], 0))
		}
		return nil
	})
	return err == nil, err
}

// prepareTableForPasting returns the paste area. A single selected cell is
// grown to the size of the pasted table, expanding the table when needed.
func prepareTableForPasting(w *model.Writer, table *etree.Element, selected []*etree.Element, pastedWidth, pastedHeight int) (Rect, error) {
	rect, err := selectionRect(selected)
	if err != nil {
		return rect, err
	}
	single := len(selected) == 1
	if single {
		rect.LastRow += pastedHeight - 1
		rect.LastColumn += pastedWidth - 1
		if err := expandTableSize(w, table, rect.LastRow+1, rect.LastColumn+1); err != nil {
			return rect, err
		}
	}
	if single || !IsSelectionRectangular(selected) {
		SplitCellsToRectangle(w, table, rect)
	} else {
		rect.LastRow, rect.LastColumn = AdjustLastRowIndex(table, rect), AdjustLastColumnIndex(table, rect)
	}
	return rect, nil
}

func expandTableSize(w *model.Writer, table *etree.Element, height, width int) error {
	if columns := Columns(table); width > columns {
		if err := InsertColumns(w, table, InsertColumnsOptions{At: columns, Columns: width - columns}); err != nil {
			return err
		}
	}
	if rows := Rows(table); height > rows {
		return InsertRows(w, table, InsertRowsOptions{At: rows, Rows: height - rows})
	}
	return nil
}

func (c *Clipboard) replaceSelectedCells(w *model.Writer, table, pasted *etree.Element, rect Rect) []*etree.Element {
	height, width := Rows(pasted), Columns(pasted)
	layout := make([][]*etree.Element, height)
	for i := range layout {
		layout[i] = make([]*etree.Element, width)
	}
	for s := range newWalker(pasted).All() {
		if s.Row < height && s.Column < width {
			layout[s.Row][s.Column] = s.Cell
		}
	}

	slots := newWalker(table,
		WithStartRow(rect.FirstRow), WithEndRow(rect.LastRow),
		WithStartColumn(rect.FirstColumn), WithEndColumn(rect.LastColumn),
		WithAllSlots()).Slots()

	var (
		cells []*etree.Element
		pos   model.Position
	)
	for _, s := range slots {
		if s.Column == rect.FirstColumn {
			pos = s.PositionBefore(0)
		}
		var toInsert *etree.Element
		if src := layout[(s.Row-rect.FirstRow)%height][(s.Column-rect.FirstColumn)%width]; src != nil {
			toInsert = w.Clone(src)
		}
		cell := c.ReplaceSlotCell(w, s, toInsert, pos)
		if cell == nil {
			continue
		}
		TrimTableCellIfNeeded(w, cell, s.Row, s.Column, rect.LastRow, rect.LastColumn)
		cells = append(cells, cell)
		pos = model.PositionAfter(cell)
	}

	headingRows, headingColumns := model.HeadingRows(table), model.HeadingColumns(table)
	if rect.FirstRow < headingRows && headingRows <= rect.LastRow {
		cells = append(cells, doHorizontalSplit(w, table, headingRows, rect.columns(), rect.FirstRow)...)
	}
	if rect.FirstColumn < headingColumns && headingColumns <= rect.LastColumn {
		cells = append(cells, doVerticalSplit(w, table, headingColumns, rect.rows())...)
	}
	return cells
}
