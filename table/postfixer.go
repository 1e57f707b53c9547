package table

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rtable/model"
)

// RegisterPostFixers installs fixers which keep every table of the model
// well formed after any change.
func RegisterPostFixers(m *model.Model, log *zap.Logger) {
	log = log.Named("postfixer")
	m.RegisterPostFixer(func(w *model.Writer) bool {
		return fixTables(w, log)
	})
}

func fixTables(w *model.Writer, log *zap.Logger) bool {
	changed := false
	for _, table := range w.Model().FindAll(model.TableName) {
		for _, fix := range []struct {
			name string
			fn   func(*model.Writer, *etree.Element) bool
		}{
			{"spans", fixSpanAttributes},
			{"cell content", fixCellContent},
			{"rowspans", fixCellRowspans},
			{"row sizes", fixRowSizes},
			{"headings", fixHeadings},
			{"column widths", fixColumnWidths},
		} {
			if fix.fn(w, table) {
				log.Debug("Table fixed", zap.String("fix", fix.name))
				changed = true
			}
		}
	}
	return changed
}

// fixSpanAttributes drops spans which are malformed or equal to 1.
func fixSpanAttributes(w *model.Writer, table *etree.Element) bool {
	changed := false
	for _, row := range rowElements(table) {
		for _, cell := range model.ChildrenNamed(row, model.CellName) {
			for _, key := range []string{model.AttrRowspan, model.AttrColspan} {
				attr := cell.SelectAttr(key)
				if attr == nil {
					continue
				}
				if v, err := strconv.Atoi(strings.TrimSpace(attr.Value)); err != nil || v <= 1 {
					w.RemoveAttribute(key, cell)
					changed = true
				} else if attr.Value != strconv.Itoa(v) {
					w.SetAttribute(key, strconv.Itoa(v), cell)
					changed = true
				}
			}
		}
	}
	return changed
}

// fixCellContent makes sure every cell holds blocks only and at least one
// paragraph. Loose text is wrapped into a paragraph.
func fixCellContent(w *model.Writer, table *etree.Element) bool {
	changed := false
	for _, row := range rowElements(table) {
		for _, cell := range model.ChildrenNamed(row, model.CellName) {
			var loose *etree.Element
			for _, tok := range append([]etree.Token{}, cell.Child...) {
				switch t := tok.(type) {
				case *etree.Element:
					loose = nil
					continue
				case *etree.CharData:
					if strings.TrimSpace(t.Data) == "" {
						w.Remove(t)
						changed = true
						continue
					}
				}
				if loose == nil {
					loose = w.CreateElement(model.ParagraphName)
					w.Insert(loose, model.PositionBefore(tok))
				}
				w.Append(tok, loose)
				changed = true
			}
			if len(cell.ChildElements()) == 0 {
				w.InsertElement(model.ParagraphName, cell)
				changed = true
			}
		}
	}
	return changed
}

// fixCellRowspans shortens cells reaching past the last row, and heading
// cells reaching into the body.
func fixCellRowspans(w *model.Writer, table *etree.Element) bool {
	rows, headingRows := Rows(table), model.HeadingRows(table)
	changed := false
	for s := range newWalker(table).All() {
		limit := rows
		if s.Row < headingRows {
			limit = headingRows
		}
		if s.Row+s.CellHeight() > limit {
			model.UpdateNumericAttribute(w, model.AttrRowspan, limit-s.Row, s.Cell, 1)
			changed = true
		}
	}
	return changed
}

// fixRowSizes removes rows without slots and pads short rows with empty cells.
func fixRowSizes(w *model.Writer, table *etree.Element) bool {
	rowEls := rowElements(table)
	sizes := make([]int, len(rowEls))
	for s := range newWalker(table, WithAllSlots()).All() {
		sizes[s.Row]++
	}
	changed := false
	for i := len(rowEls) - 1; i >= 0; i-- {
		if sizes[i] == 0 {
			w.Remove(rowEls[i])
			sizes = append(sizes[:i], sizes[i+1:]...)
			rowEls = append(rowEls[:i], rowEls[i+1:]...)
			changed = true
		}
	}
	if changed {
		// removed rows may have shifted spans
		return true
	}
	width := 0
	for _, n := range sizes {
		width = max(width, n)
	}
	for i, row := range rowEls {
		if missing := width - sizes[i]; missing > 0 {
			createCells(w, missing, model.PositionAtEnd(row))
			changed = true
		}
	}
	return changed
}

func fixHeadings(w *model.Writer, table *etree.Element) bool {
	changed := false
	for _, h := range []struct {
		key   string
		limit int
	}{
		{model.AttrHeadingRows, Rows(table)},
		{model.AttrHeadingColumns, Columns(table)},
	} {
		attr := table.SelectAttr(h.key)
		if attr == nil {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(attr.Value))
		switch {
		case err != nil || v <= 0:
			w.RemoveAttribute(h.key, table)
			changed = true
		case v > h.limit:
			model.UpdateNumericAttribute(w, h.key, h.limit, table, 0)
			changed = true
		}
	}
	return changed
}

// fixColumnWidths keeps one width per column.
func fixColumnWidths(w *model.Writer, table *etree.Element) bool {
	group := columnGroup(table)
	if group == nil {
		return false
	}
	widths, columns := ColumnWidths(table), Columns(table)
	if len(widths) == columns {
		return false
	}
	switch {
	case columns == 0:
		w.Remove(group)
		return true
	case len(widths) > columns:
		widths = widths[:columns]
	default:
		avg := 100 / float64(columns)
		for len(widths) < columns {
			widths = append(widths, avg)
		}
	}
	SetColumnWidths(w, table, NormalizeColumnWidths(widths))
	return true
}
