package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/multierr"

	"rtable/model"
)

// ErrInvalidTable wraps every problem reported by Validate.
var ErrInvalidTable = errors.New("invalid table")

// Validate checks table layout invariants and returns all violations
// combined.
func Validate(table *etree.Element) error {
	if !model.Is(table, model.TableName) {
		return fmt.Errorf("%w: %s", ErrNotTable, describe(table))
	}
	var err error
	report := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalidTable}, args...)...))
	}

	rows, columns := Rows(table), Columns(table)
	occupied := make([][]int, rows)
	for i := range occupied {
		occupied[i] = make([]int, columns)
	}
	for s := range newWalker(table).All() {
		for _, key := range []string{model.AttrRowspan, model.AttrColspan} {
			if raw, ok := attrValue(s.Cell, key); ok {
				if v, convErr := strconv.Atoi(raw); convErr != nil || v <= 1 {
					report("cell at (%d, %d) has non canonical %s %q", s.Row, s.Column, key, raw)
				}
			}
		}
		if s.Row+s.CellHeight() > rows {
			report("cell at (%d, %d) reaches past the last row", s.Row, s.Column)
		}
		for r := s.Row; r < min(rows, s.Row+s.CellHeight()); r++ {
			for c := s.Column; c < min(columns, s.Column+s.CellWidth()); c++ {
				occupied[r][c]++
			}
		}
		if len(s.Cell.ChildElements()) == 0 {
			report("cell at (%d, %d) has no content", s.Row, s.Column)
		}
	}
	for r := range occupied {
		for c, n := range occupied[r] {
			switch {
			case n == 0:
				report("slot (%d, %d) is not covered by any cell", r, c)
			case n > 1:
				report("slot (%d, %d) is covered by %d cells", r, c, n)
			}
		}
	}

	if h := model.HeadingRows(table); h > rows {
		report("%d heading rows in table with %d rows", h, rows)
	}
	if h := model.HeadingColumns(table); h > columns {
		report("%d heading columns in table with %d columns", h, columns)
	}
	if widths := ColumnWidths(table); widths != nil && len(widths) != columns {
		report("%d column widths for %d columns", len(widths), columns)
	}
	return err
}

func attrValue(el *etree.Element, key string) (string, bool) {
	a := el.SelectAttr(key)
	if a == nil {
		return "", false
	}
	return strings.TrimSpace(a.Value), true
}
