package model

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// IntAttribute returns integer value of the attribute or def when attribute is
// absent or malformed.
func IntAttribute(el *etree.Element, key string, def int) int {
	raw := strings.TrimSpace(el.SelectAttrValue(key, ""))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// RowSpan returns effective rowspan of the cell, never less than 1.
func RowSpan(cell *etree.Element) int {
	return max(IntAttribute(cell, AttrRowspan, 1), 1)
}

// ColSpan returns effective colspan of the cell, never less than 1.
func ColSpan(cell *etree.Element) int {
	return max(IntAttribute(cell, AttrColspan, 1), 1)
}

// HeadingRows returns number of heading rows of the table.
func HeadingRows(table *etree.Element) int {
	return max(IntAttribute(table, AttrHeadingRows, 0), 0)
}

// HeadingColumns returns number of heading columns of the table.
func HeadingColumns(table *etree.Element) int {
	return max(IntAttribute(table, AttrHeadingColumns, 0), 0)
}

// UpdateNumericAttribute sets the attribute to value unless value equals def in
// which case the attribute is removed, so defaults are never stored.
func UpdateNumericAttribute(w *Writer, key string, value int, el *etree.Element, def int) {
	if value != def {
		w.SetAttribute(key, strconv.Itoa(value), el)
		return
	}
	w.RemoveAttribute(key, el)
}
