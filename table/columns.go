package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"rtable/model"
)

// DefaultMinColumnWidth is the narrowest column ResizeColumn produces, in
// percent of the table width.
const DefaultMinColumnWidth = 5.0

func columnGroup(table *etree.Element) *etree.Element {
	if groups := model.ChildrenNamed(table, model.ColumnGroupName); len(groups) > 0 {
		return groups[0]
	}
	return nil
}

// ColumnWidths returns column widths in percent or nil when the table has no
// column group. Malformed entries are read as 0.
func ColumnWidths(table *etree.Element) []float64 {
	group := columnGroup(table)
	if group == nil {
		return nil
	}
	return ParseColumnWidths(group.SelectAttrValue(model.AttrColumnWidths, ""))
}

// ParseColumnWidths parses "20%,25%,55%".
func ParseColumnWidths(s string) []float64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(p), "%"), 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		out = append(out, v)
	}
	return out
}

// FormatColumnWidths is the inverse of ParseColumnWidths.
func FormatColumnWidths(widths []float64) string {
	parts := make([]string, len(widths))
	for i, v := range widths {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64) + "%"
	}
	return strings.Join(parts, ",")
}

// SetColumnWidths stores widths in the table column group creating it when
// needed. Empty widths remove the group.
func SetColumnWidths(w *model.Writer, table *etree.Element, widths []float64) {
	group := columnGroup(table)
	if len(widths) == 0 {
		if group != nil {
			w.Remove(group)
		}
		return
	}
	if group == nil {
		group = w.InsertElement(model.ColumnGroupName, table)
	}
	w.SetAttribute(model.AttrColumnWidths, FormatColumnWidths(widths), group)
}

// NormalizeColumnWidths scales widths so they sum up to 100 with two decimals,
// rounding remainder goes to the last column. All zero widths are replaced by
// equal ones.
func NormalizeColumnWidths(widths []float64) []float64 {
	if len(widths) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range widths {
		sum += v
	}
	out := make([]float64, len(widths))
	if sum <= 0 {
		for i := range out {
			out[i] = 100 / float64(len(out))
		}
		sum = 100
	} else {
		copy(out, widths)
	}
	total := 0.0
	for i := range out[:len(out)-1] {
		out[i] = round2(out[i] * 100 / sum)
		total += out[i]
	}
	out[len(out)-1] = round2(100 - total)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// insertColumnWidths gives inserted columns the average width.
func insertColumnWidths(w *model.Writer, table *etree.Element, at, count int) {
	widths := ColumnWidths(table)
	if len(widths) == 0 {
		return
	}
	at = clamp(at, 0, len(widths))
	sum := 0.0
	for _, v := range widths {
		sum += v
	}
	avg := sum / float64(len(widths))
	added := make([]float64, count)
	for i := range added {
		added[i] = avg
	}
	updated := append(append(append([]float64{}, widths[:at]...), added...), widths[at:]...)
	SetColumnWidths(w, table, NormalizeColumnWidths(updated))
}

// removeColumnWidths drops widths of removed columns. Their width is given to
// the column left of the range, or to the right one when the range starts at
// the first column.
func removeColumnWidths(w *model.Writer, table *etree.Element, first, last int) {
	widths := ColumnWidths(table)
	if len(widths) == 0 || last >= len(widths) {
		return
	}
	removed := 0.0
	for _, v := range widths[first : last+1] {
		removed += v
	}
	rest := append(append([]float64{}, widths[:first]...), widths[last+1:]...)
	if len(rest) == 0 {
		SetColumnWidths(w, table, nil)
		return
	}
	target := first - 1
	if first == 0 {
		target = 0
	}
	rest[target] = round2(rest[target] + removed)
	SetColumnWidths(w, table, rest)
}

// ResizeColumn sets the width of the column taking the difference from its
// right neighbour (left one for the last column). Widths are clamped so
// neither column gets narrower than minWidth. Tables without column group get
// equal widths first.
func ResizeColumn(w *model.Writer, table *etree.Element, column int, width, minWidth float64) error {
	columns := Columns(table)
	if column < 0 || column >= columns {
		return fmt.Errorf("%w: cannot resize column %d, table has %d columns", ErrOutOfRange, column, columns)
	}
	if columns < 2 {
		return nil
	}
	widths := ColumnWidths(table)
	if len(widths) != columns {
		widths = NormalizeColumnWidths(make([]float64, columns))
	}
	neighbour := column + 1
	if neighbour == columns {
		neighbour = column - 1
	}
	total := widths[column] + widths[neighbour]
	lo := min(minWidth, total/2)
	width = round2(math.Max(lo, math.Min(width, total-lo)))
	widths[column] = width
	widths[neighbour] = round2(total - width)
	SetColumnWidths(w, table, widths)
	return nil
}
