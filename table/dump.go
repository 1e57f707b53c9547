package table

import (
	"github.com/beevik/etree"

	"rtable/model"
	"rtable/utils/debug"
)

// Grid marks for slots covered by spans.
const (
	GridSpannedLeft  = "<"
	GridSpannedAbove = "^"
	GridEmpty        = "."
)

// Grid returns label of every slot: text of anchored cells, GridSpannedLeft or
// GridSpannedAbove for slots covered by a span.
func Grid(table *etree.Element) [][]string {
	grid := make([][]string, Rows(table))
	for s := range newWalker(table, WithAllSlots()).All() {
		var label string
		switch {
		case s.IsAnchor():
			if label = model.TextContent(s.Cell); label == "" {
				label = GridEmpty
			}
		case s.Row == s.CellAnchorRow:
			label = GridSpannedLeft
		default:
			label = GridSpannedAbove
		}
		grid[s.Row] = append(grid[s.Row], label)
	}
	return grid
}

// Dump returns human readable picture of the table grid.
func Dump(table *etree.Element) string {
	grid := Grid(table)
	width := 1
	for _, row := range grid {
		for _, label := range row {
			width = max(width, len([]rune(label)))
		}
	}
	tw := debug.NewTreeWriter()
	tw.Line(0, "table rows=%d columns=%d headingRows=%d headingColumns=%d",
		len(grid), Columns(table), model.HeadingRows(table), model.HeadingColumns(table))
	if widths := ColumnWidths(table); widths != nil {
		tw.TextBlock(1, "widths", FormatColumnWidths(widths))
	}
	for _, row := range grid {
		tw.Row(1, width, row)
	}
	return tw.String()
}
