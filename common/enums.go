// Package common holds enums shared by the table engine, the HTML view and
// configuration, so configuration can be decoded without pulling the engine
// in.
package common

// Where new rows and columns go relative to the selection.
// ENUM(above, below, left, right)
type Placement int

func (p Placement) IsRow() bool {
	return p == PlacementAbove || p == PlacementBelow
}

// Direction of a table cell split, vertical splits produce cells side by side.
// ENUM(vertical, horizontal)
type SplitDirection int

// Requested output type.
// ENUM(html, model)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtHtml:
		return ".html"
	case OutputFmtModel:
		return ".xml"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
