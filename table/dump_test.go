package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"rtable/model"
)

func TestDump(t *testing.T) {
	table, err := model.ParseElementString(withWidths(spannedTable(), "20%,30%,50%"))
	if err != nil {
		t.Fatal(err)
	}
	want := `table rows=3 columns=3 headingRows=0 headingColumns=0
  widths: "20%,30%,50%"
  | 00 | 01 | 02 |
  | 10 | ^  | 12 |
  | 20 | <  | 22 |
`
	if diff := cmp.Diff(want, Dump(table)); diff != "" {
		t.Errorf("Dump() mismatch (-want +got):\n%s", diff)
	}
}

func TestGrid_EmptyCells(t *testing.T) {
	table, err := model.ParseElementString(buildTable(` headingRows="1"`, []string{"", "a|r2"}, []string{""}))
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{GridEmpty, "a"}, {GridEmpty, GridSpannedAbove}}
	if diff := cmp.Diff(want, Grid(table)); diff != "" {
		t.Errorf("Grid() mismatch (-want +got):\n%s", diff)
	}
}
