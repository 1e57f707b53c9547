package table

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"rtable/model"
)

func parseContent(t *testing.T, src string) *etree.Element {
	t.Helper()
	el, err := model.ParseElementString("<" + model.FragmentName + ">" + src + "</" + model.FragmentName + ">")
	if err != nil {
		t.Fatalf("unable to parse content: %v", err)
	}
	return el
}

func TestTableIfOnlyTableInContent(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"table only", plainTable("", 1, 1), true},
		{"table and empty paragraphs", "<paragraph/>" + plainTable("", 1, 1) + "<paragraph/>", true},
		{"table and text", "<paragraph>x</paragraph>" + plainTable("", 1, 1), false},
		{"two tables", plainTable("", 1, 1) + plainTable("", 1, 1), false},
		{"no table", "<paragraph>x</paragraph>", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TableIfOnlyTableInContent(parseContent(t, tt.src))
			if (got != nil) != tt.want {
				t.Errorf("TableIfOnlyTableInContent() = %v, want table %v", got, tt.want)
			}
		})
	}
	if TableIfOnlyTableInContent(nil) != nil {
		t.Error("TableIfOnlyTableInContent(nil) returned table")
	}
}

// A single selected cell grows to the pasted table size and the rest of the
// pasted content lands in the cells next to it. Tiling of repeated content
// (1x2 pasted into a 1x4 selection) happens only when several cells are
// selected, see TestClipboard_TilesPastedTable.
func TestClipboard_SingleCellExpandsToPastedSize(t *testing.T) {
	m, table := newTestModel(t, buildTable("", []string{"a", "b", "c", "d"}))
	RegisterPostFixers(m, zaptest.NewLogger(t))
	c := NewClipboard(m, false, zaptest.NewLogger(t))
	collapseIn(t, m, cellByText(t, table, "a"))

	ok, err := c.InsertContent(parseContent(t, buildTable("", []string{"x", "y"})))
	if err != nil || !ok {
		t.Fatalf("InsertContent() = %v, %v", ok, err)
	}
	checkGrid(t, table, [][]string{{"x", "y", "c", "d"}})

	pos, _ := m.Selection().FirstPosition()
	if got := model.TextContent(pos.FindAncestor(model.CellName)); got != "x" {
		t.Errorf("selection is in %q, want x", got)
	}
}

func TestClipboard_SingleCellExpandsTable(t *testing.T) {
	m, table := newTestModel(t, plainTable("", 2, 2))
	c := NewClipboard(m, true, zaptest.NewLogger(t))
	collapseIn(t, m, cellByText(t, table, "11"))

	ok, err := c.InsertContent(parseContent(t, plainTable("", 2, 2)))
	if err != nil || !ok {
		t.Fatalf("InsertContent() = %v, %v", ok, err)
	}
	checkGrid(t, table, [][]string{
		{"00", "01", "."},
		{"10", "00", "01"},
		{".", "10", "11"},
	})
	sel := NewSelection(m, zaptest.NewLogger(t))
	if diff := cmp.Diff([]string{"00", "01", "10", "11"}, texts(sel.SelectedTableCells())); diff != "" {
		t.Errorf("selected cells (-want +got):\n%s", diff)
	}
}

func TestClipboard_TilesPastedTable(t *testing.T) {
	m, table := newTestModel(t, buildTable("", []string{"a", "b", "c", "d"}))
	c := NewClipboard(m, true, zaptest.NewLogger(t))
	sel := NewSelection(m, zaptest.NewLogger(t))
	if err := sel.SetCellSelection(cellByText(t, table, "a"), cellByText(t, table, "d")); err != nil {
		t.Fatalf("SetCellSelection() error = %v", err)
	}

	ok, err := c.InsertContent(parseContent(t, buildTable("", []string{"x", "y"})))
	if err != nil || !ok {
		t.Fatalf("InsertContent() = %v, %v", ok, err)
	}
	checkGrid(t, table, [][]string{{"x", "y", "x", "y"}})

	cells := sel.SelectedTableCells()
	if len(cells) != 4 {
		t.Fatalf("%d cells selected, want 4", len(cells))
	}
	if cells[0] == cells[2] || cells[0].ChildElements()[0] == cells[2].ChildElements()[0] {
		t.Error("tiled cells share elements")
	}
}

func TestClipboard_PastedTableCroppedToSelection(t *testing.T) {
	m, table := newTestModel(t, plainTable("", 3, 3))
	c := NewClipboard(m, false, zaptest.NewLogger(t))
	sel := NewSelection(m, zaptest.NewLogger(t))
	if err := sel.SetCellSelection(cellByText(t, table, "11"), cellByText(t, table, "12")); err != nil {
		t.Fatalf("SetCellSelection() error = %v", err)
	}

	content := parseContent(t, buildTable("", []string{"x", "y", "z"}, []string{"u", "v", "w"}))
	ok, err := c.InsertContent(content)
	if err != nil || !ok {
		t.Fatalf("InsertContent() = %v, %v", ok, err)
	}
	checkGrid(t, table, [][]string{
		{"00", "01", "02"},
		{"10", "x", "y"},
		{"20", "21", "22"},
	})
}

func TestClipboard_SplitsSpannedCellsInPasteArea(t *testing.T) {
	m, table := newTestModel(t, spannedTable())
	c := NewClipboard(m, false, zaptest.NewLogger(t))
	collapseIn(t, m, cellByText(t, table, "12"))

	ok, err := c.InsertContent(parseContent(t, buildTable("", []string{"x"}, []string{"y"})))
	if err != nil || !ok {
		t.Fatalf("InsertContent() = %v, %v", ok, err)
	}
	checkGrid(t, table, [][]string{
		{"00", "01", "02"},
		{"10", "^", "x"},
		{"20", "<", "y"},
	})

	collapseIn(t, m, cellByText(t, table, "10"))
	ok, err = c.InsertContent(parseContent(t, buildTable("", []string{"p", "q"})))
	if err != nil || !ok {
		t.Fatalf("InsertContent() = %v, %v", ok, err)
	}
	checkGrid(t, table, [][]string{
		{"00", "01", "02"},
		{"p", "q", "x"},
		{"20", "<", "y"},
	})
}

func TestClipboard_HeadingBoundaryIsKept(t *testing.T) {
	m, table := newTestModel(t, plainTable(` headingRows="1"`, 2, 2))
	c := NewClipboard(m, false, zaptest.NewLogger(t))
	sel := NewSelection(m, zaptest.NewLogger(t))
	if err := sel.SetCellSelection(cellByText(t, table, "00"), cellByText(t, table, "11")); err != nil {
		t.Fatalf("SetCellSelection() error = %v", err)
	}

	ok, err := c.InsertContent(parseContent(t, buildTable("", []string{"p|r2"}, []string{})))
	if err != nil || !ok {
		t.Fatalf("InsertContent() = %v, %v", ok, err)
	}
	checkGrid(t, table, [][]string{{"p", "p"}, {"p", "p"}})
	if got := model.HeadingRows(table); got != 1 {
		t.Errorf("HeadingRows() = %d, want 1", got)
	}
}

func TestClipboard_NotHandled(t *testing.T) {
	t.Run("no table in content", func(t *testing.T) {
		m, table := newTestModel(t, plainTable("", 2, 2))
		c := NewClipboard(m, false, zaptest.NewLogger(t))
		collapseIn(t, m, cellByText(t, table, "00"))
		before := model.String(m.Root())

		ok, err := c.InsertContent(parseContent(t, "<paragraph>x</paragraph>"))
		if ok || err != nil {
			t.Errorf("InsertContent() = %v, %v", ok, err)
		}
		if after := model.String(m.Root()); after != before {
			t.Errorf("document changed:\n%s", after)
		}
	})

	t.Run("no cells selected", func(t *testing.T) {
		m, err := model.ParseXML(
			strings.NewReader("<paragraph>text</paragraph>"+plainTable("", 1, 1)),
			zaptest.NewLogger(t))
		if err != nil {
			t.Fatalf("ParseXML() error = %v", err)
		}
		change(t, m, func(w *model.Writer) error {
			w.SetSelectionAt(model.PositionAt(m.FindFirst(model.ParagraphName), 0))
			return nil
		})
		c := NewClipboard(m, false, zaptest.NewLogger(t))
		content := parseContent(t, buildTable("", []string{"p|r2"}, []string{}))

		ok, err := c.InsertContent(content)
		if ok || err != nil {
			t.Errorf("InsertContent() = %v, %v", ok, err)
		}
		pasted := TableIfOnlyTableInContent(content)
		if got := Rows(pasted); got != 1 {
			t.Errorf("pasted table has %d rows after cleanup, want 1", got)
		}
		if cell := model.FindFirst(pasted, model.CellName); cell.SelectAttr(model.AttrRowspan) != nil {
			t.Errorf("rowspan kept: %s", model.String(cell))
		}
	})
}

func TestClipboard_CustomReplaceSlotCell(t *testing.T) {
	m, table := newTestModel(t, plainTable("", 1, 2))
	c := NewClipboard(m, false, zaptest.NewLogger(t))
	var calls int
	c.ReplaceSlotCell = func(w *model.Writer, slot Slot, cell *etree.Element, pos model.Position) *etree.Element {
		calls++
		return ReplaceSlotCell(w, slot, cell, pos)
	}
	sel := NewSelection(m, zaptest.NewLogger(t))
	if err := sel.SetCellSelection(cellByText(t, table, "00"), cellByText(t, table, "01")); err != nil {
		t.Fatalf("SetCellSelection() error = %v", err)
	}
	if _, err := c.InsertContent(parseContent(t, plainTable("", 1, 1))); err != nil {
		t.Fatalf("InsertContent() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("ReplaceSlotCell called %d times, want 2", calls)
	}
	checkGrid(t, table, [][]string{{"00", "00"}})
}
