package table

import (
	"errors"
	"iter"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rtable/model"
)

type slotInfo struct {
	Row, Column             int
	AnchorRow, AnchorColumn int
	Text                    string
}

func collect(seq iter.Seq[Slot]) []slotInfo {
	var out []slotInfo
	for s := range seq {
		out = append(out, slotInfo{s.Row, s.Column, s.CellAnchorRow, s.CellAnchorColumn, model.TextContent(s.Cell)})
	}
	return out
}

func TestWalker_Bounds(t *testing.T) {
	_, table := newTestModel(t, spannedTable())

	tests := []struct {
		name string
		opts []func(*WalkerOptions)
		want []slotInfo
	}{
		{
			name: "anchors",
			want: []slotInfo{
				{0, 0, 0, 0, "00"}, {0, 1, 0, 1, "01"}, {0, 2, 0, 2, "02"},
				{1, 0, 1, 0, "10"}, {1, 2, 1, 2, "12"},
				{2, 0, 2, 0, "20"}, {2, 2, 2, 2, "22"},
			},
		},
		{
			name: "all slots",
			opts: []func(*WalkerOptions){WithAllSlots()},
			want: []slotInfo{
				{0, 0, 0, 0, "00"}, {0, 1, 0, 1, "01"}, {0, 2, 0, 2, "02"},
				{1, 0, 1, 0, "10"}, {1, 1, 0, 1, "01"}, {1, 2, 1, 2, "12"},
				{2, 0, 2, 0, "20"}, {2, 1, 2, 0, "20"}, {2, 2, 2, 2, "22"},
			},
		},
		{
			name: "column with all slots",
			opts: []func(*WalkerOptions){WithColumn(1), WithAllSlots()},
			want: []slotInfo{{0, 1, 0, 1, "01"}, {1, 1, 0, 1, "01"}, {2, 1, 2, 0, "20"}},
		},
		{
			name: "column anchors",
			opts: []func(*WalkerOptions){WithColumn(1)},
			want: []slotInfo{{0, 1, 0, 1, "01"}},
		},
		{
			name: "row",
			opts: []func(*WalkerOptions){WithRow(1)},
			want: []slotInfo{{1, 0, 1, 0, "10"}, {1, 2, 1, 2, "12"}},
		},
		{
			name: "start column",
			opts: []func(*WalkerOptions){WithStartColumn(1)},
			want: []slotInfo{{0, 1, 0, 1, "01"}, {0, 2, 0, 2, "02"}, {1, 2, 1, 2, "12"}, {2, 2, 2, 2, "22"}},
		},
		{
			name: "rectangle",
			opts: []func(*WalkerOptions){WithStartRow(1), WithEndRow(2), WithStartColumn(1), WithEndColumn(1), WithAllSlots()},
			want: []slotInfo{{1, 1, 0, 1, "01"}, {2, 1, 2, 0, "20"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWalker(table, tt.opts...)
			if err != nil {
				t.Fatalf("NewWalker() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, collect(w.All())); diff != "" {
				t.Errorf("slots mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalker_ColspanInFirstRow(t *testing.T) {
	_, table := newTestModel(t, buildTable("", []string{"a|c2"}, []string{"b", "c"}))

	if got := Columns(table); got != 2 {
		t.Errorf("Columns() = %d, want 2", got)
	}
	anchors := collect(newWalker(table).All())
	want := []slotInfo{{0, 0, 0, 0, "a"}, {1, 0, 1, 0, "b"}, {1, 1, 1, 1, "c"}}
	if diff := cmp.Diff(want, anchors); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}
	all := collect(newWalker(table, WithAllSlots()).All())
	want = []slotInfo{{0, 0, 0, 0, "a"}, {0, 1, 0, 0, "a"}, {1, 0, 1, 0, "b"}, {1, 1, 1, 1, "c"}}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("all slots mismatch (-want +got):\n%s", diff)
	}
}

func TestWalker_HugeSpans(t *testing.T) {
	_, table := newTestModel(t, buildTable("", []string{"a|c2000r2000", "b"}, []string{"c"}))

	if got := Rows(table); got != 2 {
		t.Errorf("Rows() = %d, want 2", got)
	}
	if got := Columns(table); got != 2001 {
		t.Errorf("Columns() = %d, want 2001", got)
	}
	anchors := collect(newWalker(table).All())
	want := []slotInfo{{0, 0, 0, 0, "a"}, {0, 2000, 0, 2000, "b"}, {1, 2000, 1, 2000, "c"}}
	if diff := cmp.Diff(want, anchors); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}
	var covered int
	for s := range newWalker(table, WithRow(1), WithAllSlots()).All() {
		if s.Cell == cellByText(t, table, "a") {
			covered++
		}
	}
	if covered != 2000 {
		t.Errorf("slots of a in second row = %d, want 2000", covered)
	}
}

func TestWalker_CellIndex(t *testing.T) {
	// | a     | b |
	// | c | d | ^ |
	_, table := newTestModel(t, buildTable("", []string{"a|c2", "b|r2"}, []string{"c", "d"}))

	var got [][3]int
	for s := range newWalker(table, WithAllSlots()).All() {
		got = append(got, [3]int{s.Row, s.Column, s.CellIndex()})
	}
	want := [][3]int{{0, 0, 0}, {0, 1, 0}, {0, 2, 1}, {1, 0, 0}, {1, 1, 1}, {1, 2, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cell indexes mismatch (-want +got):\n%s", diff)
	}
}

func TestWalker_SkipRow(t *testing.T) {
	_, table := newTestModel(t, spannedTable())

	w := newWalker(table, WithAllSlots())
	var got []slotInfo
	for s := range w.All() {
		if s.Row == 0 && s.Column == 0 {
			w.SkipRow(1)
		}
		got = append(got, slotInfo{s.Row, s.Column, s.CellAnchorRow, s.CellAnchorColumn, model.TextContent(s.Cell)})
	}
	want := []slotInfo{
		{0, 0, 0, 0, "00"}, {0, 1, 0, 1, "01"}, {0, 2, 0, 2, "02"},
		{2, 0, 2, 0, "20"}, {2, 1, 2, 0, "20"}, {2, 2, 2, 2, "22"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
}

func TestWalker_Restartable(t *testing.T) {
	_, table := newTestModel(t, spannedTable())

	w := newWalker(table, WithAllSlots())
	first := collect(w.All())
	for range w.All() {
		break
	}
	if diff := cmp.Diff(first, collect(w.All())); diff != "" {
		t.Errorf("second walk differs (-first +second):\n%s", diff)
	}
}

func TestWalker_NotTable(t *testing.T) {
	_, table := newTestModel(t, spannedTable())

	_, err := NewWalker(model.FindFirst(table, model.ParagraphName))
	if !errors.Is(err, ErrNotTable) {
		t.Errorf("NewWalker(paragraph) error = %v, want %v", err, ErrNotTable)
	}
}

func TestSlot_PositionBefore(t *testing.T) {
	_, table := newTestModel(t, spannedTable())

	for s := range newWalker(table, WithRow(1), WithColumn(1), WithAllSlots()).All() {
		if s.IsAnchor() {
			t.Fatalf("slot (1, 1) reported as anchor")
		}
		if s.RowElement() != cellByText(t, table, "10").Parent() {
			t.Errorf("RowElement() is not the second row")
		}
		next := s.PositionBefore(0).NodeAfter()
		if next != cellByText(t, table, "12") {
			t.Errorf("PositionBefore(0) is not in front of cell 12")
		}
		if s.CellWidth() != 1 || s.CellHeight() != 2 {
			t.Errorf("cell size = %dx%d, want 1x2", s.CellWidth(), s.CellHeight())
		}
	}
}
