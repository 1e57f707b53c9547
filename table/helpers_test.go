package table

import (
	"fmt"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"rtable/model"
)

// buildTable returns model XML of a table. Cells are given as "text" or
// "text|r2c3" where r and c set rowspan and colspan.
func buildTable(attrs string, rows ...[]string) string {
	var sb strings.Builder
	sb.WriteString("<table" + attrs + ">")
	for _, row := range rows {
		sb.WriteString("<tableRow>")
		for _, c := range row {
			text, spans, _ := strings.Cut(c, "|")
			sb.WriteString("<tableCell")
			for spans != "" {
				i := 1
				for i < len(spans) && spans[i] >= '0' && spans[i] <= '9' {
					i++
				}
				key := model.AttrColspan
				if spans[0] == 'r' {
					key = model.AttrRowspan
				}
				fmt.Fprintf(&sb, ` %s="%s"`, key, spans[1:i])
				spans = spans[i:]
			}
			sb.WriteString("><paragraph>" + text + "</paragraph></tableCell>")
		}
		sb.WriteString("</tableRow>")
	}
	sb.WriteString("</table>")
	return sb.String()
}

func plainTable(attrs string, rows, columns int) string {
	grid := make([][]string, rows)
	for r := range grid {
		for c := range columns {
			grid[r] = append(grid[r], fmt.Sprintf("%d%d", r, c))
		}
	}
	return buildTable(attrs, grid...)
}

// spannedTable is
//
//	| 00 | 01 | 02 |
//	| 10 | ^  | 12 |
//	| 20 | <  | 22 |
func spannedTable() string {
	return buildTable("",
		[]string{"00", "01|r2", "02"},
		[]string{"10", "12"},
		[]string{"20|c2", "22"},
	)
}

func newTestModel(t *testing.T, src string) (*model.Model, *etree.Element) {
	t.Helper()
	m, err := model.ParseXML(strings.NewReader(src), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unable to parse model: %v", err)
	}
	table := m.FindFirst(model.TableName)
	if table == nil {
		t.Fatalf("no table in %s", src)
	}
	return m, table
}

func change(t *testing.T, m *model.Model, fn func(w *model.Writer) error) {
	t.Helper()
	if err := m.Change(fn); err != nil {
		t.Fatalf("change failed: %v", err)
	}
}

func cellByText(t *testing.T, table *etree.Element, text string) *etree.Element {
	t.Helper()
	for _, c := range model.FindAll(table, model.CellName) {
		if model.TextContent(c) == text {
			return c
		}
	}
	t.Fatalf("cell %q not found in\n%s", text, Dump(table))
	return nil
}

func cellsByText(t *testing.T, table *etree.Element, texts ...string) []*etree.Element {
	t.Helper()
	out := make([]*etree.Element, 0, len(texts))
	for _, text := range texts {
		out = append(out, cellByText(t, table, text))
	}
	return out
}

func texts(cells []*etree.Element) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		out = append(out, model.TextContent(c))
	}
	return out
}

// checkGrid compares table grid and verifies table invariants.
func checkGrid(t *testing.T, table *etree.Element, want [][]string) {
	t.Helper()
	if diff := cmp.Diff(want, Grid(table)); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s\n%s", diff, Dump(table))
	}
	if err := Validate(table); err != nil {
		t.Errorf("invalid table: %v\n%s", err, Dump(table))
	}
}

func collapseIn(t *testing.T, m *model.Model, cell *etree.Element) {
	t.Helper()
	change(t, m, func(w *model.Writer) error {
		w.SetSelectionAt(model.PositionAt(cell.ChildElements()[0], 0))
		return nil
	})
}
