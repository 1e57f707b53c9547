package table

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"rtable/model"
)

func fixedModel(t *testing.T, src string) (*model.Model, *int) {
	t.Helper()
	m, err := model.ParseXML(strings.NewReader(src), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unable to parse model: %v", err)
	}
	RegisterPostFixers(m, zaptest.NewLogger(t))
	var notified int
	m.OnChange(func(int) { notified++ })
	change(t, m, func(*model.Writer) error { return nil })
	return m, &notified
}

func TestPostFixers(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  [][]string
		check func(t *testing.T, m *model.Model)
	}{
		{
			name: "canonical spans",
			src: `<table><tableRow><tableCell rowspan="1" colspan=" 2"><paragraph>a</paragraph></tableCell></tableRow>` +
				`<tableRow><tableCell><paragraph>b</paragraph></tableCell><tableCell><paragraph>c</paragraph></tableCell></tableRow></table>`,
			want: [][]string{{"a", "<"}, {"b", "c"}},
			check: func(t *testing.T, m *model.Model) {
				cell := m.FindFirst(model.CellName)
				if cell.SelectAttr(model.AttrRowspan) != nil {
					t.Error("rowspan=1 kept")
				}
				if got := cell.SelectAttrValue(model.AttrColspan, ""); got != "2" {
					t.Errorf("colspan = %q, want 2", got)
				}
			},
		},
		{
			name: "bad spans dropped",
			src:  `<table><tableRow><tableCell colspan="wide"><paragraph>a</paragraph></tableCell><tableCell rowspan="-1"><paragraph>b</paragraph></tableCell></tableRow></table>`,
			want: [][]string{{"a", "b"}},
		},
		{
			name: "cell content",
			src:  `<table><tableRow><tableCell>loose</tableCell><tableCell/></tableRow></table>`,
			want: [][]string{{"loose", "."}},
			check: func(t *testing.T, m *model.Model) {
				for _, cell := range m.FindAll(model.CellName) {
					if p := cell.ChildElements(); len(p) != 1 || p[0].Tag != model.ParagraphName {
						t.Errorf("cell content not fixed: %s", model.String(cell))
					}
				}
			},
		},
		{
			name: "rowspan past last row",
			src:  buildTable("", []string{"a|r5", "b"}, []string{"c"}),
			want: [][]string{{"a", "b"}, {"^", "c"}},
		},
		{
			name: "heading rowspan",
			src:  buildTable(` headingRows="1"`, []string{"a|r2", "b"}, []string{"c"}),
			want: [][]string{{"a", "b"}, {"c", "."}},
		},
		{
			name: "empty row removed",
			src:  buildTable("", []string{"a", "b"}, []string{}, []string{"c", "d"}),
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "short row padded",
			src:  buildTable("", []string{"a", "b", "c"}, []string{"d"}),
			want: [][]string{{"a", "b", "c"}, {"d", ".", "."}},
		},
		{
			name: "headings clamped",
			src:  plainTable(` headingRows="x" headingColumns="9"`, 2, 2),
			want: [][]string{{"00", "01"}, {"10", "11"}},
			check: func(t *testing.T, m *model.Model) {
				table := m.FindFirst(model.TableName)
				if table.SelectAttr(model.AttrHeadingRows) != nil {
					t.Error("malformed headingRows kept")
				}
				if got := model.HeadingColumns(table); got != 2 {
					t.Errorf("HeadingColumns() = %d, want 2", got)
				}
			},
		},
		{
			name: "extra widths truncated",
			src:  withWidths(plainTable("", 1, 2), "20%,30%,50%"),
			want: [][]string{{"00", "01"}},
			check: func(t *testing.T, m *model.Model) {
				if got := widthsOf(m.FindFirst(model.TableName)); got != "40%,60%" {
					t.Errorf("widths = %q, want 40%%,60%%", got)
				}
			},
		},
		{
			name: "missing widths padded",
			src:  withWidths(plainTable("", 1, 2), "40%"),
			want: [][]string{{"00", "01"}},
			check: func(t *testing.T, m *model.Model) {
				if got := widthsOf(m.FindFirst(model.TableName)); got != "44.44%,55.56%" {
					t.Errorf("widths = %q, want 44.44%%,55.56%%", got)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, notified := fixedModel(t, tt.src)
			checkGrid(t, m.FindFirst(model.TableName), tt.want)
			if *notified != 1 {
				t.Errorf("listeners notified %d times, want 1", *notified)
			}
			if tt.check != nil {
				tt.check(t, m)
			}
		})
	}
}

func TestPostFixers_ValidTableUntouched(t *testing.T) {
	src := withWidths(spannedTable(), "20%,30%,50%")
	m, notified := fixedModel(t, src)
	if *notified != 0 {
		t.Errorf("listeners notified %d times for valid table", *notified)
	}
	want, err := model.ParseElementString(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := model.String(m.FindFirst(model.TableName)); got != model.String(want) {
		t.Errorf("valid table changed:\n%s", got)
	}
}

func TestPostFixers_EveryTable(t *testing.T) {
	m, _ := fixedModel(t, buildTable("", []string{"a", "b"}, []string{"c"})+buildTable("", []string{"d"}, []string{"e", "f"}))
	tables := m.FindAll(model.TableName)
	if len(tables) != 2 {
		t.Fatalf("%d tables, want 2", len(tables))
	}
	checkGrid(t, tables[0], [][]string{{"a", "b"}, {"c", "."}})
	checkGrid(t, tables[1], [][]string{{"d", "."}, {"e", "f"}})
}
