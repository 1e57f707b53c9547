package table

import (
	"errors"
	"testing"

	"go.uber.org/multierr"

	"rtable/model"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		errors int
	}{
		{"plain", plainTable("", 2, 3), 0},
		{"spanned", withWidths(spannedTable(), "20%,30%,50%"), 0},
		{"headings", plainTable(` headingRows="2" headingColumns="1"`, 2, 2), 0},
		{
			name: "broken",
			src: `<table headingColumns="5"><tableRow><tableCell rowspan="3"><paragraph/></tableCell><tableCell/></tableRow>` +
				`<tableRow/></table>`,
			errors: 4,
		},
		{"non canonical span", buildTable("", []string{"a|c1"}), 1},
		{"uncovered slot", buildTable("", []string{"a|r2", "b"}, []string{"c|c2"}), 1},
		{"width count", withWidths(plainTable("", 1, 2), "100%"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := model.ParseElementString(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			err = Validate(table)
			if got := len(multierr.Errors(err)); got != tt.errors {
				t.Errorf("Validate() = %v, want %d errors", err, tt.errors)
			}
			if err != nil && !errors.Is(err, ErrInvalidTable) {
				t.Errorf("Validate() error %v is not ErrInvalidTable", err)
			}
		})
	}
}

func TestValidate_NotTable(t *testing.T) {
	el, err := model.ParseElementString("<paragraph/>")
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(el); !errors.Is(err, ErrNotTable) {
		t.Errorf("Validate() error = %v, want %v", err, ErrNotTable)
	}
}
