package common

import (
	"errors"
	"testing"
)

func TestOutputFmt_String(t *testing.T) {
	tests := []struct {
		fmt      OutputFmt
		expected string
	}{
		{OutputFmtHtml, "html"},
		{OutputFmtModel, "model"},
		{OutputFmt(99), "OutputFmt(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.fmt.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestOutputFmt_Ext(t *testing.T) {
	if got := OutputFmtHtml.Ext(); got != ".html" {
		t.Errorf("Ext() = %q, want .html", got)
	}
	if got := OutputFmtModel.Ext(); got != ".xml" {
		t.Errorf("Ext() = %q, want .xml", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("Ext() on invalid format should panic")
		}
	}()
	_ = OutputFmt(42).Ext()
}

func TestParseOutputFmt(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  OutputFmt
		shouldErr bool
	}{
		{"html", "html", OutputFmtHtml, false},
		{"HTML uppercase", "HTML", OutputFmtHtml, false},
		{"model", "model", OutputFmtModel, false},
		{"invalid", "pdf", OutputFmt(0), true},
		{"empty", "", OutputFmt(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOutputFmt(tt.input)
			if tt.shouldErr {
				if !errors.Is(err, ErrInvalidOutputFmt) {
					t.Errorf("expected ErrInvalidOutputFmt, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseOutputFmt(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestOutputFmt_TextMarshaling(t *testing.T) {
	text, err := OutputFmtModel.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var f OutputFmt
	if err := f.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if f != OutputFmtModel {
		t.Errorf("got %v, want model", f)
	}
	if err := f.UnmarshalText([]byte("docx")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestPlacement(t *testing.T) {
	tests := []struct {
		input string
		want  Placement
		isRow bool
	}{
		{"above", PlacementAbove, true},
		{"below", PlacementBelow, true},
		{"left", PlacementLeft, false},
		{"Right", PlacementRight, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlacement(tt.input)
			if err != nil {
				t.Fatalf("ParsePlacement: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got.IsRow() != tt.isRow {
				t.Errorf("IsRow() = %v, want %v", got.IsRow(), tt.isRow)
			}
		})
	}

	if _, err := ParsePlacement("middle"); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("expected ErrInvalidPlacement, got %v", err)
	}
	if len(PlacementNames()) != 4 {
		t.Errorf("PlacementNames() = %v", PlacementNames())
	}
}

func TestSplitDirection(t *testing.T) {
	if MustParseSplitDirection("vertical") != SplitDirectionVertical {
		t.Error("vertical did not parse")
	}
	if MustParseSplitDirection("horizontal") != SplitDirectionHorizontal {
		t.Error("horizontal did not parse")
	}
	if SplitDirection(7).IsValid() {
		t.Error("SplitDirection(7) should be invalid")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParseSplitDirection should panic on bad input")
		}
	}()
	MustParseSplitDirection("diagonal")
}
