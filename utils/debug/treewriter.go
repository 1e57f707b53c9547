// Package debug has helpers producing human readable dumps of model trees and
// table grids.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Element writes element name followed by its attributes in the given order,
// kv is expected to hold key, value pairs.
func (tw TreeWriter) Element(depth int, name string, kv ...string) {
	tw.indent(depth)
	tw.w.WriteString(name)
	for i := 0; i+1 < len(kv); i += 2 {
		tw.w.WriteByte(' ')
		tw.w.WriteString(kv[i])
		tw.w.WriteByte('=')
		tw.w.WriteString(strconv.Quote(kv[i+1]))
	}
	tw.w.WriteByte('\n')
}

// Row writes a single grid row with cells padded to the same width.
func (tw TreeWriter) Row(depth, width int, cells []string) {
	tw.indent(depth)
	tw.w.WriteByte('|')
	for _, c := range cells {
		tw.w.WriteByte(' ')
		tw.w.WriteString(c)
		for range width - len([]rune(c)) {
			tw.w.WriteByte(' ')
		}
		tw.w.WriteString(" |")
	}
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
