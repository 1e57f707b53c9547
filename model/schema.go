// Package model is the document model the table engine works on. Elements are
// beevik/etree elements, so parent links, attributes and deep copies come from
// etree while all mutations go through a scoped Writer obtained from
// Model.Change.
package model

import (
	"strings"

	"github.com/beevik/etree"
)

// Element names.
const (
	RootName        = "root"
	FragmentName    = "documentFragment"
	TableName       = "table"
	RowName         = "tableRow"
	CellName        = "tableCell"
	ParagraphName   = "paragraph"
	CaptionName     = "caption"
	ColumnGroupName = "tableColumnGroup"
)

// Attribute names.
const (
	AttrHeadingRows    = "headingRows"
	AttrHeadingColumns = "headingColumns"
	AttrRowspan        = "rowspan"
	AttrColspan        = "colspan"
	AttrColumnWidths   = "columnWidths"
)

// Is reports whether el is an element with the given name.
func Is(el *etree.Element, name string) bool {
	return el != nil && el.Tag == name
}

// FindAncestor returns the closest ancestor of el (el excluded) with the given
// name.
func FindAncestor(el *etree.Element, name string) *etree.Element {
	if el == nil {
		return nil
	}
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.Tag == name {
			return p
		}
	}
	return nil
}

// FindAncestorOrSelf is like FindAncestor but also considers el itself.
func FindAncestorOrSelf(el *etree.Element, name string) *etree.Element {
	if Is(el, name) {
		return el
	}
	return FindAncestor(el, name)
}

// ChildrenNamed returns child elements of el with the given name in document
// order.
func ChildrenNamed(el *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == name {
			out = append(out, c)
		}
	}
	return out
}

// IsStructural reports whether el may only hold elements (no text).
func IsStructural(el *etree.Element) bool {
	if el == nil {
		return false
	}
	switch el.Tag {
	case ParagraphName, CaptionName:
		return false
	}
	return true
}

// IsEmptyParagraph reports whether el is a paragraph without any text.
func IsEmptyParagraph(el *etree.Element) bool {
	if !Is(el, ParagraphName) {
		return false
	}
	return len(el.Child) == 0 || (len(el.ChildElements()) == 0 && el.Text() == "")
}

// IsEmptyCell reports whether cell holds nothing but a single empty paragraph.
func IsEmptyCell(cell *etree.Element) bool {
	children := cell.ChildElements()
	return len(children) == 1 && IsEmptyParagraph(children[0])
}

// TextContent returns all text under el with blocks separated by a single space.
func TextContent(el *etree.Element) string {
	var parts []string
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if !IsStructural(e) {
			if t := strings.TrimSpace(innerText(e)); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(el)
	return strings.Join(parts, " ")
}

func innerText(e *etree.Element) string {
	var sb strings.Builder
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			sb.WriteString(innerText(t))
		}
	}
	return sb.String()
}
