package model

import (
	"slices"

	"github.com/beevik/etree"
)

// Position is a location between two children of Parent. Offset indexes
// Parent.Child, so it is only meaningful until Parent children change. The
// document selection is the exception, Writer moves its positions with every
// insertion and removal.
type Position struct {
	Parent *etree.Element
	Offset int
}

func PositionAt(parent *etree.Element, offset int) Position {
	return Position{Parent: parent, Offset: offset}
}

func PositionAtEnd(parent *etree.Element) Position {
	return Position{Parent: parent, Offset: len(parent.Child)}
}

func PositionBefore(tok etree.Token) Position {
	return Position{Parent: tok.Parent(), Offset: tok.Index()}
}

func PositionAfter(tok etree.Token) Position {
	return Position{Parent: tok.Parent(), Offset: tok.Index() + 1}
}

// Path returns offsets leading from the tree root to the position.
func (p Position) Path() []int {
	path := []int{p.Offset}
	for el := p.Parent; el != nil && el.Parent() != nil; el = el.Parent() {
		path = append(path, el.Index())
	}
	slices.Reverse(path)
	return path
}

// Compare returns -1, 0 or 1 depending on document order of p and o.
func (p Position) Compare(o Position) int {
	return slices.Compare(p.Path(), o.Path())
}

func (p Position) IsBefore(o Position) bool {
	return p.Compare(o) < 0
}

// NodeAfter returns token directly after the position or nil.
func (p Position) NodeAfter() etree.Token {
	if p.Parent == nil || p.Offset < 0 || p.Offset >= len(p.Parent.Child) {
		return nil
	}
	return p.Parent.Child[p.Offset]
}

// FindAncestor returns the closest element containing the position (starting
// with the position parent) with the given name.
func (p Position) FindAncestor(name string) *etree.Element {
	return FindAncestorOrSelf(p.Parent, name)
}

// Root returns the top element of the tree position belongs to.
func (p Position) Root() *etree.Element {
	el := p.Parent
	for el != nil && el.Parent() != nil {
		el = el.Parent()
	}
	return el
}

func (p Position) shifted(parent *etree.Element, index, delta int, inclusive bool) (Position, bool) {
	if p.Parent != parent {
		return p, false
	}
	if p.Offset > index || (delta > 0 && inclusive && p.Offset == index) {
		p.Offset += delta
		return p, true
	}
	return p, false
}

func (p Position) valid() bool {
	return p.Parent != nil && p.Offset >= 0 && p.Offset <= len(p.Parent.Child)
}

// Range is a pair of positions, Start is never after End.
type Range struct {
	Start Position
	End   Position
}

func NewRange(start, end Position) Range {
	if end.IsBefore(start) {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// RangeOn returns range containing exactly the given element.
func RangeOn(el *etree.Element) Range {
	return Range{Start: PositionBefore(el), End: PositionAfter(el)}
}

// RangeIn returns range spanning all children of the element.
func RangeIn(el *etree.Element) Range {
	return Range{Start: PositionAt(el, 0), End: PositionAtEnd(el)}
}

func (r Range) IsCollapsed() bool {
	return r.Start.Parent == r.End.Parent && r.Start.Offset == r.End.Offset
}

// ContainedElement returns the element if the range contains exactly one
// element and nothing else.
func (r Range) ContainedElement() *etree.Element {
	if r.Start.Parent == nil || r.Start.Parent != r.End.Parent || r.End.Offset != r.Start.Offset+1 {
		return nil
	}
	el, _ := r.Start.NodeAfter().(*etree.Element)
	return el
}
