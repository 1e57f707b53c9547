package model

import (
	"slices"

	"github.com/beevik/etree"
)

// Selection is an immutable set of ranges with direction flag. Model keeps the
// current document selection, Writer replaces it.
type Selection struct {
	ranges   []Range
	backward bool
}

func NewSelection(ranges []Range, backward bool) Selection {
	return Selection{ranges: slices.Clone(ranges), backward: backward && len(ranges) > 0}
}

// Ranges returns selection ranges in the order they were set.
func (s Selection) Ranges() []Range {
	return slices.Clone(s.ranges)
}

func (s Selection) RangeCount() int {
	return len(s.ranges)
}

func (s Selection) IsEmpty() bool {
	return len(s.ranges) == 0
}

func (s Selection) IsBackward() bool {
	return s.backward
}

func (s Selection) IsCollapsed() bool {
	return len(s.ranges) == 1 && s.ranges[0].IsCollapsed()
}

// FirstRange returns range which starts first in document order.
func (s Selection) FirstRange() (Range, bool) {
	if len(s.ranges) == 0 {
		return Range{}, false
	}
	first := s.ranges[0]
	for _, r := range s.ranges[1:] {
		if r.Start.IsBefore(first.Start) {
			first = r
		}
	}
	return first, true
}

// LastRange returns range which ends last in document order.
func (s Selection) LastRange() (Range, bool) {
	if len(s.ranges) == 0 {
		return Range{}, false
	}
	last := s.ranges[0]
	for _, r := range s.ranges[1:] {
		if last.End.IsBefore(r.End) {
			last = r
		}
	}
	return last, true
}

// FirstPosition returns start of the first range.
func (s Selection) FirstPosition() (Position, bool) {
	r, ok := s.FirstRange()
	return r.Start, ok
}

// Anchor returns position where selection started: end of the last range for
// backward selection, start of the first range otherwise.
func (s Selection) Anchor() (Position, bool) {
	if s.backward {
		r, ok := s.LastRange()
		return r.End, ok
	}
	return s.FirstPosition()
}

// Focus is the opposite end of Anchor.
func (s Selection) Focus() (Position, bool) {
	if s.backward {
		return s.FirstPosition()
	}
	r, ok := s.LastRange()
	return r.End, ok
}

// SelectedElement returns the element when selection consists of a single
// range containing exactly one element.
func (s Selection) SelectedElement() *etree.Element {
	if len(s.ranges) != 1 {
		return nil
	}
	return s.ranges[0].ContainedElement()
}

// shifted returns selection with positions in parent adjusted after a child
// was inserted (delta 1) or removed (delta -1) at index. Ranges keep covering
// the same children: range start and collapsed carets move past a child
// inserted at their offset, range end does not.
func (s Selection) shifted(parent *etree.Element, index, delta int) (Selection, bool) {
	var ranges []Range
	for i, r := range s.ranges {
		collapsed := r.IsCollapsed()
		start, moved1 := r.Start.shifted(parent, index, delta, true)
		end, moved2 := r.End.shifted(parent, index, delta, collapsed)
		if !moved1 && !moved2 {
			continue
		}
		if ranges == nil {
			ranges = slices.Clone(s.ranges)
		}
		ranges[i] = Range{Start: start, End: end}
	}
	if ranges == nil {
		return s, false
	}
	return Selection{ranges: ranges, backward: s.backward}, true
}

// sanitized drops ranges pointing outside of the tree rooted at root.
func (s Selection) sanitized(root *etree.Element) Selection {
	var kept []Range
	for _, r := range s.ranges {
		if r.Start.valid() && r.End.valid() && r.Start.Root() == root && r.End.Root() == root {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(s.ranges) {
		return s
	}
	return NewSelection(kept, s.backward)
}
