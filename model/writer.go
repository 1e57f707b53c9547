package model

import (
	"slices"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Writer performs all document changes. It records inverse of every mutation so
// the enclosing Model.Change can discard the whole batch on failure. Writer is
// valid only inside the Change callback it was passed to.
type Writer struct {
	model    *Model
	undo     []func()
	log      *zap.Logger
	detached bool
	ops      int
}

func (w *Writer) record(inverse func()) {
	w.ops++
	if w.detached {
		return
	}
	w.undo = append(w.undo, inverse)
}

// Operations returns number of mutations performed so far.
func (w *Writer) Operations() int {
	return w.ops
}

func (w *Writer) rollback() {
	for i := len(w.undo) - 1; i >= 0; i-- {
		w.undo[i]()
	}
	w.log.Debug("Change rolled back", zap.Int("operations", w.ops))
	w.undo, w.ops = nil, 0
}

// Model returns the model this writer belongs to.
func (w *Writer) Model() *Model {
	return w.model
}

// CreateElement creates detached element, kv holds attribute key, value pairs.
func (w *Writer) CreateElement(name string, kv ...string) *etree.Element {
	el := etree.NewElement(name)
	for i := 0; i+1 < len(kv); i += 2 {
		el.CreateAttr(kv[i], kv[i+1])
	}
	return el
}

// CreateFragment creates detached document fragment.
func (w *Writer) CreateFragment() *etree.Element {
	return etree.NewElement(FragmentName)
}

// Clone returns deep detached copy of the element.
func (w *Writer) Clone(el *etree.Element) *etree.Element {
	return el.Copy()
}

// Insert puts token at position, detaching it from its current parent first.
func (w *Writer) Insert(tok etree.Token, pos Position) {
	if p := tok.Parent(); p != nil {
		if p == pos.Parent && tok.Index() < pos.Offset {
			pos.Offset--
		}
		w.detach(tok)
	}
	parent := pos.Parent
	parent.InsertChildAt(pos.Offset, tok)
	w.record(func() {
		if tok.Parent() == parent {
			parent.RemoveChildAt(tok.Index())
		}
	})
	w.shiftSelection(parent, pos.Offset, 1)
}

// InsertAt inserts token into parent at the offset.
func (w *Writer) InsertAt(tok etree.Token, parent *etree.Element, offset int) {
	w.Insert(tok, PositionAt(parent, offset))
}

// Append inserts token as the last child of parent.
func (w *Writer) Append(tok etree.Token, parent *etree.Element) {
	w.Insert(tok, PositionAtEnd(parent))
}

// InsertElement creates element with the name and appends it to parent.
func (w *Writer) InsertElement(name string, parent *etree.Element, kv ...string) *etree.Element {
	el := w.CreateElement(name, kv...)
	w.Append(el, parent)
	return el
}

// InsertText appends text to parent.
func (w *Writer) InsertText(text string, parent *etree.Element) {
	w.Append(etree.NewText(text), parent)
}

// Move is Insert for a token which is already attached somewhere.
func (w *Writer) Move(tok etree.Token, pos Position) {
	w.Insert(tok, pos)
}

// Remove detaches token from its parent. Removing detached token is a no-op.
func (w *Writer) Remove(tok etree.Token) {
	if tok.Parent() == nil {
		return
	}
	w.detach(tok)
}

func (w *Writer) detach(tok etree.Token) {
	parent, idx := tok.Parent(), tok.Index()
	parent.RemoveChildAt(idx)
	w.record(func() {
		parent.InsertChildAt(idx, tok)
	})
	w.shiftSelection(parent, idx, -1)
}

// shiftSelection keeps document selection on the same children of parent.
// It is not counted as an operation.
func (w *Writer) shiftSelection(parent *etree.Element, index, delta int) {
	if w.detached {
		return
	}
	prev := w.model.selection
	next, changed := prev.shifted(parent, index, delta)
	if !changed {
		return
	}
	w.model.selection = next
	w.undo = append(w.undo, func() { w.model.selection = prev })
}

// RemoveChildren removes all children of el.
func (w *Writer) RemoveChildren(el *etree.Element) {
	for len(el.Child) > 0 {
		w.detach(el.Child[len(el.Child)-1])
	}
}

// MoveChildren moves all children of from to the end of to.
func (w *Writer) MoveChildren(from, to *etree.Element) {
	for len(from.Child) > 0 {
		w.Insert(from.Child[0], PositionAtEnd(to))
	}
}

// SetAttribute sets attribute value on the element.
func (w *Writer) SetAttribute(key, value string, el *etree.Element) {
	if old := el.SelectAttr(key); old != nil {
		prev := old.Value
		if prev == value {
			return
		}
		el.CreateAttr(key, value)
		w.record(func() { el.CreateAttr(key, prev) })
		return
	}
	el.CreateAttr(key, value)
	w.record(func() { el.RemoveAttr(key) })
}

// RemoveAttribute removes attribute from the element if present.
func (w *Writer) RemoveAttribute(key string, el *etree.Element) {
	idx := slices.IndexFunc(el.Attr, func(a etree.Attr) bool { return a.Space == "" && a.Key == key })
	if idx < 0 {
		return
	}
	saved := el.Attr[idx]
	el.RemoveAttr(key)
	w.record(func() {
		el.Attr = slices.Insert(el.Attr, min(idx, len(el.Attr)), saved)
	})
}

// SetSelection replaces document selection. It is ignored by detached
// writers.
func (w *Writer) SetSelection(ranges []Range, backward bool) {
	if w.detached {
		return
	}
	prev := w.model.selection
	w.model.selection = NewSelection(ranges, backward)
	w.record(func() { w.model.selection = prev })
}

// SetSelectionIn selects all content of the element.
func (w *Writer) SetSelectionIn(el *etree.Element) {
	w.SetSelection([]Range{RangeIn(el)}, false)
}

// SetSelectionOn selects the element itself.
func (w *Writer) SetSelectionOn(el *etree.Element) {
	w.SetSelection([]Range{RangeOn(el)}, false)
}

// SetSelectionAt collapses selection at the position.
func (w *Writer) SetSelectionAt(pos Position) {
	w.SetSelection([]Range{{Start: pos, End: pos}}, false)
}
