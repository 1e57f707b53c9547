package model

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// PostFixer is called after every successful change and may modify the
// document further. It returns true when it did. Post-fixers are repeated until
// none of them reports a modification.
type PostFixer func(w *Writer) bool

// ChangeListener is notified once per applied change with the number of
// mutations it consisted of.
type ChangeListener func(operations int)

// ErrPostFixersUnstable is returned when post-fixers keep modifying document.
var ErrPostFixersUnstable = errors.New("post-fixers did not settle")

const maxPostFixerPasses = 32

// Model owns the document tree and the document selection.
type Model struct {
	root       *etree.Element
	selection  Selection
	writer     *Writer
	postFixers []PostFixer
	listeners  []ChangeListener
	log        *zap.Logger
}

// New creates model with empty root.
func New(log *zap.Logger) *Model {
	return NewWithRoot(etree.NewElement(RootName), log)
}

// NewWithRoot creates model owning root element, root is detached from any
// parent it may have.
func NewWithRoot(root *etree.Element, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	if p := root.Parent(); p != nil {
		p.RemoveChild(root)
	}
	return &Model{root: root, log: log.Named("model")}
}

func (m *Model) Root() *etree.Element {
	return m.root
}

func (m *Model) Selection() Selection {
	return m.selection
}

func (m *Model) RegisterPostFixer(fn PostFixer) {
	m.postFixers = append(m.postFixers, fn)
}

func (m *Model) OnChange(fn ChangeListener) {
	m.listeners = append(m.listeners, fn)
}

// InChange reports whether a change is in progress.
func (m *Model) InChange() bool {
	return m.writer != nil
}

// Change runs fn with a writer. Nested calls share the outermost scope. When
// the outermost fn returns an error (or panics) every mutation done in the
// scope is reverted.
func (m *Model) Change(fn func(w *Writer) error) (err error) {
	if m.writer != nil {
		return fn(m.writer)
	}

	w := &Writer{model: m, log: m.log}
	m.writer = w
	done := false
	defer func() {
		if !done {
			w.rollback()
		}
		m.writer = nil
	}()

	if err = fn(w); err != nil {
		w.rollback()
		done = true
		return err
	}

	for pass := 0; ; pass++ {
		if pass == maxPostFixerPasses {
			w.rollback()
			done = true
			return ErrPostFixersUnstable
		}
		changed := false
		for _, pf := range m.postFixers {
			if pf(w) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	done = true

	m.selection = m.selection.sanitized(m.root)
	if ops := w.Operations(); ops > 0 {
		m.log.Debug("Change applied", zap.Int("operations", ops))
		for _, l := range m.listeners {
			l(ops)
		}
	}
	return nil
}

// FindFirst returns the first element with the given name in document order.
func (m *Model) FindFirst(name string) *etree.Element {
	return FindFirst(m.root, name)
}

// FindAll returns all elements with the given name in document order, nested
// ones included.
func (m *Model) FindAll(name string) []*etree.Element {
	return FindAll(m.root, name)
}

func FindFirst(el *etree.Element, name string) *etree.Element {
	if all := FindAll(el, name); len(all) > 0 {
		return all[0]
	}
	return nil
}

func FindAll(el *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			if c.Tag == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(el)
	return out
}

// Nth returns n-th (0 based) element with the name or an error.
func (m *Model) Nth(name string, n int) (*etree.Element, error) {
	all := m.FindAll(name)
	if n < 0 || n >= len(all) {
		return nil, fmt.Errorf("%s #%d not found, document has %d", name, n, len(all))
	}
	return all[n], nil
}

// Detached runs fn with a writer meant for building content outside of the
// document, such as clipboard fragments. Nothing is reverted, post-fixers are
// not run and listeners are not notified, so fn must not touch the document
// tree itself.
func (m *Model) Detached(fn func(w *Writer) error) error {
	w := &Writer{model: m, log: m.log, detached: true}
	return fn(w)
}
