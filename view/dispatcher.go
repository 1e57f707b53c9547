// Package view converts between the document model and HTML. Downcast renders
// model tables as XHTML figures, Upcast reads HTML tables back into the model.
package view

import (
	"slices"

	"github.com/beevik/etree"
)

// Handler priorities, handlers with higher priority run first.
const (
	PriorityLowest  = -1000
	PriorityLow     = -100
	PriorityNormal  = 0
	PriorityHigh    = 100
	PriorityHighest = 1000
)

// AnyElement registers handler for the attribute on every element.
const AnyElement = "*"

// Attribute is a model attribute being converted.
type Attribute struct {
	Element *etree.Element
	Key     string
	Value   string
}

// AttributeHandler converts attribute into the view element. It returns true
// when attribute is consumed and no other handler should see it.
type AttributeHandler func(attr Attribute, view *etree.Element) bool

type dispatchKey struct {
	element   string
	attribute string
}

type registered struct {
	priority int
	order    int
	fn       AttributeHandler
}

// Dispatcher keeps ordered handler chains per element and attribute.
type Dispatcher struct {
	chains map[dispatchKey][]registered
	count  int
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{chains: make(map[dispatchKey][]registered)}
}

// On adds handler to the chain; handlers with equal priority run in order of
// registration.
func (d *Dispatcher) On(element, attribute string, priority int, fn AttributeHandler) {
	key := dispatchKey{element: element, attribute: attribute}
	d.count++
	chain := append(d.chains[key], registered{priority: priority, order: d.count, fn: fn})
	slices.SortStableFunc(chain, byPriority)
	d.chains[key] = chain
}

// Dispatch runs handlers registered for the element and then the ones for
// AnyElement until one of them consumes the attribute.
func (d *Dispatcher) Dispatch(attr Attribute, view *etree.Element) bool {
	chain := slices.Concat(
		d.chains[dispatchKey{element: attr.Element.Tag, attribute: attr.Key}],
		d.chains[dispatchKey{element: AnyElement, attribute: attr.Key}],
	)
	slices.SortStableFunc(chain, byPriority)
	for _, h := range chain {
		if h.fn(attr, view) {
			return true
		}
	}
	return false
}

func byPriority(a, b registered) int {
	if a.priority != b.priority {
		return b.priority - a.priority
	}
	return a.order - b.order
}
