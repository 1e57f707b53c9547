package table

import "errors"

var (
	ErrNotTable        = errors.New("element is not a table")
	ErrNotInTable      = errors.New("cell does not belong to a table")
	ErrOutOfRange      = errors.New("index out of range")
	ErrNotRectangular  = errors.New("selected cells do not form a rectangle")
	ErrMixedSections   = errors.New("selected cells belong to both heading and body sections")
	ErrNoSelection     = errors.New("no table cells selected")
	ErrCommandDisabled = errors.New("command cannot be executed in current state")
)
