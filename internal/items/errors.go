package items

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrParentCycle  = errors.New("item cannot be its own ancestor")
)
