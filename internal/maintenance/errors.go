package maintenance

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDismissed    = errors.New("task is dismissed")
)
