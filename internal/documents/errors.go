package documents

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrStatusConflict  = errors.New("document is not in the required status")
	ErrNoExtraction    = errors.New("document has no extraction")
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrTooLarge        = errors.New("file exceeds the upload limit")
)
