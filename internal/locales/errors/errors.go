package errors

import "errors"

var (
	ErrNotFound  = errors.New("local not found")
	ErrMissingID = errors.New("local id is required")
)
