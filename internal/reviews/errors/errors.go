package errors

import "errors"

var ErrMissingReference = errors.New("booking and room ids are required")
