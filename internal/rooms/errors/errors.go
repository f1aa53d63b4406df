package errors

import "errors"

var (
	ErrNotFound     = errors.New("room not found")
	ErrMissingID    = errors.New("room id is required")
	ErrUploadFailed = errors.New("cover upload failed")
)
