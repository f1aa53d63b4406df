package errors

import "errors"

var (
	ErrInvalidResetToken = errors.New("password reset token is missing")
	ErrNotAuthenticated  = errors.New("authentication required")
)
