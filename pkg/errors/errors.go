package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"escapedia/pkg/client"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeTimeout      = "TIMEOUT"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInvalidInput = "INVALID_INPUT"
)

// AppError is a failure that can be shown to the visitor as page state.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
	return data
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s no encontrado", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    message,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

func Unavailable(service string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s no está disponible en este momento", service),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// FromAPI turns a remote API failure into an AppError. The API message is kept verbatim.
func FromAPI(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var apiErr *client.APIError
	if !stderrors.As(err, &apiErr) {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return Wrap(err, CodeTimeout, "El servidor tardó demasiado en responder", http.StatusGatewayTimeout)
		}
		e := Unavailable("El servicio")
		e.Err = err
		return e
	}

	var out *AppError
	switch apiErr.StatusCode {
	case http.StatusNotFound:
		out = New(CodeNotFound, apiErr.Message, http.StatusNotFound)
	case http.StatusUnauthorized:
		out = Unauthorized(apiErr.Message)
	case http.StatusForbidden:
		out = Forbidden(apiErr.Message)
	case http.StatusConflict:
		out = Conflict(apiErr.Message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		out = New(CodeBadRequest, apiErr.Message, http.StatusBadRequest)
	default:
		if apiErr.StatusCode >= 500 {
			out = New(CodeUnavailable, apiErr.Message, http.StatusBadGateway)
		} else {
			out = New(CodeBadRequest, apiErr.Message, apiErr.StatusCode)
		}
	}
	out.Err = err
	return out
}

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	var apiErr *client.APIError
	if stderrors.As(err, &apiErr) {
		return FromAPI(err)
	}
	return Internal("Ha ocurrido un error inesperado", err)
}

func IsNotFound(err error) bool {
	return err != nil && AsAppError(err).Code == CodeNotFound
}

// UserMessage is the text a page shows for a failed API call.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return FromAPI(err).Message
}
