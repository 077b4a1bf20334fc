package core

import "fmt"

type ErrorCode string

const (
	ErrBadRequest         ErrorCode = "TVRS_BAD_REQUEST"
	ErrUnauthorized       ErrorCode = "TVRS_UNAUTHORIZED"
	ErrForbidden          ErrorCode = "TVRS_FORBIDDEN"
	ErrNotFound           ErrorCode = "TVRS_NOT_FOUND"
	ErrConflictExists     ErrorCode = "TVRS_CONFLICT_EXISTS"
	ErrPreconditionFailed ErrorCode = "TVRS_PRECONDITION_FAILED"
	ErrInternal           ErrorCode = "TVRS_INTERNAL"
)

// HTTPStatus returns the HTTP status code for this error code.
func (e ErrorCode) HTTPStatus() int {
	switch e {
	case ErrBadRequest:
		return 400
	case ErrUnauthorized:
		return 401
	case ErrForbidden:
		return 403
	case ErrNotFound:
		return 404
	case ErrConflictExists:
		return 409
	case ErrPreconditionFailed:
		return 412
	default:
		return 500
	}
}

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}
