package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error independently of transport.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindValidation   Kind = "validation"
	KindInternal     Kind = "internal"
)

var kindStatus = map[Kind]int{
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
	KindInvalidState: http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindValidation:   http.StatusBadRequest,
	KindInternal:     http.StatusInternalServerError,
}

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error of the given kind. The HTTP code follows the kind.
func New(kind Kind, message string, err error) *Error {
	code, ok := kindStatus[kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func NotFound(message string) *Error     { return New(KindNotFound, message, nil) }
func Conflict(message string) *Error     { return New(KindConflict, message, nil) }
func InvalidState(message string) *Error { return New(KindInvalidState, message, nil) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message, nil) }
func Forbidden(message string) *Error    { return New(KindForbidden, message, nil) }
func Validation(message string) *Error   { return New(KindValidation, message, nil) }

// Internal hides the cause behind a generic message; the cause stays available to loggers.
func Internal(err error) *Error {
	return New(KindInternal, "Internal server error", err)
}

// Is reports whether err is an application error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// Common error messages shared across components
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgAccountBlocked     = "Your account has been blocked"
	MsgAdminOnly          = "Access denied. This portal is for Admins only."
	MsgInvalidToken       = "Invalid or expired token"
	MsgInsufficientStock  = "Insufficient stock available"
	MsgEmptyCart          = "Your cart is empty"
	MsgNotOwner           = "You are not allowed to access this resource"
)
