package apierr

import (
	"fmt"
	"net/http"
)

// Error codes surfaced to API clients.
const (
	CodeNotEntitled     = "not_entitled"
	CodeNotFound        = "not_found"
	CodeLimitReached    = "limit_reached"
	CodeNoSession       = "no_session"
	CodeValidationError = "validation_error"
)

// MsgPurchaseRequired is the exact body clients key off when a quiz has not
// been purchased.
const MsgPurchaseRequired = "You must purchase this quiz to access its questions."

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotEntitled() *Error {
	return New(http.StatusBadRequest, CodeNotEntitled, fmt.Errorf("%s", MsgPurchaseRequired))
}

func NotFound(what string) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf("%s not found", what))
}

func LimitReached(limit int) *Error {
	return New(http.StatusBadRequest, CodeLimitReached, fmt.Errorf("you have already answered %d questions for this quiz", limit))
}

func NoSession() *Error {
	return New(http.StatusNotFound, CodeNoSession, fmt.Errorf("no test session found"))
}

func Validation(err error) *Error {
	return New(http.StatusBadRequest, CodeValidationError, err)
}
