// Package errors carries coded errors from storage and the filter engine up to
// the HTTP envelope. Import it as perr.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine readable half of an error. Numbers go on the wire,
// so existing values never move.
type ErrorCode uint16

const (
	ErrorCodeUnknown         ErrorCode = 0
	ErrorCodePanic           ErrorCode = 1
	ErrorCodeUnavailable     ErrorCode = 2
	ErrorCodeConflict        ErrorCode = 4
	ErrorCodeUnauthorized    ErrorCode = 5
	ErrorCodeInvalidArgument ErrorCode = 7
	ErrorCodeValidation      ErrorCode = 8
	ErrorCodeJSON            ErrorCode = 9
	ErrorCodeDB              ErrorCode = 12

	// ErrorCodeDetached: the render target is not mounted right now
	ErrorCodeDetached ErrorCode = 13
)

type codeInfo struct {
	name   string
	status int
}

var codes = map[ErrorCode]codeInfo{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeConflict:        {"conflict", http.StatusConflict},
	ErrorCodeUnauthorized:    {"unauthorized", http.StatusUnauthorized},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeDB:              {"db", http.StatusInternalServerError},
	ErrorCodeDetached:        {"detached", http.StatusServiceUnavailable},
}

func (c ErrorCode) String() string {
	if ci, ok := codes[c]; ok {
		return ci.name
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// HTTPStatus maps the code to a response status; unlisted codes are 500
func (c ErrorCode) HTTPStatus() int {
	if ci, ok := codes[c]; ok {
		return ci.status
	}
	return http.StatusInternalServerError
}

// Error pairs a code with a message for callers and an optional cause and field
type Error struct {
	code  ErrorCode
	msg   string
	field string
	cause error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause == nil:
		return e.msg
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field names the request field at fault, if any
func (e *Error) Field() string { return e.field }

// Wire is what a client sees of an error. The cause never leaves the process
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// WireFrom renders any error; foreign errors keep their text under ErrorCodeUnknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	e, ok := As(err)
	if !ok {
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
	return Wire{Code: e.code, Message: e.msg, Field: e.field}
}

// As finds the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// Root follows Unwrap to the innermost cause
func Root(err error) error {
	for {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// CodeOf returns err's code, ErrorCodeUnknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is CodeOf(err).HTTPStatus()
func HTTPStatus(err error) int { return CodeOf(err).HTTPStatus() }

// WithField returns a copy of err naming field. Foreign errors pass through
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	cp := *e
	cp.field = field
	return &cp
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap attaches code and msg to cause
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return Wrap(cause, code, fmt.Sprintf(format, a...))
}

func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error    { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error   { return Newf(ErrorCodePanic, format, a...) }
func Unauthorizedf(format string, a ...any) error {
	return Newf(ErrorCodeUnauthorized, format, a...)
}
func Conflictf(format string, a ...any) error { return Newf(ErrorCodeConflict, format, a...) }
