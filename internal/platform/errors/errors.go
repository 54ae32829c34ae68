// Package errors provides the structured error type shared by services and handlers.
// Import it as perr
package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error for callers and for the wire
type ErrorCode uint8

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota
	// ErrorCodePanic is for panics recovered by middleware
	ErrorCodePanic
	// ErrorCodeUnavailable is for a missing or failing dependency; retry may succeed
	ErrorCodeUnavailable
	// ErrorCodeTimeout is for work that outlived its deadline
	ErrorCodeTimeout
	// ErrorCodeConflict is for state conflicts
	ErrorCodeConflict
	// ErrorCodeInvalidArgument is for well-formed input the service cannot accept
	ErrorCodeInvalidArgument
	// ErrorCodeValidation is for input that fails validation rules
	ErrorCodeValidation
	// ErrorCodeJSON is for undecodable request bodies
	ErrorCodeJSON
	// ErrorCodeNotFound is for missing resources
	ErrorCodeNotFound
	// ErrorCodeDuplicateKey is for unique constraint violations
	ErrorCodeDuplicateKey
	// ErrorCodeDB is for other database failures
	ErrorCodeDB
)

var codeInfo = [...]struct {
	name   string
	status int
}{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTimeout:         {"timeout", http.StatusGatewayTimeout},
	ErrorCodeConflict:        {"conflict", http.StatusConflict},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound},
	ErrorCodeDuplicateKey:    {"duplicate_key", http.StatusConflict},
	ErrorCodeDB:              {"db", http.StatusInternalServerError},
}

// String returns the stable wire name of the code
func (c ErrorCode) String() string {
	if int(c) < len(codeInfo) {
		return codeInfo[c].name
	}
	return codeInfo[ErrorCodeUnknown].name
}

// MarshalText encodes the code by name
func (c ErrorCode) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// HTTPStatusCode maps a code to an HTTP status
func HTTPStatusCode(c ErrorCode) int {
	if int(c) < len(codeInfo) {
		return codeInfo[c].status
	}
	return http.StatusInternalServerError
}

// ErrNotFound is the bare not found sentinel
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a code, a message, and optionally the offending field, the
// operation that failed and the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Wire is the JSON form returned by the API
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.msg
	if e.op != "" {
		msg = e.op + ": " + msg
	}
	if e.orig != nil {
		return msg + ": " + e.orig.Error()
	}
	return msg
}

// Unwrap returns the cause
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field
func (e *Error) Field() string { return e.field }

// Op returns the operation label
func (e *Error) Op() string { return e.op }

// ToWire converts to the API payload; the cause is not exposed
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// As unwraps to our *Error
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf extracts the code of any error. Context deadline and cancellation map to
// Timeout when nothing more specific is attached
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	if stderrs.Is(err, context.DeadlineExceeded) || stderrs.Is(err, context.Canceled) {
		return ErrorCodeTimeout
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has code
func IsCode(err error, code ErrorCode) bool { return err != nil && CodeOf(err) == code }

// HTTPStatus maps any error to an HTTP status
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WireFrom converts any error into a Wire; nil gives the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: CodeOf(err), Message: err.Error()}
}

// HTTP returns status and wire together
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

func with(err error, fn func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	fn(&c)
	return &c
}

// WithField returns a copy of err with field set; foreign errors pass through
func WithField(err error, field string) error { return with(err, func(e *Error) { e.field = field }) }

// WithOp returns a copy of err with op set; foreign errors pass through
func WithOp(err error, op string) error { return with(err, func(e *Error) { e.op = op }) }

// New returns an *Error
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns an *Error with a formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns an *Error wrapping orig
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns an *Error wrapping orig with a formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only a non-nil err
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// JSONErrf returns a JSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Timeoutf returns a timeout error
func Timeoutf(format string, a ...any) error { return Newf(ErrorCodeTimeout, format, a...) }

// Internalf returns an unknown error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// FromContext wraps a context error as Timeout; other errors and nil pass through
func FromContext(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.DeadlineExceeded) || stderrs.Is(err, context.Canceled) {
		return Wrap(err, ErrorCodeTimeout, msg)
	}
	return err
}
