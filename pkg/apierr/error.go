// Package apierr defines the structured errors the HTTP API returns:
// a machine-readable code, a human-readable message, an HTTP status and an
// optional wrapped cause that is logged but never serialized.
package apierr

import "fmt"

type Error struct {
	code    Code
	message string
	status  int
	cause   error
}

// New creates an Error without a cause.
func New(code Code, status int, message string) *Error {
	return &Error{code: code, message: message, status: status}
}

// Wrap creates an Error carrying a cause for logging and unwrapping.
func Wrap(code Code, status int, message string, cause error) *Error {
	return &Error{code: code, message: message, status: status, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

// Unwrap exposes the cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Code() Code      { return e.code }
func (e *Error) Message() string { return e.message }
func (e *Error) Status() int     { return e.status }

// Response is the wire format written as JSON to the client.
type Response struct {
	Error Body `json:"error"`
}

// Body is the inner object of Response.
type Body struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Response returns the wire-format representation of this error.
func (e *Error) Response() Response {
	return Response{Error: Body{Code: e.code, Message: e.message}}
}
