package http

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-httpd/internal/generator"
	"github.com/shapestone/shape-httpd/internal/tokenizer"
)

// Request decoding errors. Match them with errors.Is.
var (
	ErrIncompleteRequest    = tokenizer.ErrIncompleteRequest
	ErrIncompleteField      = tokenizer.ErrIncompleteField
	ErrInvalidMethod        = tokenizer.ErrInvalidMethod
	ErrInvalidPath          = tokenizer.ErrInvalidPath
	ErrInvalidHeader        = tokenizer.ErrInvalidHeader
	ErrInvalidContentLength = tokenizer.ErrInvalidContentLength
	ErrLineTooLong          = tokenizer.ErrLineTooLong
	ErrHeaderTooLarge       = tokenizer.ErrHeaderTooLarge
	ErrBodyTooLarge         = tokenizer.ErrBodyTooLarge
)

// ErrInvalidResponseShape is returned when a response cannot be laid out as
// status line, headers and body.
var ErrInvalidResponseShape = generator.ErrInvalidResponseShape

// IsParseError reports whether err came from decoding a request.
func IsParseError(err error) bool {
	var te *tokenizer.Error
	return errors.As(err, &te)
}

// ParseError represents an error that occurred while reading a response.
type ParseError struct {
	Message  string // human-readable error message
	Line     int    // 1-indexed line number where error occurred (0 if unknown)
	Position int    // byte offset in input (0 if unknown)
	Err      error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("http: parse error at line %d: %s", e.Line, e.Message)
	}
	if e.Position > 0 {
		return fmt.Sprintf("http: parse error at position %d: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("http: %s", e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StatusError is an application error that maps to a response status.
// The server answers with Status and Message and keeps the connection.
type StatusError struct {
	Status  Status
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Status.Reason()
	}
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, msg, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, msg)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Body returns the text sent as the response body.
func (e *StatusError) Body() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Status.Reason()
}

// Errorf returns a StatusError with a formatted message.
func Errorf(status Status, format string, args ...interface{}) *StatusError {
	return &StatusError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// BadRequest returns a 400 StatusError.
func BadRequest(msg string) *StatusError {
	return &StatusError{Status: StatusBadRequest, Message: msg}
}

// Unauthorized returns a 401 StatusError.
func Unauthorized(msg string) *StatusError {
	return &StatusError{Status: StatusUnauthorized, Message: msg}
}

// Forbidden returns a 403 StatusError.
func Forbidden(msg string) *StatusError {
	return &StatusError{Status: StatusForbidden, Message: msg}
}

// NotFound returns a 404 StatusError.
func NotFound(msg string) *StatusError {
	return &StatusError{Status: StatusNotFound, Message: msg}
}

// MethodNotAllowed returns a 405 StatusError.
func MethodNotAllowed(msg string) *StatusError {
	return &StatusError{Status: StatusMethodNotAllowed, Message: msg}
}

// InternalServerError returns a 500 StatusError wrapping err.
func InternalServerError(err error) *StatusError {
	return &StatusError{Status: StatusInternalServerError, Err: err}
}

// NotImplemented returns a 501 StatusError.
func NotImplemented(msg string) *StatusError {
	return &StatusError{Status: StatusNotImplemented, Message: msg}
}
