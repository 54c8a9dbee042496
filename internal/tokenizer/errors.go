package tokenizer

import (
	"errors"
	"fmt"
)

// ErrNeedMore reports that the input holds no complete token yet. It is a
// signal to feed more bytes, not a failure.
var ErrNeedMore = errors.New("tokenizer: need more input")

// Parse failures. They are returned wrapped in *Error.
var (
	ErrIncompleteRequest    = errors.New("incomplete request")
	ErrIncompleteField      = errors.New("incomplete field")
	ErrInvalidMethod        = errors.New("invalid method")
	ErrInvalidPath          = errors.New("invalid path")
	ErrInvalidHeader        = errors.New("invalid header")
	ErrInvalidContentLength = errors.New("invalid content length")
	ErrLineTooLong          = errors.New("line too long")
	ErrHeaderTooLarge       = errors.New("request head too large")
	ErrBodyTooLarge         = errors.New("body too large")
)

// Error describes a request that could not be tokenized.
type Error struct {
	Err    error // one of the Err* sentinels
	Stage  Stage // stage the tokenizer was in
	Offset int   // bytes of the current request consumed before the failure
	Detail string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("http: parse error at byte %d (%s): %v", e.Offset, e.Stage, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(err error, stage Stage, offset int, detail string) *Error {
	return &Error{Err: err, Stage: stage, Offset: offset, Detail: detail}
}

// detailed attaches a detail string to a sentinel so that Step can report it
// without knowing the request offset.
type detailed struct {
	err    error
	detail string
}

func (d *detailed) Error() string { return d.err.Error() + ": " + d.detail }
func (d *detailed) Unwrap() error { return d.err }

func errorf(err error, format string, args ...interface{}) error {
	return &detailed{err: err, detail: fmt.Sprintf(format, args...)}
}
