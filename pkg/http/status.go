package http

import "strconv"

// Status is a response status code.
type Status int

const (
	StatusOK                  Status = 200
	StatusCreated             Status = 201
	StatusNoContent           Status = 204
	StatusBadRequest          Status = 400
	StatusUnauthorized        Status = 401
	StatusForbidden           Status = 403
	StatusNotFound            Status = 404
	StatusMethodNotAllowed    Status = 405
	StatusRequestTooLarge     Status = 413
	StatusHeaderTooLarge      Status = 431
	StatusInternalServerError Status = 500
	StatusNotImplemented      Status = 501
)

var reasons = map[Status]string{
	StatusOK:                  "OK",
	StatusCreated:             "Created",
	StatusNoContent:           "No Content",
	StatusBadRequest:          "Bad Request",
	StatusUnauthorized:        "Unauthorized",
	StatusForbidden:           "Forbidden",
	StatusNotFound:            "Not Found",
	StatusMethodNotAllowed:    "Method Not Allowed",
	StatusRequestTooLarge:     "Payload Too Large",
	StatusHeaderTooLarge:      "Request Header Fields Too Large",
	StatusInternalServerError: "Internal Server Error",
	StatusNotImplemented:      "Not Implemented",
}

// Code returns the numeric status code.
func (s Status) Code() int { return int(s) }

// Reason returns the reason phrase, or "" for an unknown code.
func (s Status) Reason() string { return reasons[s] }

// String returns the code and reason, e.g. "404 Not Found".
func (s Status) String() string {
	if r := s.Reason(); r != "" {
		return strconv.Itoa(int(s)) + " " + r
	}
	return strconv.Itoa(int(s))
}

// IsError reports whether s is a 4xx or 5xx status.
func (s Status) IsError() bool { return s >= 400 }
