package server

import (
	"errors"
	"strconv"

	"github.com/shapestone/shape-httpd/pkg/http"
)

// errNoResponse is reported when an application returns neither a response
// nor an error.
var errNoResponse = errors.New("server: application returned no response")

// errorResponse maps err to the response sent in its place and reports
// whether the connection must close afterwards.
//
//   - request decoding errors: 400 (413 for an oversized body, 431 for an
//     oversized head), then close
//   - *http.StatusError: its status, connection kept
//   - anything else: 500, connection kept
func errorResponse(serverName string, err error) (*http.Response, bool) {
	var se *http.StatusError
	switch {
	case http.IsParseError(err):
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, http.ErrBodyTooLarge):
			status = http.StatusRequestTooLarge
		case errors.Is(err, http.ErrHeaderTooLarge):
			status = http.StatusHeaderTooLarge
		}
		resp := textResponse(serverName, status, err.Error())
		resp.Headers.Set("Connection", "close")
		return resp, true
	case errors.As(err, &se):
		return textResponse(serverName, se.Status, se.Body()), false
	default:
		return textResponse(serverName, http.StatusInternalServerError, http.StatusInternalServerError.Reason()), false
	}
}

func textResponse(serverName string, status http.Status, msg string) *http.Response {
	return &http.Response{
		Version: "HTTP/1.1",
		Status:  status,
		Headers: http.Headers{
			{Key: "Server", Value: serverName},
			{Key: "Content-Type", Value: "text/plain"},
			{Key: "Content-Length", Value: strconv.Itoa(len(msg))},
		},
		Body: []byte(msg),
	}
}
