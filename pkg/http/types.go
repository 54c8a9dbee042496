// Package http provides the public HTTP/1.1 message types of shape-httpd.
//
// Requests are produced by the incremental wire tokenizer and are immutable
// once built. Responses are plain values that an application fills in and
// the server serializes through the response generator.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple
// goroutines. A Request may be shared freely; a Response must not be mutated
// while it is being marshaled.
//
// # APIs
//
//   - ParseRequest / Marshal / UnmarshalResponse - direct wire conversion
//   - Parse / ParseReader / Render - AST view via shape-core
//   - StatusError - application errors carrying a response status
package http

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/shapestone/shape-httpd/internal/tokenizer"
)

// Method is a request method. Only GET, POST, PUT and DELETE are accepted.
type Method = tokenizer.Method

const (
	MethodUnknown = tokenizer.MethodUnknown
	MethodGet     = tokenizer.MethodGet
	MethodPost    = tokenizer.MethodPost
	MethodPut     = tokenizer.MethodPut
	MethodDelete  = tokenizer.MethodDelete
)

// Path is a parsed request-target with its query parameters.
type Path = tokenizer.Path

// Query is the insertion-ordered query of a Path.
type Query = tokenizer.Query

// Param is one query parameter.
type Param = tokenizer.Param

// ParsePath splits a request-target into path and query.
func ParsePath(raw string) (Path, error) { return tokenizer.ParsePath(raw) }

// ParseMethod classifies a method token.
func ParseMethod(s string) (Method, error) { return tokenizer.ParseMethod([]byte(s)) }

// Header represents a single HTTP header key-value pair.
type Header struct {
	Key   string
	Value string
}

// Headers is an ordered list of HTTP headers.
// Keys match case-insensitively but keep the case they were set with.
type Headers []Header

// Get returns the first header value for the given key (case-insensitive).
// Returns empty string if not found.
func (h Headers) Get(key string) string {
	v, _ := h.Lookup(key)
	return v
}

// Lookup returns the value for key and whether it is present.
func (h Headers) Lookup(key string) (string, bool) {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Key, key) {
			return hdr.Value, true
		}
	}
	return "", false
}

// Values returns all header values for the given key (case-insensitive).
func (h Headers) Values(key string) []string {
	var vals []string
	for _, hdr := range h {
		if strings.EqualFold(hdr.Key, key) {
			vals = append(vals, hdr.Value)
		}
	}
	return vals
}

// Set replaces the first header with the given key (case-insensitive) or appends if not found.
func (h *Headers) Set(key, value string) {
	for i, hdr := range *h {
		if strings.EqualFold(hdr.Key, key) {
			(*h)[i].Value = value
			// Remove any subsequent headers with same key
			j := i + 1
			for j < len(*h) {
				if strings.EqualFold((*h)[j].Key, key) {
					*h = append((*h)[:j], (*h)[j+1:]...)
				} else {
					j++
				}
			}
			return
		}
	}
	*h = append(*h, Header{Key: key, Value: value})
}

// Del removes all headers with the given key (case-insensitive).
func (h *Headers) Del(key string) {
	j := 0
	for _, hdr := range *h {
		if !strings.EqualFold(hdr.Key, key) {
			(*h)[j] = hdr
			j++
		}
	}
	*h = (*h)[:j]
}

// Clone returns a deep copy of the headers.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	clone := make(Headers, len(h))
	copy(clone, h)
	return clone
}

// ContentLength returns the Content-Length header value, or -1 if absent or invalid.
func (h Headers) ContentLength() int64 {
	v, ok := h.Lookup("Content-Length")
	if !ok {
		return -1
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// Request is an immutable HTTP/1.1 request.
type Request struct {
	method  Method
	path    Path
	version string
	headers Headers
	body    []byte
}

// NewRequest builds a request from its parts. Later duplicate header keys
// overwrite earlier ones.
func NewRequest(method Method, target string, headers Headers, body []byte) (*Request, error) {
	if method == MethodUnknown {
		return nil, tokenizer.ErrInvalidMethod
	}
	p, err := ParsePath(target)
	if err != nil {
		return nil, err
	}
	var hdrs Headers
	for _, h := range headers {
		hdrs.Set(h.Key, h.Value)
	}
	return &Request{
		method:  method,
		path:    p,
		version: "HTTP/1.1",
		headers: hdrs,
		body:    bytes.Clone(body),
	}, nil
}

// FromTokenized adopts a request produced by the wire tokenizer.
func FromTokenized(tr *tokenizer.Request) *Request {
	hdrs := make(Headers, len(tr.Headers))
	for i, h := range tr.Headers {
		hdrs[i] = Header{Key: h.Key, Value: h.Value}
	}
	return &Request{
		method:  tr.Method,
		path:    tr.Path,
		version: tr.Version,
		headers: hdrs,
		body:    tr.Body,
	}
}

// Method returns the request method.
func (r *Request) Method() Method { return r.method }

// Path returns the parsed request-target.
func (r *Request) Path() Path { return r.path }

// Version returns the protocol version string, e.g. "HTTP/1.1".
func (r *Request) Version() string { return r.version }

// Header returns the value of the named header.
func (r *Request) Header(key string) (string, bool) { return r.headers.Lookup(key) }

// Headers returns a copy of the request headers.
func (r *Request) Headers() Headers { return r.headers.Clone() }

// Body returns a fresh reader positioned at the start of the body.
func (r *Request) Body() io.Reader { return bytes.NewReader(r.body) }

// ContentLength returns the body length in bytes.
func (r *Request) ContentLength() int { return len(r.body) }

// Close reports whether the client asked to close the connection.
func (r *Request) Close() bool {
	v, _ := r.headers.Lookup("Connection")
	return strings.EqualFold(strings.TrimSpace(v), "close")
}

func (r *Request) String() string {
	return r.method.String() + " " + r.path.Raw() + " " + r.version
}

// Response represents an HTTP/1.1 response message.
type Response struct {
	Version string  // "HTTP/1.1" when empty
	Status  Status  // 200, 404, etc.
	Headers Headers // ordered headers
	Body    []byte  // raw body (nil if none)
}

// NewResponse returns a response with the given status and body.
func NewResponse(status Status, body []byte) *Response {
	return &Response{Version: "HTTP/1.1", Status: status, Body: body}
}

// Text returns a text/plain response.
func Text(status Status, body string) *Response {
	resp := NewResponse(status, []byte(body))
	resp.Headers.Set("Content-Type", "text/plain")
	return resp
}
