package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shapestone/shape-httpd/internal/lexer"
	"github.com/shapestone/shape-httpd/internal/tokenizer"
)

// Response is a response read back from wire bytes.
type Response struct {
	Version    string
	StatusCode int
	Reason     string
	Headers    []tokenizer.Header
	Body       []byte
}

var headEnd = []byte("\r\n\r\n")

// ParseResponse reads a complete response. The body is bounded by
// Content-Length when present and otherwise runs to the end of data.
func ParseResponse(data []byte) (*Response, error) {
	idx := bytes.Index(data, headEnd)
	if idx < 0 {
		return nil, fmt.Errorf("http: parse error: response head is not terminated")
	}

	if !utf8.Valid(data[:idx]) {
		return nil, fmt.Errorf("http: parse error: response head is not valid UTF-8")
	}
	head, err := lexer.ParseHead(string(data[:idx+2]))
	if err != nil {
		return nil, fmt.Errorf("http: parse error: %w", err)
	}

	resp := &Response{
		Version:    head.Version,
		StatusCode: head.StatusCode,
		Reason:     head.Reason,
	}
	cl := int64(-1)
	for _, f := range head.Fields {
		resp.Headers = append(resp.Headers, tokenizer.Header{Key: f.Key, Value: f.Value})
		if strings.EqualFold(f.Key, "Content-Length") {
			n, err := strconv.ParseInt(strings.TrimSpace(f.Value), 10, 64)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("http: parse error: invalid Content-Length %q", f.Value)
			}
			cl = n
		}
	}

	body := data[idx+len(headEnd):]
	if cl >= 0 {
		if int64(len(body)) < cl {
			return nil, fmt.Errorf("http: parse error: body truncated: expected %d bytes but only %d available", cl, len(body))
		}
		body = body[:cl]
	}
	if len(body) > 0 {
		resp.Body = bytes.Clone(body)
	}
	return resp, nil
}
