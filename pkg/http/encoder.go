package http

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/shapestone/shape-httpd/internal/tokenizer"
)

// ErrInvalidHeaderField is returned when a response header cannot be written
// without breaking the message framing.
var ErrInvalidHeaderField = errors.New("invalid header field")

const crlf = "\r\n"

// Nodes lays the response out as generator nodes: the version with its
// trailing space, "CODE REASON\r\n", one "Key: Value\r\n" node per header and
// a body node that opens with the blank line. Content-Length is added when
// absent.
func (r *Response) Nodes() ([]tokenizer.Node, error) {
	version := r.Version
	if version == "" {
		version = "HTTP/1.1"
	}

	nodes := make([]tokenizer.Node, 0, len(r.Headers)+4)
	nodes = append(nodes,
		tokenizer.NewNode(tokenizer.KindVersion, []byte(version+" ")),
		tokenizer.NewNode(tokenizer.KindStatus, appendStatus(nil, r.Status)),
	)

	for _, h := range r.Headers {
		if err := validField(h); err != nil {
			return nil, err
		}
		nodes = append(nodes, tokenizer.NewNode(tokenizer.KindHeader, appendHeader(nil, h.Key, h.Value)))
	}

	// Auto-set Content-Length if header absent
	if _, ok := r.Headers.Lookup("Content-Length"); !ok {
		nodes = append(nodes, tokenizer.NewNode(tokenizer.KindHeader,
			appendHeader(nil, "Content-Length", strconv.Itoa(len(r.Body)))))
	}

	body := make([]byte, 0, len(crlf)+len(r.Body))
	body = append(body, crlf...)
	body = append(body, r.Body...)
	nodes = append(nodes, tokenizer.NewNode(tokenizer.KindBody, body))
	return nodes, nil
}

// appendStatus appends "CODE REASON\r\n". An unknown code keeps the space and
// leaves the reason empty.
func appendStatus(buf []byte, s Status) []byte {
	buf = strconv.AppendInt(buf, int64(s), 10)
	buf = append(buf, ' ')
	buf = append(buf, s.Reason()...)
	return append(buf, crlf...)
}

func appendHeader(buf []byte, key, value string) []byte {
	buf = append(buf, key...)
	buf = append(buf, ':', ' ')
	buf = append(buf, value...)
	return append(buf, crlf...)
}

func validField(h Header) error {
	if h.Key == "" {
		return fmt.Errorf("http: %w: empty header name", ErrInvalidHeaderField)
	}
	for i := 0; i < len(h.Key); i++ {
		if !isTokenChar(h.Key[i]) {
			return fmt.Errorf("http: %w: name %q", ErrInvalidHeaderField, h.Key)
		}
	}
	for i := 0; i < len(h.Value); i++ {
		if c := h.Value[i]; c == '\r' || c == '\n' {
			return fmt.Errorf("http: %w: value of %q contains a line break", ErrInvalidHeaderField, h.Key)
		}
	}
	// The head is read back as text, so obs-text bytes would not survive.
	if !utf8.ValidString(h.Value) {
		return fmt.Errorf("http: %w: value of %q is not valid UTF-8", ErrInvalidHeaderField, h.Key)
	}
	return nil
}

// isTokenChar reports whether c may appear in an RFC 7230 token.
func isTokenChar(c byte) bool {
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}
