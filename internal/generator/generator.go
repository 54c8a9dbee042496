// Package generator serializes response nodes into HTTP/1.1 wire bytes.
//
// The generator enforces the response node grammar
//
//	Version Status Header* Body
//
// and concatenates node values verbatim. It performs no escaping and adds no
// line terminators: callers encode and terminate every node before handing
// it over, including the blank line that separates headers from the body.
package generator

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-httpd/internal/tokenizer"
)

// ErrInvalidResponseShape reports a node sequence that violates the grammar.
var ErrInvalidResponseShape = errors.New("invalid response shape")

// position in the grammar
type position uint8

const (
	wantVersion position = iota
	wantStatus
	inHeaders
	afterBody
)

// Validate checks that nodes follow Version Status Header* Body.
func Validate(nodes []tokenizer.Node) error {
	pos := wantVersion
	for i, n := range nodes {
		next, ok := advance(pos, n.Kind)
		if !ok {
			return shapeError(i, n.Kind, pos)
		}
		pos = next
	}
	if pos != afterBody {
		return fmt.Errorf("http: %w: %d nodes end before the body", ErrInvalidResponseShape, len(nodes))
	}
	return nil
}

func advance(pos position, kind tokenizer.Kind) (position, bool) {
	switch {
	case pos == wantVersion && kind == tokenizer.KindVersion:
		return wantStatus, true
	case pos == wantStatus && kind == tokenizer.KindStatus:
		return inHeaders, true
	case pos == inHeaders && kind == tokenizer.KindHeader:
		return inHeaders, true
	case pos == inHeaders && kind == tokenizer.KindBody:
		return afterBody, true
	}
	return pos, false
}

func shapeError(i int, kind tokenizer.Kind, pos position) error {
	var want string
	switch pos {
	case wantVersion:
		want = "Version"
	case wantStatus:
		want = "Status"
	case inHeaders:
		want = "Header or Body"
	default:
		want = "end of response"
	}
	return fmt.Errorf("http: %w: node %d is %s, want %s", ErrInvalidResponseShape, i, kind, want)
}

// Generate validates nodes and returns their concatenated bytes.
func Generate(nodes []tokenizer.Node) ([]byte, error) {
	return AppendTo(nil, nodes)
}

// AppendTo validates nodes and appends their bytes to buf.
// On error buf is returned unchanged.
func AppendTo(buf []byte, nodes []tokenizer.Node) ([]byte, error) {
	if err := Validate(nodes); err != nil {
		return buf, err
	}
	size := 0
	for _, n := range nodes {
		size += len(n.Value)
	}
	if cap(buf)-len(buf) < size {
		grown := make([]byte, len(buf), len(buf)+size)
		copy(grown, buf)
		buf = grown
	}
	for _, n := range nodes {
		buf = append(buf, n.Value...)
	}
	return buf, nil
}
