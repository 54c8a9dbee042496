package http

import (
	"fmt"
	"sync"

	"github.com/shapestone/shape-httpd/internal/generator"
)

// bufPool pools []byte slices for the encoder fast path.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 2048)
		return &b
	},
}

// Marshal returns the HTTP/1.1 wire-format encoding of resp.
//
// Content-Length is set automatically when the header is absent.
// Marshal uses a sync.Pool buffer internally.
func Marshal(resp *Response) ([]byte, error) {
	if resp == nil {
		return nil, fmt.Errorf("http: Marshal(nil)")
	}

	bp := bufPool.Get().(*[]byte)
	buf, err := AppendResponse((*bp)[:0], resp)
	if err != nil {
		*bp = buf
		bufPool.Put(bp)
		return nil, err
	}

	result := make([]byte, len(buf))
	copy(result, buf)
	*bp = buf[:0]
	bufPool.Put(bp)
	return result, nil
}

// AppendResponse appends the wire encoding of resp to buf.
// On error buf is returned unchanged.
func AppendResponse(buf []byte, resp *Response) ([]byte, error) {
	nodes, err := resp.Nodes()
	if err != nil {
		return buf, err
	}
	return generator.AppendTo(buf, nodes)
}
