package http

import (
	"testing"
)

// FuzzUnmarshalResponse checks that UnmarshalResponse never panics.
func FuzzUnmarshalResponse(f *testing.F) {
	f.Add([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"))
	f.Add([]byte("HTTP/1.1 404 Not Found\r\nContent-Type: text/plain\r\nContent-Length: 9\r\n\r\nnot found"))
	f.Add([]byte("HTTP/1.1 204 No Content\r\n\r\n"))
	f.Add([]byte(""))
	f.Add([]byte("HTTP/1.1 200\r\n\r\n"))
	f.Add([]byte("HTTP/1.1 abc OK\r\n\r\n"))
	f.Add([]byte("HTTP/1.1 200 OK\r\nDate: Mon, 19 Oct 2026 10:00:00 GMT\r\n\r\n"))

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("UnmarshalResponse panicked on input %q: %v", data, r)
			}
		}()
		_, _ = UnmarshalResponse(data)
	})
}

// FuzzParseRequest checks the public request entry point never panics.
func FuzzParseRequest(f *testing.F) {
	f.Add([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"))
	f.Add([]byte("POST /submit HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello"))
	f.Add([]byte(" "))
	f.Add([]byte("GET / HTTP/1.1\r\nBad Header\r\n\r\n"))

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("ParseRequest panicked on input %q: %v", data, r)
			}
		}()
		req, err := ParseRequest(data)
		if err == nil {
			_ = RequestToNode(req)
		}
	})
}
