package tokenizer

import (
	"errors"
	"testing"
)

// FuzzParseRequest checks that ParseRequest never panics.
func FuzzParseRequest(f *testing.F) {
	f.Add([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"))
	f.Add([]byte("POST /api HTTP/1.1\r\nHost: example.com\r\nContent-Length: 4\r\n\r\ndata"))
	f.Add([]byte("DELETE /resource/1 HTTP/1.1\r\nAuthorization: Bearer tok\r\n\r\n"))
	f.Add([]byte("GET /path?a=1&b=2&&c HTTP/1.1\r\nAccept: */*\r\n\r\n"))
	f.Add([]byte(""))
	f.Add([]byte("\r\n\r\n"))
	f.Add([]byte("GET"))
	f.Add([]byte("GET / HTTP/1.1\r\n"))
	f.Add([]byte("G\x00T / HTTP/1.1\r\n\r\n"))
	f.Add([]byte("GET / HTTP/1.1\r\nBad Header\r\n\r\n"))

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("ParseRequest panicked on input %q: %v", data, r)
			}
		}()
		_, _ = ParseRequest(data)
	})
}

// FuzzSplitFeed checks that splitting the input into two chunks at any point
// yields the same outcome as feeding it whole.
func FuzzSplitFeed(f *testing.F) {
	f.Add([]byte("POST /api HTTP/1.1\r\nContent-Length: 4\r\n\r\ndata"), uint16(17))
	f.Add([]byte("GET /?q=1 HTTP/1.1\r\nHost: x\r\n\r\n"), uint16(16))
	f.Add([]byte("GET / HTTP/1.1\r\n\r\n"), uint16(0))
	f.Add([]byte("PUT /x HTTP/1.1\r\nContent-Length: nope\r\n\r\n"), uint16(30))

	f.Fuzz(func(t *testing.T, data []byte, at uint16) {
		if len(data) > DefaultMaxLineLength {
			t.Skip("line limit applies to partial input only")
		}
		cut := int(at)
		if cut > len(data) {
			cut = len(data)
		}

		whole := New(Options{})
		whole.Feed(data)
		whole.Finish()
		wantStatus, wantErr := whole.Parse()

		split := New(Options{})
		split.Feed(data[:cut])
		status, err := split.Parse()
		if err == nil && status != StatusDone {
			split.Feed(data[cut:])
			split.Finish()
			status, err = split.Parse()
		}

		if (err == nil) != (wantErr == nil) {
			t.Fatalf("split at %d: err = %v, whole err = %v", cut, err, wantErr)
		}
		if err != nil {
			var a, b *Error
			if errors.As(err, &a) && errors.As(wantErr, &b) && !errors.Is(a, b.Err) {
				t.Fatalf("split at %d: err = %v, whole err = %v", cut, err, wantErr)
			}
			return
		}
		if status != wantStatus {
			t.Fatalf("split at %d: status = %v, whole status = %v", cut, status, wantStatus)
		}
		if status == StatusDone {
			if string(split.body) != string(whole.body) {
				t.Fatalf("split at %d: body = %q, whole body = %q", cut, split.body, whole.body)
			}
			if len(split.headers) != len(whole.headers) {
				t.Fatalf("split at %d: headers = %v, whole headers = %v", cut, split.headers, whole.headers)
			}
		}
	})
}
