package tokenizer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestParseRequest_Incomplete(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"method only", "GET"},
		{"method and path", "GET /"},
		{"request line without blank line", "GET / HTTP/1.1"},
		{"request line with terminator only", "GET / HTTP/1.1\r\n"},
		{"header without blank line", "GET / HTTP/1.1\r\nHost: a\r\n"},
		{"method then newline", "GET\r\n\r\n"},
		{"method and path then newline", "GET /\r\n\r\n"},
		{"empty input", ""},
		{"truncated body", "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nshort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest([]byte(tt.data))
			if !errors.Is(err, ErrIncompleteRequest) {
				t.Fatalf("ParseRequest(%q) error = %v, want ErrIncompleteRequest", tt.data, err)
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *Error", err)
			}
		})
	}
}

func TestParseRequest_NoHeadersNoBody(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if req.Method != MethodGet {
		t.Errorf("Method = %v, want GET", req.Method)
	}
	if req.Path.Raw() != "/" {
		t.Errorf("Path = %q, want /", req.Path.Raw())
	}
	if req.Version != "HTTP/1.1" {
		t.Errorf("Version = %q, want HTTP/1.1", req.Version)
	}
	if len(req.Headers) != 0 {
		t.Errorf("Headers = %v, want none", req.Headers)
	}
	if len(req.Body) != 0 {
		t.Errorf("Body = %q, want empty", req.Body)
	}
}

func TestParseRequest_SingleHeader(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\nHost: testing.com\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	want := []Header{{Key: "Host", Value: "testing.com"}}
	if !reflect.DeepEqual(req.Headers, want) {
		t.Errorf("Headers = %v, want %v", req.Headers, want)
	}
}

func TestParseRequest_CloseDelimitedBody(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\nHost: testing.com\r\n\r\nHello world!"))
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if len(req.Headers) != 1 || req.Headers[0].Value != "testing.com" {
		t.Errorf("Headers = %v", req.Headers)
	}
	if string(req.Body) != "Hello world!" {
		t.Errorf("Body = %q, want %q", req.Body, "Hello world!")
	}
}

func TestParseRequest_HeaderCount(t *testing.T) {
	for n := 0; n <= 12; n++ {
		var b strings.Builder
		b.WriteString("POST /items HTTP/1.1\r\n")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "X-Key-%d: value:%d: with colons\r\n", i, i)
		}
		b.WriteString("\r\n")

		req, err := ParseRequest([]byte(b.String()))
		if err != nil {
			t.Fatalf("%d headers: ParseRequest() error = %v", n, err)
		}
		if len(req.Headers) != n {
			t.Fatalf("%d headers: got %d entries", n, len(req.Headers))
		}
		for i, h := range req.Headers {
			if h.Key != fmt.Sprintf("X-Key-%d", i) {
				t.Errorf("header %d key = %q", i, h.Key)
			}
			if h.Value != fmt.Sprintf("value:%d: with colons", i) {
				t.Errorf("header %d value = %q", i, h.Value)
			}
		}
	}
}

func TestParseRequest_DuplicateHeaderLastWins(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\nAccept: a\r\nHost: h\r\naccept: b\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	want := []Header{{Key: "Accept", Value: "b"}, {Key: "Host", Value: "h"}}
	if !reflect.DeepEqual(req.Headers, want) {
		t.Errorf("Headers = %v, want %v", req.Headers, want)
	}
}

func TestParseRequest_Failures(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"unknown method", "PATCH / HTTP/1.1\r\n\r\n", ErrInvalidMethod},
		{"lowercase method", "get / HTTP/1.1\r\n\r\n", ErrInvalidMethod},
		{"header without colon", "GET / HTTP/1.1\r\nHost testing.com\r\n\r\n", ErrInvalidHeader},
		{"header without name", "GET / HTTP/1.1\r\n: value\r\n\r\n", ErrInvalidHeader},
		{"bad content length", "POST / HTTP/1.1\r\nContent-Length: abc\r\n\r\n", ErrInvalidContentLength},
		{"negative content length", "POST / HTTP/1.1\r\nContent-Length: -1\r\n\r\n", ErrInvalidContentLength},
		{"signed content length", "POST / HTTP/1.1\r\nContent-Length: +3\r\n\r\nabcdef", ErrInvalidContentLength},
		{"empty content length", "POST / HTTP/1.1\r\nContent-Length: \r\n\r\n", ErrInvalidContentLength},
		{"spaced digits content length", "POST / HTTP/1.1\r\nContent-Length: 1 2\r\n\r\n", ErrInvalidContentLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseRequest() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRequest_Query(t *testing.T) {
	req, err := ParseRequest([]byte("DELETE /a/b?x=1&y=2 HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if req.Method != MethodDelete {
		t.Errorf("Method = %v", req.Method)
	}
	if req.Path.Path() != "/a/b" || req.Path.Query().Len() != 2 {
		t.Errorf("Path = %q, query = %v", req.Path.Path(), req.Path.Query())
	}
}

func TestTokenizer_TwoChunks(t *testing.T) {
	tok := New(Options{})
	tok.Feed([]byte("GET "))
	status, err := tok.Parse()
	if err != nil || status != StatusNeed {
		t.Fatalf("after first chunk: status = %v, err = %v, want need", status, err)
	}

	tok.Feed([]byte("/ HTTP/1.1\r\n\r\n"))
	status, err = tok.Parse()
	if err != nil || status != StatusDone {
		t.Fatalf("after second chunk: status = %v, err = %v, want done", status, err)
	}
	split, err := tok.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	whole, err := ParseRequest([]byte("GET / HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if !reflect.DeepEqual(split, whole) {
		t.Errorf("chunked result = %+v, want %+v", split, whole)
	}
}

func TestTokenizer_ByteAtATime(t *testing.T) {
	data := "PUT /files/a.txt?mode=w HTTP/1.1\r\nHost: example.com\r\nContent-Length: 11\r\n\r\nhello world"
	tok := New(Options{})
	var status Status
	var err error
	for i := 0; i < len(data); i++ {
		tok.Feed([]byte{data[i]})
		status, err = tok.Parse()
		if err != nil {
			t.Fatalf("byte %d: Parse() error = %v", i, err)
		}
		if i < len(data)-1 && status != StatusNeed {
			t.Fatalf("byte %d: status = %v, want need", i, status)
		}
	}
	if status != StatusDone {
		t.Fatalf("status = %v, want done", status)
	}

	req, err := tok.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if req.Method != MethodPut || req.Path.Path() != "/files/a.txt" {
		t.Errorf("request line = %v %q", req.Method, req.Path.Raw())
	}
	if v, _ := req.Path.Query().Get("mode"); v != "w" {
		t.Errorf("query mode = %q", v)
	}
	if string(req.Body) != "hello world" {
		t.Errorf("Body = %q", req.Body)
	}
	if len(req.Headers) != 2 {
		t.Errorf("Headers = %v", req.Headers)
	}
}

func TestTokenizer_SplitCRLFDoesNotEndHeaders(t *testing.T) {
	tok := New(Options{})
	tok.Feed([]byte("GET / HTTP/1.1\r"))
	if status, err := tok.Parse(); err != nil || status != StatusNeed {
		t.Fatalf("status = %v, err = %v", status, err)
	}
	tok.Feed([]byte("\nHost: a\r"))
	if status, err := tok.Parse(); err != nil || status != StatusNeed {
		t.Fatalf("status = %v, err = %v", status, err)
	}
	tok.Feed([]byte("\n\r\n"))
	status, err := tok.Parse()
	if err != nil || status != StatusDone {
		t.Fatalf("status = %v, err = %v", status, err)
	}
	req, _ := tok.Request()
	if len(req.Headers) != 1 || req.Headers[0].Key != "Host" {
		t.Errorf("Headers = %v", req.Headers)
	}
}

func TestTokenizer_ContentLengthWithoutClose(t *testing.T) {
	tok := New(Options{})
	tok.Feed([]byte("POST /upload HTTP/1.1\r\nContent-Length: 5\r\n\r\nab"))
	if status, _ := tok.Parse(); status != StatusNeed {
		t.Fatalf("status = %v, want need", status)
	}
	tok.Feed([]byte("cde"))
	if status, err := tok.Parse(); err != nil || status != StatusDone {
		t.Fatalf("status = %v, err = %v", status, err)
	}
	req, _ := tok.Request()
	if string(req.Body) != "abcde" {
		t.Errorf("Body = %q", req.Body)
	}
}

func TestTokenizer_EmptyBodyWithoutContentLength(t *testing.T) {
	tok := New(Options{})
	tok.Feed([]byte("GET / HTTP/1.1\r\n\r\n"))
	status, err := tok.Parse()
	if err != nil || status != StatusDone {
		t.Fatalf("status = %v, err = %v, want done without end of stream", status, err)
	}
}

func TestTokenizer_ResetKeepsPipelinedBytes(t *testing.T) {
	tok := New(Options{})
	tok.Feed([]byte("POST /a HTTP/1.1\r\nContent-Length: 3\r\n\r\nonePUT /b HTTP/1.1\r\nContent-Length: 3\r\n\r\ntwo"))

	status, err := tok.Parse()
	if err != nil || status != StatusDone {
		t.Fatalf("first: status = %v, err = %v", status, err)
	}
	first, _ := tok.Request()
	if string(first.Body) != "one" || first.Path.Raw() != "/a" {
		t.Errorf("first = %v %q", first.Path, first.Body)
	}

	tok.Reset()
	if tok.Buffered() == 0 {
		t.Fatal("Reset dropped pipelined bytes")
	}
	status, err = tok.Parse()
	if err != nil || status != StatusDone {
		t.Fatalf("second: status = %v, err = %v", status, err)
	}
	second, _ := tok.Request()
	if string(second.Body) != "two" || second.Method != MethodPut || second.Path.Raw() != "/b" {
		t.Errorf("second = %v %v %q", second.Method, second.Path, second.Body)
	}
	if tok.Buffered() != 0 {
		t.Errorf("Buffered = %d, want 0", tok.Buffered())
	}
}

func TestTokenizer_IdleFinish(t *testing.T) {
	tok := New(Options{})
	tok.Feed([]byte("\r\n"))
	tok.Finish()
	status, err := tok.Parse()
	if err != nil || status != StatusNeed {
		t.Fatalf("status = %v, err = %v, want need without error", status, err)
	}
	if !tok.Idle() {
		t.Error("Idle() = false")
	}
}

func TestTokenizer_ErrorIsSticky(t *testing.T) {
	tok := New(Options{})
	tok.Feed([]byte("BREW / HTTP/1.1\r\n\r\n"))
	_, err := tok.Parse()
	if !errors.Is(err, ErrInvalidMethod) {
		t.Fatalf("err = %v", err)
	}
	tok.Feed([]byte("GET / HTTP/1.1\r\n\r\n"))
	status, err2 := tok.Parse()
	if status != StatusError || err2 != err {
		t.Errorf("status = %v, err = %v, want sticky error", status, err2)
	}
}

func TestTokenizer_LineTooLong(t *testing.T) {
	tok := New(Options{MaxLineLength: 16})
	tok.Feed([]byte("GET /" + strings.Repeat("a", 32)))
	_, err := tok.Parse()
	if !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("err = %v, want ErrLineTooLong", err)
	}
}

func TestTokenizer_BodyTooLarge(t *testing.T) {
	tok := New(Options{MaxBodySize: 4})
	tok.Feed([]byte("POST / HTTP/1.1\r\nContent-Length: 5\r\n\r\n"))
	_, err := tok.Parse()
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("err = %v, want ErrBodyTooLarge", err)
	}
}

func TestTokenizer_CloseDelimitedBodyTooLarge(t *testing.T) {
	tok := New(Options{MaxBodySize: 10, CloseDelimitedBody: true})
	tok.Feed([]byte("POST / HTTP/1.1\r\n\r\n"))
	for i := 0; i < 100; i++ {
		tok.Feed([]byte(strings.Repeat("x", 1000)))
		if _, err := tok.Parse(); err != nil {
			if !errors.Is(err, ErrBodyTooLarge) {
				t.Fatalf("err = %v, want ErrBodyTooLarge", err)
			}
			return
		}
	}
	tok.Finish()
	status, err := tok.Parse()
	t.Fatalf("status = %v, err = %v, body = %d bytes; want ErrBodyTooLarge", status, err, len(tok.body))
}

func TestTokenizer_CloseDelimitedBodyAtLimit(t *testing.T) {
	tok := New(Options{MaxBodySize: 4, CloseDelimitedBody: true})
	tok.Feed([]byte("POST / HTTP/1.1\r\n\r\nabcd"))
	tok.Finish()
	status, err := tok.Parse()
	if err != nil || status != StatusDone {
		t.Fatalf("status = %v, err = %v", status, err)
	}
	req, err := tok.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if string(req.Body) != "abcd" {
		t.Errorf("Body = %q", req.Body)
	}
}

func TestTokenizer_HeaderTooLarge(t *testing.T) {
	tok := New(Options{MaxHeaderBytes: 256})
	tok.Feed([]byte("GET / HTTP/1.1\r\n"))
	for i := 0; i < 100; i++ {
		tok.Feed([]byte(fmt.Sprintf("h%d: v\r\n", i)))
		if _, err := tok.Parse(); err != nil {
			if !errors.Is(err, ErrHeaderTooLarge) {
				t.Fatalf("err = %v, want ErrHeaderTooLarge", err)
			}
			var perr *Error
			if !errors.As(err, &perr) || perr.Stage != StageHeader {
				t.Fatalf("err = %#v, want *Error in header stage", err)
			}
			return
		}
	}
	t.Fatal("head of 100 headers passed a 256 byte limit")
}

func TestTokenizer_HeaderTooLargeUnterminated(t *testing.T) {
	tok := New(Options{MaxHeaderBytes: 64, MaxLineLength: 1024})
	tok.Feed([]byte("GET / HTTP/1.1\r\nX-Long: " + strings.Repeat("a", 100)))
	if _, err := tok.Parse(); !errors.Is(err, ErrHeaderTooLarge) {
		t.Fatalf("err = %v, want ErrHeaderTooLarge", err)
	}
}

func TestTokenizer_HeaderLimitExcludesBody(t *testing.T) {
	head := "POST / HTTP/1.1\r\nContent-Length: 100\r\n\r\n"
	tok := New(Options{MaxHeaderBytes: len(head)})
	tok.Feed([]byte(head + strings.Repeat("b", 100)))
	status, err := tok.Parse()
	if err != nil || status != StatusDone {
		t.Fatalf("status = %v, err = %v", status, err)
	}
}

func TestTokenizer_ManyHeaders(t *testing.T) {
	const n = 2000
	var b strings.Builder
	b.WriteString("GET / HTTP/1.1\r\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "h%d: %d\r\n", i, i)
	}
	b.WriteString("H0: last\r\n\r\n")

	tok := New(Options{MaxHeaderBytes: 1 << 20})
	data := []byte(b.String())
	for len(data) > 0 {
		chunk := data
		if len(chunk) > 1024 {
			chunk = chunk[:1024]
		}
		tok.Feed(chunk)
		data = data[len(chunk):]
		if _, err := tok.Parse(); err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
	}
	req, err := tok.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if len(req.Headers) != n {
		t.Fatalf("got %d headers, want %d", len(req.Headers), n)
	}
	if h := req.Headers[0]; h.Key != "h0" || h.Value != "last" {
		t.Errorf("first header = %+v, want h0: last", h)
	}
}

func TestTokenizer_ResetClearsHeaderIndex(t *testing.T) {
	tok := New(Options{})
	tok.Feed([]byte("GET /a HTTP/1.1\r\nX-A: 1\r\n\r\nGET /b HTTP/1.1\r\nx-a: 2\r\n\r\n"))
	if status, err := tok.Parse(); err != nil || status != StatusDone {
		t.Fatalf("first: status = %v, err = %v", status, err)
	}
	tok.Reset()
	if status, err := tok.Parse(); err != nil || status != StatusDone {
		t.Fatalf("second: status = %v, err = %v", status, err)
	}
	req, err := tok.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	want := []Header{{Key: "x-a", Value: "2"}}
	if !reflect.DeepEqual(req.Headers, want) {
		t.Errorf("Headers = %+v, want %+v", req.Headers, want)
	}
}

func TestTokenizer_RequestIncompleteField(t *testing.T) {
	tok := New(Options{})
	tok.Feed([]byte("GET /"))
	tok.Parse()
	_, err := tok.Request()
	if !errors.Is(err, ErrIncompleteField) {
		t.Fatalf("err = %v, want ErrIncompleteField", err)
	}
}

func TestTokenizer_Nodes(t *testing.T) {
	tok := New(Options{CloseDelimitedBody: true})
	tok.Feed([]byte("POST /x HTTP/1.1\r\nHost: a\r\n\r\nbody"))
	tok.Finish()
	if status, err := tok.Parse(); err != nil || status != StatusDone {
		t.Fatalf("status = %v, err = %v", status, err)
	}

	want := []Node{
		{Kind: KindMethod, Value: []byte("POST")},
		{Kind: KindPath, Value: []byte("/x")},
		{Kind: KindVersion, Value: []byte("HTTP/1.1")},
		{Kind: KindHeader, Value: []byte("Host: a")},
		{Kind: KindBody, Value: []byte("body")},
	}
	if !reflect.DeepEqual(tok.Nodes(), want) {
		t.Errorf("Nodes() = %v, want %v", tok.Nodes(), want)
	}
}
