package tokenizer

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
)

// Status is the coarse lifecycle of one request's decode.
type Status uint8

const (
	StatusNeed Status = iota
	StatusParsing
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusNeed:
		return "need"
	case StatusParsing:
		return "parsing"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// DefaultMaxLineLength bounds an unterminated token in the request head.
const DefaultMaxLineLength = 8192

// DefaultMaxHeaderBytes bounds the request line and headers together.
const DefaultMaxHeaderBytes = 64 << 10

// Options tune a Tokenizer.
type Options struct {
	// MaxLineLength bounds the bytes buffered for a single unterminated
	// request-line token or header line. Zero means DefaultMaxLineLength.
	MaxLineLength int
	// MaxHeaderBytes bounds the request head, from the first byte of the
	// request line through the blank line. Zero means DefaultMaxHeaderBytes.
	MaxHeaderBytes int
	// MaxBodySize rejects a body larger than it, whether announced by
	// Content-Length or read until end of stream. Zero means no limit.
	MaxBodySize int64
	// CloseDelimitedBody makes a request without Content-Length read its body
	// until end of stream. When false such a request has an empty body.
	CloseDelimitedBody bool
}

// Tokenizer incrementally turns fed bytes into a Request.
// A Tokenizer is owned by a single connection and is not safe for concurrent
// use.
type Tokenizer struct {
	opts Options

	buf      []byte
	off      int  // start of unconsumed bytes in buf
	finished bool // no more bytes will be fed

	state    State
	status   Status
	err      error
	consumed int // bytes consumed by the current request

	nodes   []Node
	method  Method
	path    Path
	hasPath bool
	version string
	hasVer  bool
	headers []Header
	index   map[string]int // lowercased name -> position in headers
	body    []byte
}

// New returns a Tokenizer positioned at the start of a request.
func New(opts Options) *Tokenizer {
	if opts.MaxLineLength <= 0 {
		opts.MaxLineLength = DefaultMaxLineLength
	}
	if opts.MaxHeaderBytes <= 0 {
		opts.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	return &Tokenizer{opts: opts}
}

// Feed appends chunk to the internal buffer. It does not advance parsing.
func (t *Tokenizer) Feed(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	if t.off > 0 {
		n := copy(t.buf, t.buf[t.off:])
		t.buf = t.buf[:n]
		t.off = 0
	}
	t.buf = append(t.buf, chunk...)
}

// Finish records that the byte provider reached end of stream.
func (t *Tokenizer) Finish() { t.finished = true }

// Finished reports whether Finish was called.
func (t *Tokenizer) Finished() bool { return t.finished }

// Buffered returns the number of fed bytes not yet consumed.
func (t *Tokenizer) Buffered() int { return len(t.buf) - t.off }

// Status returns the current lifecycle status.
func (t *Tokenizer) Status() Status { return t.status }

// Stage returns the stage the tokenizer is in.
func (t *Tokenizer) Stage() Stage { return t.state.Stage }

// Nodes returns the nodes emitted for the current request. The body node is
// appended once the request is Done.
func (t *Tokenizer) Nodes() []Node { return t.nodes }

// Idle reports whether nothing of a new request has been seen yet.
func (t *Tokenizer) Idle() bool {
	return t.state.Stage == StageMethod && len(t.nodes) == 0 && t.Buffered() == 0
}

// Parse drains the buffer into tokens. It returns StatusNeed when the buffer
// is exhausted before the request is complete, and StatusDone once the body
// is complete. Errors are sticky until Reset.
//
// After Finish, running out of input mid-request fails with
// ErrIncompleteRequest; an idle tokenizer stays at StatusNeed.
func (t *Tokenizer) Parse() (Status, error) {
	switch t.status {
	case StatusError:
		return t.status, t.err
	case StatusDone:
		return t.status, nil
	}
	t.status = StatusParsing

	for {
		tr, err := Step(t.state, t.buf[t.off:], t.finished)
		t.off += tr.Consumed
		t.consumed += tr.Consumed

		if errors.Is(err, ErrNeedMore) {
			return t.needMore()
		}
		if err != nil {
			return t.fail(err)
		}

		prev := t.state.Stage
		if prev < StageBody && t.consumed > t.opts.MaxHeaderBytes {
			return t.fail(errorf(ErrHeaderTooLarge, "head exceeds %d bytes", t.opts.MaxHeaderBytes))
		}
		if tr.Emit {
			if err := t.accept(tr.Node); err != nil {
				return t.fail(err)
			}
		}
		t.state = tr.Next

		if prev == StageHeader && t.state.Stage == StageBody {
			remaining, err := t.bodyLength()
			if err != nil {
				return t.fail(err)
			}
			t.state.Remaining = remaining
		}

		if t.state.Stage == StageDone {
			t.nodes = append(t.nodes, NewNode(KindBody, t.body))
			t.status = StatusDone
			return t.status, nil
		}
	}
}

func (t *Tokenizer) needMore() (Status, error) {
	if t.finished {
		if t.Idle() {
			t.status = StatusNeed
			return t.status, nil
		}
		return t.fail(errorf(ErrIncompleteRequest, "stream ended in %s", t.state.Stage))
	}
	if t.state.Stage < StageBody && t.consumed+t.Buffered() > t.opts.MaxHeaderBytes {
		return t.fail(errorf(ErrHeaderTooLarge, "head exceeds %d bytes", t.opts.MaxHeaderBytes))
	}
	if t.state.Stage < StageBody && t.Buffered() > t.opts.MaxLineLength {
		return t.fail(errorf(ErrLineTooLong, "more than %d bytes without terminator", t.opts.MaxLineLength))
	}
	t.status = StatusNeed
	return t.status, nil
}

func (t *Tokenizer) fail(err error) (Status, error) {
	detail := ""
	var d *detailed
	if errors.As(err, &d) {
		err, detail = d.err, d.detail
	}
	t.err = newError(err, t.state.Stage, t.consumed, detail)
	t.status = StatusError
	return t.status, t.err
}

func (t *Tokenizer) accept(n Node) error {
	switch n.Kind {
	case KindMethod:
		m, err := ParseMethod(n.Value)
		if err != nil {
			return err
		}
		t.method = m
	case KindPath:
		p, err := ParsePath(string(n.Value))
		if err != nil {
			return err
		}
		t.path, t.hasPath = p, true
	case KindVersion:
		t.version, t.hasVer = internVersion(n.Value), true
	case KindHeader:
		key, value, err := SplitHeader(n.Value)
		if err != nil {
			return err
		}
		t.setHeader(internHeaderName(key), string(value))
	case KindBody:
		if limit := t.opts.MaxBodySize; limit > 0 && int64(len(t.body)+len(n.Value)) > limit {
			return errorf(ErrBodyTooLarge, "body exceeds limit of %d", limit)
		}
		t.body = append(t.body, n.Value...)
		return nil
	}
	t.nodes = append(t.nodes, NewNode(n.Kind, bytes.Clone(n.Value)))
	return nil
}

// setHeader replaces the value of an existing key (case-insensitive) or
// appends a new header.
func (t *Tokenizer) setHeader(key, value string) {
	lk := strings.ToLower(key)
	if i, ok := t.index[lk]; ok {
		t.headers[i].Value = value
		return
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	t.index[lk] = len(t.headers)
	t.headers = append(t.headers, Header{Key: key, Value: value})
}

func (t *Tokenizer) lookupHeader(key string) (string, bool) {
	i, ok := t.index[strings.ToLower(key)]
	if !ok {
		return "", false
	}
	return t.headers[i].Value, true
}

func (t *Tokenizer) bodyLength() (int64, error) {
	v, ok := t.lookupHeader("Content-Length")
	if !ok {
		if t.opts.CloseDelimitedBody {
			return -1, nil
		}
		return 0, nil
	}
	digits := strings.TrimSpace(v)
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, errorf(ErrInvalidContentLength, "%q", v)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, errorf(ErrInvalidContentLength, "%q", v)
	}
	if t.opts.MaxBodySize > 0 && n > t.opts.MaxBodySize {
		return 0, errorf(ErrBodyTooLarge, "%d bytes exceeds limit of %d", n, t.opts.MaxBodySize)
	}
	return n, nil
}

// Request materializes the parsed request. It fails with ErrIncompleteField
// when method, path or version has not been seen.
func (t *Tokenizer) Request() (*Request, error) {
	switch {
	case t.method == MethodUnknown:
		return nil, newError(ErrIncompleteField, t.state.Stage, t.consumed, "method is not set")
	case !t.hasPath:
		return nil, newError(ErrIncompleteField, t.state.Stage, t.consumed, "path is not set")
	case !t.hasVer:
		return nil, newError(ErrIncompleteField, t.state.Stage, t.consumed, "version is not set")
	}
	return &Request{
		Method:  t.method,
		Path:    t.path,
		Version: t.version,
		Headers: t.headers,
		Body:    t.body,
	}, nil
}

// Reset prepares the tokenizer for the next request on the same stream.
// Bytes fed beyond the end of the previous request are kept and parsed first.
func (t *Tokenizer) Reset() {
	t.state = State{Stage: StageMethod}
	t.status = StatusNeed
	t.err = nil
	t.consumed = 0
	t.nodes = nil
	t.method = MethodUnknown
	t.path, t.hasPath = Path{}, false
	t.version, t.hasVer = "", false
	t.headers = nil
	clear(t.index)
	t.body = nil
}

// ParseRequest tokenizes a complete request held in data. A body without
// Content-Length runs to the end of data.
func ParseRequest(data []byte) (*Request, error) {
	t := New(Options{CloseDelimitedBody: true})
	t.Feed(data)
	t.Finish()
	status, err := t.Parse()
	if err != nil {
		return nil, err
	}
	if status != StatusDone {
		return nil, newError(ErrIncompleteRequest, t.state.Stage, t.consumed, "no request data")
	}
	return t.Request()
}
