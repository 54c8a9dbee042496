package http

import (
	"github.com/shapestone/shape-httpd/internal/parser"
	"github.com/shapestone/shape-httpd/internal/tokenizer"
)

// ParseRequest decodes one complete request held in data. A body without
// Content-Length runs to the end of data.
func ParseRequest(data []byte) (*Request, error) {
	tr, err := tokenizer.ParseRequest(data)
	if err != nil {
		return nil, err
	}
	return FromTokenized(tr), nil
}

// UnmarshalResponse reads a response from its wire encoding. It is the
// inverse of Marshal.
func UnmarshalResponse(data []byte) (*Response, error) {
	pr, err := parser.ParseResponse(data)
	if err != nil {
		return nil, &ParseError{Message: err.Error(), Err: err}
	}
	return fromParsed(pr), nil
}

func fromParsed(pr *parser.Response) *Response {
	resp := &Response{
		Version: pr.Version,
		Status:  Status(pr.StatusCode),
		Body:    pr.Body,
	}
	for _, h := range pr.Headers {
		resp.Headers = append(resp.Headers, Header{Key: h.Key, Value: h.Value})
	}
	return resp
}
