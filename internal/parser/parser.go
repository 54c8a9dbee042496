// Package parser builds shape-core AST views of HTTP/1.1 messages.
//
// A message is mapped to an ObjectNode with the following structure:
//
// Request:
//
//	{ "type": "request", "method": "POST", "path": "/api",
//	  "query": [{"key": "q", "value": "go"}, ...],
//	  "version": "HTTP/1.1",
//	  "headers": [{"key": "Host", "value": "example.com"}, ...],
//	  "body": "..." }
//
// Response:
//
//	{ "type": "response", "version": "HTTP/1.1", "statusCode": 200,
//	  "reason": "OK",
//	  "headers": [{"key": "Content-Type", "value": "text/plain"}, ...],
//	  "body": "..." }
package parser

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-httpd/internal/tokenizer"
)

var zeroPos = ast.Position{}

// Parser produces AST nodes from HTTP wire-format data.
type Parser struct {
	data []byte
}

// NewParser creates a new AST parser for the given input.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse parses the HTTP message and returns an AST ObjectNode.
// Data starting with "HTTP/" is a response; anything else a request.
func (p *Parser) Parse() (ast.SchemaNode, error) {
	if bytes.HasPrefix(p.data, []byte("HTTP/")) {
		resp, err := ParseResponse(p.data)
		if err != nil {
			return nil, err
		}
		return ResponseToNode(resp), nil
	}
	req, err := tokenizer.ParseRequest(p.data)
	if err != nil {
		return nil, err
	}
	return RequestToNode(req), nil
}

// RequestToNode converts a tokenized request to an AST ObjectNode.
func RequestToNode(req *tokenizer.Request) ast.SchemaNode {
	query := make([]ast.SchemaNode, 0, req.Path.Query().Len())
	for _, q := range req.Path.Query() {
		query = append(query, pairNode(q.Key, q.Value))
	}

	props := map[string]ast.SchemaNode{
		"type":    ast.NewLiteralNode("request", zeroPos),
		"method":  ast.NewLiteralNode(req.Method.String(), zeroPos),
		"path":    ast.NewLiteralNode(req.Path.Path(), zeroPos),
		"query":   ast.NewArrayDataNode(query, zeroPos),
		"version": ast.NewLiteralNode(req.Version, zeroPos),
		"headers": headersToNode(req.Headers),
	}
	if req.Body != nil {
		props["body"] = ast.NewLiteralNode(string(req.Body), zeroPos)
	}
	return ast.NewObjectNode(props, zeroPos)
}

// ResponseToNode converts a response to an AST ObjectNode.
func ResponseToNode(resp *Response) ast.SchemaNode {
	props := map[string]ast.SchemaNode{
		"type":       ast.NewLiteralNode("response", zeroPos),
		"version":    ast.NewLiteralNode(resp.Version, zeroPos),
		"statusCode": ast.NewLiteralNode(int64(resp.StatusCode), zeroPos),
		"reason":     ast.NewLiteralNode(resp.Reason, zeroPos),
		"headers":    headersToNode(resp.Headers),
	}
	if resp.Body != nil {
		props["body"] = ast.NewLiteralNode(string(resp.Body), zeroPos)
	}
	return ast.NewObjectNode(props, zeroPos)
}

func pairNode(key, value string) ast.SchemaNode {
	return ast.NewObjectNode(map[string]ast.SchemaNode{
		"key":   ast.NewLiteralNode(key, zeroPos),
		"value": ast.NewLiteralNode(value, zeroPos),
	}, zeroPos)
}

func headersToNode(headers []tokenizer.Header) ast.SchemaNode {
	elements := make([]ast.SchemaNode, len(headers))
	for i, h := range headers {
		elements[i] = pairNode(h.Key, h.Value)
	}
	return ast.NewArrayDataNode(elements, zeroPos)
}

// NodeToResponse converts an AST ObjectNode back to a Response.
func NodeToResponse(node ast.SchemaNode) (*Response, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("expected ObjectNode, got %T", node)
	}

	props := obj.Properties()
	if t := literalString(props["type"]); t != "response" {
		return nil, fmt.Errorf("expected response node, got type %q", t)
	}

	resp := &Response{
		Version:    literalString(props["version"]),
		StatusCode: literalInt(props["statusCode"]),
		Reason:     literalString(props["reason"]),
	}
	if v, ok := props["headers"]; ok {
		hdrs, err := nodeToHeaders(v)
		if err != nil {
			return nil, err
		}
		resp.Headers = hdrs
	}
	if v, ok := props["body"]; ok {
		resp.Body = []byte(literalString(v))
	}
	return resp, nil
}

func nodeToHeaders(node ast.SchemaNode) ([]tokenizer.Header, error) {
	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected ArrayDataNode for headers, got %T", node)
	}

	elements := arr.Elements()
	headers := make([]tokenizer.Header, 0, len(elements))
	for _, elem := range elements {
		obj, ok := elem.(*ast.ObjectNode)
		if !ok {
			continue
		}
		props := obj.Properties()
		headers = append(headers, tokenizer.Header{
			Key:   literalString(props["key"]),
			Value: literalString(props["value"]),
		})
	}
	return headers, nil
}

func literalString(node ast.SchemaNode) string {
	lit, ok := node.(*ast.LiteralNode)
	if !ok {
		return ""
	}
	s, _ := lit.Value().(string)
	return s
}

func literalInt(node ast.SchemaNode) int {
	lit, ok := node.(*ast.LiteralNode)
	if !ok {
		return 0
	}
	switch code := lit.Value().(type) {
	case int64:
		return int(code)
	case float64:
		return int(code)
	case string:
		n, _ := strconv.Atoi(code)
		return n
	}
	return 0
}
