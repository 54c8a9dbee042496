package http

import (
	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-httpd/internal/parser"
	"github.com/shapestone/shape-httpd/internal/tokenizer"
)

// NodeToResponse converts an AST ObjectNode to a Response.
func NodeToResponse(node ast.SchemaNode) (*Response, error) {
	pr, err := parser.NodeToResponse(node)
	if err != nil {
		return nil, err
	}
	return fromParsed(pr), nil
}

// ResponseToNode converts a Response to an AST ObjectNode.
func ResponseToNode(resp *Response) ast.SchemaNode {
	version := resp.Version
	if version == "" {
		version = "HTTP/1.1"
	}
	pr := &parser.Response{
		Version:    version,
		StatusCode: resp.Status.Code(),
		Reason:     resp.Status.Reason(),
		Body:       resp.Body,
	}
	for _, h := range resp.Headers {
		pr.Headers = append(pr.Headers, tokenizer.Header{Key: h.Key, Value: h.Value})
	}
	return parser.ResponseToNode(pr)
}

// RequestToNode converts a Request to an AST ObjectNode.
func RequestToNode(req *Request) ast.SchemaNode {
	tr := &tokenizer.Request{
		Method:  req.method,
		Path:    req.path,
		Version: req.version,
		Body:    req.body,
	}
	for _, h := range req.headers {
		tr.Headers = append(tr.Headers, tokenizer.Header{Key: h.Key, Value: h.Value})
	}
	return parser.RequestToNode(tr)
}

// NodeToInterface converts an AST node to native Go types.
func NodeToInterface(node ast.SchemaNode) interface{} {
	switch n := node.(type) {
	case *ast.LiteralNode:
		return n.Value()
	case *ast.ArrayDataNode:
		elements := n.Elements()
		arr := make([]interface{}, len(elements))
		for i, elem := range elements {
			arr[i] = NodeToInterface(elem)
		}
		return arr
	case *ast.ObjectNode:
		props := n.Properties()
		m := make(map[string]interface{}, len(props))
		for k, v := range props {
			m[k] = NodeToInterface(v)
		}
		return m
	default:
		return nil
	}
}
