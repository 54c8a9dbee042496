package http

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// Render converts a response AST node (from Parse or ResponseToNode) back to
// HTTP wire format bytes.
func Render(node ast.SchemaNode) ([]byte, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("http: Render: expected ObjectNode, got %T", node)
	}

	typeLit, ok := obj.Properties()["type"].(*ast.LiteralNode)
	if !ok {
		return nil, fmt.Errorf("http: Render: missing 'type' property")
	}

	msgType, ok := typeLit.Value().(string)
	if !ok {
		return nil, fmt.Errorf("http: Render: 'type' is not a string")
	}

	switch msgType {
	case "response":
		resp, err := NodeToResponse(node)
		if err != nil {
			return nil, fmt.Errorf("http: Render: %w", err)
		}
		return Marshal(resp)
	case "request":
		return nil, fmt.Errorf("http: Render: requests are decoded only, not generated")
	default:
		return nil, fmt.Errorf("http: Render: unknown message type %q", msgType)
	}
}
