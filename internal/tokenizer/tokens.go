// Package tokenizer implements an incremental HTTP/1.1 request tokenizer.
//
// Bytes are fed in arbitrary chunks; Parse drains whatever is buffered into
// nodes and reports whether more input is needed. The tokenizer walks the
// stages Method, Path, Version, Header (repeated until a blank line) and Body
// strictly in order.
package tokenizer

// Kind tags the content carried by a Node.
// Nodes are the minimal units of wire content shared by the request tokenizer
// and the response generator.
type Kind uint8

const (
	KindMethod  Kind = iota + 1 // GET, POST, PUT, DELETE
	KindPath                    // request-target /api/users?q=foo
	KindVersion                 // HTTP/1.1
	KindStatus                  // 200 OK (response direction only)
	KindHeader                  // Key: Value
	KindBody                    // raw body content
)

var kindNames = [...]string{
	KindMethod:  "Method",
	KindPath:    "Path",
	KindVersion: "Version",
	KindStatus:  "Status",
	KindHeader:  "Header",
	KindBody:    "Body",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is a tagged slice of raw wire bytes.
type Node struct {
	Kind  Kind
	Value []byte
}

// NewNode returns a node of the given kind holding value.
func NewNode(kind Kind, value []byte) Node {
	return Node{Kind: kind, Value: value}
}

// String renders the node for debugging.
func (n Node) String() string {
	return n.Kind.String() + "(" + string(n.Value) + ")"
}
