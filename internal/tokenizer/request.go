package tokenizer

// Header is a key-value pair.
type Header struct {
	Key   string
	Value string
}

// Request is the product of a completed tokenization.
type Request struct {
	Method  Method
	Path    Path
	Version string
	Headers []Header // unique keys in first-seen order, last value wins
	Body    []byte
}
