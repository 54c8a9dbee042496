package tokenizer

import "strings"

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Query is an insertion-ordered mapping of query keys to values.
type Query []Param

// Get returns the value for key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Len returns the number of distinct keys.
func (q Query) Len() int { return len(q) }

// Keys returns the keys in insertion order.
func (q Query) Keys() []string {
	keys := make([]string, len(q))
	for i, p := range q {
		keys[i] = p.Key
	}
	return keys
}

func (q Query) set(key, value string) Query {
	for i := range q {
		if q[i].Key == key {
			q[i].Value = value
			return q
		}
	}
	return append(q, Param{Key: key, Value: value})
}

// Path is a parsed request-target.
type Path struct {
	raw   string
	path  string
	query Query
}

// ParsePath splits a raw request-target into its path and query parts.
// The query is split on '&' and then on the first '='. A pair without '='
// maps to the empty string, empty pairs are skipped and a repeated key keeps
// its first position with the last value.
func ParsePath(raw string) (Path, error) {
	if raw == "" {
		return Path{}, errorf(ErrInvalidPath, "empty path")
	}

	path, rawQuery, _ := strings.Cut(raw, "?")
	var query Query
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		query = query.set(key, value)
	}

	return Path{raw: raw, path: path, query: query}, nil
}

// Raw returns the request-target as received.
func (p Path) Raw() string { return p.raw }

// Path returns the part before '?'.
func (p Path) Path() string { return p.path }

// Query returns the parsed query parameters.
func (p Path) Query() Query { return p.query }

// Segments returns the non-empty '/'-separated path segments.
func (p Path) Segments() []string {
	var segs []string
	for _, s := range strings.Split(p.path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func (p Path) String() string { return p.raw }
