package tokenizer

// String interning for common request tokens.
//
// The Go compiler optimizes map lookups with string([]byte) keys
// to avoid allocating the temporary string (the mapaccess optimization).
// This means internHeaderName(someBytes) is zero-alloc for known names.

var versions = map[string]string{
	"HTTP/1.0": "HTTP/1.0", "HTTP/1.1": "HTTP/1.1",
}

var headerNames = map[string]string{
	"Accept":            "Accept",
	"Accept-Encoding":   "Accept-Encoding",
	"Accept-Language":   "Accept-Language",
	"Authorization":     "Authorization",
	"Cache-Control":     "Cache-Control",
	"Connection":        "Connection",
	"Content-Length":    "Content-Length",
	"Content-Type":      "Content-Type",
	"Cookie":            "Cookie",
	"Expect":            "Expect",
	"Host":              "Host",
	"If-Modified-Since": "If-Modified-Since",
	"If-None-Match":     "If-None-Match",
	"Origin":            "Origin",
	"Referer":           "Referer",
	"User-Agent":        "User-Agent",
	"X-Forwarded-For":   "X-Forwarded-For",
	"X-Request-ID":      "X-Request-ID",
}

// internVersion returns an interned string for known HTTP versions, avoiding allocation.
func internVersion(b []byte) string {
	if s, ok := versions[string(b)]; ok {
		return s
	}
	return string(b)
}

// internHeaderName returns an interned string for known header names, avoiding allocation.
func internHeaderName(b []byte) string {
	if s, ok := headerNames[string(b)]; ok {
		return s
	}
	return string(b)
}
