// Package span provides byte-level scanning helpers over read-only byte views.
//
// Every helper takes a view and returns the remaining, unconsumed view. The
// Consume* family also returns the skipped prefix. Helpers never modify the
// underlying array and never index past the end of an empty view.
package span

// IsWhitespace reports whether s starts with a space.
func IsWhitespace(s []byte) bool {
	return len(s) > 0 && s[0] == ' '
}

// IsNewline reports whether s starts with '\r' or '\n'.
func IsNewline(s []byte) bool {
	return len(s) > 0 && (s[0] == '\r' || s[0] == '\n')
}

// SkipWhitespace drops a single leading space.
func SkipWhitespace(s []byte) []byte {
	if IsWhitespace(s) {
		return s[1:]
	}
	return s
}

// SkipWhileWhitespace drops all leading spaces.
func SkipWhileWhitespace(s []byte) []byte {
	for IsWhitespace(s) {
		s = s[1:]
	}
	return s
}

// SkipNewline drops one line terminator. "\r\n" is consumed as a pair; a bare
// '\r' or '\n' is consumed on its own.
func SkipNewline(s []byte) []byte {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '\r':
		if len(s) >= 2 && s[1] == '\n' {
			return s[2:]
		}
		return s[1:]
	case '\n':
		return s[1:]
	}
	return s
}

// SkipWhileNewline drops all contiguous line terminators.
func SkipWhileNewline(s []byte) []byte {
	for IsNewline(s) {
		s = SkipNewline(s)
	}
	return s
}

// NewlineLen returns the length of the line terminator at the head of s.
// complete is false when s ends in a lone '\r' that may still be followed by
// '\n' in data not yet received; eof forces such a '\r' to count on its own.
// A view that does not start with a terminator yields (0, true).
func NewlineLen(s []byte, eof bool) (n int, complete bool) {
	if len(s) == 0 {
		return 0, eof
	}
	switch s[0] {
	case '\n':
		return 1, true
	case '\r':
		if len(s) >= 2 {
			if s[1] == '\n' {
				return 2, true
			}
			return 1, true
		}
		return 1, eof
	}
	return 0, true
}

// ConsumeTillWhitespace advances to the first space, returning the view that
// starts at the space and the prefix before it.
func ConsumeTillWhitespace(s []byte) (rest, content []byte) {
	return ConsumeTill(s, isSpace)
}

// ConsumeTillNewline advances to the first '\r' or '\n'.
func ConsumeTillNewline(s []byte) (rest, content []byte) {
	return ConsumeTill(s, isLineBreak)
}

// ConsumeTill advances to the first byte satisfying stop, excluding it.
// If no byte matches, content is all of s and rest is empty.
func ConsumeTill(s []byte, stop func(byte) bool) (rest, content []byte) {
	for i, b := range s {
		if stop(b) {
			return s[i:], s[:i]
		}
	}
	return s[len(s):], s
}

func isSpace(b byte) bool { return b == ' ' }

func isLineBreak(b byte) bool { return b == '\r' || b == '\n' }
