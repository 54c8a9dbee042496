package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewTokenizer creates a tokenizer for response heads.
// Matchers are tried in order:
// 1. CRLF (line endings)
// 2. SP (space separator)
// 3. Colon (header separator)
// 4. HTTP version string
// 5. Generic text (status code, reason words, header names and values)
//
// The default whitespace skipper is not used because spaces and line endings
// are significant.
func NewTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		CRLFMatcher(),
		SPMatcher(),
		tokenizer.StringMatcherFunc(TokenColon, ":"),
		VersionMatcher(),
		TextMatcher(),
	)
}

// CRLFMatcher matches \r\n or bare \n.
func CRLFMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok {
			return nil
		}
		switch r {
		case '\r':
			value := []rune{'\r'}
			stream.NextChar()
			if r2, ok := stream.PeekChar(); ok && r2 == '\n' {
				stream.NextChar()
				value = append(value, '\n')
			}
			return tokenizer.NewToken(TokenCRLF, value)
		case '\n':
			stream.NextChar()
			return tokenizer.NewToken(TokenCRLF, []rune{'\n'})
		}
		return nil
	}
}

// SPMatcher matches a single space character.
func SPMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != ' ' {
			return nil
		}
		stream.NextChar()
		return tokenizer.NewToken(TokenSP, []rune{' '})
	}
}

// VersionMatcher matches "HTTP/" followed by digits and dots.
func VersionMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for _, expected := range "HTTP/" {
			r, ok := stream.PeekChar()
			if !ok || r != expected {
				return nil
			}
			stream.NextChar()
			value = append(value, r)
		}
		for {
			r, ok := stream.PeekChar()
			if !ok || !((r >= '0' && r <= '9') || r == '.') {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		return tokenizer.NewToken(TokenVersion, value)
	}
}

// TextMatcher matches any run of characters up to SP, CRLF, colon or end of
// stream.
func TextMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok || r == ' ' || r == '\r' || r == '\n' || r == ':' {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenText, value)
	}
}

// Field is a header field read from a response head.
type Field struct {
	Key   string
	Value string
}

// Head is a lexed response head.
type Head struct {
	Version    string
	StatusCode int
	Reason     string
	Fields     []Field
}

// Lex splits head into lines of tokens. Line terminators are dropped.
func Lex(head string) ([][]tokenizer.Token, error) {
	tok := NewTokenizer()
	tok.Initialize(head)
	tokens, eos := tok.Tokenize()
	if !eos {
		return nil, fmt.Errorf("unlexable input after %d tokens", len(tokens))
	}

	var lines [][]tokenizer.Token
	var line []tokenizer.Token
	for _, t := range tokens {
		if t.Kind() == TokenCRLF {
			lines = append(lines, line)
			line = nil
			continue
		}
		line = append(line, t)
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines, nil
}

// ParseHead lexes a response head: a status line followed by header lines.
// Trailing blank lines are ignored.
func ParseHead(head string) (*Head, error) {
	lines, err := Lex(head)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("missing status line")
	}

	h := &Head{}
	if err := parseStatusLine(lines[0], h); err != nil {
		return nil, err
	}
	for i, line := range lines[1:] {
		if len(line) == 0 {
			continue
		}
		f, err := parseField(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		h.Fields = append(h.Fields, f)
	}
	return h, nil
}

func parseStatusLine(line []tokenizer.Token, h *Head) error {
	if len(line) < 3 || line[0].Kind() != TokenVersion || line[1].Kind() != TokenSP {
		return fmt.Errorf("malformed status line: %q", join(line))
	}
	h.Version = line[0].ValueString()

	code, err := strconv.Atoi(line[2].ValueString())
	if err != nil {
		return fmt.Errorf("invalid status code: %s", line[2].ValueString())
	}
	h.StatusCode = code

	if len(line) > 3 {
		if line[3].Kind() != TokenSP {
			return fmt.Errorf("malformed status line: %q", join(line))
		}
		h.Reason = join(line[4:])
	}
	return nil
}

func parseField(line []tokenizer.Token) (Field, error) {
	if len(line) < 2 || line[0].Kind() != TokenText || line[1].Kind() != TokenColon {
		return Field{}, fmt.Errorf("malformed header line: %q", join(line))
	}
	return Field{
		Key:   line[0].ValueString(),
		Value: strings.TrimLeft(join(line[2:]), " "),
	}, nil
}

func join(tokens []tokenizer.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.ValueString())
	}
	return b.String()
}
