// Package lexer tokenizes HTTP/1.1 response heads using Shape's tokenizer
// framework. It is the read side of the response generator: bytes produced
// for a client can be lexed back into a status line and header fields.
package lexer

// Token type constants for response heads.
// HTTP is line-oriented, so tokens represent logical elements of a line.
const (
	TokenVersion = "Version" // HTTP/1.0, HTTP/1.1
	TokenColon   = "Colon"   // :
	TokenSP      = "SP"      // Space separator
	TokenCRLF    = "CRLF"    // Line ending \r\n or \n
	TokenText    = "Text"    // everything else
)
