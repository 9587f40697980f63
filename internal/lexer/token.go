// Package lexer provides tokenization for SFZ source text.
package lexer

// TokenKind identifies a token type.
type TokenKind int

const (
	// TokError is a lexical error (unterminated string or block comment).
	TokError TokenKind = iota
	// TokEOF is end of input.
	TokEOF
	// TokHeader is a '<tag>' header; Text carries the tag name only.
	TokHeader
	// TokDefine is the '#define' keyword.
	TokDefine
	// TokInclude is the '#include' keyword.
	TokInclude
	// TokEquals is '='.
	TokEquals
	// TokString is a quoted string; Text keeps the surrounding quotes.
	TokString
	// TokWord is any other whitespace-delimited run: opcode names, bare
	// values, '$variable' references, note names, numbers.
	TokWord
)

func (k TokenKind) String() string {
	switch k {
	case TokError:
		return "ERROR"
	case TokEOF:
		return "EOF"
	case TokHeader:
		return "HEADER"
	case TokDefine:
		return "DEFINE"
	case TokInclude:
		return "INCLUDE"
	case TokEquals:
		return "EQUALS"
	case TokString:
		return "STRING"
	case TokWord:
		return "WORD"
	default:
		return "UNKNOWN"
	}
}

// Token is a lexeme with its byte span and 1-based source position.
type Token struct {
	Kind   TokenKind
	Text   string
	Offset int // byte offset of the first byte
	End    int // byte offset one past the last byte
	Line   int
	Column int
}
