package lexer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosfz/sfzlint/internal/logging"
)

// Lexer tokenizes SFZ source text. Comments are skipped during scanning
// rather than pre-stripped so that line and column accounting of surviving
// tokens is exact.
type Lexer struct {
	source []byte
	pos    int
	line   int // 1-based line of pos
	col    int // 1-based column of pos
	logging.Logger
}

// New returns a Lexer over the given source bytes.
func New(source []byte, logger *slog.Logger) *Lexer {
	l := &Lexer{
		source: source,
		line:   1,
		col:    1,
		Logger: logging.Logger{L: logger},
	}
	l.Debug("lexer initialized", slog.Int("bytes", len(source)))
	return l
}

// Tokenize consumes all source text and returns the token stream, ending
// with a TokEOF token.
func (l *Lexer) Tokenize() []Token {
	estimated := max(len(l.source)/8, 32)
	tokens := make([]Token, 0, estimated)
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF || tok.Kind == TokError {
			break
		}
	}
	l.Debug("tokenization complete", slog.Int("tokens", len(tokens)))
	return tokens
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	return l.source[l.pos], true
}

func (l *Lexer) peekAt(offset int) (byte, bool) {
	idx := l.pos + offset
	if idx >= len(l.source) {
		return 0, false
	}
	return l.source[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	b := l.source[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b, true
}

// atComment reports whether pos sits at a '//' or '/*' sequence.
func (l *Lexer) atComment() bool {
	b, ok := l.peek()
	if !ok || b != '/' {
		return false
	}
	next, ok := l.peekAt(1)
	return ok && (next == '/' || next == '*')
}

// skipComment consumes a line or block comment. Returns false if a block
// comment is unterminated.
func (l *Lexer) skipComment() bool {
	l.advance() // '/'
	marker, _ := l.advance()
	if marker == '/' {
		for {
			b, ok := l.peek()
			if !ok || b == '\n' {
				return true
			}
			l.advance()
		}
	}
	// block comment
	for {
		b, ok := l.advance()
		if !ok {
			return false
		}
		if b == '*' {
			if next, ok := l.peek(); ok && next == '/' {
				l.advance()
				return true
			}
		}
	}
}

// skipBlanks consumes whitespace and comments. Returns an error token via
// the second return when a block comment never terminates.
func (l *Lexer) skipBlanks() *Token {
	for {
		if l.atComment() {
			start, line, col := l.pos, l.line, l.col
			if !l.skipComment() {
				return &Token{
					Kind: TokError, Text: "unterminated block comment",
					Offset: start, End: l.pos, Line: line, Column: col,
				}
			}
			continue
		}
		b, ok := l.peek()
		if !ok {
			return nil
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			l.advance()
			continue
		}
		return nil
	}
}

// NextToken advances the lexer and returns the next token. Returns TokEOF
// once all input is consumed.
func (l *Lexer) NextToken() Token {
	if errTok := l.skipBlanks(); errTok != nil {
		return *errTok
	}

	start, line, col := l.pos, l.line, l.col
	b, ok := l.peek()
	if !ok {
		return Token{Kind: TokEOF, Offset: start, End: start, Line: line, Column: col}
	}

	var tok Token
	switch {
	case b == '<':
		tok = l.scanHeader(start, line, col)
	case b == '#':
		tok = l.scanMacroKeyword(start, line, col)
	case b == '=':
		l.advance()
		tok = l.token(TokEquals, start, line, col)
	case b == '"':
		tok = l.scanString(start, line, col)
	default:
		tok = l.scanWord(start, line, col)
	}

	if l.TraceEnabled() {
		l.Trace("token",
			slog.String("kind", tok.Kind.String()),
			slog.String("text", tok.Text),
			slog.Int("line", tok.Line),
			slog.Int("col", tok.Column))
	}
	return tok
}

func (l *Lexer) token(kind TokenKind, start, line, col int) Token {
	return Token{
		Kind:   kind,
		Text:   string(l.source[start:l.pos]),
		Offset: start,
		End:    l.pos,
		Line:   line,
		Column: col,
	}
}

func (l *Lexer) errToken(msg string, start, line, col int) Token {
	return Token{Kind: TokError, Text: msg, Offset: start, End: l.pos, Line: line, Column: col}
}

// scanHeader scans '<tag>'. The token text is the tag name without brackets.
func (l *Lexer) scanHeader(start, line, col int) Token {
	l.advance() // '<'
	tagStart := l.pos
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return l.errToken("unterminated header tag", start, line, col)
		}
		if b == '>' {
			tag := string(l.source[tagStart:l.pos])
			l.advance()
			return Token{
				Kind: TokHeader, Text: tag,
				Offset: start, End: l.pos, Line: line, Column: col,
			}
		}
		l.advance()
	}
}

// scanMacroKeyword scans '#define' or '#include'. Any other '#word' is
// returned as a plain word and left for the parser to reject.
func (l *Lexer) scanMacroKeyword(start, line, col int) Token {
	l.advance() // '#'
	for {
		b, ok := l.peek()
		if !ok || !isWordByte(b) || b == '=' {
			break
		}
		l.advance()
	}
	tok := l.token(TokWord, start, line, col)
	switch strings.ToLower(tok.Text) {
	case "#define":
		tok.Kind = TokDefine
	case "#include":
		tok.Kind = TokInclude
	}
	return tok
}

func (l *Lexer) scanString(start, line, col int) Token {
	l.advance() // opening quote
	for {
		b, ok := l.advance()
		if !ok || b == '\n' {
			return l.errToken(fmt.Sprintf("unterminated string at line %d", line), start, line, col)
		}
		if b == '"' {
			return l.token(TokString, start, line, col)
		}
	}
}

func isWordByte(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '<', '"':
		return false
	}
	return true
}

// scanWord scans a whitespace-delimited run. '=' terminates a word so that
// 'name=value' splits into three tokens; comment starts terminate it so
// comments are stripped even without surrounding whitespace.
func (l *Lexer) scanWord(start, line, col int) Token {
	for {
		b, ok := l.peek()
		if !ok || !isWordByte(b) || b == '=' || l.atComment() {
			break
		}
		l.advance()
	}
	if l.pos == start {
		// lone unexpected byte, consume it so the lexer makes progress
		l.advance()
	}
	return l.token(TokWord, start, line, col)
}
