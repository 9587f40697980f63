// Package parser converts an SFZ token stream into a syntax tree.
//
// The grammar is position-disambiguated: opcode names, header tags, and
// macro keywords share a lexical class, so the parser decides by a fixed
// two-token lookahead and never backtracks. A structural grammar mismatch
// aborts the current file with a single error; everything else is left for
// the semantic builder to judge.
package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosfz/sfzlint/internal/ast"
	"github.com/gosfz/sfzlint/internal/lexer"
	"github.com/gosfz/sfzlint/internal/logging"
)

// ParseError is a structural grammar mismatch.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Parser converts a token stream into an ast.File.
type Parser struct {
	source []byte
	lex    *lexer.Lexer
	buf    [2]lexer.Token // buf[0]=current, buf[1]=peek
	logging.Logger
}

// New returns a Parser over the given source. Pass nil for logger to
// disable logging.
func New(source []byte, logger *slog.Logger) *Parser {
	var lexLogger *slog.Logger
	if logger != nil {
		lexLogger = logger.With(slog.String("component", "lexer"))
	}
	p := &Parser{
		source: source,
		lex:    lexer.New(source, lexLogger),
		Logger: logging.Logger{L: logger},
	}
	p.buf[0] = p.lex.NextToken()
	p.buf[1] = p.lex.NextToken()
	return p
}

func (p *Parser) current() lexer.Token { return p.buf[0] }
func (p *Parser) peek() lexer.Token    { return p.buf[1] }

func (p *Parser) next() lexer.Token {
	tok := p.buf[0]
	p.buf[0] = p.buf[1]
	if p.buf[1].Kind != lexer.TokEOF && p.buf[1].Kind != lexer.TokError {
		p.buf[1] = p.lex.NextToken()
	}
	return tok
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...any) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

func astTok(tok lexer.Token) ast.Tok {
	return ast.Tok{Text: tok.Text, Line: tok.Line, Column: tok.Column}
}

// ParseFile parses the whole input. On a structural error the nodes parsed
// so far are returned alongside the error.
func (p *Parser) ParseFile() (*ast.File, error) {
	file := &ast.File{}
	for {
		tok := p.current()
		switch tok.Kind {
		case lexer.TokEOF:
			p.Debug("parse complete", slog.Int("nodes", len(file.Nodes)))
			return file, nil
		case lexer.TokError:
			return file, p.errorf(tok, "%s", tok.Text)
		case lexer.TokHeader:
			p.next()
			file.Nodes = append(file.Nodes, &ast.Header{Tag: astTok(tok)})
		case lexer.TokDefine:
			node, err := p.parseDefine()
			if err != nil {
				return file, err
			}
			file.Nodes = append(file.Nodes, node)
		case lexer.TokInclude:
			node, err := p.parseInclude()
			if err != nil {
				return file, err
			}
			file.Nodes = append(file.Nodes, node)
		case lexer.TokWord:
			node, err := p.parseOpcode()
			if err != nil {
				return file, err
			}
			file.Nodes = append(file.Nodes, node)
		default:
			return file, p.errorf(tok, "unexpected %q", tok.Text)
		}
	}
}

// parseDefine parses '#define $name value'. The value is a single token.
func (p *Parser) parseDefine() (*ast.Define, error) {
	p.next() // '#define'
	name := p.current()
	if name.Kind != lexer.TokWord || len(name.Text) < 2 || name.Text[0] != '$' {
		return nil, p.errorf(name, "expected $variable after #define, got %q", name.Text)
	}
	p.next()
	value := p.current()
	if value.Kind != lexer.TokWord && value.Kind != lexer.TokString {
		return nil, p.errorf(value, "expected value after #define %s", name.Text)
	}
	p.next()
	return &ast.Define{Name: astTok(name), Value: astTok(value)}, nil
}

// parseInclude parses '#include "path"'.
func (p *Parser) parseInclude() (*ast.Include, error) {
	keyword := p.next()
	path := p.current()
	if path.Kind != lexer.TokString {
		return nil, p.errorf(path, "expected quoted path after #include")
	}
	p.next()
	return &ast.Include{Keyword: astTok(keyword), Path: astTok(path)}, nil
}

// parseOpcode parses 'name=value'. The value run may span several word
// tokens (values keep embedded whitespace) and ends at the next assignment,
// header, macro, or EOF.
func (p *Parser) parseOpcode() (*ast.Opcode, error) {
	name := p.next()
	eq := p.current()
	if eq.Kind != lexer.TokEquals {
		return nil, p.errorf(name, "expected '=' after %q", name.Text)
	}
	p.next()

	first := p.current()
	if first.Kind == lexer.TokString {
		p.next()
		return &ast.Opcode{Name: astTok(name), Value: astTok(first)}, nil
	}
	if first.Kind != lexer.TokWord {
		return nil, p.errorf(first, "expected value after %q=", name.Text)
	}

	// The run is rebuilt from the tokens, not sliced from the source, so
	// comments and newlines between words never survive into the value.
	// A gap of plain blanks keeps its width; anything else becomes one space.
	prev := p.next()
	var text strings.Builder
	text.WriteString(prev.Text)
	for p.current().Kind == lexer.TokWord && p.peek().Kind != lexer.TokEquals {
		tok := p.next()
		if gap := p.source[prev.End:tok.Offset]; blankGap(gap) {
			text.Write(gap)
		} else {
			text.WriteByte(' ')
		}
		text.WriteString(tok.Text)
		prev = tok
	}

	value := ast.Tok{
		Text:   text.String(),
		Line:   first.Line,
		Column: first.Column,
	}
	return &ast.Opcode{Name: astTok(name), Value: value}, nil
}

func blankGap(gap []byte) bool {
	for _, c := range gap {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}
