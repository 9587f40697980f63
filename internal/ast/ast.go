// Package ast defines the syntax tree produced by the parser.
//
// The tree is deliberately flat: a file is a sequence of header tags, opcode
// assignments, and macros in source order. Sectioning (which opcodes belong
// to which header) is a semantic concern handled by the builder.
package ast

// Tok is a position-bearing piece of raw source text.
type Tok struct {
	Text   string
	Line   int // 1-based
	Column int // 1-based
}

// Node is a syntax tree node. The set of implementations is closed.
type Node interface {
	node()
	// Pos returns the node's anchor token for diagnostics.
	Pos() Tok
}

// File is the root of a parsed SFZ file.
type File struct {
	Nodes []Node
}

// Header is a '<tag>' section marker.
type Header struct {
	Tag Tok // tag name without brackets
}

func (*Header) node()      {}
func (h *Header) Pos() Tok { return h.Tag }

// Opcode is a 'name=value' assignment. Value holds the full raw value run,
// which may contain embedded whitespace.
type Opcode struct {
	Name  Tok
	Value Tok
}

func (*Opcode) node()      {}
func (o *Opcode) Pos() Tok { return o.Name }

// Define is a '#define $name value' macro.
type Define struct {
	Name  Tok // includes the leading '$'
	Value Tok
}

func (*Define) node()      {}
func (d *Define) Pos() Tok { return d.Name }

// Include is an '#include "path"' macro. Path keeps the surrounding quotes;
// the builder unquotes during sanitization.
type Include struct {
	Keyword Tok
	Path    Tok
}

func (*Include) node()      {}
func (i *Include) Pos() Tok { return i.Keyword }
