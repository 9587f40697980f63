// Package sfz provides the public data model for parsed SFZ instruments:
// tokens, headers, documents, and diagnostics.
package sfz

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies the semantic type of a sanitized token value.
type ValueKind int

const (
	// ValueString is UTF-8 text (quoted strings unquoted, bare tokens trimmed).
	ValueString ValueKind = iota
	// ValueInt is a signed 64-bit integer.
	ValueInt
	// ValueFloat is a double-precision float.
	ValueFloat
	// ValueNote is a MIDI note name sanitized to its integer note number.
	ValueNote
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueInt:
		return "integer"
	case ValueFloat:
		return "float"
	case ValueNote:
		return "note"
	default:
		return "unknown"
	}
}

// Value is a sanitized token value. The kind is fixed at creation and the
// value is never re-coerced afterwards.
type Value struct {
	Kind ValueKind
	Int  int64
	Flt  float64
	Str  string
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// IntValue returns an integer Value.
func IntValue(i int64) Value { return Value{Kind: ValueInt, Int: i} }

// FloatValue returns a float Value.
func FloatValue(f float64) Value { return Value{Kind: ValueFloat, Flt: f} }

// NoteValue returns a note Value carrying both the note number and the
// original spelling.
func NoteValue(num int64, name string) Value {
	return Value{Kind: ValueNote, Int: num, Str: name}
}

// Num returns the value as a float64 for bound checks. Notes compare by
// their note number. Returns false for strings.
func (v Value) Num() (float64, bool) {
	switch v.Kind {
	case ValueInt, ValueNote:
		return float64(v.Int), true
	case ValueFloat:
		return v.Flt, true
	default:
		return 0, false
	}
}

// IsNumeric reports whether the value is an integer, float, or note.
func (v Value) IsNumeric() bool {
	return v.Kind != ValueString
}

// String renders the value the way it would appear in a file. Notes render
// as their original note name.
func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64)
	case ValueNote:
		return v.Str
	default:
		return v.Str
	}
}

// Token is a lexical unit with source position and a sanitized value.
// Immutable once sanitized.
type Token struct {
	Raw    string // original text as written
	Line   int    // 1-based
	Column int    // 1-based
	Value  Value
}

// At returns a copy of the token rebound to a new raw text and value while
// keeping the source position. Used when macro substitution rewrites a token.
func (t Token) At(raw string, v Value) Token {
	return Token{Raw: raw, Line: t.Line, Column: t.Column, Value: v}
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%d:%d", t.Raw, t.Line, t.Column)
}

// noteOffsets maps note letters (with optional accidental) to semitone
// offsets within an octave.
var noteOffsets = map[string]int64{
	"c": 0, "c#": 1, "db": 1, "d": 2, "d#": 3, "eb": 3,
	"e": 4, "f": 5, "f#": 6, "gb": 6, "g": 7, "g#": 8,
	"ab": 8, "a": 9, "a#": 10, "bb": 10, "b": 11,
}

// ParseNote converts a note name like "c4" or "db3" to its MIDI note number
// (c1 == 24). Returns false if the text is not a note name.
func ParseNote(s string) (int64, bool) {
	if len(s) < 2 {
		return 0, false
	}
	oct := s[len(s)-1]
	if oct < '0' || oct > '9' {
		return 0, false
	}
	key := strings.ToLower(s[:len(s)-1])
	off, ok := noteOffsets[key]
	if !ok {
		return 0, false
	}
	return off + int64(oct-'0')*12 + 12, true
}

// Sanitize classifies raw assignment text into a typed Value. Quoted strings
// keep embedded whitespace verbatim; otherwise integer, float, and note-name
// conversion are attempted in that order, falling back to the trimmed string.
func Sanitize(raw string) Value {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return StringValue(raw[1 : len(raw)-1])
	}
	trimmed := strings.TrimSpace(raw)
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return FloatValue(f)
	}
	if n, ok := ParseNote(trimmed); ok {
		return NoteValue(n, trimmed)
	}
	return StringValue(trimmed)
}
