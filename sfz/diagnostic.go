package sfz

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityError marks a rule violation that changes the meaning of
	// validated output (wrong type, out-of-range value, version mismatch).
	SeverityError Severity = iota
	// SeverityWarning marks an advisory condition that does not necessarily
	// indicate malformed input (unknown opcode, duplicate opcode, alias).
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERR"
	case SeverityWarning:
		return "WARN"
	default:
		return "unknown"
	}
}

// Diagnostic is an issue found during parsing or validation.
type Diagnostic struct {
	Severity Severity
	Code     string // e.g. "unknown-opcode", "opcode-version"
	Message  string
	Token    Token  // offending token, carries line/column
	File     string // originating file path
}

// String renders "path:line:col:SEV message", omitting zero location parts.
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.File != "" {
		b.WriteString(d.File)
		b.WriteByte(':')
	}
	if d.Token.Line > 0 {
		fmt.Fprintf(&b, "%d:%d:", d.Token.Line, d.Token.Column)
	}
	b.WriteString(d.Severity.String())
	b.WriteByte(' ')
	b.WriteString(d.Message)
	return b.String()
}

// Sink receives diagnostics as they are produced. Formatting and output
// destination are the caller's responsibility.
type Sink func(Diagnostic)

// Collector is a Sink that accumulates diagnostics in order.
type Collector struct {
	Diagnostics []Diagnostic
}

// Add appends a diagnostic.
func (c *Collector) Add(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// Errors returns only the error-severity diagnostics.
func (c *Collector) Errors() []Diagnostic {
	var errs []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}
	return errs
}
