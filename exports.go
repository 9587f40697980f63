// Package sfzlint parses and validates SFZ instrument definitions against
// the published opcode syntax, covering the SFZ v1/v2 dialects and the
// ARIA, LinuxSampler, and Cakewalk extensions.
package sfzlint

import "github.com/gosfz/sfzlint/sfz"

// Type aliases for the public API - all types come from the sfz subpackage.

// Document is a fully built SFZ instrument.
type Document = sfz.Document

// Header is one bracketed section with its opcodes.
type Header = sfz.Header

// Token is a lexical unit with source position and sanitized value.
type Token = sfz.Token

// Value is a sanitized token value.
type Value = sfz.Value

// Diagnostic is an issue found during parsing or validation.
type Diagnostic = sfz.Diagnostic

// Severity classifies a diagnostic.
type Severity = sfz.Severity

// Severity levels.
const (
	SeverityError   = sfz.SeverityError
	SeverityWarning = sfz.SeverityWarning
)

// FileSystem abstracts file access for includes and sample-path checks.
type FileSystem = sfz.FileSystem
