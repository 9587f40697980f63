package sfz

// Diagnostic codes emitted by the parser, builder, and validation engine.
// Centralizing these prevents silent breakage from typos in string literals.

// Parser diagnostic codes.
const (
	DiagParseError = "parse-error"
)

// Builder diagnostic codes.
const (
	DiagOpcodeOutsideHeader = "opcode-outside-header"
	DiagDuplicateOpcode     = "duplicate-opcode"
	DiagDuplicateHeader     = "duplicate-header"
	DiagHeaderVersion       = "header-version"
	DiagUndefinedVariable   = "undefined-variable"
	DiagIncludeLoad         = "include-load"
)

// Engine diagnostic codes.
const (
	DiagUnknownOpcode      = "unknown-opcode"
	DiagInvalidOpcode      = "invalid-opcode"
	DiagUndocumentedAlias  = "undocumented-alias"
	DiagOpcodeVersion      = "opcode-version"
	DiagUnimplementedVer   = "unimplemented-version"
	DiagValueType          = "value-type"
	DiagValueInvalid       = "value-invalid"
	DiagControlCodeRange   = "control-code-range"
	DiagCurveIndexMissing  = "curve-index-missing"
	DiagSampleNotFound     = "sample-not-found"
	DiagSampleCaseMismatch = "sample-case-mismatch"
)

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo struct {
	Code  string
	Phase string
}

// AllDiagnosticCodes returns all known diagnostic codes grouped by phase.
func AllDiagnosticCodes() []DiagCodeInfo {
	return []DiagCodeInfo{
		{Code: DiagParseError, Phase: "parser"},
		{Code: DiagOpcodeOutsideHeader, Phase: "builder"},
		{Code: DiagDuplicateOpcode, Phase: "builder"},
		{Code: DiagDuplicateHeader, Phase: "builder"},
		{Code: DiagHeaderVersion, Phase: "builder"},
		{Code: DiagUndefinedVariable, Phase: "builder"},
		{Code: DiagIncludeLoad, Phase: "builder"},
		{Code: DiagUnknownOpcode, Phase: "engine"},
		{Code: DiagInvalidOpcode, Phase: "engine"},
		{Code: DiagUndocumentedAlias, Phase: "engine"},
		{Code: DiagOpcodeVersion, Phase: "engine"},
		{Code: DiagUnimplementedVer, Phase: "engine"},
		{Code: DiagValueType, Phase: "engine"},
		{Code: DiagValueInvalid, Phase: "engine"},
		{Code: DiagControlCodeRange, Phase: "engine"},
		{Code: DiagCurveIndexMissing, Phase: "engine"},
		{Code: DiagSampleNotFound, Phase: "engine"},
		{Code: DiagSampleCaseMismatch, Phase: "engine"},
	}
}
