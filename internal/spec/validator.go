// Package spec holds the versioned opcode rule table: the declarative
// syntax.yml source compiled into an immutable in-memory index, and the
// closed set of value validators the engine dispatches over.
package spec

import (
	"fmt"
	"strings"
)

// ValidatorKind enumerates the closed set of validator variants. The engine
// switches exhaustively over these; adding a kind is a compile-time-checked
// change there.
type ValidatorKind int

const (
	// KindAny accepts every value.
	KindAny ValidatorKind = iota
	// KindMin rejects values below a lower bound.
	KindMin
	// KindRange rejects values outside [Min, Max].
	KindRange
	// KindChoice rejects values outside a fixed set. Candidates are
	// re-normalized before the membership test so templated spellings match.
	KindChoice
	// KindAlias delegates to the rule named by Alias.
	KindAlias
	// KindSwitch selects Aria or Other depending on whether the aria
	// dialect is in the active version filter (aria wins when unrestricted).
	KindSwitch
	// KindTarget validates the extracted target binding instead of the raw
	// value, against Choices.
	KindTarget
	// KindSamplePath resolves the value against the sample root and checks
	// existence and per-component case.
	KindSamplePath
	// KindCurveIndex checks the value against the document's curve sections.
	// Deferred until the whole top-level document has been walked.
	KindCurveIndex
)

// Validator is a closed variant over the enumerated kinds. Only the fields
// relevant to Kind are set.
type Validator struct {
	Kind    ValidatorKind
	Min     float64
	Max     float64
	Choices []string
	Alias   string
	Aria    *Validator
	Other   *Validator
}

// Any returns the accept-everything validator.
func Any() Validator { return Validator{Kind: KindAny} }

// MinOf returns a lower-bound validator.
func MinOf(min float64) Validator { return Validator{Kind: KindMin, Min: min} }

// RangeOf returns an inclusive-bounds validator.
func RangeOf(low, high float64) Validator {
	return Validator{Kind: KindRange, Min: low, Max: high}
}

// ChoiceOf returns a membership validator.
func ChoiceOf(choices ...string) Validator {
	return Validator{Kind: KindChoice, Choices: choices}
}

// AliasOf returns a validator delegating to another rule.
func AliasOf(name string) Validator { return Validator{Kind: KindAlias, Alias: name} }

// SwitchOn returns a dialect-conditional validator.
func SwitchOn(aria, other Validator) Validator {
	return Validator{Kind: KindSwitch, Aria: &aria, Other: &other}
}

// TargetChoice returns a validator over the extracted target binding.
func TargetChoice(choices ...string) Validator {
	return Validator{Kind: KindTarget, Choices: choices}
}

// SamplePath returns the sample-path validator.
func SamplePath() Validator { return Validator{Kind: KindSamplePath} }

// CurveIndex returns the curve cross-reference validator.
func CurveIndex() Validator { return Validator{Kind: KindCurveIndex} }

func (v Validator) String() string {
	switch v.Kind {
	case KindAny:
		return "Any"
	case KindMin:
		return fmt.Sprintf("Min(%g)", v.Min)
	case KindRange:
		return fmt.Sprintf("Range(%g, %g)", v.Min, v.Max)
	case KindChoice:
		return fmt.Sprintf("Choice(%s)", strings.Join(v.Choices, "|"))
	case KindAlias:
		return fmt.Sprintf("Alias(%s)", v.Alias)
	case KindSwitch:
		return fmt.Sprintf("Switch(aria: %s, other: %s)", v.Aria, v.Other)
	case KindTarget:
		return fmt.Sprintf("Target(%s)", strings.Join(v.Choices, "|"))
	case KindSamplePath:
		return "SamplePath"
	case KindCurveIndex:
		return "CurveIndex"
	default:
		return "unknown"
	}
}
