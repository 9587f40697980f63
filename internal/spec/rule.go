package spec

import "github.com/gosfz/sfzlint/sfz"

// Type constrains the semantic type of an opcode value.
type Type int

const (
	// TypeUntyped places no constraint on the value.
	TypeUntyped Type = iota
	// TypeInteger requires an integer (note names count, they sanitize to
	// integers).
	TypeInteger
	// TypeReal requires an integer or float.
	TypeReal
	// TypeString requires text.
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "integer or float"
	case TypeString:
		return "string"
	default:
		return "any"
	}
}

// Allows reports whether a sanitized value satisfies the constraint.
func (t Type) Allows(v sfz.Value) bool {
	switch t {
	case TypeInteger:
		return v.Kind == sfz.ValueInt || v.Kind == sfz.ValueNote
	case TypeReal:
		return v.IsNumeric()
	case TypeString:
		return v.Kind == sfz.ValueString
	default:
		return true
	}
}

// SubRule constrains an extracted index binding (the N in amp_velcurve_N)
// rather than the opcode value.
type SubRule struct {
	Type      Type
	Validator Validator
}

// Rule is the compiled validation rule for one canonical opcode name.
type Rule struct {
	// Name is the canonical opcode name, possibly containing the positional
	// placeholders N, X, Y.
	Name string
	// Ver is the minimum spec-version tag defining this opcode.
	Ver string
	// Type constrains the value's sanitized type.
	Type Type
	// Validator checks the value (or, for target kinds, a binding).
	Validator Validator
	// Index optionally constrains the first extracted numeric binding.
	Index *SubRule
	// Modulates names the opcode this rule is a modulation sub-opcode of.
	Modulates string
	// ModType is the modulation family ("cc", "envelope", "lfo", ...).
	ModType string
}
