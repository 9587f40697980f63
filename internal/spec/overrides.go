package spec

// Irregular rules the declarative source cannot express: dialect-conditional
// bounds, filesystem-touching validators, and labels that parse as whatever
// the lexer makes of them.

// varTargets are the modulation destinations the ARIA varNN opcodes accept.
var varTargets = []string{
	"amplitude", "cutoff", "cutoff2", "resonance", "resonance2",
	"pitch", "pan", "position", "width", "volume", "gain",
	"eqNfreq", "eqNbw", "eqNgain",
}

// modTargets are the opcodes that accept an ARIA *_mod modulation mode.
var modTargets = []string{
	"amplitude", "cutoff", "cutoff2", "pitch", "resonance", "resonance2",
	"volume", "pan", "width", "position",
}

func applyOverrides(t *Table) {
	set := func(name string, f func(r *Rule)) {
		if r, ok := t.rules[name]; ok {
			f(r)
		}
	}

	// SFZ v1 bounds tune to a semitone; ARIA widens it to two octaves.
	set("tune", func(r *Rule) {
		r.Validator = SwitchOn(RangeOf(-2400, 2400), RangeOf(-100, 100))
	})
	set("sample", func(r *Rule) {
		r.Validator = SamplePath()
	})

	// Labels may lex as numbers; any sanitized type is acceptable.
	for _, name := range []string{
		"label_ccN", "label_keyN", "global_label", "master_label",
		"group_label", "region_label", "sw_label",
	} {
		set(name, func(r *Rule) {
			r.Type = TypeUntyped
		})
	}

	set("varNN_target", func(r *Rule) {
		r.Type = TypeUntyped
		r.Validator = TargetChoice(varTargets...)
	})
	set("*_mod", func(r *Rule) {
		r.targetOnly(modTargets)
	})
}

// targetOnly rewrites a rule to validate its target binding: the value is a
// modulation mode, the interesting check is which opcode is being modulated.
func (r *Rule) targetOnly(targets []string) {
	r.Type = TypeUntyped
	r.Validator = TargetChoice(targets...)
}
