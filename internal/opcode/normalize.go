// Package opcode folds concrete numeric-indexed opcode names into their
// canonical templated form and extracts the index bindings.
package opcode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Placeholders are the ordered positional slots substituted for digit runs.
// An opcode name has at most three.
var Placeholders = [3]string{"N", "X", "Y"}

// ignore holds digit-bearing literal suffixes that are part of opcode
// spellings, not indices.
var ignore = map[string]bool{
	"vel2": true, "cutoff2": true, "resonance2": true, "wave2": true,
}

var indexRun = regexp.MustCompile(`([a-z]*)([0-9]+)`)

// Match is the result of normalizing an opcode name.
type Match struct {
	// Canonical is the templated opcode name, e.g. "eqN_bwccX".
	Canonical string
	// Bindings maps placeholder names to the extracted index values.
	Bindings map[string]int64
	// Digits keeps the original digit text per placeholder, so that
	// re-substitution reproduces the input spelling exactly.
	Digits map[string]string
	// ControlCodes lists the placeholders whose letter run ends in "cc" and
	// therefore bind MIDI control-code numbers.
	ControlCodes []string
	// Target is the textual binding extracted by the irregular families
	// (varNN_target, hint_*, *_mod). Empty otherwise.
	Target string
}

// HasIndices reports whether any placeholder was substituted.
func (m Match) HasIndices() bool {
	return len(m.Bindings) > 0
}

// Normalize maps a raw opcode name to its canonical template plus index
// bindings. It is a pure function of the name. Returns an error when the
// name carries more numeric runs than there are placeholder slots.
func Normalize(name string) (Match, error) {
	m := Match{
		Bindings: make(map[string]int64),
		Digits:   make(map[string]string),
	}

	var overflow string
	slot := 0
	canonical := indexRun.ReplaceAllStringFunc(name, func(text string) string {
		if ignore[text] {
			return text
		}
		if slot == len(Placeholders) {
			if overflow == "" {
				overflow = text
			}
			return text
		}
		placeholder := Placeholders[slot]
		slot++

		sub := indexRun.FindStringSubmatch(text)
		pre, digits := sub[1], sub[2]
		n, _ := strconv.ParseInt(digits, 10, 64)
		m.Bindings[placeholder] = n
		m.Digits[placeholder] = digits
		if strings.HasSuffix(pre, "cc") {
			m.ControlCodes = append(m.ControlCodes, placeholder)
		}
		return pre + placeholder
	})
	if overflow != "" {
		return m, fmt.Errorf("%s is not a valid opcode: unexpected number at %s", name, overflow)
	}

	switch {
	case strings.HasPrefix(canonical, "varN"):
		canonical = m.rewriteVar(canonical)
	case strings.HasPrefix(canonical, "hint_"):
		m.Target = canonical[len("hint_"):]
		canonical = "hint_*"
	case strings.HasSuffix(canonical, "_mod") && canonical != "_mod":
		m.Target = strings.TrimSuffix(canonical, "_mod")
		canonical = "*_mod"
	}

	m.Canonical = canonical
	return m, nil
}

// rewriteVar handles the varN family. Three suffix spellings keep a
// doubled-placeholder name; every other suffix becomes the target binding of
// the varNN_target rule, with its own placeholders respelled as N.
func (m *Match) rewriteVar(canonical string) string {
	for _, special := range []string{"varN_mod", "varN_onc", "varN_cur"} {
		if strings.HasPrefix(canonical, special) {
			return "varNN" + canonical[len("varN"):]
		}
	}
	if len(canonical) > len("varN_") {
		m.Target = strings.ReplaceAll(canonical[len("varN_"):], "X", "N")
	}
	return "varNN_target"
}

// Expand substitutes the recorded digit text back into a canonical template.
// It is the inverse of Normalize for names without a target rewrite.
func Expand(canonical string, digits map[string]string) string {
	out := canonical
	for _, p := range Placeholders {
		d, ok := digits[p]
		if !ok {
			continue
		}
		out = strings.Replace(out, p, d, 1)
	}
	return out
}
