// Package engine validates opcode assignments against a compiled rule
// table: name resolution through the normalizer and the undocumented cc
// aliases, version filtering, type checks, and value validator dispatch.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gosfz/sfzlint/internal/logging"
	"github.com/gosfz/sfzlint/internal/opcode"
	"github.com/gosfz/sfzlint/internal/spec"
	"github.com/gosfz/sfzlint/sfz"
)

// Engine checks opcode assignments. It is stateless across opcodes; all
// per-file state lives in Env, so one Engine may serve concurrent walks over
// different files.
type Engine struct {
	table        *spec.Table
	accepted     map[string]bool // nil means unrestricted
	acceptedList string          // sorted, for messages
	ccCeiling    int64
	fs           sfz.FileSystem
	log          logging.Logger
}

// New builds an engine over a compiled table. accepted is the expanded
// version filter (nil for unrestricted).
func New(table *spec.Table, accepted map[string]bool, fs sfz.FileSystem, log logging.Logger) *Engine {
	tags := make([]string, 0, len(accepted))
	for tag := range accepted {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return &Engine{
		table:        table,
		accepted:     accepted,
		acceptedList: strings.Join(tags, ", "),
		ccCeiling:    spec.ControlCodeCeiling(accepted),
		fs:           fs,
		log:          log.Component("engine"),
	}
}

// Deferred is a validation that needs the finished document, queued during
// the walk and run once after the top-level file is fully built.
type Deferred func(doc *sfz.Document, sink sfz.Sink)

// Env is the per-file validation environment.
type Env struct {
	// File is the path validated, stamped on diagnostics.
	File string
	// SampleDir is the directory sample paths resolve against (the file's
	// directory joined with any default_path). Empty disables path checks.
	SampleDir string
	// Defer queues a check that needs the finished document. Nil disables
	// deferred checks.
	Defer func(Deferred)
}

func (e *Engine) errorAt(env *Env, sink sfz.Sink, code string, tok sfz.Token, msg string) {
	sink(sfz.Diagnostic{Severity: sfz.SeverityError, Code: code, Message: msg, Token: tok, File: env.File})
}

func (e *Engine) warnAt(env *Env, sink sfz.Sink, code string, tok sfz.Token, msg string) {
	sink(sfz.Diagnostic{Severity: sfz.SeverityWarning, Code: code, Message: msg, Token: tok, File: env.File})
}

// ValidateOpcode checks one assignment. nameTok carries the resolved
// (lowercased, macro-substituted) opcode name; valTok the sanitized value.
func (e *Engine) ValidateOpcode(nameTok, valTok sfz.Token, env *Env, sink sfz.Sink) {
	name := nameTok.Raw
	rule, found := e.table.Lookup(name)
	m := opcode.Match{Canonical: name}
	if !found {
		var err error
		m, err = opcode.Normalize(name)
		if err != nil {
			e.errorAt(env, sink, sfz.DiagInvalidOpcode, nameTok, err.Error())
			return
		}
		rule, found = e.table.Lookup(m.Canonical)
	}
	if !found {
		if strings.Contains(m.Canonical, "cc") {
			if alt, altRule, ok := e.ccAlternative(m.Canonical); ok {
				e.warnAt(env, sink, sfz.DiagUndocumentedAlias, nameTok,
					fmt.Sprintf("undocumented alias of %s (%s)", alt, m.Canonical))
				e.checkRule(altRule, alt, m, nameTok, valTok, env, sink)
				return
			}
		}
		e.warnAt(env, sink, sfz.DiagUnknownOpcode, nameTok,
			fmt.Sprintf("unknown opcode (%s)", m.Canonical))
		return
	}
	e.checkRule(rule, m.Canonical, m, nameTok, valTok, env, sink)
}

// ccSpellings are the interchangeable control-code suffixes most players
// accept. Order matters: the first spelling present in the name is the one
// replaced.
var ccSpellings = [...]string{"_oncc", "_cc", "cc"}

func (e *Engine) ccAlternative(canonical string) (string, *spec.Rule, bool) {
	for _, variant := range ccSpellings {
		if !strings.Contains(canonical, variant) {
			continue
		}
		for _, alt := range ccSpellings {
			if alt == variant {
				continue
			}
			candidate := strings.ReplaceAll(canonical, variant, alt)
			if r, ok := e.table.Lookup(candidate); ok {
				return candidate, r, true
			}
		}
		return "", nil, false
	}
	return "", nil, false
}

func (e *Engine) checkRule(rule *spec.Rule, canonical string, m opcode.Match, nameTok, valTok sfz.Token, env *Env, sink sfz.Sink) {
	if e.accepted != nil && !e.accepted[rule.Ver] {
		e.errorAt(env, sink, sfz.DiagOpcodeVersion, nameTok,
			fmt.Sprintf("opcode spec %s is not one of [%s]", rule.Ver, e.acceptedList))
		return
	}
	if rule.Ver == spec.VerCakewalkV2 && (e.accepted == nil || !e.accepted[spec.VerCakewalkV2]) {
		e.warnAt(env, sink, sfz.DiagUnimplementedVer, nameTok,
			"cakewalk v2 opcodes are not implemented by any player")
		return
	}

	for _, p := range m.ControlCodes {
		if n := m.Bindings[p]; n > e.ccCeiling {
			e.warnAt(env, sink, sfz.DiagControlCodeRange, nameTok,
				fmt.Sprintf("%d is not a valid control code (%s)", n, canonical))
		}
	}

	if rule.Type != spec.TypeUntyped && !rule.Type.Allows(valTok.Value) {
		e.errorAt(env, sink, sfz.DiagValueType, valTok,
			fmt.Sprintf("expected %s got %s (%s)", rule.Type, valTok.Value, canonical))
		return
	}

	if rule.Index != nil {
		if n, ok := m.Bindings[opcode.Placeholders[0]]; ok {
			e.checkIndex(rule.Index, canonical, n, nameTok, env, sink)
		}
	}

	e.applyValidator(rule.Validator, canonical, m, valTok, env, sink)
}

func (e *Engine) checkIndex(sub *spec.SubRule, canonical string, n int64, nameTok sfz.Token, env *Env, sink sfz.Sink) {
	v := sub.Validator
	switch v.Kind {
	case spec.KindMin:
		if float64(n) < v.Min {
			e.errorAt(env, sink, sfz.DiagValueInvalid, nameTok,
				fmt.Sprintf("index %d less than minimum of %g (%s)", n, v.Min, canonical))
		}
	case spec.KindRange:
		if float64(n) < v.Min || float64(n) > v.Max {
			e.errorAt(env, sink, sfz.DiagValueInvalid, nameTok,
				fmt.Sprintf("index %d not in range %g to %g (%s)", n, v.Min, v.Max, canonical))
		}
	}
}

// applyValidator dispatches exhaustively over the closed validator set.
func (e *Engine) applyValidator(v spec.Validator, canonical string, m opcode.Match, valTok sfz.Token, env *Env, sink sfz.Sink) {
	switch v.Kind {
	case spec.KindAny:

	case spec.KindMin:
		n, ok := valTok.Value.Num()
		if !ok {
			e.errorAt(env, sink, sfz.DiagValueInvalid, valTok,
				fmt.Sprintf("cannot compare %s with %g (%s)", valTok.Value, v.Min, canonical))
			return
		}
		if n < v.Min {
			e.errorAt(env, sink, sfz.DiagValueInvalid, valTok,
				fmt.Sprintf("%s less than minimum of %g (%s)", valTok.Value, v.Min, canonical))
		}

	case spec.KindRange:
		n, ok := valTok.Value.Num()
		if !ok {
			e.errorAt(env, sink, sfz.DiagValueInvalid, valTok,
				fmt.Sprintf("cannot compare %s with %g, %g (%s)", valTok.Value, v.Min, v.Max, canonical))
			return
		}
		if n < v.Min || n > v.Max {
			e.errorAt(env, sink, sfz.DiagValueInvalid, valTok,
				fmt.Sprintf("%s not in range %g to %g (%s)", valTok.Value, v.Min, v.Max, canonical))
		}

	case spec.KindChoice:
		if !e.choiceMatches(v.Choices, valTok.Value.String()) {
			e.errorAt(env, sink, sfz.DiagValueInvalid, valTok,
				fmt.Sprintf("%s not one of [%s] (%s)", valTok.Value, strings.Join(v.Choices, ", "), canonical))
		}

	case spec.KindAlias:
		if target, ok := e.table.Lookup(v.Alias); ok {
			e.applyValidator(target.Validator, canonical, m, valTok, env, sink)
		}

	case spec.KindSwitch:
		if e.accepted == nil || e.accepted[spec.VerAria] {
			e.applyValidator(*v.Aria, canonical, m, valTok, env, sink)
		} else {
			e.applyValidator(*v.Other, canonical, m, valTok, env, sink)
		}

	case spec.KindTarget:
		if m.Target != "" && !contains(v.Choices, m.Target) {
			e.warnAt(env, sink, sfz.DiagValueInvalid, valTok,
				fmt.Sprintf("unknown modulation target %s (%s)", m.Target, canonical))
		}

	case spec.KindSamplePath:
		e.checkSamplePath(valTok, env, sink)

	case spec.KindCurveIndex:
		if env.Defer == nil {
			return
		}
		env.Defer(func(doc *sfz.Document, deferredSink sfz.Sink) {
			e.checkCurveIndex(doc, valTok, env, deferredSink)
		})
	}
}

// choiceMatches tests set membership, re-normalizing the candidate so
// templated spellings in the choice list match concrete ones in the file.
func (e *Engine) choiceMatches(choices []string, candidate string) bool {
	if contains(choices, candidate) {
		return true
	}
	if m, err := opcode.Normalize(candidate); err == nil && contains(choices, m.Canonical) {
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// checkCurveIndex runs after the whole top-level document is built, so
// forward references to <curve> sections resolve. Indices below 7 are
// player built-ins.
func (e *Engine) checkCurveIndex(doc *sfz.Document, valTok sfz.Token, env *Env, sink sfz.Sink) {
	n, ok := valTok.Value.Num()
	if !ok {
		return
	}
	switch {
	case n < 0:
		e.warnAt(env, sink, sfz.DiagCurveIndexMissing, valTok, "negative curve_index")
	case n < 7:
	default:
		if _, found := doc.Curves()[int64(n)]; !found {
			e.warnAt(env, sink, sfz.DiagCurveIndexMissing, valTok, "no corresponding curve_index found")
		}
	}
}
