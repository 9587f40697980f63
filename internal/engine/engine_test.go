package engine

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosfz/sfzlint/internal/logging"
	"github.com/gosfz/sfzlint/internal/spec"
	"github.com/gosfz/sfzlint/internal/testutil"
	"github.com/gosfz/sfzlint/sfz"
)

func newEngine(t *testing.T, versions []string, fs sfz.FileSystem) *Engine {
	t.Helper()
	tbl, err := spec.DefaultTable()
	require.NoError(t, err)
	if fs == nil {
		fs = testutil.MapFS{}
	}
	return New(tbl, spec.ExpandVersions(versions), fs, logging.Logger{})
}

func check(e *Engine, env *Env, name, value string) []sfz.Diagnostic {
	var c sfz.Collector
	nameTok := sfz.Token{Raw: name, Line: 1, Column: 1, Value: sfz.StringValue(name)}
	valTok := sfz.Token{Raw: value, Line: 1, Column: len(name) + 2, Value: sfz.Sanitize(value)}
	e.ValidateOpcode(nameTok, valTok, env, c.Add)
	return c.Diagnostics
}

func TestValidAssignments(t *testing.T) {
	e := newEngine(t, nil, nil)
	env := &Env{File: "t.sfz"}
	cases := [][2]string{
		{"lokey", "10"},
		{"lokey", "c4"},
		{"hikey", "-1"},
		{"tune", "-400"}, // unrestricted accepts the ARIA range
		{"volume", "-6.5"},
		{"trigger", "release_key"},
		{"eq3_bwcc25", "2"},
		{"amp_velcurve_64", "0.5"},
		{"v000", "0"},
		{"v127", "1"},
		{"hint_ram_based", "1"},
		{"var01_mod", "mult"},
		{"var01_eq1gain", "5"},
		{"pitch", "1200"},
		{"loopmode", "one_shot"},
		{"sw_label", "Articulation"},
	}
	for _, tc := range cases {
		require.Empty(t, check(e, env, tc[0], tc[1]), "%s=%s", tc[0], tc[1])
	}
}

func TestUnknownOpcode(t *testing.T) {
	e := newEngine(t, nil, nil)
	diags := check(e, &Env{File: "t.sfz"}, "foo", "bar")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.SeverityWarning, diags[0].Severity)
	require.Equal(t, sfz.DiagUnknownOpcode, diags[0].Code)
	require.Equal(t, "unknown opcode (foo)", diags[0].Message)
}

func TestInvalidOpcodeName(t *testing.T) {
	e := newEngine(t, nil, nil)
	diags := check(e, &Env{}, "a1b2c3d4", "1")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.SeverityError, diags[0].Severity)
	require.Equal(t, sfz.DiagInvalidOpcode, diags[0].Code)
}

func TestVersionFilter(t *testing.T) {
	v1 := newEngine(t, []string{spec.VerV1}, nil)
	diags := check(v1, &Env{}, "note_offset", "12")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.SeverityError, diags[0].Severity)
	require.Equal(t, sfz.DiagOpcodeVersion, diags[0].Code)
	require.Equal(t, "opcode spec aria is not one of [v1]", diags[0].Message)

	aria := newEngine(t, []string{spec.VerAria}, nil)
	require.Empty(t, check(aria, &Env{}, "note_offset", "12"))
}

func TestTuneDialectBounds(t *testing.T) {
	v1 := newEngine(t, []string{spec.VerV1}, nil)
	diags := check(v1, &Env{}, "tune", "-400")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.SeverityError, diags[0].Severity)
	require.Contains(t, diags[0].Message, "not in range -100 to 100")

	require.Empty(t, check(v1, &Env{}, "tune", "-99"))

	unrestricted := newEngine(t, nil, nil)
	require.Empty(t, check(unrestricted, &Env{}, "tune", "-400"))
	diags = check(unrestricted, &Env{}, "tune", "-2500")
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "not in range -2400 to 2400")
}

func TestControlCodeCeiling(t *testing.T) {
	e := newEngine(t, nil, nil)
	diags := check(e, &Env{}, "amplitude_oncc420", "50")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.SeverityWarning, diags[0].Severity)
	require.Equal(t, sfz.DiagControlCodeRange, diags[0].Code)
	require.Equal(t, "420 is not a valid control code (amplitude_onccN)", diags[0].Message)

	// 140 passes the ARIA ceiling but not the SFZ v2 one
	require.Empty(t, check(e, &Env{}, "amplitude_oncc140", "50"))
	v2 := newEngine(t, []string{spec.VerV2}, nil)
	diags = check(v2, &Env{}, "volume_oncc140", "0")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.DiagControlCodeRange, diags[0].Code)
}

func TestCakewalkDraftWarning(t *testing.T) {
	e := newEngine(t, nil, nil)
	diags := check(e, &Env{}, "noise_stereo", "on")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.SeverityWarning, diags[0].Severity)
	require.Equal(t, sfz.DiagUnimplementedVer, diags[0].Code)

	explicit := newEngine(t, []string{spec.VerCakewalkV2}, nil)
	require.Empty(t, check(explicit, &Env{}, "noise_stereo", "on"))
}

func TestTypeMismatch(t *testing.T) {
	e := newEngine(t, nil, nil)
	diags := check(e, &Env{}, "lokey", "abc")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.SeverityError, diags[0].Severity)
	require.Equal(t, sfz.DiagValueType, diags[0].Code)
	require.Equal(t, "expected integer got abc (lokey)", diags[0].Message)

	// labels accept whatever the value sanitized to
	require.Empty(t, check(e, &Env{}, "label_cc5", "42"))
}

func TestRangeViolation(t *testing.T) {
	e := newEngine(t, nil, nil)
	diags := check(e, &Env{}, "hivel", "200")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.SeverityError, diags[0].Severity)
	require.Equal(t, sfz.DiagValueInvalid, diags[0].Code)
	require.Equal(t, "200 not in range 0 to 127 (hivel)", diags[0].Message)
}

func TestMinViolation(t *testing.T) {
	e := newEngine(t, nil, nil)
	diags := check(e, &Env{}, "cutoff", "-10")
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "less than minimum of 0")

	require.Empty(t, check(e, &Env{}, "cutoff", "20000"))
}

func TestChoiceViolation(t *testing.T) {
	e := newEngine(t, nil, nil)
	diags := check(e, &Env{}, "trigger", "afterward")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.DiagValueInvalid, diags[0].Code)
	require.Contains(t, diags[0].Message, "not one of")
}

func TestIndexBounds(t *testing.T) {
	e := newEngine(t, nil, nil)
	diags := check(e, &Env{}, "eq4_gain", "0")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.DiagValueInvalid, diags[0].Code)
	require.Contains(t, diags[0].Message, "index 4 not in range 1 to 3")

	require.Empty(t, check(e, &Env{}, "eq2_gain", "0"))
}

func TestUndocumentedCCAlias(t *testing.T) {
	e := newEngine(t, nil, nil)
	diags := check(e, &Env{}, "labelcc5", "snare")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.SeverityWarning, diags[0].Severity)
	require.Equal(t, sfz.DiagUndocumentedAlias, diags[0].Code)
	require.Equal(t, "undocumented alias of label_ccN (labelccN)", diags[0].Message)
}

func TestAliasValidatorDelegates(t *testing.T) {
	e := newEngine(t, nil, nil)
	diags := check(e, &Env{}, "pitch", "-9999")
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "not in range")
}

func TestModulationTarget(t *testing.T) {
	e := newEngine(t, nil, nil)
	require.Empty(t, check(e, &Env{}, "cutoff_mod", "mult"))

	diags := check(e, &Env{}, "florp_mod", "add")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.SeverityWarning, diags[0].Severity)
	require.Contains(t, diags[0].Message, "unknown modulation target florp")
}

func TestDeferredCurveIndex(t *testing.T) {
	e := newEngine(t, nil, nil)
	var deferred []Deferred
	env := &Env{File: "t.sfz", Defer: func(d Deferred) { deferred = append(deferred, d) }}

	require.Empty(t, check(e, env, "amplitude_curvecc1", "9"))
	require.Len(t, deferred, 1)

	// no matching <curve> section
	var c sfz.Collector
	deferred[0](sfz.NewDocument(), c.Add)
	require.Len(t, c.Diagnostics, 1)
	require.Equal(t, sfz.SeverityWarning, c.Diagnostics[0].Severity)
	require.Equal(t, sfz.DiagCurveIndexMissing, c.Diagnostics[0].Code)
	require.Equal(t, "no corresponding curve_index found", c.Diagnostics[0].Message)

	// with the section defined the reference resolves
	doc := sfz.NewDocument()
	curve := sfz.NewHeader("curve", sfz.Token{})
	curve.Set("curve_index", sfz.Token{Value: sfz.IntValue(9)})
	doc.Headers = append(doc.Headers, curve)
	c = sfz.Collector{}
	deferred[0](doc, c.Add)
	require.Empty(t, c.Diagnostics)
}

// caseFS resolves files case-insensitively, like FAT or default APFS, while
// its directory listings keep the exact stored names.
type caseFS struct{ testutil.MapFS }

func (c caseFS) IsFile(p string) bool {
	want := filepath.ToSlash(p)
	for k := range c.MapFS {
		if strings.EqualFold(k, want) {
			return true
		}
	}
	return false
}

func TestSamplePath(t *testing.T) {
	fs := caseFS{testutil.MapFS{
		"/lib/kick.wav":    "",
		"/lib/sub/hat.wav": "",
	}}
	e := newEngine(t, nil, fs)
	env := &Env{File: "t.sfz", SampleDir: "/lib"}

	require.Empty(t, check(e, env, "sample", "kick.wav"))
	require.Empty(t, check(e, env, "sample", `sub\hat.wav`))
	require.Empty(t, check(e, env, "sample", "*saw"))

	diags := check(e, env, "sample", "gone.wav")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.DiagSampleNotFound, diags[0].Code)
	require.Contains(t, diags[0].Message, "file not found")

	diags = check(e, env, "sample", "Kick.wav")
	require.Len(t, diags, 1)
	require.Equal(t, sfz.SeverityWarning, diags[0].Severity)
	require.Equal(t, sfz.DiagSampleCaseMismatch, diags[0].Code)
	require.Equal(t, `case does not match file for "Kick.wav"`, diags[0].Message)

	// no sample directory means nothing to resolve against
	require.Empty(t, check(e, &Env{}, "sample", "gone.wav"))
}

func TestDeferredCurveBuiltins(t *testing.T) {
	e := newEngine(t, nil, nil)
	var deferred []Deferred
	env := &Env{Defer: func(d Deferred) { deferred = append(deferred, d) }}

	require.Empty(t, check(e, env, "pitch_curvecc27", "1"))
	require.Empty(t, check(e, env, "amplitude_curvecc2", "-1"))
	require.Len(t, deferred, 2)

	var c sfz.Collector
	deferred[0](sfz.NewDocument(), c.Add) // builtin curve 1, no check
	require.Empty(t, c.Diagnostics)

	deferred[1](sfz.NewDocument(), c.Add)
	require.Len(t, c.Diagnostics, 1)
	require.Equal(t, "negative curve_index", c.Diagnostics[0].Message)
}
