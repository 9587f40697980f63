package spec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosfz/sfzlint/sfz"
)

func table(t *testing.T) *Table {
	t.Helper()
	tbl, err := DefaultTable()
	require.NoError(t, err)
	return tbl
}

func lookup(t *testing.T, tbl *Table, name string) *Rule {
	t.Helper()
	r, ok := tbl.Lookup(name)
	require.True(t, ok, "missing rule %q", name)
	return r
}

func TestDefaultTableCompiles(t *testing.T) {
	tbl := table(t)
	require.Greater(t, tbl.Len(), 150)
	require.Len(t, tbl.Names(), tbl.Len())

	_, ok := tbl.Lookup("florp")
	require.False(t, ok)
}

func TestCompiledRules(t *testing.T) {
	tbl := table(t)

	lokey := lookup(t, tbl, "lokey")
	require.Equal(t, VerV1, lokey.Ver)
	require.Equal(t, TypeInteger, lokey.Type)
	require.Equal(t, KindRange, lokey.Validator.Kind)
	require.Equal(t, -1.0, lokey.Validator.Min)
	require.Equal(t, 127.0, lokey.Validator.Max)

	trigger := lookup(t, tbl, "trigger")
	require.Equal(t, KindChoice, trigger.Validator.Kind)
	require.Contains(t, trigger.Validator.Choices, "release_key")

	// a non-numeric max leaves only the lower bound checkable
	cutoff := lookup(t, tbl, "cutoff")
	require.Equal(t, KindMin, cutoff.Validator.Kind)

	noteOffset := lookup(t, tbl, "note_offset")
	require.Equal(t, VerAria, noteOffset.Ver)

	noise := lookup(t, tbl, "noise_stereo")
	require.Equal(t, VerCakewalkV2, noise.Ver)
}

func TestCompiledAliases(t *testing.T) {
	tbl := table(t)

	pitch := lookup(t, tbl, "pitch")
	require.Equal(t, VerAria, pitch.Ver)
	require.Equal(t, KindAlias, pitch.Validator.Kind)
	require.Equal(t, "tune", pitch.Validator.Alias)

	loopmode := lookup(t, tbl, "loopmode")
	require.Equal(t, VerV2, loopmode.Ver)
	require.Equal(t, "loop_mode", loopmode.Validator.Alias)

	// aliases nested under modulation sub-opcodes compile too
	onccAlias := lookup(t, tbl, "cutoff_onccN")
	require.Equal(t, "cutoff_ccN", onccAlias.Validator.Alias)
}

func TestCompiledModulation(t *testing.T) {
	tbl := table(t)

	mod := lookup(t, tbl, "ampeg_attackccN")
	require.Equal(t, "ampeg_attack", mod.Modulates)
	require.Equal(t, "cc", mod.ModType)

	amp := lookup(t, tbl, "amplitude_onccN")
	require.Equal(t, "amplitude", amp.Modulates)
	require.Equal(t, VerAria, amp.Ver)
}

func TestOverrides(t *testing.T) {
	tbl := table(t)

	tune := lookup(t, tbl, "tune")
	require.Equal(t, KindSwitch, tune.Validator.Kind)
	require.Equal(t, KindRange, tune.Validator.Aria.Kind)
	require.Equal(t, 2400.0, tune.Validator.Aria.Max)
	require.Equal(t, 100.0, tune.Validator.Other.Max)

	sample := lookup(t, tbl, "sample")
	require.Equal(t, KindSamplePath, sample.Validator.Kind)

	label := lookup(t, tbl, "label_ccN")
	require.Equal(t, TypeUntyped, label.Type)

	varTarget := lookup(t, tbl, "varNN_target")
	require.Equal(t, KindTarget, varTarget.Validator.Kind)
	require.Contains(t, varTarget.Validator.Choices, "eqNgain")

	starMod := lookup(t, tbl, "*_mod")
	require.Equal(t, KindTarget, starMod.Validator.Kind)
}

func TestCurveCCOverride(t *testing.T) {
	tbl := table(t)
	for _, name := range []string{"amplitude_curveccN", "pitch_curveccN", "varNN_curveccX"} {
		r := lookup(t, tbl, name)
		require.Equal(t, KindCurveIndex, r.Validator.Kind, "rule %q", name)
	}
	// curve_index is a plain range, only *curvecc* opcodes cross-reference
	ci := lookup(t, tbl, "curve_index")
	require.Equal(t, KindRange, ci.Validator.Kind)
}

func TestTypeAllows(t *testing.T) {
	require.True(t, TypeInteger.Allows(sfz.IntValue(5)))
	require.True(t, TypeInteger.Allows(sfz.NoteValue(60, "c4")))
	require.False(t, TypeInteger.Allows(sfz.FloatValue(0.5)))
	require.False(t, TypeInteger.Allows(sfz.StringValue("x")))

	require.True(t, TypeReal.Allows(sfz.FloatValue(0.5)))
	require.True(t, TypeReal.Allows(sfz.IntValue(5)))
	require.False(t, TypeReal.Allows(sfz.StringValue("x")))

	require.True(t, TypeString.Allows(sfz.StringValue("x")))
	require.False(t, TypeString.Allows(sfz.IntValue(5)))

	require.True(t, TypeUntyped.Allows(sfz.IntValue(5)))
	require.True(t, TypeUntyped.Allows(sfz.StringValue("x")))
}

func TestExpandVersions(t *testing.T) {
	require.Nil(t, ExpandVersions(nil))
	require.Nil(t, ExpandVersions([]string{}))

	aria := ExpandVersions([]string{VerAria})
	require.Equal(t, map[string]bool{VerV1: true, VerV2: true, VerAria: true}, aria)

	v1 := ExpandVersions([]string{VerV1})
	require.Equal(t, map[string]bool{VerV1: true}, v1)

	ck2 := ExpandVersions([]string{VerCakewalkV2})
	require.True(t, ck2[VerCakewalk])
	require.False(t, ck2[VerV2])
}

func TestControlCodeCeiling(t *testing.T) {
	require.Equal(t, int64(155), ControlCodeCeiling(nil))
	require.Equal(t, int64(155), ControlCodeCeiling(ExpandVersions([]string{VerAria})))
	require.Equal(t, int64(137), ControlCodeCeiling(ExpandVersions([]string{VerV2})))
	require.Equal(t, int64(127), ControlCodeCeiling(ExpandVersions([]string{VerV1})))
}

func TestVerCode(t *testing.T) {
	require.Equal(t, VerV1, VerCode("SFZ v1"))
	require.Equal(t, VerCakewalkV2, VerCode("Cakewalk SFZ v2"))
	require.Equal(t, VerUnknown, VerCode(""))
	require.Equal(t, "somethingelse", VerCode("SomethingElse"))
}
