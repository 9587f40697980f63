package sfzlint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosfz/sfzlint/internal/testutil"
	"github.com/gosfz/sfzlint/sfz"
)

func lint(t *testing.T, src string, opts ...Option) *Result {
	t.Helper()
	res, err := LintString(src, opts...)
	require.NoError(t, err)
	return res
}

func TestLintCleanInstrument(t *testing.T) {
	src := `// a small kit
<control> set_cc4=63
<global> volume=-3
<group> trigger=attack
<region> sample=*sine lokey=c4 hikey=c5 tune=-400
`
	res := lint(t, src)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Doc.Headers, 4)
}

func TestLintUnknownOpcode(t *testing.T) {
	res := lint(t, "<region> foo=bar")
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	require.Equal(t, SeverityWarning, d.Severity)
	require.Equal(t, sfz.DiagUnknownOpcode, d.Code)
	require.Empty(t, res.Errors())
}

func TestLintVersionFilter(t *testing.T) {
	res := lint(t, "<region> note_offset=12", WithSpecVersions("v1"))
	require.Len(t, res.Errors(), 1)
	require.Contains(t, res.Errors()[0].Message, "opcode spec aria is not one of")

	res = lint(t, "<region> note_offset=12", WithSpecVersions("aria"))
	require.Empty(t, res.Diagnostics)
}

func TestLintDialectBounds(t *testing.T) {
	res := lint(t, "<region> tune=-400", WithSpecVersions("v1"))
	require.Len(t, res.Errors(), 1)
	require.Contains(t, res.Errors()[0].Message, "not in range -100 to 100")

	res = lint(t, "<region> tune=-400")
	require.Empty(t, res.Diagnostics)
}

func TestLintControlCodeRange(t *testing.T) {
	res := lint(t, "<region> amplitude_oncc420=50")
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, SeverityWarning, res.Diagnostics[0].Severity)
	require.Equal(t, sfz.DiagControlCodeRange, res.Diagnostics[0].Code)
}

func TestLintDefines(t *testing.T) {
	res := lint(t, "#define $cool_key 42\n<region> hivel=$cool_key")
	require.Empty(t, res.Diagnostics)

	got, ok := res.Doc.Regions()[0].Get("hivel")
	require.True(t, ok)
	require.Equal(t, int64(42), got.Value.Int)
}

func TestLintDeferredCurves(t *testing.T) {
	res := lint(t, "<region> amplitude_curvecc1=9\n<curve> curve_index=9 v000=0 v127=1")
	require.Empty(t, res.Diagnostics)

	res = lint(t, "<region> amplitude_curvecc1=9")
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, SeverityWarning, res.Diagnostics[0].Severity)
	require.Equal(t, sfz.DiagCurveIndexMissing, res.Diagnostics[0].Code)
}

func TestLintIdempotent(t *testing.T) {
	src := "<region> foo=bar tune=-400 amplitude_curvecc1=9"
	first := lint(t, src, WithSpecVersions("v1"))
	second := lint(t, src, WithSpecVersions("v1"))
	require.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestLintParseError(t *testing.T) {
	res := lint(t, "<region> lokey")
	require.NotEmpty(t, res.Errors())
	require.Equal(t, sfz.DiagParseError, res.Errors()[0].Code)
}

func TestLintFileWithIncludes(t *testing.T) {
	fs := testutil.MapFS{
		"/kit/main.sfz":          "#define $dir samples\n<region> sample=$dir/kick.wav\n#include \"more.sfz\"\n",
		"/kit/more.sfz":          "<region> sample=samples/snare.wav\n",
		"/kit/samples/kick.wav":  "",
		"/kit/samples/snare.wav": "",
	}
	res, err := LintFile("/kit/main.sfz", WithFileSystem(fs))
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Doc.Regions(), 2)
	require.Equal(t, []string{"more.sfz"}, res.Doc.Includes)
}

func TestLintFileSampleCase(t *testing.T) {
	fs := testutil.MapFS{
		"/kit/main.sfz": "<region> sample=Kick.wav\n",
		"/kit/kick.wav": "",
	}
	res, err := LintFile("/kit/main.sfz", WithFileSystem(fs))
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, sfz.DiagSampleNotFound, res.Diagnostics[0].Code)
}

func TestLintFileMissing(t *testing.T) {
	_, err := LintFile("/nowhere/gone.sfz", WithFileSystem(testutil.MapFS{}))
	require.Error(t, err)
}

func TestLintStringSkipsPathChecks(t *testing.T) {
	res := lint(t, "<region> sample=missing.wav")
	require.Empty(t, res.Diagnostics)
}

func TestUnknownSpecVersion(t *testing.T) {
	_, err := LintString("<region> lokey=1", WithSpecVersions("v9"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown spec version")
}

func TestKnownVersions(t *testing.T) {
	require.Contains(t, KnownVersions(), "aria")
	require.Contains(t, KnownVersions(), "cakewalk_v2")
}

func TestRules(t *testing.T) {
	rules, err := Rules()
	require.NoError(t, err)
	require.Greater(t, len(rules), 150)

	byName := make(map[string]RuleInfo, len(rules))
	for _, r := range rules {
		byName[r.Name] = r
	}
	require.Equal(t, "v1", byName["tune"].Ver)
	require.Contains(t, byName["tune"].Validator, "Switch")
	require.Equal(t, "ampeg_attack", byName["ampeg_attackccN"].Modulates)
}

func TestNormalizeOpcode(t *testing.T) {
	canonical, err := NormalizeOpcode("eq3_bwcc25")
	require.NoError(t, err)
	require.Equal(t, "eqN_bwccX", canonical)

	_, err = NormalizeOpcode("a1b2c3d4")
	require.Error(t, err)
}

func TestDiagnosticFormat(t *testing.T) {
	fs := testutil.MapFS{"/kit/main.sfz": "<region> foo=bar\n"}
	res, err := LintFile("/kit/main.sfz", WithFileSystem(fs))
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, "/kit/main.sfz:1:10:WARN unknown opcode (foo)", res.Diagnostics[0].String())
}
