package spec

import "strings"

// Spec-version tags (dialects) in their internal spelling.
const (
	VerUnknown      = "unknown"
	VerV1           = "v1"
	VerV2           = "v2"
	VerAria         = "aria"
	VerLinuxSampler = "linuxsampler"
	VerCakewalk     = "cakewalk"
	// VerCakewalkV2 tags opcodes from the Cakewalk SFZ v2 draft, which no
	// player ever implemented. Using one always warns unless the dialect is
	// requested explicitly.
	VerCakewalkV2 = "cakewalk_v2"
)

// verNames maps the spellings used by the declarative syntax source to
// internal tags.
var verNames = map[string]string{
	"":                VerUnknown,
	"SFZ v1":          VerV1,
	"SFZ v2":          VerV2,
	"ARIA":            VerAria,
	"LinuxSampler":    VerLinuxSampler,
	"Cakewalk":        VerCakewalk,
	"Cakewalk SFZ v2": VerCakewalkV2,
}

// VerCode converts a declarative-source version name to its internal tag.
func VerCode(name string) string {
	if code, ok := verNames[name]; ok {
		return code
	}
	return strings.ToLower(name)
}

// hierarchy maps a requested dialect to the set of tags it accepts: later
// dialects include their ancestors.
var hierarchy = map[string][]string{
	VerV1:           {VerV1},
	VerV2:           {VerV1, VerV2},
	VerAria:         {VerV1, VerV2, VerAria},
	VerLinuxSampler: {VerV1, VerV2, VerLinuxSampler},
	VerCakewalk:     {VerV1, VerCakewalk},
	VerCakewalkV2:   {VerV1, VerCakewalk, VerCakewalkV2},
}

// KnownVersions lists the dialect tags a caller may request.
func KnownVersions() []string {
	return []string{VerV1, VerV2, VerAria, VerLinuxSampler, VerCakewalk, VerCakewalkV2}
}

// ExpandVersions expands requested dialect tags through the hierarchy into
// the full accepted set. A nil or empty request returns nil, meaning
// unrestricted.
func ExpandVersions(requested []string) map[string]bool {
	if len(requested) == 0 {
		return nil
	}
	accepted := make(map[string]bool)
	for _, tag := range requested {
		ancestors, ok := hierarchy[tag]
		if !ok {
			accepted[tag] = true
			continue
		}
		for _, a := range ancestors {
			accepted[a] = true
		}
	}
	return accepted
}

// ControlCodeCeiling returns the highest control-code number the given
// accepted-version set allows: 127 for canonical MIDI, 137 for SFZ v2
// extended codes, 155 for the ARIA dialect. An unrestricted (nil) filter
// allows the full ARIA range. Values above 155 are never valid.
func ControlCodeCeiling(accepted map[string]bool) int64 {
	switch {
	case accepted == nil || accepted[VerAria]:
		return 155
	case accepted[VerV2] || accepted[VerLinuxSampler]:
		return 137
	default:
		return 127
	}
}
