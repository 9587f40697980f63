package sfzlint

import (
	"fmt"

	"github.com/gosfz/sfzlint/internal/opcode"
)

// RuleInfo describes one opcode rule, for listings and tooling.
type RuleInfo struct {
	// Name is the canonical opcode name, with N/X/Y index placeholders.
	Name string
	// Ver is the dialect tag that introduced the opcode.
	Ver string
	// Validator is a human-readable rendering of the value constraint.
	Validator string
	// Modulates names the opcode this one modulates, if any.
	Modulates string
}

// Rules returns every known opcode rule in declaration order.
func Rules(opts ...Option) ([]RuleInfo, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	infos := make([]RuleInfo, 0, cfg.table.Len())
	for _, name := range cfg.table.Names() {
		r, ok := cfg.table.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("rule table inconsistent at %q", name)
		}
		infos = append(infos, RuleInfo{
			Name:      r.Name,
			Ver:       r.Ver,
			Validator: r.Validator.String(),
			Modulates: r.Modulates,
		})
	}
	return infos, nil
}

// NormalizeOpcode folds a concrete opcode name into its canonical templated
// form: eq3_bwcc25 becomes eqN_bwccX. The name comes back unchanged when it
// carries no indices.
func NormalizeOpcode(name string) (string, error) {
	m, err := opcode.Normalize(name)
	if err != nil {
		return "", err
	}
	return m.Canonical, nil
}
