package spec

import (
	_ "embed"
	"sync"
)

//go:embed syntax.yml
var embeddedSyntax []byte

// Table is the compiled opcode rule index. It is immutable after Compile
// and safe for concurrent readers; pass it by reference into every
// validation context rather than relying on ambient state.
type Table struct {
	rules map[string]*Rule
	names []string // declaration order, for stable listings
}

func newTable() *Table {
	return &Table{rules: make(map[string]*Rule)}
}

func (t *Table) add(r *Rule) {
	if _, exists := t.rules[r.Name]; !exists {
		t.names = append(t.names, r.Name)
	}
	t.rules[r.Name] = r
}

// Lookup returns the rule for a canonical opcode name.
func (t *Table) Lookup(name string) (*Rule, bool) {
	r, ok := t.rules[name]
	return r, ok
}

// Names returns all canonical opcode names in declaration order. The caller
// must not modify the returned slice.
func (t *Table) Names() []string {
	return t.names
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.names)
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return Compile(embeddedSyntax)
})

// DefaultTable compiles the embedded syntax source once per process and
// returns the shared table. Tests that need a reduced table build their own
// with Compile.
func DefaultTable() (*Table, error) {
	return defaultTable()
}
