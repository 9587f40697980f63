package sfz

import (
	"fmt"
	"strings"
)

// TagMeta describes a header tag: the minimum spec version that defines it
// and whether the original format intended at most one per document.
type TagMeta struct {
	MinVersion string
	Singleton  bool
}

// HeaderTags maps the known header tags to their metadata.
var HeaderTags = map[string]TagMeta{
	"region":  {MinVersion: "v1"},
	"group":   {MinVersion: "v1"},
	"control": {MinVersion: "v2", Singleton: true},
	"global":  {MinVersion: "v2", Singleton: true},
	"curve":   {MinVersion: "v2"},
	"effect":  {MinVersion: "v2", Singleton: true},
	"master":  {MinVersion: "aria"},
	"midi":    {MinVersion: "aria", Singleton: true},
}

// Header is a bracketed section tag with an ordered, lowercase-keyed mapping
// from opcode name to its resolved value token. Later duplicate assignment
// overwrites the value but keeps the original insertion position.
type Header struct {
	Tag   string
	Token Token // the header tag token, for diagnostics

	order  []string
	values map[string]Token
}

// NewHeader constructs an empty header for the given tag token.
func NewHeader(tag string, tok Token) *Header {
	return &Header{
		Tag:    tag,
		Token:  tok,
		values: make(map[string]Token),
	}
}

// Set stores value under the lowercase opcode name, preserving insertion
// order. Returns true if the opcode was already present (the value is
// overwritten, last write wins).
func (h *Header) Set(opcode string, value Token) bool {
	key := strings.ToLower(opcode)
	if _, dup := h.values[key]; dup {
		h.values[key] = value
		return true
	}
	h.order = append(h.order, key)
	h.values[key] = value
	return false
}

// Get returns the value token for a (case-insensitive) opcode name.
func (h *Header) Get(opcode string) (Token, bool) {
	v, ok := h.values[strings.ToLower(opcode)]
	return v, ok
}

// Opcodes returns the opcode names in insertion order.
func (h *Header) Opcodes() []string {
	return h.order
}

// Len returns the number of distinct opcodes.
func (h *Header) Len() int {
	return len(h.order)
}

func (h *Header) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Header<%s>{", h.Tag)
	for i, k := range h.order {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", k, h.values[k].Value)
	}
	b.WriteByte('}')
	return b.String()
}
