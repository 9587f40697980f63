package sfz

import (
	"fmt"
	"strings"
)

// Document is a fully built SFZ instrument: an ordered sequence of headers,
// the resolved macro definitions, and the include paths in declaration order.
type Document struct {
	Headers  []*Header
	Defines  map[string]Token // macro name (without '$') -> resolved value
	Includes []string
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Defines: make(map[string]Token)}
}

// Regions returns the headers tagged "region", in document order.
func (d *Document) Regions() []*Header {
	var regions []*Header
	for _, h := range d.Headers {
		if h.Tag == "region" {
			regions = append(regions, h)
		}
	}
	return regions
}

// Curves returns the curve headers keyed by their curve_index opcode value.
// Curve headers without an integer curve_index are skipped.
func (d *Document) Curves() map[int64]*Header {
	curves := make(map[int64]*Header)
	for _, h := range d.Headers {
		if h.Tag != "curve" {
			continue
		}
		tok, ok := h.Get("curve_index")
		if !ok || tok.Value.Kind != ValueInt {
			continue
		}
		curves[tok.Value.Int] = h
	}
	return curves
}

// stringCutoff bounds how many lines String emits before truncating.
const stringCutoff = 20

// String is a lax reconstruction of the document for diagnostics. It is not
// a canonical serialization; output is truncated past a fixed line count.
func (d *Document) String() string {
	var b strings.Builder
	lines := 0
	emit := func(format string, args ...any) bool {
		if lines == stringCutoff {
			b.WriteString("...")
			return false
		}
		fmt.Fprintf(&b, format, args...)
		lines++
		return true
	}
	for _, inc := range d.Includes {
		if !emit("#include %q\n", inc) {
			return b.String()
		}
	}
	for _, h := range d.Headers {
		if !emit("<%s>\n", h.Tag) {
			return b.String()
		}
		for _, op := range h.Opcodes() {
			tok, _ := h.Get(op)
			if !emit("%s=%s\n", op, tok.Value) {
				return b.String()
			}
		}
	}
	return b.String()
}
