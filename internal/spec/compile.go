package spec

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// The declarative opcode-rule source mirrors the sfzformat.com syntax data:
// categories hold opcodes (and nested type sub-categories), each opcode
// carrying its version, value/index constraints, aliases, and modulation
// sub-opcode families.

type yamlFile struct {
	Categories []yamlCategory `yaml:"categories"`
}

type yamlCategory struct {
	Name    string         `yaml:"name"`
	Opcodes []yamlOpcode   `yaml:"opcodes"`
	Types   []yamlCategory `yaml:"types"`
}

type yamlOpcode struct {
	Name       string               `yaml:"name"`
	Version    string               `yaml:"version"`
	Value      *yamlConstraint      `yaml:"value"`
	Index      *yamlConstraint      `yaml:"index"`
	Alias      []yamlAlias          `yaml:"alias"`
	Modulation map[string]yaml.Node `yaml:"modulation"`
}

type yamlConstraint struct {
	TypeName string       `yaml:"type_name"`
	Min      any          `yaml:"min"`
	Max      any          `yaml:"max"`
	Options  []yamlOption `yaml:"options"`
}

type yamlOption struct {
	Name string `yaml:"name"`
}

type yamlAlias struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Compile parses the declarative source and builds the rule table, applying
// the irregular-opcode overrides afterwards.
func Compile(src []byte) (*Table, error) {
	var file yamlFile
	if err := yaml.Unmarshal(src, &file); err != nil {
		return nil, fmt.Errorf("parsing opcode syntax source: %w", err)
	}

	t := newTable()
	if err := compileCategories(t, file.Categories); err != nil {
		return nil, err
	}
	applyOverrides(t)

	// Curve-referencing opcodes defer to the document's curve sections
	// regardless of what bounds the source data declares.
	for _, name := range t.names {
		if strings.Contains(name, "curvecc") {
			t.rules[name].Validator = CurveIndex()
		}
	}
	return t, nil
}

func compileCategories(t *Table, categories []yamlCategory) error {
	for _, cat := range categories {
		for _, op := range cat.Opcodes {
			if err := compileOpcode(t, op, "", ""); err != nil {
				return err
			}
		}
		if err := compileCategories(t, cat.Types); err != nil {
			return err
		}
	}
	return nil
}

func compileOpcode(t *Table, op yamlOpcode, modulates, modType string) error {
	if op.Name == "" {
		return fmt.Errorf("opcode without a name in syntax source")
	}
	rule := &Rule{
		Name:      op.Name,
		Ver:       VerCode(op.Version),
		Modulates: modulates,
		ModType:   modType,
		Validator: Any(),
	}
	if op.Value != nil {
		rule.Type = typeFor(op.Value.TypeName)
		rule.Validator = constraintValidator(op.Value)
	}
	if op.Index != nil {
		rule.Index = &SubRule{
			Type:      typeFor(op.Index.TypeName),
			Validator: constraintValidator(op.Index),
		}
	}
	t.add(rule)

	for _, alias := range op.Alias {
		ver := rule.Ver
		if alias.Version != "" {
			ver = VerCode(alias.Version)
		}
		t.add(&Rule{
			Name:      alias.Name,
			Ver:       ver,
			Validator: AliasOf(op.Name),
		})
	}

	return compileModulation(t, op.Modulation, op.Name)
}

func compileModulation(t *Table, modulation map[string]yaml.Node, parent string) error {
	for modType, node := range modulation {
		var mods []yamlOpcode
		if err := node.Decode(&mods); err != nil {
			// Some modulation entries are bare checkmarks, not sub-opcode
			// lists; nothing to compile for those.
			continue
		}
		for _, mod := range mods {
			if err := compileOpcode(t, mod, parent, modType); err != nil {
				return err
			}
		}
	}
	return nil
}

func typeFor(name string) Type {
	switch name {
	case "integer":
		return TypeInteger
	case "float":
		return TypeReal
	case "string":
		return TypeString
	default:
		return TypeUntyped
	}
}

func constraintValidator(c *yamlConstraint) Validator {
	if min, ok := toFloat(c.Min); ok {
		if max, ok := toFloat(c.Max); ok {
			return RangeOf(min, max)
		}
		// a non-numeric max (e.g. "SampleRate / 2") leaves only the lower
		// bound checkable
		return MinOf(min)
	}
	if len(c.Options) > 0 {
		choices := make([]string, len(c.Options))
		for i, o := range c.Options {
			choices[i] = o.Name
		}
		return ChoiceOf(choices...)
	}
	return Any()
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
