package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"calcengine/core/calculator"
	"calcengine/core/mapper"
	"calcengine/core/schema"
)

// Document is the content of one definition file
type Document struct {
	CalculatorInputs map[string]schema.CalculatorInputs `yaml:"calculatorInputs"`
	InputDefinitions map[string]InputSpec               `yaml:"inputDefinitions"`
	Calculators      []CalculatorSpec                   `yaml:"calculators"`
	Aliases          mapper.AliasTable                  `yaml:"aliases"`
	CalculatorSlugs  map[string]string                  `yaml:"calculatorSlugs"`
}

// InputSpec is an input definition as written in a file. Inline inputs of
// a calculator carry their id and required flag; master definitions take
// the id from their key.
type InputSpec struct {
	ID          string          `yaml:"id"`
	Label       string          `yaml:"label"`
	Description string          `yaml:"description"`
	Type        string          `yaml:"type"`
	Default     interface{}     `yaml:"default"`
	Min         *float64        `yaml:"min"`
	Max         *float64        `yaml:"max"`
	Unit        string          `yaml:"unit"`
	Options     []schema.Option `yaml:"options"`
	Conditional string          `yaml:"conditional"`
	Required    bool            `yaml:"required"`
}

// Field converts the entry to a schema field. A missing type means number.
func (s InputSpec) Field(id string) schema.InputField {
	t := schema.InputType(s.Type)
	if t == "" {
		t = schema.TypeNumber
	}
	return schema.InputField{
		ID:          id,
		Label:       s.Label,
		Description: s.Description,
		Type:        t,
		Default:     s.Default,
		Min:         s.Min,
		Max:         s.Max,
		Unit:        s.Unit,
		Options:     s.Options,
		Conditional: s.Conditional,
	}
}

// CalculatorSpec is a calculator as written in a file
type CalculatorSpec struct {
	ID      string          `yaml:"id"`
	Slug    string          `yaml:"slug"`
	Name    string          `yaml:"name"`
	Inputs  []InputSpec     `yaml:"inputs"`
	Formula OrderedFormulas `yaml:"formula"`
}

// Definition converts the entry to a calculator definition
func (s CalculatorSpec) Definition() calculator.Definition {
	def := calculator.Definition{
		ID:      s.ID,
		Slug:    s.Slug,
		Name:    s.Name,
		Outputs: append([]calculator.Output(nil), s.Formula...),
	}
	for _, in := range s.Inputs {
		def.Inputs = append(def.Inputs, calculator.InputRef{ID: in.ID, Required: in.Required})
	}
	return def
}

// OrderedFormulas keeps formulas in the order the file declares them
type OrderedFormulas []calculator.Output

// UnmarshalYAML accepts either a mapping of output name to formula or a
// sequence of {name, formula} entries
func (f *OrderedFormulas) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(OrderedFormulas, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: formula for %q must be a string", val.Line, key.Value)
			}
			out = append(out, calculator.Output{Name: key.Value, Formula: val.Value})
		}
		*f = out
		return nil

	case yaml.SequenceNode:
		var entries []calculator.Output
		if err := node.Decode(&entries); err != nil {
			return err
		}
		*f = entries
		return nil

	default:
		return fmt.Errorf("line %d: formula must be a mapping or a list", node.Line)
	}
}
