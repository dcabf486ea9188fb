package catalog

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"calcengine/core/calculator"
	"calcengine/core/mapper"
	"calcengine/core/schema"
	"calcengine/internal/errors"
)

// hclFile is the top-level structure of an HCL definition file
type hclFile struct {
	Inputs      []*hclInput      `hcl:"input,block"`
	Calculators []*hclCalculator `hcl:"calculator,block"`
	Aliases     []*hclAlias      `hcl:"alias,block"`
}

type hclInput struct {
	ID          string       `hcl:"id,label"`
	Label       string       `hcl:"label,optional"`
	Description string       `hcl:"description,optional"`
	Type        string       `hcl:"type,optional"`
	Default     cty.Value    `hcl:"default,optional"`
	Min         *float64     `hcl:"min,optional"`
	Max         *float64     `hcl:"max,optional"`
	Unit        string       `hcl:"unit,optional"`
	Conditional string       `hcl:"conditional,optional"`
	Options     []*hclOption `hcl:"option,block"`
}

type hclOption struct {
	Value cty.Value `hcl:"value"`
	Label string    `hcl:"label,optional"`
}

type hclCalculator struct {
	ID        string       `hcl:"id,label"`
	Name      string       `hcl:"name,optional"`
	Slug      string       `hcl:"slug,optional"`
	Mandatory []string     `hcl:"mandatory,optional"`
	Optional  []string     `hcl:"optional,optional"`
	Outputs   []*hclOutput `hcl:"output,block"`
}

type hclOutput struct {
	Name    string `hcl:"name,label"`
	Formula string `hcl:"formula"`
}

type hclAlias struct {
	From       string `hcl:"from,label"`
	To         string `hcl:"to"`
	Calculator string `hcl:"calculator,optional"`
}

// ParseHCL decodes an HCL definition file. Input blocks become master
// definitions; a calculator's mandatory and optional lists become its
// calculatorInputs entry under its slug.
func ParseHCL(data []byte, filename string) (Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return Document{}, errors.Wrap(errors.TypeConfig, "invalid HCL definition", diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return Document{}, errors.Wrap(errors.TypeConfig, "invalid HCL definition", diags)
	}

	doc := Document{
		InputDefinitions: make(map[string]InputSpec, len(parsed.Inputs)),
		CalculatorInputs: make(map[string]schema.CalculatorInputs, len(parsed.Calculators)),
		Aliases: mapper.AliasTable{
			Shared:      make(map[string]string),
			Calculators: make(map[string]map[string]string),
		},
	}

	for _, in := range parsed.Inputs {
		if _, dup := doc.InputDefinitions[in.ID]; dup {
			return Document{}, errors.Configf("%s: input %q declared twice", filename, in.ID)
		}
		spec, err := in.spec()
		if err != nil {
			return Document{}, errors.Wrapf(errors.TypeConfig, err, "%s: input %q", filename, in.ID)
		}
		doc.InputDefinitions[in.ID] = spec
	}

	for _, calc := range parsed.Calculators {
		spec := CalculatorSpec{ID: calc.ID, Slug: calc.Slug, Name: calc.Name}
		for _, o := range calc.Outputs {
			spec.Formula = append(spec.Formula, calculator.Output{Name: o.Name, Formula: o.Formula})
		}
		doc.Calculators = append(doc.Calculators, spec)

		if len(calc.Mandatory) > 0 || len(calc.Optional) > 0 {
			slug := calc.Slug
			if slug == "" {
				slug = calc.ID
			}
			doc.CalculatorInputs[slug] = schema.CalculatorInputs{
				Mandatory: calc.Mandatory,
				Optional:  calc.Optional,
			}
		}
	}

	for _, a := range parsed.Aliases {
		table := doc.Aliases.Shared
		if a.Calculator != "" {
			table = doc.Aliases.Calculators[a.Calculator]
			if table == nil {
				table = make(map[string]string)
				doc.Aliases.Calculators[a.Calculator] = table
			}
		}
		if prev, dup := table[a.From]; dup && prev != a.To {
			return Document{}, errors.Configf("%s: alias %q declared twice", filename, a.From)
		}
		table[a.From] = a.To
	}

	return doc, nil
}

func (in *hclInput) spec() (InputSpec, error) {
	def, err := ctyToGo(in.Default)
	if err != nil {
		return InputSpec{}, fmt.Errorf("default: %w", err)
	}

	spec := InputSpec{
		Label:       in.Label,
		Description: in.Description,
		Type:        in.Type,
		Default:     def,
		Min:         in.Min,
		Max:         in.Max,
		Unit:        in.Unit,
		Conditional: in.Conditional,
	}
	for i, o := range in.Options {
		v, err := ctyToGo(o.Value)
		if err != nil {
			return InputSpec{}, fmt.Errorf("option %d: %w", i, err)
		}
		spec.Options = append(spec.Options, schema.Option{Value: v, Label: o.Label})
	}
	return spec, nil
}

// ctyToGo converts a literal attribute value. Only primitive values are
// meaningful as input defaults and option values; an absent attribute
// converts to nil.
func ctyToGo(val cty.Value) (interface{}, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	switch val.Type() {
	case cty.String:
		return val.AsString(), nil
	case cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case cty.Bool:
		return val.True(), nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", val.Type().FriendlyName())
	}
}
