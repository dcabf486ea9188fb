// Package schema - Input schema registry
// Holds the reusable input definitions and, per calculator, which of them
// are mandatory and which optional. Populated once at start-up, then sealed.
package schema

import (
	"fmt"
)

// InputType governs how an input is parsed and validated
type InputType string

const (
	TypeNumber   InputType = "number"
	TypeSelect   InputType = "select"
	TypeCheckbox InputType = "checkbox"
	TypeText     InputType = "text"
)

// Valid reports whether t is a known input type
func (t InputType) Valid() bool {
	switch t {
	case TypeNumber, TypeSelect, TypeCheckbox, TypeText:
		return true
	default:
		return false
	}
}

// Option is one choice of a select input. Only Value reaches formulas.
type Option struct {
	Value interface{} `json:"value" yaml:"value"`
	Label string      `json:"label" yaml:"label"`
}

// InputField describes one user-facing input
type InputField struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	Description string      `json:"description,omitempty"`
	Type        InputType   `json:"type"`
	Default     interface{} `json:"default,omitempty"`
	Min         *float64    `json:"min,omitempty"`
	Max         *float64    `json:"max,omitempty"`
	Unit        string      `json:"unit,omitempty"`
	Options     []Option    `json:"options,omitempty"`

	// Conditional names another input whose truthy value makes this one visible
	Conditional string `json:"conditional,omitempty"`

	// Required is set when the field is resolved for a specific calculator
	Required bool `json:"required"`
}

// Validate checks the definition is internally consistent
func (f InputField) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("input definition has no id")
	}
	if !f.Type.Valid() {
		return fmt.Errorf("input %q: unknown type %q", f.ID, f.Type)
	}
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return fmt.Errorf("input %q: min %v is greater than max %v", f.ID, *f.Min, *f.Max)
	}
	if f.Type == TypeSelect && len(f.Options) == 0 {
		return fmt.Errorf("input %q: select input has no options", f.ID)
	}
	if f.Conditional == f.ID && f.ID != "" {
		return fmt.Errorf("input %q: conditional on itself", f.ID)
	}
	return nil
}

// DisplayLabel returns the label, falling back to the id
func (f InputField) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

// DefaultValue returns the declared default, or the zero value for the type:
// 0 for numbers, false for checkboxes, the first option for selects and an
// empty string otherwise.
func (f InputField) DefaultValue() interface{} {
	if f.Default != nil {
		return f.Default
	}
	switch f.Type {
	case TypeNumber:
		return 0.0
	case TypeCheckbox:
		return false
	case TypeSelect:
		if len(f.Options) > 0 {
			return f.Options[0].Value
		}
		return ""
	default:
		return ""
	}
}

// HasOption reports whether v matches one of the select options
func (f InputField) HasOption(v interface{}) bool {
	s := fmt.Sprint(v)
	for _, o := range f.Options {
		if fmt.Sprint(o.Value) == s {
			return true
		}
	}
	return false
}

// Float is a convenience for declaring bounds
func Float(v float64) *float64 {
	return &v
}
