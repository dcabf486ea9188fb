// Package calculator holds calculator definitions: the inputs a calculator
// reads and its output formulas in declaration order.
package calculator

import (
	"fmt"
)

// Output is one named formula. A formula may reference inputs, helper
// functions and any output declared before it.
type Output struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
}

// InputRef lists an input id with the calculator's own required overlay
type InputRef struct {
	ID       string `json:"id"`
	Required bool   `json:"required"`
}

// Definition is one computable unit
type Definition struct {
	ID      string     `json:"id"`
	Slug    string     `json:"slug,omitempty"`
	Name    string     `json:"name,omitempty"`
	Inputs  []InputRef `json:"inputs,omitempty"`
	Outputs []Output   `json:"outputs"`
}

// Validate checks the definition is usable
func (d Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("calculator has no id")
	}
	if len(d.Outputs) == 0 {
		return fmt.Errorf("calculator %q declares no outputs", d.ID)
	}

	seen := make(map[string]bool, len(d.Outputs))
	for i, o := range d.Outputs {
		if o.Name == "" {
			return fmt.Errorf("calculator %q: output %d has no name", d.ID, i)
		}
		if seen[o.Name] {
			return fmt.Errorf("calculator %q: output %q declared twice", d.ID, o.Name)
		}
		seen[o.Name] = true
	}

	inputs := make(map[string]bool, len(d.Inputs))
	for _, in := range d.Inputs {
		if in.ID == "" {
			return fmt.Errorf("calculator %q: input with no id", d.ID)
		}
		if inputs[in.ID] {
			return fmt.Errorf("calculator %q: input %q listed twice", d.ID, in.ID)
		}
		inputs[in.ID] = true
	}
	return nil
}

// OutputNames returns the output names in declaration order
func (d Definition) OutputNames() []string {
	names := make([]string, len(d.Outputs))
	for i, o := range d.Outputs {
		names[i] = o.Name
	}
	return names
}

// Output returns the output declared under name
func (d Definition) Output(name string) (Output, bool) {
	for _, o := range d.Outputs {
		if o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}

// InputIDs returns the ids of the declared inputs
func (d Definition) InputIDs() []string {
	ids := make([]string, len(d.Inputs))
	for i, in := range d.Inputs {
		ids[i] = in.ID
	}
	return ids
}

// DisplayName returns the name, falling back to the id
func (d Definition) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// Clone returns a deep copy
func (d Definition) Clone() Definition {
	c := d
	c.Inputs = append([]InputRef(nil), d.Inputs...)
	c.Outputs = append([]Output(nil), d.Outputs...)
	return c
}
