// Package catalog - Catalog validation
// Load-time checks that formula references, input lists and aliases line
// up. Findings are reported, not fatal, unless strict mode asks for it.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"calcengine/core/expression"
	"calcengine/internal/errors"
)

// Severity ranks a finding
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the severity name
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Finding is one load-time observation about the catalog
type Finding struct {
	Severity   Severity `json:"severity"`
	Calculator string   `json:"calculator,omitempty"`
	Output     string   `json:"output,omitempty"`
	Message    string   `json:"message"`
}

// String formats the finding for reports
func (f Finding) String() string {
	var sb strings.Builder
	sb.WriteString(f.Severity.String())
	if f.Calculator != "" {
		sb.WriteString(" ")
		sb.WriteString(f.Calculator)
		if f.Output != "" {
			sb.WriteString(".")
			sb.WriteString(f.Output)
		}
	}
	sb.WriteString(": ")
	sb.WriteString(f.Message)
	return sb.String()
}

// Findings is a list of findings
type Findings []Finding

// Count returns the number of findings of a severity
func (fs Findings) Count(s Severity) int {
	n := 0
	for _, f := range fs {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// Err returns a configuration error when there are error findings, or
// warnings in strict mode
func (fs Findings) Err(strict bool) error {
	errs, warns := fs.Count(SeverityError), fs.Count(SeverityWarning)
	if errs > 0 || (strict && warns > 0) {
		return errors.Configf("catalog check failed: %d error(s), %d warning(s)", errs, warns)
	}
	return nil
}

// CheckRule inspects a built catalog
type CheckRule func(c *Catalog, b *Bundle) Findings

// DefaultCheckRules returns the standard load-time checks
func DefaultCheckRules() []CheckRule {
	return []CheckRule{
		checkUnresolvedInputs,
		checkFormulaReferences,
		checkUnusedAliases,
	}
}

// Check builds the catalog with the given functions and runs the rules.
// A catalog that does not build is returned as an error.
func (c *Catalog) Check(functions *expression.FunctionSet, rules ...CheckRule) (Findings, error) {
	b, err := c.Build(functions)
	if err != nil {
		return nil, err
	}
	return c.Inspect(b, rules...), nil
}

// Inspect runs rules, or the default rules when none are given, against a
// bundle built from this catalog
func (c *Catalog) Inspect(b *Bundle, rules ...CheckRule) Findings {
	if len(rules) == 0 {
		rules = DefaultCheckRules()
	}

	var findings Findings
	for _, rule := range rules {
		findings = append(findings, rule(c, b)...)
	}
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Calculator != findings[j].Calculator {
			return findings[i].Calculator < findings[j].Calculator
		}
		return findings[i].Severity > findings[j].Severity
	})
	return findings
}

// checkUnresolvedInputs reports input lists naming undefined inputs
func checkUnresolvedInputs(_ *Catalog, b *Bundle) Findings {
	var out Findings
	unresolved := b.Schema.Unresolved()
	for _, calc := range sortedKeys(unresolved) {
		for _, id := range unresolved[calc] {
			out = append(out, Finding{
				Severity:   SeverityWarning,
				Calculator: calc,
				Message:    fmt.Sprintf("input %q is not defined", id),
			})
		}
	}
	return out
}

// checkFormulaReferences resolves every name a formula uses against the
// calculator's inputs, their alias targets, earlier outputs and library
// constants
func checkFormulaReferences(_ *Catalog, b *Bundle) Findings {
	var out Findings

	for _, def := range b.Store.List() {
		slug := b.Mapper.MapCalculatorIDToSlug(def.ID)

		known := make(map[string]bool)
		for _, id := range def.InputIDs() {
			known[id] = true
		}
		if b.Schema.HasCalculator(slug) {
			for _, f := range b.Schema.CalculatorInputs(slug) {
				known[f.ID] = true
			}
		}
		for from, to := range b.Mapper.Aliases(slug) {
			if known[from] {
				known[to] = true
			}
		}

		declared := make(map[string]int, len(def.Outputs))
		for i, o := range def.Outputs {
			declared[o.Name] = i
		}

		for i, o := range def.Outputs {
			p, err := expression.Compile(o.Formula)
			if err != nil {
				out = append(out, Finding{Severity: SeverityError, Calculator: def.ID, Output: o.Name, Message: err.Error()})
				continue
			}

			ids, fns := p.References()
			for _, fn := range fns {
				if _, ok := b.Functions.Lookup(fn); !ok {
					out = append(out, Finding{
						Severity:   SeverityError,
						Calculator: def.ID,
						Output:     o.Name,
						Message:    fmt.Sprintf("unknown function %q", fn),
					})
				}
			}
			for _, id := range ids {
				if known[id] {
					continue
				}
				if _, ok := b.Functions.LookupConstant(id); ok {
					continue
				}
				if pos, ok := declared[id]; ok {
					if pos < i {
						continue
					}
					out = append(out, Finding{
						Severity:   SeverityWarning,
						Calculator: def.ID,
						Output:     o.Name,
						Message:    fmt.Sprintf("forward reference to output %q", id),
					})
					continue
				}
				out = append(out, Finding{
					Severity:   SeverityWarning,
					Calculator: def.ID,
					Output:     o.Name,
					Message:    fmt.Sprintf("unbound identifier %q", id),
				})
			}
		}
	}
	return out
}

// checkUnusedAliases reports alias targets no calculator accepts
func checkUnusedAliases(_ *Catalog, b *Bundle) Findings {
	accepted := make(map[string]bool)
	for _, id := range b.Schema.DefinitionIDs() {
		accepted[id] = true
	}
	targets := make(map[string]string)
	for from, to := range b.Mapper.Aliases("") {
		targets[from] = to
	}
	for _, def := range b.Store.List() {
		for _, id := range def.InputIDs() {
			accepted[id] = true
		}
		for from, to := range b.Mapper.Aliases(b.Mapper.MapCalculatorIDToSlug(def.ID)) {
			targets[from] = to
		}
	}

	var out Findings
	for _, from := range sortedKeys(targets) {
		if to := targets[from]; !accepted[to] {
			out = append(out, Finding{
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("alias %q targets %q, which is not an input of any calculator", from, to),
			})
		}
	}
	return out
}
