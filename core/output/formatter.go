// Package output provides output formatting for calculator results.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"calcengine/core/engine"
	"calcengine/core/ui"
	"calcengine/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown table
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the reports
	Render(w io.Writer, reports []Report) error
}

// Report is one calculator run prepared for display
type Report struct {
	// Calculator is the engine id
	Calculator string `json:"calculator"`

	// Name is the display name
	Name string `json:"name,omitempty"`

	// Inputs are the values supplied by the caller
	Inputs map[string]interface{} `json:"inputs,omitempty"`

	// Outputs are in declaration order
	Outputs []Line `json:"outputs"`

	// Error is set when the calculator could not run at all
	Error string `json:"error,omitempty"`
}

// Line is one output value
type Line struct {
	Name    string          `json:"name"`
	Value   decimal.Decimal `json:"value"`
	Formula string          `json:"formula,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Options control how results become reports
type Options struct {
	// Precision is the number of decimal places kept
	Precision int32

	// Explain keeps formulas on each line
	Explain bool
}

// NewReport converts an engine result. Values are rounded half away from
// zero to the requested precision.
func NewReport(name string, inputs map[string]interface{}, result engine.Result, opts Options) Report {
	r := Report{
		Calculator: result.Calculator,
		Name:       name,
		Inputs:     inputs,
		Outputs:    make([]Line, 0, len(result.Outputs)),
	}
	for _, o := range result.Outputs {
		line := Line{
			Name:  o.Name,
			Value: decimal.NewFromFloat(o.Value).Round(opts.Precision),
		}
		if opts.Explain {
			line.Formula = o.Formula
		}
		if o.Err != nil {
			line.Error = o.Err.Error()
		}
		r.Outputs = append(r.Outputs, line)
	}
	return r
}

// Failed counts lines that fell back to zero
func (r Report) Failed() int {
	n := 0
	for _, l := range r.Outputs {
		if l.Error != "" {
			n++
		}
	}
	return n
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates a registry with the built-in formatters
func NewRegistry(noColor bool) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	_ = r.Register(&TableFormatter{NoColor: noColor})
	_ = r.Register(JSONFormatter{})
	_ = r.Register(MarkdownFormatter{})
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.formatters[f.Format()]; exists {
		return errors.Newf(errors.TypeConfig, "formatter %q already registered", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	if !ok {
		return nil, errors.NotSupported(fmt.Sprintf("output format %q (have %s)", format, strings.Join(r.namesLocked(), ", ")))
	}
	return f, nil
}

// Formats lists the registered formats
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.formatters))
	for f := range r.formatters {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// JSONFormatter writes indented JSON: a single object for one report and
// an array otherwise
type JSONFormatter struct{}

// Format implements Formatter
func (JSONFormatter) Format() Format { return FormatJSON }

// Render implements Formatter
func (JSONFormatter) Render(w io.Writer, reports []Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(reports) == 1 {
		return enc.Encode(reports[0])
	}
	return enc.Encode(reports)
}

// TableFormatter writes one aligned table per report
type TableFormatter struct {
	NoColor bool
}

// Format implements Formatter
func (*TableFormatter) Format() Format { return FormatTable }

// Render implements Formatter
func (f *TableFormatter) Render(w io.Writer, reports []Report) error {
	out := ui.NewWriter(w, f.NoColor)
	for i, r := range reports {
		if i > 0 {
			out.Println("")
		}
		title := r.Calculator
		if r.Name != "" && r.Name != r.Calculator {
			title = fmt.Sprintf("%s (%s)", r.Name, r.Calculator)
		}
		out.Header(title)

		if r.Error != "" {
			out.Error("%s", r.Error)
			continue
		}

		explain := false
		for _, l := range r.Outputs {
			if l.Formula != "" {
				explain = true
				break
			}
		}
		headers := []string{"OUTPUT", "VALUE"}
		if explain {
			headers = append(headers, "FORMULA")
		}
		table := out.NewTable(headers...)
		for _, l := range r.Outputs {
			table.AddRow(l.Name, l.Value.String(), l.Formula)
		}
		table.Render()

		for _, l := range r.Outputs {
			if l.Error != "" {
				out.Warning("%s: %s", l.Name, l.Error)
			}
		}
	}
	return nil
}

// MarkdownFormatter writes GitHub-flavoured markdown tables
type MarkdownFormatter struct{}

// Format implements Formatter
func (MarkdownFormatter) Format() Format { return FormatMarkdown }

// Render implements Formatter
func (MarkdownFormatter) Render(w io.Writer, reports []Report) error {
	var sb strings.Builder
	for i, r := range reports {
		if i > 0 {
			sb.WriteString("\n")
		}
		title := r.Name
		if title == "" {
			title = r.Calculator
		}
		fmt.Fprintf(&sb, "### %s\n\n", title)
		if r.Error != "" {
			fmt.Fprintf(&sb, "> %s\n", r.Error)
			continue
		}
		sb.WriteString("| Output | Value |\n|---|---:|\n")
		for _, l := range r.Outputs {
			value := l.Value.String()
			if l.Error != "" {
				value += " ⚠"
			}
			fmt.Fprintf(&sb, "| %s | %s |\n", l.Name, value)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
