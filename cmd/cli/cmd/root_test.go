package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcengine/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"--quiet", "--no-color"}, args...))
	err := root.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "hourly-to-salary")
	assert.Contains(t, out, "ireland-hourly-to-salary")
	assert.Contains(t, out, "contractor-take-home")
	assert.Contains(t, out, "grossAnnual, pensionContribution")
}

func TestComputeJSON(t *testing.T) {
	out, err := run(t, "compute", "hourly-to-salary", "-i", "hourlyRate=20", "-i", "hoursPerWeek=40", "--format", "json")
	require.NoError(t, err)

	var report struct {
		Calculator string `json:"calculator"`
		Outputs    []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "hourly-to-salary", report.Calculator)

	values := make(map[string]string)
	names := make([]string, 0, len(report.Outputs))
	for _, o := range report.Outputs {
		values[o.Name] = o.Value
		names = append(names, o.Name)
	}
	assert.Equal(t, "41600", values["grossAnnual"])
	assert.Equal(t, "34780.4", values["netAnnual"])
	assert.Equal(t, "grossAnnual", names[0], "declaration order")
}

func TestComputeTableBySlugWithExplain(t *testing.T) {
	out, err := run(t, "compute", "ireland-hourly-to-salary", "-i", "rate=20", "-i", "hours=40", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "FORMULA")
	assert.Contains(t, out, "hourlyRate * hoursPerWeek * weeksPerYear")
	assert.Contains(t, out, "34780.4")
}

func TestComputeUnknownCalculator(t *testing.T) {
	_, err := run(t, "compute", "no-such-calculator")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-calculator")
}

func TestComputeValidateFirst(t *testing.T) {
	out, err := run(t, "compute", "hourly-to-salary", "--validate", "-i", "hourlyRate=abc")
	require.Error(t, err)
	assert.Contains(t, out, "hourlyRate: Hourly rate must be a number")
	assert.Contains(t, out, "hoursPerWeek: Hours per week is required")
}

func TestComputeInputFile(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "in.json", `{"grossSalary": 60000, "payFrequency": "monthly"}`)

	out, err := run(t, "compute", "us-paycheck", "--input-file", file, "-f", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "| federalIncomeTax | 5161.5 |")
	assert.Contains(t, out, "| fica | 4590 |")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", "uk-take-home", "-i", "grossSalary=50000")
	require.NoError(t, err)
	assert.Contains(t, out, "inputs are valid")

	out, err = run(t, "validate", "uk-take-home", "-i", "grossSalary=-5")
	require.Error(t, err)
	assert.Contains(t, out, "must be at least 0")
}

func TestInputsVisibility(t *testing.T) {
	out, err := run(t, "inputs", "ireland-hourly-to-salary")
	require.NoError(t, err)
	line := lineWith(out, "pensionPercent")
	require.NotEmpty(t, line)
	assert.True(t, strings.HasSuffix(line, "no"), line)

	out, err = run(t, "inputs", "ireland-hourly-to-salary", "-i", "hasPension=true")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(lineWith(out, "pensionPercent"), "yes"))
}

func lineWith(out, prefix string) string {
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, prefix) {
			return strings.TrimSpace(l)
		}
	}
	return ""
}

func TestEval(t *testing.T) {
	out, err := run(t, "eval", "irelandTax(41600)")
	require.NoError(t, err)
	assert.Equal(t, "6819.6\n", out)

	out, err = run(t, "eval", "gross * rate", "-i", "gross=1000", "-i", "rate=0.123456", "--precision", "3")
	require.NoError(t, err)
	assert.Equal(t, "123.456\n", out)

	_, err = run(t, "eval", "missing + 1")
	assert.Error(t, err)

	_, err = run(t, "eval", "1 +")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "no findings")

	dir := t.TempDir()
	writeFile(t, dir, "extra.yaml", `
calculators:
  - id: sloppy
    formula:
      a: b + 1
      b: "2"
`)
	out, err = run(t, "check", dir)
	require.NoError(t, err, "warnings alone do not fail")
	assert.Contains(t, out, `forward reference to output "b"`)

	_, err = run(t, "--strict", "check", dir)
	assert.Error(t, err)

	writeFile(t, dir, "worse.yaml", `
calculators:
  - id: worse
    formula:
      a: launch(1)
`)
	_, err = run(t, "check", dir)
	assert.Error(t, err)

	out, err = run(t, "--catalog", dir, "list")
	require.NoError(t, err, "error findings are logged, not fatal")
	assert.Contains(t, out, "worse")

	_, err = run(t, "--strict", "--catalog", dir, "list")
	assert.Error(t, err, "strict mode refuses a catalog with findings")
}

func TestBadFormulaFailsOnlyItsOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", `
calculators:
  - id: broken
    formula:
      a: "1 +"
      b: "2 + 3"
  - id: fine
    formula:
      total: "40 + 2"
`)
	out, err := run(t, "--no-builtin", "--catalog", dir, "compute", "fine", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"value": "42"`)

	out, err = run(t, "--no-builtin", "--catalog", dir, "compute", "broken", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"value": "5"`)

	_, err = run(t, "--no-builtin", "--catalog", dir, "check")
	assert.Error(t, err)
}

func TestCustomCatalogOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tip.hcl", `
input "bill" {
  label   = "Bill"
  default = 100
  min     = 0
}

calculator "tip" {
  mandatory = ["bill"]
  output "tip" {
    formula = "bill * 0.15"
  }
  output "total" {
    formula = "bill + tip"
  }
}
`)
	out, err := run(t, "--no-builtin", "--catalog", dir, "compute", "tip", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"value": "115"`)

	out, err = run(t, "--no-builtin", "--catalog", dir, "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "hourly-to-salary")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "batch.yaml", `
- calculator: hourly-to-salary
  inputs: { hourlyRate: 20, hoursPerWeek: 40 }
- calculator: missing
- calculator: uk-take-home
  inputs: { salary: 50000 }
`)

	out, err := run(t, "batch", file, "--format", "json", "--workers", "2")
	require.NoError(t, err)

	var reports []struct {
		Calculator string `json:"calculator"`
		Error      string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 3)
	assert.Equal(t, "hourly-to-salary", reports[0].Calculator)
	assert.NotEmpty(t, reports[1].Error)
	assert.Equal(t, "uk-take-home", reports[2].Calculator)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "calc.toml", `
[output]
format = "json"
precision = 0
show_failures = true
`)
	out, err := run(t, "--config", cfg, "compute", "uk-take-home", "-i", "grossSalary=50000")
	require.NoError(t, err)
	assert.Contains(t, out, `"value": "39520"`)
	assert.Equal(t, int32(0), config.Get().Output.Precision)
}

func TestUnknownFormat(t *testing.T) {
	_, err := run(t, "compute", "uk-take-home", "--format", "html")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "calc version "))
}
